// Package backup exports and restores the persisted snapshots as a single
// passphrase-encrypted file, so a user can move their lists to another
// machine or keep an offline copy.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dukerupert/spesa/internal/storage"
)

// envelope bundles both snapshot keys. Raw JSON is carried through
// untouched so a restore reproduces exactly what was saved.
type envelope struct {
	ExportedAt    time.Time       `json:"exportedAt"`
	Categories    json.RawMessage `json:"categories"`
	ShoppingLists json.RawMessage `json:"shoppingLists"`
}

// Export writes an encrypted snapshot bundle to path.
func Export(adapter storage.Adapter, path, passphrase string) error {
	categories, err := adapter.Load("categories")
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	lists, err := adapter.Load("shoppingLists")
	if err != nil {
		return fmt.Errorf("load shopping lists: %w", err)
	}

	data, err := json.Marshal(envelope{
		ExportedAt:    time.Now().UTC(),
		Categories:    categories,
		ShoppingLists: lists,
	})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	encrypted, err := encrypt(data, passphrase)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, encrypted, 0600); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// Restore reads an encrypted bundle from path and overwrites the stored
// snapshots. Keys absent from the bundle are left untouched.
func Restore(adapter storage.Adapter, path, passphrase string) error {
	encrypted, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	data, err := decrypt(encrypted, passphrase)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	if len(env.Categories) > 0 && string(env.Categories) != "null" {
		if err := adapter.Save("categories", env.Categories); err != nil {
			return fmt.Errorf("restore categories: %w", err)
		}
	}
	if len(env.ShoppingLists) > 0 && string(env.ShoppingLists) != "null" {
		if err := adapter.Save("shoppingLists", env.ShoppingLists); err != nil {
			return fmt.Errorf("restore shopping lists: %w", err)
		}
	}
	return nil
}
