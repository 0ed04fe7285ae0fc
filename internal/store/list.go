package store

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/spesa/internal/model"
	"github.com/dukerupert/spesa/internal/storage"
)

const shoppingListsKey = "shoppingLists"

// ListUpdate carries a partial update for a list. Nil fields are untouched.
type ListUpdate struct {
	Name        *string `json:"name"`
	IsCompleted *bool   `json:"isCompleted"`
}

// ItemUpdate carries a partial update for an item. Nil fields are untouched.
type ItemUpdate struct {
	Name        *string `json:"name"`
	Quantity    *string `json:"quantity"`
	Price       *string `json:"price"`
	Category    *string `json:"category"`
	Notes       *string `json:"notes"`
	IsPurchased *bool   `json:"isPurchased"`
}

// ListStore owns the collection of shopping lists and every item within.
// Each mutation updates the in-memory collection and then writes the full
// collection as one snapshot. The store performs no validation and treats
// unknown ids as benign no-ops; callers that must distinguish "not found"
// from "updated" check existence first via GetList.
type ListStore struct {
	mu        sync.RWMutex
	snapshots *storage.Snapshots
	lists     []model.ShoppingList
	loading   bool

	// onChange, when set, is invoked after every successful mutation with
	// the mutated entity ("list" or "item"), the action, and the entity id.
	onChange func(entity, action, id string)
}

func NewListStore(snapshots *storage.Snapshots) *ListStore {
	return &ListStore{snapshots: snapshots, loading: true}
}

// OnChange registers a single change callback. Set it before Load.
func (s *ListStore) OnChange(fn func(entity, action, id string)) {
	s.onChange = fn
}

// Load reads the persisted collection. Until Load completes, mutations
// update memory but are not persisted, so an empty initial state can never
// clobber a saved snapshot.
func (s *ListStore) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var saved []model.ShoppingList
	if s.snapshots.Load(shoppingListsKey, &saved) {
		s.lists = saved
	}
	s.loading = false
}

// IsLoading reports whether the initial load has not yet completed.
func (s *ListStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// persistLocked writes the full collection snapshot. Callers hold s.mu.
func (s *ListStore) persistLocked() {
	if s.loading {
		return
	}
	s.snapshots.Save(shoppingListsKey, s.lists)
}

func (s *ListStore) notify(entity, action, id string) {
	if s.onChange != nil {
		s.onChange(entity, action, id)
	}
}

// findLocked returns the index of the list with the given id, or -1.
func (s *ListStore) findLocked(listID string) int {
	for i := range s.lists {
		if s.lists[i].ID == listID {
			return i
		}
	}
	return -1
}

// CreateList adds a new list to the front of the collection and returns it.
// Zero-valued fields get defaults: a fresh id, an empty item collection,
// and the current time. Caller-supplied values win over the defaults.
func (s *ListStore) CreateList(data model.ShoppingList) model.ShoppingList {
	list := data
	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = time.Now().UTC()
	}
	if list.Items == nil {
		list.Items = []model.Item{}
	}

	s.mu.Lock()
	s.lists = append([]model.ShoppingList{list}, s.lists...)
	s.persistLocked()
	s.mu.Unlock()

	s.notify("list", "created", list.ID)
	return list.Clone()
}

// GetList returns the list with the given id, or nil if not found.
func (s *ListStore) GetList(listID string) *model.ShoppingList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.findLocked(listID)
	if i < 0 {
		return nil
	}
	list := s.lists[i].Clone()
	return &list
}

// Lists returns the full collection, most recently created first.
func (s *ListStore) Lists() []model.ShoppingList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ShoppingList, len(s.lists))
	for i := range s.lists {
		out[i] = s.lists[i].Clone()
	}
	return out
}

// Active returns the lists not yet marked completed, preserving order.
func (s *ListStore) Active() []model.ShoppingList {
	return s.filter(false)
}

// Completed returns the lists marked completed, preserving order.
func (s *ListStore) Completed() []model.ShoppingList {
	return s.filter(true)
}

func (s *ListStore) filter(completed bool) []model.ShoppingList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.ShoppingList
	for i := range s.lists {
		if s.lists[i].IsCompleted == completed {
			out = append(out, s.lists[i].Clone())
		}
	}
	return out
}

// UpdateList merges updates into the matching list. Unknown id is a no-op.
func (s *ListStore) UpdateList(listID string, updates ListUpdate) {
	s.mu.Lock()
	i := s.findLocked(listID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	if updates.Name != nil {
		s.lists[i].Name = *updates.Name
	}
	if updates.IsCompleted != nil {
		s.lists[i].IsCompleted = *updates.IsCompleted
	}
	s.persistLocked()
	s.mu.Unlock()

	s.notify("list", "updated", listID)
}

// DeleteList removes the matching list permanently. Unknown id is a no-op.
func (s *ListStore) DeleteList(listID string) {
	s.mu.Lock()
	i := s.findLocked(listID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.lists = append(s.lists[:i:i], s.lists[i+1:]...)
	s.persistLocked()
	s.mu.Unlock()

	s.notify("list", "deleted", listID)
}

// MarkCompleted sets the list's completion flag. Both directions are valid:
// a completed list can be reopened.
func (s *ListStore) MarkCompleted(listID string, isCompleted bool) {
	s.UpdateList(listID, ListUpdate{IsCompleted: &isCompleted})
}

// AddItem appends an item to the target list and returns it. Zero-valued
// fields get defaults: a fresh id unique within the list, IsPurchased
// false. Returns nil without mutating anything if the list is unknown.
func (s *ListStore) AddItem(listID string, item model.Item) *model.Item {
	it := item
	if it.ID == "" {
		it.ID = uuid.NewString()
	}

	s.mu.Lock()
	i := s.findLocked(listID)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.lists[i].Items = append(s.lists[i].Items, it)
	s.persistLocked()
	s.mu.Unlock()

	s.notify("item", "created", it.ID)
	return &it
}

// findItemLocked returns the list and item indexes, or -1, -1.
func (s *ListStore) findItemLocked(listID, itemID string) (int, int) {
	i := s.findLocked(listID)
	if i < 0 {
		return -1, -1
	}
	for j := range s.lists[i].Items {
		if s.lists[i].Items[j].ID == itemID {
			return i, j
		}
	}
	return -1, -1
}

// UpdateItem merges updates into the matching item. Unknown list or item id
// is a no-op.
func (s *ListStore) UpdateItem(listID, itemID string, updates ItemUpdate) {
	s.mu.Lock()
	i, j := s.findItemLocked(listID, itemID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	it := &s.lists[i].Items[j]
	if updates.Name != nil {
		it.Name = *updates.Name
	}
	if updates.Quantity != nil {
		it.Quantity = *updates.Quantity
	}
	if updates.Price != nil {
		it.Price = *updates.Price
	}
	if updates.Category != nil {
		it.Category = *updates.Category
	}
	if updates.Notes != nil {
		it.Notes = *updates.Notes
	}
	if updates.IsPurchased != nil {
		it.IsPurchased = *updates.IsPurchased
	}
	s.persistLocked()
	s.mu.Unlock()

	s.notify("item", "updated", itemID)
}

// DeleteItem removes the matching item. Unknown list or item id is a no-op.
func (s *ListStore) DeleteItem(listID, itemID string) {
	s.mu.Lock()
	i, j := s.findItemLocked(listID, itemID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	items := s.lists[i].Items
	s.lists[i].Items = append(items[:j:j], items[j+1:]...)
	s.persistLocked()
	s.mu.Unlock()

	s.notify("item", "deleted", itemID)
}

// TogglePurchased flips the item's purchased flag and returns the updated
// item, or nil if the list or item is unknown.
func (s *ListStore) TogglePurchased(listID, itemID string) *model.Item {
	s.mu.Lock()
	i, j := s.findItemLocked(listID, itemID)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.lists[i].Items[j].IsPurchased = !s.lists[i].Items[j].IsPurchased
	it := s.lists[i].Items[j]
	s.persistLocked()
	s.mu.Unlock()

	s.notify("item", "updated", itemID)
	return &it
}

// Total sums price × quantity over the list's items. A missing or
// unparseable price counts as 0 and quantity as 1, so an item with only a
// name contributes nothing. An unknown list totals 0.
func (s *ListStore) Total(listID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.findLocked(listID)
	if i < 0 {
		return 0
	}

	var total float64
	for _, it := range s.lists[i].Items {
		price, err := strconv.ParseFloat(it.Price, 64)
		if err != nil {
			price = 0
		}
		qty, err := strconv.ParseFloat(it.Quantity, 64)
		if err != nil {
			qty = 1
		}
		total += price * qty
	}
	return total
}
