package store

import (
	"github.com/dukerupert/spesa/internal/model"
	"github.com/dukerupert/spesa/internal/storage"
)

const categoriesKey = "categories"

// defaultCategories is the fixed seed written on first run. The catalog has
// no mutation API, so after seeding it is effectively immutable.
var defaultCategories = []model.Category{
	{ID: "frutta-verdura", Name: "Frutta e Verdura", Icon: "🥦"},
	{ID: "pane-pasta", Name: "Pane e Pasta", Icon: "🍞"},
	{ID: "carne-pesce", Name: "Carne e Pesce", Icon: "🥩"},
	{ID: "latticini", Name: "Latticini", Icon: "🧀"},
	{ID: "surgelati", Name: "Surgelati", Icon: "🧊"},
	{ID: "bevande", Name: "Bevande", Icon: "🥤"},
	{ID: "casa", Name: "Casa e Pulizia", Icon: "🧹"},
	{ID: "altro", Name: "Altro", Icon: "📦"},
}

// CategoryCatalog holds the canonical set of categories for classifying
// items. It is read-only after the initial load.
type CategoryCatalog struct {
	snapshots  *storage.Snapshots
	categories []model.Category
	loading    bool
}

func NewCategoryCatalog(snapshots *storage.Snapshots) *CategoryCatalog {
	return &CategoryCatalog{snapshots: snapshots, loading: true}
}

// Load reads the persisted catalog, seeding and persisting the default set
// if none exists. It must be called once before the catalog is used.
func (c *CategoryCatalog) Load() {
	var saved []model.Category
	if c.snapshots.Load(categoriesKey, &saved) {
		c.categories = saved
	} else {
		c.categories = append([]model.Category(nil), defaultCategories...)
		c.snapshots.Save(categoriesKey, c.categories)
	}
	c.loading = false
}

// Loading reports whether the initial load has not yet completed.
func (c *CategoryCatalog) Loading() bool {
	return c.loading
}

// All returns the categories in stored order.
func (c *CategoryCatalog) All() []model.Category {
	out := make([]model.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Get returns the category with the given id, or nil if unknown. Items may
// reference ids the catalog does not know; callers substitute Fallback
// rather than treating that as an error.
func (c *CategoryCatalog) Get(id string) *model.Category {
	for i := range c.categories {
		if c.categories[i].ID == id {
			cat := c.categories[i]
			return &cat
		}
	}
	return nil
}

// Fallback is the placeholder shown for items whose category id is unknown.
func (c *CategoryCatalog) Fallback() model.Category {
	return model.Category{Name: "Categoria", Icon: "📦"}
}
