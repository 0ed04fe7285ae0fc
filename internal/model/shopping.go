package model

import "time"

// Category classifies items for display grouping and filtering.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// ShoppingList is a named collection of items for one shopping trip.
type ShoppingList struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Items       []Item    `json:"items"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Item is a single purchasable entry within a list. Quantity and Price are
// numeric-as-string fields entered free-form in the UI; the store never
// validates them and aggregate computations tolerate unparseable values.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Notes       string `json:"notes"`
	IsPurchased bool   `json:"isPurchased"`
}

// Clone returns a deep copy of the list. Items share no backing array with
// the original.
func (l ShoppingList) Clone() ShoppingList {
	c := l
	c.Items = make([]Item, len(l.Items))
	copy(c.Items, l.Items)
	return c
}

// PurchasedCount returns how many items have been marked purchased.
func (l ShoppingList) PurchasedCount() int {
	n := 0
	for _, item := range l.Items {
		if item.IsPurchased {
			n++
		}
	}
	return n
}

// Progress returns the purchased fraction as a percentage in [0, 100].
// A list with no items has zero progress.
func (l ShoppingList) Progress() float64 {
	if len(l.Items) == 0 {
		return 0
	}
	return float64(l.PurchasedCount()) / float64(len(l.Items)) * 100
}
