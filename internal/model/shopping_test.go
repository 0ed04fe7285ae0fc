package model

import "testing"

func TestPurchasedCount(t *testing.T) {
	list := ShoppingList{Name: "Weekly"}
	if got := list.PurchasedCount(); got != 0 {
		t.Errorf("empty list purchased = %d, want 0", got)
	}

	list.Items = []Item{
		{Name: "Milk", IsPurchased: true},
		{Name: "Bread"},
		{Name: "Cheese", IsPurchased: true},
		{Name: "Wine"},
	}
	if got := list.PurchasedCount(); got != 2 {
		t.Errorf("purchased = %d, want 2", got)
	}
}

func TestProgress(t *testing.T) {
	list := ShoppingList{Name: "Weekly"}
	if got := list.Progress(); got != 0 {
		t.Errorf("empty list progress = %v, want 0", got)
	}

	list.Items = []Item{
		{Name: "Milk", IsPurchased: true},
		{Name: "Bread"},
	}
	if got := list.Progress(); got != 50 {
		t.Errorf("progress = %v, want 50", got)
	}

	list.Items[1].IsPurchased = true
	if got := list.Progress(); got != 100 {
		t.Errorf("progress = %v, want 100", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	list := ShoppingList{Name: "Weekly", Items: []Item{{Name: "Milk"}}}

	c := list.Clone()
	c.Items[0].Name = "Bread"

	if list.Items[0].Name != "Milk" {
		t.Errorf("clone mutation leaked into original: %q", list.Items[0].Name)
	}
}
