package server

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/spesa/internal/database"
	"github.com/dukerupert/spesa/internal/model"
)

func setupTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv := New(db, slog.Default())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, db
}

func doJSON(t *testing.T, method, url string, body any) (int, []byte) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func TestHealth(t *testing.T) {
	ts, _ := setupTestServer(t)

	status, body := doJSON(t, http.MethodGet, ts.URL+"/health", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	var got map[string]string
	json.Unmarshal(body, &got)
	if got["status"] != "ok" {
		t.Errorf("body = %s", body)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	ts, _ := setupTestServer(t)

	status, body := doJSON(t, http.MethodGet, ts.URL+"/api/categories", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	var categories []model.Category
	if err := json.Unmarshal(body, &categories); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(categories) != 8 {
		t.Errorf("len = %d, want 8", len(categories))
	}

	status, body = doJSON(t, http.MethodGet, ts.URL+"/api/categories/latticini", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	var cat model.Category
	json.Unmarshal(body, &cat)
	if cat.Name != "Latticini" {
		t.Errorf("name = %q", cat.Name)
	}

	// Unknown id responds 404 but still carries the placeholder.
	status, body = doJSON(t, http.MethodGet, ts.URL+"/api/categories/nope", nil)
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	json.Unmarshal(body, &cat)
	if cat.Name != "Categoria" {
		t.Errorf("fallback name = %q", cat.Name)
	}
}

func TestListLifecycle(t *testing.T) {
	ts, _ := setupTestServer(t)

	// Create a list.
	status, body := doJSON(t, http.MethodPost, ts.URL+"/api/lists", map[string]string{"name": "Weekly"})
	if status != http.StatusCreated {
		t.Fatalf("create list status = %d: %s", status, body)
	}
	var list model.ShoppingList
	json.Unmarshal(body, &list)
	if list.ID == "" || list.Name != "Weekly" || list.IsCompleted {
		t.Fatalf("created list = %+v", list)
	}

	// Add an item.
	status, body = doJSON(t, http.MethodPost, ts.URL+"/api/lists/"+list.ID+"/items", map[string]string{
		"name": "Milk", "quantity": "2", "price": "1.50", "category": "latticini",
	})
	if status != http.StatusCreated {
		t.Fatalf("create item status = %d: %s", status, body)
	}
	var item model.Item
	json.Unmarshal(body, &item)
	if item.ID == "" || item.IsPurchased {
		t.Fatalf("created item = %+v", item)
	}

	// Running total.
	status, body = doJSON(t, http.MethodGet, ts.URL+"/api/lists/"+list.ID+"/total", nil)
	if status != http.StatusOK {
		t.Fatalf("total status = %d", status)
	}
	var total map[string]float64
	json.Unmarshal(body, &total)
	if total["total"] != 3.00 {
		t.Errorf("total = %v, want 3.00", total["total"])
	}
	if total["items"] != 1 || total["purchased"] != 0 || total["progress"] != 0 {
		t.Errorf("summary = %v, want 1 item, none purchased", total)
	}

	// Toggle purchased.
	status, body = doJSON(t, http.MethodPost, ts.URL+"/api/lists/"+list.ID+"/items/"+item.ID+"/toggle", nil)
	if status != http.StatusOK {
		t.Fatalf("toggle status = %d", status)
	}
	json.Unmarshal(body, &item)
	if !item.IsPurchased {
		t.Error("expected purchased after toggle")
	}

	// Progress follows the toggle.
	_, body = doJSON(t, http.MethodGet, ts.URL+"/api/lists/"+list.ID+"/total", nil)
	json.Unmarshal(body, &total)
	if total["purchased"] != 1 || total["progress"] != 100 {
		t.Errorf("summary after toggle = %v, want fully purchased", total)
	}

	// Partial item update.
	status, body = doJSON(t, http.MethodPut, ts.URL+"/api/lists/"+list.ID+"/items/"+item.ID, map[string]string{"notes": "whole"})
	if status != http.StatusOK {
		t.Fatalf("update item status = %d", status)
	}
	json.Unmarshal(body, &item)
	if item.Notes != "whole" || item.Name != "Milk" {
		t.Errorf("updated item = %+v", item)
	}

	// Complete, then find it only in the completed partition.
	status, _ = doJSON(t, http.MethodPost, ts.URL+"/api/lists/"+list.ID+"/complete", nil)
	if status != http.StatusOK {
		t.Fatalf("complete status = %d", status)
	}
	var lists []model.ShoppingList
	_, body = doJSON(t, http.MethodGet, ts.URL+"/api/lists?status=completed", nil)
	json.Unmarshal(body, &lists)
	if len(lists) != 1 || lists[0].ID != list.ID {
		t.Errorf("completed partition = %v", lists)
	}
	_, body = doJSON(t, http.MethodGet, ts.URL+"/api/lists?status=active", nil)
	json.Unmarshal(body, &lists)
	if len(lists) != 0 {
		t.Errorf("active partition = %v", lists)
	}

	// Delete item and list.
	status, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/lists/"+list.ID+"/items/"+item.ID, nil)
	if status != http.StatusNoContent {
		t.Fatalf("delete item status = %d", status)
	}
	status, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/lists/"+list.ID, nil)
	if status != http.StatusNoContent {
		t.Fatalf("delete list status = %d", status)
	}
	status, _ = doJSON(t, http.MethodGet, ts.URL+"/api/lists/"+list.ID, nil)
	if status != http.StatusNotFound {
		t.Fatalf("get deleted list status = %d, want 404", status)
	}
}

func TestValidationAtBoundary(t *testing.T) {
	ts, _ := setupTestServer(t)

	status, _ := doJSON(t, http.MethodPost, ts.URL+"/api/lists", map[string]string{"name": "   "})
	if status != http.StatusBadRequest {
		t.Errorf("blank list name status = %d, want 400", status)
	}

	_, body := doJSON(t, http.MethodPost, ts.URL+"/api/lists", map[string]string{"name": "Weekly"})
	var list model.ShoppingList
	json.Unmarshal(body, &list)

	status, _ = doJSON(t, http.MethodPost, ts.URL+"/api/lists/"+list.ID+"/items", map[string]string{"name": ""})
	if status != http.StatusBadRequest {
		t.Errorf("blank item name status = %d, want 400", status)
	}
	status, _ = doJSON(t, http.MethodPost, ts.URL+"/api/lists/"+list.ID+"/items", map[string]string{"name": "Milk"})
	if status != http.StatusBadRequest {
		t.Errorf("missing category status = %d, want 400", status)
	}

	// Quantity defaults to "1" when absent.
	_, body = doJSON(t, http.MethodPost, ts.URL+"/api/lists/"+list.ID+"/items", map[string]string{"name": "Milk", "category": "latticini"})
	var item model.Item
	json.Unmarshal(body, &item)
	if item.Quantity != "1" {
		t.Errorf("quantity = %q, want default \"1\"", item.Quantity)
	}

	status, _ = doJSON(t, http.MethodPost, ts.URL+"/api/lists/missing/items", map[string]string{"name": "Milk", "category": "altro"})
	if status != http.StatusNotFound {
		t.Errorf("item into unknown list status = %d, want 404", status)
	}
}

func TestStatePersistsAcrossServers(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv1 := New(db, slog.Default())
	list := srv1.Lists().CreateList(model.ShoppingList{Name: "Weekly"})
	srv1.Lists().AddItem(list.ID, model.Item{Name: "Milk", Category: "latticini"})

	// A second server over the same database rehydrates the collection.
	srv2 := New(db, slog.Default())
	got := srv2.Lists().GetList(list.ID)
	if got == nil {
		t.Fatal("expected list after rehydration")
	}
	if len(got.Items) != 1 || got.Items[0].Name != "Milk" {
		t.Errorf("rehydrated items = %v", got.Items)
	}
	if srv2.Catalog().Loading() || srv2.Lists().IsLoading() {
		t.Error("stores should finish loading during New")
	}
}
