package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/spesa/internal/model"
	"github.com/dukerupert/spesa/internal/store"
)

// ListHandler exposes the shopping list store over JSON. All input
// validation lives here; the store accepts whatever it is given.
type ListHandler struct {
	lists  *store.ListStore
	logger *slog.Logger
}

func NewListHandler(lists *store.ListStore, logger *slog.Logger) *ListHandler {
	return &ListHandler{lists: lists, logger: logger}
}

type createListRequest struct {
	Name string `json:"name"`
}

type itemRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

type completeRequest struct {
	IsCompleted *bool `json:"isCompleted"`
}

func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	var lists []model.ShoppingList
	switch r.URL.Query().Get("status") {
	case "active":
		lists = h.lists.Active()
	case "completed":
		lists = h.lists.Completed()
	default:
		lists = h.lists.Lists()
	}
	if lists == nil {
		lists = []model.ShoppingList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	list := h.lists.CreateList(model.ShoppingList{Name: req.Name})
	h.logger.Info("list created", "id", list.ID, "name", list.Name)
	writeJSON(w, http.StatusCreated, list)
}

func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	list := h.lists.GetList(r.PathValue("id"))
	if list == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "list not found"})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if h.lists.GetList(id) == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "list not found"})
		return
	}

	var updates store.ListUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if updates.Name != nil {
		trimmed := strings.TrimSpace(*updates.Name)
		if trimmed == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
			return
		}
		updates.Name = &trimmed
	}

	h.lists.UpdateList(id, updates)
	updated := h.lists.GetList(id)
	if updated == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "list not found"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if h.lists.GetList(id) == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "list not found"})
		return
	}

	h.lists.DeleteList(id)
	w.WriteHeader(http.StatusNoContent)
}

// Complete sets the completion flag. An empty body marks the list
// completed; {"isCompleted": false} reopens it.
func (h *ListHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if h.lists.GetList(id) == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "list not found"})
		return
	}

	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	isCompleted := true
	if req.IsCompleted != nil {
		isCompleted = *req.IsCompleted
	}

	h.lists.MarkCompleted(id, isCompleted)
	updated := h.lists.GetList(id)
	if updated == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "list not found"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Total reports the running cost together with the purchase progress the
// list page header shows.
func (h *ListHandler) Total(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	list := h.lists.GetList(id)
	if list == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "list not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{
		"total":     h.lists.Total(id),
		"items":     float64(len(list.Items)),
		"purchased": float64(list.PurchasedCount()),
		"progress":  list.Progress(),
	})
}

func (h *ListHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("list_id")

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Category == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category is required"})
		return
	}
	if req.Quantity == "" {
		req.Quantity = "1"
	}

	item := h.lists.AddItem(listID, model.Item{
		Name:     req.Name,
		Quantity: req.Quantity,
		Price:    req.Price,
		Category: req.Category,
		Notes:    req.Notes,
	})
	if item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "list not found"})
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *ListHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("list_id")
	itemID := r.PathValue("id")
	if h.findItem(listID, itemID) == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	var updates store.ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if updates.Name != nil {
		trimmed := strings.TrimSpace(*updates.Name)
		if trimmed == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
			return
		}
		updates.Name = &trimmed
	}

	h.lists.UpdateItem(listID, itemID, updates)
	updated := h.findItem(listID, itemID)
	if updated == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("list_id")
	itemID := r.PathValue("id")
	if h.findItem(listID, itemID) == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	h.lists.DeleteItem(listID, itemID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	item := h.lists.TogglePurchased(r.PathValue("list_id"), r.PathValue("id"))
	if item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ListHandler) findItem(listID, itemID string) *model.Item {
	list := h.lists.GetList(listID)
	if list == nil {
		return nil
	}
	for i := range list.Items {
		if list.Items[i].ID == itemID {
			return &list.Items[i]
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
