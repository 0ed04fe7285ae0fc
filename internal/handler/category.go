package handler

import (
	"net/http"

	"github.com/dukerupert/spesa/internal/store"
)

type CategoryHandler struct {
	catalog *store.CategoryCatalog
}

func NewCategoryHandler(catalog *store.CategoryCatalog) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.All())
}

// Get returns the category, or the generic placeholder with a 404 status so
// clients can render something for dangling item references.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	cat := h.catalog.Get(r.PathValue("id"))
	if cat == nil {
		writeJSON(w, http.StatusNotFound, h.catalog.Fallback())
		return
	}
	writeJSON(w, http.StatusOK, cat)
}
