package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/spesa/internal/handler"
	"github.com/dukerupert/spesa/internal/middleware"
	"github.com/dukerupert/spesa/internal/storage"
	"github.com/dukerupert/spesa/internal/store"
	ws "github.com/dukerupert/spesa/internal/websocket"
)

type Server struct {
	hub       *ws.Hub
	lists     *store.ListStore
	catalog   *store.CategoryCatalog
	listH     *handler.ListHandler
	categoryH *handler.CategoryHandler
	logger    *slog.Logger
}

// New wires the stores, performs their initial load, and builds handlers.
func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	snapshots := storage.NewSnapshots(
		storage.NewSQLite(db),
		storage.NewLogReporter(logger.With("component", "storage")),
	)

	catalog := store.NewCategoryCatalog(snapshots)
	catalog.Load()

	lists := store.NewListStore(snapshots)
	lists.OnChange(func(entity, action, id string) {
		hub.Broadcast(ws.NewMessage(entity, action, id))
	})
	lists.Load()

	return &Server{
		hub:       hub,
		lists:     lists,
		catalog:   catalog,
		listH:     handler.NewListHandler(lists, logger.With("component", "list")),
		categoryH: handler.NewCategoryHandler(catalog),
		logger:    logger,
	}
}

// Lists returns the shopping list store.
func (s *Server) Lists() *store.ListStore {
	return s.lists
}

// Catalog returns the category catalog.
func (s *Server) Catalog() *store.CategoryCatalog {
	return s.catalog
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	mux.HandleFunc("GET /api/categories", s.categoryH.List)
	mux.HandleFunc("GET /api/categories/{id}", s.categoryH.Get)

	mux.HandleFunc("GET /api/lists", s.listH.List)
	mux.HandleFunc("POST /api/lists", s.listH.Create)
	mux.HandleFunc("GET /api/lists/{id}", s.listH.Get)
	mux.HandleFunc("PUT /api/lists/{id}", s.listH.Update)
	mux.HandleFunc("DELETE /api/lists/{id}", s.listH.Delete)
	mux.HandleFunc("POST /api/lists/{id}/complete", s.listH.Complete)
	mux.HandleFunc("GET /api/lists/{id}/total", s.listH.Total)

	mux.HandleFunc("POST /api/lists/{list_id}/items", s.listH.CreateItem)
	mux.HandleFunc("PUT /api/lists/{list_id}/items/{id}", s.listH.UpdateItem)
	mux.HandleFunc("DELETE /api/lists/{list_id}/items/{id}", s.listH.DeleteItem)
	mux.HandleFunc("POST /api/lists/{list_id}/items/{id}/toggle", s.listH.ToggleItem)

	mux.HandleFunc("GET /ws", ws.Handler(s.hub, s.logger.With("component", "websocket")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
