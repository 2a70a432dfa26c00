package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sahanac12/lost-found/internal/model"
	"github.com/sahanac12/lost-found/internal/storage"
	"github.com/sahanac12/lost-found/internal/store"
)

// ItemsHandler handles item browsing endpoints.
type ItemsHandler struct {
	DB    *sql.DB
	Files *storage.Store
}

// List handles GET /api/items. Only active items are listed.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListActiveItems(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Photo handles GET /api/items/{id}/photo.
func (h *ItemsHandler) Photo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil || item.PhotoName == "" {
		http.NotFound(w, r)
		return
	}

	data, err := h.Files.Open(item.PhotoName)
	if err != nil {
		slog.Error("failed to read item photo", "item", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to read photo")
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write photo response", "error", err)
	}
}
