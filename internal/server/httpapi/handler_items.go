package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type itemsPage struct {
	Items []*models.Item `json:"items"`
	Total int            `json:"total"`
}

func (s *HTTPServer) handleListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q.Get("limit"))
	if err != nil {
		writeBadRequest(w, "invalid limit")
		return
	}
	offset, err := queryInt(q.Get("offset"))
	if err != nil {
		writeBadRequest(w, "invalid offset")
		return
	}

	items, total, err := s.items.ListItems(r.Context(), limit, offset)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*models.Item{}
	}
	writeJSON(w, http.StatusOK, itemsPage{Items: items, Total: total})
}

func (s *HTTPServer) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.items.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *HTTPServer) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var in services.ItemInput
	if !decodeJSON(w, r, &in) {
		return
	}

	item, err := s.items.CreateItem(r.Context(), userIDFromContext(r.Context()), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *HTTPServer) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var upd models.ItemUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}

	item, err := s.items.UpdateItem(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *HTTPServer) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.items.DeleteItem(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *HTTPServer) handleItemImageUpload(w http.ResponseWriter, r *http.Request) {
	upload, err := s.items.ItemImageUploadURL(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, upload)
}

func queryInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
