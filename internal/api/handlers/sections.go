package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keepsake-app/backend/internal/api/middleware"
	"github.com/keepsake-app/backend/internal/storage"
	"github.com/keepsake-app/backend/internal/storage/models"
)

type createSectionRequest struct {
	Name     string  `json:"name"`
	HeaderID *string `json:"header_id,omitempty"`
}

// ListSections returns all card sections.
func ListSections(sections *storage.SectionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := sections.List(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query sections")
			return
		}

		if list == nil {
			list = []models.Section{}
		}
		middleware.WriteJSON(w, http.StatusOK, list)
	}
}

// CreateSection adds a card section.
func CreateSection(sections *storage.SectionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Name is required")
			return
		}

		s := &models.Section{Name: req.Name, HeaderID: req.HeaderID}
		if err := sections.Create(r.Context(), s); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create section")
			return
		}

		middleware.WriteJSON(w, http.StatusCreated, s)
	}
}

// DeleteSection removes a section and cascades its cards.
func DeleteSection(sections *storage.SectionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := sections.Delete(r.Context(), mux.Vars(r)["id"])
		if errors.Is(err, storage.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Section not found")
			return
		}
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete section")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type createHeaderRequest struct {
	Name string `json:"name"`
}

// ListHeaders returns all section headers.
func ListHeaders(headers *storage.HeaderRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := headers.List(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query headers")
			return
		}

		if list == nil {
			list = []models.Header{}
		}
		middleware.WriteJSON(w, http.StatusOK, list)
	}
}

// CreateHeader adds a section header.
func CreateHeader(headers *storage.HeaderRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createHeaderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Name is required")
			return
		}

		h := &models.Header{Name: req.Name}
		if err := headers.Create(r.Context(), h); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create header")
			return
		}

		middleware.WriteJSON(w, http.StatusCreated, h)
	}
}

// DeleteHeader removes a header; its sections survive detached.
func DeleteHeader(headers *storage.HeaderRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := headers.Delete(r.Context(), mux.Vars(r)["id"])
		if errors.Is(err, storage.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Header not found")
			return
		}
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete header")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
