// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/keepsake-app/backend/internal/api/middleware"
	"github.com/keepsake-app/backend/internal/storage"
	"github.com/keepsake-app/backend/internal/storage/models"
)

// maxUploadBytes caps a single image upload.
const maxUploadBytes = 20 << 20

// ListItems returns the items of a kind, optionally filtered by section or role.
func ListItems(items *storage.ItemRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := models.ParseKind(mux.Vars(r)["kind"])
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Unknown collection kind")
			return
		}

		list, err := items.ListCandidates(r.Context(), kind, models.ItemFilter{
			SectionID: r.URL.Query().Get("section_id"),
			Role:      r.URL.Query().Get("role"),
		})
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query items")
			return
		}

		if list == nil {
			list = []models.Item{}
		}
		middleware.WriteJSON(w, http.StatusOK, list)
	}
}

// GetItem returns a single item.
func GetItem(items *storage.ItemRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		kind, ok := models.ParseKind(vars["kind"])
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Unknown collection kind")
			return
		}

		item, err := items.GetByID(r.Context(), kind, vars["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query item")
			return
		}
		if item == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Item not found")
			return
		}

		middleware.WriteJSON(w, http.StatusOK, item)
	}
}

// UploadItem stores a multipart image and creates the item record. The
// stored locator is a path relative to the upload directory.
func UploadItem(items *storage.ItemRepository, uploadDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := models.ParseKind(mux.Vars(r)["kind"])
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Unknown collection kind")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid multipart form")
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "An image file is required")
			return
		}
		defer file.Close()

		item := &models.Item{Kind: kind}
		if v := r.FormValue("section_id"); v != "" {
			item.SectionID = &v
		}
		if v := r.FormValue("role"); v != "" {
			item.Role = &v
		}

		locator, err := saveUpload(uploadDir, kind, header.Filename, file)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to store image")
			return
		}
		item.Locator = locator

		if err := items.Create(r.Context(), item); err != nil {
			os.Remove(filepath.Join(uploadDir, filepath.FromSlash(locator)))
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create item")
			return
		}

		middleware.WriteJSON(w, http.StatusCreated, item)
	}
}

// DeleteItem removes an item, its history (cascade), and its stored image.
func DeleteItem(items *storage.ItemRepository, uploadDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		kind, ok := models.ParseKind(vars["kind"])
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Unknown collection kind")
			return
		}

		item, err := items.GetByID(r.Context(), kind, vars["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query item")
			return
		}
		if item == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Item not found")
			return
		}

		if err := items.Delete(r.Context(), kind, item.ID); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete item")
			return
		}

		// Best-effort file cleanup; the record is already gone.
		if err := os.Remove(filepath.Join(uploadDir, filepath.FromSlash(item.Locator))); err != nil && !os.IsNotExist(err) {
			log.Warn().Str("locator", item.Locator).Err(err).Msg("removing image file failed")
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ItemHistory returns an item's scratch history, most recent first.
func ItemHistory(items *storage.ItemRepository, history *storage.HistoryRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		item, err := items.GetByID(r.Context(), models.KindCards, id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query item")
			return
		}
		if item == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Card not found")
			return
		}

		entries, err := history.ListByItem(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query history")
			return
		}

		if entries == nil {
			entries = []models.HistoryEntry{}
		}
		middleware.WriteJSON(w, http.StatusOK, entries)
	}
}

// saveUpload writes the uploaded file under uploadDir/kind and returns its
// locator (slash-separated, relative to uploadDir).
func saveUpload(uploadDir string, kind models.Kind, originalName string, src io.Reader) (string, error) {
	dir := filepath.Join(uploadDir, string(kind))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	name := storage.GenerateID() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("creating image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("writing image file: %w", err)
	}

	return path.Join(string(kind), name), nil
}
