package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/keepsake-app/backend/internal/api/middleware"
	"github.com/keepsake-app/backend/internal/storage"
	"github.com/keepsake-app/backend/internal/storage/models"
)

type createNoteRequest struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

// ListNotes returns the notes for a month given by ?year= and ?month=.
func ListNotes(notes *storage.NoteRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := strconv.Atoi(r.URL.Query().Get("year"))
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Invalid year")
			return
		}
		month, err := strconv.Atoi(r.URL.Query().Get("month"))
		if err != nil || month < 1 || month > 12 {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Invalid month")
			return
		}

		list, err := notes.ListByMonth(r.Context(), year, month)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query notes")
			return
		}

		if list == nil {
			list = []models.Note{}
		}
		middleware.WriteJSON(w, http.StatusOK, list)
	}
}

// CreateNote adds a note to a calendar date.
func CreateNote(notes *storage.NoteRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createNoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if _, err := time.Parse(models.NoteDateLayout, req.Date); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Date must be YYYY-MM-DD")
			return
		}
		if req.Text == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Text is required")
			return
		}

		note := &models.Note{Date: req.Date, Text: req.Text}
		if err := notes.Create(r.Context(), note); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create note")
			return
		}

		middleware.WriteJSON(w, http.StatusCreated, note)
	}
}

// DeleteNote removes a note.
func DeleteNote(notes *storage.NoteRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := notes.Delete(r.Context(), mux.Vars(r)["id"])
		if errors.Is(err, storage.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Note not found")
			return
		}
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete note")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
