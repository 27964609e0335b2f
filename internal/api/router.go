// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keepsake-app/backend/internal/api/handlers"
	"github.com/keepsake-app/backend/internal/api/middleware"
	"github.com/keepsake-app/backend/internal/draw"
	"github.com/keepsake-app/backend/internal/storage"
	"github.com/keepsake-app/backend/internal/websocket"
)

// Deps bundles everything the router hands to handlers.
type Deps struct {
	DB       *storage.DB
	Items    *storage.ItemRepository
	History  *storage.HistoryRepository
	Sections *storage.SectionRepository
	Headers  *storage.HeaderRepository
	Notes    *storage.NoteRepository
	Settings *storage.SettingsRepository
	Engine   *draw.Engine
	Hub      *websocket.Hub

	StaticDir string
	UploadDir string
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	// API subrouter
	api := r.PathPrefix("/api").Subrouter()

	// Health endpoint
	api.HandleFunc("/health", handlers.HealthCheck(d.DB, d.Hub)).Methods("GET")

	// WebSocket endpoint
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(d.Hub)).Methods("GET")

	// Draw endpoint: one authoritative selection per request
	api.HandleFunc("/draw/{kind}", handlers.Draw(d.Engine, d.Hub)).Methods("POST")

	// Collection endpoints
	api.HandleFunc("/items/cards/{id}/history", handlers.ItemHistory(d.Items, d.History)).Methods("GET")
	api.HandleFunc("/items/{kind}", handlers.ListItems(d.Items)).Methods("GET")
	api.HandleFunc("/items/{kind}", handlers.UploadItem(d.Items, d.UploadDir)).Methods("POST")
	api.HandleFunc("/items/{kind}/{id}", handlers.GetItem(d.Items)).Methods("GET")
	api.HandleFunc("/items/{kind}/{id}", handlers.DeleteItem(d.Items, d.UploadDir)).Methods("DELETE")

	// Card grouping endpoints
	api.HandleFunc("/headers", handlers.ListHeaders(d.Headers)).Methods("GET")
	api.HandleFunc("/headers", handlers.CreateHeader(d.Headers)).Methods("POST")
	api.HandleFunc("/headers/{id}", handlers.DeleteHeader(d.Headers)).Methods("DELETE")
	api.HandleFunc("/sections", handlers.ListSections(d.Sections)).Methods("GET")
	api.HandleFunc("/sections", handlers.CreateSection(d.Sections)).Methods("POST")
	api.HandleFunc("/sections/{id}", handlers.DeleteSection(d.Sections)).Methods("DELETE")

	// Settings endpoints
	api.HandleFunc("/settings", handlers.GetSettings(d.Settings)).Methods("GET")
	api.HandleFunc("/settings", handlers.UpdateSettings(d.Settings)).Methods("PUT")

	// Cycle calendar endpoints
	api.HandleFunc("/cycle/{year}/{month}", handlers.CycleMonth(d.Settings, d.Notes)).Methods("GET")
	api.HandleFunc("/notes", handlers.ListNotes(d.Notes)).Methods("GET")
	api.HandleFunc("/notes", handlers.CreateNote(d.Notes)).Methods("POST")
	api.HandleFunc("/notes/{id}", handlers.DeleteNote(d.Notes)).Methods("DELETE")

	// Bulk reset
	api.HandleFunc("/reset", handlers.Reset(d.Items, d.Hub)).Methods("POST")

	// Uploaded images
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadDir))))

	// Serve static frontend files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(d.StaticDir)))

	return r
}
