package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keepsake-app/backend/internal/api/middleware"
	"github.com/keepsake-app/backend/internal/draw"
	"github.com/keepsake-app/backend/internal/storage/models"
	ws "github.com/keepsake-app/backend/internal/websocket"
)

// DrawRequest optionally narrows the candidate set.
type DrawRequest struct {
	SectionID string `json:"section_id,omitempty"`
	Role      string `json:"role,omitempty"`
}

// Draw performs one authoritative random selection for the kind in the URL.
// A request maps to exactly one draw; slot/dice clients animate the returned
// result locally instead of calling this again.
func Draw(engine *draw.Engine, hub *ws.Hub) http.HandlerFunc {
	var broadcaster *ws.EventBroadcaster
	if hub != nil {
		broadcaster = ws.NewEventBroadcaster(hub)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		kind, ok := models.ParseKind(mux.Vars(r)["kind"])
		if !ok || !kind.Drawable() {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Unknown or non-drawable collection kind")
			return
		}

		var req DrawRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
				return
			}
		}

		item, err := engine.Draw(r.Context(), kind, models.ItemFilter{
			SectionID: req.SectionID,
			Role:      req.Role,
		})
		if errors.Is(err, draw.ErrEmptyCollection) {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrEmptyCollection, "Nothing to draw")
			return
		}
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Draw failed")
			return
		}

		if broadcaster != nil {
			broadcaster.BroadcastDrawCompleted(kind, *item)
		}

		middleware.WriteJSON(w, http.StatusOK, item)
	}
}
