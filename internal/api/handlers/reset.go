package handlers

import (
	"net/http"

	"github.com/keepsake-app/backend/internal/api/middleware"
	"github.com/keepsake-app/backend/internal/storage"
	ws "github.com/keepsake-app/backend/internal/websocket"
)

// Reset zeroes every engagement counter and clears the history ledger.
// This is the single sanctioned path that decrements counters.
func Reset(items *storage.ItemRepository, hub *ws.Hub) http.HandlerFunc {
	var broadcaster *ws.EventBroadcaster
	if hub != nil {
		broadcaster = ws.NewEventBroadcaster(hub)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if err := items.ResetEngagement(r.Context()); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to reset")
			return
		}

		if broadcaster != nil {
			broadcaster.BroadcastCountersReset()
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
