package websocket

import (
	"github.com/rs/zerolog/log"

	"github.com/keepsake-app/backend/internal/storage/models"
)

// EventBroadcaster handles broadcasting WebSocket events.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// BroadcastDrawCompleted sends the settled draw result to all clients.
func (b *EventBroadcaster) BroadcastDrawCompleted(kind models.Kind, item models.Item) {
	payload := DrawCompletedPayload{
		Kind:            string(kind),
		ItemID:          item.ID,
		Locator:         item.Locator,
		EngagementCount: item.EngagementCount,
	}

	b.broadcast(NewMessage(TypeDrawCompleted, payload))
}

// BroadcastCountersReset tells clients all engagement state was cleared.
func (b *EventBroadcaster) BroadcastCountersReset() {
	b.broadcast(NewMessage(TypeCountersReset, nil))
}

// BroadcastNotification sends a toast to all connected clients.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string) {
	payload := NotificationPayload{
		Level:       level,
		Title:       title,
		Message:     message,
		Dismissible: true,
	}

	b.broadcast(NewMessage(TypeNotification, payload))
}

// broadcast sends a message to all connected clients.
func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		log.Error().Err(err).Msg("encoding websocket message failed")
		return
	}

	b.hub.Broadcast(data)
}
