package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeDrawCompleted MessageType = "draw.completed"
	TypeCountersReset MessageType = "counters.reset"
	TypeNotification  MessageType = "notification"
)

// Message is the envelope for every WebSocket event.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload,omitempty"`
}

// NewMessage creates a message with the current timestamp.
func NewMessage(t MessageType, payload any) Message {
	return Message{
		Type:      t,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON encodes the message for the wire.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// DrawCompletedPayload announces the settled result of a draw. Clients that
// animate a spin generate their own cosmetic flicker locally and land on
// this item; the event never triggers another draw.
type DrawCompletedPayload struct {
	Kind            string `json:"kind"`
	ItemID          string `json:"item_id"`
	Locator         string `json:"locator"`
	EngagementCount int    `json:"engagement_count"`
}

// NotificationPayload is a user-facing toast.
type NotificationPayload struct {
	Level       string `json:"level"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
}
