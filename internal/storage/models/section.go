package models

import "time"

// Header is a top-level grouping for card sections.
type Header struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Section groups cards, optionally under a header. Deleting a section
// cascades to its cards.
type Section struct {
	ID        string    `json:"id"`
	HeaderID  *string   `json:"header_id,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
