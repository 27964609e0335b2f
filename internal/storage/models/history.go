package models

import "time"

// HistoryEntry is one append-only record of a card scratch. Entries are never
// updated; they disappear only when the parent item is deleted or on bulk
// reset.
type HistoryEntry struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	CreatedAt time.Time `json:"created_at"`
}
