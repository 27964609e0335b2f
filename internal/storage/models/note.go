package models

import "time"

// NoteDateLayout is the calendar-date format for notes (no time component).
const NoteDateLayout = "2006-01-02"

// Note is a user-authored calendar note. Several notes may share a date.
type Note struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
