package storage

import (
	"context"
	"fmt"

	"github.com/keepsake-app/backend/internal/storage/models"
)

// NoteRepository provides data access for calendar notes.
type NoteRepository struct {
	BaseRepository
}

// NewNoteRepository creates a new note repository.
func NewNoteRepository(db *DB) *NoteRepository {
	return &NoteRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new note. Multiple notes may share a date.
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	note.ID = GenerateID()
	note.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO notes (id, date, text, created_at) VALUES (?, ?, ?, ?)
	`, note.ID, note.Date, note.Text, note.CreatedAt)

	if err != nil {
		return fmt.Errorf("inserting note: %w", err)
	}

	return nil
}

// ListByMonth retrieves the notes whose date falls within the given month.
// Dates are stored as YYYY-MM-DD text, so a prefix match covers the month.
func (r *NoteRepository) ListByMonth(ctx context.Context, year int, month int) ([]models.Note, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)

	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, date, text, created_at FROM notes
		WHERE date LIKE ? || '%'
		ORDER BY date, created_at
	`, prefix)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Date, &n.Text, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}

// Delete removes a note by ID.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB().ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("deleting note %s: %w", id, ErrNotFound)
	}

	return nil
}
