package storage

import (
	"context"
	"fmt"

	"github.com/keepsake-app/backend/internal/storage/models"
)

// SectionRepository provides data access for card sections.
type SectionRepository struct {
	BaseRepository
}

// NewSectionRepository creates a new section repository.
func NewSectionRepository(db *DB) *SectionRepository {
	return &SectionRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new section.
func (r *SectionRepository) Create(ctx context.Context, s *models.Section) error {
	s.ID = GenerateID()
	s.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO sections (id, header_id, name, created_at) VALUES (?, ?, ?, ?)
	`, s.ID, s.HeaderID, s.Name, s.CreatedAt)

	if err != nil {
		return fmt.Errorf("inserting section: %w", err)
	}

	return nil
}

// List retrieves all sections ordered by name.
func (r *SectionRepository) List(ctx context.Context) ([]models.Section, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, header_id, name, created_at FROM sections ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sections: %w", err)
	}
	defer rows.Close()

	var sections []models.Section
	for rows.Next() {
		var s models.Section
		if err := rows.Scan(&s.ID, &s.HeaderID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		sections = append(sections, s)
	}

	return sections, rows.Err()
}

// Delete removes a section. Cards in it cascade away, history with them.
func (r *SectionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB().ExecContext(ctx, "DELETE FROM sections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting section: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting section: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("deleting section %s: %w", id, ErrNotFound)
	}

	return nil
}

// HeaderRepository provides data access for section headers.
type HeaderRepository struct {
	BaseRepository
}

// NewHeaderRepository creates a new header repository.
func NewHeaderRepository(db *DB) *HeaderRepository {
	return &HeaderRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new header.
func (r *HeaderRepository) Create(ctx context.Context, h *models.Header) error {
	h.ID = GenerateID()
	h.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO headers (id, name, created_at) VALUES (?, ?, ?)
	`, h.ID, h.Name, h.CreatedAt)

	if err != nil {
		return fmt.Errorf("inserting header: %w", err)
	}

	return nil
}

// List retrieves all headers ordered by name.
func (r *HeaderRepository) List(ctx context.Context) ([]models.Header, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, name, created_at FROM headers ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying headers: %w", err)
	}
	defer rows.Close()

	var headers []models.Header
	for rows.Next() {
		var h models.Header
		if err := rows.Scan(&h.ID, &h.Name, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning header: %w", err)
		}
		headers = append(headers, h)
	}

	return headers, rows.Err()
}

// Delete removes a header. Sections keep existing with header_id cleared.
func (r *HeaderRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB().ExecContext(ctx, "DELETE FROM headers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting header: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting header: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("deleting header %s: %w", id, ErrNotFound)
	}

	return nil
}
