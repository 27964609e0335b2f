package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/keepsake-app/backend/internal/storage/models"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = sql.ErrNoRows

const itemColumns = "id, kind, locator, engagement_count, section_id, role, created_at, updated_at"

// ItemRepository provides data access for collection items of every kind.
type ItemRepository struct {
	BaseRepository
}

// NewItemRepository creates a new item repository.
func NewItemRepository(db *DB) *ItemRepository {
	return &ItemRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new item.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	item.ID = GenerateID()
	item.CreatedAt = r.Now()
	item.UpdatedAt = item.CreatedAt

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO items (id, kind, locator, engagement_count, section_id, role, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?, ?, ?)
	`, item.ID, item.Kind, item.Locator, item.SectionID, item.Role, item.CreatedAt, item.UpdatedAt)

	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by kind and ID. Returns nil when not found.
func (r *ItemRepository) GetByID(ctx context.Context, kind models.Kind, id string) (*models.Item, error) {
	item := &models.Item{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM items WHERE kind = ? AND id = ?
	`, kind, id).Scan(
		&item.ID, &item.Kind, &item.Locator, &item.EngagementCount,
		&item.SectionID, &item.Role, &item.CreatedAt, &item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying item: %w", err)
	}

	return item, nil
}

// ListCandidates retrieves the items of a kind matching the filter. This is
// the candidate set the draw engine selects from.
func (r *ItemRepository) ListCandidates(ctx context.Context, kind models.Kind, f models.ItemFilter) ([]models.Item, error) {
	query := "SELECT " + itemColumns + " FROM items WHERE kind = ?"
	args := []any{kind}

	if f.SectionID != "" {
		query += " AND section_id = ?"
		args = append(args, f.SectionID)
	}
	if f.Role != "" {
		query += " AND role = ?"
		args = append(args, f.Role)
	}
	query += " ORDER BY created_at"

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	return r.scanItems(rows)
}

// IncrementEngagement adds exactly one to the item's engagement counter.
// The update is relative, so concurrent draws against the same item never
// lose increments.
func (r *ItemRepository) IncrementEngagement(ctx context.Context, id string) error {
	res, err := r.DB().ExecContext(ctx, `
		UPDATE items SET engagement_count = engagement_count + 1, updated_at = ? WHERE id = ?
	`, r.Now(), id)
	if err != nil {
		return fmt.Errorf("incrementing engagement: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("incrementing engagement: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("incrementing engagement: item %s: %w", id, ErrNotFound)
	}

	return nil
}

// Delete removes an item. History entries cascade with it.
func (r *ItemRepository) Delete(ctx context.Context, kind models.Kind, id string) error {
	res, err := r.DB().ExecContext(ctx, "DELETE FROM items WHERE kind = ? AND id = ?", kind, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("deleting item %s: %w", id, ErrNotFound)
	}

	return nil
}

// ResetEngagement zeroes every engagement counter and truncates the history
// ledger. This is the only sanctioned counter decrement.
func (r *ItemRepository) ResetEngagement(ctx context.Context) error {
	return r.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM history_entries"); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "UPDATE items SET engagement_count = 0, updated_at = ?", r.Now()); err != nil {
			return fmt.Errorf("resetting counters: %w", err)
		}
		return nil
	})
}

func (r *ItemRepository) scanItems(rows *sql.Rows) ([]models.Item, error) {
	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(
			&item.ID, &item.Kind, &item.Locator, &item.EngagementCount,
			&item.SectionID, &item.Role, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
