package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/keepsake-app/backend/internal/storage/models"
)

// HistoryRepository provides append-only access to the scratch history
// ledger. There is no update or single-entry delete; entries vanish only with
// their parent item (cascade) or on bulk reset.
type HistoryRepository struct {
	BaseRepository
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Append records one draw event for an item at the given instant.
func (r *HistoryRepository) Append(ctx context.Context, itemID string, at time.Time) error {
	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO history_entries (id, item_id, created_at) VALUES (?, ?, ?)
	`, GenerateID(), itemID, at.UTC())

	if err != nil {
		return fmt.Errorf("appending history entry: %w", err)
	}

	return nil
}

// ListByItem retrieves an item's history, most recent first.
func (r *HistoryRepository) ListByItem(ctx context.Context, itemID string) ([]models.HistoryEntry, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, item_id, created_at FROM history_entries
		WHERE item_id = ?
		ORDER BY created_at DESC
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.ItemID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// CountByItem returns the number of ledger entries for an item.
func (r *HistoryRepository) CountByItem(ctx context.Context, itemID string) (int, error) {
	var n int
	err := r.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM history_entries WHERE item_id = ?", itemID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting history entries: %w", err)
	}
	return n, nil
}
