package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/stockroom/internal/models"
	"github.com/mmynk/stockroom/internal/storage"
)

// CreateItem inserts a new inventory item.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	item.ID = uuid.New().String()
	now := time.Now().UTC().Unix()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inventory (id, owner_id, name, quantity, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.OwnerID, item.Name, item.Quantity, item.Description, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", mapError(err))
	}

	return nil
}

// ListItemsByOwner retrieves up to limit items owned by ownerID, oldest first.
func (s *SQLiteStore) ListItemsByOwner(ctx context.Context, ownerID string, limit int) ([]*models.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, quantity, description, created_at, updated_at
		 FROM inventory
		 WHERE owner_id = ?
		 ORDER BY created_at, rowid
		 LIMIT ?`,
		ownerID, storage.ClampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", mapError(err))
	}
	defer rows.Close()

	items := []*models.InventoryItem{}
	for rows.Next() {
		item := &models.InventoryItem{}
		if err := rows.Scan(
			&item.ID,
			&item.OwnerID,
			&item.Name,
			&item.Quantity,
			&item.Description,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", mapError(err))
	}

	return items, nil
}

// UpdateItem replaces the editable fields of an item the owner holds.
// A row whose values are already equal still counts as matched.
func (s *SQLiteStore) UpdateItem(ctx context.Context, item *models.InventoryItem) error {
	id, err := storage.ParseID(item.ID)
	if err != nil {
		return err
	}
	item.ID = id
	item.UpdatedAt = time.Now().UTC().Unix()

	err = s.db.QueryRowContext(ctx,
		`UPDATE inventory
		 SET name = ?, quantity = ?, description = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ?
		 RETURNING created_at`,
		item.Name, item.Quantity, item.Description, item.UpdatedAt, item.ID, item.OwnerID,
	).Scan(&item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update item: %w", mapError(err))
	}

	return nil
}

// DeleteItem removes an item the owner holds.
func (s *SQLiteStore) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	id, err := storage.ParseID(itemID)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM inventory WHERE id = ? AND owner_id = ?",
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", mapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}
