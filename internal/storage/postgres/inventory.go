package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/stockroom/internal/models"
	"github.com/mmynk/stockroom/internal/storage"
)

func (s *PostgresStore) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	now := time.Now().UTC().Unix()
	item.CreatedAt = now
	item.UpdatedAt = now

	query :=
		`INSERT INTO inventory (owner_id, name, quantity, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`

	err := s.db.QueryRowContext(ctx, query,
		item.OwnerID, item.Name, item.Quantity, item.Description, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", mapError(err))
	}

	return nil
}

func (s *PostgresStore) ListItemsByOwner(ctx context.Context, ownerID string, limit int) ([]*models.InventoryItem, error) {
	query :=
		`SELECT id, owner_id, name, quantity, description, created_at, updated_at
		 FROM inventory
		 WHERE owner_id = $1
		 ORDER BY created_at, id
		 LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, ownerID, storage.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", mapError(err))
	}
	defer rows.Close()

	items := []*models.InventoryItem{}
	for rows.Next() {
		item := &models.InventoryItem{}
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Name, &item.Quantity,
			&item.Description, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", mapError(err))
	}

	return items, nil
}

func (s *PostgresStore) UpdateItem(ctx context.Context, item *models.InventoryItem) error {
	id, err := storage.ParseID(item.ID)
	if err != nil {
		return err
	}
	item.ID = id
	item.UpdatedAt = time.Now().UTC().Unix()

	query :=
		`UPDATE inventory
		 SET name = $1, quantity = $2, description = $3, updated_at = $4
		 WHERE id = $5 AND owner_id = $6
		 RETURNING created_at`

	err = s.db.QueryRowContext(ctx, query,
		item.Name, item.Quantity, item.Description, item.UpdatedAt, item.ID, item.OwnerID,
	).Scan(&item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("db error: %w", mapError(err))
	}

	return nil
}

func (s *PostgresStore) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	id, err := storage.ParseID(itemID)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM inventory WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", mapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}
