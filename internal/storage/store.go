// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/stockroom/internal/models"
)

// MaxPageSize caps every list query.
const MaxPageSize = 100

// UserStore defines the persistence operations for user accounts.
type UserStore interface {
	// CreateUser persists a new user. The user.ID and user.CreatedAt fields
	// are populated by the store.
	// Returns ErrAlreadyExists if the username is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername returns ErrNotFound if no user has that username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// ListUsers returns up to limit users in creation order.
	ListUsers(ctx context.Context, limit int) ([]*models.User, error)
}

// InventoryStore defines the persistence operations for inventory items.
// Every mutating call is scoped by owner: an item that belongs to someone
// else behaves as if it did not exist.
type InventoryStore interface {
	// CreateItem persists a new item. The item.ID, CreatedAt and UpdatedAt
	// fields are populated by the store.
	CreateItem(ctx context.Context, item *models.InventoryItem) error

	// ListItemsByOwner returns up to limit items owned by ownerID.
	ListItemsByOwner(ctx context.Context, ownerID string, limit int) ([]*models.InventoryItem, error)

	// UpdateItem replaces name, quantity and description of the item matching
	// item.ID and item.OwnerID. Returns ErrInvalidID for a malformed ID and
	// ErrNotFound if nothing matched.
	UpdateItem(ctx context.Context, item *models.InventoryItem) error

	// DeleteItem removes the item. Same error contract as UpdateItem.
	DeleteItem(ctx context.Context, ownerID, itemID string) error
}

// Store is the complete storage backend.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	UserStore
	InventoryStore

	// Collections lists the data collections (tables) held by the store.
	Collections(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}

// ClampLimit bounds a requested page size to (0, MaxPageSize].
func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
