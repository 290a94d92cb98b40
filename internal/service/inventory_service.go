package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mmynk/stockroom/internal/auth"
	"github.com/mmynk/stockroom/internal/models"
	"github.com/mmynk/stockroom/internal/storage"
)

var errEmptyName = errors.New("name is required")

// InventoryService implements owner-scoped CRUD over inventory items.
// ownerID is always the verified token subject.
type InventoryService struct {
	store  storage.InventoryStore
	logger *slog.Logger
}

// NewInventoryService creates a new InventoryService with the given storage backend.
func NewInventoryService(store storage.InventoryStore, logger *slog.Logger) *InventoryService {
	return &InventoryService{store: store, logger: logger}
}

func checkOwner(ownerID string) error {
	if ownerID == "" {
		return connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return nil
}

// Create stores a new item for ownerID.
func (s *InventoryService) Create(ctx context.Context, ownerID string, in models.ItemInput) (item *models.InventoryItem, err error) {
	ctx, span := tracer.Start(ctx, "InventoryService.Create")
	defer func() { endSpan(span, err) }()

	if err := checkOwner(ownerID); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errEmptyName)
	}

	item = &models.InventoryItem{OwnerID: ownerID}
	in.Apply(item)

	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, storageError(ctx, s.logger, "CreateItem failed", err)
	}

	span.SetAttributes(attribute.String("item.id", item.ID))
	s.logger.InfoContext(ctx, "Item created", "item_id", item.ID, "user_id", ownerID)
	return item, nil
}

// ListByOwner returns up to storage.MaxPageSize items owned by ownerID.
func (s *InventoryService) ListByOwner(ctx context.Context, ownerID string) (items []*models.InventoryItem, err error) {
	ctx, span := tracer.Start(ctx, "InventoryService.ListByOwner")
	defer func() { endSpan(span, err) }()

	if err := checkOwner(ownerID); err != nil {
		return nil, err
	}

	items, err = s.store.ListItemsByOwner(ctx, ownerID, storage.MaxPageSize)
	if err != nil {
		return nil, storageError(ctx, s.logger, "ListItemsByOwner failed", err)
	}

	span.SetAttributes(attribute.Int("items.count", len(items)))
	return items, nil
}

// Update replaces the editable fields of one of ownerID's items.
func (s *InventoryService) Update(ctx context.Context, ownerID, itemID string, in models.ItemInput) (item *models.InventoryItem, err error) {
	ctx, span := tracer.Start(ctx, "InventoryService.Update")
	defer func() { endSpan(span, err) }()

	if err := checkOwner(ownerID); err != nil {
		return nil, err
	}
	id, err := storage.ParseID(itemID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if in.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errEmptyName)
	}

	item = &models.InventoryItem{ID: id, OwnerID: ownerID}
	in.Apply(item)

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, storageError(ctx, s.logger, "UpdateItem failed", err)
	}

	s.logger.InfoContext(ctx, "Item updated", "item_id", item.ID, "user_id", ownerID)
	return item, nil
}

// Delete removes one of ownerID's items.
func (s *InventoryService) Delete(ctx context.Context, ownerID, itemID string) (err error) {
	ctx, span := tracer.Start(ctx, "InventoryService.Delete")
	defer func() { endSpan(span, err) }()

	if err := checkOwner(ownerID); err != nil {
		return err
	}
	id, err := storage.ParseID(itemID)
	if err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.store.DeleteItem(ctx, ownerID, id); err != nil {
		return storageError(ctx, s.logger, "DeleteItem failed", err)
	}

	s.logger.InfoContext(ctx, "Item deleted", "item_id", id, "user_id", ownerID)
	return nil
}
