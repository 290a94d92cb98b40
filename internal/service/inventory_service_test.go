package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/stockroom/internal/models"
)

func TestInventoryService_CRUD(t *testing.T) {
	svc := NewInventoryService(setupTestStore(t), discardLogger)
	ctx := context.Background()
	owner := uuid.NewString()

	items, err := svc.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, items)

	created, err := svc.Create(ctx, owner, models.ItemInput{Name: "bolt", Quantity: 5, Description: "m6"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, owner, created.OwnerID)

	items, err = svc.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, *created, *items[0])

	updated, err := svc.Update(ctx, owner, created.ID, models.ItemInput{Name: "bolt", Quantity: 9})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Quantity)
	assert.Empty(t, updated.Description)

	// Same values again still matches the row.
	_, err = svc.Update(ctx, owner, created.ID, models.ItemInput{Name: "bolt", Quantity: 9})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, created.ID))

	err = svc.Delete(ctx, owner, created.ID)
	requireCode(t, connect.CodeNotFound, err)
}

func TestInventoryService_Errors(t *testing.T) {
	svc := NewInventoryService(setupTestStore(t), discardLogger)
	ctx := context.Background()
	owner := uuid.NewString()

	t.Run("missing owner", func(t *testing.T) {
		_, err := svc.Create(ctx, "", models.ItemInput{Name: "bolt"})
		requireCode(t, connect.CodeUnauthenticated, err)

		_, err = svc.ListByOwner(ctx, "")
		requireCode(t, connect.CodeUnauthenticated, err)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := svc.Create(ctx, owner, models.ItemInput{Quantity: 1})
		requireCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.Update(ctx, owner, "not-a-uuid", models.ItemInput{Name: "x"})
		requireCode(t, connect.CodeInvalidArgument, err)

		err = svc.Delete(ctx, owner, "not-a-uuid")
		requireCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(ctx, owner, uuid.NewString(), models.ItemInput{Name: "x"})
		requireCode(t, connect.CodeNotFound, err)
	})

	t.Run("other owner", func(t *testing.T) {
		item, err := svc.Create(ctx, owner, models.ItemInput{Name: "nut", Quantity: -2})
		require.NoError(t, err)

		intruder := uuid.NewString()
		_, err = svc.Update(ctx, intruder, item.ID, models.ItemInput{Name: "stolen"})
		requireCode(t, connect.CodeNotFound, err)

		err = svc.Delete(ctx, intruder, item.ID)
		requireCode(t, connect.CodeNotFound, err)

		items, err := svc.ListByOwner(ctx, intruder)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}
