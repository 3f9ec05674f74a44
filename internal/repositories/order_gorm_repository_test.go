package repositories_test

import (
	"context"
	"testing"

	"foodorder/internal/models"
	"foodorder/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMOrderRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMOrderRepository(openTestDB(t))

	order := newOrder(7,
		models.OrderLine{MenuItemID: 5, Quantity: 2, UnitPrice: 3.5},
		models.OrderLine{MenuItemID: 6, Quantity: 1, UnitPrice: 10},
	)
	order.Status = models.StatusDone
	require.NoError(t, repo.Create(ctx, order))
	assert.NotZero(t, order.ID)
	assert.Equal(t, models.StatusPending, order.Status)

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.OwnerID)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.False(t, got.CreatedAt.IsZero())
	require.Len(t, got.Items, 2)
	for _, line := range got.Items {
		assert.NotZero(t, line.ID)
		assert.Equal(t, order.ID, line.OrderID)
	}
	assert.InDelta(t, 17.0, got.Total(), 0.001)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}

func TestGORMOrderRepository_Lists(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMOrderRepository(openTestDB(t))

	for _, owner := range []uint{1, 2, 1} {
		require.NoError(t, repo.Create(ctx, newOrder(owner, models.OrderLine{MenuItemID: 1, Quantity: 1})))
	}

	mine, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Greater(t, mine[0].ID, mine[1].ID)
	for _, o := range mine {
		assert.Equal(t, uint(1), o.OwnerID)
		assert.Len(t, o.Items, 1)
	}

	none, err := repo.ListByOwner(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGORMOrderRepository_UpdateStatusIsConditional(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMOrderRepository(openTestDB(t))
	order := newOrder(1, models.OrderLine{MenuItemID: 1, Quantity: 1})
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, models.StatusPending, models.StatusPreparing))

	// A writer that still believes the order is pending loses.
	err := repo.UpdateStatus(ctx, order.ID, models.StatusPending, models.StatusCancelled)
	assert.ErrorIs(t, err, repositories.ErrStatusConflict)

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, got.Status)

	err = repo.UpdateStatus(ctx, 999, models.StatusPending, models.StatusDone)
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}
