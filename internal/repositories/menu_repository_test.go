package repositories_test

import (
	"context"
	"testing"
	"time"

	"foodorder/internal/models"
	"foodorder/internal/repositories"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMenuRepository(t *testing.T, repo repositories.MenuRepository) {
	ctx := context.Background()

	soup := &models.MenuItem{Name: "Tom Yum", Description: "Spicy soup", Price: 120}
	require.NoError(t, repo.Create(ctx, soup))
	assert.NotZero(t, soup.ID)
	require.NoError(t, repo.Create(ctx, &models.MenuItem{Name: "Pad Thai", Price: 90}))

	items, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Tom Yum", items[0].Name)

	got, err := repo.GetByID(ctx, soup.ID)
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.Price)

	soup.Price = 150
	require.NoError(t, repo.Update(ctx, soup))
	got, err = repo.GetByID(ctx, soup.ID)
	require.NoError(t, err)
	assert.Equal(t, 150.0, got.Price)

	err = repo.Update(ctx, &models.MenuItem{ID: 999, Name: "Ghost", Price: 1})
	assert.ErrorIs(t, err, repositories.ErrMenuItemNotFound)

	require.NoError(t, repo.Delete(ctx, soup.ID))
	_, err = repo.GetByID(ctx, soup.ID)
	assert.ErrorIs(t, err, repositories.ErrMenuItemNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, soup.ID), repositories.ErrMenuItemNotFound)
}

func TestMockMenuRepository(t *testing.T) {
	testMenuRepository(t, repositories.NewMockMenuRepository())
}

func TestMockMenuRepository_ExplicitIDs(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockMenuRepository()

	require.NoError(t, repo.Create(ctx, &models.MenuItem{ID: 5, Name: "Som Tam", Price: 60}))
	next := &models.MenuItem{Name: "Larb", Price: 70}
	require.NoError(t, repo.Create(ctx, next))
	assert.Equal(t, uint(6), next.ID)

	assert.Error(t, repo.Create(ctx, &models.MenuItem{ID: 5, Name: "Dup", Price: 1}))
}

func TestGORMMenuRepository(t *testing.T) {
	testMenuRepository(t, repositories.NewGORMMenuRepository(openTestDB(t)))
}

// An unreachable Redis must degrade to the wrapped repository.
func TestCachedMenuRepository_FallsBackWhenRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })

	testMenuRepository(t, repositories.NewCachedMenuRepository(repositories.NewMockMenuRepository(), rdb, time.Minute))
}
