package repositories_test

import (
	"context"
	"testing"

	"foodorder/internal/models"
	"foodorder/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	t.Run("mock", func(t *testing.T) {
		testUserRepository(t, repositories.NewMockUserRepository())
	})
	t.Run("gorm", func(t *testing.T) {
		testUserRepository(t, repositories.NewGORMUserRepository(openTestDB(t)))
	})
}

func testUserRepository(t *testing.T, repo repositories.UserRepository) {
	ctx := context.Background()

	user := &models.User{Username: "alice", PasswordHash: "hash", Role: models.RoleMember}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	assert.Equal(t, models.RoleMember, byName.Role)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	err = repo.Create(ctx, &models.User{Username: "alice", PasswordHash: "other", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, repositories.ErrUsernameTaken)

	_, err = repo.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}
