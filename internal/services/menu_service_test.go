package services_test

import (
	"context"
	"fmt"
	"testing"

	"foodorder/internal/identity"
	"foodorder/internal/models"
	"foodorder/internal/repositories"
	"foodorder/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	adminCaller  = identity.Caller{UserID: 100, Role: models.RoleAdmin}
	memberCaller = identity.Caller{UserID: 1, Role: models.RoleMember}
)

func TestMenuService_GetMenu(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockMenuRepository)
	service := services.NewMenuService(mockRepo)

	expected := []models.MenuItem{
		{ID: 1, Name: "Tom Yum", Price: 120},
		{ID: 2, Name: "Pad Thai", Price: 90},
	}
	mockRepo.On("GetAll", ctx).Return(expected, nil).Once()

	items, err := service.GetMenu(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, items)

	mockRepo.On("GetAll", ctx).Return(nil, fmt.Errorf("database error")).Once()
	_, err = service.GetMenu(ctx)
	assert.ErrorIs(t, err, services.ErrStorageUnavailable)
	mockRepo.AssertExpectations(t)
}

func TestMenuService_GetMenuItem(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockMenuRepository)
	service := services.NewMenuService(mockRepo)

	mockRepo.On("GetByID", ctx, uint(1)).Return(&models.MenuItem{ID: 1, Name: "Tom Yum", Price: 120}, nil).Once()
	item, err := service.GetMenuItem(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Tom Yum", item.Name)

	mockRepo.On("GetByID", ctx, uint(99)).Return(nil, repositories.ErrMenuItemNotFound).Once()
	_, err = service.GetMenuItem(ctx, 99)
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestMenuService_CreateMenuItem(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockMenuRepository)
	service := services.NewMenuService(mockRepo)

	newItem := &models.MenuItem{Name: "Green Curry", Price: 110}
	mockRepo.On("Create", ctx, newItem).Return(nil).Once()
	require.NoError(t, service.CreateMenuItem(ctx, adminCaller, newItem))

	// Members are denied before the repository is touched.
	err := service.CreateMenuItem(ctx, memberCaller, &models.MenuItem{Name: "Sneaky", Price: 1})
	assert.ErrorIs(t, err, services.ErrForbidden)

	err = service.CreateMenuItem(ctx, identity.Caller{}, &models.MenuItem{Name: "Anon", Price: 1})
	assert.ErrorIs(t, err, services.ErrUnauthenticated)

	err = service.CreateMenuItem(ctx, adminCaller, &models.MenuItem{Name: "Free lunch", Price: 0})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	err = service.CreateMenuItem(ctx, adminCaller, &models.MenuItem{Price: 10})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.MenuItem")).Return(fmt.Errorf("database error")).Once()
	err = service.CreateMenuItem(ctx, adminCaller, &models.MenuItem{Name: "Larb", Price: 70})
	assert.ErrorIs(t, err, services.ErrStorageUnavailable)
	mockRepo.AssertExpectations(t)
}

func TestMenuService_UpdateMenuItem(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockMenuRepository)
	service := services.NewMenuService(mockRepo)

	updated := &models.MenuItem{ID: 1, Name: "Tom Yum Goong", Price: 150}
	mockRepo.On("Update", ctx, updated).Return(nil).Once()
	mockRepo.On("GetByID", ctx, uint(1)).Return(updated, nil).Once()

	item, err := service.UpdateMenuItem(ctx, adminCaller, updated)
	require.NoError(t, err)
	assert.Equal(t, 150.0, item.Price)

	missing := &models.MenuItem{ID: 99, Name: "Ghost", Price: 1}
	mockRepo.On("Update", ctx, missing).Return(fmt.Errorf("%w: id 99", repositories.ErrMenuItemNotFound)).Once()
	_, err = service.UpdateMenuItem(ctx, adminCaller, missing)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = service.UpdateMenuItem(ctx, memberCaller, updated)
	assert.ErrorIs(t, err, services.ErrForbidden)
	mockRepo.AssertExpectations(t)
}

func TestMenuService_DeleteMenuItem(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockMenuRepository)
	service := services.NewMenuService(mockRepo)

	mockRepo.On("Delete", ctx, uint(1)).Return(nil).Once()
	require.NoError(t, service.DeleteMenuItem(ctx, adminCaller, 1))

	mockRepo.On("Delete", ctx, uint(99)).Return(fmt.Errorf("%w: id 99", repositories.ErrMenuItemNotFound)).Once()
	assert.ErrorIs(t, service.DeleteMenuItem(ctx, adminCaller, 99), services.ErrNotFound)

	assert.ErrorIs(t, service.DeleteMenuItem(ctx, memberCaller, 1), services.ErrForbidden)
	mockRepo.AssertExpectations(t)
}
