package services

import (
	"context"
	"errors"
	"fmt"

	"foodorder/internal/identity"
	"foodorder/internal/models"
	"foodorder/internal/policy"
	"foodorder/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// MenuService handles business logic related to the menu catalog.
type MenuService struct {
	repo     repositories.MenuRepository
	validate *validator.Validate
}

// NewMenuService creates a new MenuService.
func NewMenuService(repo repositories.MenuRepository) *MenuService {
	return &MenuService{
		repo:     repo,
		validate: validator.New(),
	}
}

// GetMenu lists every menu item. The menu is public.
func (s *MenuService) GetMenu(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return items, nil
}

// GetMenuItem retrieves a single menu item.
func (s *MenuService) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, menuRepoError(err)
	}
	return item, nil
}

// CreateMenuItem adds a menu item.
func (s *MenuService) CreateMenuItem(ctx context.Context, caller identity.Caller, item *models.MenuItem) error {
	if err := authorize(caller, policy.ActionMenuWrite, policy.Resource{}); err != nil {
		return err
	}
	if err := s.validateMenuItem(item); err != nil {
		return err
	}

	item.ID = 0
	if err := s.repo.Create(ctx, item); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	logrus.WithFields(logrus.Fields{"menu_id": item.ID, "actor_id": caller.UserID}).Info("menu item created")
	return nil
}

// UpdateMenuItem replaces name, description and price of a menu item.
func (s *MenuService) UpdateMenuItem(ctx context.Context, caller identity.Caller, item *models.MenuItem) (*models.MenuItem, error) {
	if err := authorize(caller, policy.ActionMenuWrite, policy.Resource{}); err != nil {
		return nil, err
	}
	if err := s.validateMenuItem(item); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, menuRepoError(err)
	}
	logrus.WithFields(logrus.Fields{"menu_id": item.ID, "actor_id": caller.UserID}).Info("menu item updated")
	return s.GetMenuItem(ctx, item.ID)
}

// DeleteMenuItem removes a menu item. Existing orders keep the ID and the
// price captured when they were placed.
func (s *MenuService) DeleteMenuItem(ctx context.Context, caller identity.Caller, id uint) error {
	if err := authorize(caller, policy.ActionMenuWrite, policy.Resource{}); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return menuRepoError(err)
	}
	logrus.WithFields(logrus.Fields{"menu_id": id, "actor_id": caller.UserID}).Info("menu item deleted")
	return nil
}

func (s *MenuService) validateMenuItem(item *models.MenuItem) error {
	if item == nil {
		return fmt.Errorf("%w: menu item is required", ErrInvalidInput)
	}
	if err := s.validate.Struct(item); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

func menuRepoError(err error) error {
	if errors.Is(err, repositories.ErrMenuItemNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
