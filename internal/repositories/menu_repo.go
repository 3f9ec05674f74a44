package repositories

import (
	"context"
	"errors"

	"foodorder/internal/models"
)

// ErrMenuItemNotFound is returned when no menu item has the requested ID.
var ErrMenuItemNotFound = errors.New("menu item not found")

// MenuRepository defines the interface for menu data access.
type MenuRepository interface {
	GetAll(ctx context.Context) ([]models.MenuItem, error)
	GetByID(ctx context.Context, id uint) (*models.MenuItem, error)
	Create(ctx context.Context, item *models.MenuItem) error
	Update(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id uint) error
}
