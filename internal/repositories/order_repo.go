package repositories

import (
	"context"
	"errors"

	"foodorder/internal/models"
)

var (
	// ErrOrderNotFound is returned when no order has the requested ID.
	ErrOrderNotFound = errors.New("order not found")
	// ErrStatusConflict is returned by UpdateStatus when the stored status no
	// longer matches the expected one.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// OrderRepository defines the interface for order data access.
// Orders are never deleted; UpdateStatus is the only mutator after Create.
type OrderRepository interface {
	// Create assigns a new ID, sets status to pending and stamps CreatedAt.
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	// UpdateStatus moves the order to status to only if it is currently from.
	UpdateStatus(ctx context.Context, id uint, from, to models.OrderStatus) error
}
