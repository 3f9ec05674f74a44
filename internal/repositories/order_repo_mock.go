package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"foodorder/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders     map[uint]models.Order
	nextID     uint
	nextLineID uint
	mu         sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[uint]models.Order),
	}
}

// Create stores a copy of order and writes the assigned IDs back into it.
func (r *MockOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	order.ID = r.nextID
	order.Status = models.StatusPending
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	for i := range order.Items {
		r.nextLineID++
		order.Items[i].ID = r.nextLineID
		order.Items[i].OrderID = order.ID
	}
	r.orders[order.ID] = cloneOrder(*order)
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(_ context.Context, id uint) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrOrderNotFound, id)
	}
	order = cloneOrder(order)
	return &order, nil
}

// ListByOwner returns the orders of one owner, newest first.
func (r *MockOrderRepository) ListByOwner(_ context.Context, ownerID uint) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0)
	for _, order := range r.orders {
		if order.OwnerID == ownerID {
			orderList = append(orderList, cloneOrder(order))
		}
	}
	sortNewestFirst(orderList)
	return orderList, nil
}

// ListAll returns all orders, newest first.
func (r *MockOrderRepository) ListAll(_ context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orderList = append(orderList, cloneOrder(order))
	}
	sortNewestFirst(orderList)
	return orderList, nil
}

// UpdateStatus swaps the status of an order when it still equals from.
func (r *MockOrderRepository) UpdateStatus(_ context.Context, id uint, from, to models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrOrderNotFound, id)
	}
	if order.Status != from {
		return fmt.Errorf("%w: order %d is %s, expected %s", ErrStatusConflict, id, order.Status, from)
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderLine(nil), o.Items...)
	return o
}

func sortNewestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
}
