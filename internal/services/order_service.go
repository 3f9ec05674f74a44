package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodorder/internal/identity"
	"foodorder/internal/lifecycle"
	"foodorder/internal/models"
	"foodorder/internal/policy"
	"foodorder/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MenuCatalog resolves menu item IDs referenced by order lines.
type MenuCatalog interface {
	GetByID(ctx context.Context, id uint) (*models.MenuItem, error)
}

// OrderEventPublisher delivers order events to interested consumers.
type OrderEventPublisher interface {
	PublishOrderEvent(event models.OrderEvent) error
}

// OrderService handles business logic related to orders. It is the only
// writer of orders: every call authenticates the caller, asks the policy,
// runs the lifecycle for status changes and then persists.
type OrderService struct {
	orderRepo repositories.OrderRepository
	menu      MenuCatalog
	publisher OrderEventPublisher // optional
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, menu MenuCatalog, publisher OrderEventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		menu:      menu,
		publisher: publisher,
	}
}

// PlaceOrder creates a pending order owned by caller.
func (s *OrderService) PlaceOrder(ctx context.Context, caller identity.Caller, lines []models.OrderLineRequest) (*models.Order, error) {
	if !caller.Authenticated() {
		return nil, fmt.Errorf("%w: no authenticated caller", ErrUnauthenticated)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidInput)
	}
	for i, line := range lines {
		if line.MenuID == 0 {
			return nil, fmt.Errorf("%w: item %d: menu_id is required", ErrInvalidInput, i)
		}
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %d: quantity must be at least 1", ErrInvalidInput, i)
		}
	}

	prices := make(map[uint]float64, len(lines))
	for _, line := range lines {
		if _, seen := prices[line.MenuID]; seen {
			continue
		}
		item, err := s.menu.GetByID(ctx, line.MenuID)
		if err != nil {
			if errors.Is(err, repositories.ErrMenuItemNotFound) {
				return nil, fmt.Errorf("%w: menu id %d not found", ErrInvalidInput, line.MenuID)
			}
			return nil, fmt.Errorf("%w: menu lookup failed: %w", ErrStorageUnavailable, err)
		}
		prices[line.MenuID] = item.Price
	}

	if err := authorize(caller, policy.ActionCreateOrder, policy.Resource{}); err != nil {
		return nil, err
	}

	order := &models.Order{
		OwnerID: caller.UserID,
		Items:   make([]models.OrderLine, 0, len(lines)),
	}
	for _, line := range lines {
		order.Items = append(order.Items, models.OrderLine{
			MenuItemID: line.MenuID,
			Quantity:   line.Quantity,
			UnitPrice:  prices[line.MenuID],
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		logrus.WithError(err).WithField("owner_id", caller.UserID).Error("failed to persist order")
		return nil, fmt.Errorf("%w: failed to create order: %w", ErrStorageUnavailable, err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"owner_id": order.OwnerID,
		"items":    len(order.Items),
		"total":    order.Total(),
	}).Info("order placed")

	s.publish(models.OrderEvent{
		Type:    models.EventOrderCreated,
		OrderID: order.ID,
		OwnerID: order.OwnerID,
		Status:  order.Status,
		ActorID: caller.UserID,
	})
	return order, nil
}

// ListMine returns the caller's own orders.
func (s *OrderService) ListMine(ctx context.Context, caller identity.Caller) ([]models.Order, error) {
	if err := authorize(caller, policy.ActionReadOwnOrders, policy.Resource{OwnerID: caller.UserID}); err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.ListByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return orders, nil
}

// ListAll returns every order.
func (s *OrderService) ListAll(ctx context.Context, caller identity.Caller) ([]models.Order, error) {
	if err := authorize(caller, policy.ActionReadAllOrders, policy.Resource{}); err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return orders, nil
}

// GetOrder returns one order to its owner or to an admin.
func (s *OrderService) GetOrder(ctx context.Context, caller identity.Caller, id uint) (*models.Order, error) {
	if !caller.Authenticated() {
		return nil, fmt.Errorf("%w: no authenticated caller", ErrUnauthenticated)
	}
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, policy.ActionReadOrder, policy.Resource{OwnerID: order.OwnerID}); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelMine cancels a pending order owned by caller.
func (s *OrderService) CancelMine(ctx context.Context, caller identity.Caller, id uint) (*models.Order, error) {
	if !caller.Authenticated() {
		return nil, fmt.Errorf("%w: no authenticated caller", ErrUnauthenticated)
	}
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, policy.ActionCancelOrder, policy.Resource{OwnerID: order.OwnerID}); err != nil {
		return nil, err
	}
	return s.transition(ctx, caller, order, models.StatusCancelled)
}

// AdminSetStatus moves an order along the admin transition table.
func (s *OrderService) AdminSetStatus(ctx context.Context, caller identity.Caller, id uint, status string) (*models.Order, error) {
	if !caller.Authenticated() {
		return nil, fmt.Errorf("%w: no authenticated caller", ErrUnauthenticated)
	}
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, policy.ActionAdminStatusChange, policy.Resource{OwnerID: order.OwnerID}); err != nil {
		return nil, err
	}
	requested, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return s.transition(ctx, caller, order, requested)
}

func (s *OrderService) getOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return order, nil
}

// transition validates the move with the lifecycle and persists it with a
// compare-and-swap on the status the decision was based on.
func (s *OrderService) transition(ctx context.Context, caller identity.Caller, order *models.Order, requested models.OrderStatus) (*models.Order, error) {
	fields := logrus.Fields{
		"order_id": order.ID,
		"owner_id": order.OwnerID,
		"actor_id": caller.UserID,
		"from":     order.Status,
		"to":       requested,
	}

	next, err := lifecycle.Transition(order.Status, requested, caller.Role)
	if err != nil {
		logrus.WithFields(fields).WithField("terminal", lifecycle.IsTerminal(order.Status)).Warn("status transition rejected")
		return nil, fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}

	previous := order.Status
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, previous, next); err != nil {
		switch {
		case errors.Is(err, repositories.ErrStatusConflict):
			logrus.WithFields(fields).Warn("status transition lost to a concurrent update")
			return nil, fmt.Errorf("%w: %w", ErrInvalidTransition, err)
		case errors.Is(err, repositories.ErrOrderNotFound):
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		default:
			logrus.WithFields(fields).WithError(err).Error("failed to persist status transition")
			return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
	}

	order.Status = next
	order.UpdatedAt = time.Now()
	logrus.WithFields(fields).Info("order status changed")

	s.publish(models.OrderEvent{
		Type:           models.EventOrderStatusChanged,
		OrderID:        order.ID,
		OwnerID:        order.OwnerID,
		Status:         next,
		PreviousStatus: previous,
		ActorID:        caller.UserID,
	})
	return order, nil
}

// publish sends event best-effort; failures are logged and never retried.
func (s *OrderService) publish(event models.OrderEvent) {
	if s.publisher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.OccurredAt = time.Now()
	if err := s.publisher.PublishOrderEvent(event); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"order_id": event.OrderID,
			"type":     event.Type,
		}).Warn("failed to publish order event")
	}
}
