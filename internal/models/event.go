package models

import "time"

// Order event types published after a successful state change.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent describes a persisted change of an order.
type OrderEvent struct {
	ID             string      `json:"id"`
	Type           string      `json:"type"`
	OrderID        uint        `json:"order_id"`
	OwnerID        uint        `json:"owner_id"`
	Status         OrderStatus `json:"status"`
	PreviousStatus OrderStatus `json:"previous_status,omitempty"`
	ActorID        uint        `json:"actor_id"`
	OccurredAt     time.Time   `json:"occurred_at"`
}
