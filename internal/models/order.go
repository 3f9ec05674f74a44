package models

import (
	"encoding/json"
	"time"
)

// OrderStatus is a state of the order lifecycle.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusDone      OrderStatus = "done"
	StatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus converts s to an OrderStatus, reporting whether it is known.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case StatusPending, StatusPreparing, StatusDone, StatusCancelled:
		return st, true
	default:
		return "", false
	}
}

// OrderLine is a single menu item and quantity within an order.
type OrderLine struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	OrderID    uint    `json:"-" gorm:"index;not null"`
	MenuItemID uint    `json:"menu_id" gorm:"not null"`
	Quantity   int     `json:"quantity" gorm:"not null"`
	UnitPrice  float64 `json:"unit_price"` // Price at the time of order
}

// Order represents a customer order. Only Status changes after creation.
type Order struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	OwnerID   uint        `json:"user_id" gorm:"index;not null"`
	Status    OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Items     []OrderLine `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// Total sums the line prices captured at creation.
func (o *Order) Total() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// MarshalJSON adds the computed total to the encoded order.
func (o Order) MarshalJSON() ([]byte, error) {
	type order Order
	return json.Marshal(struct {
		order
		Total float64 `json:"total"`
	}{order(o), o.Total()})
}

// OrderLineRequest is one requested line of a new order.
type OrderLineRequest struct {
	MenuID   uint `json:"menu_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest is the body of a create-order call.
type CreateOrderRequest struct {
	Items []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateStatusRequest is the body of an admin status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
