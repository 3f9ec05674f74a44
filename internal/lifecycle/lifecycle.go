// Package lifecycle implements the order status state machine.
//
//	pending ──> preparing ──> done
//	   │            │
//	   ├────────────┴──> cancelled
//	   └──> done
//
// done and cancelled are terminal. Members may only take the
// pending -> cancelled edge; admins may take any edge of the table.
package lifecycle

import (
	"errors"
	"fmt"

	"foodorder/internal/models"
)

// ErrInvalidTransition is wrapped by every rejected transition.
var ErrInvalidTransition = errors.New("invalid status transition")

var adminTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:   {models.StatusPreparing, models.StatusDone, models.StatusCancelled},
	models.StatusPreparing: {models.StatusDone, models.StatusCancelled},
	models.StatusDone:      {},
	models.StatusCancelled: {},
}

var memberTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending: {models.StatusCancelled},
}

// Transition validates moving an order from current to requested on behalf
// of initiator and returns the new status.
func Transition(current, requested models.OrderStatus, initiator models.Role) (models.OrderStatus, error) {
	if _, ok := adminTransitions[current]; !ok {
		return "", fmt.Errorf("%w: unknown current status %q", ErrInvalidTransition, current)
	}
	if _, ok := adminTransitions[requested]; !ok {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, requested)
	}
	if current == requested {
		return "", fmt.Errorf("%w: order is already %s", ErrInvalidTransition, current)
	}

	for _, next := range Next(current, initiator) {
		if next == requested {
			return requested, nil
		}
	}
	return "", fmt.Errorf("%w: %s cannot move from %s to %s", ErrInvalidTransition, initiator, current, requested)
}

// Next lists the statuses initiator may move an order to from current.
func Next(current models.OrderStatus, initiator models.Role) []models.OrderStatus {
	var table map[models.OrderStatus][]models.OrderStatus
	switch initiator {
	case models.RoleAdmin:
		table = adminTransitions
	case models.RoleMember:
		table = memberTransitions
	default:
		return nil
	}
	return append([]models.OrderStatus(nil), table[current]...)
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s models.OrderStatus) bool {
	next, ok := adminTransitions[s]
	return ok && len(next) == 0
}
