// Package policy decides whether a caller may perform an action on an
// order or on the menu. Authorization depends on role and ownership only.
package policy

import (
	"errors"
	"fmt"

	"foodorder/internal/identity"
	"foodorder/internal/models"
)

// ErrDenied is wrapped by every denial returned from Decision.Err.
var ErrDenied = errors.New("access denied")

// Action is an operation subject to authorization.
type Action string

const (
	ActionCreateOrder       Action = "create order"
	ActionReadOwnOrders     Action = "read own orders"
	ActionReadAllOrders     Action = "read all orders"
	ActionReadOrder         Action = "read order"
	ActionCancelOrder       Action = "cancel order"
	ActionAdminStatusChange Action = "admin status transition"
	ActionMenuWrite         Action = "menu write"
)

// Resource is the target of an action. OwnerID is zero for actions that
// do not address a single order.
type Resource struct {
	OwnerID uint
}

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Err returns nil for an allowed decision and an error wrapping ErrDenied otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrDenied, d.Reason)
}

// Authorize evaluates the rules for action. Unauthenticated callers and
// unknown actions are always denied.
func Authorize(caller identity.Caller, action Action, target Resource) Decision {
	if !caller.Authenticated() {
		return deny("caller is not authenticated")
	}

	switch action {
	case ActionCreateOrder:
		return requireRole(caller, models.RoleMember)
	case ActionReadOwnOrders:
		if d := requireRole(caller, models.RoleMember); !d.Allowed {
			return d
		}
		return requireOwner(caller, target)
	case ActionReadAllOrders, ActionAdminStatusChange, ActionMenuWrite:
		return requireRole(caller, models.RoleAdmin)
	case ActionReadOrder:
		if caller.IsAdmin() {
			return allow()
		}
		return requireOwner(caller, target)
	case ActionCancelOrder:
		if d := requireRole(caller, models.RoleMember); !d.Allowed {
			return d
		}
		return requireOwner(caller, target)
	default:
		return deny(fmt.Sprintf("unknown action %q", action))
	}
}

func requireRole(caller identity.Caller, role models.Role) Decision {
	if caller.Role != role {
		return deny(fmt.Sprintf("%s role required", role))
	}
	return allow()
}

func requireOwner(caller identity.Caller, target Resource) Decision {
	if target.OwnerID == 0 || target.OwnerID != caller.UserID {
		return deny("not owner")
	}
	return allow()
}
