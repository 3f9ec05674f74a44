package services

import (
	"fmt"

	"foodorder/internal/identity"
	"foodorder/internal/policy"

	"github.com/sirupsen/logrus"
)

// authorize runs the policy for action and maps a denial onto ErrForbidden.
func authorize(caller identity.Caller, action policy.Action, target policy.Resource) error {
	if !caller.Authenticated() {
		return fmt.Errorf("%w: no authenticated caller", ErrUnauthenticated)
	}
	if err := policy.Authorize(caller, action, target).Err(); err != nil {
		logrus.WithFields(logrus.Fields{
			"actor_id": caller.UserID,
			"role":     caller.Role,
			"action":   action,
			"owner_id": target.OwnerID,
		}).Warn("authorization denied")
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	}
	return nil
}
