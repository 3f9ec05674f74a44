// Package identity carries the authenticated caller through every order
// and menu operation.
package identity

import (
	"fmt"

	"foodorder/internal/models"
)

// Caller is the identity making a request.
type Caller struct {
	UserID uint
	Role   models.Role
}

// Authenticated reports whether c was produced by a successful credential check.
func (c Caller) Authenticated() bool {
	return c.UserID != 0 && c.Role.Valid()
}

// IsAdmin reports whether c holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

func (c Caller) String() string {
	return fmt.Sprintf("%s#%d", c.Role, c.UserID)
}
