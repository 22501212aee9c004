package auth

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Role is the single role an account is registered with.
type Role string

const (
	RolePatient       Role = "patient"
	RoleDoctor        Role = "doctor"
	RoleHospitalAdmin Role = "hospital_admin"
)

// Roles lists every valid role in display order.
var Roles = []Role{RolePatient, RoleDoctor, RoleHospitalAdmin}

func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

// ParseRole rejects anything outside the enum, including case variants.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%q is not a valid choice", s)
	}
	return r, nil
}

// Identity is the authenticated caller. It is built by the token middleware
// and passed explicitly into every service operation.
type Identity struct {
	AccountID uuid.UUID
	CustomID  string
	Email     string
	Role      Role
}

type contextKey string

const identityKey contextKey = "identity"

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

func IdentityFromEcho(c echo.Context) *Identity {
	return IdentityFromContext(c.Request().Context())
}
