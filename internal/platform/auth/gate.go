package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"
)

var (
	ErrUnauthenticated = apierr.Unauthenticated("Authentication credentials were not provided.")
	ErrForbidden       = apierr.Forbidden("You do not have permission to perform this action.")
)

// Predicate decides whether an identity may proceed. A nil identity is an
// anonymous caller.
type Predicate func(id *Identity) error

func RequireAuthenticated(id *Identity) error {
	if id == nil {
		return ErrUnauthenticated
	}
	return nil
}

// RequireRole admits authenticated callers whose role is one of roles.
func RequireRole(roles ...Role) Predicate {
	return func(id *Identity) error {
		if id == nil {
			return ErrUnauthenticated
		}
		for _, r := range roles {
			if id.Role == r {
				return nil
			}
		}
		return ErrForbidden
	}
}

func RequirePatient(id *Identity) error       { return RequireRole(RolePatient)(id) }
func RequireDoctor(id *Identity) error        { return RequireRole(RoleDoctor)(id) }
func RequireHospitalAdmin(id *Identity) error { return RequireRole(RoleHospitalAdmin)(id) }

// Gate adapts a predicate to echo middleware. Services call the same
// predicate themselves, so a route without the gate is still protected.
func Gate(pred Predicate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := pred(IdentityFromEcho(c)); err != nil {
				return err
			}
			return next(c)
		}
	}
}
