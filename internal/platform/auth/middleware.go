package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"
)

// Middleware authenticates "Authorization: Bearer <access>" headers.
//
// A request without the header continues anonymously; the gates decide
// whether that is acceptable for the route. A header that is present but
// malformed, expired or carries a refresh token is rejected with 401.
func Middleware(issuer *Issuer, skipper func(echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return apierr.New(apierr.KindUnauthenticated, "bad_authorization_header", "Authorization header must contain two space-delimited values.")
			}

			claims, err := issuer.Parse(strings.TrimSpace(parts[1]), TokenAccess)
			if err != nil {
				return apierr.New(apierr.KindUnauthenticated, "token_not_valid", "Given token not valid for any token type.").Wrap(err)
			}
			id, err := claims.Identity()
			if err != nil {
				return apierr.New(apierr.KindUnauthenticated, "token_not_valid", "Given token not valid for any token type.").Wrap(err)
			}

			c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), id)))
			return next(c)
		}
	}
}
