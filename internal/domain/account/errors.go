package account

import "github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"

const (
	msgEmailTaken       = "A user with that email already exists."
	msgPasswordMismatch = "Passwords must match."
)

var (
	ErrInvalidCredentials = apierr.New(apierr.KindUnauthenticated, "invalid_credentials",
		"No active account found with the given credentials.")
	ErrTokenInvalid = apierr.New(apierr.KindUnauthenticated, "token_not_valid",
		"Token is invalid or expired.")
	ErrTokenRevoked = apierr.New(apierr.KindUnauthenticated, "token_not_valid",
		"Token is blacklisted.")
	ErrAccountNotFound = apierr.NotFound("account_not_found", "Account not found.")
	ErrIDExhausted     = apierr.Conflict("custom_id_exhausted",
		"Could not allocate an identifier, please retry.")
)
