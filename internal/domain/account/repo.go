package account

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Constraint names the service maps to API errors.
const (
	ConstraintEmail    = "account_email_key"
	ConstraintCustomID = "account_custom_id_key"
)

type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByCustomID(ctx context.Context, customID string) (*Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, a *Account) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
