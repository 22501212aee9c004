package hospital

import (
	"context"

	"github.com/google/uuid"
)

const (
	ConstraintCustomID  = "hospital_custom_id_key"
	ConstraintEmail     = "hospital_email_key"
	ConstraintLicenseNo = "hospital_license_no_key"
	ConstraintAdminPK   = "hospital_admin_pkey"
)

type Repository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	List(ctx context.Context, limit, offset int) ([]*Hospital, int, error)
	ListByAdmin(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Hospital, int, error)

	AddAdmin(ctx context.Context, hospitalID, accountID uuid.UUID) error
	// AddAdminByCustomID links the hospital_admin account with customID. It
	// reports false when no such account exists.
	AddAdminByCustomID(ctx context.Context, hospitalID uuid.UUID, customID string) (bool, error)
	IsAdmin(ctx context.Context, hospitalID, accountID uuid.UUID) (bool, error)
}
