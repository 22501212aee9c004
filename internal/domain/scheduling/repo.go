package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	ConstraintCustomID = "appointment_custom_id_key"
	ConstraintDayToken = "appointment_doctor_day_token_key"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByAdmin(ctx context.Context, adminID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	// GetForUpdate reads an appointment and locks its row until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// SetStatus writes the status and token only while the row still holds
	// status from. It returns db.ErrNotFound otherwise.
	SetStatus(ctx context.Context, id uuid.UUID, from, to Status, token *string) error

	PatientProfileExists(ctx context.Context, accountID uuid.UUID) (bool, error)
	// DoctorHospital returns the hospital a doctor is attached to, nil when
	// unattached, or db.ErrNotFound when the doctor has no profile.
	DoctorHospital(ctx context.Context, doctorID uuid.UUID) (*uuid.UUID, error)
	HospitalExists(ctx context.Context, id uuid.UUID) (bool, error)
	IsHospitalAdmin(ctx context.Context, hospitalID, accountID uuid.UUID) (bool, error)

	// LockDoctor serialises token assignment for one doctor until the
	// surrounding transaction ends.
	LockDoctor(ctx context.Context, doctorID uuid.UUID) error
	// CountTokens counts the doctor's appointments holding a token on the
	// UTC day of at.
	CountTokens(ctx context.Context, doctorID uuid.UUID, at time.Time) (int, error)
}
