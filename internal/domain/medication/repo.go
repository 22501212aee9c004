package medication

import (
	"context"

	"github.com/google/uuid"
)

const (
	ConstraintName           = "medication_name_key"
	ConstraintPrescribedDrug = "prescription_medication_id_fkey"
)

type MedicationRepository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	// List filters by case-insensitive name substring when search is set.
	List(ctx context.Context, search string, limit, offset int) ([]*Medication, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PrescriptionRepository interface {
	Create(ctx context.Context, p *Prescription) error
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID, limit, offset int) ([]*Prescription, int, error)
}
