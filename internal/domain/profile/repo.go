package profile

import (
	"context"

	"github.com/google/uuid"
)

const (
	ConstraintPatientPK      = "patient_profile_pkey"
	ConstraintDoctorPK       = "doctor_profile_pkey"
	ConstraintDoctorHospital = "doctor_profile_hospital_id_fkey"
)

type Repository interface {
	CreatePatient(ctx context.Context, p *PatientProfile) error
	GetPatient(ctx context.Context, accountID uuid.UUID) (*PatientProfile, error)
	UpdatePatient(ctx context.Context, p *PatientProfile) error
	HasPatientProfile(ctx context.Context, accountID uuid.UUID) (bool, error)

	CreateDoctor(ctx context.Context, d *DoctorProfile) error
	GetDoctor(ctx context.Context, accountID uuid.UUID) (*DoctorProfile, error)
	UpdateDoctor(ctx context.Context, d *DoctorProfile) error
	HasDoctorProfile(ctx context.Context, accountID uuid.UUID) (bool, error)
	ListDoctors(ctx context.Context, f DoctorFilter, limit, offset int) ([]*DoctorListing, int, error)
}
