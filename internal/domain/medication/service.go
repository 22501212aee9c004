package medication

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/domain/scheduling"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/auth"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/db"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/pkg/validate"
)

// Appointments resolves an appointment the caller is allowed to see.
type Appointments interface {
	Get(ctx context.Context, caller *auth.Identity, id uuid.UUID) (*scheduling.Appointment, error)
}

type Service struct {
	meds          MedicationRepository
	prescriptions PrescriptionRepository
	appts         Appointments
	logger        zerolog.Logger
}

func NewService(meds MedicationRepository, prescriptions PrescriptionRepository, appts Appointments, logger zerolog.Logger) *Service {
	return &Service{
		meds:          meds,
		prescriptions: prescriptions,
		appts:         appts,
		logger:        logger.With().Str("component", "medication").Logger(),
	}
}

// -- Catalogue --

func (s *Service) ListMedications(ctx context.Context, caller *auth.Identity, search string, limit, offset int) ([]*Medication, int, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return nil, 0, err
	}
	return s.meds.List(ctx, strings.TrimSpace(search), limit, offset)
}

func (s *Service) CreateMedication(ctx context.Context, caller *auth.Identity, in MedicationInput) (*Medication, error) {
	if err := auth.RequireDoctor(caller); err != nil {
		return nil, err
	}
	m := &Medication{Name: strings.TrimSpace(in.Name), Description: strings.TrimSpace(in.Description)}
	switch {
	case m.Name == "":
		return nil, apierr.Field("name", validate.MsgRequired)
	case validate.TooLong(m.Name, 255):
		return nil, apierr.Field("name", validate.MaxLenMessage(255))
	}

	if err := s.meds.Create(ctx, m); err != nil {
		if db.IsUniqueViolation(err, ConstraintName) {
			return nil, apierr.Field("name", "medication with this name already exists.")
		}
		return nil, fmt.Errorf("create medication: %w", err)
	}
	s.logger.Info().Str("medication", m.Name).Str("by", caller.CustomID).Msg("medication added")
	return m, nil
}

// DeleteMedication removes a catalogue entry. Entries referenced by a
// prescription are kept.
func (s *Service) DeleteMedication(ctx context.Context, caller *auth.Identity, id uuid.UUID) error {
	if err := auth.RequireDoctor(caller); err != nil {
		return err
	}
	if err := s.meds.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			return ErrMedicationNotFound
		case db.IsForeignKeyViolation(err, ConstraintPrescribedDrug):
			return ErrMedicationInUse.Wrap(err)
		}
		return fmt.Errorf("delete medication: %w", err)
	}
	s.logger.Info().Str("medication_id", id.String()).Str("by", caller.CustomID).Msg("medication deleted")
	return nil
}

// -- Prescriptions --

// Prescribe records a prescription on an appointment the calling doctor
// owns. Cancelled appointments are rejected.
func (s *Service) Prescribe(ctx context.Context, caller *auth.Identity, appointmentID uuid.UUID, in PrescriptionInput) (*Prescription, error) {
	if err := auth.RequireDoctor(caller); err != nil {
		return nil, err
	}
	a, err := s.appts.Get(ctx, caller, appointmentID)
	if err != nil {
		return nil, err
	}
	if a.DoctorID != caller.AccountID {
		return nil, auth.ErrForbidden
	}
	if a.Status == scheduling.StatusCancelled {
		return nil, ErrAppointmentInactive
	}

	p := &Prescription{
		AppointmentID: a.ID,
		Dosage:        strings.TrimSpace(in.Dosage),
		Frequency:     strings.TrimSpace(in.Frequency),
		Duration:      strings.TrimSpace(in.Duration),
		Notes:         strings.TrimSpace(in.Notes),
	}
	var v apierr.Validation
	for _, f := range []struct{ field, value string }{
		{"dosage", p.Dosage}, {"frequency", p.Frequency}, {"duration", p.Duration},
	} {
		switch {
		case f.value == "":
			v.Add(f.field, validate.MsgRequired)
		case validate.TooLong(f.value, 100):
			v.Add(f.field, validate.MaxLenMessage(100))
		}
	}

	medRaw := strings.TrimSpace(in.Medication)
	if medRaw == "" {
		v.Add("medication", validate.MsgRequired)
	} else if id, err := uuid.Parse(medRaw); err != nil {
		v.Add("medication", `Invalid pk "`+medRaw+`" - object does not exist.`)
	} else {
		m, err := s.meds.GetByID(ctx, id)
		switch {
		case errors.Is(err, db.ErrNotFound):
			v.Add("medication", `Invalid pk "`+medRaw+`" - object does not exist.`)
		case err != nil:
			return nil, fmt.Errorf("look up medication: %w", err)
		default:
			p.MedicationID = m.ID
			p.MedicationName = m.Name
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := s.prescriptions.Create(ctx, p); err != nil {
		if db.IsForeignKeyViolation(err, ConstraintPrescribedDrug) {
			return nil, apierr.Field("medication", `Invalid pk "`+medRaw+`" - object does not exist.`)
		}
		return nil, fmt.Errorf("create prescription: %w", err)
	}
	s.logger.Info().
		Str("appointment", a.CustomID).
		Str("medication", p.MedicationName).
		Str("doctor", caller.CustomID).
		Msg("prescription written")
	return p, nil
}

// ListPrescriptions is limited to the appointment's patient and doctor.
func (s *Service) ListPrescriptions(ctx context.Context, caller *auth.Identity, appointmentID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	a, err := s.appts.Get(ctx, caller, appointmentID)
	if err != nil {
		return nil, 0, err
	}
	if !a.HasParticipant(caller.AccountID) {
		return nil, 0, auth.ErrForbidden
	}
	return s.prescriptions.ListByAppointment(ctx, a.ID, limit, offset)
}
