package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/auth"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/customid"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/db"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/pkg/validate"
)

// Layouts accepted for appointment_datetime. Values without a zone are UTC.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseDatetime(raw string) (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

type Service struct {
	repo   Repository
	tx     db.TxRunner
	ids    *customid.Generator
	now    func() time.Time
	logger zerolog.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, tx db.TxRunner, ids *customid.Generator, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		tx:     tx,
		ids:    ids,
		now:    time.Now,
		logger: logger.With().Str("component", "scheduling").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Book creates a pending appointment for the calling patient.
func (s *Service) Book(ctx context.Context, caller *auth.Identity, req BookRequest) (*Appointment, error) {
	if err := auth.RequirePatient(caller); err != nil {
		return nil, err
	}
	ok, err := s.repo.PatientProfileExists(ctx, caller.AccountID)
	if err != nil {
		return nil, fmt.Errorf("check patient profile: %w", err)
	}
	if !ok {
		return nil, ErrProfileRequired
	}

	a := &Appointment{PatientID: caller.AccountID, Status: StatusPending}
	var v apierr.Validation

	doctorRaw := strings.TrimSpace(req.Doctor)
	hospitalRaw := strings.TrimSpace(req.Hospital)
	datetimeRaw := strings.TrimSpace(req.AppointmentDatetime)

	if doctorRaw == "" {
		v.Add("doctor", validate.MsgRequired)
	} else if id, err := uuid.Parse(doctorRaw); err != nil {
		v.Add("doctor", doesNotExist(doctorRaw))
	} else {
		a.DoctorID = id
	}
	if hospitalRaw == "" {
		v.Add("hospital", validate.MsgRequired)
	} else if id, err := uuid.Parse(hospitalRaw); err != nil {
		v.Add("hospital", doesNotExist(hospitalRaw))
	} else {
		a.HospitalID = id
	}
	switch t, ok := parseDatetime(datetimeRaw); {
	case datetimeRaw == "":
		v.Add("appointment_datetime", validate.MsgRequired)
	case !ok:
		v.Add("appointment_datetime", "Datetime has wrong format. Use ISO 8601, e.g. 2026-05-01T10:30:00Z.")
	case !t.After(s.now()):
		v.Add("appointment_datetime", "Appointment must be scheduled in the future.")
	default:
		a.Datetime = t
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	doctorHospital, err := s.repo.DoctorHospital(ctx, a.DoctorID)
	switch {
	case errors.Is(err, db.ErrNotFound):
		v.Add("doctor", doesNotExist(doctorRaw))
	case err != nil:
		return nil, fmt.Errorf("look up doctor: %w", err)
	}
	exists, err := s.repo.HospitalExists(ctx, a.HospitalID)
	if err != nil {
		return nil, fmt.Errorf("look up hospital: %w", err)
	}
	if !exists {
		v.Add("hospital", doesNotExist(hospitalRaw))
	}
	if !v.Has("doctor") && !v.Has("hospital") && doctorHospital != nil && *doctorHospital != a.HospitalID {
		v.Add("hospital", "The selected doctor does not practise at this hospital.")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	a.ID = uuid.New()
	if _, err := s.ids.Assign(ctx, customid.Appointment, func(ctx context.Context, id string) error {
		a.CustomID = id
		return s.repo.Create(ctx, a)
	}); err != nil {
		if errors.Is(err, customid.ErrExhausted) {
			return nil, ErrIDExhausted.Wrap(err)
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.logger.Info().
		Str("appointment", a.CustomID).
		Str("patient", caller.CustomID).
		Time("at", a.Datetime).
		Msg("appointment booked")
	return a, nil
}

// ListMine lists the appointments the caller takes part in: patients and
// doctors their own, hospital admins those of hospitals they administer.
func (s *Service) ListMine(ctx context.Context, caller *auth.Identity, limit, offset int) ([]*Appointment, int, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return nil, 0, err
	}
	switch caller.Role {
	case auth.RolePatient:
		return s.repo.ListByPatient(ctx, caller.AccountID, limit, offset)
	case auth.RoleDoctor:
		return s.repo.ListByDoctor(ctx, caller.AccountID, limit, offset)
	case auth.RoleHospitalAdmin:
		return s.repo.ListByAdmin(ctx, caller.AccountID, limit, offset)
	}
	return nil, 0, auth.ErrForbidden
}

// Get returns an appointment visible to the caller. Appointments the caller
// cannot see are reported as not found.
func (s *Service) Get(ctx context.Context, caller *auth.Identity, id uuid.UUID) (*Appointment, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if a.HasParticipant(caller.AccountID) {
		return a, nil
	}
	if caller.Role == auth.RoleHospitalAdmin {
		ok, err := s.repo.IsHospitalAdmin(ctx, a.HospitalID, caller.AccountID)
		if err != nil {
			return nil, fmt.Errorf("check hospital admin: %w", err)
		}
		if ok {
			return a, nil
		}
	}
	return nil, ErrAppointmentNotFound
}

// UpdateStatus moves an appointment along the status table. Patients may
// only cancel their own appointments; the doctor may confirm, complete or
// cancel. Confirming assigns the doctor's next token for that day. The
// appointment is re-read under a row lock, and a status that moved since the
// caller's read is a conflict.
func (s *Service) UpdateStatus(ctx context.Context, caller *auth.Identity, id uuid.UUID, raw string) (*Appointment, error) {
	a, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	next := Status(strings.TrimSpace(raw))
	switch {
	case next == "":
		return nil, apierr.Field("status", validate.MsgRequired)
	case !next.Valid():
		return nil, apierr.Field("status", fmt.Sprintf("%q is not a valid choice.", raw))
	}

	switch {
	case caller.AccountID == a.DoctorID && caller.Role == auth.RoleDoctor:
	case caller.AccountID == a.PatientID && caller.Role == auth.RolePatient:
		if next != StatusCancelled {
			return nil, auth.ErrForbidden
		}
	default:
		return nil, auth.ErrForbidden
	}

	if !a.Status.CanMoveTo(next) {
		return nil, apierr.Field("status", fmt.Sprintf("Cannot change status from %s to %s.", a.Status, next))
	}

	var updated *Appointment
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		cur, err := s.repo.GetForUpdate(ctx, a.ID)
		if err != nil {
			return err
		}
		if cur.Status != a.Status {
			return ErrStatusChanged
		}

		token := cur.TokenNumber
		if next == StatusConfirmed {
			if err := s.repo.LockDoctor(ctx, cur.DoctorID); err != nil {
				return err
			}
			n, err := s.repo.CountTokens(ctx, cur.DoctorID, cur.Datetime)
			if err != nil {
				return err
			}
			t := fmt.Sprintf("T-%d", n+1)
			token = &t
		}
		if err := s.repo.SetStatus(ctx, cur.ID, cur.Status, next, token); err != nil {
			return err
		}
		cur.Status = next
		cur.TokenNumber = token
		updated = cur
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrStatusChanged), errors.Is(err, db.ErrNotFound):
		return nil, ErrStatusChanged
	case db.IsUniqueViolation(err, ConstraintDayToken):
		return nil, ErrTokenTaken.Wrap(err)
	default:
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	s.logStatus(updated, caller)
	return updated, nil
}

func (s *Service) logStatus(a *Appointment, caller *auth.Identity) {
	ev := s.logger.Info().
		Str("appointment", a.CustomID).
		Str("status", string(a.Status)).
		Str("by", caller.CustomID)
	if a.TokenNumber != nil {
		ev = ev.Str("token", *a.TokenNumber)
	}
	ev.Msg("appointment status changed")
}
