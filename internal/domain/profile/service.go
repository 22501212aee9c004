package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/auth"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/blobstore"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/db"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/phone"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/pkg/validate"
)

type Service struct {
	repo        Repository
	store       blobstore.Store
	phoneRegion string
	logger      zerolog.Logger
}

func NewService(repo Repository, store blobstore.Store, phoneRegion string, logger zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		store:       store,
		phoneRegion: phoneRegion,
		logger:      logger.With().Str("component", "profile").Logger(),
	}
}

// discard removes an uploaded photo that was not attached to a profile.
func (s *Service) discard(ctx context.Context, photo *blobstore.Object) {
	if photo != nil {
		s.dropKey(ctx, &photo.Key)
	}
}

// swapPhoto points current at the new photo and returns the key it replaced.
func swapPhoto(current **string, photo *blobstore.Object) (old *string) {
	if photo == nil {
		return nil
	}
	old = *current
	key := photo.Key
	*current = &key
	return old
}

func (s *Service) dropKey(ctx context.Context, key *string) {
	if key == nil {
		return
	}
	if err := s.store.Delete(ctx, *key); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		s.logger.Warn().Err(err).Str("key", *key).Msg("failed to remove photo")
	}
}

func maxLen(v *apierr.Validation, field, value string, n int) {
	v.AddIf(validate.TooLong(value, n), field, validate.MaxLenMessage(n))
}

// -- Patient --

func (s *Service) applyPatient(p *PatientProfile, in PatientInput) error {
	var v apierr.Validation
	bg := strings.ToUpper(strings.TrimSpace(in.BloodGroup))
	if bg != "" && !bloodGroups[bg] {
		v.Add("blood_group", fmt.Sprintf("%q is not a valid choice.", in.BloodGroup))
	}
	p.BloodGroup = optional(bg)

	p.EmergencyContactNo = nil
	if raw := strings.TrimSpace(in.EmergencyContactNo); raw != "" {
		n, err := phone.Normalize(raw, s.phoneRegion)
		if err != nil {
			v.Add("emergency_contact_no", phone.Message)
		} else {
			p.EmergencyContactNo = &n
		}
	}

	rel := strings.TrimSpace(in.EmergencyContactRelation)
	maxLen(&v, "emergency_contact_relation", rel, 50)
	p.EmergencyContactRelation = optional(rel)
	p.Allergies = strings.TrimSpace(in.Allergies)
	return v.Err()
}

// CreatePatientProfile creates the caller's patient profile. The key is
// always the caller's account; a second profile is rejected by the primary
// key.
func (s *Service) CreatePatientProfile(ctx context.Context, caller *auth.Identity, in PatientInput, photo *blobstore.Object) (*PatientProfile, error) {
	if err := auth.RequirePatient(caller); err != nil {
		s.discard(ctx, photo)
		return nil, err
	}
	p := &PatientProfile{AccountID: caller.AccountID}
	if err := s.applyPatient(p, in); err != nil {
		s.discard(ctx, photo)
		return nil, err
	}
	swapPhoto(&p.PhotoKey, photo)

	if err := s.repo.CreatePatient(ctx, p); err != nil {
		s.discard(ctx, photo)
		if db.IsUniqueViolation(err, ConstraintPatientPK) {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("create patient profile: %w", err)
	}
	s.logger.Info().Str("custom_id", caller.CustomID).Msg("patient profile created")
	return p, nil
}

func (s *Service) GetMyPatientProfile(ctx context.Context, caller *auth.Identity) (*PatientProfile, error) {
	if err := auth.RequirePatient(caller); err != nil {
		return nil, err
	}
	p, err := s.repo.GetPatient(ctx, caller.AccountID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get patient profile: %w", err)
	}
	return p, nil
}

// UpdatePatientProfile replaces the writable fields. Without a new photo the
// stored one is kept.
func (s *Service) UpdatePatientProfile(ctx context.Context, caller *auth.Identity, in PatientInput, photo *blobstore.Object) (*PatientProfile, error) {
	p, err := s.GetMyPatientProfile(ctx, caller)
	if err != nil {
		s.discard(ctx, photo)
		return nil, err
	}
	if err := s.applyPatient(p, in); err != nil {
		s.discard(ctx, photo)
		return nil, err
	}
	old := swapPhoto(&p.PhotoKey, photo)
	if err := s.repo.UpdatePatient(ctx, p); err != nil {
		s.discard(ctx, photo)
		return nil, fmt.Errorf("update patient profile: %w", err)
	}
	s.dropKey(ctx, old)
	return p, nil
}

// -- Doctor --

func (s *Service) applyDoctor(d *DoctorProfile, in DoctorInput) error {
	var v apierr.Validation
	specialty := strings.TrimSpace(in.Specialization)
	qual := strings.TrimSpace(in.Qualification)
	days := strings.TrimSpace(in.AvailableDays)
	langs := strings.TrimSpace(in.LanguagesSpoken)
	maxLen(&v, "specialization", specialty, 100)
	maxLen(&v, "qualification", qual, 255)
	maxLen(&v, "available_days", days, 100)
	maxLen(&v, "languages_spoken", langs, 255)
	if in.ExperienceYears != nil && *in.ExperienceYears < 0 {
		v.Add("experience_years", "Ensure this value is greater than or equal to 0.")
	}

	d.Specialization = optional(specialty)
	d.Qualification = optional(qual)
	d.AvailableDays = optional(days)
	d.LanguagesSpoken = optional(langs)
	d.ExperienceYears = in.ExperienceYears
	d.HospitalID = in.Hospital
	return v.Err()
}

func mapDoctorWrite(err error, op string) error {
	switch {
	case db.IsForeignKeyViolation(err, ConstraintDoctorHospital):
		return ErrHospitalNotFound
	case db.IsUniqueViolation(err, ConstraintDoctorPK):
		return ErrProfileExists
	}
	return fmt.Errorf("%s doctor profile: %w", op, err)
}

// CreateDoctorProfile creates the caller's doctor profile. A hospital that
// does not exist is reported as not found.
func (s *Service) CreateDoctorProfile(ctx context.Context, caller *auth.Identity, in DoctorInput, photo *blobstore.Object) (*DoctorProfile, error) {
	if err := auth.RequireDoctor(caller); err != nil {
		s.discard(ctx, photo)
		return nil, err
	}
	d := &DoctorProfile{AccountID: caller.AccountID}
	if err := s.applyDoctor(d, in); err != nil {
		s.discard(ctx, photo)
		return nil, err
	}
	swapPhoto(&d.PhotoKey, photo)

	if err := s.repo.CreateDoctor(ctx, d); err != nil {
		s.discard(ctx, photo)
		return nil, mapDoctorWrite(err, "create")
	}
	s.logger.Info().Str("custom_id", caller.CustomID).Msg("doctor profile created")
	return d, nil
}

func (s *Service) GetMyDoctorProfile(ctx context.Context, caller *auth.Identity) (*DoctorProfile, error) {
	if err := auth.RequireDoctor(caller); err != nil {
		return nil, err
	}
	d, err := s.repo.GetDoctor(ctx, caller.AccountID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get doctor profile: %w", err)
	}
	return d, nil
}

func (s *Service) UpdateDoctorProfile(ctx context.Context, caller *auth.Identity, in DoctorInput, photo *blobstore.Object) (*DoctorProfile, error) {
	d, err := s.GetMyDoctorProfile(ctx, caller)
	if err != nil {
		s.discard(ctx, photo)
		return nil, err
	}
	if err := s.applyDoctor(d, in); err != nil {
		s.discard(ctx, photo)
		return nil, err
	}
	old := swapPhoto(&d.PhotoKey, photo)
	if err := s.repo.UpdateDoctor(ctx, d); err != nil {
		s.discard(ctx, photo)
		return nil, mapDoctorWrite(err, "update")
	}
	s.dropKey(ctx, old)
	return d, nil
}

// ListDoctors is the directory patients browse before booking.
func (s *Service) ListDoctors(ctx context.Context, caller *auth.Identity, f DoctorFilter, limit, offset int) ([]*DoctorListing, int, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return nil, 0, err
	}
	return s.repo.ListDoctors(ctx, f, limit, offset)
}
