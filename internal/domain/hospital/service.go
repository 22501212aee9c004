package hospital

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/auth"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/blobstore"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/customid"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/db"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/phone"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/pkg/validate"
)

type Service struct {
	repo        Repository
	tx          db.TxRunner
	ids         *customid.Generator
	store       blobstore.Store
	phoneRegion string
	logger      zerolog.Logger
}

func NewService(repo Repository, tx db.TxRunner, ids *customid.Generator, store blobstore.Store,
	phoneRegion string, logger zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		tx:          tx,
		ids:         ids,
		store:       store,
		phoneRegion: phoneRegion,
		logger:      logger.With().Str("component", "hospital").Logger(),
	}
}

func (s *Service) build(in Input) (*Hospital, error) {
	h := &Hospital{
		Name:           strings.TrimSpace(in.Name),
		Address:        strings.TrimSpace(in.Address),
		Email:          strings.TrimSpace(in.Email),
		Website:        strings.TrimSpace(in.Website),
		LicenseNo:      strings.TrimSpace(in.LicenseNo),
		OperatingHours: strings.TrimSpace(in.OperatingHours),
		NumDepartments: 1,
	}

	var v apierr.Validation
	required := []struct {
		field, value string
		max          int
	}{
		{"name", h.Name, 255},
		{"address", h.Address, 0},
		{"contact_no1", strings.TrimSpace(in.ContactNo1), 0},
		{"email", h.Email, 254},
		{"license_no", h.LicenseNo, 100},
		{"operating_hours", h.OperatingHours, 100},
	}
	for _, r := range required {
		switch {
		case r.value == "":
			v.Add(r.field, validate.MsgRequired)
		case r.max > 0 && validate.TooLong(r.value, r.max):
			v.Add(r.field, validate.MaxLenMessage(r.max))
		}
	}
	if h.Email != "" && !v.Has("email") && !validate.Email(h.Email) {
		v.Add("email", validate.MsgInvalidEmail)
	}
	if h.Website != "" && !validate.URL(h.Website) {
		v.Add("website", validate.MsgInvalidURL)
	}

	if raw := strings.TrimSpace(in.ContactNo1); raw != "" {
		if n, err := phone.Normalize(raw, s.phoneRegion); err != nil {
			v.Add("contact_no1", phone.Message)
		} else {
			h.ContactNo1 = n
		}
	}
	if raw := strings.TrimSpace(in.ContactNo2); raw != "" {
		if n, err := phone.Normalize(raw, s.phoneRegion); err != nil {
			v.Add("contact_no2", phone.Message)
		} else {
			h.ContactNo2 = n
		}
	}

	if in.NumDepartments != nil {
		if *in.NumDepartments < 1 {
			v.Add("num_departments", "Ensure this value is greater than or equal to 1.")
		}
		h.NumDepartments = *in.NumDepartments
	}
	return h, v.Err()
}

func (s *Service) discard(ctx context.Context, photo *blobstore.Object) {
	if photo == nil {
		return
	}
	if err := s.store.Delete(ctx, photo.Key); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		s.logger.Warn().Err(err).Str("key", photo.Key).Msg("failed to remove orphaned photo")
	}
}

// CreateHospital registers a hospital and makes the caller its first
// administrator. Both rows are written in one transaction.
func (s *Service) CreateHospital(ctx context.Context, caller *auth.Identity, in Input, photo *blobstore.Object) (*Hospital, error) {
	if err := auth.RequireHospitalAdmin(caller); err != nil {
		s.discard(ctx, photo)
		return nil, err
	}
	h, err := s.build(in)
	if err != nil {
		s.discard(ctx, photo)
		return nil, err
	}
	if photo != nil {
		h.PhotoKey = &photo.Key
	}
	h.ID = uuid.New()

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.ids.Assign(ctx, customid.Hospital, func(ctx context.Context, id string) error {
			h.CustomID = id
			return s.repo.Create(ctx, h)
		}); err != nil {
			return err
		}
		return s.repo.AddAdmin(ctx, h.ID, caller.AccountID)
	})
	if err != nil {
		s.discard(ctx, photo)
		switch {
		case db.IsUniqueViolation(err, ConstraintEmail):
			return nil, apierr.Field("email", "A hospital with this email already exists.")
		case db.IsUniqueViolation(err, ConstraintLicenseNo):
			return nil, apierr.Field("license_no", "A hospital with this license number already exists.")
		case errors.Is(err, customid.ErrExhausted):
			return nil, ErrIDExhausted.Wrap(err)
		}
		return nil, fmt.Errorf("create hospital: %w", err)
	}

	s.logger.Info().
		Str("hospital", h.CustomID).
		Str("admin", caller.CustomID).
		Msg("hospital created")
	return h, nil
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrHospitalNotFound
		}
		return nil, fmt.Errorf("get hospital: %w", err)
	}
	return h, nil
}

func (s *Service) ListHospitals(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// ListMyHospitals returns the hospitals the caller administers.
func (s *Service) ListMyHospitals(ctx context.Context, caller *auth.Identity, limit, offset int) ([]*Hospital, int, error) {
	if err := auth.RequireHospitalAdmin(caller); err != nil {
		return nil, 0, err
	}
	return s.repo.ListByAdmin(ctx, caller.AccountID, limit, offset)
}

// AddHospitalAdmin lets an existing administrator of the hospital add
// another hospital_admin account, identified by its custom id.
func (s *Service) AddHospitalAdmin(ctx context.Context, caller *auth.Identity, hospitalID uuid.UUID, customID string) error {
	if err := auth.RequireHospitalAdmin(caller); err != nil {
		return err
	}
	if _, err := s.GetHospital(ctx, hospitalID); err != nil {
		return err
	}
	ok, err := s.repo.IsAdmin(ctx, hospitalID, caller.AccountID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if !ok {
		return auth.ErrForbidden
	}

	customID = strings.TrimSpace(customID)
	if customID == "" {
		return apierr.Field("custom_id", validate.MsgRequired)
	}
	added, err := s.repo.AddAdminByCustomID(ctx, hospitalID, customID)
	if err != nil {
		if db.IsUniqueViolation(err, ConstraintAdminPK) {
			return ErrAlreadyAdmin
		}
		return fmt.Errorf("add admin: %w", err)
	}
	if !added {
		return ErrAccountNotFound
	}
	s.logger.Info().Str("hospital_id", hospitalID.String()).Str("admin", customID).Msg("hospital admin added")
	return nil
}
