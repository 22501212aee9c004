package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/auth"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/customid"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/db"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/phone"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/pkg/validate"
)

// ProfileChecker reports whether the role profile of an account exists.
type ProfileChecker interface {
	HasPatientProfile(ctx context.Context, accountID uuid.UUID) (bool, error)
	HasDoctorProfile(ctx context.Context, accountID uuid.UUID) (bool, error)
}

type Config struct {
	BcryptCost  int
	PhoneRegion string
}

type Service struct {
	repo     Repository
	profiles ProfileChecker
	ids      *customid.Generator
	tokens   *auth.Issuer
	revoked  auth.RevocationStore
	cfg      Config
	logger   zerolog.Logger
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func NewService(repo Repository, profiles ProfileChecker, ids *customid.Generator, tokens *auth.Issuer,
	revoked auth.RevocationStore, cfg Config, logger zerolog.Logger) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:     repo,
		profiles: profiles,
		ids:      ids,
		tokens:   tokens,
		revoked:  revoked,
		cfg:      cfg,
		logger:   logger.With().Str("component", "account").Logger(),
		now:      time.Now,
	}
}

// kindFor picks the identifier space of a role.
func kindFor(r auth.Role) (customid.Kind, error) {
	switch r {
	case auth.RolePatient:
		return customid.Patient, nil
	case auth.RoleDoctor:
		return customid.Doctor, nil
	case auth.RoleHospitalAdmin:
		return customid.HospitalAdmin, nil
	}
	return customid.Kind{}, fmt.Errorf("no identifier kind for role %q", r)
}

// profileComplete is derived on every read and never stored.
func (s *Service) profileComplete(ctx context.Context, a *Account) (bool, error) {
	switch a.Role {
	case auth.RolePatient:
		return s.profiles.HasPatientProfile(ctx, a.ID)
	case auth.RoleDoctor:
		return s.profiles.HasDoctorProfile(ctx, a.ID)
	case auth.RoleHospitalAdmin:
		return true, nil
	}
	return false, fmt.Errorf("unknown role %q", a.Role)
}

// Register creates an account with a role-specific custom id. Validation
// failures are reported per field.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Account, error) {
	email := strings.TrimSpace(req.Email)

	var v apierr.Validation
	switch {
	case email == "":
		v.Add("email", validate.MsgRequired)
	case !validate.Email(email):
		v.Add("email", validate.MsgInvalidEmail)
	}
	var role auth.Role
	if req.Role == "" {
		v.Add("role", validate.MsgRequired)
	} else if r, err := auth.ParseRole(req.Role); err != nil {
		v.Add("role", fmt.Sprintf("%q is not a valid choice.", req.Role))
	} else {
		role = r
	}
	v.AddIf(req.Password == "", "password", validate.MsgRequired)
	v.AddIf(req.Password2 == "", "password2", validate.MsgRequired)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if req.Password != req.Password2 {
		return nil, apierr.Field("password", msgPasswordMismatch)
	}
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apierr.Field("email", msgEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apierr.Field("password", "Ensure this field has no more than 72 bytes.")
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	kind, err := kindFor(role)
	if err != nil {
		return nil, err
	}
	a := &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	_, err = s.ids.Assign(ctx, kind, func(ctx context.Context, id string) error {
		a.CustomID = id
		return s.repo.Create(ctx, a)
	})
	switch {
	case err == nil:
	case db.IsUniqueViolation(err, ConstraintEmail):
		return nil, apierr.Field("email", msgEmailTaken)
	case errors.Is(err, customid.ErrExhausted):
		return nil, ErrIDExhausted.Wrap(err)
	default:
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info().Str("custom_id", a.CustomID).Str("role", string(a.Role)).Msg("account registered")
	return a, nil
}

// compareDummy spends the same bcrypt work as a real comparison so unknown
// emails are not distinguishable by latency.
func (s *Service) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), s.cfg.BcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = strings.TrimSpace(req.Username)
	}
	var v apierr.Validation
	v.AddIf(email == "", "email", validate.MsgRequired)
	v.AddIf(req.Password == "", "password", validate.MsgRequired)
	if err := v.Err(); err != nil {
		return nil, err
	}

	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.compareDummy(req.Password)
			s.logger.Debug().Msg("login for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Debug().Str("custom_id", a.CustomID).Msg("login with wrong password")
		return nil, ErrInvalidCredentials
	}
	if !a.IsActive {
		return nil, ErrInvalidCredentials
	}

	complete, err := s.profileComplete(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("profile status: %w", err)
	}
	pair, err := s.tokens.IssuePair(auth.Subject{
		AccountID:       a.ID,
		CustomID:        a.CustomID,
		Email:           a.Email,
		Role:            a.Role,
		ProfileComplete: complete,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.TouchLastLogin(ctx, a.ID, s.now()); err != nil {
		s.logger.Warn().Err(err).Str("custom_id", a.CustomID).Msg("failed to record last login")
	}

	return &TokenResponse{
		Access:          pair.Access,
		Refresh:         pair.Refresh,
		Role:            a.Role,
		ProfileComplete: complete,
	}, nil
}

func (s *Service) parseRefresh(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, apierr.Field("refresh", validate.MsgRequired)
	}
	claims, err := s.tokens.Parse(token, auth.TokenRefresh)
	if err != nil {
		return nil, ErrTokenInvalid.Wrap(err)
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Refresh issues a new access token for a valid, unrevoked refresh token.
func (s *Service) Refresh(ctx context.Context, token string) (string, error) {
	claims, err := s.parseRefresh(ctx, token)
	if err != nil {
		return "", err
	}
	return s.tokens.IssueAccess(claims)
}

// Logout revokes the refresh token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.parseRefresh(ctx, token)
	if err != nil {
		return err
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, caller *auth.Identity) (*Account, error) {
	if err := auth.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	a, err := s.repo.GetByID(ctx, caller.AccountID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	return a, nil
}

func (s *Service) view(ctx context.Context, a *Account) (*View, error) {
	complete, err := s.profileComplete(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("profile status: %w", err)
	}
	v := a.View(s.now())
	v.ProfileComplete = &complete
	return v, nil
}

// GetAccount returns the caller's own account.
func (s *Service) GetAccount(ctx context.Context, caller *auth.Identity) (*View, error) {
	a, err := s.load(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, a)
}

// UpdateAccount applies a partial edit to the caller's account. Email, role
// and custom id cannot be changed.
func (s *Service) UpdateAccount(ctx context.Context, caller *auth.Identity, u Update) (*View, error) {
	a, err := s.load(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := s.apply(a, u); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return s.view(ctx, a)
}

func (s *Service) apply(a *Account, u Update) error {
	var v apierr.Validation
	if u.FirstName != nil {
		v.AddIf(validate.TooLong(*u.FirstName, 150), "first_name", validate.MaxLenMessage(150))
		a.FirstName = strings.TrimSpace(*u.FirstName)
	}
	if u.MiddleName != nil {
		v.AddIf(validate.TooLong(*u.MiddleName, 50), "middle_name", validate.MaxLenMessage(50))
		a.MiddleName = strings.TrimSpace(*u.MiddleName)
	}
	if u.LastName != nil {
		v.AddIf(validate.TooLong(*u.LastName, 150), "last_name", validate.MaxLenMessage(150))
		a.LastName = strings.TrimSpace(*u.LastName)
	}
	if u.Gender != nil {
		if *u.Gender == "" {
			a.Gender = nil
		} else if g := Gender(*u.Gender); g.Valid() {
			a.Gender = &g
		} else {
			v.Add("gender", fmt.Sprintf("%q is not a valid choice.", *u.Gender))
		}
	}
	if u.DateOfBirth != nil {
		if *u.DateOfBirth == "" {
			a.DateOfBirth = nil
		} else if dob, err := time.Parse(DateLayout, *u.DateOfBirth); err != nil {
			v.Add("date_of_birth", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
		} else if dob.After(s.now().UTC()) {
			v.Add("date_of_birth", "Date of birth cannot be in the future.")
		} else {
			a.DateOfBirth = &dob
		}
	}
	if u.ContactNo != nil {
		if strings.TrimSpace(*u.ContactNo) == "" {
			a.ContactNo = nil
		} else if n, err := phone.Normalize(*u.ContactNo, s.cfg.PhoneRegion); err != nil {
			v.Add("contact_no", phone.Message)
		} else {
			a.ContactNo = &n
		}
	}
	if u.Address != nil {
		if strings.TrimSpace(*u.Address) == "" {
			a.Address = nil
		} else {
			addr := strings.TrimSpace(*u.Address)
			a.Address = &addr
		}
	}
	return v.Err()
}
