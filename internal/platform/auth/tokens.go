package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken   = errors.New("token is invalid or expired")
	ErrWrongTokenType = errors.New("token has wrong type")
)

// Claims carried by both token types. The subject is the account UUID and
// the registered ID is the jti used for revocation.
type Claims struct {
	jwt.RegisteredClaims
	TokenType       TokenType `json:"token_type"`
	Role            Role      `json:"role"`
	ProfileComplete bool      `json:"profile_complete"`
	CustomID        string    `json:"custom_id"`
	Email           string    `json:"email"`
}

// Identity rebuilds the caller from verified claims.
func (c *Claims) Identity() (*Identity, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, fmt.Errorf("subject: %w", ErrInvalidToken)
	}
	if !c.Role.Valid() {
		return nil, fmt.Errorf("role %q: %w", c.Role, ErrInvalidToken)
	}
	return &Identity{AccountID: id, CustomID: c.CustomID, Email: c.Email, Role: c.Role}, nil
}

type TokenConfig struct {
	SigningKey []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Subject is what a login knows about the account when issuing tokens.
type Subject struct {
	AccountID       uuid.UUID
	CustomID        string
	Email           string
	Role            Role
	ProfileComplete bool
}

type TokenPair struct {
	Access  string
	Refresh string
}

// Issuer signs and verifies HS256 access and refresh tokens.
type Issuer struct {
	cfg TokenConfig
	now func() time.Time
}

func NewIssuer(cfg TokenConfig) *Issuer {
	return &Issuer{cfg: cfg, now: time.Now}
}

// IssuePair signs a fresh access/refresh pair for s.
func (i *Issuer) IssuePair(s Subject) (TokenPair, error) {
	base := Claims{
		Role:            s.Role,
		ProfileComplete: s.ProfileComplete,
		CustomID:        s.CustomID,
		Email:           s.Email,
	}
	base.Subject = s.AccountID.String()

	refresh := base
	refresh.TokenType = TokenRefresh
	refreshStr, err := i.sign(refresh, i.cfg.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	access := base
	access.TokenType = TokenAccess
	accessStr, err := i.sign(access, i.cfg.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: accessStr, Refresh: refreshStr}, nil
}

// IssueAccess mints a new access token from verified refresh claims. The
// custom claims are copied as they were at login.
func (i *Issuer) IssueAccess(refresh *Claims) (string, error) {
	access := Claims{
		TokenType:       TokenAccess,
		Role:            refresh.Role,
		ProfileComplete: refresh.ProfileComplete,
		CustomID:        refresh.CustomID,
		Email:           refresh.Email,
	}
	access.Subject = refresh.Subject
	return i.sign(access, i.cfg.AccessTTL)
}

func (i *Issuer) sign(c Claims, ttl time.Duration) (string, error) {
	now := i.now()
	c.ID = uuid.NewString()
	c.Issuer = i.cfg.Issuer
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.cfg.SigningKey)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", c.TokenType, err)
	}
	return tok, nil
}

// Parse verifies signature, expiry, issuer and token type.
func (i *Issuer) Parse(tokenStr string, want TokenType) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.cfg.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return i.cfg.SigningKey, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != want {
		return nil, ErrWrongTokenType
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
