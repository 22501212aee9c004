package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var testSigningKey = []byte("test-secret-key-for-unit-tests-only-0123")

func newTestIssuer() *Issuer {
	return NewIssuer(TokenConfig{
		SigningKey: testSigningKey,
		Issuer:     "hms-test",
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})
}

func testSubject() Subject {
	return Subject{
		AccountID:       uuid.New(),
		CustomID:        "PT-2026-1234",
		Email:           "pat@example.com",
		Role:            RolePatient,
		ProfileComplete: false,
	}
}

func TestIssuePair_Claims(t *testing.T) {
	iss := newTestIssuer()
	s := testSubject()

	pair, err := iss.IssuePair(s)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	access, err := iss.Parse(pair.Access, TokenAccess)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if access.Role != RolePatient || access.ProfileComplete || access.CustomID != s.CustomID || access.Email != s.Email {
		t.Errorf("unexpected access claims: %+v", access)
	}
	if access.Subject != s.AccountID.String() {
		t.Errorf("subject = %s", access.Subject)
	}

	refresh, err := iss.Parse(pair.Refresh, TokenRefresh)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if refresh.ID == "" || refresh.ID == access.ID {
		t.Errorf("expected distinct jtis, got %q and %q", refresh.ID, access.ID)
	}
	if !refresh.ExpiresAt.After(access.ExpiresAt.Time) {
		t.Error("refresh token should outlive access token")
	}
}

func TestParse_WrongType(t *testing.T) {
	iss := newTestIssuer()
	pair, _ := iss.IssuePair(testSubject())

	if _, err := iss.Parse(pair.Refresh, TokenAccess); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("refresh used as access: got %v", err)
	}
	if _, err := iss.Parse(pair.Access, TokenRefresh); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("access used as refresh: got %v", err)
	}
}

func TestParse_Expired(t *testing.T) {
	iss := newTestIssuer()
	issuedAt := time.Now().Add(-time.Hour)
	iss.now = func() time.Time { return issuedAt }
	pair, _ := iss.IssuePair(testSubject())

	iss.now = time.Now
	if _, err := iss.Parse(pair.Access, TokenAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected expired access token to be invalid, got %v", err)
	}
	if _, err := iss.Parse(pair.Refresh, TokenRefresh); err != nil {
		t.Errorf("refresh should still be valid: %v", err)
	}
}

func TestParse_Rejects(t *testing.T) {
	iss := newTestIssuer()
	pair, _ := iss.IssuePair(testSubject())

	other := NewIssuer(TokenConfig{SigningKey: []byte("another-key-another-key-another-key"), Issuer: "hms-test", AccessTTL: time.Minute})
	if _, err := other.Parse(pair.Access, TokenAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong key: got %v", err)
	}

	wrongIss := NewIssuer(TokenConfig{SigningKey: testSigningKey, Issuer: "someone-else", AccessTTL: time.Minute})
	if _, err := wrongIss.Parse(pair.Access, TokenAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong issuer: got %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{TokenType: TokenAccess})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := iss.Parse(unsigned, TokenAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("alg none: got %v", err)
	}

	if _, err := iss.Parse("not-a-jwt", TokenAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage: got %v", err)
	}
}

func TestIssueAccess_CopiesRefreshClaims(t *testing.T) {
	iss := newTestIssuer()
	s := testSubject()
	s.Role = RoleDoctor
	s.ProfileComplete = true
	pair, _ := iss.IssuePair(s)

	refresh, err := iss.Parse(pair.Refresh, TokenRefresh)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	tok, err := iss.IssueAccess(refresh)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	access, err := iss.Parse(tok, TokenAccess)
	if err != nil {
		t.Fatalf("parse new access: %v", err)
	}
	if access.Role != RoleDoctor || !access.ProfileComplete || access.Subject != refresh.Subject {
		t.Errorf("claims not copied: %+v", access)
	}
}

func TestClaimsIdentity(t *testing.T) {
	c := &Claims{Role: RoleHospitalAdmin, CustomID: "AD-2026-123", Email: "ad@example.com"}
	c.Subject = "not-a-uuid"
	if _, err := c.Identity(); err == nil {
		t.Error("expected error for malformed subject")
	}

	id := uuid.New()
	c.Subject = id.String()
	got, err := c.Identity()
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if got.AccountID != id || got.Role != RoleHospitalAdmin {
		t.Errorf("unexpected identity: %+v", got)
	}

	c.Role = "superuser"
	if _, err := c.Identity(); err == nil {
		t.Error("expected error for unknown role")
	}
}
