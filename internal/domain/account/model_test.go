package account

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/auth"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAge(t *testing.T) {
	tests := []struct {
		name string
		dob  *time.Time
		now  time.Time
		want *int
	}{
		{"unknown", nil, time.Now(), nil},
		{"day before birthday", date(2000, 6, 15), time.Date(2024, 6, 14, 23, 0, 0, 0, time.UTC), intPtr(23)},
		{"on birthday", date(2000, 6, 15), time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), intPtr(24)},
		{"earlier month", date(2000, 6, 15), time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC), intPtr(23)},
		{"later month", date(2000, 6, 15), time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), intPtr(24)},
		{"leap day, non-leap year", date(2004, 2, 29), time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), intPtr(20)},
		{"leap day, after", date(2004, 2, 29), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), intPtr(21)},
		{"born today", date(2026, 1, 1), time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC), intPtr(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Account{DateOfBirth: tt.dob}
			got := a.Age(tt.now)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("Age = %d, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("Age = nil, want %d", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("Age = %d, want %d", *got, *tt.want)
			}
		})
	}
}

func intPtr(n int) *int { return &n }

func TestView_JSON(t *testing.T) {
	a := &Account{
		ID:           uuid.New(),
		Email:        "x@example.com",
		PasswordHash: "$2a$04$secret",
		Role:         auth.RolePatient,
		CustomID:     "PT-2026-1234",
	}
	b, err := json.Marshal(a.View(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	if !strings.Contains(s, `"age":null`) {
		t.Errorf("expected age null, got %s", s)
	}
	if !strings.Contains(s, `"date_of_birth":null`) {
		t.Errorf("expected date_of_birth null, got %s", s)
	}
	if strings.Contains(s, "password") || strings.Contains(s, "secret") {
		t.Errorf("password leaked: %s", s)
	}

	a.DateOfBirth = date(1999, 12, 31)
	b, _ = json.Marshal(a.View(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	if !strings.Contains(string(b), `"date_of_birth":"1999-12-31"`) || !strings.Contains(string(b), `"age":26`) {
		t.Errorf("unexpected json %s", b)
	}
}

func TestGender_Valid(t *testing.T) {
	for _, g := range []Gender{GenderMale, GenderFemale, GenderOther} {
		if !g.Valid() {
			t.Errorf("%s should be valid", g)
		}
	}
	if Gender("Male").Valid() {
		t.Error("case variants are not valid")
	}
}
