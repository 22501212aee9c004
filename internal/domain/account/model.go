package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/auth"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// DateLayout is the wire format of date_of_birth.
const DateLayout = "2006-01-02"

type Account struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         auth.Role
	CustomID     string
	FirstName    string
	MiddleName   string
	LastName     string
	Gender       *Gender
	DateOfBirth  *time.Time
	ContactNo    *string
	Address      *string
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Age returns whole years since DateOfBirth at now, or nil when the date of
// birth is unknown. A birthday later in the year than now has not happened
// yet and does not count.
func (a *Account) Age(now time.Time) *int {
	if a.DateOfBirth == nil {
		return nil
	}
	dob := a.DateOfBirth.UTC()
	now = now.UTC()
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return &years
}

// View is the JSON shape of an account. The password hash never leaves the
// package.
type View struct {
	ID              uuid.UUID `json:"id"`
	CustomID        string    `json:"custom_id"`
	Email           string    `json:"email"`
	Role            auth.Role `json:"role"`
	FirstName       string    `json:"first_name"`
	MiddleName      string    `json:"middle_name"`
	LastName        string    `json:"last_name"`
	Gender          *Gender   `json:"gender"`
	DateOfBirth     *string   `json:"date_of_birth"`
	Age             *int      `json:"age"`
	ContactNo       *string   `json:"contact_no"`
	Address         *string   `json:"address"`
	ProfileComplete *bool     `json:"profile_complete,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (a *Account) View(now time.Time) *View {
	v := &View{
		ID:         a.ID,
		CustomID:   a.CustomID,
		Email:      a.Email,
		Role:       a.Role,
		FirstName:  a.FirstName,
		MiddleName: a.MiddleName,
		LastName:   a.LastName,
		Gender:     a.Gender,
		Age:        a.Age(now),
		ContactNo:  a.ContactNo,
		Address:    a.Address,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
	if a.DateOfBirth != nil {
		s := a.DateOfBirth.Format(DateLayout)
		v.DateOfBirth = &s
	}
	return v
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// LoginRequest accepts the address under either "email" or "username".
type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Access          string    `json:"access"`
	Refresh         string    `json:"refresh"`
	Role            auth.Role `json:"role"`
	ProfileComplete bool      `json:"profile_complete"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type AccessResponse struct {
	Access string `json:"access"`
}

// Update carries a partial account edit. Nil fields are left unchanged; an
// empty string clears an optional field.
type Update struct {
	FirstName   *string `json:"first_name"`
	MiddleName  *string `json:"middle_name"`
	LastName    *string `json:"last_name"`
	Gender      *string `json:"gender"`
	DateOfBirth *string `json:"date_of_birth"`
	ContactNo   *string `json:"contact_no"`
	Address     *string `json:"address"`
}
