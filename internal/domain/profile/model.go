package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/blobstore"
)

var bloodGroups = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}

// PatientProfile is keyed by the patient's account id.
type PatientProfile struct {
	AccountID                uuid.UUID
	BloodGroup               *string
	EmergencyContactNo       *string
	EmergencyContactRelation *string
	Allergies                string
	PhotoKey                 *string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// DoctorProfile is keyed by the doctor's account id. HospitalID is cleared
// when the hospital is deleted.
type DoctorProfile struct {
	AccountID       uuid.UUID
	Specialization  *string
	Qualification   *string
	ExperienceYears *int
	AvailableDays   *string
	LanguagesSpoken *string
	HospitalID      *uuid.UUID
	PhotoKey        *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PatientInput is the writable part of a patient profile.
type PatientInput struct {
	BloodGroup               string `json:"blood_group"`
	EmergencyContactNo       string `json:"emergency_contact_no"`
	EmergencyContactRelation string `json:"emergency_contact_relation"`
	Allergies                string `json:"allergies"`
}

type DoctorInput struct {
	Specialization  string     `json:"specialization"`
	Qualification   string     `json:"qualification"`
	ExperienceYears *int       `json:"experience_years"`
	AvailableDays   string     `json:"available_days"`
	LanguagesSpoken string     `json:"languages_spoken"`
	Hospital        *uuid.UUID `json:"hospital"`
}

type PatientView struct {
	AccountID                uuid.UUID `json:"user"`
	BloodGroup               *string   `json:"blood_group"`
	EmergencyContactNo       *string   `json:"emergency_contact_no"`
	EmergencyContactRelation *string   `json:"emergency_contact_relation"`
	Allergies                string    `json:"allergies"`
	Photo                    *string   `json:"photo"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

func (p *PatientProfile) View(mediaPrefix string) *PatientView {
	return &PatientView{
		AccountID:                p.AccountID,
		BloodGroup:               p.BloodGroup,
		EmergencyContactNo:       p.EmergencyContactNo,
		EmergencyContactRelation: p.EmergencyContactRelation,
		Allergies:                p.Allergies,
		Photo:                    photoURL(mediaPrefix, p.PhotoKey),
		CreatedAt:                p.CreatedAt,
		UpdatedAt:                p.UpdatedAt,
	}
}

type DoctorView struct {
	AccountID       uuid.UUID  `json:"user"`
	Specialization  *string    `json:"specialization"`
	Qualification   *string    `json:"qualification"`
	ExperienceYears *int       `json:"experience_years"`
	AvailableDays   *string    `json:"available_days"`
	LanguagesSpoken *string    `json:"languages_spoken"`
	Hospital        *uuid.UUID `json:"hospital"`
	Photo           *string    `json:"photo"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (d *DoctorProfile) View(mediaPrefix string) *DoctorView {
	return &DoctorView{
		AccountID:       d.AccountID,
		Specialization:  d.Specialization,
		Qualification:   d.Qualification,
		ExperienceYears: d.ExperienceYears,
		AvailableDays:   d.AvailableDays,
		LanguagesSpoken: d.LanguagesSpoken,
		Hospital:        d.HospitalID,
		Photo:           photoURL(mediaPrefix, d.PhotoKey),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// DoctorListing is a directory entry used by patients to pick a doctor.
type DoctorListing struct {
	AccountID      uuid.UUID  `json:"id"`
	CustomID       string     `json:"custom_id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Specialization *string    `json:"specialization"`
	HospitalID     *uuid.UUID `json:"hospital"`
	AvailableDays  *string    `json:"available_days"`
}

type DoctorFilter struct {
	HospitalID     *uuid.UUID
	Specialization string
}

func photoURL(prefix string, key *string) *string {
	if key == nil {
		return nil
	}
	u := blobstore.URL(prefix, *key)
	return &u
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
