package medication

import (
	"time"

	"github.com/google/uuid"
)

type Medication struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

type MedicationInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Prescription struct {
	ID             uuid.UUID
	AppointmentID  uuid.UUID
	MedicationID   uuid.UUID
	MedicationName string
	Dosage         string
	Frequency      string
	Duration       string
	Notes          string
	CreatedAt      time.Time
}

// PrescriptionInput takes the medication id as a string so a malformed value
// is reported against the field.
type PrescriptionInput struct {
	Medication string `json:"medication"`
	Dosage     string `json:"dosage"`
	Frequency  string `json:"frequency"`
	Duration   string `json:"duration"`
	Notes      string `json:"notes"`
}

type PrescriptionView struct {
	ID             uuid.UUID `json:"id"`
	Appointment    uuid.UUID `json:"appointment"`
	Medication     uuid.UUID `json:"medication"`
	MedicationName string    `json:"medication_name"`
	Dosage         string    `json:"dosage"`
	Frequency      string    `json:"frequency"`
	Duration       string    `json:"duration"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

func (p *Prescription) View() *PrescriptionView {
	return &PrescriptionView{
		ID:             p.ID,
		Appointment:    p.AppointmentID,
		Medication:     p.MedicationID,
		MedicationName: p.MedicationName,
		Dosage:         p.Dosage,
		Frequency:      p.Frequency,
		Duration:       p.Duration,
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
	}
}

func PrescriptionViews(ps []*Prescription) []*PrescriptionView {
	out := make([]*PrescriptionView, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.View())
	}
	return out
}
