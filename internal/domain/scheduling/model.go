package scheduling

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var validStatuses = map[Status]bool{
	StatusPending: true, StatusConfirmed: true, StatusCompleted: true, StatusCancelled: true,
}

// transitions lists the statuses reachable from each status. Completed and
// cancelled are terminal.
var transitions = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusCompleted: true, StatusCancelled: true},
}

func (s Status) Valid() bool { return validStatuses[s] }

func (s Status) CanMoveTo(next Status) bool { return transitions[s][next] }

type Appointment struct {
	ID          uuid.UUID
	CustomID    string
	PatientID   uuid.UUID
	DoctorID    uuid.UUID
	HospitalID  uuid.UUID
	Datetime    time.Time
	Status      Status
	TokenNumber *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasParticipant reports whether accountID is the patient or the doctor.
func (a *Appointment) HasParticipant(accountID uuid.UUID) bool {
	return a.PatientID == accountID || a.DoctorID == accountID
}

// BookRequest carries ids as strings so malformed values surface as field
// errors rather than a body parse failure.
type BookRequest struct {
	Doctor              string `json:"doctor"`
	Hospital            string `json:"hospital"`
	AppointmentDatetime string `json:"appointment_datetime"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type View struct {
	ID                  uuid.UUID `json:"id"`
	CustomID            string    `json:"custom_id"`
	Patient             uuid.UUID `json:"patient"`
	Doctor              uuid.UUID `json:"doctor"`
	Hospital            uuid.UUID `json:"hospital"`
	AppointmentDatetime time.Time `json:"appointment_datetime"`
	Status              Status    `json:"status"`
	TokenNumber         *string   `json:"token_number"`
	CreatedAt           time.Time `json:"created_at"`
}

func (a *Appointment) View() *View {
	return &View{
		ID:                  a.ID,
		CustomID:            a.CustomID,
		Patient:             a.PatientID,
		Doctor:              a.DoctorID,
		Hospital:            a.HospitalID,
		AppointmentDatetime: a.Datetime,
		Status:              a.Status,
		TokenNumber:         a.TokenNumber,
		CreatedAt:           a.CreatedAt,
	}
}

func Views(as []*Appointment) []*View {
	out := make([]*View, 0, len(as))
	for _, a := range as {
		out = append(out, a.View())
	}
	return out
}
