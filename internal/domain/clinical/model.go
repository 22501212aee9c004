package clinical

import (
	"time"

	"github.com/google/uuid"
)

// -- Medical reports --

type MedicalReport struct {
	ID            uuid.UUID
	AppointmentID uuid.UUID
	PatientID     uuid.UUID
	ReportType    string
	Description   string
	FileKey       string
	CreatedAt     time.Time
}

type ReportInput struct {
	ReportType  string
	Description string
}

type ReportView struct {
	ID          uuid.UUID `json:"id"`
	Appointment uuid.UUID `json:"appointment"`
	Patient     uuid.UUID `json:"patient"`
	ReportType  string    `json:"report_type"`
	Description string    `json:"description"`
	ReportFile  string    `json:"report_file"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileURL is the authenticated download route for the report's file.
func (r *MedicalReport) FileURL() string {
	return "/appointments/" + r.AppointmentID.String() + "/reports/" + r.ID.String() + "/file/"
}

func (r *MedicalReport) View() *ReportView {
	return &ReportView{
		ID:          r.ID,
		Appointment: r.AppointmentID,
		Patient:     r.PatientID,
		ReportType:  r.ReportType,
		Description: r.Description,
		ReportFile:  r.FileURL(),
		CreatedAt:   r.CreatedAt,
	}
}

func ReportViews(rs []*MedicalReport) []*ReportView {
	out := make([]*ReportView, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.View())
	}
	return out
}

// -- Articles --

type ArticleStatus string

const (
	ArticleDraft     ArticleStatus = "draft"
	ArticlePublished ArticleStatus = "published"
)

type Article struct {
	ID        uuid.UUID
	AuthorID  uuid.UUID
	Title     string
	Content   string
	Status    ArticleStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ArticleInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ArticleView struct {
	ID        uuid.UUID     `json:"id"`
	Author    uuid.UUID     `json:"author"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Status    ArticleStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (a *Article) View() *ArticleView {
	return &ArticleView{
		ID:        a.ID,
		Author:    a.AuthorID,
		Title:     a.Title,
		Content:   a.Content,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func ArticleViews(as []*Article) []*ArticleView {
	out := make([]*ArticleView, 0, len(as))
	for _, a := range as {
		out = append(out, a.View())
	}
	return out
}
