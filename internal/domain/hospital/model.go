package hospital

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/blobstore"
)

type Hospital struct {
	ID             uuid.UUID
	CustomID       string
	Name           string
	Address        string
	ContactNo1     string
	ContactNo2     string
	Email          string
	Website        string
	LicenseNo      string
	OperatingHours string
	NumDepartments int
	PhotoKey       *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Input is the body of POST /profile/hospital/.
type Input struct {
	Name           string `json:"name"`
	Address        string `json:"address"`
	ContactNo1     string `json:"contact_no1"`
	ContactNo2     string `json:"contact_no2"`
	Email          string `json:"email"`
	Website        string `json:"website"`
	LicenseNo      string `json:"license_no"`
	OperatingHours string `json:"operating_hours"`
	NumDepartments *int   `json:"num_departments"`
}

type View struct {
	ID             uuid.UUID `json:"id"`
	CustomID       string    `json:"custom_id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	ContactNo1     string    `json:"contact_no1"`
	ContactNo2     string    `json:"contact_no2"`
	Email          string    `json:"email"`
	Website        string    `json:"website"`
	LicenseNo      string    `json:"license_no"`
	OperatingHours string    `json:"operating_hours"`
	NumDepartments int       `json:"num_departments"`
	Photo          *string   `json:"photo"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (h *Hospital) View(mediaPrefix string) *View {
	v := &View{
		ID:             h.ID,
		CustomID:       h.CustomID,
		Name:           h.Name,
		Address:        h.Address,
		ContactNo1:     h.ContactNo1,
		ContactNo2:     h.ContactNo2,
		Email:          h.Email,
		Website:        h.Website,
		LicenseNo:      h.LicenseNo,
		OperatingHours: h.OperatingHours,
		NumDepartments: h.NumDepartments,
		CreatedAt:      h.CreatedAt,
		UpdatedAt:      h.UpdatedAt,
	}
	if h.PhotoKey != nil {
		u := blobstore.URL(mediaPrefix, *h.PhotoKey)
		v.Photo = &u
	}
	return v
}

func Views(hs []*Hospital, mediaPrefix string) []*View {
	out := make([]*View, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.View(mediaPrefix))
	}
	return out
}

type AddAdminRequest struct {
	CustomID string `json:"custom_id"`
}
