package clinical

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/domain/scheduling"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/auth"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/blobstore"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/db"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// -- Fakes --

// fakeAppointments mirrors the visibility rules of the scheduling service:
// participants and admins of the hospital see the appointment.
type fakeAppointments struct {
	appts  map[uuid.UUID]*scheduling.Appointment
	admins map[uuid.UUID]uuid.UUID // admin account -> hospital
}

func (f *fakeAppointments) Get(_ context.Context, caller *auth.Identity, id uuid.UUID) (*scheduling.Appointment, error) {
	if caller == nil {
		return nil, auth.ErrUnauthenticated
	}
	a, ok := f.appts[id]
	if !ok {
		return nil, scheduling.ErrAppointmentNotFound
	}
	if a.HasParticipant(caller.AccountID) || f.admins[caller.AccountID] == a.HospitalID {
		cp := *a
		return &cp, nil
	}
	return nil, scheduling.ErrAppointmentNotFound
}

type mockReports struct {
	mu      sync.Mutex
	reports map[uuid.UUID]*MedicalReport
}

func (m *mockReports) Create(_ context.Context, r *MedicalReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = time.Now()
	cp := *r
	m.reports[r.ID] = &cp
	return nil
}

func (m *mockReports) GetByID(_ context.Context, id uuid.UUID) (*MedicalReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockReports) ListByAppointment(_ context.Context, id uuid.UUID, limit, offset int) ([]*MedicalReport, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*MedicalReport
	for _, r := range m.reports {
		if r.AppointmentID == id {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

type mockArticles struct {
	mu       sync.Mutex
	articles map[uuid.UUID]*Article
	doctors  map[uuid.UUID]bool
	seq      int
}

func (m *mockArticles) Create(_ context.Context, a *Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.doctors[a.AuthorID] {
		return &pgconn.PgError{Code: "23503", ConstraintName: ConstraintArticleAuthor}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.seq++
	a.CreatedAt = time.Date(2026, 1, 1, 0, m.seq, 0, 0, time.UTC)
	a.UpdatedAt = a.CreatedAt
	cp := *a
	m.articles[a.ID] = &cp
	return nil
}

func (m *mockArticles) GetByID(_ context.Context, id uuid.UUID) (*Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockArticles) Update(_ context.Context, a *Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.articles[a.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *a
	m.articles[a.ID] = &cp
	return nil
}

func (m *mockArticles) list(match func(*Article) bool) ([]*Article, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Article
	for _, a := range m.articles {
		if match(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (m *mockArticles) ListPublished(_ context.Context, _, _ int) ([]*Article, int, error) {
	return m.list(func(a *Article) bool { return a.Status == ArticlePublished })
}

func (m *mockArticles) ListByAuthor(_ context.Context, id uuid.UUID, _, _ int) ([]*Article, int, error) {
	return m.list(func(a *Article) bool { return a.AuthorID == id })
}

// -- Fixture --

type fixture struct {
	svc      *Service
	store    *blobstore.MemoryStore
	reports  *mockReports
	articles *mockArticles
	appts    *fakeAppointments
	patient  *auth.Identity
	doctor   *auth.Identity
	admin    *auth.Identity
	appt     *scheduling.Appointment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    blobstore.NewMemoryStore(),
		reports:  &mockReports{reports: make(map[uuid.UUID]*MedicalReport)},
		articles: &mockArticles{articles: make(map[uuid.UUID]*Article), doctors: make(map[uuid.UUID]bool)},
		patient:  &auth.Identity{AccountID: uuid.New(), CustomID: "PT-2026-1111", Role: auth.RolePatient},
		doctor:   &auth.Identity{AccountID: uuid.New(), CustomID: "DC-2026-2222", Role: auth.RoleDoctor},
		admin:    &auth.Identity{AccountID: uuid.New(), CustomID: "AD-2026-333", Role: auth.RoleHospitalAdmin},
	}
	f.appt = &scheduling.Appointment{
		ID:         uuid.New(),
		CustomID:   "AP-2026-4444",
		PatientID:  f.patient.AccountID,
		DoctorID:   f.doctor.AccountID,
		HospitalID: uuid.New(),
		Status:     scheduling.StatusConfirmed,
	}
	f.appts = &fakeAppointments{
		appts:  map[uuid.UUID]*scheduling.Appointment{f.appt.ID: f.appt},
		admins: map[uuid.UUID]uuid.UUID{f.admin.AccountID: f.appt.HospitalID},
	}
	f.articles.doctors[f.doctor.AccountID] = true
	f.svc = NewService(f.reports, f.articles, f.appts, f.store, zerolog.Nop())
	return f
}

func (f *fixture) putFile(t *testing.T) *blobstore.Object {
	t.Helper()
	obj, err := f.store.Put(context.Background(), blobstore.MedicalReports, "xray.png", bytes.NewReader(pngHeader))
	if err != nil {
		t.Fatal(err)
	}
	return obj
}

func validReport() ReportInput {
	return ReportInput{ReportType: "X-Ray", Description: "Chest, frontal view"}
}

// -- Report tests --

func TestUploadReport(t *testing.T) {
	f := newFixture(t)
	file := f.putFile(t)

	r, err := f.svc.UploadReport(context.Background(), f.doctor, f.appt.ID, validReport(), file)
	if err != nil {
		t.Fatalf("UploadReport: %v", err)
	}
	if r.PatientID != f.patient.AccountID || r.FileKey != file.Key {
		t.Errorf("unexpected report %+v", r)
	}
	if f.store.Len() != 1 {
		t.Error("file should be kept")
	}
}

func TestUploadReport_Rejections(t *testing.T) {
	otherDoctor := &auth.Identity{AccountID: uuid.New(), Role: auth.RoleDoctor}

	tests := []struct {
		name   string
		caller func(f *fixture) *auth.Identity
		status scheduling.Status
		in     ReportInput
		check  func(t *testing.T, err error)
	}{
		{"patient", func(f *fixture) *auth.Identity { return f.patient }, scheduling.StatusConfirmed, validReport(),
			func(t *testing.T, err error) {
				if !errors.Is(err, auth.ErrForbidden) {
					t.Errorf("got %v", err)
				}
			}},
		{"other doctor", func(*fixture) *auth.Identity { return otherDoctor }, scheduling.StatusConfirmed, validReport(),
			func(t *testing.T, err error) {
				if !errors.Is(err, scheduling.ErrAppointmentNotFound) {
					t.Errorf("got %v", err)
				}
			}},
		{"pending appointment", func(f *fixture) *auth.Identity { return f.doctor }, scheduling.StatusPending, validReport(),
			func(t *testing.T, err error) {
				if !errors.Is(err, ErrAppointmentPending) {
					t.Errorf("got %v", err)
				}
			}},
		{"cancelled appointment", func(f *fixture) *auth.Identity { return f.doctor }, scheduling.StatusCancelled, validReport(),
			func(t *testing.T, err error) {
				if !errors.Is(err, ErrAppointmentPending) {
					t.Errorf("got %v", err)
				}
			}},
		{"missing fields", func(f *fixture) *auth.Identity { return f.doctor }, scheduling.StatusCompleted, ReportInput{},
			func(t *testing.T, err error) {
				ae, ok := apierr.As(err)
				if !ok || len(ae.Fields["report_type"]) == 0 || len(ae.Fields["description"]) == 0 {
					t.Errorf("got %v", err)
				}
			}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.appt.Status = tt.status
			_, err := f.svc.UploadReport(context.Background(), tt.caller(f), f.appt.ID, tt.in, f.putFile(t))
			tt.check(t, err)
			if f.store.Len() != 0 {
				t.Error("rejected upload should be discarded")
			}
		})
	}
}

func TestUploadReport_FileRequired(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UploadReport(context.Background(), f.doctor, f.appt.ID, validReport(), nil)
	ae, ok := apierr.As(err)
	if !ok || len(ae.Fields["report_file"]) == 0 {
		t.Errorf("expected report_file error, got %v", err)
	}
}

func TestReports_Access(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r, err := f.svc.UploadReport(ctx, f.doctor, f.appt.ID, validReport(), f.putFile(t))
	if err != nil {
		t.Fatal(err)
	}

	for _, caller := range []*auth.Identity{f.patient, f.doctor} {
		if _, total, err := f.svc.ListReports(ctx, caller, f.appt.ID, 10, 0); err != nil || total != 1 {
			t.Errorf("%s list: %d %v", caller.Role, total, err)
		}
		if _, err := f.svc.GetReport(ctx, caller, f.appt.ID, r.ID); err != nil {
			t.Errorf("%s get: %v", caller.Role, err)
		}
	}
	if _, _, err := f.svc.ListReports(ctx, f.admin, f.appt.ID, 10, 0); !errors.Is(err, auth.ErrForbidden) {
		t.Errorf("admin: got %v", err)
	}
	stranger := &auth.Identity{AccountID: uuid.New(), Role: auth.RolePatient}
	if _, err := f.svc.GetReport(ctx, stranger, f.appt.ID, r.ID); !errors.Is(err, scheduling.ErrAppointmentNotFound) {
		t.Errorf("stranger: got %v", err)
	}
	if _, err := f.svc.GetReport(ctx, f.patient, f.appt.ID, uuid.New()); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("unknown report: got %v", err)
	}
}

func TestGetReport_WrongAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r, err := f.svc.UploadReport(ctx, f.doctor, f.appt.ID, validReport(), f.putFile(t))
	if err != nil {
		t.Fatal(err)
	}
	other := *f.appt
	other.ID = uuid.New()
	f.appts.appts[other.ID] = &other

	if _, err := f.svc.GetReport(ctx, f.patient, other.ID, r.ID); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("got %v", err)
	}
}

// -- Article tests --

func TestArticles_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.CreateArticle(ctx, f.doctor, ArticleInput{Title: "Hydration", Content: "Drink water."})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}
	if a.Status != ArticleDraft {
		t.Errorf("new article status = %s", a.Status)
	}

	if _, total, _ := f.svc.ListArticles(ctx, nil, false, 10, 0); total != 0 {
		t.Errorf("draft listed publicly")
	}
	if _, err := f.svc.GetArticle(ctx, f.patient, a.ID); !errors.Is(err, ErrArticleNotFound) {
		t.Errorf("draft visible to patient: %v", err)
	}
	if _, err := f.svc.GetArticle(ctx, f.doctor, a.ID); err != nil {
		t.Errorf("draft hidden from author: %v", err)
	}
	if _, total, _ := f.svc.ListArticles(ctx, f.doctor, true, 10, 0); total != 1 {
		t.Errorf("author list total = %d", total)
	}

	updated, err := f.svc.UpdateArticle(ctx, f.doctor, a.ID, ArticleInput{Title: "Hydration 101", Content: "Drink more water."})
	if err != nil || updated.Title != "Hydration 101" {
		t.Fatalf("UpdateArticle: %v %v", updated, err)
	}

	for i := 0; i < 2; i++ {
		pub, err := f.svc.PublishArticle(ctx, f.doctor, a.ID)
		if err != nil || pub.Status != ArticlePublished {
			t.Fatalf("publish %d: %v %v", i, pub, err)
		}
	}

	as, total, _ := f.svc.ListArticles(ctx, nil, false, 10, 0)
	if total != 1 || as[0].Title != "Hydration 101" {
		t.Errorf("public list %v %d", as, total)
	}
	if _, err := f.svc.GetArticle(ctx, nil, a.ID); err != nil {
		t.Errorf("published hidden from anonymous: %v", err)
	}
}

func TestArticles_Permissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.svc.CreateArticle(ctx, f.doctor, ArticleInput{Title: "T", Content: "C"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.PublishArticle(ctx, f.doctor, a.ID); err != nil {
		t.Fatal(err)
	}

	other := &auth.Identity{AccountID: uuid.New(), Role: auth.RoleDoctor}
	if _, err := f.svc.UpdateArticle(ctx, other, a.ID, ArticleInput{Title: "X", Content: "Y"}); !errors.Is(err, auth.ErrForbidden) {
		t.Errorf("other doctor update: got %v", err)
	}
	if _, err := f.svc.CreateArticle(ctx, f.patient, ArticleInput{Title: "T", Content: "C"}); !errors.Is(err, auth.ErrForbidden) {
		t.Errorf("patient create: got %v", err)
	}
	if _, err := f.svc.CreateArticle(ctx, other, ArticleInput{Title: "T", Content: "C"}); !errors.Is(err, ErrProfileRequired) {
		t.Errorf("doctor without profile: got %v", err)
	}
	if _, _, err := f.svc.ListArticles(ctx, f.patient, true, 10, 0); !errors.Is(err, auth.ErrForbidden) {
		t.Errorf("patient mine: got %v", err)
	}
}

func TestArticles_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateArticle(context.Background(), f.doctor, ArticleInput{Title: " "})
	ae, ok := apierr.As(err)
	if !ok || len(ae.Fields["title"]) == 0 || len(ae.Fields["content"]) == 0 {
		t.Errorf("expected title and content errors, got %v", err)
	}
}
