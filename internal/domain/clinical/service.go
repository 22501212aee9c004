package clinical

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/domain/scheduling"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/auth"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/blobstore"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/db"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/pkg/validate"
)

// Appointments resolves an appointment the caller is allowed to see.
type Appointments interface {
	Get(ctx context.Context, caller *auth.Identity, id uuid.UUID) (*scheduling.Appointment, error)
}

type Service struct {
	reports  ReportRepository
	articles ArticleRepository
	appts    Appointments
	store    blobstore.Store
	logger   zerolog.Logger
}

func NewService(reports ReportRepository, articles ArticleRepository, appts Appointments,
	store blobstore.Store, logger zerolog.Logger) *Service {
	return &Service{
		reports:  reports,
		articles: articles,
		appts:    appts,
		store:    store,
		logger:   logger.With().Str("component", "clinical").Logger(),
	}
}

func (s *Service) discard(ctx context.Context, file *blobstore.Object) {
	if file == nil {
		return
	}
	if err := s.store.Delete(ctx, file.Key); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		s.logger.Warn().Err(err).Str("key", file.Key).Msg("failed to remove orphaned report file")
	}
}

// participantAppointment returns the appointment when the caller is its
// patient or doctor. Hospital admins can see an appointment but not its
// clinical records.
func (s *Service) participantAppointment(ctx context.Context, caller *auth.Identity, id uuid.UUID) (*scheduling.Appointment, error) {
	a, err := s.appts.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !a.HasParticipant(caller.AccountID) {
		return nil, auth.ErrForbidden
	}
	return a, nil
}

// -- Medical reports --

// UploadReport attaches a report file to a confirmed or completed
// appointment. Only the appointment's doctor may upload.
func (s *Service) UploadReport(ctx context.Context, caller *auth.Identity, appointmentID uuid.UUID,
	in ReportInput, file *blobstore.Object) (*MedicalReport, error) {
	r, err := s.uploadReport(ctx, caller, appointmentID, in, file)
	if err != nil {
		s.discard(ctx, file)
		return nil, err
	}
	return r, nil
}

func (s *Service) uploadReport(ctx context.Context, caller *auth.Identity, appointmentID uuid.UUID,
	in ReportInput, file *blobstore.Object) (*MedicalReport, error) {
	if err := auth.RequireDoctor(caller); err != nil {
		return nil, err
	}
	a, err := s.participantAppointment(ctx, caller, appointmentID)
	if err != nil {
		return nil, err
	}
	if a.DoctorID != caller.AccountID {
		return nil, auth.ErrForbidden
	}
	if a.Status != scheduling.StatusConfirmed && a.Status != scheduling.StatusCompleted {
		return nil, ErrAppointmentPending
	}

	r := &MedicalReport{
		AppointmentID: a.ID,
		PatientID:     a.PatientID,
		ReportType:    strings.TrimSpace(in.ReportType),
		Description:   strings.TrimSpace(in.Description),
	}
	var v apierr.Validation
	switch {
	case r.ReportType == "":
		v.Add("report_type", validate.MsgRequired)
	case validate.TooLong(r.ReportType, 100):
		v.Add("report_type", validate.MaxLenMessage(100))
	}
	v.AddIf(r.Description == "", "description", validate.MsgRequired)
	v.AddIf(file == nil, "report_file", "No file was submitted.")
	if err := v.Err(); err != nil {
		return nil, err
	}
	r.FileKey = file.Key

	if err := s.reports.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	s.logger.Info().
		Str("appointment_id", a.ID.String()).
		Str("report_id", r.ID.String()).
		Str("doctor", caller.CustomID).
		Msg("medical report uploaded")
	return r, nil
}

func (s *Service) ListReports(ctx context.Context, caller *auth.Identity, appointmentID uuid.UUID, limit, offset int) ([]*MedicalReport, int, error) {
	a, err := s.participantAppointment(ctx, caller, appointmentID)
	if err != nil {
		return nil, 0, err
	}
	return s.reports.ListByAppointment(ctx, a.ID, limit, offset)
}

func (s *Service) GetReport(ctx context.Context, caller *auth.Identity, appointmentID, reportID uuid.UUID) (*MedicalReport, error) {
	a, err := s.participantAppointment(ctx, caller, appointmentID)
	if err != nil {
		return nil, err
	}
	r, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	if r.AppointmentID != a.ID {
		return nil, ErrReportNotFound
	}
	return r, nil
}

// OpenReportFile opens the stored file of a report the caller may read.
// The caller must close the returned reader.
func (s *Service) OpenReportFile(ctx context.Context, caller *auth.Identity, appointmentID, reportID uuid.UUID) (io.ReadCloser, *blobstore.Object, error) {
	r, err := s.GetReport(ctx, caller, appointmentID, reportID)
	if err != nil {
		return nil, nil, err
	}
	rc, obj, err := s.store.Open(ctx, r.FileKey)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			s.logger.Warn().Str("report_id", r.ID.String()).Str("key", r.FileKey).Msg("report file missing from store")
			return nil, nil, ErrReportNotFound
		}
		return nil, nil, fmt.Errorf("open report file: %w", err)
	}
	return rc, obj, nil
}

// -- Articles --

func validateArticle(in ArticleInput) (title, content string, err error) {
	title = strings.TrimSpace(in.Title)
	content = strings.TrimSpace(in.Content)
	var v apierr.Validation
	switch {
	case title == "":
		v.Add("title", validate.MsgRequired)
	case validate.TooLong(title, 255):
		v.Add("title", validate.MaxLenMessage(255))
	}
	v.AddIf(content == "", "content", validate.MsgRequired)
	return title, content, v.Err()
}

func (s *Service) CreateArticle(ctx context.Context, caller *auth.Identity, in ArticleInput) (*Article, error) {
	if err := auth.RequireDoctor(caller); err != nil {
		return nil, err
	}
	title, content, err := validateArticle(in)
	if err != nil {
		return nil, err
	}
	a := &Article{AuthorID: caller.AccountID, Title: title, Content: content, Status: ArticleDraft}
	if err := s.articles.Create(ctx, a); err != nil {
		if db.IsForeignKeyViolation(err, ConstraintArticleAuthor) {
			return nil, ErrProfileRequired
		}
		return nil, fmt.Errorf("create article: %w", err)
	}
	return a, nil
}

// GetArticle returns a published article to anyone and a draft only to its
// author. caller may be nil.
func (s *Service) GetArticle(ctx context.Context, caller *auth.Identity, id uuid.UUID) (*Article, error) {
	a, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	if a.Status != ArticlePublished && (caller == nil || caller.AccountID != a.AuthorID) {
		return nil, ErrArticleNotFound
	}
	return a, nil
}

func (s *Service) ownArticle(ctx context.Context, caller *auth.Identity, id uuid.UUID) (*Article, error) {
	if err := auth.RequireDoctor(caller); err != nil {
		return nil, err
	}
	a, err := s.GetArticle(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if a.AuthorID != caller.AccountID {
		return nil, auth.ErrForbidden
	}
	return a, nil
}

func (s *Service) UpdateArticle(ctx context.Context, caller *auth.Identity, id uuid.UUID, in ArticleInput) (*Article, error) {
	a, err := s.ownArticle(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if a.Title, a.Content, err = validateArticle(in); err != nil {
		return nil, err
	}
	if err := s.articles.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	return a, nil
}

// PublishArticle is idempotent.
func (s *Service) PublishArticle(ctx context.Context, caller *auth.Identity, id uuid.UUID) (*Article, error) {
	a, err := s.ownArticle(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if a.Status == ArticlePublished {
		return a, nil
	}
	a.Status = ArticlePublished
	if err := s.articles.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("publish article: %w", err)
	}
	s.logger.Info().Str("article_id", a.ID.String()).Str("author", caller.CustomID).Msg("article published")
	return a, nil
}

// ListArticles returns published articles, or with mine set the calling
// doctor's own articles in any status.
func (s *Service) ListArticles(ctx context.Context, caller *auth.Identity, mine bool, limit, offset int) ([]*Article, int, error) {
	if !mine {
		return s.articles.ListPublished(ctx, limit, offset)
	}
	if err := auth.RequireDoctor(caller); err != nil {
		return nil, 0, err
	}
	return s.articles.ListByAuthor(ctx, caller.AccountID, limit, offset)
}
