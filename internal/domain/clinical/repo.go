package clinical

import (
	"context"

	"github.com/google/uuid"
)

const ConstraintArticleAuthor = "article_author_id_fkey"

type ReportRepository interface {
	Create(ctx context.Context, r *MedicalReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*MedicalReport, error)
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID, limit, offset int) ([]*MedicalReport, int, error)
}

type ArticleRepository interface {
	Create(ctx context.Context, a *Article) error
	GetByID(ctx context.Context, id uuid.UUID) (*Article, error)
	Update(ctx context.Context, a *Article) error
	ListPublished(ctx context.Context, limit, offset int) ([]*Article, int, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*Article, int, error)
}
