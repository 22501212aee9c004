package clinical

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/db"
)

// -- Medical reports --

type reportRepoPG struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) ReportRepository {
	return &reportRepoPG{pool: pool}
}

func (r *reportRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const reportCols = `id, appointment_id, patient_id, report_type, description, report_file_key, created_at`

func scanReport(row pgx.Row) (*MedicalReport, error) {
	var m MedicalReport
	if err := row.Scan(&m.ID, &m.AppointmentID, &m.PatientID, &m.ReportType, &m.Description,
		&m.FileKey, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *reportRepoPG) Create(ctx context.Context, m *MedicalReport) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medical_report (id, appointment_id, patient_id, report_type, description, report_file_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		m.ID, m.AppointmentID, m.PatientID, m.ReportType, m.Description, m.FileKey,
	).Scan(&m.CreatedAt)
}

func (r *reportRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalReport, error) {
	m, err := scanReport(r.conn(ctx).QueryRow(ctx, `SELECT `+reportCols+` FROM medical_report WHERE id = $1`, id))
	if err != nil {
		return nil, db.NotFound(err)
	}
	return m, nil
}

func (r *reportRepoPG) ListByAppointment(ctx context.Context, appointmentID uuid.UUID, limit, offset int) ([]*MedicalReport, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM medical_report WHERE appointment_id = $1`, appointmentID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+reportCols+` FROM medical_report
		WHERE appointment_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, appointmentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []*MedicalReport
	for rows.Next() {
		m, err := scanReport(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

// -- Articles --

type articleRepoPG struct {
	pool *pgxpool.Pool
}

func NewArticleRepo(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepoPG{pool: pool}
}

func (r *articleRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const articleCols = `id, author_id, title, content, status, created_at, updated_at`

func scanArticle(row pgx.Row) (*Article, error) {
	var a Article
	var status string
	if err := row.Scan(&a.ID, &a.AuthorID, &a.Title, &a.Content, &status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = ArticleStatus(status)
	return &a, nil
}

func (r *articleRepoPG) Create(ctx context.Context, a *Article) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO article (id, author_id, title, content, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		a.ID, a.AuthorID, a.Title, a.Content, string(a.Status),
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *articleRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Article, error) {
	a, err := scanArticle(r.conn(ctx).QueryRow(ctx, `SELECT `+articleCols+` FROM article WHERE id = $1`, id))
	if err != nil {
		return nil, db.NotFound(err)
	}
	return a, nil
}

func (r *articleRepoPG) Update(ctx context.Context, a *Article) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE article SET title = $2, content = $3, status = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		a.ID, a.Title, a.Content, string(a.Status),
	).Scan(&a.UpdatedAt)
	return db.NotFound(err)
}

func (r *articleRepoPG) list(ctx context.Context, where string, args ...interface{}) ([]*Article, int, error) {
	n := len(args)
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM article WHERE `+where, args[:n-2]...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(`SELECT %s FROM article WHERE %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, articleCols, where, n-1, n), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var out []*Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *articleRepoPG) ListPublished(ctx context.Context, limit, offset int) ([]*Article, int, error) {
	return r.list(ctx, `status = 'published'`, limit, offset)
}

func (r *articleRepoPG) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*Article, int, error) {
	return r.list(ctx, `author_id = $1`, authorID, limit, offset)
}
