package hospital

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/db"
)

type hospitalRepoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &hospitalRepoPG{pool: pool}
}

func (r *hospitalRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const hospitalColumns = `h.id, h.custom_id, h.name, h.address, h.contact_no1, h.contact_no2, h.email,
	h.website, h.license_no, h.operating_hours, h.num_departments, h.photo_key, h.created_at, h.updated_at`

func scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(&h.ID, &h.CustomID, &h.Name, &h.Address, &h.ContactNo1, &h.ContactNo2, &h.Email,
		&h.Website, &h.LicenseNo, &h.OperatingHours, &h.NumDepartments, &h.PhotoKey, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Create runs under a savepoint so a custom id collision can be retried
// inside the surrounding transaction.
func (r *hospitalRepoPG) Create(ctx context.Context, h *Hospital) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return db.Savepoint(ctx, r.pool, func(q db.Querier) error {
		return q.QueryRow(ctx, `
			INSERT INTO hospital (id, custom_id, name, address, contact_no1, contact_no2, email,
				website, license_no, operating_hours, num_departments, photo_key)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING created_at, updated_at`,
			h.ID, h.CustomID, h.Name, h.Address, h.ContactNo1, h.ContactNo2, h.Email,
			h.Website, h.LicenseNo, h.OperatingHours, h.NumDepartments, h.PhotoKey,
		).Scan(&h.CreatedAt, &h.UpdatedAt)
	})
}

func (r *hospitalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	h, err := scanHospital(r.conn(ctx).QueryRow(ctx, `SELECT `+hospitalColumns+` FROM hospital h WHERE h.id = $1`, id))
	if err != nil {
		return nil, db.NotFound(err)
	}
	return h, nil
}

func (r *hospitalRepoPG) list(ctx context.Context, countSQL, listSQL string, args ...interface{}) ([]*Hospital, int, error) {
	n := len(args)
	var total int
	if err := r.conn(ctx).QueryRow(ctx, countSQL, args[:n-2]...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count hospitals: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list hospitals: %w", err)
	}
	defer rows.Close()

	var out []*Hospital
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, h)
	}
	return out, total, rows.Err()
}

func (r *hospitalRepoPG) List(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	return r.list(ctx,
		`SELECT COUNT(*) FROM hospital`,
		`SELECT `+hospitalColumns+` FROM hospital h ORDER BY h.name, h.custom_id LIMIT $1 OFFSET $2`,
		limit, offset)
}

func (r *hospitalRepoPG) ListByAdmin(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Hospital, int, error) {
	return r.list(ctx,
		`SELECT COUNT(*) FROM hospital_admin WHERE account_id = $1`,
		`SELECT `+hospitalColumns+` FROM hospital h
		JOIN hospital_admin ha ON ha.hospital_id = h.id
		WHERE ha.account_id = $1
		ORDER BY h.name, h.custom_id LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
}

func (r *hospitalRepoPG) AddAdmin(ctx context.Context, hospitalID, accountID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO hospital_admin (hospital_id, account_id) VALUES ($1, $2)`, hospitalID, accountID)
	return err
}

func (r *hospitalRepoPG) AddAdminByCustomID(ctx context.Context, hospitalID uuid.UUID, customID string) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO hospital_admin (hospital_id, account_id)
		SELECT $1, a.id FROM account a
		WHERE a.custom_id = $2 AND a.role = 'hospital_admin' AND a.is_active`,
		hospitalID, customID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *hospitalRepoPG) IsAdmin(ctx context.Context, hospitalID, accountID uuid.UUID) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM hospital_admin WHERE hospital_id = $1 AND account_id = $2)`,
		hospitalID, accountID).Scan(&ok)
	return ok, err
}
