package account

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/auth"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/db"
)

type accountRepoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &accountRepoPG{pool: pool}
}

func (r *accountRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const accountColumns = `id, email, password_hash, role, custom_id,
	first_name, middle_name, last_name, gender, date_of_birth, contact_no, address,
	is_active, last_login, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*Account, error) {
	var a Account
	var role string
	var gender *string
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &role, &a.CustomID,
		&a.FirstName, &a.MiddleName, &a.LastName, &gender, &a.DateOfBirth, &a.ContactNo, &a.Address,
		&a.IsActive, &a.LastLogin, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, db.NotFound(err)
	}
	a.Role = auth.Role(role)
	if gender != nil {
		g := Gender(*gender)
		a.Gender = &g
	}
	return &a, nil
}

func (r *accountRepoPG) Create(ctx context.Context, a *Account) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO account (id, email, password_hash, role, custom_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		a.ID, a.Email, a.PasswordHash, string(a.Role), a.CustomID, a.IsActive,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *accountRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return scanAccount(r.conn(ctx).QueryRow(ctx, `SELECT `+accountColumns+` FROM account WHERE id = $1`, id))
}

func (r *accountRepoPG) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return scanAccount(r.conn(ctx).QueryRow(ctx, `SELECT `+accountColumns+` FROM account WHERE email = $1`, email))
}

func (r *accountRepoPG) GetByCustomID(ctx context.Context, customID string) (*Account, error) {
	return scanAccount(r.conn(ctx).QueryRow(ctx, `SELECT `+accountColumns+` FROM account WHERE custom_id = $1`, customID))
}

func (r *accountRepoPG) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM account WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *accountRepoPG) Update(ctx context.Context, a *Account) error {
	var gender *string
	if a.Gender != nil {
		g := string(*a.Gender)
		gender = &g
	}
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE account SET
			first_name = $2, middle_name = $3, last_name = $4, gender = $5,
			date_of_birth = $6, contact_no = $7, address = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		a.ID, a.FirstName, a.MiddleName, a.LastName, gender,
		a.DateOfBirth, a.ContactNo, a.Address,
	).Scan(&a.UpdatedAt)
	return db.NotFound(err)
}

func (r *accountRepoPG) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `UPDATE account SET last_login = $2 WHERE id = $1`, id, at)
	return err
}
