package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/db"
)

type appointmentRepoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const apptCols = `id, custom_id, patient_id, doctor_id, hospital_id, appointment_datetime,
	status, token_number, created_at, updated_at`

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var status string
	err := row.Scan(&a.ID, &a.CustomID, &a.PatientID, &a.DoctorID, &a.HospitalID, &a.Datetime,
		&status, &a.TokenNumber, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Status = Status(status)
	return &a, nil
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return db.Savepoint(ctx, r.pool, func(q db.Querier) error {
		return q.QueryRow(ctx, `
			INSERT INTO appointment (id, custom_id, patient_id, doctor_id, hospital_id,
				appointment_datetime, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at, updated_at`,
			a.ID, a.CustomID, a.PatientID, a.DoctorID, a.HospitalID, a.Datetime, string(a.Status),
		).Scan(&a.CreatedAt, &a.UpdatedAt)
	})
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppt(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
	if err != nil {
		return nil, db.NotFound(err)
	}
	return a, nil
}

func (r *appointmentRepoPG) list(ctx context.Context, where string, arg uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointment WHERE `+where, arg).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `SELECT `+apptCols+` FROM appointment WHERE `+where+`
		ORDER BY appointment_datetime DESC, custom_id LIMIT $2 OFFSET $3`, arg, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *appointmentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, `patient_id = $1`, patientID, limit, offset)
}

func (r *appointmentRepoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, `doctor_id = $1`, doctorID, limit, offset)
}

func (r *appointmentRepoPG) ListByAdmin(ctx context.Context, adminID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, `hospital_id IN (SELECT hospital_id FROM hospital_admin WHERE account_id = $1)`,
		adminID, limit, offset)
}

func (r *appointmentRepoPG) GetForUpdate(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppt(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, db.NotFound(err)
	}
	return a, nil
}

func (r *appointmentRepoPG) SetStatus(ctx context.Context, id uuid.UUID, from, to Status, token *string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET status = $3, token_number = $4, updated_at = NOW()
		WHERE id = $1 AND status = $2`, id, string(from), string(to), token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *appointmentRepoPG) PatientProfileExists(ctx context.Context, accountID uuid.UUID) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patient_profile WHERE account_id = $1)`, accountID).Scan(&ok)
	return ok, err
}

func (r *appointmentRepoPG) DoctorHospital(ctx context.Context, doctorID uuid.UUID) (*uuid.UUID, error) {
	var hospitalID *uuid.UUID
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT hospital_id FROM doctor_profile WHERE account_id = $1`, doctorID).Scan(&hospitalID)
	if err != nil {
		return nil, db.NotFound(err)
	}
	return hospitalID, nil
}

func (r *appointmentRepoPG) HospitalExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM hospital WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

func (r *appointmentRepoPG) IsHospitalAdmin(ctx context.Context, hospitalID, accountID uuid.UUID) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM hospital_admin WHERE hospital_id = $1 AND account_id = $2)`,
		hospitalID, accountID).Scan(&ok)
	return ok, err
}

func (r *appointmentRepoPG) LockDoctor(ctx context.Context, doctorID uuid.UUID) error {
	var id uuid.UUID
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT account_id FROM doctor_profile WHERE account_id = $1 FOR UPDATE`, doctorID).Scan(&id)
	return db.NotFound(err)
}

func (r *appointmentRepoPG) CountTokens(ctx context.Context, doctorID uuid.UUID, at time.Time) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM appointment
		WHERE doctor_id = $1 AND token_number IS NOT NULL
		  AND (appointment_datetime AT TIME ZONE 'UTC')::date = $2::date`,
		doctorID, at.UTC().Format("2006-01-02")).Scan(&n)
	return n, err
}
