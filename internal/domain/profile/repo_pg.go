package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/db"
)

type profileRepoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &profileRepoPG{pool: pool}
}

func (r *profileRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

// -- Patient --

const patientColumns = `account_id, blood_group, emergency_contact_no, emergency_contact_relation,
	allergies, photo_key, created_at, updated_at`

func (r *profileRepoPG) CreatePatient(ctx context.Context, p *PatientProfile) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient_profile (account_id, blood_group, emergency_contact_no,
			emergency_contact_relation, allergies, photo_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		p.AccountID, p.BloodGroup, p.EmergencyContactNo, p.EmergencyContactRelation, p.Allergies, p.PhotoKey,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *profileRepoPG) GetPatient(ctx context.Context, accountID uuid.UUID) (*PatientProfile, error) {
	var p PatientProfile
	err := r.conn(ctx).QueryRow(ctx, `SELECT `+patientColumns+` FROM patient_profile WHERE account_id = $1`, accountID).
		Scan(&p.AccountID, &p.BloodGroup, &p.EmergencyContactNo, &p.EmergencyContactRelation,
			&p.Allergies, &p.PhotoKey, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, db.NotFound(err)
	}
	return &p, nil
}

func (r *profileRepoPG) UpdatePatient(ctx context.Context, p *PatientProfile) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE patient_profile SET
			blood_group = $2, emergency_contact_no = $3, emergency_contact_relation = $4,
			allergies = $5, photo_key = $6, updated_at = NOW()
		WHERE account_id = $1
		RETURNING updated_at`,
		p.AccountID, p.BloodGroup, p.EmergencyContactNo, p.EmergencyContactRelation, p.Allergies, p.PhotoKey,
	).Scan(&p.UpdatedAt)
	return db.NotFound(err)
}

func (r *profileRepoPG) HasPatientProfile(ctx context.Context, accountID uuid.UUID) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM patient_profile WHERE account_id = $1)`, accountID).Scan(&ok)
	return ok, err
}

// -- Doctor --

const doctorColumns = `account_id, specialization, qualification, experience_years, available_days,
	languages_spoken, hospital_id, photo_key, created_at, updated_at`

func (r *profileRepoPG) CreateDoctor(ctx context.Context, d *DoctorProfile) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctor_profile (account_id, specialization, qualification, experience_years,
			available_days, languages_spoken, hospital_id, photo_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		d.AccountID, d.Specialization, d.Qualification, d.ExperienceYears,
		d.AvailableDays, d.LanguagesSpoken, d.HospitalID, d.PhotoKey,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (r *profileRepoPG) GetDoctor(ctx context.Context, accountID uuid.UUID) (*DoctorProfile, error) {
	var d DoctorProfile
	err := r.conn(ctx).QueryRow(ctx, `SELECT `+doctorColumns+` FROM doctor_profile WHERE account_id = $1`, accountID).
		Scan(&d.AccountID, &d.Specialization, &d.Qualification, &d.ExperienceYears, &d.AvailableDays,
			&d.LanguagesSpoken, &d.HospitalID, &d.PhotoKey, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, db.NotFound(err)
	}
	return &d, nil
}

func (r *profileRepoPG) UpdateDoctor(ctx context.Context, d *DoctorProfile) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE doctor_profile SET
			specialization = $2, qualification = $3, experience_years = $4, available_days = $5,
			languages_spoken = $6, hospital_id = $7, photo_key = $8, updated_at = NOW()
		WHERE account_id = $1
		RETURNING updated_at`,
		d.AccountID, d.Specialization, d.Qualification, d.ExperienceYears,
		d.AvailableDays, d.LanguagesSpoken, d.HospitalID, d.PhotoKey,
	).Scan(&d.UpdatedAt)
	return db.NotFound(err)
}

func (r *profileRepoPG) HasDoctorProfile(ctx context.Context, accountID uuid.UUID) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM doctor_profile WHERE account_id = $1)`, accountID).Scan(&ok)
	return ok, err
}

func (r *profileRepoPG) ListDoctors(ctx context.Context, f DoctorFilter, limit, offset int) ([]*DoctorListing, int, error) {
	where := `WHERE ($1::uuid IS NULL OR d.hospital_id = $1) AND ($2 = '' OR d.specialization ILIKE '%' || $2 || '%')`

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM doctor_profile d `+where, f.HospitalID, f.Specialization,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count doctors: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT d.account_id, a.custom_id, a.first_name, a.last_name,
			d.specialization, d.hospital_id, d.available_days
		FROM doctor_profile d
		JOIN account a ON a.id = d.account_id
		`+where+`
		ORDER BY a.last_name, a.first_name, a.custom_id
		LIMIT $3 OFFSET $4`,
		f.HospitalID, f.Specialization, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	var out []*DoctorListing
	for rows.Next() {
		var d DoctorListing
		if err := rows.Scan(&d.AccountID, &d.CustomID, &d.FirstName, &d.LastName,
			&d.Specialization, &d.HospitalID, &d.AvailableDays); err != nil {
			return nil, 0, err
		}
		out = append(out, &d)
	}
	return out, total, rows.Err()
}
