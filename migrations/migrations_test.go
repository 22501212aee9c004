package migrations

import (
	"strings"
	"testing"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/db"
)

func TestEmbeddedMigrations(t *testing.T) {
	migs, err := db.NewMigrator(nil, FS).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migs) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migs))
	}
	for i, m := range migs {
		if m.Version != i+1 {
			t.Errorf("migration %d has version %d", i, m.Version)
		}
	}
}

// Services map database errors by constraint name, so the names must stay
// in step with the schema.
func TestEmbeddedMigrations_ConstraintNames(t *testing.T) {
	migs, err := db.NewMigrator(nil, FS).LoadMigrations()
	if err != nil {
		t.Fatal(err)
	}
	var all strings.Builder
	for _, m := range migs {
		all.WriteString(m.SQL)
	}
	schema := all.String()

	for _, name := range []string{
		"account_email_key",
		"account_custom_id_key",
		"hospital_custom_id_key",
		"hospital_email_key",
		"hospital_license_no_key",
		"hospital_admin_pkey",
		"patient_profile_pkey",
		"doctor_profile_pkey",
		"doctor_profile_hospital_id_fkey",
		"appointment_custom_id_key",
		"appointment_doctor_day_token_key",
		"article_author_id_fkey",
		"medication_name_key",
		"prescription_medication_id_fkey",
	} {
		if !strings.Contains(schema, name) {
			t.Errorf("constraint %s not declared", name)
		}
	}
	if !strings.Contains(schema, "ON DELETE RESTRICT") {
		t.Error("prescriptions must restrict medication deletes")
	}
}
