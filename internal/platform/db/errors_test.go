package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert account: %w", &pgconn.PgError{Code: "23505", ConstraintName: "account_custom_id_key"})

	if !IsUniqueViolation(err, "") {
		t.Error("expected unique violation without constraint filter")
	}
	if !IsUniqueViolation(err, "account_custom_id_key") {
		t.Error("expected unique violation on account_custom_id_key")
	}
	if IsUniqueViolation(err, "account_email_key") {
		t.Error("did not expect match on a different constraint")
	}
	if IsForeignKeyViolation(err, "") {
		t.Error("unique violation is not a foreign key violation")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23503", ConstraintName: "doctor_profile_hospital_id_fkey"}
	if !IsForeignKeyViolation(err, "doctor_profile_hospital_id_fkey") {
		t.Error("expected foreign key violation")
	}
	if IsForeignKeyViolation(errors.New("plain"), "") {
		t.Error("plain errors are never pg violations")
	}
}

func TestNotFound(t *testing.T) {
	if !errors.Is(NotFound(pgx.ErrNoRows), ErrNotFound) {
		t.Error("expected ErrNoRows to map to ErrNotFound")
	}
	other := errors.New("boom")
	if NotFound(other) != other {
		t.Error("expected other errors to pass through")
	}
	if NotFound(nil) != nil {
		t.Error("expected nil to stay nil")
	}
}

func TestUniqueViolationOn(t *testing.T) {
	isCollision := UniqueViolationOn("account_custom_id_key", "hospital_custom_id_key")

	if !isCollision(&pgconn.PgError{Code: "23505", ConstraintName: "hospital_custom_id_key"}) {
		t.Error("expected hospital custom id collision to match")
	}
	if isCollision(&pgconn.PgError{Code: "23505", ConstraintName: "account_email_key"}) {
		t.Error("email conflicts are not id collisions")
	}
	if isCollision(&pgconn.PgError{Code: "23503", ConstraintName: "account_custom_id_key"}) {
		t.Error("only unique violations count")
	}
}
