package main

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/auth"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/db"
)

func TestMigrationFiles_DefaultsToEmbedded(t *testing.T) {
	names, err := fs.Glob(migrationFiles(""), "*.sql")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 3 || names[0] != "001_accounts.sql" {
		t.Errorf("unexpected embedded files %v", names)
	}
}

func TestMigrationFiles_Dir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "001_only.sql"), []byte("SELECT 1;"), 0o600); err != nil {
		t.Fatal(err)
	}
	migs, err := db.NewMigrator(nil, migrationFiles(dir)).LoadMigrations()
	if err != nil {
		t.Fatal(err)
	}
	if len(migs) != 1 || migs[0].Version != 1 {
		t.Errorf("unexpected migrations %+v", migs)
	}
}

func TestPrintStatus(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	var buf bytes.Buffer
	printStatus(&buf, "public", []db.MigrationStatus{
		{Version: 1, Name: "001_accounts.sql", Applied: true, AppliedAt: &at},
		{Version: 2, Name: "002_profiles.sql"},
	})
	out := buf.String()
	for _, want := range []string{"schema: public", "applied", "2026-03-01 09:30:00", "pending"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRevocationStore_MemoryFallback(t *testing.T) {
	store, closeFn, err := revocationStore(context.Background(), "", zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()
	if _, ok := store.(*auth.MemoryRevocationStore); !ok {
		t.Errorf("expected memory store, got %T", store)
	}
}

func TestRevocationStore_BadURL(t *testing.T) {
	if _, _, err := revocationStore(context.Background(), "not-a-url", zerolog.Nop()); err == nil {
		t.Error("expected error for malformed redis url")
	}
}
