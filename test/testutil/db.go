package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/xxxsen/pdfrag/internal/db"
)

// OpenTestDB connects to TEST_DATABASE_URL, a postgres with the vector
// extension available, and skips the test when it is unset.
func OpenTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping postgres test")
	}
	ctx := context.Background()
	conn, err := db.Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(ctx, conn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return conn, func() {
		_ = conn.Close()
	}
}

// NewCollection returns a collection name unique to the test and drops the
// collection with its records when the test ends.
func NewCollection(t *testing.T, conn *sql.DB) string {
	t.Helper()
	name := "test-" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = conn.Exec("DELETE FROM langchain_pg_collection WHERE name = $1", name)
	})
	return name
}
