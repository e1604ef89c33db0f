package repositories_test

import (
	"context"
	"github.com/homecrimes/caseroom/internal/sqlite"
	"github.com/homecrimes/caseroom/internal/testhelpers"
	"io"
	"testing"
)

// newTestDB creates a new in-memory database with the schema and fixtures applied.
func newTestDB(t *testing.T) *sqlite.Database {
	t.Helper()
	db, err := sqlite.NewDatabase(context.Background(), ":memory:", testhelpers.NewLogger(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err = db.Close(); err != nil {
			t.Fatal(err)
		}
	})
	return db
}
