package testutil

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/nhle/taskdash/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(store.MemoryDSN, "General")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestLogger returns a logger that discards everything.
func NewTestLogger() *log.Logger {
	return log.New(io.Discard)
}
