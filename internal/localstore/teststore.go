package localstore

import "testing"

// NewTestStore creates a fresh in-memory local store.
func NewTestStore(t *testing.T) *DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
