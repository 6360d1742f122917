package storage

import (
	"os"
	"testing"
)

// Postgres tests require a live database; set MEMKEEPER_TEST_POSTGRES to a
// connection string to run them.
func setupTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()

	connStr := os.Getenv("MEMKEEPER_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("MEMKEEPER_TEST_POSTGRES not set, skipping Postgres tests")
	}

	store := NewPostgresStore(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize Postgres store: %v", err)
	}
	t.Cleanup(func() {
		if db := store.GetDB(); db != nil {
			db.Exec("DELETE FROM responses")
			db.Exec("DELETE FROM memories")
		}
		store.Close()
	})

	return store
}

func TestPostgresMemoryRoundTrip(t *testing.T) {
	store := setupTestPostgresStore(t)

	memory := testMemory("pg-mem-1")
	if err := store.AddMemory(memory); err != nil {
		t.Fatalf("failed to add memory: %v", err)
	}

	got, err := store.GetMemory("pg-mem-1")
	if err != nil {
		t.Fatalf("failed to get memory: %v", err)
	}
	if got.Title != memory.Title || !got.UnlockDate.Equal(memory.UnlockDate) {
		t.Errorf("got %+v, want %+v", got, memory)
	}
}

func TestPostgresSoftDelete(t *testing.T) {
	store := setupTestPostgresStore(t)

	if err := store.AddMemory(testMemory("pg-mem-1")); err != nil {
		t.Fatalf("failed to add memory: %v", err)
	}

	if err := store.DeleteMemory("pg-mem-1"); err != nil {
		t.Fatalf("failed to delete memory: %v", err)
	}
	if _, err := store.GetMemory("pg-mem-1"); err == nil {
		t.Error("expected error when getting deleted memory")
	}
	if err := store.RestoreMemory("pg-mem-1"); err != nil {
		t.Fatalf("failed to restore memory: %v", err)
	}
	if _, err := store.GetMemory("pg-mem-1"); err != nil {
		t.Errorf("restored memory should be retrievable: %v", err)
	}
}

func TestPostgresResponses(t *testing.T) {
	store := setupTestPostgresStore(t)

	memory := testMemory("pg-mem-1")
	if err := store.AddMemory(memory); err != nil {
		t.Fatalf("failed to add memory: %v", err)
	}

	resp := testMemoryResponse("pg-resp-1", memory)
	if err := store.AddResponse(resp); err != nil {
		t.Fatalf("failed to add response: %v", err)
	}

	got, err := store.GetMemory("pg-mem-1")
	if err != nil {
		t.Fatalf("failed to get memory: %v", err)
	}
	if len(got.Responses) != 1 || got.Responses[0].Text != resp.Text {
		t.Errorf("responses = %+v", got.Responses)
	}
}
