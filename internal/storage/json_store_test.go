package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func setupTestJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.json")

	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load test store: %v", err)
	}

	return store
}

func TestJSONSaveReplacesFileCleanly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")

	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	if err := store.AddMemory(testMemory("mem-1")); err != nil {
		t.Fatalf("failed to add memory: %v", err)
	}
	if err := store.AddMemory(testMemory("mem-2")); err != nil {
		t.Fatalf("failed to add memory: %v", err)
	}

	// Writes go through a temp file and rename; nothing else is left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read storage dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "store.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("storage dir contents = %v, want only store.json", names)
	}

	reloaded := NewJSONStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("failed to reload store: %v", err)
	}
	memories, err := reloaded.GetAllMemories()
	if err != nil {
		t.Fatalf("failed to list memories: %v", err)
	}
	if len(memories) != 2 {
		t.Errorf("reloaded %d memories, want 2", len(memories))
	}
}

func TestJSONMemoryRoundTrip(t *testing.T) {
	store := setupTestJSONStore(t)

	memory := testMemory("mem-1")
	if err := store.AddMemory(memory); err != nil {
		t.Fatalf("failed to add memory: %v", err)
	}

	got, err := store.GetMemory("mem-1")
	if err != nil {
		t.Fatalf("failed to get memory: %v", err)
	}
	if got.Title != memory.Title || got.Category != memory.Category {
		t.Errorf("got %+v, want %+v", got, memory)
	}

	// Survives a reload from disk
	reloaded := NewJSONStore(store.GetConfigPath())
	if err := reloaded.Load(); err != nil {
		t.Fatalf("failed to reload store: %v", err)
	}
	got, err = reloaded.GetMemory("mem-1")
	if err != nil {
		t.Fatalf("failed to get memory after reload: %v", err)
	}
	if !got.UnlockDate.Equal(memory.UnlockDate) {
		t.Errorf("unlock date after reload = %v, want %v", got.UnlockDate, memory.UnlockDate)
	}
}

func TestJSONSoftDeleteAndRestore(t *testing.T) {
	store := setupTestJSONStore(t)

	if err := store.AddMemory(testMemory("mem-1")); err != nil {
		t.Fatalf("failed to add memory: %v", err)
	}

	if err := store.DeleteMemory("mem-1"); err != nil {
		t.Fatalf("failed to delete memory: %v", err)
	}
	if _, err := store.GetMemory("mem-1"); err == nil {
		t.Error("expected error when getting deleted memory")
	}
	if err := store.DeleteMemory("mem-1"); err == nil {
		t.Error("expected error when deleting twice")
	}

	if err := store.RestoreMemory("mem-1"); err != nil {
		t.Fatalf("failed to restore memory: %v", err)
	}
	if _, err := store.GetMemory("mem-1"); err != nil {
		t.Errorf("restored memory should be retrievable: %v", err)
	}
}

func TestJSONResponses(t *testing.T) {
	store := setupTestJSONStore(t)

	memory := testMemory("mem-1")
	if err := store.AddMemory(memory); err != nil {
		t.Fatalf("failed to add memory: %v", err)
	}

	resp := testMemoryResponse("resp-1", memory)
	if err := store.AddResponse(resp); err != nil {
		t.Fatalf("failed to add response: %v", err)
	}

	got, err := store.GetMemory("mem-1")
	if err != nil {
		t.Fatalf("failed to get memory: %v", err)
	}
	if len(got.Responses) != 1 || got.Responses[0].Text != resp.Text {
		t.Errorf("responses = %+v", got.Responses)
	}
}

func TestJSONLoadBeforeInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	store := NewJSONStore(path)
	if err := store.Load(); err == nil {
		t.Error("Load() on uninitialized storage should fail")
	}
}
