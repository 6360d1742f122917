package vault

import (
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/memkeeper/internal/models"
	"github.com/julianstephens/memkeeper/internal/storage"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func setupKeeper(t *testing.T) (*Keeper, storage.Provider) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}

	keeper := NewKeeper(store,
		WithClock(func() time.Time { return testNow }),
		WithRandSource(rand.NewSource(42)),
	)
	return keeper, store
}

func testDraft() Draft {
	return Draft{
		Title:      "Letter to future me",
		Content:    "Hello from March",
		Category:   models.CategoryLetter,
		Tags:       []string{"spring"},
		Importance: 3,
		Mood:       "Hopeful",
		Policy:     models.UnlockPolicy{Kind: models.UnlockInterval, IntervalDays: 30},
	}
}

func TestCreateInterval(t *testing.T) {
	keeper, _ := setupKeeper(t)

	memory, err := keeper.Create(testDraft())
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if memory.ID == "" {
		t.Error("memory should get an ID")
	}
	want := testNow.AddDate(0, 0, 30)
	if !memory.UnlockDate.Equal(want) {
		t.Errorf("unlock date = %v, want %v", memory.UnlockDate, want)
	}
	if !memory.CreatedAt.Equal(testNow) {
		t.Errorf("created at = %v, want %v", memory.CreatedAt, testNow)
	}
}

func TestCreateFixedDate(t *testing.T) {
	keeper, _ := setupKeeper(t)

	date := testNow.AddDate(1, 0, 0)
	draft := testDraft()
	draft.Policy = models.UnlockPolicy{Kind: models.UnlockFixedDate, FixedDate: &date}

	memory, err := keeper.Create(draft)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if !memory.UnlockDate.Equal(date) {
		t.Errorf("unlock date = %v, want %v", memory.UnlockDate, date)
	}
}

func TestCreateFixedDateInPast(t *testing.T) {
	keeper, _ := setupKeeper(t)

	date := testNow.AddDate(0, 0, -1)
	draft := testDraft()
	draft.Policy = models.UnlockPolicy{Kind: models.UnlockFixedDate, FixedDate: &date}

	if _, err := keeper.Create(draft); err == nil {
		t.Fatal("Create() with past unlock date should fail")
	} else if !models.IsValidationError(err) {
		t.Errorf("error should be a ValidationError, got %v", err)
	}
}

func TestCreateRandomDateWithinBounds(t *testing.T) {
	keeper, store := setupKeeper(t)

	start := testNow.AddDate(0, 1, 0)
	end := testNow.AddDate(0, 6, 0)
	draft := testDraft()
	draft.Policy = models.UnlockPolicy{Kind: models.UnlockRandomDate, RandomStart: &start, RandomEnd: &end}

	memory, err := keeper.Create(draft)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if memory.UnlockDate.Before(start) || memory.UnlockDate.After(end) {
		t.Errorf("unlock date %v outside [%v, %v]", memory.UnlockDate, start, end)
	}

	// The resolved date is frozen: re-reading never re-rolls
	stored, err := store.GetMemory(memory.ID)
	if err != nil {
		t.Fatalf("failed to reload memory: %v", err)
	}
	if !stored.UnlockDate.Equal(memory.UnlockDate) {
		t.Errorf("stored unlock date %v differs from created %v", stored.UnlockDate, memory.UnlockDate)
	}
}

func TestCreateRandomDateClampsStart(t *testing.T) {
	keeper, _ := setupKeeper(t)

	// Window starts in the past; samples must still land at or after now
	start := testNow.AddDate(0, 0, -30)
	end := testNow.AddDate(0, 0, 10)
	draft := testDraft()
	draft.Policy = models.UnlockPolicy{Kind: models.UnlockRandomDate, RandomStart: &start, RandomEnd: &end}

	memory, err := keeper.Create(draft)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if memory.UnlockDate.Before(testNow) {
		t.Errorf("unlock date %v before now %v", memory.UnlockDate, testNow)
	}
	if memory.UnlockDate.After(end) {
		t.Errorf("unlock date %v after window end %v", memory.UnlockDate, end)
	}
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	keeper, store := setupKeeper(t)

	tests := []struct {
		name   string
		mutate func(*Draft)
	}{
		{"empty title", func(d *Draft) { d.Title = "" }},
		{"whitespace title", func(d *Draft) { d.Title = "   " }},
		{"empty content", func(d *Draft) { d.Content = "" }},
		{"bad category", func(d *Draft) { d.Category = "diary" }},
		{"importance out of range", func(d *Draft) { d.Importance = 9 }},
		{"zero interval", func(d *Draft) { d.Policy = models.UnlockPolicy{Kind: models.UnlockInterval} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := testDraft()
			tt.mutate(&draft)
			if _, err := keeper.Create(draft); err == nil {
				t.Fatal("Create() should have failed")
			}
		})
	}

	// Nothing was stored
	all, err := store.GetAllMemories()
	if err != nil {
		t.Fatalf("failed to list memories: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("store has %d memories after failed creates, want 0", len(all))
	}
}

func TestCreateNormalizesTags(t *testing.T) {
	keeper, _ := setupKeeper(t)

	draft := testDraft()
	draft.Tags = []string{" Spring ", "spring", "TRAVEL", ""}

	memory, err := keeper.Create(draft)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if len(memory.Tags) != 2 || memory.Tags[0] != "spring" || memory.Tags[1] != "travel" {
		t.Errorf("tags = %v, want [spring travel]", memory.Tags)
	}
}

func TestListRedactsLocked(t *testing.T) {
	keeper, _ := setupKeeper(t)

	if _, err := keeper.Create(testDraft()); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	memories, err := keeper.List(FilterAll)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(memories) != 1 {
		t.Fatalf("got %d memories, want 1", len(memories))
	}
	if memories[0].Content != "" {
		t.Errorf("locked memory content leaked: %q", memories[0].Content)
	}
	if memories[0].Title == "" {
		t.Error("metadata should survive redaction")
	}
}

func TestListFiltersAndSorts(t *testing.T) {
	keeper, _ := setupKeeper(t)

	later := testDraft()
	later.Title = "Far future"
	later.Policy = models.UnlockPolicy{Kind: models.UnlockInterval, IntervalDays: 300}
	if _, err := keeper.Create(later); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	sooner := testDraft()
	sooner.Title = "Near future"
	sooner.Policy = models.UnlockPolicy{Kind: models.UnlockInterval, IntervalDays: 3}
	soonerMem, err := keeper.Create(sooner)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	locked, err := keeper.List(FilterLocked)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(locked) != 2 {
		t.Fatalf("got %d locked memories, want 2", len(locked))
	}
	if locked[0].ID != soonerMem.ID {
		t.Error("memories should be sorted by unlock date ascending")
	}

	unlocked, err := keeper.List(FilterUnlocked)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(unlocked) != 0 {
		t.Errorf("got %d unlocked memories, want 0", len(unlocked))
	}
}

func TestOpenLockedFails(t *testing.T) {
	keeper, _ := setupKeeper(t)

	memory, err := keeper.Create(testDraft())
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if _, err := keeper.Open(memory.ID); err == nil {
		t.Fatal("Open() on locked memory should fail")
	} else if !models.IsStateError(err) {
		t.Errorf("error should be a StateError, got %v", err)
	}

	// Get still works, redacted
	got, err := keeper.Get(memory.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Content != "" {
		t.Error("Get() on locked memory should redact content")
	}
}

func TestOpenAfterUnlock(t *testing.T) {
	keeper, store := setupKeeper(t)

	memory, err := keeper.Create(testDraft())
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// Advance past the unlock date
	later := NewKeeper(store, WithClock(func() time.Time {
		return memory.UnlockDate.Add(time.Hour)
	}))

	got, err := later.Open(memory.ID)
	if err != nil {
		t.Fatalf("Open() after unlock failed: %v", err)
	}
	if got.Content != "Hello from March" {
		t.Errorf("content = %q", got.Content)
	}
}

func TestRecordResponse(t *testing.T) {
	keeper, store := setupKeeper(t)

	memory, err := keeper.Create(testDraft())
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// Locked: responses rejected
	if _, err := keeper.RecordResponse(memory.ID, "too soon", ""); err == nil {
		t.Fatal("RecordResponse() on locked memory should fail")
	} else if !models.IsStateError(err) {
		t.Errorf("error should be a StateError, got %v", err)
	}

	later := NewKeeper(store, WithClock(func() time.Time {
		return memory.UnlockDate.Add(time.Hour)
	}))

	if _, err := later.RecordResponse(memory.ID, "first thoughts", "Happy"); err != nil {
		t.Fatalf("RecordResponse() failed: %v", err)
	}
	if _, err := later.RecordResponse(memory.ID, "second thoughts", ""); err != nil {
		t.Fatalf("second RecordResponse() failed: %v", err)
	}
	if _, err := later.RecordResponse(memory.ID, "   ", ""); err == nil {
		t.Error("RecordResponse() with blank text should fail")
	}

	got, err := later.Open(memory.ID)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if len(got.Responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(got.Responses))
	}
	if got.Responses[0].Text != "first thoughts" || got.Responses[0].Mood != "Happy" {
		t.Errorf("first response = %+v", got.Responses[0])
	}
}

func TestUpcoming(t *testing.T) {
	keeper, _ := setupKeeper(t)

	for _, days := range []int{10, 20, 30, 40} {
		draft := testDraft()
		draft.Policy = models.UnlockPolicy{Kind: models.UnlockInterval, IntervalDays: days}
		if _, err := keeper.Create(draft); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	upcoming, err := keeper.Upcoming(2)
	if err != nil {
		t.Fatalf("Upcoming() failed: %v", err)
	}
	if len(upcoming) != 2 {
		t.Fatalf("got %d upcoming, want 2", len(upcoming))
	}
	if !upcoming[0].UnlockDate.Before(upcoming[1].UnlockDate) {
		t.Error("upcoming should be sorted by unlock date")
	}

	all, err := keeper.Upcoming(0)
	if err != nil {
		t.Fatalf("Upcoming() failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("Upcoming(0) got %d, want all 4", len(all))
	}
}

func TestStats(t *testing.T) {
	keeper, store := setupKeeper(t)

	memory, err := keeper.Create(testDraft())
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	second := testDraft()
	second.Category = models.CategoryGratitude
	second.Policy = models.UnlockPolicy{Kind: models.UnlockInterval, IntervalDays: 100}
	if _, err := keeper.Create(second); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// First memory unlocked, second still locked
	later := NewKeeper(store, WithClock(func() time.Time {
		return memory.UnlockDate.Add(time.Hour)
	}))

	counts, err := later.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if counts.Total != 2 || counts.Unlocked != 1 || counts.Locked != 1 {
		t.Errorf("counts = %+v", counts)
	}
	if counts.ByCategory[models.CategoryLetter] != 1 || counts.ByCategory[models.CategoryGratitude] != 1 {
		t.Errorf("by category = %v", counts.ByCategory)
	}
}

func TestDeleteAndRestore(t *testing.T) {
	keeper, _ := setupKeeper(t)

	memory, err := keeper.Create(testDraft())
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := keeper.Delete(memory.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	memories, err := keeper.List(FilterAll)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(memories) != 0 {
		t.Errorf("deleted memory still listed")
	}

	if err := keeper.Restore(memory.ID); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	memories, err = keeper.List(FilterAll)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(memories) != 1 {
		t.Errorf("restored memory not listed")
	}
}
