package models

import (
	"testing"
	"time"
)

func TestIsUnlocked(t *testing.T) {
	unlock := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	m := Memory{ID: "mem-1", UnlockDate: unlock}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before unlock", unlock.Add(-time.Second), false},
		{"exactly at unlock", unlock, true},
		{"after unlock", unlock.Add(time.Second), true},
		{"long after unlock", unlock.AddDate(1, 0, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.IsUnlocked(tt.now); got != tt.want {
				t.Errorf("IsUnlocked(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestIsUnlockedMonotonic(t *testing.T) {
	unlock := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	m := Memory{ID: "mem-1", UnlockDate: unlock}

	// Once unlocked, every later instant must also report unlocked
	unlocked := false
	for now := unlock.Add(-time.Hour); now.Before(unlock.Add(time.Hour)); now = now.Add(time.Minute) {
		got := m.IsUnlocked(now)
		if unlocked && !got {
			t.Fatalf("memory re-locked at %v", now)
		}
		if got {
			unlocked = true
		}
	}
	if !unlocked {
		t.Fatal("memory never unlocked")
	}
}

func TestState(t *testing.T) {
	unlock := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	m := Memory{ID: "mem-1", UnlockDate: unlock}

	if got := m.State(unlock.Add(-time.Hour)); got != StateLocked {
		t.Errorf("State() before unlock = %v, want %v", got, StateLocked)
	}
	if got := m.State(unlock); got != StateUnlocked {
		t.Errorf("State() at unlock = %v, want %v", got, StateUnlocked)
	}
}

func TestRedacted(t *testing.T) {
	m := Memory{
		ID:      "mem-1",
		Title:   "Letter to 2030",
		Content: "secret plans",
		Responses: []Response{
			{ID: "resp-1", MemoryID: "mem-1", Text: "wow"},
		},
	}

	r := m.Redacted()
	if r.Content != "" {
		t.Errorf("Redacted() kept content: %q", r.Content)
	}
	if r.Responses != nil {
		t.Errorf("Redacted() kept responses: %v", r.Responses)
	}
	if r.Title != m.Title || r.ID != m.ID {
		t.Error("Redacted() should keep metadata")
	}

	// Original must be untouched
	if m.Content != "secret plans" || len(m.Responses) != 1 {
		t.Error("Redacted() modified the original memory")
	}
}

func TestParseCategory(t *testing.T) {
	for _, info := range Categories {
		c, ok := ParseCategory(string(info.Name))
		if !ok {
			t.Errorf("ParseCategory(%q) not ok", info.Name)
		}
		if c != info.Name {
			t.Errorf("ParseCategory(%q) = %q", info.Name, c)
		}
	}

	if _, ok := ParseCategory("diary"); ok {
		t.Error("ParseCategory(\"diary\") should fail")
	}
	if Category("").Valid() {
		t.Error("empty category should be invalid")
	}
}

func TestCategoryInfo(t *testing.T) {
	info := CategoryLetter.Info()
	if info.Icon == "" || info.Description == "" {
		t.Errorf("Info() for %q missing metadata: %+v", CategoryLetter, info)
	}

	unknown := Category("diary").Info()
	if unknown.Icon != "" {
		t.Errorf("Info() for unknown category returned icon %q", unknown.Icon)
	}
}
