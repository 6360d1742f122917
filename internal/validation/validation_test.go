package validation

import (
	"testing"
	"time"

	"github.com/julianstephens/memkeeper/internal/models"
)

func validMemory() models.Memory {
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	unlock := created.AddDate(0, 0, 30)
	return models.Memory{
		ID:         "mem-1",
		Title:      "Letter to future me",
		Content:    "Hello from the past",
		Category:   models.CategoryLetter,
		Importance: 3,
		CreatedAt:  created,
		UnlockPolicy: models.UnlockPolicy{
			Kind:         models.UnlockInterval,
			IntervalDays: 30,
		},
		UnlockDate: unlock,
	}
}

func TestValidateMemoryOK(t *testing.T) {
	if err := ValidateMemory(validMemory()); err != nil {
		t.Fatalf("ValidateMemory() on valid memory failed: %v", err)
	}
}

func TestValidateMemoryRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Memory)
	}{
		{"empty id", func(m *models.Memory) { m.ID = "" }},
		{"empty title", func(m *models.Memory) { m.Title = "" }},
		{"empty content", func(m *models.Memory) { m.Content = "" }},
		{"unknown category", func(m *models.Memory) { m.Category = "diary" }},
		{"importance too low", func(m *models.Memory) { m.Importance = 0 }},
		{"importance too high", func(m *models.Memory) { m.Importance = 6 }},
		{"zero created_at", func(m *models.Memory) { m.CreatedAt = time.Time{} }},
		{"zero unlock_date", func(m *models.Memory) { m.UnlockDate = time.Time{} }},
		{"unlock before creation", func(m *models.Memory) {
			m.UnlockDate = m.CreatedAt.Add(-time.Hour)
		}},
		{"interval policy without days", func(m *models.Memory) {
			m.UnlockPolicy = models.UnlockPolicy{Kind: models.UnlockInterval}
		}},
		{"unknown policy kind", func(m *models.Memory) {
			m.UnlockPolicy = models.UnlockPolicy{Kind: "sometimes"}
		}},
		{"response before unlock", func(m *models.Memory) {
			m.Responses = []models.Response{{
				ID:        "resp-1",
				MemoryID:  m.ID,
				Text:      "too early",
				CreatedAt: m.UnlockDate.Add(-time.Hour),
			}}
		}},
		{"response with empty text", func(m *models.Memory) {
			m.Responses = []models.Response{{
				ID:        "resp-1",
				MemoryID:  m.ID,
				CreatedAt: m.UnlockDate.Add(time.Hour),
			}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMemory()
			tt.mutate(&m)
			err := ValidateMemory(m)
			if err == nil {
				t.Fatal("ValidateMemory() should have failed")
			}
			if !models.IsValidationError(err) {
				t.Errorf("error should be a ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestValidateMemoryAcceptsResponseAfterUnlock(t *testing.T) {
	m := validMemory()
	m.Responses = []models.Response{{
		ID:        "resp-1",
		MemoryID:  m.ID,
		Text:      "hello back",
		CreatedAt: m.UnlockDate.Add(time.Hour),
	}}
	if err := ValidateMemory(m); err != nil {
		t.Fatalf("ValidateMemory() rejected valid response: %v", err)
	}
}

func TestValidatePolicy(t *testing.T) {
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	later := date.AddDate(0, 1, 0)

	tests := []struct {
		name    string
		policy  models.UnlockPolicy
		wantErr bool
	}{
		{"fixed date ok", models.UnlockPolicy{Kind: models.UnlockFixedDate, FixedDate: &date}, false},
		{"fixed date missing", models.UnlockPolicy{Kind: models.UnlockFixedDate}, true},
		{"interval ok", models.UnlockPolicy{Kind: models.UnlockInterval, IntervalDays: 7}, false},
		{"interval zero", models.UnlockPolicy{Kind: models.UnlockInterval}, true},
		{"interval negative", models.UnlockPolicy{Kind: models.UnlockInterval, IntervalDays: -1}, true},
		{"random ok", models.UnlockPolicy{Kind: models.UnlockRandomDate, RandomStart: &date, RandomEnd: &later}, false},
		{"random same bounds", models.UnlockPolicy{Kind: models.UnlockRandomDate, RandomStart: &date, RandomEnd: &date}, false},
		{"random missing start", models.UnlockPolicy{Kind: models.UnlockRandomDate, RandomEnd: &later}, true},
		{"random missing end", models.UnlockPolicy{Kind: models.UnlockRandomDate, RandomStart: &date}, true},
		{"random end before start", models.UnlockPolicy{Kind: models.UnlockRandomDate, RandomStart: &later, RandomEnd: &date}, true},
		{"unknown kind", models.UnlockPolicy{Kind: "sometimes"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePolicy(tt.policy)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePolicy() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
