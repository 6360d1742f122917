package cli

import (
	"testing"
	"time"

	"github.com/julianstephens/memkeeper/internal/models"
)

func TestParseUnlockPolicy(t *testing.T) {
	tests := []struct {
		name          string
		unlockOn      string
		unlockBetween string
		unlockIn      int
		wantKind      models.UnlockKind
		wantErr       bool
	}{
		{"default interval", "", "", 0, models.UnlockInterval, false},
		{"explicit interval", "", "", 14, models.UnlockInterval, false},
		{"fixed date", "2027-01-01", "", 0, models.UnlockFixedDate, false},
		{"random window", "", "2027-01-01,2027-06-01", 0, models.UnlockRandomDate, false},
		{"bad date", "january", "", 0, "", true},
		{"bad window", "", "2027-01-01", 0, "", true},
		{"multiple flags", "2027-01-01", "", 14, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := parseUnlockPolicy(tt.unlockOn, tt.unlockBetween, tt.unlockIn, 30)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseUnlockPolicy() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if policy.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", policy.Kind, tt.wantKind)
			}
		})
	}
}

func TestParseUnlockPolicyDefaultDays(t *testing.T) {
	policy, err := parseUnlockPolicy("", "", 0, 45)
	if err != nil {
		t.Fatalf("parseUnlockPolicy() failed: %v", err)
	}
	if policy.IntervalDays != 45 {
		t.Errorf("interval days = %d, want 45", policy.IntervalDays)
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2027-03-01")
	if err != nil {
		t.Fatalf("parseDate() failed: %v", err)
	}
	want := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseDate() = %v, want %v", got, want)
	}

	got, err = parseDate("2027-03-01T15:30:00Z")
	if err != nil {
		t.Fatalf("parseDate() RFC3339 failed: %v", err)
	}
	if got.Hour() != 15 {
		t.Errorf("parseDate() lost the time component: %v", got)
	}

	if _, err := parseDate("soon"); err == nil {
		t.Error("parseDate(\"soon\") should fail")
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID() = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID() on short input = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{48 * time.Hour, "2 days"},
		{24 * time.Hour, "1 day"},
		{5 * time.Hour, "5 hours"},
		{30 * time.Minute, "31 minutes"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
