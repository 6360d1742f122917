package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/memkeeper/internal/backup"
	"github.com/julianstephens/memkeeper/internal/constants"
	"github.com/julianstephens/memkeeper/internal/logger"
	"github.com/julianstephens/memkeeper/internal/models"
	"github.com/julianstephens/memkeeper/internal/storage"
	"github.com/julianstephens/memkeeper/internal/vault"
)

type Context struct {
	Store  storage.Provider
	Keeper *vault.Keeper
}

// PerformAutomaticBackup takes a best-effort backup of a file-backed store.
// Failures are logged, never fatal.
func (ctx *Context) PerformAutomaticBackup() {
	if _, ok := ctx.Store.(*storage.SQLiteStore); !ok {
		return
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("automatic backup failed", "error", err)
	}
}

// parseUnlockPolicy builds an unlock policy from the create command's flags.
// Exactly one of the policy flags must be set; with none set, the default
// interval from settings applies.
func parseUnlockPolicy(unlockOn, unlockBetween string, unlockIn, defaultDays int) (models.UnlockPolicy, error) {
	set := 0
	if unlockOn != "" {
		set++
	}
	if unlockIn > 0 {
		set++
	}
	if unlockBetween != "" {
		set++
	}
	if set > 1 {
		return models.UnlockPolicy{}, fmt.Errorf("only one of --unlock-on, --unlock-in, --unlock-between may be given")
	}

	switch {
	case unlockOn != "":
		date, err := parseDate(unlockOn)
		if err != nil {
			return models.UnlockPolicy{}, fmt.Errorf("invalid --unlock-on: %w", err)
		}
		return models.UnlockPolicy{Kind: models.UnlockFixedDate, FixedDate: &date}, nil
	case unlockBetween != "":
		parts := strings.SplitN(unlockBetween, ",", 2)
		if len(parts) != 2 {
			return models.UnlockPolicy{}, fmt.Errorf("invalid --unlock-between: expected START,END")
		}
		start, err := parseDate(strings.TrimSpace(parts[0]))
		if err != nil {
			return models.UnlockPolicy{}, fmt.Errorf("invalid --unlock-between start: %w", err)
		}
		end, err := parseDate(strings.TrimSpace(parts[1]))
		if err != nil {
			return models.UnlockPolicy{}, fmt.Errorf("invalid --unlock-between end: %w", err)
		}
		return models.UnlockPolicy{Kind: models.UnlockRandomDate, RandomStart: &start, RandomEnd: &end}, nil
	case unlockIn > 0:
		return models.UnlockPolicy{Kind: models.UnlockInterval, IntervalDays: unlockIn}, nil
	default:
		return models.UnlockPolicy{Kind: models.UnlockInterval, IntervalDays: defaultDays}, nil
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected %s or RFC3339: %q", constants.DateFormat, s)
	}
	return t.UTC(), nil
}

func formatMemoryLine(m models.Memory, now time.Time) string {
	info := m.Category.Info()
	state := "locked until " + m.UnlockDate.Local().Format(constants.DateFormat)
	if m.IsUnlocked(now) {
		state = "unlocked"
	}
	line := fmt.Sprintf("  %s %s [%s] - %s (importance %d)", info.Icon, m.Title, m.Category, state, m.Importance)
	if len(m.Tags) > 0 {
		line += "\n      Tags: " + strings.Join(m.Tags, ", ")
	}
	return line
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
