package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/memkeeper/internal/backup"
	"github.com/julianstephens/memkeeper/internal/constants"
	"github.com/julianstephens/memkeeper/internal/storage"
	"github.com/julianstephens/memkeeper/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	// Check 1: storage reachable
	if err := checkStorageReachable(ctx); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK\n")
		dbReachable = true
	}

	// Check 2: settings readable
	if dbReachable {
		if err := checkSettings(ctx); err != nil {
			fmt.Printf("❌ Settings: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Settings: OK\n")
		}
	}

	// Check 3: stored memories pass validation
	if dbReachable {
		if err := checkMemories(ctx); err != nil {
			fmt.Printf("❌ Memory validation: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Memory validation: OK\n")
		}
	} else {
		fmt.Printf("⊘ Memory validation: SKIPPED (storage not reachable)\n")
	}

	// Check 4: backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 5: clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	// Check 6: no other memkeeper processes holding the database
	if err := checkDuplicateProcess(); err != nil {
		fmt.Printf("⚠ Concurrent processes: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Concurrent processes: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func checkSettings(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.DefaultUnlockDays <= 0 {
		return fmt.Errorf("default unlock days must be positive, got %d", settings.DefaultUnlockDays)
	}
	switch settings.ImportPolicy {
	case storage.ImportPolicyMerge, storage.ImportPolicyReplace, "":
	default:
		return fmt.Errorf("unknown import policy %q", settings.ImportPolicy)
	}
	return nil
}

func checkMemories(ctx *Context) error {
	memories, err := ctx.Store.GetAllMemoriesIncludingDeleted()
	if err != nil {
		return fmt.Errorf("failed to get memories: %w", err)
	}

	seen := make(map[string]bool)
	for _, m := range memories {
		if seen[m.ID] {
			return fmt.Errorf("duplicate memory ID found: %s", m.ID)
		}
		seen[m.ID] = true
		if err := validation.ValidateMemory(m); err != nil {
			return fmt.Errorf("memory %s: %w", shortID(m.ID), err)
		}
	}

	return nil
}

func checkBackupsPresent(ctx *Context) error {
	if _, ok := ctx.Store.(*storage.SQLiteStore); !ok {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'memkeeper backup create'")
	}

	return nil
}

func checkClock() error {
	now := time.Now()

	// Lock decisions depend on wall-clock time, so a bad clock silently
	// unlocks or re-locks memories
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	_, offset := now.Zone()
	if offset == 0 && now.Location() == time.UTC {
		fmt.Printf("   Note: timezone is UTC\n")
	}

	return nil
}

func checkDuplicateProcess() error {
	processes, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	self := os.Getpid()
	count := 0
	for _, p := range processes {
		if p.Executable() == constants.AppName && p.Pid() != self {
			count++
		}
	}

	if count > 0 {
		return fmt.Errorf("%d other %s process(es) running; concurrent writes may conflict", count, constants.AppName)
	}

	return nil
}
