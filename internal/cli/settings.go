package cli

import (
	"fmt"

	"github.com/julianstephens/memkeeper/internal/storage"
)

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	fmt.Println("Settings:")
	fmt.Printf("  default-unlock-days: %d\n", settings.DefaultUnlockDays)
	fmt.Printf("  import-policy:       %s\n", settings.ImportPolicy)
	return nil
}

type SettingsSetCmd struct {
	DefaultUnlockDays int    `help:"Default days until unlock for new memories."`
	ImportPolicy      string `help:"Default import policy." enum:"merge,replace," default:""`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}

	changed := false
	if c.DefaultUnlockDays > 0 {
		settings.DefaultUnlockDays = c.DefaultUnlockDays
		changed = true
	}
	if c.ImportPolicy != "" {
		settings.ImportPolicy = c.ImportPolicy
		changed = true
	}

	if !changed {
		return fmt.Errorf("nothing to change, see 'memkeeper settings set --help'")
	}

	if settings.ImportPolicy == "" {
		settings.ImportPolicy = storage.ImportPolicyMerge
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Println("✓ Settings updated")
	return nil
}
