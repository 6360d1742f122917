package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/memkeeper/internal/storage"
)

type ExportCmd struct {
	Output string `arg:"" optional:"" help:"Output file; stdout if omitted." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	out := os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		out = f
	}

	count, err := ctx.Keeper.Export(out)
	if err != nil {
		return err
	}

	if c.Output != "" {
		fmt.Printf("✓ Exported %d memories to %s\n", count, c.Output)
	}
	return nil
}

type ImportCmd struct {
	Input  string `arg:"" help:"Snapshot file to import." type:"existingfile"`
	Policy string `help:"Import policy: merge keeps existing memories, replace discards them." enum:"merge,replace," default:""`
}

func (c *ImportCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	policy := c.Policy
	if policy == "" {
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		policy = settings.ImportPolicy
		if policy == "" {
			policy = storage.ImportPolicyMerge
		}
	}

	f, err := os.Open(c.Input)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	result, err := ctx.Keeper.Import(f, policy)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Imported %d memories", result.Imported)
	if result.Skipped > 0 {
		fmt.Printf(" (%d already present, skipped)", result.Skipped)
	}
	fmt.Println()
	return nil
}
