package cli

import "fmt"

type DeleteCmd struct {
	ID string `arg:"" help:"Memory ID (or unique prefix)."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	id, err := resolveID(ctx, c.ID)
	if err != nil {
		return err
	}

	if err := ctx.Keeper.Delete(id); err != nil {
		return err
	}

	fmt.Printf("✓ Memory %s deleted (restore with 'memkeeper restore %s')\n", shortID(id), shortID(id))
	return nil
}

type RestoreCmd struct {
	ID string `arg:"" help:"Memory ID of a deleted memory."`
}

func (c *RestoreCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	// Deleted memories are invisible to the usual lookup, so match the
	// prefix over everything
	memories, err := ctx.Store.GetAllMemoriesIncludingDeleted()
	if err != nil {
		return err
	}

	var matches []string
	for _, m := range memories {
		if m.ID == c.ID {
			matches = []string{m.ID}
			break
		}
		if len(c.ID) > 0 && len(m.ID) >= len(c.ID) && m.ID[:len(c.ID)] == c.ID {
			matches = append(matches, m.ID)
		}
	}

	if len(matches) == 0 {
		return fmt.Errorf("memory not found: %s", c.ID)
	}
	if len(matches) > 1 {
		return fmt.Errorf("ambiguous memory id %q matches %d memories", c.ID, len(matches))
	}

	if err := ctx.Keeper.Restore(matches[0]); err != nil {
		return err
	}

	fmt.Printf("✓ Memory %s restored\n", shortID(matches[0]))
	return nil
}
