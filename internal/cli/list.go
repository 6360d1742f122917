package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/memkeeper/internal/vault"
)

type ListCmd struct {
	Locked   bool `help:"Show only locked memories." xor:"filter"`
	Unlocked bool `help:"Show only unlocked memories." xor:"filter"`
}

func (c *ListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	filter := vault.FilterAll
	if c.Locked {
		filter = vault.FilterLocked
	} else if c.Unlocked {
		filter = vault.FilterUnlocked
	}

	memories, err := ctx.Keeper.List(filter)
	if err != nil {
		return err
	}

	if len(memories) == 0 {
		fmt.Println("No memories found")
		return nil
	}

	now := time.Now()
	fmt.Printf("Memories (%d):\n", len(memories))
	for _, m := range memories {
		fmt.Println(formatMemoryLine(m, now))
		fmt.Printf("      id: %s\n", shortID(m.ID))
	}

	return nil
}

// VaultCmd shows locked memories only: the things still waiting for you.
type VaultCmd struct{}

func (c *VaultCmd) Run(ctx *Context) error {
	list := ListCmd{Locked: true}
	return list.Run(ctx)
}

// UnlockedCmd shows memories that are ready to read.
type UnlockedCmd struct{}

func (c *UnlockedCmd) Run(ctx *Context) error {
	list := ListCmd{Unlocked: true}
	return list.Run(ctx)
}
