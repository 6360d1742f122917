package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/memkeeper/internal/constants"
	"github.com/julianstephens/memkeeper/internal/models"
)

type UpcomingCmd struct {
	Limit int `help:"Maximum number of memories to show." default:"5"`
}

func (c *UpcomingCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	memories, err := ctx.Keeper.Upcoming(c.Limit)
	if err != nil {
		return err
	}

	if len(memories) == 0 {
		fmt.Println("Nothing waiting to unlock")
		return nil
	}

	now := time.Now()
	fmt.Println("Upcoming unlocks:")
	for _, m := range memories {
		remaining := m.UnlockDate.Sub(now)
		fmt.Printf("  %s  %s (%s, in %s)\n",
			m.UnlockDate.Local().Format(constants.DateFormat), m.Title, m.Category, formatDuration(remaining))
	}

	return nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	counts, err := ctx.Keeper.Stats()
	if err != nil {
		return err
	}

	fmt.Println("Vault statistics:")
	fmt.Printf("  Total:     %d\n", counts.Total)
	fmt.Printf("  Locked:    %d\n", counts.Locked)
	fmt.Printf("  Unlocked:  %d\n", counts.Unlocked)
	fmt.Printf("  Responses: %d\n", counts.Responses)

	if counts.Total > 0 {
		fmt.Println("\nBy category:")
		for _, info := range models.Categories {
			if n := counts.ByCategory[info.Name]; n > 0 {
				fmt.Printf("  %-12s %d\n", info.Name, n)
			}
		}
	}

	return nil
}

type CategoriesCmd struct{}

func (c *CategoriesCmd) Run(ctx *Context) error {
	fmt.Println("Categories:")
	for _, info := range models.Categories {
		fmt.Printf("  %-12s %s (%s)\n", info.Name, info.Description, info.Icon)
	}
	return nil
}
