package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/memkeeper/internal/constants"
	"github.com/julianstephens/memkeeper/internal/models"
	"github.com/julianstephens/memkeeper/internal/vault"
)

type CreateCmd struct {
	Title         string   `arg:"" optional:"" help:"Memory title."`
	Content       string   `help:"Memory content." short:"c"`
	Category      string   `help:"Category (milestone, letter, question, prediction, gratitude)." default:"letter"`
	Tags          []string `help:"Comma-separated tags." short:"t"`
	Importance    int      `help:"Importance from 1 to 5." default:"3"`
	Mood          string   `help:"Current mood." short:"m"`
	UnlockOn      string   `help:"Unlock on a fixed date (YYYY-MM-DD)."`
	UnlockIn      int      `help:"Unlock after N days."`
	UnlockBetween string   `help:"Unlock on a random date in START,END (YYYY-MM-DD)."`
	Interactive   bool     `help:"Fill in the memory via an interactive form." short:"i"`
}

func (c *CreateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var draft vault.Draft
	if c.Interactive {
		draft, err = c.runForm(settings.DefaultUnlockDays)
	} else {
		draft, err = c.fromFlags(settings.DefaultUnlockDays)
	}
	if err != nil {
		return err
	}

	memory, err := ctx.Keeper.Create(draft)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Memory %q sealed until %s (id %s)\n",
		memory.Title, memory.UnlockDate.Local().Format(constants.DateFormat), shortID(memory.ID))
	return nil
}

func (c *CreateCmd) fromFlags(defaultDays int) (vault.Draft, error) {
	category, ok := models.ParseCategory(c.Category)
	if !ok {
		return vault.Draft{}, fmt.Errorf("unknown category %q, see 'memkeeper categories'", c.Category)
	}

	policy, err := parseUnlockPolicy(c.UnlockOn, c.UnlockBetween, c.UnlockIn, defaultDays)
	if err != nil {
		return vault.Draft{}, err
	}

	return vault.Draft{
		Title:      c.Title,
		Content:    c.Content,
		Category:   category,
		Tags:       c.Tags,
		Importance: c.Importance,
		Mood:       c.Mood,
		Policy:     policy,
	}, nil
}

func (c *CreateCmd) runForm(defaultDays int) (vault.Draft, error) {
	var (
		title      = c.Title
		content    = c.Content
		category   = string(models.CategoryLetter)
		mood       string
		importance = "3"
		unlockDays = strconv.Itoa(defaultDays)
	)

	categoryOptions := make([]huh.Option[string], 0, len(models.Categories))
	for _, info := range models.Categories {
		label := fmt.Sprintf("%s - %s", info.Name, info.Description)
		categoryOptions = append(categoryOptions, huh.NewOption(label, string(info.Name)))
	}

	moodOptions := make([]huh.Option[string], 0, len(models.SuggestedMoods)+1)
	moodOptions = append(moodOptions, huh.NewOption("(none)", ""))
	for _, m := range models.SuggestedMoods {
		moodOptions = append(moodOptions, huh.NewOption(m, m))
	}

	importanceOptions := make([]huh.Option[string], 0, models.MaxImportance)
	for i := models.MinImportance; i <= models.MaxImportance; i++ {
		importanceOptions = append(importanceOptions, huh.NewOption(strconv.Itoa(i), strconv.Itoa(i)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&title).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Write to your future self").
				Value(&content).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("content is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(categoryOptions...).
				Value(&category),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Importance").
				Options(importanceOptions...).
				Value(&importance),
			huh.NewSelect[string]().
				Title("How do you feel right now?").
				Options(moodOptions...).
				Value(&mood),
			huh.NewInput().
				Title("Unlock after how many days?").
				Value(&unlockDays).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n <= 0 {
						return fmt.Errorf("enter a positive number of days")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return vault.Draft{}, fmt.Errorf("interactive form error: %w", err)
	}

	days, err := strconv.Atoi(unlockDays)
	if err != nil {
		return vault.Draft{}, fmt.Errorf("invalid unlock days: %w", err)
	}
	importanceVal, err := strconv.Atoi(importance)
	if err != nil {
		return vault.Draft{}, fmt.Errorf("invalid importance: %w", err)
	}

	return vault.Draft{
		Title:      title,
		Content:    content,
		Category:   models.Category(category),
		Tags:       c.Tags,
		Importance: importanceVal,
		Mood:       mood,
		Policy:     models.UnlockPolicy{Kind: models.UnlockInterval, IntervalDays: days},
	}, nil
}
