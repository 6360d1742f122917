package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/memkeeper/internal/models"
)

type RespondCmd struct {
	ID   string `arg:"" help:"Memory ID (or unique prefix)."`
	Text string `help:"Response text; omit to open an interactive form." short:"t"`
	Mood string `help:"Mood while responding." short:"m"`
}

func (c *RespondCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	id, err := resolveID(ctx, c.ID)
	if err != nil {
		return err
	}

	text, mood := c.Text, c.Mood
	if text == "" {
		text, mood, err = responseForm()
		if err != nil {
			return err
		}
	}

	if _, err := ctx.Keeper.RecordResponse(id, text, mood); err != nil {
		var se *models.StateError
		if errors.As(err, &se) {
			return fmt.Errorf("memory is locked until %s; responses need an unlocked memory", se.UnlockDate.Local().Format("2006-01-02"))
		}
		return err
	}

	fmt.Println("✓ Response recorded")
	return nil
}

func responseForm() (text, mood string, err error) {
	moodOptions := make([]huh.Option[string], 0, len(models.SuggestedMoods)+1)
	moodOptions = append(moodOptions, huh.NewOption("(none)", ""))
	for _, m := range models.SuggestedMoods {
		moodOptions = append(moodOptions, huh.NewOption(m, m))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Your response").
				Value(&text).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("response text is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("How do you feel reading this?").
				Options(moodOptions...).
				Value(&mood),
		),
	)

	if err := form.Run(); err != nil {
		return "", "", fmt.Errorf("interactive form error: %w", err)
	}
	return text, mood, nil
}
