package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

type HabitCmd struct {
	List   HabitListCmd   `cmd:"" help:"List habits with today's progress." default:"1"`
	Add    HabitAddCmd    `cmd:"" help:"Create a habit."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	if err := ctx.refresh(); err != nil {
		return err
	}
	rows := ctx.App.Rows()
	if len(rows) == 0 {
		ctx.printf("No habits yet. Add one with 'habitual habit add <name>'.\n")
		return nil
	}
	for _, r := range rows {
		mark := " "
		if r.Full {
			mark = "✓"
		}
		ctx.printf("%s %s %-20s %d/%d today  %d/%d days this week  %3.0f%%  [%s]\n",
			mark, r.Habit.Emoji, r.Habit.Name,
			r.Today, r.Habit.DailyTarget,
			r.Week, r.Habit.WeeklyTarget,
			r.Progress, r.Habit.ID)
	}
	return nil
}

func validateTargets(daily, weekly int) error {
	if daily < constants.MinDailyTarget || daily > constants.MaxDailyTarget {
		return fmt.Errorf("daily target must be between %d and %d", constants.MinDailyTarget, constants.MaxDailyTarget)
	}
	if weekly < constants.MinWeeklyTarget || weekly > constants.MaxWeeklyTarget {
		return fmt.Errorf("weekly target must be between %d and %d", constants.MinWeeklyTarget, constants.MaxWeeklyTarget)
	}
	return nil
}

func validateEmoji(e string) error {
	if !slices.Contains(constants.EmojiPalette, e) {
		return fmt.Errorf("emoji must be one of %s", strings.Join(constants.EmojiPalette, " "))
	}
	return nil
}

type HabitAddCmd struct {
	Name   string `arg:"" help:"Habit name."`
	Emoji  string `help:"Icon from the palette." default:"🔥"`
	Daily  int    `help:"Completions per day (1-10)." default:"1"`
	Weekly int    `help:"Days per week (1-7)." default:"7"`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	if err := validateTargets(c.Daily, c.Weekly); err != nil {
		return err
	}
	if err := validateEmoji(c.Emoji); err != nil {
		return err
	}
	if err := ctx.refresh(); err != nil {
		return err
	}

	form := models.HabitForm{Name: c.Name, Emoji: c.Emoji, DailyTarget: c.Daily, WeeklyTarget: c.Weekly}
	task, ok := ctx.App.SaveHabit(ctx.Ctx, form)
	if !ok {
		return fmt.Errorf("could not create habit %q", c.Name)
	}
	if _, err := ctx.finish(task); err != nil {
		return err
	}
	if err := ctx.refresh(); err != nil {
		return err
	}
	ctx.printf("Created %s %s\n", c.Emoji, strings.TrimSpace(c.Name))
	return nil
}

type HabitEditCmd struct {
	Habit  string  `arg:"" help:"Habit id or name."`
	Name   *string `help:"New name."`
	Emoji  *string `help:"New icon from the palette."`
	Daily  *int    `help:"New completions per day (1-10)."`
	Weekly *int    `help:"New days per week (1-7)."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	if err := ctx.refresh(); err != nil {
		return err
	}
	h, err := ctx.findHabit(c.Habit)
	if err != nil {
		return err
	}

	form := models.HabitForm{ID: h.ID, Name: h.Name, Emoji: h.Emoji, DailyTarget: h.DailyTarget, WeeklyTarget: h.WeeklyTarget}
	updated := false
	if c.Name != nil {
		form.Name = *c.Name
		updated = true
	}
	if c.Emoji != nil {
		if err := validateEmoji(*c.Emoji); err != nil {
			return err
		}
		form.Emoji = *c.Emoji
		updated = true
	}
	if c.Daily != nil {
		form.DailyTarget = *c.Daily
		updated = true
	}
	if c.Weekly != nil {
		form.WeeklyTarget = *c.Weekly
		updated = true
	}
	if !updated {
		ctx.printf("No changes specified.\n")
		return nil
	}
	if err := validateTargets(form.DailyTarget, form.WeeklyTarget); err != nil {
		return err
	}

	task, ok := ctx.App.SaveHabit(ctx.Ctx, form)
	if !ok {
		return fmt.Errorf("habit name cannot be empty")
	}
	if _, err := ctx.finish(task); err != nil {
		return err
	}
	if err := ctx.refresh(); err != nil {
		return err
	}
	ctx.printf("Updated %s %s\n", form.Emoji, strings.TrimSpace(form.Name))
	return nil
}

// confirmDelete asks before a destructive delete.
var confirmDelete = func(h models.Habit) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete %s %s?", h.Emoji, h.Name)).
			Description("All of its history is removed too.").
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	)).WithTheme(huh.ThemeDracula()).Run()
	return ok, err
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	if err := ctx.refresh(); err != nil {
		return err
	}
	h, err := ctx.findHabit(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := confirmDelete(h)
		if err != nil {
			return fmt.Errorf("reading confirmation: %w", err)
		}
		if !ok {
			ctx.printf("Cancelled.\n")
			return nil
		}
	}

	task, ok := ctx.App.DeleteHabit(ctx.Ctx, h.ID)
	if !ok {
		return fmt.Errorf("habit %q not found", c.Habit)
	}
	resp, err := task.Wait(ctx.Ctx)
	ctx.App.CompleteDelete(h.ID, resp, err)
	if _, err := ctx.finish(task); err != nil {
		return err
	}
	ctx.printf("Deleted %s %s\n", h.Emoji, h.Name)
	return nil
}
