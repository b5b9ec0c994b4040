package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tui/state"
)

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// NewAuthForm creates the login/signup form for the current auth mode
func NewAuthForm(mode constants.AuthMode, fm *state.AuthFormModel) *huh.Form {
	title := "Log in"
	if mode == constants.AuthSignup {
		title = "Sign up"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&fm.Username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("password is required")
					}
					return nil
				}),
		).Title(title).Description("ctrl+s switches between log in and sign up"),
	).WithTheme(huh.ThemeDracula())
}

func rangeOptions(lo, hi int, unit string) []huh.Option[int] {
	opts := make([]huh.Option[int], 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%d %s", i, unit), i))
	}
	return opts
}

// NewHabitForm creates the shared add/edit habit form
func NewHabitForm(fm *models.HabitForm) *huh.Form {
	emojis := make([]huh.Option[string], 0, len(constants.EmojiPalette))
	for _, e := range constants.EmojiPalette {
		emojis = append(emojis, huh.NewOption(e, e))
	}

	title := "New habit"
	if fm.IsEdit() {
		title = "Edit habit (ctrl+d deletes)"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(required("name")),
			huh.NewSelect[int]().
				Title("Daily target").
				Options(rangeOptions(constants.MinDailyTarget, constants.MaxDailyTarget, "x / day")...).
				Value(&fm.DailyTarget),
			huh.NewSelect[int]().
				Title("Weekly target").
				Options(rangeOptions(constants.MinWeeklyTarget, constants.MaxWeeklyTarget, "days / week")...).
				Value(&fm.WeeklyTarget),
			huh.NewSelect[string]().
				Title("Icon").
				Options(emojis...).
				Inline(true).
				Value(&fm.Emoji),
		).Title(title),
	).WithTheme(huh.ThemeDracula())
}
