package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/gateway"
)

// promptCredentials asks for whatever the flags left out.
var promptCredentials = func(mode constants.AuthMode, username, password *string) error {
	title := "Log in to habitual"
	if mode == constants.AuthSignup {
		title = "Create a habitual account"
	}

	var fields []huh.Field
	if *username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(username).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("username is required")
				}
				return nil
			}))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password).
			Validate(func(s string) error {
				if s == "" {
					return errors.New("password is required")
				}
				return nil
			}))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...).Title(title)).WithTheme(huh.ThemeDracula()).Run()
}

type LoginCmd struct {
	Username string `arg:"" optional:"" help:"Account username."`
	Password string `help:"Account password (prompted when omitted)." env:"HABITUAL_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *Context) error {
	return authenticate(ctx, constants.AuthLogin, c.Username, c.Password)
}

type SignupCmd struct {
	Username string `arg:"" optional:"" help:"Account username."`
	Password string `help:"Account password (prompted when omitted)." env:"HABITUAL_PASSWORD"`
}

func (c *SignupCmd) Run(ctx *Context) error {
	return authenticate(ctx, constants.AuthSignup, c.Username, c.Password)
}

func authenticate(ctx *Context, mode constants.AuthMode, username, password string) error {
	if ctx.App == nil {
		return fmt.Errorf("application not initialised")
	}
	if err := promptCredentials(mode, &username, &password); err != nil {
		return fmt.Errorf("reading credentials: %w", err)
	}

	resp, err := ctx.App.Authenticate(ctx.Ctx, mode, username, password).Wait(ctx.Ctx)
	if err := ctx.App.CompleteAuth(resp, err); err != nil {
		return errors.New(gateway.AuthMessage(err))
	}
	if err := ctx.refresh(); err != nil {
		return err
	}

	verb := "Logged in"
	if mode == constants.AuthSignup {
		verb = "Signed up"
	}
	ctx.printf("%s as %s (%d habits)\n", verb, ctx.App.Session.Username, ctx.App.Habits.Len())
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	if ctx.App == nil {
		return fmt.Errorf("application not initialised")
	}
	if err := ctx.App.Logout(); err != nil {
		return fmt.Errorf("failed to clear local data: %w", err)
	}
	ctx.printf("Logged out.\n")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *Context) error {
	if err := ctx.requireSession(); err != nil {
		return err
	}
	ctx.printf("%s (%s)\n", ctx.App.Session.Username, ctx.App.Session.UserID)
	return nil
}
