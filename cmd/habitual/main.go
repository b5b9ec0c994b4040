package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitual/internal/app"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/gateway"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}"`
	APIURL  string `name:"api-url" help:"Override the backend endpoint."`
	Debug   bool   `help:"Enable debug logging."`

	Login    cli.LoginCmd     `cmd:"" help:"Log in to your account."`
	Signup   cli.SignupCmd    `cmd:"" help:"Create an account."`
	Logout   cli.LogoutCmd    `cmd:"" help:"Log out and clear local data."`
	Whoami   cli.WhoamiCmd    `cmd:"" help:"Show the logged-in user."`
	Habit    cli.HabitCmd     `cmd:"" help:"Manage habits."`
	Track    cli.TrackCmd     `cmd:"" help:"Record one completion for today."`
	Untrack  cli.UntrackCmd   `cmd:"" help:"Remove one completion from today."`
	Today    cli.TodayCmd     `cmd:"" help:"Show today's progress."`
	Stats    cli.StatsCmd     `cmd:"" help:"Show the weekly trend and habit ranking."`
	Calendar cli.CalendarCmd  `cmd:"" help:"Show a month of activity."`
	Day      cli.DayCmd       `cmd:"" help:"Show what was done on a day."`
	Cfg      cli.ConfigCmd    `cmd:"" name:"config" help:"Show or change settings."`
	Doctor   cli.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Dbg      cli.DebugCmd     `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Serve    cli.DevserverCmd `cmd:"" name:"devserver" help:"Run a local development backend."`
	Tui      cli.TuiCmd       `cmd:"" help:"Launch the interactive TUI." default:"1"`
}

// offline commands never talk to the backend
var offline = map[string]bool{
	"config":    true,
	"devserver": true,
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker for the terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": config.DefaultPath(),
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.APIURL != "" {
		cfg.APIURL = CLI.APIURL
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	command := kctx.Command()
	top := strings.Fields(command)[0]
	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
		Quiet:     top == "tui",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	logger.Debug("starting", "version", constants.Version, "command", command, "config", CLI.Config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := &cli.Context{
		Ctx:        ctx,
		Config:     cfg,
		ConfigPath: CLI.Config,
	}

	if !offline[top] {
		cache, err := storage.Open(cfg.CachePath)
		if err != nil {
			errors.Fatal(fmt.Errorf("opening cache %s: %w", cfg.CachePath, err))
		}
		defer cache.Close()

		gw := gateway.NewHTTPClient(cfg.APIURL, cfg.RequestTimeout(), cfg.Location())
		a := app.New(gw,
			app.WithCache(cache),
			app.WithLocation(cfg.Location()),
			app.WithLocale(cfg.Locale),
		)
		a.Restore()

		appCtx.App = a
		appCtx.Cache = cache
	}

	if err := kctx.Run(appCtx); err != nil {
		stop()
		errors.Fatal(err)
	}
}
