package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/session"
	"github.com/julianstephens/habitual/internal/storage"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.printf("Running diagnostics...\n\n")

	hasError := false
	check := func(name string, err error, warnOnly bool) {
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", name)
		case warnOnly:
			ctx.printf("⚠ %s: WARNING\n   %v\n", name, err)
		default:
			ctx.printf("❌ %s: FAIL\n   Error: %v\n", name, err)
			hasError = true
		}
	}

	check("Configuration", checkConfig(ctx), false)
	check("Keyring", checkKeyring(), true)
	check("Snapshot cache", checkCache(ctx), false)
	if ctx.App != nil && ctx.App.Authenticated() {
		check("Server reachable", checkServer(ctx), false)
	} else {
		ctx.printf("⊘ Server reachable: SKIPPED (not logged in)\n")
	}
	check("Clock/timezone", checkClockTimezone(), false)

	ctx.printf("\n")
	if hasError {
		ctx.printf("Diagnostics completed with errors.\n")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.printf("All diagnostics passed!\n")
	return nil
}

func checkConfig(ctx *Context) error {
	if ctx.Config == nil {
		return fmt.Errorf("configuration not loaded")
	}
	if err := ctx.Config.Validate(); err != nil {
		return err
	}
	if ctx.Config.APIURL == "" {
		return fmt.Errorf("api_url is not set (habitual config set api_url <url>)")
	}
	return nil
}

func checkKeyring() error {
	if !session.IsAvailable() {
		return session.ErrKeyringUnavailable
	}
	return nil
}

func checkCache(ctx *Context) error {
	if ctx.Cache == nil {
		return fmt.Errorf("cache not opened")
	}
	sqliteStore, ok := ctx.Cache.(*storage.SQLiteStore)
	if !ok {
		// JSON cache has no schema
		return nil
	}
	current, latest, err := sqliteStore.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current != latest {
		return fmt.Errorf("cache schema version %d, expected %d", current, latest)
	}
	return nil
}

func checkServer(ctx *Context) error {
	task, err := ctx.App.Fetch(ctx.Ctx)
	if err != nil {
		return err
	}
	start := time.Now()
	if _, err := task.Wait(ctx.Ctx); err != nil {
		return err
	}
	ctx.printf("   responded in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
