package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
)

type DebugCmd struct {
	Paths DebugPathsCmd `cmd:"" help:"Show config, cache and log paths."`
	Dump  DebugDumpCmd  `cmd:"" help:"Dump the cached snapshot as JSON."`
}

type DebugPathsCmd struct{}

func (cmd *DebugPathsCmd) Run(ctx *Context) error {
	output := map[string]string{
		"config": ctx.ConfigPath,
	}
	if ctx.Cache != nil {
		output["cache"] = ctx.Cache.GetConfigPath()
	}
	if p := logger.Path(); p != "" {
		output["log"] = p
	}
	return printJSON(ctx, output)
}

type DebugDumpCmd struct{}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	if err := ctx.requireSession(); err != nil {
		return err
	}
	if ctx.Cache == nil {
		return fmt.Errorf("cache not opened")
	}
	snap, err := ctx.Cache.GetSnapshot(ctx.App.Session.UserID)
	if errors.Is(err, storage.ErrNoSnapshot) {
		return fmt.Errorf("no cached snapshot for %s yet", ctx.App.Session.Username)
	}
	if err != nil {
		return err
	}
	return printJSON(ctx, snap)
}

func printJSON(ctx *Context, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.printf("%s\n", jsonBytes)
	return nil
}
