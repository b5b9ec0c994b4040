package cli

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/config"
)

type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" help:"Show the effective configuration." default:"1"`
	Set  ConfigSetCmd  `cmd:"" help:"Persist a configuration value."`
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *Context) error {
	ctx.printf("Config file: %s\n\n", ctx.ConfigPath)
	for _, key := range config.Keys() {
		val, err := ctx.Config.Get(key)
		if err != nil {
			return err
		}
		if val == "" {
			val = "(unset)"
		}
		ctx.printf("  %-22s %s\n", key, val)
	}
	return nil
}

type ConfigSetCmd struct {
	Key   string `arg:"" help:"Configuration key."`
	Value string `arg:"" help:"New value."`
}

func (c *ConfigSetCmd) Run(ctx *Context) error {
	// Start from the file alone so environment overrides are not persisted
	cfg, err := config.LoadFile(ctx.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Set(c.Key, c.Value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(ctx.ConfigPath, cfg); err != nil {
		return err
	}
	if err := ctx.Config.Set(c.Key, c.Value); err != nil {
		return fmt.Errorf("applying %s: %w", c.Key, err)
	}
	ctx.printf("%s = %s\n", c.Key, c.Value)
	return nil
}
