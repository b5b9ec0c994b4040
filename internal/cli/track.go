package cli

import (
	"fmt"
)

type TrackCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *TrackCmd) Run(ctx *Context) error {
	if err := ctx.refresh(); err != nil {
		return err
	}
	h, err := ctx.findHabit(c.Habit)
	if err != nil {
		return err
	}
	task, ok := ctx.App.Increment(ctx.Ctx, h.ID)
	if !ok {
		ctx.printf("%s %s already done %d/%d today.\n", h.Emoji, h.Name, h.DailyTarget, h.DailyTarget)
		return nil
	}
	if _, err := ctx.finish(task); err != nil {
		return err
	}
	ctx.printf("%s %s %d/%d today\n", h.Emoji, h.Name, ctx.App.Logs.CountMatching(h.ID, ctx.App.Today()), h.DailyTarget)
	return nil
}

type UntrackCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *UntrackCmd) Run(ctx *Context) error {
	if err := ctx.refresh(); err != nil {
		return err
	}
	h, err := ctx.findHabit(c.Habit)
	if err != nil {
		return err
	}
	task, ok := ctx.App.Decrement(ctx.Ctx, h.ID)
	if !ok {
		return fmt.Errorf("%s has no completions today", h.Name)
	}
	if _, err := ctx.finish(task); err != nil {
		return err
	}
	ctx.printf("%s %s %d/%d today\n", h.Emoji, h.Name, ctx.App.Logs.CountMatching(h.ID, ctx.App.Today()), h.DailyTarget)
	return nil
}
