package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/habitual/internal/app"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/gateway"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// Context carries the dependencies shared by every command
type Context struct {
	Ctx        context.Context
	Config     *config.Config
	ConfigPath string
	Out        io.Writer

	// App and Cache are nil for commands that run without a session
	App   *app.App
	Cache storage.Provider
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

// requireSession fails unless a user is logged in.
func (c *Context) requireSession() error {
	if c.App == nil {
		return fmt.Errorf("application not initialised")
	}
	if !c.App.Authenticated() {
		return fmt.Errorf("%w: run 'habitual login' first", app.ErrNotAuthenticated)
	}
	return nil
}

// refresh fetches the latest data. A failed fetch leaves the cached snapshot
// in place and is reported as a warning.
func (c *Context) refresh() error {
	if err := c.requireSession(); err != nil {
		return err
	}
	task, err := c.App.Fetch(c.Ctx)
	if err != nil {
		return err
	}
	snap, err := task.Wait(c.Ctx)
	if err != nil {
		logger.Warn("fetch failed, showing cached data", "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not reach the server, showing cached data (%v)\n", err)
		return nil
	}
	c.App.ApplySnapshot(snap)
	return nil
}

// finish waits for a mutation and turns a failure into an error.
func (c *Context) finish(task *gateway.Task[gateway.Response]) (gateway.Response, error) {
	resp, err := task.Wait(c.Ctx)
	if err != nil {
		return resp, fmt.Errorf("request failed: %w", err)
	}
	if !resp.OK() {
		return resp, fmt.Errorf("server rejected the request: %s", resp.Message)
	}
	return resp, nil
}

// findHabit resolves a habit by id or, case-insensitively, by name.
func (c *Context) findHabit(ref string) (models.Habit, error) {
	if h, ok := c.App.Habits.Get(ref); ok {
		return h, nil
	}
	if h, ok := c.App.Habits.FindByName(strings.TrimSpace(ref)); ok {
		return h, nil
	}
	return models.Habit{}, fmt.Errorf("habit %q not found", ref)
}
