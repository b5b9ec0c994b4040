package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/instance"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	if ctx.App == nil {
		return fmt.Errorf("application not initialised")
	}

	lock, err := instance.Acquire(filepath.Dir(ctx.ConfigPath))
	if errors.Is(err, instance.ErrAlreadyRunning) {
		return err
	}
	if err != nil {
		// A broken lockfile should not keep the user out
		logger.Warn("could not take the instance lock", "error", err)
	} else {
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("failed to release the instance lock", "error", err)
			}
		}()
	}

	m := tui.NewModel(ctx.Ctx, ctx.App, ctx.Config.RefreshInterval())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx.Ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
