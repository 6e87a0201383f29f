package tui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/jingkaihe/docpal/pkg/logger"
	"github.com/jingkaihe/docpal/pkg/watch"
)

// StartOptions configures Start
type StartOptions struct {
	// WatchPaths triggers a reload whenever files under them change. Empty
	// disables watching.
	WatchPaths []string
	// WatchIgnore lists files under WatchPaths that never trigger a reload,
	// such as the log file
	WatchIgnore []string
	Model       []Option
}

// Start loads the content and runs the terminal UI until the user quits or
// ctx is cancelled
func Start(ctx context.Context, load Loader, opts StartOptions) error {
	if !isTTY() {
		return errors.New("the interactive palette needs a terminal, use 'docpal search' instead")
	}

	content, err := load()
	if err != nil {
		return err
	}

	model := NewModel(ctx, content, load, opts.Model...)

	teaOptions := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	}

	p := tea.NewProgram(model, teaOptions...)
	model.Attach(p.Send)

	if len(opts.WatchPaths) > 0 {
		watchConfig := watch.NewConfig(opts.WatchPaths...)
		watchConfig.IgnoreFiles = opts.WatchIgnore
		w, err := watch.New(ctx, watchConfig)
		if err != nil {
			return err
		}
		defer w.Close()

		go w.Run(ctx, func(c watch.Change) {
			p.Send(ReloadMsg{Reason: c.Path})
		})
		logger.G(ctx).WithField("paths", opts.WatchPaths).Debug("watching for content changes")
	}

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return errors.Wrap(err, "error running program")
	}
	return nil
}

// isTTY checks if the terminal supports advanced features
func isTTY() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
