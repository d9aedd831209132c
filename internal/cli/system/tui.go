package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/ticktock/internal/cli"
	"github.com/julianstephens/ticktock/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Alerts go to the log and the tray; the TUI shows its own banner
	alerts := ctx.Scheduler.Subscribe(64)
	go dispatcherFor(ctx, nil).Run(runCtx, alerts)

	model := tui.NewModel(ctx.Store, ctx.Aggregator, ctx.Scheduler, ctx.Settings)
	ctx.Scheduler.Start(runCtx)
	defer ctx.Scheduler.Stop()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited: %w", err)
	}
	return nil
}
