package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/penwyp/ClawMeter/repository"
)

// tickCmd schedules the next refresh. gen ties the tick to the refresh that
// scheduled it so manual refreshes don't stack timers.
func tickCmd(d time.Duration, gen int) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, gen: gen}
	})
}

// refreshCmd queries ccusage through the monitor off the update loop
func refreshCmd(ctx context.Context, monitor *repository.Monitor) tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg{Snapshot: monitor.Refresh(ctx)}
	}
}
