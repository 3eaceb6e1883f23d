package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/penwyp/ClawMeter/logging"
	"github.com/penwyp/ClawMeter/repository"
)

// TickMsg triggers a scheduled refresh
type TickMsg struct {
	Time time.Time
	gen  int
}

// SnapshotMsg carries the outcome of a refresh
type SnapshotMsg struct {
	Snapshot repository.Snapshot
}

// ConfigUpdateMsg carries updated configuration
type ConfigUpdateMsg struct {
	Config Config
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m.startRefresh()
		case key.Matches(msg, m.keys.Compact):
			cfg := m.config
			cfg.Compact = !cfg.Compact
			m.applyConfig(cfg)
			return m, m.spinner.Tick
		}
		return m, nil

	case TickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m.startRefresh()

	case SnapshotMsg:
		m.snapshot = msg.Snapshot
		m.loading = false
		m.refreshing = false
		if msg.Snapshot.Err != nil {
			logging.LogWarnf("Refresh failed: %v", msg.Snapshot.Err)
		}
		m.gen++
		return m, tickCmd(m.config.RefreshRate, m.gen)

	case ConfigUpdateMsg:
		if msg.Config.RefreshRate <= 0 {
			msg.Config.RefreshRate = m.config.RefreshRate
		}
		rescheduled := msg.Config.RefreshRate != m.config.RefreshRate
		m.applyConfig(msg.Config)
		cmds := []tea.Cmd{m.spinner.Tick}
		if rescheduled && !m.refreshing && !m.loading {
			m.gen++
			cmds = append(cmds, tickCmd(m.config.RefreshRate, m.gen))
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) startRefresh() (tea.Model, tea.Cmd) {
	if m.refreshing {
		return m, nil
	}
	m.refreshing = true
	return m, refreshCmd(m.ctx, m.monitor)
}

// View renders the monitor
func (m Model) View() string {
	if m.loading {
		return m.spinner.View() + " Querying ccusage...\n"
	}

	var b strings.Builder
	snap := m.snapshot

	if !snap.LastSuccess.IsZero() {
		b.WriteString(m.formatter.FormatCurrent(snap.Stats))
		b.WriteString("\n\n")
		b.WriteString(m.formatter.FormatSummary(snap.Summary))
		b.WriteString("\n")
	}
	if snap.Err != nil {
		b.WriteString("\n")
		b.WriteString(m.formatter.FormatError(snap.Err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.refreshing {
		b.WriteString(m.spinner.View() + " ")
	}
	b.WriteString(m.formatter.FormatFooter(m.now(), snap.LastSuccess, m.config.RefreshRate))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}
