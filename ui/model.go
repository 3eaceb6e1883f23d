package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/penwyp/ClawMeter/models"
	"github.com/penwyp/ClawMeter/output"
	"github.com/penwyp/ClawMeter/repository"
)

// Config holds UI configuration
type Config struct {
	RefreshRate time.Duration
	Theme       string
	Timezone    string
	Compact     bool
}

// DefaultConfig is the UI configuration used when none is supplied
var DefaultConfig = Config{
	RefreshRate: models.DefaultRefreshInterval,
	Theme:       "dark",
	Timezone:    "Local",
}

// Model is the state of the live usage monitor
type Model struct {
	ctx     context.Context
	monitor *repository.Monitor

	snapshot   repository.Snapshot
	loading    bool
	refreshing bool
	gen        int
	width      int

	formatter *output.ConsoleFormatter
	keys      KeyMap
	help      help.Model
	spinner   spinner.Model
	config    Config
	now       func() time.Time
}

// NewModel creates a monitor model backed by monitor
func NewModel(ctx context.Context, monitor *repository.Monitor, cfg Config) Model {
	if cfg.RefreshRate <= 0 {
		cfg.RefreshRate = DefaultConfig.RefreshRate
	}

	m := Model{
		ctx:     ctx,
		monitor: monitor,
		loading: true,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		now:     time.Now,
	}
	m.applyConfig(cfg)
	return m
}

// Init starts the spinner and the first refresh
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		refreshCmd(m.ctx, m.monitor),
	)
}

// Snapshot returns the last refresh outcome shown by the model
func (m Model) Snapshot() repository.Snapshot {
	return m.snapshot
}

// Config returns the active UI configuration
func (m Model) Config() Config {
	return m.config
}

func (m *Model) applyConfig(cfg Config) {
	m.config = cfg
	m.formatter = output.NewConsoleFormatter(cfg.Theme, cfg.Timezone, cfg.Compact)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(output.ThemeByName(cfg.Theme).Primary)
	m.spinner = s
}
