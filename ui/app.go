package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/penwyp/ClawMeter/repository"
)

// App runs the live usage monitor
type App struct {
	program *tea.Program
	config  Config
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewApp creates a new application instance
func NewApp(ctx context.Context, monitor *repository.Monitor, cfg Config, opts ...tea.ProgramOption) *App {
	ctx, cancel := context.WithCancel(ctx)

	app := &App{
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
	}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	app.program = tea.NewProgram(NewModel(ctx, monitor, cfg), opts...)

	return app
}

// Start runs the program until the user quits or the context ends
func (a *App) Start() error {
	defer a.cancel()
	_, err := a.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
		return nil
	}
	return err
}

// Stop gracefully shuts down the application
func (a *App) Stop() {
	a.cancel()
	a.program.Quit()
}

// UpdateConfig pushes new configuration into the running program
func (a *App) UpdateConfig(cfg Config) {
	a.config = cfg
	a.program.Send(ConfigUpdateMsg{Config: cfg})
}

// IsRunning returns true if the application is currently running
func (a *App) IsRunning() bool {
	return a.ctx.Err() == nil
}
