package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/penwyp/ClawMeter/config"
	"github.com/penwyp/ClawMeter/logging"
	"github.com/penwyp/ClawMeter/repository"
	"github.com/penwyp/ClawMeter/ui"
	"github.com/spf13/cobra"
)

var (
	watchPeriod string
	watchConfig bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the live usage monitor",
	Long: `Start an inline terminal monitor that re-runs ccusage on every refresh.

The last successful figures stay on screen when a refresh fails. When a config
file is in use it is watched, and theme, layout and refresh changes apply
without a restart. Log lines are dropped while the monitor runs unless
app.log_file is set.

Examples:
  clawmeter watch
  clawmeter watch --period week --refresh 1m
  clawmeter watch --theme light --compact`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd, watchPeriod)
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchPeriod, "period", "p", "day", "summary period shown alongside the snapshot (day, week, month)")
	watchCmd.Flags().Duration("refresh", 0, "refresh interval (e.g. 30s, 1m)")
	watchCmd.Flags().BoolVar(&watchConfig, "watch-config", true, "apply config file changes while running")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, period string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitor := repository.NewMonitor(current.repo, period)
	app := ui.NewApp(ctx, monitor, uiConfig(current.cfg))

	if watchConfig && current.configFile != "" {
		w, err := startConfigWatcher(ctx, cmd, app)
		if err != nil {
			logging.LogWarnf("Config file changes will not be applied: %v", err)
		} else {
			defer w.Stop()
		}
	}

	logging.LogInfof("Starting monitor (period=%s, refresh=%s)", period, current.cfg.UI.RefreshRate)
	defer detachTerminalLog(current.cfg)()
	if err := app.Start(); err != nil {
		return fmt.Errorf("monitor stopped: %w", err)
	}
	return nil
}

// startConfigWatcher reloads the config file on change and pushes the UI
// settings and log level into the running monitor. Executable paths and
// runner settings only apply on restart.
func startConfigWatcher(ctx context.Context, cmd *cobra.Command, app *ui.App) (*config.Watcher, error) {
	reload := func() (*config.Config, error) {
		cfg, _, err := config.Load(current.configFile, cmd.Flags())
		return cfg, err
	}
	onChange := func(cfg *config.Config) {
		if l := logging.GetGlobalLogger(); l != nil && !debug {
			l.SetLevel(logging.ParseLevel(cfg.App.LogLevel))
		}
		logging.LogInfof("Configuration reloaded from %s", current.configFile)
		if ctx.Err() == nil {
			app.UpdateConfig(uiConfig(cfg))
		}
	}

	w, err := config.NewWatcher(current.configFile, current.cfg, reload, onChange)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}

// detachTerminalLog silences a logger that writes to the terminal so log
// lines do not draw over the monitor. The returned func restores it.
func detachTerminalLog(cfg *config.Config) func() {
	l := logging.GetGlobalLogger()
	if l == nil || cfg.App.LogFile != "" {
		return func() {}
	}
	prev := l.Writer()
	l.SetOutput(io.Discard)
	return func() { l.SetOutput(prev) }
}

func uiConfig(cfg *config.Config) ui.Config {
	return ui.Config{
		RefreshRate: cfg.UI.RefreshRate,
		Theme:       cfg.UI.Theme,
		Timezone:    cfg.App.Timezone,
		Compact:     cfg.UI.Compact,
	}
}
