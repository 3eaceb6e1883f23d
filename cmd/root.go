package cmd

import (
	"fmt"
	"os"

	"github.com/penwyp/ClawMeter/config"
	"github.com/penwyp/ClawMeter/locator"
	"github.com/penwyp/ClawMeter/logging"
	"github.com/penwyp/ClawMeter/output"
	"github.com/penwyp/ClawMeter/repository"
	"github.com/penwyp/ClawMeter/runner"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cfgFile string
	debug   bool
	verbose bool
)

// session holds everything built from the loaded configuration for one
// command invocation
type session struct {
	cfg        *config.Config
	configFile string
	locator    *locator.Locator
	repo       *repository.CcusageRepository
	formatter  *output.ConsoleFormatter
}

var current *session

var rootCmd = &cobra.Command{
	Use:   "clawmeter",
	Short: "Claude usage meter backed by ccusage",
	Long: `clawmeter reports Claude token usage and costs by running the ccusage CLI.

It locates Node.js and ccusage on this machine, runs "ccusage blocks --json" and
"ccusage daily --json", and turns the output into a current snapshot or a
day, week or month summary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		current = s
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd, watchPeriod)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		f := output.NewConsoleFormatter("dark", "", true)
		if current != nil {
			f = current.formatter
		}
		fmt.Fprintln(os.Stderr, f.FormatError(err))
	}
	return err
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	addGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.Flags().StringVarP(&watchPeriod, "period", "p", "day", "summary period shown by the monitor (day, week, month)")
	rootCmd.Flags().Duration("refresh", 0, "refresh interval (e.g. 30s, 1m)")
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.StringVar(&cfgFile, "config", "", "config file (default searches ./clawmeter.yaml, ~/.config/clawmeter/config.yaml)")
	fs.String("log-level", "warn", "log level (debug, info, warn, error)")
	fs.String("log-file", "", "write logs to this file instead of stderr")
	fs.String("timezone", "", "IANA timezone used to decide today's date (default Local)")
	fs.Duration("timeout", 0, "time limit for each ccusage invocation (e.g. 30s)")
	fs.String("tool-path", "", "explicit path to the ccusage executable")
	fs.String("runtime-path", "", "explicit path to the node executable")
	fs.String("theme", "", "color theme (dark, light)")
	fs.Bool("compact", false, "compact output")
	fs.BoolVar(&debug, "debug", false, "enable debug logging")
	fs.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newSession loads the configuration and wires the data path
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, used, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// .env files may carry NODE_PATH, CCUSAGE_PATH or CLAWMETER_* overrides
	loaded, err := config.LoadDotEnv(cfg.DotEnvFiles)
	if err != nil {
		return nil, err
	}
	if len(loaded) > 0 {
		if cfg, used, err = config.Load(cfgFile, cmd.Flags()); err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	if err := logging.InitLogger(cfg.App.LogLevel, cfg.App.LogFile, debug); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	for _, f := range loaded {
		logging.LogDebugf("Loaded environment from %s", f)
	}
	if verbose {
		if used != "" {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", used)
		}
		for _, f := range loaded {
			fmt.Fprintf(os.Stderr, "Loaded environment file: %s\n", f)
		}
	}

	loc := newLocator(cfg)
	return &session{
		cfg:        cfg,
		configFile: used,
		locator:    loc,
		repo:       newRepository(cfg, loc),
		formatter:  output.NewConsoleFormatter(cfg.UI.Theme, cfg.App.Timezone, cfg.UI.Compact),
	}, nil
}

func newLocator(cfg *config.Config) *locator.Locator {
	return locator.New(locator.Options{
		RuntimeName:       cfg.Locator.RuntimeName,
		ToolName:          cfg.Locator.ToolName,
		RuntimeEnv:        cfg.Locator.RuntimeEnv,
		ToolEnv:           cfg.Locator.ToolEnv,
		ExtraRuntimePaths: config.ExpandPaths(cfg.Locator.ExtraRuntimePaths),
		ExtraToolPaths:    config.ExpandPaths(cfg.Locator.ExtraToolPaths),
	})
}

func newRepository(cfg *config.Config, loc *locator.Locator) *repository.CcusageRepository {
	return repository.New(repository.Options{
		Resolver: loc,
		Runner: runner.New(runner.Options{
			Timeout:       cfg.Runner.Timeout,
			ExtraPathDirs: config.ExpandPaths(cfg.Runner.ExtraPathDirs),
			RuntimeEnv:    cfg.Locator.RuntimeEnv,
		}),
		Location: cfg.App.Location(),
	})
}
