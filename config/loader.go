package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/penwyp/ClawMeter/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Source represents a configuration source
type Source interface {
	Name() string
	Load() (*Config, error)
	Priority() int
}

// Validator validates configuration
type Validator interface {
	Validate(cfg *Config) error
}

// Merger merges configurations from multiple sources
type Merger interface {
	Merge(base, override *Config) *Config
}

// Loader loads configuration from multiple sources
type Loader struct {
	sources    []Source
	validators []Validator
	merger     Merger
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		sources:    make([]Source, 0),
		validators: make([]Validator, 0),
		merger:     &DefaultMerger{},
	}
}

// AddSource adds a configuration source
func (l *Loader) AddSource(source Source) {
	l.sources = append(l.sources, source)
}

// AddValidator adds a configuration validator
func (l *Loader) AddValidator(validator Validator) {
	l.validators = append(l.validators, validator)
}

// SetMerger sets the configuration merger
func (l *Loader) SetMerger(merger Merger) {
	l.merger = merger
}

// LoadWithDefaults layers every source over DefaultConfig, lowest priority
// value first. A source that fails to load is skipped.
func (l *Loader) LoadWithDefaults() (*Config, error) {
	sort.SliceStable(l.sources, func(i, j int) bool {
		return l.sources[i].Priority() < l.sources[j].Priority()
	})

	config := DefaultConfig()
	for _, source := range l.sources {
		cfg, err := source.Load()
		if err != nil {
			logging.LogDebugf("Skipping config source %s: %v", source.Name(), err)
			continue
		}
		config = l.merger.Merge(config, cfg)
	}

	for _, validator := range l.validators {
		if err := validator.Validate(config); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return config, nil
}

// FileSource loads configuration from a file
type FileSource struct {
	path   string
	format Format
}

// NewFileSource creates a new file configuration source
func NewFileSource(path string) *FileSource {
	format := FormatYAML
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		format = FormatJSON
	case ".toml":
		format = FormatTOML
	}

	return &FileSource{
		path:   path,
		format: format,
	}
}

// Name returns the source name
func (f *FileSource) Name() string {
	return fmt.Sprintf("file:%s", f.path)
}

// Priority returns the source priority (lower = applied first)
func (f *FileSource) Priority() int {
	return 100
}

// Path returns the file path with environment variables expanded
func (f *FileSource) Path() string {
	return os.ExpandEnv(f.path)
}

// Load loads configuration from the file
func (f *FileSource) Load() (*Config, error) {
	expandedPath := f.Path()

	if _, err := os.Stat(expandedPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", expandedPath)
	}

	v := viper.New()
	v.SetConfigFile(expandedPath)
	switch f.format {
	case FormatJSON:
		v.SetConfigType("json")
	case FormatTOML:
		v.SetConfigType("toml")
	default:
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", expandedPath, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config from %s: %w", expandedPath, err)
	}

	return &config, nil
}

// FindConfigFile returns the first existing path from ConfigPaths
func FindConfigFile() (string, bool) {
	for _, p := range ConfigPaths() {
		expanded := os.ExpandEnv(p)
		if _, err := os.Stat(expanded); err == nil {
			return expanded, true
		}
	}
	return "", false
}

// EnvSource loads configuration from environment variables
type EnvSource struct {
	prefix string
}

// NewEnvSource creates a new environment variable configuration source
func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{
		prefix: prefix,
	}
}

// Name returns the source name
func (e *EnvSource) Name() string {
	return fmt.Sprintf("env:%s", e.prefix)
}

// Priority returns the source priority (lower = applied first)
func (e *EnvSource) Priority() int {
	return 200
}

// Load loads configuration from environment variables such as
// CLAWMETER_RUNNER_TIMEOUT=45s or CLAWMETER_LOCATOR_EXTRA_TOOL_PATHS=/a,/b
func (e *EnvSource) Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(e.prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about
	e.setAllKeys(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config from environment: %w", err)
	}

	return &config, nil
}

// setAllKeys registers every configuration key for environment lookup
func (e *EnvSource) setAllKeys(v *viper.Viper) {
	v.SetDefault("app.name", "")
	v.SetDefault("app.log_level", "")
	v.SetDefault("app.log_file", "")
	v.SetDefault("app.timezone", "")

	v.SetDefault("locator.runtime_env", "")
	v.SetDefault("locator.tool_env", "")
	v.SetDefault("locator.runtime_name", "")
	v.SetDefault("locator.tool_name", "")
	v.SetDefault("locator.extra_runtime_paths", []string{})
	v.SetDefault("locator.extra_tool_paths", []string{})

	v.SetDefault("runner.timeout", "0s")
	v.SetDefault("runner.extra_path_dirs", []string{})

	v.SetDefault("ui.theme", "")
	v.SetDefault("ui.refresh_rate", "0s")
	v.SetDefault("ui.compact", false)

	v.SetDefault("dotenv_files", []string{})
}

// FlagSource loads configuration from command-line flags
type FlagSource struct {
	flags *pflag.FlagSet
}

// NewFlagSource creates a new flag configuration source
func NewFlagSource(flags *pflag.FlagSet) *FlagSource {
	return &FlagSource{
		flags: flags,
	}
}

// Name returns the source name
func (f *FlagSource) Name() string {
	return "flags"
}

// Priority returns the source priority (lower = applied first)
func (f *FlagSource) Priority() int {
	return 300
}

// Load reads the flags that were explicitly set on the command line
func (f *FlagSource) Load() (*Config, error) {
	config := &Config{}

	f.flags.Visit(func(flag *pflag.Flag) {
		switch flag.Name {
		case "log-level":
			config.App.LogLevel, _ = f.flags.GetString(flag.Name)
		case "log-file":
			config.App.LogFile, _ = f.flags.GetString(flag.Name)
		case "timezone":
			config.App.Timezone, _ = f.flags.GetString(flag.Name)
		case "timeout":
			config.Runner.Timeout, _ = f.flags.GetDuration(flag.Name)
		case "refresh":
			config.UI.RefreshRate, _ = f.flags.GetDuration(flag.Name)
		case "theme":
			config.UI.Theme, _ = f.flags.GetString(flag.Name)
		case "compact":
			config.UI.Compact, _ = f.flags.GetBool(flag.Name)
		case "tool-path":
			if p, err := f.flags.GetString(flag.Name); err == nil && p != "" {
				config.Locator.ExtraToolPaths = []string{p}
			}
		case "runtime-path":
			if p, err := f.flags.GetString(flag.Name); err == nil && p != "" {
				config.Locator.ExtraRuntimePaths = []string{p}
			}
		}
	})

	return config, nil
}

// DefaultMerger is the default configuration merger
type DefaultMerger struct{}

// Merge merges two configurations, with set values in override taking precedence
func (m *DefaultMerger) Merge(base, override *Config) *Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	mergeString(&result.App.Name, override.App.Name)
	mergeString(&result.App.LogLevel, override.App.LogLevel)
	mergeString(&result.App.LogFile, override.App.LogFile)
	mergeString(&result.App.Timezone, override.App.Timezone)

	mergeString(&result.Locator.RuntimeEnv, override.Locator.RuntimeEnv)
	mergeString(&result.Locator.ToolEnv, override.Locator.ToolEnv)
	mergeString(&result.Locator.RuntimeName, override.Locator.RuntimeName)
	mergeString(&result.Locator.ToolName, override.Locator.ToolName)
	mergeSlice(&result.Locator.ExtraRuntimePaths, override.Locator.ExtraRuntimePaths)
	mergeSlice(&result.Locator.ExtraToolPaths, override.Locator.ExtraToolPaths)

	if override.Runner.Timeout > 0 {
		result.Runner.Timeout = override.Runner.Timeout
	}
	mergeSlice(&result.Runner.ExtraPathDirs, override.Runner.ExtraPathDirs)

	mergeString(&result.UI.Theme, override.UI.Theme)
	if override.UI.RefreshRate > 0 {
		result.UI.RefreshRate = override.UI.RefreshRate
	}
	// false cannot be told apart from unset
	if override.UI.Compact {
		result.UI.Compact = true
	}

	mergeSlice(&result.DotEnvFiles, override.DotEnvFiles)

	return &result
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeSlice(dst *[]string, v []string) {
	if len(v) > 0 {
		*dst = append([]string(nil), v...)
	}
}

// Load builds the standard loader: configFile (or $CLAWMETER_CONFIG, or the
// first existing entry of ConfigPaths), then CLAWMETER_* variables, then
// explicitly set flags.
func Load(configFile string, flags *pflag.FlagSet) (*Config, string, error) {
	if configFile == "" {
		configFile = GetEnvWithDefault(ConfigFileEnv, "")
	}
	if configFile == "" {
		configFile, _ = FindConfigFile()
	}

	loader := NewLoader()
	if configFile != "" {
		loader.AddSource(NewFileSource(configFile))
	}
	loader.AddSource(NewEnvSource(EnvPrefix))
	if flags != nil {
		loader.AddSource(NewFlagSource(flags))
	}
	loader.AddValidator(NewStandardValidator())

	cfg, err := loader.LoadWithDefaults()
	if err != nil {
		return nil, configFile, err
	}
	return cfg, configFile, nil
}
