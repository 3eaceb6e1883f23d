package config

import (
	"time"

	"github.com/penwyp/ClawMeter/models"
)

// Config represents the complete application configuration
type Config struct {
	// Application
	App AppConfig `yaml:"app" json:"app" mapstructure:"app"`

	// Executable discovery
	Locator LocatorConfig `yaml:"locator" json:"locator" mapstructure:"locator"`

	// ccusage invocation
	Runner RunnerConfig `yaml:"runner" json:"runner" mapstructure:"runner"`

	// User Interface
	UI UIConfig `yaml:"ui" json:"ui" mapstructure:"ui"`

	// .env files loaded before executables are resolved
	DotEnvFiles []string `yaml:"dotenv_files" json:"dotenv_files" mapstructure:"dotenv_files"`
}

// AppConfig contains general application settings
type AppConfig struct {
	Name     string `yaml:"name" json:"name" mapstructure:"name"`
	LogLevel string `yaml:"log_level" json:"log_level" mapstructure:"log_level"`
	LogFile  string `yaml:"log_file" json:"log_file" mapstructure:"log_file"`
	Timezone string `yaml:"timezone" json:"timezone" mapstructure:"timezone"`
}

// Location returns the configured timezone, falling back to the local zone
func (a AppConfig) Location() *time.Location {
	if a.Timezone == "" || a.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LocatorConfig controls how node and ccusage are found
type LocatorConfig struct {
	RuntimeEnv        string   `yaml:"runtime_env" json:"runtime_env" mapstructure:"runtime_env"`
	ToolEnv           string   `yaml:"tool_env" json:"tool_env" mapstructure:"tool_env"`
	RuntimeName       string   `yaml:"runtime_name" json:"runtime_name" mapstructure:"runtime_name"`
	ToolName          string   `yaml:"tool_name" json:"tool_name" mapstructure:"tool_name"`
	ExtraRuntimePaths []string `yaml:"extra_runtime_paths" json:"extra_runtime_paths" mapstructure:"extra_runtime_paths"`
	ExtraToolPaths    []string `yaml:"extra_tool_paths" json:"extra_tool_paths" mapstructure:"extra_tool_paths"`
}

// RunnerConfig controls ccusage execution
type RunnerConfig struct {
	Timeout       time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`
	ExtraPathDirs []string      `yaml:"extra_path_dirs" json:"extra_path_dirs" mapstructure:"extra_path_dirs"`
}

// UIConfig contains user interface settings
type UIConfig struct {
	Theme       string        `yaml:"theme" json:"theme" mapstructure:"theme"`
	RefreshRate time.Duration `yaml:"refresh_rate" json:"refresh_rate" mapstructure:"refresh_rate"`
	Compact     bool          `yaml:"compact" json:"compact" mapstructure:"compact"`
}

// Format represents configuration file format
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
	FormatTOML
)

// ConfigPaths returns the default configuration file paths in order of precedence
func ConfigPaths() []string {
	return []string{
		"./clawmeter.yaml",
		"$HOME/.config/clawmeter/config.yaml",
		"$HOME/.clawmeter/config.yaml",
		"/etc/clawmeter/config.yaml",
	}
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:     "ClawMeter",
			LogLevel: "warn",
			Timezone: "Local",
		},
		Locator: LocatorConfig{
			RuntimeEnv:  models.DefaultRuntimeEnv,
			ToolEnv:     models.DefaultToolEnv,
			RuntimeName: models.DefaultRuntimeName,
			ToolName:    models.DefaultToolName,
		},
		Runner: RunnerConfig{
			Timeout: models.DefaultCommandTimeout,
		},
		UI: UIConfig{
			Theme:       "dark",
			RefreshRate: models.DefaultRefreshInterval,
		},
		DotEnvFiles: []string{".env"},
	}
}
