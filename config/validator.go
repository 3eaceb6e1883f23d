package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/ClawMeter/logging"
	"github.com/penwyp/ClawMeter/models"
)

// ValidationRule represents a single custom validation rule
type ValidationRule struct {
	Field   string
	Check   func(cfg *Config) error
	Message string
}

// StandardValidator provides standard configuration validation
type StandardValidator struct {
	rules []ValidationRule
}

// NewStandardValidator creates a new standard validator
func NewStandardValidator() *StandardValidator {
	return &StandardValidator{
		rules: make([]ValidationRule, 0),
	}
}

// AddRule adds a custom validation rule
func (v *StandardValidator) AddRule(rule ValidationRule) {
	v.rules = append(v.rules, rule)
}

// Validate validates the entire configuration
func (v *StandardValidator) Validate(cfg *Config) error {
	var errors []string

	if err := v.validateApp(&cfg.App); err != nil {
		errors = append(errors, fmt.Sprintf("app: %v", err))
	}
	if err := v.validateLocator(&cfg.Locator); err != nil {
		errors = append(errors, fmt.Sprintf("locator: %v", err))
	}
	if err := v.validateRunner(&cfg.Runner); err != nil {
		errors = append(errors, fmt.Sprintf("runner: %v", err))
	}
	if err := v.validateUI(&cfg.UI); err != nil {
		errors = append(errors, fmt.Sprintf("ui: %v", err))
	}

	for _, rule := range v.rules {
		if err := rule.Check(cfg); err != nil {
			msg := rule.Message
			if msg == "" {
				msg = err.Error()
			}
			errors = append(errors, fmt.Sprintf("%s: %s", rule.Field, msg))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// validateApp validates application configuration
func (v *StandardValidator) validateApp(app *AppConfig) error {
	var errors []string

	if err := ValidateLogLevel(app.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("log_level: %v", err))
	}

	if app.LogFile != "" {
		dir := filepath.Dir(app.LogFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("log_file: directory does not exist: %s", dir))
			}
		}
	}

	if app.Timezone != "" && app.Timezone != "Local" {
		if _, err := time.LoadLocation(app.Timezone); err != nil {
			errors = append(errors, fmt.Sprintf("timezone: invalid timezone: %s", app.Timezone))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}
	return nil
}

// validateLocator validates executable discovery settings
func (v *StandardValidator) validateLocator(loc *LocatorConfig) error {
	var errors []string

	for _, f := range []struct{ name, value string }{
		{"runtime_env", loc.RuntimeEnv},
		{"tool_env", loc.ToolEnv},
		{"runtime_name", loc.RuntimeName},
		{"tool_name", loc.ToolName},
	} {
		if strings.TrimSpace(f.value) == "" {
			errors = append(errors, fmt.Sprintf("%s: must not be empty", f.name))
		}
	}
	if loc.RuntimeEnv != "" && strings.ContainsAny(loc.RuntimeEnv, "= ") {
		errors = append(errors, "runtime_env: not a valid variable name")
	}
	if loc.ToolEnv != "" && strings.ContainsAny(loc.ToolEnv, "= ") {
		errors = append(errors, "tool_env: not a valid variable name")
	}

	for _, p := range append(append([]string(nil), loc.ExtraRuntimePaths...), loc.ExtraToolPaths...) {
		if _, err := os.Stat(p); err != nil {
			logging.LogWarnf("Configured executable path %s is not accessible: %v", p, err)
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}
	return nil
}

// validateRunner validates ccusage invocation settings
func (v *StandardValidator) validateRunner(r *RunnerConfig) error {
	var errors []string

	if r.Timeout < models.MinCommandTimeout {
		errors = append(errors, fmt.Sprintf("timeout: must be at least %v", models.MinCommandTimeout))
	}
	if r.Timeout > models.MaxCommandTimeout {
		errors = append(errors, fmt.Sprintf("timeout: must not exceed %v", models.MaxCommandTimeout))
	}

	for i, dir := range r.ExtraPathDirs {
		if dir == "" {
			errors = append(errors, fmt.Sprintf("extra_path_dirs %d: empty path not allowed", i))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}
	return nil
}

// validateUI validates UI configuration
func (v *StandardValidator) validateUI(ui *UIConfig) error {
	var errors []string

	if err := ValidateTheme(ui.Theme); err != nil {
		errors = append(errors, fmt.Sprintf("theme: %v", err))
	}

	if ui.RefreshRate < models.MinRefreshInterval {
		errors = append(errors, fmt.Sprintf("refresh_rate: must be at least %v", models.MinRefreshInterval))
	}
	if ui.RefreshRate > models.MaxRefreshInterval {
		errors = append(errors, fmt.Sprintf("refresh_rate: must not exceed %v", models.MaxRefreshInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}
	return nil
}

// Built-in validation functions

// ValidateTheme validates UI theme
func ValidateTheme(theme string) error {
	validThemes := map[string]bool{
		"dark":  true,
		"light": true,
	}

	if !validThemes[theme] {
		return fmt.Errorf("invalid theme: %s (valid: dark, light)", theme)
	}
	return nil
}

// ValidateLogLevel validates log level
func ValidateLogLevel(level string) error {
	if !logging.ValidLevel(level) {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error, off)", level)
	}
	return nil
}
