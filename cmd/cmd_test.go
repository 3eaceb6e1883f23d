package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/ClawMeter/config"
	"github.com/penwyp/ClawMeter/logging"
	"github.com/penwyp/ClawMeter/models"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
}

func testCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	addGlobalFlags(c.Flags())
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestNewSession_WiresConfiguredPaths(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "bin", "ccusage")
	node := filepath.Join(dir, "bin", "node")
	touch(t, tool)
	touch(t, node)

	cfgPath := filepath.Join(dir, "clawmeter.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"locator:\n  extra_tool_paths: ["+tool+"]\nui:\n  theme: light\ndotenv_files: []\n"), 0o644))

	t.Setenv(models.DefaultToolEnv, "")
	t.Setenv(models.DefaultRuntimeEnv, "")
	c := testCommand(t, "--config="+cfgPath, "--runtime-path="+node, "--timezone=UTC")
	t.Cleanup(func() { cfgFile = "" })

	s, err := newSession(c)
	require.NoError(t, err)

	assert.Equal(t, cfgPath, s.configFile)
	assert.Equal(t, "light", s.cfg.UI.Theme)
	assert.Equal(t, "UTC", s.cfg.App.Timezone)

	paths := s.repo.Paths()
	assert.Equal(t, tool, paths.ToolPath)
	assert.Equal(t, models.SourceConfig, paths.ToolSource)
	assert.Equal(t, node, paths.RuntimePath)
	assert.Equal(t, models.SourceConfig, paths.RuntimeSource)
}

func TestNewSession_InvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "clawmeter.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ui:\n  theme: neon\n"), 0o644))
	c := testCommand(t, "--config="+cfgPath)
	t.Cleanup(func() { cfgFile = "" })

	_, err := newSession(c)
	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestUIConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.UI.RefreshRate = 45 * time.Second
	cfg.UI.Compact = true
	cfg.App.Timezone = "UTC"

	got := uiConfig(cfg)
	assert.Equal(t, 45*time.Second, got.RefreshRate)
	assert.Equal(t, "dark", got.Theme)
	assert.Equal(t, "UTC", got.Timezone)
	assert.True(t, got.Compact)
}

func TestDetachTerminalLog(t *testing.T) {
	prev := logging.GetGlobalLogger()
	t.Cleanup(func() { logging.SetGlobalLogger(prev) })

	var buf bytes.Buffer
	logging.SetGlobalLogger(logging.NewLogger(logging.LevelWarn, &buf))

	restore := detachTerminalLog(config.DefaultConfig())
	logging.LogWarnf("Refresh failed: %s", "timeout")
	assert.Empty(t, buf.String())

	restore()
	logging.LogWarnf("after monitor")
	assert.Contains(t, buf.String(), "[WARN] after monitor")
}

func TestDetachTerminalLog_KeepsLogFile(t *testing.T) {
	prev := logging.GetGlobalLogger()
	t.Cleanup(func() { logging.SetGlobalLogger(prev) })

	var buf bytes.Buffer
	logging.SetGlobalLogger(logging.NewLogger(logging.LevelWarn, &buf))

	cfg := config.DefaultConfig()
	cfg.App.LogFile = filepath.Join(t.TempDir(), "clawmeter.log")
	defer detachTerminalLog(cfg)()
	logging.LogWarnf("still written")
	assert.Contains(t, buf.String(), "still written")
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"current", "summary", "watch", "paths", "version"})
}
