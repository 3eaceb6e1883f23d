package runner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/penwyp/ClawMeter/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures require a POSIX shell")
	}
}

func writeScript(t *testing.T, dir, name, body string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), mode))
	return path
}

func testRunner(timeout time.Duration) *ExecRunner {
	return New(Options{
		Timeout: timeout,
		Environ: func() []string { return []string{"PATH=/usr/bin:/bin", "HOME=/tmp"} },
	})
}

func TestRun_Success(t *testing.T) {
	skipOnWindows(t)
	tool := writeScript(t, t.TempDir(), "ccusage", `echo '{"blocks":[]}'`, 0755)

	res, err := testRunner(5*time.Second).Run(context.Background(),
		models.ResolvedPaths{ToolPath: tool, RuntimePath: "node"}, "blocks", "--json")
	require.NoError(t, err)

	assert.True(t, res.Success())
	assert.Equal(t, 0, res.ExitCode)
	assert.JSONEq(t, `{"blocks":[]}`, string(res.Stdout))
	assert.Empty(t, res.Stderr)
}

func TestRun_PassesArguments(t *testing.T) {
	skipOnWindows(t)
	tool := writeScript(t, t.TempDir(), "ccusage", `echo "$1 $2"`, 0755)

	res, err := testRunner(5*time.Second).Run(context.Background(),
		models.ResolvedPaths{ToolPath: tool}, "daily", "--json")
	require.NoError(t, err)
	assert.Equal(t, "daily --json", strings.TrimSpace(string(res.Stdout)))
}

func TestRun_NonZeroExitIsNotAnError(t *testing.T) {
	skipOnWindows(t)
	tool := writeScript(t, t.TempDir(), "ccusage", `echo "Claude Code session not found" >&2; exit 3`, 0755)

	res, err := testRunner(5*time.Second).Run(context.Background(),
		models.ResolvedPaths{ToolPath: tool}, "blocks", "--json")
	require.NoError(t, err)

	assert.False(t, res.Success())
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, string(res.Stderr), "session not found")
}

func TestRun_MissingBinary(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "ccusage")

	_, err := testRunner(5*time.Second).Run(context.Background(), models.ResolvedPaths{ToolPath: missing})
	require.Error(t, err)

	var startErr *StartError
	require.ErrorAs(t, err, &startErr)
	assert.Equal(t, missing, startErr.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestRun_BareNameNotFound(t *testing.T) {
	_, err := testRunner(5*time.Second).Run(context.Background(),
		models.ResolvedPaths{ToolPath: "ccusage-definitely-not-installed"})
	require.Error(t, err)

	var startErr *StartError
	require.ErrorAs(t, err, &startErr)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
}

func TestRun_PermissionDenied(t *testing.T) {
	skipOnWindows(t)
	tool := writeScript(t, t.TempDir(), "ccusage", `echo hi`, 0644)

	_, err := testRunner(5*time.Second).Run(context.Background(), models.ResolvedPaths{ToolPath: tool})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrPermission), "got %v", err)
}

func TestRun_TimeoutKillsProcess(t *testing.T) {
	skipOnWindows(t)
	tool := writeScript(t, t.TempDir(), "ccusage", `exec sleep 10`, 0755)

	start := time.Now()
	_, err := testRunner(200*time.Millisecond).Run(context.Background(), models.ResolvedPaths{ToolPath: tool})
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_ChildEnvironment(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	tool := writeScript(t, dir, "ccusage", `echo "$NODE_PATH"; echo "$PATH"`, 0755)
	nodeDir := filepath.Join(dir, "node-bin")

	res, err := testRunner(5*time.Second).Run(context.Background(),
		models.ResolvedPaths{ToolPath: tool, RuntimePath: filepath.Join(nodeDir, "node")})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(res.Stdout)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, filepath.Join(nodeDir, "node"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], nodeDir+string(os.PathListSeparator)), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], "/usr/bin:/bin"), lines[1])
}

func TestRun_BareNameUsesAugmentedPath(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	writeScript(t, dir, "ccusage-fixture", `echo found`, 0755)

	r := New(Options{
		Timeout:       5 * time.Second,
		ExtraPathDirs: []string{dir},
		Environ:       func() []string { return []string{"PATH=/usr/bin:/bin"} },
	})

	res, err := r.Run(context.Background(), models.ResolvedPaths{ToolPath: "ccusage-fixture", RuntimePath: "node"})
	require.NoError(t, err)
	assert.Equal(t, "found", strings.TrimSpace(string(res.Stdout)))
}

func TestRun_CancelledContext(t *testing.T) {
	skipOnWindows(t)
	tool := writeScript(t, t.TempDir(), "ccusage", `exec sleep 10`, 0755)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testRunner(5*time.Second).Run(ctx, models.ResolvedPaths{ToolPath: tool})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
