package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/penwyp/ClawMeter/models"
)

// stderrRule maps stderr substrings to a failure reason
type stderrRule struct {
	patterns []string
	reason   FailureReason
}

// stderrRules is evaluated top-down; the first matching rule wins
var stderrRules = []stderrRule{
	{patterns: []string{"command not found", "No such file"}, reason: ReasonToolNotFound},
	{patterns: []string{"ENOENT"}, reason: ReasonNotAccessible},
	{patterns: []string{"permission", "EACCES"}, reason: ReasonPermission},
	{patterns: []string{"Claude Code", "session"}, reason: ReasonSession},
}

// ClassifyStderr returns the reason of the first rule matching stderr
func ClassifyStderr(stderr string) FailureReason {
	for _, rule := range stderrRules {
		for _, p := range rule.patterns {
			if strings.Contains(stderr, p) {
				return rule.reason
			}
		}
	}
	return ReasonUnknown
}

// ExitFailure translates a non-zero exit of `ccusage <command>`
func ExitFailure(command, stderr string, exitCode int) *UsageError {
	reason := ClassifyStderr(stderr)
	e := newError(ErrorTypeExecutionFailed, exitFailureMessage(reason, command, stderr), nil)
	e.Reason = reason
	e.Command = command
	e.Stderr = stderr
	e.ExitCode = exitCode
	e.Context["exit_code"] = exitCode
	return e
}

func exitFailureMessage(reason FailureReason, command, stderr string) string {
	switch reason {
	case ReasonToolNotFound:
		return "ccusage command not found\n\n" +
			"Installation required:\n" +
			"  1. Install ccusage globally: npm install -g ccusage\n" +
			"  2. Verify the installation: ccusage --version\n" +
			"  3. Refresh\n\n" +
			"Using yarn or pnpm: yarn global add ccusage / pnpm add -g ccusage"
	case ReasonNotAccessible:
		return "Node.js or ccusage not accessible\n\n" +
			"This usually means Node.js or ccusage is not installed, or PATH does not include them.\n\n" +
			"Quick fix:\n" +
			"  1. Install Node.js: https://nodejs.org\n" +
			"  2. Install ccusage: npm install -g ccusage\n" +
			"  3. Refresh\n\n" +
			"Error: " + stderr
	case ReasonPermission:
		return "Permission denied\n\n" +
			"ccusage execution was blocked by file permissions.\n\n" +
			"Solutions:\n" +
			"  1. Use a Node version manager (nvm, fnm, volta); no sudo required\n" +
			"  2. Fix npm permissions: npm config set prefix ~/.npm-global\n" +
			"  3. Reinstall with sudo (not recommended): sudo npm install -g ccusage\n\n" +
			"Error: " + stderr
	case ReasonSession:
		return "Claude Code session issue\n\n" +
			"ccusage can't access Claude data. Check that:\n" +
			"  1. Claude Code is installed\n" +
			"  2. You have used Claude recently and are logged in\n" +
			"  3. Use Claude once, then refresh\n\n" +
			fmt.Sprintf("ccusage %s error: %s", command, stderr)
	default:
		return fmt.Sprintf("ccusage %s command failed\n\n", command) +
			"Troubleshooting:\n" +
			"  1. Update ccusage: npm update -g ccusage\n" +
			"  2. Check the version: ccusage --version\n" +
			fmt.Sprintf("  3. Run it manually: ccusage %s --json\n", command) +
			"  4. Reinstall: npm uninstall -g ccusage && npm install -g ccusage\n\n" +
			"Raw error: " + stderr
	}
}

// StartFailure translates an error raised before ccusage could run. Whether
// a path is a bare fallback name decides between "not installed" and
// "broken install".
func StartFailure(paths models.ResolvedPaths, command string, cause error) *UsageError {
	var e *UsageError

	switch {
	case isNotFound(cause):
		switch {
		case paths.ToolIsFallback():
			e = newError(ErrorTypeExecutionNotFound, toolMissingMessage(), cause)
			e.Component = ComponentTool
		case paths.RuntimeIsFallback():
			e = newError(ErrorTypeExecutionNotFound, runtimeMissingMessage(), cause)
			e.Component = ComponentRuntime
		default:
			e = newError(ErrorTypeExecutionFailed, brokenInstallMessage(paths, cause), cause)
			e.Reason = ReasonBrokenInstall
		}
	case stderrors.Is(cause, fs.ErrPermission):
		e = newError(ErrorTypePermission, permissionMessage(paths, cause), cause)
	default:
		e = newError(ErrorTypeExecutionFailed, unexpectedMessage(paths, cause), cause)
		e.Reason = ReasonUnknown
	}

	e.Command = command
	e.Context["runtime_path"] = paths.RuntimePath
	e.Context["tool_path"] = paths.ToolPath
	return e
}

// Timeout reports that ccusage was killed after exceeding its time budget
func Timeout(command string, cause error) *UsageError {
	e := newError(ErrorTypeTimeout,
		fmt.Sprintf("ccusage %s did not respond in time and was stopped\n\n", command)+
			"Try running it manually to check for prompts or hangs:\n"+
			fmt.Sprintf("  ccusage %s --json\n\n", command)+
			fmt.Sprintf("Error details: %v", cause), cause)
	e.Command = command
	e.RecoveryHint = "Increase runner.timeout in the configuration"
	return e
}

func isNotFound(err error) bool {
	return stderrors.Is(err, exec.ErrNotFound) || stderrors.Is(err, fs.ErrNotExist)
}

func toolMissingMessage() string {
	return "ccusage not found\n\n" +
		"ccusage is required to read Claude usage:\n" +
		"  1. Install it globally: npm install -g ccusage\n" +
		"  2. Or with yarn: yarn global add ccusage\n" +
		"  3. Or with pnpm: pnpm add -g ccusage\n" +
		"  4. Make sure ccusage is on your PATH\n" +
		"  5. Restart after installation\n\n" +
		"Alternative: set CCUSAGE_PATH to a custom installation path"
}

func runtimeMissingMessage() string {
	return "Node.js not found\n\n" +
		"ccusage needs Node.js:\n" +
		"  1. Install Node.js from https://nodejs.org\n" +
		"  2. Or with Homebrew: brew install node\n" +
		"  3. Or with a version manager: nvm, fnm or volta\n" +
		"  4. Then install ccusage: npm install -g ccusage\n\n" +
		"Alternative: set NODE_PATH to a custom Node.js path"
}

func brokenInstallMessage(paths models.ResolvedPaths, cause error) string {
	return "Command execution failed\n\n" +
		"Detected paths:\n" +
		fmt.Sprintf("  Node.js: %s\n", paths.RuntimePath) +
		fmt.Sprintf("  ccusage: %s\n\n", paths.ToolPath) +
		"Troubleshooting:\n" +
		fmt.Sprintf("  1. Verify Node.js: %s --version\n", paths.RuntimePath) +
		fmt.Sprintf("  2. Verify ccusage: %s --version\n", paths.ToolPath) +
		"  3. Check file permissions\n" +
		"  4. Reinstall ccusage: npm install -g ccusage\n\n" +
		fmt.Sprintf("Error details: %v", cause)
}

func permissionMessage(paths models.ResolvedPaths, cause error) string {
	return "Permission denied\n\n" +
		"Check file permissions:\n" +
		fmt.Sprintf("  ls -la %s\n", paths.RuntimePath) +
		fmt.Sprintf("  ls -la %s\n\n", paths.ToolPath) +
		"Solutions:\n" +
		"  1. Reinstall with proper permissions: sudo npm install -g ccusage\n" +
		"  2. Or use a Node version manager (nvm, fnm, volta); no sudo required\n\n" +
		fmt.Sprintf("Error details: %v", cause)
}

func unexpectedMessage(paths models.ResolvedPaths, cause error) string {
	return "Unexpected error occurred\n\n" +
		fmt.Sprintf("  Node.js path: %s\n", paths.RuntimePath) +
		fmt.Sprintf("  ccusage path: %s\n\n", paths.ToolPath) +
		"Troubleshooting:\n" +
		"  1. Restart the application\n" +
		"  2. Reinstall ccusage: npm install -g ccusage\n" +
		"  3. Run ccusage from a terminal to see detailed errors\n\n" +
		fmt.Sprintf("Error details: %v", cause)
}
