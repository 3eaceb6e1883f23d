package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/penwyp/ClawMeter/config"
	"github.com/penwyp/ClawMeter/locator"
	"github.com/penwyp/ClawMeter/models"
	"github.com/penwyp/ClawMeter/output"
	"github.com/spf13/cobra"
)

var (
	versionOutput string
	versionShort  bool
)

// Version information set by linker during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

type VersionInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`

	// Executables found with the default search, no config applied
	NodePath      string            `json:"node_path"`
	NodeSource    models.PathSource `json:"node_source"`
	CcusagePath   string            `json:"ccusage_path"`
	CcusageSource models.PathSource `json:"ccusage_source"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display the clawmeter build, the Go runtime and the Node.js and ccusage
executables a default search would pick.

The search honors NODE_PATH and CCUSAGE_PATH but ignores the config file; use
"clawmeter paths" to see the configured result.`,
	// version needs no configuration
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionShort {
			versionOutput = "short"
		}
		var info VersionInfo
		if versionOutput == "short" {
			info = buildVersionInfo(nil)
		} else {
			info = buildVersionInfo(newLocator(config.DefaultConfig()))
		}
		return writeVersion(os.Stdout, info, versionOutput)
	},
}

func init() {
	versionCmd.Flags().StringVarP(&versionOutput, "output", "o", "default", "output format (default, json, short)")
	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false, "show only version number")

	rootCmd.AddCommand(versionCmd)
}

// buildVersionInfo collects build details. A nil resolver skips executable
// detection.
func buildVersionInfo(r locator.Resolver) VersionInfo {
	info := VersionInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
	if r != nil {
		paths := r.Resolve()
		info.NodePath, info.NodeSource = paths.RuntimePath, paths.RuntimeSource
		info.CcusagePath, info.CcusageSource = paths.ToolPath, paths.ToolSource
	}
	return info
}

func writeVersion(w io.Writer, info VersionInfo, format string) error {
	switch format {
	case "json":
		return output.WriteJSON(w, info)
	case "short":
		_, err := fmt.Fprintln(w, info.Version)
		return err
	}

	fmt.Fprintf(w, "ClawMeter - Claude usage meter backed by ccusage\n")
	fmt.Fprintf(w, "Version:     %s\n", info.Version)
	if info.GitCommit != "unknown" {
		fmt.Fprintf(w, "Git Commit:  %s\n", info.GitCommit)
	}
	if info.BuildTime != "unknown" {
		fmt.Fprintf(w, "Build Time:  %s\n", info.BuildTime)
	}
	fmt.Fprintf(w, "Go Version:  %s\n", info.GoVersion)
	fmt.Fprintf(w, "OS/Arch:     %s/%s\n", info.OS, info.Arch)
	fmt.Fprintf(w, "Node.js:     %s (%s)\n", info.NodePath, info.NodeSource)
	fmt.Fprintf(w, "ccusage:     %s (%s)\n", info.CcusagePath, info.CcusageSource)
	if info.CcusageSource == models.SourceFallback {
		fmt.Fprintln(w, "             not found in any known location, relying on PATH")
	}
	return nil
}
