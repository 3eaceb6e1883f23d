package cmd

import (
	"fmt"
	"os"

	"github.com/penwyp/ClawMeter/output"
	"github.com/spf13/cobra"
)

var pathsJSON bool

type pathsReport struct {
	RuntimePath       string   `json:"runtime_path"`
	ToolPath          string   `json:"tool_path"`
	RuntimeSource     string   `json:"runtime_source"`
	ToolSource        string   `json:"tool_source"`
	RuntimeCandidates []string `json:"runtime_candidates"`
	ToolCandidates    []string `json:"tool_candidates"`
}

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show which node and ccusage executables would be used",
	Long: `Resolve the Node.js and ccusage executables the same way the other commands
do and list every candidate location that was considered.

Override variables (NODE_PATH, CCUSAGE_PATH by default) and configured extra
paths are checked before the built-in locations.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := current.repo.Paths()
		runtimeCandidates := current.locator.RuntimeCandidates()
		toolCandidates := current.locator.ToolCandidates()

		if pathsJSON {
			return output.WriteJSON(os.Stdout, pathsReport{
				RuntimePath:       paths.RuntimePath,
				ToolPath:          paths.ToolPath,
				RuntimeSource:     string(paths.RuntimeSource),
				ToolSource:        string(paths.ToolSource),
				RuntimeCandidates: runtimeCandidates,
				ToolCandidates:    toolCandidates,
			})
		}

		fmt.Println(current.formatter.FormatPaths(paths, runtimeCandidates, toolCandidates))
		return nil
	},
}

func init() {
	pathsCmd.Flags().BoolVar(&pathsJSON, "json", false, "print JSON instead of text")
	rootCmd.AddCommand(pathsCmd)
}
