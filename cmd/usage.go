package cmd

import (
	"fmt"
	"os"

	"github.com/penwyp/ClawMeter/calculations"
	"github.com/penwyp/ClawMeter/models"
	"github.com/penwyp/ClawMeter/output"
	"github.com/penwyp/ClawMeter/repository"
	"github.com/spf13/cobra"
)

var (
	currentJSON  bool
	summaryJSON  bool
	summaryChart bool
	chartHeight  int
)

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the current session and today's usage",
	Long: `Run "ccusage blocks" and "ccusage daily" once and print a snapshot of the
active session (if any) and today's totals.

Examples:
  clawmeter current
  clawmeter current --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := repository.GetCurrentUsage(cmd.Context(), current.repo)
		if err != nil {
			return err
		}

		if currentJSON {
			return output.WriteJSON(os.Stdout, stats)
		}
		fmt.Println(current.formatter.FormatCurrent(stats))
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary [day|week|month]",
	Short: "Summarize usage over a day, week or month",
	Long: `Aggregate "ccusage daily" over a calendar window ending today.

  day    today only
  week   the last 7 days, today included
  month  the first of the current month through today

Any other period is treated as "day".

Examples:
  clawmeter summary
  clawmeter summary week --chart
  clawmeter summary month --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		period := string(models.PeriodDay)
		if len(args) == 1 {
			period = args[0]
		}

		if !summaryChart {
			summary, err := repository.GetUsageSummary(cmd.Context(), current.repo, period)
			if err != nil {
				return err
			}
			if summaryJSON {
				return output.WriteJSON(os.Stdout, summary)
			}
			fmt.Println(current.formatter.FormatSummary(summary))
			return nil
		}

		return printSummaryWithChart(cmd, period)
	},
}

// printSummaryWithChart runs ccusage daily once and derives both the summary
// and the per-day series from it
func printSummaryWithChart(cmd *cobra.Command, period string) error {
	entries, err := current.repo.Daily(cmd.Context())
	if err != nil {
		return err
	}

	today := current.repo.Today()
	summary, err := calculations.Summarize(period, entries, today)
	if err != nil {
		return err
	}
	window, err := calculations.Window(models.ParsePeriod(period), today)
	if err != nil {
		return err
	}
	points := calculations.DailySeries(entries, window)

	if summaryJSON {
		return output.WriteJSON(os.Stdout, struct {
			models.UsagePeriodSummary
			Daily []calculations.DailyPoint `json:"daily"`
		}{summary, points})
	}

	fmt.Println(current.formatter.FormatSummary(summary))
	fmt.Println()
	fmt.Println(current.formatter.FormatChart(points, chartHeight))
	return nil
}

func init() {
	currentCmd.Flags().BoolVar(&currentJSON, "json", false, "print JSON instead of text")

	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "print JSON instead of text")
	summaryCmd.Flags().BoolVar(&summaryChart, "chart", false, "plot daily token totals")
	summaryCmd.Flags().IntVar(&chartHeight, "height", 10, "chart height in rows")

	rootCmd.AddCommand(currentCmd, summaryCmd)
}
