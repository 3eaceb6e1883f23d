package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/guptarohit/asciigraph"
	"github.com/penwyp/ClawMeter/calculations"
	apperrors "github.com/penwyp/ClawMeter/errors"
	"github.com/penwyp/ClawMeter/models"
)

const separatorWidth = 60

// ConsoleFormatter formats usage data for console output
type ConsoleFormatter struct {
	styles   Styles
	timezone string
	compact  bool
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(theme, timezone string, compact bool) *ConsoleFormatter {
	if timezone == "" {
		timezone = "Local"
	}
	return &ConsoleFormatter{
		styles:   NewStyles(ThemeByName(theme)),
		timezone: timezone,
		compact:  compact,
	}
}

// FormatCurrent renders a usage snapshot
func (f *ConsoleFormatter) FormatCurrent(stats models.UsageStats) string {
	var lines []string
	if !f.compact {
		lines = append(lines, f.renderHeader()...)
		lines = append(lines, "")
	}

	if stats.ActiveSession {
		lines = append(lines, f.styles.Success.Render("● Active session"))
	} else {
		lines = append(lines, f.styles.Muted.Render("○ No active session"))
	}

	lines = append(lines,
		f.row("🎯 Session", FormatNumberWithCommas(stats.CurrentTokens)+" tokens"),
		f.row("💲 Session Cost", FormatCurrency(stats.SessionCost)),
		f.row("📅 Today", FormatNumberWithCommas(stats.DailyTokens)+" tokens"),
		f.row("💰 Today Cost", FormatCurrency(stats.Cost)),
		f.row("🤖 Model", stats.Model),
	)

	if stats.HasBurnRate() {
		lines = append(lines, f.row("🔥 Burn Rate", FormatBurnRate(*stats.BurnRate)))
	} else {
		lines = append(lines, f.row("🔥 Burn Rate", f.styles.Muted.Render("n/a")))
	}

	return strings.Join(lines, "\n")
}

// FormatSummary renders an aggregated period summary
func (f *ConsoleFormatter) FormatSummary(summary models.UsagePeriodSummary) string {
	var lines []string
	if !f.compact {
		lines = append(lines, f.renderHeader()...)
		lines = append(lines, "")
	}

	lines = append(lines,
		f.styles.Title.Render(fmt.Sprintf("%s  %s → %s (%d days)",
			strings.ToUpper(summary.Period), summary.StartDate, summary.EndDate, summary.Days)),
		f.row("📊 Tokens", FormatNumberWithCommas(summary.TotalTokens)),
		f.row("💰 Cost", FormatCurrency(summary.TotalCost)),
		f.row("📈 Avg Tokens", FormatNumber(uint64(summary.AvgTokensPerDay+0.5))+"/day"),
		f.row("💵 Avg Cost", FormatCurrency(summary.AvgCostPerDay)+"/day"),
	)

	return strings.Join(lines, "\n")
}

// FormatChart plots daily token totals
func (f *ConsoleFormatter) FormatChart(points []calculations.DailyPoint, height int) string {
	if len(points) == 0 {
		return f.styles.Muted.Render("No usage data")
	}

	series := make([]float64, len(points))
	for i, p := range points {
		series[i] = float64(p.Tokens)
	}

	caption := fmt.Sprintf("tokens per day, %s → %s",
		models.FormatDate(points[0].Date), models.FormatDate(points[len(points)-1].Date))

	opts := []asciigraph.Option{
		asciigraph.Caption(caption),
		asciigraph.Precision(0),
		asciigraph.LowerBound(0),
	}
	if height > 0 {
		opts = append(opts, asciigraph.Height(height))
	}
	// a single point would render as an empty axis
	if len(series) == 1 {
		series = append(series, series[0])
	}

	return asciigraph.Plot(series, opts...)
}

// FormatError renders an error for the terminal
func (f *ConsoleFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	ue, ok := apperrors.AsUsageError(err)
	if !ok {
		return f.styles.Error.Render("Error: ") + err.Error()
	}

	lines := []string{
		f.styles.Error.Render("✗ " + errorTitle(ue)),
		"",
		ue.Error(),
	}
	if ue.RecoveryHint != "" {
		lines = append(lines, "", f.styles.Info.Render("Hint: "+ue.RecoveryHint))
	}
	return strings.Join(lines, "\n")
}

// FormatPaths renders resolved executables and the candidates that were probed
func (f *ConsoleFormatter) FormatPaths(paths models.ResolvedPaths, runtimeCandidates, toolCandidates []string) string {
	lines := []string{
		f.styles.Title.Render("Resolved executables"),
		f.row("Node.js", fmt.Sprintf("%s %s", paths.RuntimePath, f.styles.Muted.Render("("+string(paths.RuntimeSource)+")"))),
		f.row("ccusage", fmt.Sprintf("%s %s", paths.ToolPath, f.styles.Muted.Render("("+string(paths.ToolSource)+")"))),
	}

	if !f.compact {
		lines = append(lines, "", f.styles.Title.Render("Node.js candidates"))
		lines = append(lines, f.candidateLines(runtimeCandidates, paths.RuntimePath)...)
		lines = append(lines, "", f.styles.Title.Render("ccusage candidates"))
		lines = append(lines, f.candidateLines(toolCandidates, paths.ToolPath)...)
	}

	return strings.Join(lines, "\n")
}

// FormatFooter renders the refresh status line used by the monitor
func (f *ConsoleFormatter) FormatFooter(now, lastSuccess time.Time, refresh time.Duration) string {
	return f.styles.Footer.Render(fmt.Sprintf("updated %s · refresh every %s · q to quit",
		FormatAge(now, lastSuccess), refresh))
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func (f *ConsoleFormatter) renderHeader() []string {
	sparkles := "✦ ✧ ✦ ✧"
	title := "CLAUDE USAGE METER"

	return []string{
		f.styles.Title.Render(fmt.Sprintf("%s %s %s", sparkles, title, sparkles)),
		strings.Repeat("=", separatorWidth),
		f.styles.Muted.Render(fmt.Sprintf("[ ccusage | %s ]", strings.ToLower(f.timezone))),
	}
}

func (f *ConsoleFormatter) row(label, value string) string {
	return f.styles.Label.Render(label) + " " + f.styles.Value.Render(value)
}

func (f *ConsoleFormatter) candidateLines(candidates []string, chosen string) []string {
	if len(candidates) == 0 {
		return []string{f.styles.Muted.Render("  (none)")}
	}
	lines := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == chosen {
			lines = append(lines, f.styles.Success.Render("  ✓ "+c))
			continue
		}
		lines = append(lines, f.styles.Muted.Render("  · "+c))
	}
	return lines
}

func errorTitle(e *apperrors.UsageError) string {
	switch e.Type {
	case apperrors.ErrorTypeExecutionNotFound:
		return "Executable not found"
	case apperrors.ErrorTypePermission:
		return "Permission denied"
	case apperrors.ErrorTypeTimeout:
		return "Timed out"
	case apperrors.ErrorTypeMalformedResponse:
		return "Unexpected ccusage output"
	case apperrors.ErrorTypeInvalidDate:
		return "Invalid date"
	}
	if e.Reason == apperrors.ReasonBrokenInstall {
		return "Broken installation"
	}
	return "ccusage failed"
}
