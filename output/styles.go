package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme used by terminal output
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color
	Muted     lipgloss.Color
	Border    lipgloss.Color
	Highlight lipgloss.Color
}

// Styles contains the styled components shared by the CLI and the monitor
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Panel   lipgloss.Style
	Footer  lipgloss.Style
}

// DarkTheme returns a dark color theme
func DarkTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Secondary: lipgloss.Color("#6366F1"), // Indigo
		Success:   lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#EF4444"), // Red
		Info:      lipgloss.Color("#3B82F6"), // Blue
		Muted:     lipgloss.Color("#9CA3AF"), // Gray-400
		Border:    lipgloss.Color("#374151"), // Gray-700
		Highlight: lipgloss.Color("#FCD34D"), // Yellow-300
	}
}

// LightTheme returns a light color theme
func LightTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Secondary: lipgloss.Color("#6366F1"), // Indigo
		Success:   lipgloss.Color("#059669"), // Green-600
		Warning:   lipgloss.Color("#D97706"), // Amber-600
		Error:     lipgloss.Color("#DC2626"), // Red-600
		Info:      lipgloss.Color("#2563EB"), // Blue-600
		Muted:     lipgloss.Color("#6B7280"), // Gray-500
		Border:    lipgloss.Color("#D1D5DB"), // Gray-300
		Highlight: lipgloss.Color("#CA8A04"), // Yellow-600
	}
}

// ThemeByName returns the named theme, dark when unknown
func ThemeByName(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}

// NewStyles creates styles based on a theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Width(16),

		Value: lipgloss.NewStyle().
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(theme.Info),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),
	}
}
