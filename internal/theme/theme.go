package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// ErrorBarStyle replaces StatusBarStyle while an error is shown.
var ErrorBarStyle = StatusBarStyle.
	Background(ColorRed)

// ActiveTabStyle and InactiveTabStyle render the tab bar in the header.
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBlue).
			Background(ColorWhite).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(ColorWhite).
				Background(ColorBlue).
				Padding(0, 1)
)

// PanelStyle wraps a bordered content area.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DimmedStyle renders completed items.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// DescriptionStyle renders the optional second line of a task.
var DescriptionStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	PaddingLeft(4)

// DueDateStyle and OverdueStyle render due dates.
var (
	DueDateStyle = lipgloss.NewStyle().Foreground(ColorYellow)
	OverdueStyle = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
)

// TitleStyle renders a view title above its content.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginBottom(1)

// Calendar cell styles.
var (
	DayStyle = lipgloss.NewStyle().
			Width(4).
			Align(lipgloss.Right)

	WeekdayStyle = DayStyle.
			Foreground(ColorGray)

	OutsideMonthStyle = DayStyle.
				Foreground(ColorSubtle)

	TodayStyle = DayStyle.
			Foreground(ColorGreen).
			Bold(true)

	SelectedDayStyle = DayStyle.
				Foreground(ColorWhite).
				Background(ColorBlue).
				Bold(true)

	DueMarkerStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)
)

// TimerStyle renders the pomodoro countdown; TimerRunningStyle while it runs.
var (
	TimerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGreen)

	TimerRunningStyle = TimerStyle.
				Foreground(ColorRed)
)

// CheckMark returns the completion glyph for a task.
func CheckMark(done bool) string {
	if done {
		return lipgloss.NewStyle().Foreground(ColorGreen).Render("●")
	}
	return "○"
}
