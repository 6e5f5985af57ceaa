package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorPurple  = lipgloss.AdaptiveColor{Dark: "#B794F4", Light: "#6B46C1"}
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorPurple).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps content panels such as the clip card.
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
	Foreground(ColorPurple).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorPurple)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// TabStyle and ActiveTabStyle render the trending/best feed tabs.
var TabStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Padding(0, 2)

var ActiveTabStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorPurple).
	Padding(0, 2)

// CompletedStyle marks finished tasks and subtasks.
var CompletedStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// OpenTaskStyle marks unfinished tasks and subtasks.
var OpenTaskStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// ErrorStyle renders failure notifications.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// SuccessStyle renders success notifications.
var SuccessStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// StreamStatusStyle returns a color-coded style for the given stream
// status text.
func StreamStatusStyle(status string) lipgloss.Style {
	switch status {
	case "online":
		return lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)
	case "offline":
		return lipgloss.NewStyle().Foreground(ColorGray)
	default:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	}
}
