package tui

import "github.com/charmbracelet/lipgloss"

// Dashboard color palette.
const (
	primaryColor   = "#E5484D" // Tomato
	secondaryColor = "#10B981" // Green
	warningColor   = "#F59E0B" // Amber
	errorColor     = "#EF4444" // Red
	dimColor       = "#6B7280" // Gray
)

// Style variables for consistent rendering across tabs.
var (
	// BoxStyle provides a rounded border box with primary color.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(primaryColor)).
			Padding(1, 2)

	// TitleStyle renders titles in primary color with bold.
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	// ClockStyle renders the countdown readout.
	ClockStyle = lipgloss.NewStyle().
			Bold(true)

	// DimStyle renders dim/muted text.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(dimColor))

	// SuccessStyle renders completed work in green.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(secondaryColor))

	// ErrorStyle renders error messages in red.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(errorColor))

	// WarningStyle renders warnings and the pause badge in amber.
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(warningColor))

	// FocusStyle marks focus phases.
	FocusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	// BreakStyle marks break phases.
	BreakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(secondaryColor)).
			Bold(true)

	// ActiveTabStyle renders the active tab.
	ActiveTabStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(primaryColor)).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 2)

	// InactiveTabStyle renders inactive tabs.
	InactiveTabStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#374151")).
				Foreground(lipgloss.Color("#9CA3AF")).
				Padding(0, 2)

	// ProgressFullStyle renders the elapsed part of the countdown bar.
	ProgressFullStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(primaryColor))

	// ProgressEmptyStyle renders the remaining part of the countdown bar.
	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(dimColor))
)

// Pre-rendered status icons.
var (
	// IconRunning marks a counting session.
	IconRunning = FocusStyle.Render("\u25b8")

	// IconPaused marks a frozen session.
	IconPaused = WarningStyle.Render("\u23f8")

	// IconIdle marks the machine between sessions.
	IconIdle = DimStyle.Render("\u25cb")

	// IconDone marks completed items.
	IconDone = SuccessStyle.Render("\u2713")
)
