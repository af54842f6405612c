package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
	ColorBand   = lipgloss.Color("#504945")
)

var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	StyleSelected   = lipgloss.NewStyle().Reverse(true)
	StyleBand       = lipgloss.NewStyle().Background(ColorBand)
)

// StatusStyle maps a task status to its color.
func StatusStyle(s domain.TaskStatus) lipgloss.Style {
	switch s {
	case domain.TaskCompleted:
		return StyleDim
	case domain.TaskOverdue:
		return StyleRed
	case domain.TaskInProgress:
		return StyleYellow
	default:
		return StyleBlue
	}
}

// StatusIndicator returns a colored marker such as "● OVERDUE".
func StatusIndicator(s domain.TaskStatus) string {
	switch s {
	case domain.TaskCompleted:
		return StyleDim.Render("✔ DONE")
	case domain.TaskOverdue:
		return StyleRed.Render("● OVERDUE")
	case domain.TaskInProgress:
		return StyleYellow.Render("▶ ACTIVE")
	default:
		return StyleBlue.Render("○ PLANNED")
	}
}

// ProjectStyle colors text with a project's #rrggbb color.
func ProjectStyle(hex string) lipgloss.Style {
	if !domain.ValidColor(hex) {
		hex = domain.DefaultProjectColor
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}
