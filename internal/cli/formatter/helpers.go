package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RelativeDay describes the civil date t relative to today.
func RelativeDay(t, today time.Time) string {
	days := domain.DaysBetween(today, t)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// DateChange renders "2024-01-05 → 2024-01-08", or just the date when
// nothing moved.
func DateChange(from, to time.Time) string {
	if from.Equal(to) {
		return domain.FormatDate(to)
	}
	return domain.FormatDate(from) + " → " + StyleYellow.Render(domain.FormatDate(to))
}

// Truncate shortens s to max visible runes, ending with "…".
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 {
		return ""
	}
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

// PadRight pads s with spaces to width visible columns.
func PadRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
