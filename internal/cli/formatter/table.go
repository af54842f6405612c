package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

const colGap = 2

// RenderTable renders a left-aligned table with a header separator line.
func RenderTable(headers []string, rows [][]string) string {
	return RenderTableAligned(headers, rows, nil)
}

// RenderTableAligned is RenderTable with per-column alignment; columns
// beyond len(align) are left-aligned. Widths are measured on visible text,
// so styled cells line up.
func RenderTableAligned(headers []string, rows [][]string, align []Align) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	alignOf := func(i int) Align {
		if i < len(align) {
			return align[i]
		}
		return AlignLeft
	}
	pad := func(b *strings.Builder, i int, cell, styled string) {
		gap := widths[i] - lipgloss.Width(cell)
		if gap < 0 {
			gap = 0
		}
		if alignOf(i) == AlignRight {
			b.WriteString(strings.Repeat(" ", gap))
			gap = 0
		}
		b.WriteString(styled)
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", gap+colGap))
		}
	}

	var b strings.Builder
	for i, h := range headers {
		pad(&b, i, h, StyleHeader.Render(h))
	}
	b.WriteString("\n")

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pad(&b, i, cell, cell)
		}
		b.WriteString("\n")
	}
	return b.String()
}
