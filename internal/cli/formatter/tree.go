package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a task tree.
type TreeItem struct {
	Title     string
	Level     int
	IsLast    bool
	Status    domain.TaskStatus
	Children  int
	Collapsed bool
	Hidden    bool
	Detail    string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders items as an indented tree. Collapsed parents show the
// number of direct children they hide; hidden rows (listed only with
// --all) are dimmed. Detail badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type line struct {
		content string
		badge   string
	}
	lines := make([]line, len(items))
	maxWidth := 0

	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		marker := "  "
		if item.Children > 0 {
			marker = "▾ "
			if item.Collapsed {
				marker = "▸ "
			}
		}

		title := item.Title
		switch item.Status {
		case domain.TaskCompleted:
			title = StyleGreen.Render("✔ ") + Dim(title)
		case domain.TaskInProgress:
			title = StyleYellowBold.Render("▶ " + title)
		case domain.TaskOverdue:
			title = StyleRed.Render("! " + title)
		}
		if item.Collapsed && item.Children > 0 {
			title += StyleDim.Render(fmt.Sprintf(" +%d", item.Children))
		}

		content := prefix + marker + title
		if item.Hidden {
			content = Dim(prefix+marker+item.Title) + StyleDim.Render(" (hidden)")
		}
		lines[idx].content = content
		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail))
		}
		if w := lipgloss.Width(content); w > maxWidth {
			maxWidth = w
		}
	}

	var b strings.Builder
	for _, l := range lines {
		if l.badge == "" {
			b.WriteString(l.content + "\n")
			continue
		}
		pad := maxWidth - lipgloss.Width(l.content)
		b.WriteString(l.content + strings.Repeat(" ", pad) + "  " + l.badge + "\n")
	}
	return b.String()
}
