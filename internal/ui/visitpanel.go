package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/modsurf/modsurf/internal/storage"
	"github.com/modsurf/modsurf/internal/theme"
)

// VisitPanel displays the scrollable visit log with vim navigation.
type VisitPanel struct {
	visits   []storage.Visit
	cursor   int
	offset   int // scroll offset for visible window
	width    int
	height   int
	visible  bool
	lastGKey bool // for gg detection within the panel
}

// NewVisitPanel creates a new visit panel.
func NewVisitPanel() VisitPanel {
	return VisitPanel{}
}

// SetVisits updates the visits displayed.
func (vp *VisitPanel) SetVisits(visits []storage.Visit) {
	vp.visits = visits
	vp.cursor = 0
	vp.offset = 0
}

// SetSize updates the panel dimensions.
func (vp *VisitPanel) SetSize(w, h int) {
	vp.width = w
	vp.height = h
}

// Show makes the panel visible.
func (vp *VisitPanel) Show() {
	vp.visible = true
	vp.cursor = 0
	vp.offset = 0
	vp.lastGKey = false
}

// Hide closes the panel.
func (vp *VisitPanel) Hide() {
	vp.visible = false
	vp.lastGKey = false
}

// IsVisible reports whether the panel is shown.
func (vp *VisitPanel) IsVisible() bool {
	return vp.visible
}

// CursorUp moves the cursor up one entry.
func (vp *VisitPanel) CursorUp() {
	vp.lastGKey = false
	if vp.cursor > 0 {
		vp.cursor--
		vp.ensureVisible()
	}
}

// CursorDown moves the cursor down one entry.
func (vp *VisitPanel) CursorDown() {
	vp.lastGKey = false
	if vp.cursor < len(vp.visits)-1 {
		vp.cursor++
		vp.ensureVisible()
	}
}

// GotoTop moves to the first entry.
func (vp *VisitPanel) GotoTop() {
	vp.lastGKey = false
	vp.cursor = 0
	vp.offset = 0
}

// GotoBottom moves to the last entry.
func (vp *VisitPanel) GotoBottom() {
	vp.lastGKey = false
	if len(vp.visits) > 0 {
		vp.cursor = len(vp.visits) - 1
		vp.ensureVisible()
	}
}

// HandleGKey handles the "g" key for gg detection.
// Returns true if "gg" was completed (go to top).
func (vp *VisitPanel) HandleGKey() bool {
	if vp.lastGKey {
		vp.GotoTop()
		return true
	}
	vp.lastGKey = true
	return false
}

// ResetGKey resets the g key state (called on any non-g key press).
func (vp *VisitPanel) ResetGKey() {
	vp.lastGKey = false
}

// Selected returns the visit at the cursor, or nil if empty.
func (vp *VisitPanel) Selected() *storage.Visit {
	if len(vp.visits) == 0 || vp.cursor < 0 || vp.cursor >= len(vp.visits) {
		return nil
	}
	v := vp.visits[vp.cursor]
	return &v
}

// visibleCount returns how many entries fit in the visible area.
// Each entry takes 2 lines (title + url), plus header space.
func (vp *VisitPanel) visibleCount() int {
	available := vp.height - 3
	if available <= 0 {
		return 1
	}
	count := available / 2
	if count < 1 {
		count = 1
	}
	return count
}

// ensureVisible adjusts offset so the cursor is within the visible window.
func (vp *VisitPanel) ensureVisible() {
	visible := vp.visibleCount()
	if vp.cursor < vp.offset {
		vp.offset = vp.cursor
	}
	if vp.cursor >= vp.offset+visible {
		vp.offset = vp.cursor - visible + 1
	}
	if vp.offset < 0 {
		vp.offset = 0
	}
}

// View renders the visit panel.
func (vp *VisitPanel) View() string {
	if !vp.visible {
		return ""
	}

	t := theme.Current

	panelStyle := lipgloss.NewStyle().
		Width(vp.width).
		Height(vp.height).
		Background(t.Background)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Background(t.Surface).
		Width(vp.width).
		Padding(0, 1)

	separatorStyle := lipgloss.NewStyle().
		Foreground(t.Border)

	selectedStyle := lipgloss.NewStyle().
		Foreground(t.TextBright).
		Background(t.Selected).
		Bold(true).
		Width(vp.width).
		Padding(0, 1)

	selectedURLStyle := lipgloss.NewStyle().
		Foreground(t.Link).
		Background(t.SelectedDim).
		Width(vp.width).
		Padding(0, 1)

	normalStyle := lipgloss.NewStyle().
		Foreground(t.Text).
		Width(vp.width).
		Padding(0, 1)

	urlStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Width(vp.width).
		Padding(0, 1)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Padding(0, 1)

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("📜 Visits"))
	sb.WriteString("\n")

	sepWidth := vp.width - 2
	if sepWidth < 1 {
		sepWidth = 1
	}
	sb.WriteString(separatorStyle.Render(strings.Repeat("─", sepWidth)))
	sb.WriteString("\n")

	if len(vp.visits) == 0 {
		sb.WriteString(dimStyle.Render("No visits yet."))
		sb.WriteString("\n")
		return panelStyle.Render(sb.String())
	}

	visible := vp.visibleCount()
	end := vp.offset + visible
	if end > len(vp.visits) {
		end = len(vp.visits)
	}

	maxLen := vp.width - 6
	if maxLen < 10 {
		maxLen = 10
	}

	for i := vp.offset; i < end; i++ {
		visit := vp.visits[i]

		title := visit.Title
		if title == "" {
			title = visit.URL
		}
		if len(title) > maxLen {
			title = title[:maxLen-3] + "..."
		}
		if visit.InModal {
			title = "◈ " + title
		}

		url := visit.URL
		if len(url) > maxLen {
			url = url[:maxLen-3] + "..."
		}

		timeStr := timeAgo(visit.VisitedAt)

		if i == vp.cursor {
			sb.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", title)))
			sb.WriteString("\n")
			sb.WriteString(selectedURLStyle.Render(fmt.Sprintf("  %s  %s", url, timeStr)))
			sb.WriteString("\n")
		} else {
			sb.WriteString(normalStyle.Render(fmt.Sprintf("  %s", title)))
			sb.WriteString("\n")
			sb.WriteString(urlStyle.Render(fmt.Sprintf("  %s  %s", url, timeStr)))
			sb.WriteString("\n")
		}
	}

	linesUsed := 2 + (end-vp.offset)*2
	remaining := vp.height - linesUsed
	if remaining > 1 {
		for i := 0; i < remaining-1; i++ {
			sb.WriteString("\n")
		}
		hintStyle := lipgloss.NewStyle().
			Foreground(t.TextDim).
			Italic(true).
			Padding(0, 1)
		sb.WriteString(hintStyle.Render("j/k:move  Enter:open  Esc:close"))
	}

	return panelStyle.Render(sb.String())
}

// timeAgo returns a human-readable relative time string.
func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
