package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// shortID abbreviates a pass ID for the status bar.
func shortID(id uuid.UUID) string {
	if id == uuid.Nil {
		return "-"
	}
	return id.String()[:8]
}

// renderStatusBar produces a full-width inverted status line showing the
// scenario, turn, last pass and its warning count.
func (m Model) renderStatusBar() string {
	e := m.session.Engine
	objects := len(e.Universe.Objects())

	var pass uuid.UUID
	warnings := 0
	if last := e.Last(); last != nil {
		pass = last.ID
		warnings = len(last.Diagnostics)
	}

	left := fmt.Sprintf(" Turn %d | Pass %s", e.Turn, shortID(pass))
	if m.title != "" {
		candidate := fmt.Sprintf(" %s | Turn %d | Pass %s", m.title, e.Turn, shortID(pass))
		if lipgloss.Width(candidate)+30 < m.width {
			left = candidate
		}
	}
	right := fmt.Sprintf("Obj:%d | Entries:%d ", objects, e.Ledger.Len())

	warn := ""
	if warnings > 0 {
		warn = fmt.Sprintf("W:%d ", warnings)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - lipgloss.Width(warn)
	if gap < 0 {
		gap = 0
	}

	bar := styleStatusBar.Render(left + strings.Repeat(" ", gap) + right)
	if warn != "" {
		bar += styleStatusWarn.Render(warn)
	}
	return lipgloss.NewStyle().Width(m.width).Background(lipgloss.Color("236")).Render(bar)
}
