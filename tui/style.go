package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusWarn = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("214")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	stylePlain = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleSummary = lipgloss.NewStyle().
			Bold(true)

	styleEntry = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleChanged = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleWarning = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleUserInput = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindPlain lineKind = iota
	kindSummary
	kindEntry
	kindChanged
	kindWarning
	kindSystem
	kindError
	kindTrace
	kindInput
)

var entryPrefixes = []string{"  SET ", "  SET-MAX ", "  ADD "}

var errorPrefixes = []string{
	"No object", "No empire", "No content record", "No pass",
	"Usage:", "I don't know", "Pass failed", "Ledger check failed",
}

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case isDiagnostic(line):
		return kindWarning
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case hasAnyPrefix(line, errorPrefixes):
		return kindError
	case strings.HasPrefix(line, "Turn ") && strings.Contains(line, "effect groups"):
		return kindSummary
	case hasAnyPrefix(line, entryPrefixes):
		return kindEntry
	case strings.Contains(line, " -> "):
		return kindChanged
	default:
		return kindPlain
	}
}

// isDiagnostic matches lines rendered by engine.FormatDiagnostic.
func isDiagnostic(line string) bool {
	return strings.HasPrefix(line, "[authoring_error]") ||
		strings.HasPrefix(line, "[evaluation_warning]") ||
		strings.HasPrefix(line, "[arithmetic_warning]")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// renderLineKind styles a (possibly wrapped) line. System messages are
// shown in brackets.
func renderLineKind(text string, kind lineKind) string {
	switch kind {
	case kindSummary:
		return styleSummary.Render(text)
	case kindEntry:
		return styleEntry.Render(text)
	case kindChanged:
		return styleChanged.Render(text)
	case kindWarning:
		return styleWarning.Render(text)
	case kindSystem:
		if !strings.HasPrefix(text, "[") {
			text = "[" + text + "]"
		}
		return styleSystem.Render(text)
	case kindError:
		return styleError.Render(text)
	case kindTrace:
		return styleTrace.Render(text)
	case kindInput:
		return styleUserInput.Render(text)
	default:
		return stylePlain.Render(text)
	}
}
