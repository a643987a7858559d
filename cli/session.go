package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/nathoo/effectcore/engine"
	"github.com/nathoo/effectcore/engine/report"
)

// Session holds the state of the slash commands shared by the line
// console and the TUI.
type Session struct {
	Engine    *engine.Engine
	ReportDir string
	Trace     bool
}

// Reply is the outcome of a slash command.
type Reply struct {
	Lines   []string
	Listing bool // multi-line output rather than a status message
	Quit    bool
}

func status(format string, args ...any) Reply {
	return Reply{Lines: []string{fmt.Sprintf(format, args...)}}
}

// Meta runs a slash command such as "/save" or "/compare FILE".
func (s *Session) Meta(ctx context.Context, input string) Reply {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return status("Type /help for available commands.")
	}
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch parts[0] {
	case "/quit", "/exit":
		return Reply{Lines: []string{"Goodbye."}, Quit: true}
	case "/save":
		return s.save()
	case "/compare":
		return s.compare(arg)
	case "/help":
		return s.help(ctx)
	case "/state":
		return s.state()
	case "/trace":
		s.Trace = !s.Trace
		if s.Trace {
			return status("Trace output enabled.")
		}
		return status("Trace output disabled.")
	default:
		return status("Unknown command: %s. Type /help for available commands.", parts[0])
	}
}

func (s *Session) save() Reply {
	r, err := report.Build(s.Engine)
	if err != nil {
		return status("Save failed: %v", err)
	}
	path, err := report.WriteFile(s.ReportDir, r)
	if err != nil {
		return status("Save failed: %v", err)
	}
	return status("Report written to %s.", path)
}

// compare diffs a saved report against the current pass.
func (s *Session) compare(path string) Reply {
	if path == "" {
		return status("Usage: /compare <report.json>")
	}
	saved, err := report.ReadFile(path)
	if err != nil {
		return status("Compare failed: %v", err)
	}
	current, err := report.Build(s.Engine)
	if err != nil {
		return status("Compare failed: %v", err)
	}
	diff := report.Diff(saved, current)
	if len(diff) == 0 {
		return status("No meter differences against turn %d.", saved.Turn)
	}
	out := Reply{Listing: true, Lines: []string{fmt.Sprintf("%d meter differences against turn %d:", len(diff), saved.Turn)}}
	for _, line := range diff {
		out.Lines = append(out.Lines, "  "+line)
	}
	return out
}

func (s *Session) help(ctx context.Context) Reply {
	lines := []string{
		"System:",
		"  /save             Write a JSON report of the last pass",
		"  /compare <file>   Diff a saved report against the last pass",
		"  /quit             Exit",
		"  /help             Show this help",
		"  /state            Show engine state",
		"  /trace            Toggle diagnostics after every pass",
		"",
	}
	lines = append(lines, s.Engine.Step(ctx, "help").Output...)
	lines = append(lines, "  again (g)                     repeat the last command")
	return Reply{Lines: lines, Listing: true}
}

func (s *Session) state() Reply {
	e := s.Engine
	lines := []string{
		fmt.Sprintf("Turn: %d", e.Turn),
		fmt.Sprintf("Objects: %d", len(e.Universe.Objects())),
		fmt.Sprintf("Empires: %v", e.Universe.Empires()),
		fmt.Sprintf("Ledger entries: %d", e.Ledger.Len()),
	}
	if last := e.Last(); last != nil {
		lines = append(lines, fmt.Sprintf("Last pass: %s (%d warnings)", last.ID, len(last.Diagnostics)))
	}
	return Reply{Lines: lines}
}

// TraceLines describes the pass a command ran, if any, when tracing is on.
func (s *Session) TraceLines(result engine.Result) []string {
	if !s.Trace || result.Pass == nil {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] pass %s took %s", result.Pass.ID, result.Pass.Duration)}
	for _, d := range result.Pass.Diagnostics {
		lines = append(lines, "[trace]   "+engine.FormatDiagnostic(d))
	}
	return lines
}
