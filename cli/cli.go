// Package cli provides the line-oriented console for inspecting effect
// passes: terminal I/O, output formatting and the slash commands shared
// with the TUI.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/effectcore/engine"
)

// CLI handles terminal interaction with the user.
type CLI struct {
	Session
	Title     string // shown on start, usually the scenario name
	In        io.Reader
	Out       io.Writer
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, title, reportDir string) *CLI {
	return &CLI{
		Session: Session{Engine: eng, ReportDir: reportDir},
		Title:   title,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Banner is the text both consoles print before the first pass.
func Banner(e *engine.Engine, title string) []string {
	var lines []string
	if title != "" {
		lines = append(lines, title)
	}
	return append(lines, fmt.Sprintf("%d content records, %d objects. Type 'help' for commands.",
		e.Registry.Len(), len(e.Universe.Objects())), "")
}

// Run shows the banner, runs the first pass, then loops:
// prompt → input → dispatch → output. It returns when input ends, on
// /quit, or when ctx is cancelled.
func (c *CLI) Run(ctx context.Context) {
	for _, line := range Banner(c.Engine, c.Title) {
		c.printLine(line)
	}
	c.step(ctx, "pass")

	scanner := bufio.NewScanner(c.In)
	for ctx.Err() == nil {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		// Blank lines and comments (for script files) are skipped.
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			reply := c.Meta(ctx, input)
			c.printReply(reply)
			if reply.Quit {
				return
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.step(ctx, input)
	}
}

func (c *CLI) step(ctx context.Context, input string) {
	result := c.Engine.Step(ctx, input)
	for _, line := range result.Output {
		c.printLine(line)
	}
	for _, line := range c.TraceLines(result) {
		c.printLine(line)
	}
}

func (c *CLI) printReply(r Reply) {
	for _, line := range r.Lines {
		if r.Listing {
			c.printLine(line)
		} else {
			c.printSystem(line)
		}
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
