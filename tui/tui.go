package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/effectcore/cli"
	"github.com/nathoo/effectcore/engine"
)

// keyMap binds the keys the model handles itself; everything else goes to
// the text input.
type keyMap struct {
	Quit   key.Binding
	Submit key.Binding
	Older  key.Binding
	Newer  key.Binding
	Scroll key.Binding
}

var keys = keyMap{
	Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
	Submit: key.NewBinding(key.WithKeys("enter")),
	Older:  key.NewBinding(key.WithKeys("up")),
	Newer:  key.NewBinding(key.WithKeys("down")),
	Scroll: key.NewBinding(key.WithKeys("pgup", "pgdown", "ctrl+u", "ctrl+d")),
}

// scrollback is one unstyled output line. Lines are styled at render time
// so they can be re-wrapped when the terminal is resized.
type scrollback struct {
	text string
	kind lineKind
}

// Model is the Bubble Tea model for the effect pass console.
type Model struct {
	ctx     context.Context
	session *cli.Session
	title   string

	viewport viewport.Model
	input    textinput.Model
	history  *History
	lines    []scrollback

	width    int
	height   int
	ready    bool
	quitting bool
	lastCmd  string
}

// New creates a TUI model wired to the given engine.
func New(ctx context.Context, eng *engine.Engine, title, reportDir string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	m := Model{
		ctx:     ctx,
		session: &cli.Session{Engine: eng, ReportDir: reportDir},
		title:   title,
		input:   ti,
		history: NewHistory(100),
	}
	m.append(m.firstPass())
	return m
}

// Run starts the Bubble Tea program. Cancelling ctx stops it.
func Run(ctx context.Context, eng *engine.Engine, title, reportDir string) error {
	p := tea.NewProgram(New(ctx, eng, title, reportDir),
		tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init starts the cursor blinking. The banner and first pass are already
// in the scrollback; commands run off the Update goroutine must not touch
// the engine.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// firstPass renders the banner and runs the opening pass.
func (m Model) firstPass() []scrollback {
	var out []scrollback
	for _, line := range cli.Banner(m.session.Engine, m.title) {
		out = append(out, scrollback{text: line, kind: classifyLine(line)})
	}
	return append(out, m.run("pass")...)
}

// run executes a console command and classifies its output.
func (m Model) run(input string) []scrollback {
	result := m.session.Engine.Step(m.ctx, input)
	var out []scrollback
	for _, line := range result.Output {
		out = append(out, scrollback{text: line, kind: classifyLine(line)})
	}
	for _, line := range m.session.TraceLines(result) {
		out = append(out, scrollback{text: line, kind: kindTrace})
	}
	return out
}

// Update handles key presses and window resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Submit):
			return m.submit()
		case key.Matches(msg, keys.Older):
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil
		case key.Matches(msg, keys.Newer):
			next, _ := m.history.Next()
			m.input.SetValue(next)
			m.input.CursorEnd()
			return m, nil
		case key.Matches(msg, keys.Scroll):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	vpHeight := max(height-2, 1) // status bar + input line
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.render()
}

// submit handles the entered line: history, repeat, slash commands, then
// console commands.
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if input == "" {
		return m, nil
	}
	m.history.Push(input)
	m.history.ResetCursor()

	echo := scrollback{text: "> " + input, kind: kindInput}

	if lower := strings.ToLower(input); lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m.append([]scrollback{echo, {text: "Nothing to repeat.", kind: kindSystem}})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	if strings.HasPrefix(input, "/") {
		reply := m.session.Meta(m.ctx, input)
		out := []scrollback{echo}
		for _, line := range reply.Lines {
			kind := kindSystem
			if reply.Listing {
				kind = classifyLine(line)
			}
			out = append(out, scrollback{text: line, kind: kind})
		}
		m.append(out)
		if reply.Quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	m.append(append([]scrollback{echo}, m.run(input)...))
	return m, nil
}

// append adds a block of output followed by a separator line.
func (m *Model) append(lines []scrollback) {
	m.lines = append(m.lines, lines...)
	m.lines = append(m.lines, scrollback{})
	m.render()
}

// render re-wraps and re-styles the scrollback at the current width.
func (m *Model) render() {
	if !m.ready {
		return
	}
	width := max(m.width, 10)

	styled := make([]string, 0, len(m.lines))
	for _, l := range m.lines {
		if l.text == "" {
			styled = append(styled, "")
			continue
		}
		styled = append(styled, renderLineKind(wordWrap(l.text, width), l.kind))
	}
	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap breaks text at word boundaries to fit width. Lines that already
// fit keep their spacing.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	var b strings.Builder
	col := 0
	for _, word := range strings.Fields(text) {
		switch {
		case col == 0:
		case col+1+len(word) > width:
			b.WriteByte('\n')
			col = 0
		default:
			b.WriteByte(' ')
			col++
		}
		b.WriteString(word)
		col += len(word)
	}
	return b.String()
}

// View lays out the scrollback, status bar and input line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// viewportKeyMap leaves Up and Down to input history.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
