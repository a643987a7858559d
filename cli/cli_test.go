package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/effectcore/engine"
	"github.com/nathoo/effectcore/engine/content"
	"github.com/nathoo/effectcore/engine/state"
	"github.com/nathoo/effectcore/types"
)

var maxStructure = types.MeterRef{Meter: types.MeterStructure, Field: types.FieldMax}

// testEngine returns an engine with one empire that owns Earth and has
// unlocked a tech adding 5 to the max structure of its planets.
func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	u := state.NewUniverse()
	for _, o := range []types.Object{
		{ID: 1, Kind: types.KindEmpire, Name: "Terrans", Owner: 1, SystemID: types.NoObject, FleetID: types.NoObject},
		{ID: 10, Kind: types.KindPlanet, Name: "Earth", Owner: 1, SystemID: types.NoObject, FleetID: types.NoObject},
	} {
		if err := u.AddObject(o); err != nil {
			t.Fatal(err)
		}
	}
	u.Meters.SetInitial(10, maxStructure.Key(), types.Meter{Current: 10, Max: 10})

	reg := content.NewRegistry()
	err := reg.Add(types.ContentRecord{
		Name: "DEF_ROOT_DEFENSE",
		Kind: types.RecordTech,
		EffectGroups: []types.EffectGroup{{
			Scope: types.And{Operands: []types.Condition{
				types.OfKind{Kind: types.KindPlanet},
				types.OwnedBy{Empire: types.Property{Ref: types.RefSource, Attr: types.AttrOwner}},
			}},
			Effects: []types.Effect{{Target: maxStructure, Value: types.Literal{Value: 5}, Op: types.OpAdd}},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	e := engine.New(reg, u, nil)
	e.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	e.Unlocks.Unlock(1, "DEF_ROOT_DEFENSE", 0)
	return e
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c := &CLI{
		Session: Session{Engine: testEngine(t), ReportDir: t.TempDir()},
		Title:   "Test Scenario",
		In:      strings.NewReader(input),
		Out:     &out,
	}
	return c, &out
}

func run(c *CLI) {
	c.Run(context.Background())
}

func TestCLI_BannerAndFirstPass(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	run(c)

	output := out.String()
	if !strings.Contains(output, "Test Scenario") {
		t.Error("expected title in output")
	}
	if !strings.Contains(output, "1 content records, 2 objects") {
		t.Errorf("expected record and object counts, got:\n%s", output)
	}
	if !strings.Contains(output, "Turn 0: 1 effect groups") {
		t.Errorf("expected first pass summary, got:\n%s", output)
	}
}

func TestCLI_Meters(t *testing.T) {
	c, out := newTestCLI(t, "meters Earth\n/quit\n")
	run(c)

	if !strings.Contains(out.String(), "max 10 -> 15") {
		t.Errorf("expected max structure change, got:\n%s", out.String())
	}
}

func TestCLI_Explain(t *testing.T) {
	c, out := newTestCLI(t, "explain max:structure on Earth\n/quit\n")
	run(c)

	output := out.String()
	if !strings.Contains(output, "DEF_ROOT_DEFENSE") {
		t.Error("expected contributing record in explanation")
	}
	if !strings.Contains(output, "final 15") {
		t.Errorf("expected final value, got:\n%s", output)
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/quit\n")
	run(c)

	output := out.String()
	for _, want := range []string{"/save", "/compare", "/quit", "explain <meter> on <object>"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in help output", want)
		}
	}
}

func TestCLI_SaveAndCompare(t *testing.T) {
	c, out := newTestCLI(t, "/save\n/quit\n")
	run(c)

	if !strings.Contains(out.String(), "Report written to") {
		t.Fatalf("expected save confirmation, got:\n%s", out.String())
	}
	files, err := filepath.Glob(filepath.Join(c.ReportDir, "pass-0-*.json"))
	if err != nil || len(files) != 1 {
		t.Fatalf("expected one report file, got %v (%v)", files, err)
	}

	// Same content, lock the tech: Earth drops back to 10.
	c2, out2 := newTestCLI(t, "lock DEF_ROOT_DEFENSE for 1\npass\n/compare "+files[0]+"\n/quit\n")
	run(c2)

	output := out2.String()
	if !strings.Contains(output, "1 meter differences against turn 0") {
		t.Errorf("expected one difference, got:\n%s", output)
	}
	if !strings.Contains(output, "-> 10/10") {
		t.Errorf("expected diff line, got:\n%s", output)
	}
}

func TestCLI_CompareUnchanged(t *testing.T) {
	c, out := newTestCLI(t, "/save\n/quit\n")
	run(c)
	files, _ := filepath.Glob(filepath.Join(c.ReportDir, "*.json"))
	if len(files) != 1 {
		t.Fatalf("expected one report, got %v", files)
	}

	c2, out2 := newTestCLI(t, "/compare "+files[0]+"\n/quit\n")
	run(c2)
	if !strings.Contains(out2.String(), "No meter differences") {
		t.Errorf("expected no differences, got:\n%s\n%s", out.String(), out2.String())
	}
}

func TestCLI_CompareMissingFile(t *testing.T) {
	c, out := newTestCLI(t, "/compare nonexistent.json\n/compare\n/quit\n")
	run(c)

	output := out.String()
	if !strings.Contains(output, "Compare failed") {
		t.Error("expected compare failure message")
	}
	if !strings.Contains(output, "Usage: /compare") {
		t.Error("expected usage message")
	}
}

func TestCLI_SaveUnwritableDir(t *testing.T) {
	c, out := newTestCLI(t, "/save\n/quit\n")
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	c.ReportDir = filepath.Join(blocker, "reports")
	run(c)

	if !strings.Contains(out.String(), "Save failed") {
		t.Errorf("expected save failure, got:\n%s", out.String())
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/bogus\n/quit\n")
	run(c)

	if !strings.Contains(out.String(), "Unknown command") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\npass\n/trace\n/quit\n")
	run(c)

	output := out.String()
	if !strings.Contains(output, "Trace output enabled") {
		t.Error("expected trace enabled message")
	}
	if !strings.Contains(output, "[trace] pass") {
		t.Error("expected trace line after pass")
	}
	if !strings.Contains(output, "Trace output disabled") {
		t.Error("expected trace disabled message")
	}
}

func TestCLI_StateCommand(t *testing.T) {
	c, out := newTestCLI(t, "/state\n/quit\n")
	run(c)

	output := out.String()
	if !strings.Contains(output, "Turn: 0") {
		t.Error("expected turn in state output")
	}
	if !strings.Contains(output, "Ledger entries: 1") {
		t.Errorf("expected ledger size in state output, got:\n%s", output)
	}
}

func TestCLI_EmptyAndCommentInput(t *testing.T) {
	c, out := newTestCLI(t, "\n# a comment\n\n/quit\n")
	run(c)

	if strings.Contains(out.String(), "Type a command") {
		t.Error("empty lines and comments should be skipped by CLI")
	}
}

func TestCLI_Again_RepeatsLastCommand(t *testing.T) {
	c, out := newTestCLI(t, "turn\nagain\n/quit\n")
	run(c)

	output := out.String()
	if !strings.Contains(output, "Turn 1:") || !strings.Contains(output, "Turn 2:") {
		t.Errorf("expected turns 1 and 2, got:\n%s", output)
	}
}

func TestCLI_G_RepeatsLastCommand(t *testing.T) {
	c, out := newTestCLI(t, "meters Earth\ng\n/quit\n")
	run(c)

	if n := strings.Count(out.String(), "Earth (#10):"); n != 2 {
		t.Errorf("expected meters shown twice, got %d", n)
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, "again\n/quit\n")
	run(c)

	if !strings.Contains(out.String(), "Nothing to repeat") {
		t.Error("expected 'Nothing to repeat' when no prior command")
	}
}

func TestCLI_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, out := newTestCLI(t, "meters Earth\n")
	c.Run(ctx)

	if strings.Contains(out.String(), "Earth (#10):") {
		t.Error("expected no commands after cancellation")
	}
}

func TestSession_Meta(t *testing.T) {
	s := &Session{Engine: testEngine(t), ReportDir: t.TempDir()}
	ctx := context.Background()

	if r := s.Meta(ctx, "/quit"); !r.Quit {
		t.Error("expected /quit to quit")
	}
	if r := s.Meta(ctx, "/exit"); !r.Quit {
		t.Error("expected /exit to quit")
	}
	if r := s.Meta(ctx, "/help"); !r.Listing || r.Quit {
		t.Errorf("expected help listing, got %+v", r)
	}
	if r := s.Meta(ctx, "/save"); len(r.Lines) != 1 || !strings.Contains(r.Lines[0], "no pass to report") {
		t.Errorf("expected save to fail before a pass, got %v", r.Lines)
	}
}

func TestSession_TraceLines(t *testing.T) {
	s := &Session{Engine: testEngine(t)}
	res := s.Engine.Step(context.Background(), "pass")
	if lines := s.TraceLines(res); lines != nil {
		t.Errorf("expected no trace when disabled, got %v", lines)
	}
	s.Trace = true
	if lines := s.TraceLines(engine.Result{}); lines != nil {
		t.Errorf("expected no trace without a pass, got %v", lines)
	}
	if lines := s.TraceLines(res); len(lines) != 1 || !strings.HasPrefix(lines[0], "[trace] pass ") {
		t.Errorf("unexpected trace %v", lines)
	}
}
