package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/effectcore/engine/ledger"
	"github.com/nathoo/effectcore/engine/parser"
	"github.com/nathoo/effectcore/engine/resolve"
	"github.com/nathoo/effectcore/types"
)

// Result is the outcome of one console command.
type Result struct {
	Output []string
	Pass   *PassResult // set when the command ran a pass
}

const helpText = `Commands:
  pass                          re-run the effect pass for the current turn
  turn [N]                      advance to turn N (default: next) and run a pass
  objects [kind]                list objects, optionally of one kind
  empires                       list empires and their unlocked records
  content                       list loaded content records
  meters <object>               show an object's meters (initial -> effective)
  explain <meter> on <object>   account for a meter, e.g. explain max:capacity@FT_HANGAR_2 on Valiant
  unlock <record> for <empire>  unlock a record from the current turn
  lock <record> for <empire>    remove an unlock
  active <empire>               list the effect groups an empire contributes
  diag                          show diagnostics from the last pass`

// Step processes one console command against the engine.
func (e *Engine) Step(ctx context.Context, input string) Result {
	intent := parser.Parse(input)

	switch intent.Verb {
	case "":
		return say("Type a command, or 'help'.")
	case "help":
		return say(helpText)
	case "pass":
		return e.runAndSummarise(ctx, e.Turn)
	case "turn":
		return e.cmdTurn(ctx, intent)
	case "objects":
		return e.cmdObjects(intent)
	case "empires":
		return e.cmdEmpires()
	case "content":
		return e.cmdContent()
	case "meters":
		return e.cmdMeters(intent)
	case "explain":
		return e.cmdExplain(intent)
	case "unlock", "lock":
		return e.cmdUnlock(intent)
	case "active":
		return e.cmdActive(intent)
	case "diag":
		return e.cmdDiag()
	default:
		return say(fmt.Sprintf("I don't know how to %q. Try 'help'.", intent.Verb))
	}
}

func say(lines ...string) Result {
	return Result{Output: lines}
}

// arg joins object and target for commands that take one argument, so
// "meters of Valiant" and "meters Valiant" read the same.
func arg(intent types.Intent) string {
	return strings.TrimSpace(intent.Object + " " + intent.Target)
}

func (e *Engine) runAndSummarise(ctx context.Context, turn int) Result {
	res, err := e.RunPass(ctx, turn)
	if res == nil {
		return say("Pass failed: " + err.Error())
	}
	out := Result{Pass: res}
	out.Output = append(out.Output, fmt.Sprintf(
		"Turn %d: %d effect groups, %d ledger entries, %d meter fields changed, %d warnings.",
		res.Turn, res.ActiveGroups, res.Entries, res.MetersWritten, len(res.Diagnostics)))
	if err != nil {
		out.Output = append(out.Output, "Ledger check failed: "+err.Error())
	}
	return out
}

func (e *Engine) cmdTurn(ctx context.Context, intent types.Intent) Result {
	turn := e.Turn + 1
	if a := arg(intent); a != "" {
		n, err := strconv.Atoi(a)
		if err != nil || n < 0 {
			return say(fmt.Sprintf("%q is not a turn number.", a))
		}
		turn = n
	}
	return e.runAndSummarise(ctx, turn)
}

func (e *Engine) cmdObjects(intent types.Intent) Result {
	kind := types.ObjectKind(strings.ToLower(arg(intent)))
	ids := e.Universe.Objects()
	if kind != "" {
		ids = e.Universe.ObjectsOfKind(kind)
	}
	if len(ids) == 0 {
		return say("No objects.")
	}
	var out []string
	for _, id := range ids {
		obj, _ := e.Universe.Object(id)
		out = append(out, describeObject(obj))
	}
	return say(out...)
}

func describeObject(obj types.Object) string {
	owner := "unowned"
	if obj.Owner != types.NoEmpire {
		owner = fmt.Sprintf("empire %d", obj.Owner)
	}
	s := fmt.Sprintf("#%d %-8s %s (%s)", obj.ID, obj.Kind, obj.Name, owner)
	if obj.Kind == types.KindBuilding && obj.BuildingType != "" {
		s += " " + obj.BuildingType
	}
	return s
}

func (e *Engine) cmdEmpires() Result {
	empires := e.Universe.Empires()
	if len(empires) == 0 {
		return say("No empires.")
	}
	var out []string
	for _, emp := range empires {
		id, _ := e.Universe.EmpireObject(emp)
		obj, _ := e.Universe.Object(id)
		unlocked := e.Unlocks.Unlocked(emp, e.Turn)
		list := "nothing unlocked"
		if len(unlocked) > 0 {
			list = strings.Join(unlocked, ", ")
		}
		out = append(out, fmt.Sprintf("Empire %d %s (object #%d): %s", emp, obj.Name, id, list))
	}
	return say(out...)
}

func (e *Engine) cmdContent() Result {
	recs := e.Registry.Records()
	if len(recs) == 0 {
		return say("No content loaded.")
	}
	var out []string
	for _, rec := range recs {
		out = append(out, fmt.Sprintf("%s (%s, %d effect groups)", rec.Name, rec.Kind, len(rec.EffectGroups)))
	}
	return say(out...)
}

func (e *Engine) cmdMeters(intent types.Intent) Result {
	name := arg(intent)
	if name == "" {
		return say("Meters of what?")
	}
	id, err := resolve.Object(e.Universe, name)
	if err != nil {
		return say(err.Error())
	}
	obj, _ := e.Universe.Object(id)
	keys := e.Universe.Meters.Keys(id)
	if len(keys) == 0 {
		return say(fmt.Sprintf("%s has no meters.", obj.Name))
	}
	out := []string{fmt.Sprintf("%s (#%d):", obj.Name, id)}
	for _, k := range keys {
		init, _ := e.Universe.Meters.Initial(id, k)
		eff, _ := e.Universe.Meters.Effective(id, k)
		out = append(out, fmt.Sprintf("  %-28s current %s  max %s",
			k, change(init.Current, eff.Current), change(init.Max, eff.Max)))
	}
	return say(out...)
}

func change(from, to float64) string {
	if from == to {
		return num(to)
	}
	return num(from) + " -> " + num(to)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (e *Engine) cmdExplain(intent types.Intent) Result {
	meterArg, objArg := intent.Object, intent.Target
	if objArg == "" {
		// "explain Valiant max:capacity@FT_HANGAR_2"
		fields := strings.Fields(intent.Object)
		if len(fields) < 2 {
			return say("Usage: explain <meter> on <object>")
		}
		objArg = strings.Join(fields[:len(fields)-1], " ")
		meterArg = fields[len(fields)-1]
	}
	ref, err := types.ParseMeterRef(meterArg)
	if err != nil {
		return say(err.Error())
	}
	id, err := resolve.Object(e.Universe, objArg)
	if err != nil {
		return say(err.Error())
	}
	exp, err := e.Explain(id, ref)
	if err != nil {
		return say(err.Error())
	}
	return say(FormatExplanation(exp)...)
}

// FormatExplanation renders an explanation one line per entry.
func FormatExplanation(exp ledger.Explanation) []string {
	out := []string{fmt.Sprintf("%s on #%d: initial %s", exp.Meter, exp.Object, num(exp.Initial))}
	for _, en := range exp.Entries {
		out = append(out, fmt.Sprintf("  %-8s %-24s %-24s value %-8s delta %+g",
			en.Op, en.Record, en.Label, num(en.Value), en.Delta))
	}
	if len(exp.Entries) == 0 {
		out = append(out, "  no effects touched this meter")
	}
	out = append(out, fmt.Sprintf("  final %s", num(exp.Final)))
	return out
}

func (e *Engine) cmdUnlock(intent types.Intent) Result {
	record, empireArg := intent.Object, intent.Target
	if empireArg == "" {
		// "unlock Terrans SHP_FIGHTERS_3"
		fields := strings.Fields(intent.Object)
		if len(fields) != 2 {
			return say(fmt.Sprintf("Usage: %s <record> for <empire>", intent.Verb))
		}
		empireArg, record = fields[0], fields[1]
	}
	rec, ok := e.Registry.Lookup(record)
	if !ok {
		return say(fmt.Sprintf("No content record %q.", record))
	}
	emp, err := resolve.Empire(e.Universe, empireArg)
	if err != nil {
		return say(err.Error())
	}
	if intent.Verb == "lock" {
		e.Unlocks.Lock(emp, rec.Name)
		return say(fmt.Sprintf("%s locked for empire %d.", rec.Name, emp))
	}
	e.Unlocks.Unlock(emp, rec.Name, e.Turn)
	return say(fmt.Sprintf("%s unlocked for empire %d from turn %d. Run 'pass' to apply.", rec.Name, emp, e.Turn))
}

func (e *Engine) cmdActive(intent types.Intent) Result {
	name := arg(intent)
	if name == "" {
		return say("Active effects of which empire?")
	}
	emp, err := resolve.Empire(e.Universe, name)
	if err != nil {
		return say(err.Error())
	}
	groups := e.Registry.ActiveEffectGroups(emp, e.Turn, e.Unlocks, e.Universe)
	if len(groups) == 0 {
		return say(fmt.Sprintf("Empire %d has no active effect groups.", emp))
	}
	var out []string
	for _, ag := range groups {
		label := ag.Group.AccountingLabel
		if label == "" {
			label = ag.Record.Name
		}
		out = append(out, fmt.Sprintf("%s[%d] %s from #%d, %d effects", ag.Record.Name, ag.Index, label, ag.Source, len(ag.Group.Effects)))
	}
	return say(out...)
}

func (e *Engine) cmdDiag() Result {
	if e.last == nil {
		return say("No pass has run yet.")
	}
	if len(e.last.Diagnostics) == 0 {
		return say("No diagnostics.")
	}
	var out []string
	for _, d := range e.last.Diagnostics {
		out = append(out, FormatDiagnostic(d))
	}
	return say(out...)
}

// FormatDiagnostic renders a diagnostic on one line.
func FormatDiagnostic(d types.Diagnostic) string {
	where := d.Record
	if d.Label != "" && d.Label != d.Record {
		where += "/" + d.Label
	}
	s := fmt.Sprintf("[%s] %s", d.Kind, where)
	if d.Object != types.NoObject {
		s += fmt.Sprintf(" #%d", d.Object)
	}
	if d.Meter != "" {
		s += " " + d.Meter
	}
	return s + ": " + d.Message
}
