package rules

import (
	"fmt"
	"math"
	"regexp"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/nathoo/effectcore/engine/state"
	"github.com/nathoo/effectcore/types"
)

// ObjectView is the shape of Source and Target inside a formula.
type ObjectView struct {
	ID       int
	Owner    int
	DesignID int
	SystemID int
	FleetID  int
	Kind     string
	Name     string
}

// FormulaEnv is the environment formulas are compiled against and run in.
// Exported fields and methods are visible to formula source.
type FormulaEnv struct {
	Value     float64
	Turn      int
	Source    ObjectView
	Target    ObjectView
	HasTarget bool

	graph Graph
}

// PartsInShipDesign counts copies of a part in a design.
func (e FormulaEnv) PartsInShipDesign(name string, design int) int {
	if e.graph == nil {
		return 0
	}
	d, ok := e.graph.Design(design)
	if !ok {
		return 0
	}
	return state.CountParts(d, name)
}

// CompileFormula compiles formula source to bytecode. The result must be
// numeric.
func CompileFormula(src string) (types.Formula, error) {
	prog, err := expr.Compile(src, expr.Env(FormulaEnv{}), expr.AsFloat64())
	if err != nil {
		return types.Formula{}, fmt.Errorf("compile formula %q: %w", src, err)
	}
	return types.Formula{Source: src, Program: prog}, nil
}

func runFormula(f types.Formula, ctx Context) (float64, error) {
	if f.Program == nil {
		return 0, fmt.Errorf("%w: formula %q was not compiled", ErrInvalidExpr, f.Source)
	}
	if formulaUsesValue(f.Source) && !ctx.HasValue {
		return 0, ErrMissingValue
	}
	env := FormulaEnv{
		Value: ctx.Value,
		Turn:  ctx.Turn,
		graph: ctx.Graph,
	}
	src, err := refObject(types.RefSource, ctx)
	if err != nil {
		return 0, err
	}
	env.Source = view(src)
	if ctx.Target != types.NoObject {
		tgt, err := refObject(types.RefTarget, ctx)
		if err != nil {
			return 0, err
		}
		env.Target = view(tgt)
		env.HasTarget = true
	} else if formulaUsesTarget(f.Source) {
		return 0, ErrMissingTarget
	}

	out, err := vm.Run(f.Program, env)
	if err != nil {
		return 0, fmt.Errorf("run formula %q: %w", f.Source, err)
	}
	v, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: formula %q returned %T", ErrInvalidExpr, f.Source, out)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	return v, nil
}

func view(obj types.Object) ObjectView {
	return ObjectView{
		ID:       int(obj.ID),
		Owner:    int(obj.Owner),
		DesignID: obj.DesignID,
		SystemID: int(obj.SystemID),
		FleetID:  int(obj.FleetID),
		Kind:     string(obj.Kind),
		Name:     obj.Name,
	}
}

var (
	valueIdent  = regexp.MustCompile(`\bValue\b`)
	targetIdent = regexp.MustCompile(`\bTarget\b`)
)

func formulaUsesValue(src string) bool  { return valueIdent.MatchString(src) }
func formulaUsesTarget(src string) bool { return targetIdent.MatchString(src) }
