package ai

import (
	"fmt"

	"github.com/nathoo/effectcore/engine"
	"github.com/nathoo/effectcore/engine/ledger"
	"github.com/nathoo/effectcore/types"
)

// EmpireView is the planner's read-only window onto one empire after a
// pass: effective meter values of the objects it owns and the ledger
// entries behind them.
type EmpireView struct {
	e      *engine.Engine
	empire types.EmpireID
	object types.ObjectID
}

// NewEmpireView binds a view to an empire that has an empire object.
func NewEmpireView(e *engine.Engine, empire types.EmpireID) (*EmpireView, error) {
	obj, ok := e.Universe.EmpireObject(empire)
	if !ok {
		return nil, fmt.Errorf("no empire %d", empire)
	}
	return &EmpireView{e: e, empire: empire, object: obj}, nil
}

// Empire returns the viewed empire.
func (v *EmpireView) Empire() types.EmpireID { return v.empire }

// Turn returns the turn of the last pass.
func (v *EmpireView) Turn() int { return v.e.Turn }

// Owned lists the empire's objects of a kind ("" for all kinds).
func (v *EmpireView) Owned(kind types.ObjectKind) []types.ObjectID {
	return v.e.Universe.OwnedBy(v.empire, kind)
}

func (v *EmpireView) visible(obj types.ObjectID) bool {
	o, ok := v.e.Universe.Object(obj)
	return ok && o.Owner == v.empire
}

// Meter returns the effective value of a meter field on an owned object.
func (v *EmpireView) Meter(obj types.ObjectID, ref types.MeterRef) (float64, bool) {
	if !v.visible(obj) {
		return 0, false
	}
	return v.e.MeterValue(obj, ref)
}

// EmpireMeter reads a meter from the empire's own object.
func (v *EmpireView) EmpireMeter(m EmpireMeter, field types.MeterField) (float64, bool) {
	name, ok := m.Meter()
	if !ok {
		return 0, false
	}
	return v.e.MeterValue(v.object, types.MeterRef{Meter: name, Field: field})
}

// Breakdown explains a meter field on an owned object.
func (v *EmpireView) Breakdown(obj types.ObjectID, ref types.MeterRef) (ledger.Explanation, error) {
	if !v.visible(obj) {
		return ledger.Explanation{}, fmt.Errorf("object %d is not owned by empire %d", obj, v.empire)
	}
	return v.e.Explain(obj, ref)
}

// Total sums the effective current value of a non-part meter over every
// owned object that has it.
func (v *EmpireView) Total(meter types.MeterName) float64 {
	ref := types.MeterRef{Meter: meter, Field: types.FieldCurrent}
	sum := 0.0
	for _, id := range v.Owned("") {
		if val, ok := v.e.MeterValue(id, ref); ok {
			sum += val
		}
	}
	return sum
}

// ResourceOutput totals the meter behind each resource priority.
func (v *EmpireView) ResourceOutput() map[PriorityType]float64 {
	out := make(map[PriorityType]float64, len(ResourcePriorities()))
	for _, p := range ResourcePriorities() {
		m, _ := p.ResourceMeter()
		out[p] = v.Total(m)
	}
	return out
}

// Contributions returns the last pass's ledger entries for objects the
// empire owns, credited to the given record. An empty record matches all.
func (v *EmpireView) Contributions(record string) []types.AccountingEntry {
	var out []types.AccountingEntry
	for _, en := range v.e.Ledger.Entries() {
		if (record == "" || en.Record == record) && v.visible(en.Object) {
			out = append(out, en)
		}
	}
	return out
}
