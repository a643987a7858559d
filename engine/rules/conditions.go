package rules

import (
	"github.com/nathoo/effectcore/engine/state"
	"github.com/nathoo/effectcore/types"
)

// Test reports whether one candidate satisfies a condition. Value
// expressions nested in the condition see the candidate as Target.
// Unknown kinds, parts, objects or failing nested expressions yield false.
func Test(c types.Condition, ctx Context, candidate types.ObjectID) bool {
	obj, ok := ctx.Graph.Object(candidate)
	if !ok {
		return false
	}
	inner := ctx.WithTarget(candidate)

	switch c := c.(type) {
	case types.All:
		return true

	case types.None:
		return false

	case types.OfKind:
		return obj.Kind == c.Kind

	case types.OwnedBy:
		empire, err := EvalValue(c.Empire, inner)
		if err != nil {
			return false
		}
		return obj.Owner != types.NoEmpire && obj.Owner == types.EmpireID(empire)

	case types.Unowned:
		return obj.Owner == types.NoEmpire

	case types.DesignHasPart:
		if obj.Kind != types.KindShip {
			return false
		}
		d, ok := ctx.Graph.Design(obj.DesignID)
		if !ok {
			return false
		}
		n := state.CountParts(d, c.Name)
		low, high := c.Bounds()
		return n >= low && n <= high

	case types.And:
		for _, op := range c.Operands {
			if !Test(op, ctx, candidate) {
				return false
			}
		}
		return true

	case types.Or:
		for _, op := range c.Operands {
			if Test(op, ctx, candidate) {
				return true
			}
		}
		return false

	case types.Not:
		if c.Operand == nil {
			return true
		}
		return !Test(c.Operand, ctx, candidate)

	case types.IsSource:
		return candidate == ctx.Source

	case types.HasID:
		id, err := EvalValue(c.ID, inner)
		if err != nil {
			return false
		}
		return candidate == types.ObjectID(id)

	case types.InSystem:
		sys, err := EvalValue(c.System, inner)
		if err != nil {
			return false
		}
		return obj.SystemID != types.NoObject && obj.SystemID == types.ObjectID(sys)

	case types.MeterInRange:
		m, ok := ctx.Graph.Meter(candidate, c.Meter.Key())
		if !ok {
			return false
		}
		v := m.Get(c.Meter.Field)
		low, high := c.Bounds()
		return v >= low && v <= high

	case types.TurnInRange:
		low, high := c.Bounds()
		return ctx.Turn >= low && ctx.Turn <= high

	case types.OwnerHasUnlocked:
		if ctx.Unlocks == nil || obj.Owner == types.NoEmpire {
			return false
		}
		return ctx.Unlocks.IsUnlocked(obj.Owner, c.Record, ctx.Turn)

	default:
		return false
	}
}

// Evaluate returns the candidates that satisfy a condition, preserving
// candidate order. And narrows left to right and stops once nothing is left;
// Or unions; Not subtracts from the candidate set it was given.
func Evaluate(c types.Condition, ctx Context, candidates []types.ObjectID) []types.ObjectID {
	switch c := c.(type) {
	case types.And:
		out := candidates
		for _, op := range c.Operands {
			if len(out) == 0 {
				break
			}
			out = Evaluate(op, ctx, out)
		}
		return out

	case types.Or:
		matched := map[types.ObjectID]bool{}
		remaining := candidates
		for _, op := range c.Operands {
			if len(remaining) == 0 {
				break
			}
			for _, id := range Evaluate(op, ctx, remaining) {
				matched[id] = true
			}
			remaining = filter(remaining, func(id types.ObjectID) bool { return !matched[id] })
		}
		return filter(candidates, func(id types.ObjectID) bool { return matched[id] })

	case types.Not:
		if c.Operand == nil {
			return candidates
		}
		hits := map[types.ObjectID]bool{}
		for _, id := range Evaluate(c.Operand, ctx, candidates) {
			hits[id] = true
		}
		return filter(candidates, func(id types.ObjectID) bool { return !hits[id] })

	case nil:
		return nil

	default:
		return filter(candidates, func(id types.ObjectID) bool { return Test(c, ctx, id) })
	}
}

func filter(ids []types.ObjectID, keep func(types.ObjectID) bool) []types.ObjectID {
	var out []types.ObjectID
	for _, id := range ids {
		if keep(id) {
			out = append(out, id)
		}
	}
	return out
}
