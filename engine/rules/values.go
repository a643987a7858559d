package rules

import (
	"errors"
	"fmt"
	"math"

	"github.com/nathoo/effectcore/engine/state"
	"github.com/nathoo/effectcore/types"
)

// Evaluation failures. Each one skips the single effect that hit it.
var (
	ErrDivisionByZero   = errors.New("division by zero")
	ErrMissingTarget    = errors.New("Target is not bound in this context")
	ErrMissingValue     = errors.New("Value is only defined while writing a meter")
	ErrUnknownObject    = errors.New("unknown object")
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrUnknownMeter     = errors.New("object has no such meter")
	ErrNotFinite        = errors.New("result is not a finite number")
	ErrInvalidExpr      = errors.New("invalid expression")
)

// EvalValue evaluates an expression to a float64.
func EvalValue(e types.ValueExpr, ctx Context) (float64, error) {
	switch e := e.(type) {
	case types.Literal:
		return e.Value, nil

	case types.CurrentValue:
		if !ctx.HasValue {
			return 0, ErrMissingValue
		}
		return ctx.Value, nil

	case types.CurrentTurn:
		return float64(ctx.Turn), nil

	case types.Property:
		obj, err := refObject(e.Ref, ctx)
		if err != nil {
			return 0, err
		}
		return attribute(obj, e.Attr)

	case types.MeterOf:
		obj, err := refObject(e.Ref, ctx)
		if err != nil {
			return 0, err
		}
		m, ok := ctx.Graph.Meter(obj.ID, e.Meter.Key())
		if !ok {
			return 0, fmt.Errorf("%w: %s on object %d", ErrUnknownMeter, e.Meter, obj.ID)
		}
		return m.Get(e.Meter.Field), nil

	case types.Arith:
		l, err := EvalValue(e.Left, ctx)
		if err != nil {
			return 0, err
		}
		r, err := EvalValue(e.Right, ctx)
		if err != nil {
			return 0, err
		}
		return arith(e.Op, l, r)

	case types.PartsInShipDesign:
		id, err := EvalValue(e.Design, ctx)
		if err != nil {
			return 0, err
		}
		d, ok := ctx.Graph.Design(int(id))
		if !ok {
			return 0, nil
		}
		return float64(state.CountParts(d, e.Name)), nil

	case types.Count:
		return float64(len(ResolveScope(e.Condition, ctx))), nil

	case types.Formula:
		return runFormula(e, ctx)

	default:
		return 0, fmt.Errorf("%w: %T", ErrInvalidExpr, e)
	}
}

func refObject(ref types.ObjectRef, ctx Context) (types.Object, error) {
	id := ctx.Source
	if ref == types.RefTarget {
		if ctx.Target == types.NoObject {
			return types.Object{}, ErrMissingTarget
		}
		id = ctx.Target
	}
	obj, ok := ctx.Graph.Object(id)
	if !ok {
		return types.Object{}, fmt.Errorf("%w: %s %d", ErrUnknownObject, ref, id)
	}
	return obj, nil
}

func attribute(obj types.Object, attr types.Attribute) (float64, error) {
	switch attr {
	case types.AttrID:
		return float64(obj.ID), nil
	case types.AttrOwner:
		return float64(obj.Owner), nil
	case types.AttrDesignID:
		return float64(obj.DesignID), nil
	case types.AttrSystemID:
		return float64(obj.SystemID), nil
	case types.AttrFleetID:
		return float64(obj.FleetID), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAttribute, attr)
	}
}

func arith(op types.ArithOp, l, r float64) (float64, error) {
	var v float64
	switch op {
	case types.ArithAdd:
		v = l + r
	case types.ArithSub:
		v = l - r
	case types.ArithMul:
		v = l * r
	case types.ArithDiv:
		if r == 0 {
			return 0, ErrDivisionByZero
		}
		v = l / r
	case types.ArithMin:
		v = math.Min(l, r)
	case types.ArithMax:
		v = math.Max(l, r)
	default:
		return 0, fmt.Errorf("%w: operator %d", ErrInvalidExpr, op)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	return v, nil
}

// UsesCurrentValue reports whether an expression reads Value.
func UsesCurrentValue(e types.ValueExpr) bool {
	switch e := e.(type) {
	case types.CurrentValue:
		return true
	case types.Arith:
		return UsesCurrentValue(e.Left) || UsesCurrentValue(e.Right)
	case types.PartsInShipDesign:
		return UsesCurrentValue(e.Design)
	case types.Formula:
		return formulaUsesValue(e.Source)
	default:
		return false
	}
}
