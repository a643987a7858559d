package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/effectcore/engine/rules"
	"github.com/nathoo/effectcore/types"
)

// normalize picks the combination op for an effect. An explicit mode wins.
// Otherwise "Value + X" and "Value - X" become ADD, "max(Value, X)" becomes
// SET-MAX, and everything else is a SET of the whole expression.
func normalize(value types.ValueExpr, mode string) (types.ValueExpr, types.OpKind, error) {
	switch strings.ToLower(mode) {
	case "":
	case "set":
		return value, types.OpSet, nil
	case "add":
		return value, types.OpAdd, nil
	case "set_max", "set-max", "max":
		return value, types.OpSetMax, nil
	default:
		return nil, 0, fmt.Errorf("unknown mode %q (want set, add or set_max)", mode)
	}

	if x, ok := additive(value); ok {
		return x, types.OpAdd, nil
	}
	if a, ok := value.(types.Arith); ok && a.Op == types.ArithMax {
		if isValue(a.Left) && !rules.UsesCurrentValue(a.Right) {
			return a.Right, types.OpSetMax, nil
		}
		if isValue(a.Right) && !rules.UsesCurrentValue(a.Left) {
			return a.Left, types.OpSetMax, nil
		}
	}
	return value, types.OpSet, nil
}

// additive reports whether e is Value + X for some X that does not read
// Value, and returns X. Chains such as (Value + 2) - 1 fold into one
// increment.
func additive(e types.ValueExpr) (types.ValueExpr, bool) {
	a, ok := e.(types.Arith)
	if !ok {
		return nil, false
	}
	switch a.Op {
	case types.ArithAdd:
		if !rules.UsesCurrentValue(a.Right) {
			if x, ok := increment(a.Left); ok {
				return plus(x, a.Right), true
			}
		}
		if !rules.UsesCurrentValue(a.Left) {
			if x, ok := increment(a.Right); ok {
				return plus(a.Left, x), true
			}
		}
	case types.ArithSub:
		if !rules.UsesCurrentValue(a.Right) {
			if x, ok := increment(a.Left); ok {
				return minus(x, a.Right), true
			}
		}
	}
	return nil, false
}

// increment is additive extended to a bare Value, which adds zero.
func increment(e types.ValueExpr) (types.ValueExpr, bool) {
	if isValue(e) {
		return nil, true
	}
	return additive(e)
}

func isValue(e types.ValueExpr) bool {
	_, ok := e.(types.CurrentValue)
	return ok
}

// plus and minus treat a nil operand as zero.
func plus(x, y types.ValueExpr) types.ValueExpr {
	switch {
	case x == nil:
		return y
	case y == nil:
		return x
	}
	return types.Arith{Op: types.ArithAdd, Left: x, Right: y}
}

func minus(x, y types.ValueExpr) types.ValueExpr {
	if lit, ok := y.(types.Literal); ok && x == nil {
		return types.Literal{Value: -lit.Value}
	}
	if x == nil {
		x = types.Literal{Value: 0}
	}
	return types.Arith{Op: types.ArithSub, Left: x, Right: y}
}
