package types

import "github.com/expr-lang/expr/vm"

// ValueExpr is an arithmetic expression tree. The set of variants is closed.
type ValueExpr interface {
	valueExpr()
}

// ObjectRef selects which bound object a reference reads from.
type ObjectRef int

const (
	RefSource ObjectRef = iota
	RefTarget
)

func (r ObjectRef) String() string {
	if r == RefTarget {
		return "Target"
	}
	return "Source"
}

// Attribute is a numeric object attribute readable from expressions.
type Attribute string

const (
	AttrID       Attribute = "ID"
	AttrOwner    Attribute = "Owner"
	AttrDesignID Attribute = "DesignID"
	AttrSystemID Attribute = "SystemID"
	AttrFleetID  Attribute = "FleetID"
)

// ArithOp is a binary arithmetic operator.
type ArithOp int

const (
	ArithAdd ArithOp = iota
	ArithSub
	ArithMul
	ArithDiv
	ArithMin
	ArithMax
)

func (o ArithOp) String() string {
	switch o {
	case ArithAdd:
		return "+"
	case ArithSub:
		return "-"
	case ArithMul:
		return "*"
	case ArithDiv:
		return "/"
	case ArithMin:
		return "min"
	case ArithMax:
		return "max"
	default:
		return "?"
	}
}

// Literal is a constant.
type Literal struct {
	Value float64
}

// CurrentValue is the pre-pass value of the meter field being written.
type CurrentValue struct{}

// Property reads an attribute of Source or Target.
type Property struct {
	Ref  ObjectRef
	Attr Attribute
}

// MeterOf reads a pre-pass meter field of Source or Target.
type MeterOf struct {
	Ref   ObjectRef
	Meter MeterRef
}

// Arith combines two operands.
type Arith struct {
	Op    ArithOp
	Left  ValueExpr
	Right ValueExpr
}

// PartsInShipDesign counts copies of a part in the design the Design
// expression evaluates to. Unknown designs count zero.
type PartsInShipDesign struct {
	Name   string
	Design ValueExpr
}

// Count is the number of objects matching a condition.
type Count struct {
	Condition Condition
}

// CurrentTurn is the turn being evaluated.
type CurrentTurn struct{}

// Formula is an expr-lang expression compiled at load time.
type Formula struct {
	Source  string
	Program *vm.Program
}

func (Literal) valueExpr()           {}
func (CurrentValue) valueExpr()      {}
func (Property) valueExpr()          {}
func (MeterOf) valueExpr()           {}
func (Arith) valueExpr()             {}
func (PartsInShipDesign) valueExpr() {}
func (Count) valueExpr()             {}
func (CurrentTurn) valueExpr()       {}
func (Formula) valueExpr()           {}
