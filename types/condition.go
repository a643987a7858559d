package types

// Condition is a predicate over a candidate object, evaluated relative to a
// Source (and, inside value expressions, a Target). The set of variants is
// closed: only types in this file implement it.
type Condition interface {
	condition()
}

// All matches every candidate.
type All struct{}

// None matches nothing.
type None struct{}

// OfKind matches objects of one kind. An unknown kind matches nothing.
type OfKind struct {
	Kind ObjectKind
}

// OwnedBy matches objects owned by the empire the expression evaluates to.
type OwnedBy struct {
	Empire ValueExpr
}

// Unowned matches objects with no owner.
type Unowned struct{}

// DesignHasPart matches ships whose design holds between Low and High
// (inclusive) copies of the named part. An empty Name counts all parts.
// Leaving both bounds zero means at least one copy.
type DesignHasPart struct {
	Name string
	Low  int
	High int
}

// Bounds returns the inclusive copy range, applying the zero-value default.
func (c DesignHasPart) Bounds() (low, high int) {
	if c.Low == 0 && c.High == 0 {
		return 1, NoLimit
	}
	return c.Low, c.High
}

// And matches candidates that satisfy every operand. No operands: all.
type And struct {
	Operands []Condition
}

// Or matches candidates that satisfy any operand. No operands: none.
type Or struct {
	Operands []Condition
}

// Not matches candidates that do not satisfy Operand.
type Not struct {
	Operand Condition
}

// IsSource matches the evaluation's Source object.
type IsSource struct{}

// HasID matches the object whose ID the expression evaluates to.
type HasID struct {
	ID ValueExpr
}

// InSystem matches objects located in the system the expression evaluates to.
type InSystem struct {
	System ValueExpr
}

// MeterInRange matches objects whose pre-pass meter field lies in [Low, High].
// Objects without the meter do not match. Leaving both bounds zero matches
// any value.
type MeterInRange struct {
	Meter MeterRef
	Low   float64
	High  float64
}

// Bounds returns the inclusive value range, applying the zero-value default.
func (c MeterInRange) Bounds() (low, high float64) {
	if c.Low == 0 && c.High == 0 {
		return -NoLimit, NoLimit
	}
	return c.Low, c.High
}

// TurnInRange matches when the current turn lies in [Low, High]. Leaving
// both bounds zero matches every turn.
type TurnInRange struct {
	Low  int
	High int
}

// Bounds returns the inclusive turn range, applying the zero-value default.
func (c TurnInRange) Bounds() (low, high int) {
	if c.Low == 0 && c.High == 0 {
		return 0, NoLimit
	}
	return c.Low, c.High
}

// OwnerHasUnlocked matches objects whose owner has unlocked the named record.
type OwnerHasUnlocked struct {
	Record string
}

func (All) condition()              {}
func (None) condition()             {}
func (OfKind) condition()           {}
func (OwnedBy) condition()          {}
func (Unowned) condition()          {}
func (DesignHasPart) condition()    {}
func (And) condition()              {}
func (Or) condition()               {}
func (Not) condition()              {}
func (IsSource) condition()         {}
func (HasID) condition()            {}
func (InSystem) condition()         {}
func (MeterInRange) condition()     {}
func (TurnInRange) condition()      {}
func (OwnerHasUnlocked) condition() {}
