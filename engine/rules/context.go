// Package rules evaluates conditions and value expressions against the
// object graph.
package rules

import "github.com/nathoo/effectcore/types"

// Graph is the read-only object graph the evaluators query.
type Graph interface {
	Objects() []types.ObjectID
	ObjectsOfKind(kind types.ObjectKind) []types.ObjectID
	Object(id types.ObjectID) (types.Object, bool)
	Design(id int) (types.ShipDesign, bool)
	Meter(id types.ObjectID, key types.MeterKey) (types.Meter, bool)
}

// Unlocks answers whether an empire has unlocked a content record.
type Unlocks interface {
	IsUnlocked(empire types.EmpireID, record string, turn int) bool
}

// Context carries everything an evaluation may reference. Source, Target and
// Value are explicit; nothing is read from ambient state.
type Context struct {
	Graph   Graph
	Unlocks Unlocks // may be nil; OwnerHasUnlocked then never matches
	Turn    int

	Source types.ObjectID
	Target types.ObjectID // types.NoObject when unbound

	Value    float64
	HasValue bool
}

// NewContext returns a context with no Target or Value bound.
func NewContext(g Graph, unlocks Unlocks, turn int, source types.ObjectID) Context {
	return Context{
		Graph:   g,
		Unlocks: unlocks,
		Turn:    turn,
		Source:  source,
		Target:  types.NoObject,
	}
}

// WithTarget binds Target.
func (c Context) WithTarget(id types.ObjectID) Context {
	c.Target = id
	return c
}

// WithValue binds Value, the pre-image of the meter field being written.
func (c Context) WithValue(v float64) Context {
	c.Value = v
	c.HasValue = true
	return c
}
