// Package types defines the shared data structures for the effectcore engine.
// This package contains type definitions, constants and a handful of small
// accessors. Evaluation logic lives in the engine packages.
package types

import "math"

// ObjectID identifies a game object (ship, fleet, planet, system, building,
// empire). IDs are assigned by the simulation and never reused within a game.
type ObjectID int

// NoObject marks an unbound object reference (e.g. no Target in a
// source-only context).
const NoObject ObjectID = -1

// EmpireID identifies an empire.
type EmpireID int

// NoEmpire is the owner of unowned objects.
const NoEmpire EmpireID = -1

// NoLimit is the default upper bound of range conditions.
const NoLimit = math.MaxInt32

// ObjectKind is the kind of a game object.
type ObjectKind string

const (
	KindShip     ObjectKind = "ship"
	KindFleet    ObjectKind = "fleet"
	KindPlanet   ObjectKind = "planet"
	KindSystem   ObjectKind = "system"
	KindBuilding ObjectKind = "building"
	KindEmpire   ObjectKind = "empire"
)

// Object is a node of the object graph. Kind-specific attributes are zero
// (or NoObject) when they do not apply.
type Object struct {
	ID           ObjectID   `json:"id" yaml:"id"`
	Kind         ObjectKind `json:"kind" yaml:"kind"`
	Name         string     `json:"name" yaml:"name"`
	Owner        EmpireID   `json:"owner" yaml:"owner"`
	SystemID     ObjectID   `json:"system" yaml:"system"`
	FleetID      ObjectID   `json:"fleet" yaml:"fleet"`
	DesignID     int        `json:"design" yaml:"design"`
	BuildingType string     `json:"building_type,omitempty" yaml:"building_type"`
}

// ShipDesign lists the hull and parts of a ship design. A part name may
// appear more than once.
type ShipDesign struct {
	ID    int      `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Hull  string   `json:"hull" yaml:"hull"`
	Parts []string `json:"parts" yaml:"parts"`
}

// RecordKind distinguishes unlockable content records.
type RecordKind string

const (
	RecordTech     RecordKind = "tech"
	RecordBuilding RecordKind = "building"
)

// ContentRecord is an authored, immutable unlockable (tech or building).
type ContentRecord struct {
	Name          string
	Kind          RecordKind
	Category      string
	Cost          float64
	Turns         int
	Prerequisites []string
	Tags          []string
	EffectGroups  []EffectGroup
	Order         int // content-load order, the SET tie-break
}

// EffectGroup is a scoped bundle of effects gated by an optional
// activation condition.
type EffectGroup struct {
	Scope           Condition
	Activation      Condition // nil: always active
	AccountingLabel string
	Effects         []Effect
}

// OpKind is how an effect's value combines with other contributions to the
// same meter in a pass.
type OpKind int

const (
	OpSet    OpKind = iota // last writer in content order wins
	OpSetMax               // raise only; max across contributions
	OpAdd                  // summed across contributions
)

func (o OpKind) String() string {
	switch o {
	case OpSet:
		return "SET"
	case OpSetMax:
		return "SET-MAX"
	case OpAdd:
		return "ADD"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the op by name in reports.
func (o OpKind) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses an op name.
func (o *OpKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "SET":
		*o = OpSet
	case "SET-MAX":
		*o = OpSetMax
	case "ADD":
		*o = OpAdd
	default:
		return &UnknownOpError{Name: string(b)}
	}
	return nil
}

// UnknownOpError reports an unrecognised op name.
type UnknownOpError struct{ Name string }

func (e *UnknownOpError) Error() string { return "unknown op kind " + e.Name }

// Effect writes one meter field on each object in scope.
type Effect struct {
	Target MeterRef
	Value  ValueExpr
	Op     OpKind
}

// Precedence orders contributions deterministically: content-load order,
// then group, then source object, then effect position.
type Precedence struct {
	Record int      `json:"record"`
	Group  int      `json:"group"`
	Source ObjectID `json:"source"`
	Effect int      `json:"effect"`
}

// Less reports whether p sorts before q.
func (p Precedence) Less(q Precedence) bool {
	if p.Record != q.Record {
		return p.Record < q.Record
	}
	if p.Group != q.Group {
		return p.Group < q.Group
	}
	if p.Source != q.Source {
		return p.Source < q.Source
	}
	return p.Effect < q.Effect
}

// AccountingEntry is one contribution to one meter field in one pass.
// Value is what the effect evaluated to; Delta is the change it is credited
// with once all contributions to that meter have been combined.
type AccountingEntry struct {
	Record     string     `json:"record"`
	Label      string     `json:"label"`
	Object     ObjectID   `json:"object"`
	Source     ObjectID   `json:"source"`
	Meter      MeterRef   `json:"meter"`
	Op         OpKind     `json:"op"`
	Value      float64    `json:"value"`
	Delta      float64    `json:"delta"`
	Precedence Precedence `json:"precedence"`
}

// DiagnosticKind classifies problems found while loading or evaluating.
type DiagnosticKind string

const (
	AuthoringError    DiagnosticKind = "authoring_error"
	EvaluationWarning DiagnosticKind = "evaluation_warning"
	ArithmeticWarning DiagnosticKind = "arithmetic_warning"
)

// Diagnostic is a recoverable problem attributed to a record and label.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Record  string         `json:"record,omitempty"`
	Label   string         `json:"label,omitempty"`
	Object  ObjectID       `json:"object"`
	Meter   string         `json:"meter,omitempty"`
	Message string         `json:"message"`
}

// Intent is a parsed console command.
type Intent struct {
	Verb   string
	Object string // optional
	Target string // optional
}
