// Package scenario reads a YAML universe fixture: ship designs, empires,
// objects, initial meters and unlocks. Scenarios stand in for the
// simulation when running passes from the command line and in tests.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/effectcore/engine/content"
	"github.com/nathoo/effectcore/engine/state"
	"github.com/nathoo/effectcore/types"
)

// File is the on-disk scenario layout.
type File struct {
	Name    string             `yaml:"name"`
	Turn    int                `yaml:"turn"`
	Designs []types.ShipDesign `yaml:"designs"`
	Empires []Empire           `yaml:"empires"`
	Objects []Object           `yaml:"objects"`
	Meters  []Meter            `yaml:"meters"`
	Unlocks []Unlock           `yaml:"unlocks"`
}

// Empire declares an empire and the object that represents it.
type Empire struct {
	ID     types.EmpireID `yaml:"id"`
	Name   string         `yaml:"name"`
	Object types.ObjectID `yaml:"object"`
}

// Object is a universe object. Owner, system and fleet are optional;
// missing means unowned or not located.
type Object struct {
	ID           types.ObjectID   `yaml:"id"`
	Kind         types.ObjectKind `yaml:"kind"`
	Name         string           `yaml:"name"`
	Owner        *types.EmpireID  `yaml:"owner"`
	System       *types.ObjectID  `yaml:"system"`
	Fleet        *types.ObjectID  `yaml:"fleet"`
	Design       int              `yaml:"design"`
	BuildingType string           `yaml:"building_type"`
}

// Meter sets the initial value of one meter, named as in
// "secondary_stat@FT_HANGAR_2".
type Meter struct {
	Object  types.ObjectID `yaml:"object"`
	Meter   string         `yaml:"meter"`
	Current float64        `yaml:"current"`
	Max     float64        `yaml:"max"`
}

// Unlock grants a record to an empire from a turn on.
type Unlock struct {
	Empire types.EmpireID `yaml:"empire"`
	Record string         `yaml:"record"`
	Turn   int            `yaml:"turn"`
}

// Scenario is a built universe ready for the engine.
type Scenario struct {
	Name     string
	Turn     int
	Universe *state.Universe
	Unlocks  *content.UnlockTable
	records  []string // every unlocked record name, for CheckRecords
}

// Load reads and builds a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	sc, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a scenario, rejecting unknown fields, and builds it.
func Parse(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return f.Build()
}

// Build creates the universe and unlock table the file describes.
func (f *File) Build() (*Scenario, error) {
	u := state.NewUniverse()
	for _, d := range f.Designs {
		if err := u.AddDesign(d); err != nil {
			return nil, err
		}
	}

	for _, emp := range f.Empires {
		if emp.ID < 0 {
			return nil, fmt.Errorf("empire %q has negative id %d", emp.Name, emp.ID)
		}
		obj := types.Object{
			ID:       emp.Object,
			Kind:     types.KindEmpire,
			Name:     emp.Name,
			Owner:    emp.ID,
			SystemID: types.NoObject,
			FleetID:  types.NoObject,
		}
		if err := u.AddObject(obj); err != nil {
			return nil, fmt.Errorf("empire %q: %w", emp.Name, err)
		}
	}

	for _, o := range f.Objects {
		obj, err := o.build()
		if err != nil {
			return nil, err
		}
		if err := u.AddObject(obj); err != nil {
			return nil, err
		}
	}

	for _, m := range f.Meters {
		if _, ok := u.Object(m.Object); !ok {
			return nil, fmt.Errorf("meter %s on undefined object %d", m.Meter, m.Object)
		}
		ref, err := types.ParseMeterRef(m.Meter)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", m.Object, err)
		}
		if ref.Field == types.FieldMax {
			return nil, fmt.Errorf("object %d: meter %q names a field; give current and max instead", m.Object, m.Meter)
		}
		u.Meters.SetInitial(m.Object, ref.Key(), types.Meter{Current: m.Current, Max: m.Max})
	}

	sc := &Scenario{Name: f.Name, Turn: f.Turn, Universe: u, Unlocks: content.NewUnlockTable()}
	for _, un := range f.Unlocks {
		if _, ok := u.EmpireObject(un.Empire); !ok {
			return nil, fmt.Errorf("unlock %s for undefined empire %d", un.Record, un.Empire)
		}
		sc.Unlocks.Unlock(un.Empire, un.Record, un.Turn)
		sc.records = append(sc.records, un.Record)
	}
	return sc, nil
}

func (o Object) build() (types.Object, error) {
	switch o.Kind {
	case types.KindShip, types.KindFleet, types.KindPlanet, types.KindSystem, types.KindBuilding:
	case types.KindEmpire:
		return types.Object{}, fmt.Errorf("object %d: declare empires under empires", o.ID)
	default:
		return types.Object{}, fmt.Errorf("object %d has unknown kind %q", o.ID, o.Kind)
	}
	if o.Kind == types.KindBuilding && o.BuildingType == "" {
		return types.Object{}, fmt.Errorf("building %d has no building_type", o.ID)
	}
	obj := types.Object{
		ID:           o.ID,
		Kind:         o.Kind,
		Name:         o.Name,
		Owner:        types.NoEmpire,
		SystemID:     types.NoObject,
		FleetID:      types.NoObject,
		DesignID:     o.Design,
		BuildingType: o.BuildingType,
	}
	if o.Owner != nil {
		obj.Owner = *o.Owner
	}
	if o.System != nil {
		obj.SystemID = *o.System
	}
	if o.Fleet != nil {
		obj.FleetID = *o.Fleet
	}
	return obj, nil
}

// CheckRecords reports unlocks that name records the registry does not
// hold.
func (s *Scenario) CheckRecords(reg *content.Registry) error {
	var errs []error
	for _, name := range s.records {
		if _, ok := reg.Get(name); !ok {
			errs = append(errs, fmt.Errorf("unlock names unknown record %q", name))
		}
	}
	return errors.Join(errs...)
}
