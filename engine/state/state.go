// Package state holds the object graph and its meter store. The simulation
// owns object lifecycle; the engine only observes objects and writes meters.
package state

import (
	"fmt"
	"sort"

	"github.com/nathoo/effectcore/types"
)

// Universe is the object graph queried by conditions: objects, ship designs
// and the meters attached to objects.
type Universe struct {
	objects map[types.ObjectID]types.Object
	designs map[int]types.ShipDesign
	empires map[types.EmpireID]types.ObjectID
	Meters  *MeterStore
}

// NewUniverse creates an empty universe.
func NewUniverse() *Universe {
	return &Universe{
		objects: map[types.ObjectID]types.Object{},
		designs: map[int]types.ShipDesign{},
		empires: map[types.EmpireID]types.ObjectID{},
		Meters:  NewMeterStore(),
	}
}

// AddDesign registers a ship design. Designs must be added before ships that
// use them.
func (u *Universe) AddDesign(d types.ShipDesign) error {
	if _, ok := u.designs[d.ID]; ok {
		return fmt.Errorf("duplicate design id %d", d.ID)
	}
	d.Parts = append([]string(nil), d.Parts...)
	u.designs[d.ID] = d
	return nil
}

// AddObject registers an object. Ships get a capacity and secondary-stat
// meter per distinct part of their design; empire objects become the
// source object of their empire.
func (u *Universe) AddObject(obj types.Object) error {
	if _, ok := u.objects[obj.ID]; ok {
		return fmt.Errorf("duplicate object id %d", obj.ID)
	}
	switch obj.Kind {
	case types.KindShip:
		d, ok := u.designs[obj.DesignID]
		if !ok {
			return fmt.Errorf("ship %d references undefined design %d", obj.ID, obj.DesignID)
		}
		for _, part := range d.Parts {
			for _, m := range types.PartMeters {
				u.Meters.Ensure(obj.ID, types.MeterKey{Meter: m, Part: part})
			}
		}
	case types.KindEmpire:
		if obj.Owner == types.NoEmpire {
			return fmt.Errorf("empire object %d has no empire id", obj.ID)
		}
		if prev, ok := u.empires[obj.Owner]; ok {
			return fmt.Errorf("empire %d already has object %d", obj.Owner, prev)
		}
		u.empires[obj.Owner] = obj.ID
	}
	u.objects[obj.ID] = obj
	return nil
}

// RemoveObject drops an object and its meters (destroyed ship, lost colony).
func (u *Universe) RemoveObject(id types.ObjectID) {
	obj, ok := u.objects[id]
	if !ok {
		return
	}
	if obj.Kind == types.KindEmpire {
		delete(u.empires, obj.Owner)
	}
	delete(u.objects, id)
	u.Meters.Remove(id)
}

// Object returns an object by ID.
func (u *Universe) Object(id types.ObjectID) (types.Object, bool) {
	obj, ok := u.objects[id]
	return obj, ok
}

// Design returns a ship design by ID.
func (u *Universe) Design(id int) (types.ShipDesign, bool) {
	d, ok := u.designs[id]
	return d, ok
}

// Objects returns every object ID in ascending order.
func (u *Universe) Objects() []types.ObjectID {
	ids := make([]types.ObjectID, 0, len(u.objects))
	for id := range u.objects {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// ObjectsOfKind returns the IDs of all objects of a kind in ascending order.
func (u *Universe) ObjectsOfKind(kind types.ObjectKind) []types.ObjectID {
	var ids []types.ObjectID
	for id, obj := range u.objects {
		if obj.Kind == kind {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids
}

// OwnedBy returns the IDs of objects of a kind owned by an empire. An empty
// kind matches every kind.
func (u *Universe) OwnedBy(empire types.EmpireID, kind types.ObjectKind) []types.ObjectID {
	var ids []types.ObjectID
	for id, obj := range u.objects {
		if obj.Owner == empire && (kind == "" || obj.Kind == kind) {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids
}

// EmpireObject returns the object that represents an empire.
func (u *Universe) EmpireObject(empire types.EmpireID) (types.ObjectID, bool) {
	id, ok := u.empires[empire]
	return id, ok
}

// Empires returns every empire with an empire object, ascending.
func (u *Universe) Empires() []types.EmpireID {
	ids := make([]types.EmpireID, 0, len(u.empires))
	for id := range u.empires {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Meter returns the pre-pass value of a meter. Conditions and value
// expressions read this frozen value, never the effective one.
func (u *Universe) Meter(id types.ObjectID, key types.MeterKey) (types.Meter, bool) {
	return u.Meters.Initial(id, key)
}

// CountParts returns how many copies of part a design holds. An empty part
// name counts every part.
func CountParts(d types.ShipDesign, part string) int {
	if part == "" {
		return len(d.Parts)
	}
	n := 0
	for _, p := range d.Parts {
		if p == part {
			n++
		}
	}
	return n
}

func sortIDs(ids []types.ObjectID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
