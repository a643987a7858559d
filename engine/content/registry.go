// Package content holds the loaded content records and decides which of
// their effect groups are active for an empire.
package content

import (
	"fmt"
	"strings"

	"github.com/nathoo/effectcore/types"
)

// Registry is the set of loaded content records, in load order. Records are
// immutable once added.
type Registry struct {
	byName  map[string]*types.ContentRecord
	ordered []*types.ContentRecord
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]*types.ContentRecord{}}
}

// Add registers a record and stamps its load order.
func (r *Registry) Add(rec types.ContentRecord) error {
	if rec.Name == "" {
		return fmt.Errorf("content record has no name")
	}
	if _, ok := r.byName[rec.Name]; ok {
		return fmt.Errorf("duplicate content record %q", rec.Name)
	}
	rec.Order = len(r.ordered)
	p := &rec
	r.byName[rec.Name] = p
	r.ordered = append(r.ordered, p)
	return nil
}

// Get returns a record by exact name.
func (r *Registry) Get(name string) (*types.ContentRecord, bool) {
	rec, ok := r.byName[name]
	return rec, ok
}

// Lookup finds a record by name, falling back to a case-insensitive match
// for names typed at the console.
func (r *Registry) Lookup(name string) (*types.ContentRecord, bool) {
	if rec, ok := r.byName[name]; ok {
		return rec, true
	}
	for _, rec := range r.ordered {
		if strings.EqualFold(rec.Name, name) {
			return rec, true
		}
	}
	return nil, false
}

// Records returns every record in load order.
func (r *Registry) Records() []*types.ContentRecord {
	return append([]*types.ContentRecord(nil), r.ordered...)
}

// Len returns the number of records.
func (r *Registry) Len() int { return len(r.ordered) }

// Locator finds the objects that act as Source for content effects.
type Locator interface {
	EmpireObject(empire types.EmpireID) (types.ObjectID, bool)
	OwnedBy(empire types.EmpireID, kind types.ObjectKind) []types.ObjectID
	Object(id types.ObjectID) (types.Object, bool)
}

// Unlocker answers whether an empire has a record unlocked at a turn.
type Unlocker interface {
	IsUnlocked(empire types.EmpireID, record string, turn int) bool
}

// ActiveGroup is one effect group bound to the object it runs from.
type ActiveGroup struct {
	Record *types.ContentRecord
	Index  int
	Group  *types.EffectGroup
	Source types.ObjectID
}

// Label is the group's accounting label, defaulting to the record name.
func (ag ActiveGroup) Label() string {
	if ag.Group != nil && ag.Group.AccountingLabel != "" {
		return ag.Group.AccountingLabel
	}
	if ag.Record == nil {
		return ""
	}
	return ag.Record.Name
}

// ActiveEffectGroups returns the effect groups an empire contributes this
// turn. A tech runs from the empire object once unlocked. A building record
// runs once from every building of that type the empire owns; having built
// it is what unlocks it. Groups come out in load order.
func (r *Registry) ActiveEffectGroups(empire types.EmpireID, turn int, unlocks Unlocker, loc Locator) []ActiveGroup {
	var out []ActiveGroup
	for _, rec := range r.ordered {
		for _, src := range r.sources(rec, empire, turn, unlocks, loc) {
			for i := range rec.EffectGroups {
				out = append(out, ActiveGroup{
					Record: rec,
					Index:  i,
					Group:  &rec.EffectGroups[i],
					Source: src,
				})
			}
		}
	}
	return out
}

// AllActive gathers the active groups of every empire.
func (r *Registry) AllActive(empires []types.EmpireID, turn int, unlocks Unlocker, loc Locator) []ActiveGroup {
	var out []ActiveGroup
	for _, e := range empires {
		out = append(out, r.ActiveEffectGroups(e, turn, unlocks, loc)...)
	}
	return out
}

func (r *Registry) sources(rec *types.ContentRecord, empire types.EmpireID, turn int, unlocks Unlocker, loc Locator) []types.ObjectID {
	switch rec.Kind {
	case types.RecordBuilding:
		var ids []types.ObjectID
		for _, id := range loc.OwnedBy(empire, types.KindBuilding) {
			if obj, ok := loc.Object(id); ok && obj.BuildingType == rec.Name {
				ids = append(ids, id)
			}
		}
		return ids
	default:
		if unlocks == nil || !unlocks.IsUnlocked(empire, rec.Name, turn) {
			return nil
		}
		id, ok := loc.EmpireObject(empire)
		if !ok {
			return nil
		}
		return []types.ObjectID{id}
	}
}
