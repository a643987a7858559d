package state

import (
	"sort"

	"github.com/nathoo/effectcore/types"
)

// MeterStore keeps two layers per meter: the initial value supplied by the
// simulation before the pass, and the effective value produced by the last
// merge. Effects never read the effective layer.
type MeterStore struct {
	initial   map[types.ObjectID]map[types.MeterKey]types.Meter
	effective map[types.ObjectID]map[types.MeterKey]types.Meter
}

// NewMeterStore creates an empty store.
func NewMeterStore() *MeterStore {
	return &MeterStore{
		initial:   map[types.ObjectID]map[types.MeterKey]types.Meter{},
		effective: map[types.ObjectID]map[types.MeterKey]types.Meter{},
	}
}

// Ensure creates a zero meter if it does not exist yet.
func (s *MeterStore) Ensure(id types.ObjectID, key types.MeterKey) {
	if _, ok := s.Initial(id, key); ok {
		return
	}
	s.SetInitial(id, key, types.Meter{})
}

// SetInitial sets the pre-pass value of a meter, creating it if needed.
func (s *MeterStore) SetInitial(id types.ObjectID, key types.MeterKey, m types.Meter) {
	if s.initial[id] == nil {
		s.initial[id] = map[types.MeterKey]types.Meter{}
	}
	s.initial[id][key] = m
	if s.effective[id] == nil {
		s.effective[id] = map[types.MeterKey]types.Meter{}
	}
	s.effective[id][key] = m
}

// Initial returns the pre-pass value of a meter.
func (s *MeterStore) Initial(id types.ObjectID, key types.MeterKey) (types.Meter, bool) {
	m, ok := s.initial[id][key]
	return m, ok
}

// Effective returns the value produced by the last merge (the initial value
// before any pass).
func (s *MeterStore) Effective(id types.ObjectID, key types.MeterKey) (types.Meter, bool) {
	m, ok := s.effective[id][key]
	return m, ok
}

// Has reports whether an object carries a meter.
func (s *MeterStore) Has(id types.ObjectID, key types.MeterKey) bool {
	_, ok := s.initial[id][key]
	return ok
}

// Keys returns an object's meter keys in a stable order.
func (s *MeterStore) Keys(id types.ObjectID) []types.MeterKey {
	keys := make([]types.MeterKey, 0, len(s.initial[id]))
	for k := range s.initial[id] {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Meter != keys[j].Meter {
			return keys[i].Meter < keys[j].Meter
		}
		return keys[i].Part < keys[j].Part
	})
	return keys
}

// Remove drops all meters of an object.
func (s *MeterStore) Remove(id types.ObjectID) {
	delete(s.initial, id)
	delete(s.effective, id)
}

// Reset discards the effective layer, restoring every meter to its initial
// value. Called at the start of each merge.
func (s *MeterStore) Reset() {
	s.effective = make(map[types.ObjectID]map[types.MeterKey]types.Meter, len(s.initial))
	for id, meters := range s.initial {
		cp := make(map[types.MeterKey]types.Meter, len(meters))
		for k, m := range meters {
			cp[k] = m
		}
		s.effective[id] = cp
	}
}

// Write stores a combined value into one effective field. It is the only
// mutation path for effects and returns false for meters the object does not
// carry.
func (s *MeterStore) Write(id types.ObjectID, ref types.MeterRef, v float64) bool {
	key := ref.Key()
	m, ok := s.effective[id][key]
	if !ok {
		return false
	}
	s.effective[id][key] = m.With(ref.Field, v)
	return true
}

// Snapshot copies the effective layer.
func (s *MeterStore) Snapshot() map[types.ObjectID]map[types.MeterKey]types.Meter {
	out := make(map[types.ObjectID]map[types.MeterKey]types.Meter, len(s.effective))
	for id, meters := range s.effective {
		cp := make(map[types.MeterKey]types.Meter, len(meters))
		for k, m := range meters {
			cp[k] = m
		}
		out[id] = cp
	}
	return out
}
