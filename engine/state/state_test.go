package state

import (
	"reflect"
	"testing"

	"github.com/nathoo/effectcore/types"
)

func testUniverse(t *testing.T) *Universe {
	t.Helper()
	u := NewUniverse()
	if err := u.AddDesign(types.ShipDesign{ID: 1, Name: "Carrier", Parts: []string{"FT_HANGAR_2", "FT_HANGAR_2", "FT_BAY_1"}}); err != nil {
		t.Fatal(err)
	}
	for _, o := range []types.Object{
		{ID: 1, Kind: types.KindEmpire, Name: "Terrans", Owner: 1},
		{ID: 5, Kind: types.KindPlanet, Name: "Earth", Owner: 1},
		{ID: 3, Kind: types.KindShip, Name: "Valiant", Owner: 1, DesignID: 1},
		{ID: 4, Kind: types.KindShip, Name: "Raider", Owner: 2, DesignID: 1},
	} {
		if err := u.AddObject(o); err != nil {
			t.Fatal(err)
		}
	}
	return u
}

func TestAddObject_ShipGetsPartMeters(t *testing.T) {
	u := testUniverse(t)

	want := []types.MeterKey{
		{Meter: types.MeterCapacity, Part: "FT_BAY_1"},
		{Meter: types.MeterCapacity, Part: "FT_HANGAR_2"},
		{Meter: types.MeterSecondaryStat, Part: "FT_BAY_1"},
		{Meter: types.MeterSecondaryStat, Part: "FT_HANGAR_2"},
	}
	if got := u.Meters.Keys(3); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys(3) = %v, want %v", got, want)
	}
}

func TestAddObject_Errors(t *testing.T) {
	u := testUniverse(t)

	tests := []struct {
		name string
		obj  types.Object
	}{
		{"duplicate id", types.Object{ID: 3, Kind: types.KindPlanet}},
		{"undefined design", types.Object{ID: 9, Kind: types.KindShip, DesignID: 42}},
		{"empire without id", types.Object{ID: 10, Kind: types.KindEmpire, Owner: types.NoEmpire}},
		{"second empire object", types.Object{ID: 11, Kind: types.KindEmpire, Owner: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := u.AddObject(tt.obj); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestAddDesign_Duplicate(t *testing.T) {
	u := testUniverse(t)
	if err := u.AddDesign(types.ShipDesign{ID: 1}); err == nil {
		t.Error("expected duplicate design error")
	}
}

func TestAddDesign_CopiesParts(t *testing.T) {
	u := NewUniverse()
	parts := []string{"A", "B"}
	if err := u.AddDesign(types.ShipDesign{ID: 7, Parts: parts}); err != nil {
		t.Fatal(err)
	}
	parts[0] = "Z"
	d, _ := u.Design(7)
	if d.Parts[0] != "A" {
		t.Errorf("design parts aliased caller slice: %v", d.Parts)
	}
}

func TestQueries(t *testing.T) {
	u := testUniverse(t)

	if got, want := u.Objects(), []types.ObjectID{1, 3, 4, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("Objects() = %v, want %v", got, want)
	}
	if got, want := u.ObjectsOfKind(types.KindShip), []types.ObjectID{3, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("ObjectsOfKind(ship) = %v, want %v", got, want)
	}
	if got, want := u.OwnedBy(1, ""), []types.ObjectID{1, 3, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("OwnedBy(1) = %v, want %v", got, want)
	}
	if got, want := u.OwnedBy(1, types.KindShip), []types.ObjectID{3}; !reflect.DeepEqual(got, want) {
		t.Errorf("OwnedBy(1, ship) = %v, want %v", got, want)
	}
	if id, ok := u.EmpireObject(1); !ok || id != 1 {
		t.Errorf("EmpireObject(1) = %d, %v", id, ok)
	}
	if _, ok := u.EmpireObject(2); ok {
		t.Error("empire 2 has no empire object")
	}
	if got := u.Empires(); !reflect.DeepEqual(got, []types.EmpireID{1}) {
		t.Errorf("Empires() = %v", got)
	}
}

func TestRemoveObject(t *testing.T) {
	u := testUniverse(t)
	u.RemoveObject(3)
	u.RemoveObject(1)
	u.RemoveObject(99) // no-op

	if _, ok := u.Object(3); ok {
		t.Error("ship 3 still present")
	}
	if len(u.Meters.Keys(3)) != 0 {
		t.Error("ship 3 meters not removed")
	}
	if _, ok := u.EmpireObject(1); ok {
		t.Error("empire mapping not removed")
	}
}

func TestCountParts(t *testing.T) {
	d := types.ShipDesign{Parts: []string{"FT_HANGAR_2", "FT_HANGAR_2", "FT_BAY_1"}}
	tests := []struct {
		part string
		want int
	}{
		{"FT_HANGAR_2", 2},
		{"FT_BAY_1", 1},
		{"FT_HANGAR_1", 0},
		{"ft_hangar_2", 0},
		{"", 3},
	}
	for _, tt := range tests {
		if got := CountParts(d, tt.part); got != tt.want {
			t.Errorf("CountParts(%q) = %d, want %d", tt.part, got, tt.want)
		}
	}
}

func TestMeterStore_Layers(t *testing.T) {
	s := NewMeterStore()
	key := types.MeterKey{Meter: types.MeterCapacity, Part: "FT_HANGAR_2"}
	maxRef := types.MeterRef{Meter: types.MeterCapacity, Part: "FT_HANGAR_2", Field: types.FieldMax}

	s.SetInitial(1, key, types.Meter{Current: 3, Max: 5})
	if !s.Write(1, maxRef, 7) {
		t.Fatal("Write returned false for existing meter")
	}

	if m, _ := s.Initial(1, key); m.Max != 5 {
		t.Errorf("initial max = %v, want 5", m.Max)
	}
	if m, _ := s.Effective(1, key); m.Max != 7 || m.Current != 3 {
		t.Errorf("effective = %+v, want {3 7}", m)
	}

	snap := s.Snapshot()
	s.Reset()
	if m, _ := s.Effective(1, key); m.Max != 5 {
		t.Errorf("after Reset effective max = %v, want 5", m.Max)
	}
	if snap[1][key].Max != 7 {
		t.Errorf("snapshot changed by Reset: %+v", snap[1][key])
	}
}

func TestMeterStore_WriteUnknownMeter(t *testing.T) {
	s := NewMeterStore()
	if s.Write(1, types.MeterRef{Meter: types.MeterStructure}, 1) {
		t.Error("Write to a missing meter should fail")
	}
	if s.Has(1, types.MeterKey{Meter: types.MeterStructure}) {
		t.Error("failed Write created a meter")
	}
}

func TestMeterStore_EnsureKeepsExisting(t *testing.T) {
	s := NewMeterStore()
	key := types.MeterKey{Meter: types.MeterFuel}
	s.SetInitial(1, key, types.Meter{Current: 2, Max: 4})
	s.Ensure(1, key)
	if m, _ := s.Initial(1, key); m.Max != 4 {
		t.Errorf("Ensure overwrote meter: %+v", m)
	}
}
