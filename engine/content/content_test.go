package content

import (
	"strconv"
	"testing"

	"github.com/nathoo/effectcore/engine/state"
	"github.com/nathoo/effectcore/types"
)

func group(label string) types.EffectGroup {
	return types.EffectGroup{Scope: types.All{}, AccountingLabel: label}
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	recs := []types.ContentRecord{
		{Name: "SHP_FIGHTERS_3", Kind: types.RecordTech, EffectGroups: []types.EffectGroup{group("a"), group("b")}},
		{Name: "BLD_SHIPYARD_BASE", Kind: types.RecordBuilding, EffectGroups: []types.EffectGroup{group("yard")}},
		{Name: "DEF_ROOT_DEFENSE", Kind: types.RecordTech, EffectGroups: []types.EffectGroup{group("def")}},
	}
	for _, rec := range recs {
		if err := r.Add(rec); err != nil {
			t.Fatal(err)
		}
	}
	return r
}

func testUniverse(t *testing.T) *state.Universe {
	t.Helper()
	u := state.NewUniverse()
	for _, o := range []types.Object{
		{ID: 1, Kind: types.KindEmpire, Owner: 1},
		{ID: 2, Kind: types.KindEmpire, Owner: 2},
		{ID: 40, Kind: types.KindBuilding, Owner: 1, BuildingType: "BLD_SHIPYARD_BASE"},
		{ID: 41, Kind: types.KindBuilding, Owner: 1, BuildingType: "BLD_SHIPYARD_BASE"},
		{ID: 42, Kind: types.KindBuilding, Owner: 2, BuildingType: "BLD_MILITARY_COMMAND"},
	} {
		if err := u.AddObject(o); err != nil {
			t.Fatal(err)
		}
	}
	return u
}

func TestRegistry_AddAndLookup(t *testing.T) {
	r := testRegistry(t)

	if err := r.Add(types.ContentRecord{Name: "SHP_FIGHTERS_3"}); err == nil {
		t.Error("expected duplicate error")
	}
	if err := r.Add(types.ContentRecord{}); err == nil {
		t.Error("expected error for unnamed record")
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}

	rec, ok := r.Get("DEF_ROOT_DEFENSE")
	if !ok || rec.Order != 2 {
		t.Errorf("Get = %+v, %v; want order 2", rec, ok)
	}
	if _, ok := r.Get("shp_fighters_3"); ok {
		t.Error("Get should be case sensitive")
	}
	if rec, ok := r.Lookup("shp_fighters_3"); !ok || rec.Name != "SHP_FIGHTERS_3" {
		t.Errorf("Lookup fallback failed: %v", rec)
	}
	if _, ok := r.Lookup("NOPE"); ok {
		t.Error("Lookup found a missing record")
	}

	names := []string{}
	for _, rec := range r.Records() {
		names = append(names, rec.Name)
	}
	if len(names) != 3 || names[0] != "SHP_FIGHTERS_3" || names[2] != "DEF_ROOT_DEFENSE" {
		t.Errorf("Records() order = %v", names)
	}
}

func TestActiveEffectGroups(t *testing.T) {
	r := testRegistry(t)
	u := testUniverse(t)
	unlocks := NewUnlockTable()
	unlocks.Unlock(1, "SHP_FIGHTERS_3", 3)

	tests := []struct {
		name   string
		empire types.EmpireID
		turn   int
		want   []string // label@source
	}{
		{"before unlock only buildings", 1, 2, []string{"yard@40", "yard@41"}},
		{"after unlock", 1, 3, []string{"a@1", "b@1", "yard@40", "yard@41"}},
		{"other empire has nothing", 2, 9, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, ag := range r.ActiveEffectGroups(tt.empire, tt.turn, unlocks, u) {
				got = append(got, ag.Group.AccountingLabel+"@"+strconv.Itoa(int(ag.Source)))
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("group %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestActiveEffectGroups_IndexAndRecord(t *testing.T) {
	r := testRegistry(t)
	u := testUniverse(t)
	unlocks := NewUnlockTable()
	unlocks.Unlock(1, "SHP_FIGHTERS_3", 0)

	groups := r.ActiveEffectGroups(1, 0, unlocks, u)
	if groups[1].Index != 1 || groups[1].Record.Name != "SHP_FIGHTERS_3" {
		t.Errorf("second group = %+v", groups[1])
	}
}

func TestActiveEffectGroups_NoEmpireObject(t *testing.T) {
	r := testRegistry(t)
	u := state.NewUniverse()
	unlocks := NewUnlockTable()
	unlocks.Unlock(7, "SHP_FIGHTERS_3", 0)
	if got := r.ActiveEffectGroups(7, 1, unlocks, u); len(got) != 0 {
		t.Errorf("expected no groups without an empire object, got %d", len(got))
	}
	if got := r.ActiveEffectGroups(7, 1, nil, u); len(got) != 0 {
		t.Errorf("expected no groups without unlocks, got %d", len(got))
	}
}

func TestAllActive(t *testing.T) {
	r := testRegistry(t)
	u := testUniverse(t)
	unlocks := NewUnlockTable()
	unlocks.Unlock(1, "DEF_ROOT_DEFENSE", 0)
	unlocks.Unlock(2, "DEF_ROOT_DEFENSE", 0)

	got := r.AllActive(u.Empires(), 1, unlocks, u)
	if len(got) != 4 {
		t.Fatalf("got %d groups, want 4", len(got))
	}
	if got[3].Source != 2 {
		t.Errorf("last group source = %d, want 2", got[3].Source)
	}
}

func TestUnlockTable(t *testing.T) {
	u := NewUnlockTable()
	u.Unlock(1, "B", 5)
	u.Unlock(1, "A", 2)
	u.Unlock(1, "A", 4) // later unlock keeps the earlier turn

	tests := []struct {
		record string
		turn   int
		want   bool
	}{
		{"A", 1, false},
		{"A", 2, true},
		{"B", 4, false},
		{"B", 5, true},
		{"C", 9, false},
	}
	for _, tt := range tests {
		if got := u.IsUnlocked(1, tt.record, tt.turn); got != tt.want {
			t.Errorf("IsUnlocked(%s, %d) = %v, want %v", tt.record, tt.turn, got, tt.want)
		}
	}
	if got := u.Unlocked(1, 5); len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("Unlocked = %v", got)
	}
	if u.IsUnlocked(2, "A", 9) {
		t.Error("empire 2 has nothing unlocked")
	}

	u.Lock(1, "A")
	if u.IsUnlocked(1, "A", 9) {
		t.Error("A still unlocked after Lock")
	}
	u.Lock(3, "A") // unknown empire is a no-op
}

func TestActiveGroup_Label(t *testing.T) {
	rec := &types.ContentRecord{Name: "DEF_ROOT_DEFENSE"}
	tests := []struct {
		name string
		ag   ActiveGroup
		want string
	}{
		{"own label", ActiveGroup{Record: rec, Group: &types.EffectGroup{AccountingLabel: "DEF_ROOT_DEFENSE_SHIELD"}}, "DEF_ROOT_DEFENSE_SHIELD"},
		{"record name", ActiveGroup{Record: rec, Group: &types.EffectGroup{}}, "DEF_ROOT_DEFENSE"},
		{"no group", ActiveGroup{Record: rec}, "DEF_ROOT_DEFENSE"},
		{"nothing", ActiveGroup{}, ""},
	}
	for _, tt := range tests {
		if got := tt.ag.Label(); got != tt.want {
			t.Errorf("%s: Label() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
