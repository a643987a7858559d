package ai

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/effectcore/engine"
	"github.com/nathoo/effectcore/engine/content"
	"github.com/nathoo/effectcore/engine/state"
	"github.com/nathoo/effectcore/types"
)

var (
	industry  = types.MeterRef{Meter: types.MeterIndustry}
	detection = types.MeterRef{Meter: types.MeterDetectionStrength}
)

// testEngine: empire 1 owns Earth and Mars, empire 2 owns Kzin. An
// industry tech adds 3 industry to each owned planet and sets empire
// detection strength to 30.
func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	u := state.NewUniverse()
	for _, o := range []types.Object{
		{ID: 1, Kind: types.KindEmpire, Name: "Terrans", Owner: 1},
		{ID: 2, Kind: types.KindEmpire, Name: "Kzinti", Owner: 2},
		{ID: 11, Kind: types.KindPlanet, Name: "Earth", Owner: 1},
		{ID: 12, Kind: types.KindPlanet, Name: "Mars", Owner: 1},
		{ID: 13, Kind: types.KindPlanet, Name: "Kzin", Owner: 2},
	} {
		require.NoError(t, u.AddObject(o))
	}
	for _, id := range []types.ObjectID{11, 12, 13} {
		u.Meters.SetInitial(id, industry.Key(), types.Meter{Current: 10, Max: 20})
		u.Meters.SetInitial(id, types.MeterKey{Meter: types.MeterResearch}, types.Meter{Current: 2, Max: 2})
	}
	u.Meters.SetInitial(1, detection.Key(), types.Meter{Current: 10, Max: 10})

	reg := content.NewRegistry()
	require.NoError(t, reg.Add(types.ContentRecord{
		Name: "PRO_ROBOTIC_PROD",
		Kind: types.RecordTech,
		EffectGroups: []types.EffectGroup{
			{
				Scope: types.And{Operands: []types.Condition{
					types.OfKind{Kind: types.KindPlanet},
					types.OwnedBy{Empire: types.Property{Ref: types.RefSource, Attr: types.AttrOwner}},
				}},
				Effects: []types.Effect{{Target: industry, Value: types.Literal{Value: 3}, Op: types.OpAdd}},
			},
			{
				Scope:   types.IsSource{},
				Effects: []types.Effect{{Target: detection, Value: types.Literal{Value: 30}, Op: types.OpSet}},
			},
		},
	}))

	e := engine.New(reg, u, nil)
	e.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	e.Unlocks.Unlock(1, "PRO_ROBOTIC_PROD", 0)
	_, err := e.RunPass(context.Background(), 4)
	require.NoError(t, err)
	return e
}

func TestNewEmpireView_UnknownEmpire(t *testing.T) {
	_, err := NewEmpireView(testEngine(t), 9)
	assert.Error(t, err)
}

func TestEmpireView(t *testing.T) {
	v, err := NewEmpireView(testEngine(t), 1)
	require.NoError(t, err)

	assert.Equal(t, types.EmpireID(1), v.Empire())
	assert.Equal(t, 4, v.Turn())
	assert.Equal(t, []types.ObjectID{11, 12}, v.Owned(types.KindPlanet))

	val, ok := v.Meter(11, industry)
	require.True(t, ok)
	assert.Equal(t, 13.0, val)

	// Other empires' objects are not visible.
	_, ok = v.Meter(13, industry)
	assert.False(t, ok)
	_, err = v.Breakdown(13, industry)
	assert.Error(t, err)

	ds, ok := v.EmpireMeter(EmpireMeterDetectionStrength, types.FieldCurrent)
	require.True(t, ok)
	assert.Equal(t, 30.0, ds)

	exp, err := v.Breakdown(12, industry)
	require.NoError(t, err)
	assert.Equal(t, 10.0, exp.Initial)
	assert.Equal(t, 13.0, exp.Final)
	require.Len(t, exp.Entries, 1)
	assert.Equal(t, "PRO_ROBOTIC_PROD", exp.Entries[0].Record)
}

func TestEmpireView_Totals(t *testing.T) {
	e := testEngine(t)
	mine, err := NewEmpireView(e, 1)
	require.NoError(t, err)
	theirs, err := NewEmpireView(e, 2)
	require.NoError(t, err)

	assert.Equal(t, 26.0, mine.Total(types.MeterIndustry))
	assert.Equal(t, 10.0, theirs.Total(types.MeterIndustry))

	out := mine.ResourceOutput()
	assert.Equal(t, map[PriorityType]float64{
		PriorityResourceProduction: 26,
		PriorityResourceResearch:   4,
		PriorityResourceInfluence:  0,
	}, out)
}

func TestEmpireView_Contributions(t *testing.T) {
	e := testEngine(t)
	mine, err := NewEmpireView(e, 1)
	require.NoError(t, err)
	theirs, err := NewEmpireView(e, 2)
	require.NoError(t, err)

	// Two planets plus the empire's detection strength.
	assert.Len(t, mine.Contributions(""), 3)
	assert.Len(t, mine.Contributions("PRO_ROBOTIC_PROD"), 3)
	assert.Empty(t, mine.Contributions("OTHER"))
	assert.Empty(t, theirs.Contributions(""))
}
