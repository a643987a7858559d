package ledger

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/effectcore/types"
)

var maxHangar = types.MeterRef{Meter: types.MeterCapacity, Part: "FT_HANGAR_2", Field: types.FieldMax}

func entry(record int, op types.OpKind, v float64) types.AccountingEntry {
	return types.AccountingEntry{
		Record:     "R",
		Object:     3,
		Meter:      maxHangar,
		Op:         op,
		Value:      v,
		Precedence: types.Precedence{Record: record},
	}
}

func sumDeltas(es []types.AccountingEntry) float64 {
	var s float64
	for _, e := range es {
		s += e.Delta
	}
	return s
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name    string
		initial float64
		entries []types.AccountingEntry
		want    float64
		deltas  []float64 // in precedence order
	}{
		{
			name:    "no contributions",
			initial: 5,
			want:    5,
		},
		{
			name:    "single add",
			initial: 5,
			entries: []types.AccountingEntry{entry(0, types.OpAdd, 2)},
			want:    7,
			deltas:  []float64{2},
		},
		{
			name:    "adds stack",
			initial: 5,
			entries: []types.AccountingEntry{entry(1, types.OpAdd, 2), entry(0, types.OpAdd, -1)},
			want:    6,
			deltas:  []float64{-1, 2},
		},
		{
			name:    "last set wins",
			initial: 5,
			entries: []types.AccountingEntry{entry(2, types.OpSet, 9), entry(1, types.OpSet, 3)},
			want:    9,
			deltas:  []float64{0, 4},
		},
		{
			name:    "set then add",
			initial: 5,
			entries: []types.AccountingEntry{entry(0, types.OpSet, 10), entry(1, types.OpAdd, 2)},
			want:    12,
			deltas:  []float64{5, 2},
		},
		{
			name:    "set-max raises",
			initial: 5,
			entries: []types.AccountingEntry{entry(0, types.OpSetMax, 8), entry(1, types.OpSetMax, 6)},
			want:    8,
			deltas:  []float64{3, 0},
		},
		{
			name:    "set-max below value does nothing",
			initial: 5,
			entries: []types.AccountingEntry{entry(0, types.OpAdd, 4), entry(1, types.OpSetMax, 6)},
			want:    9,
			deltas:  []float64{4, 0},
		},
		{
			name:    "set-max floors a lowering set",
			initial: 5,
			entries: []types.AccountingEntry{entry(0, types.OpSet, 1), entry(1, types.OpSetMax, 4)},
			want:    4,
			deltas:  []float64{-4, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Combine(tt.initial, tt.entries)
			assert.Equal(t, tt.want, got)
			require.Len(t, tt.entries, len(tt.deltas))
			for i, d := range tt.deltas {
				assert.Equalf(t, d, tt.entries[i].Delta, "delta %d", i)
			}
			assert.Equal(t, got, tt.initial+sumDeltas(tt.entries))
		})
	}
}

func TestCombine_OrderIndependent(t *testing.T) {
	base := []types.AccountingEntry{
		entry(0, types.OpSet, 4),
		entry(1, types.OpAdd, 2),
		entry(2, types.OpSetMax, 3),
		entry(3, types.OpAdd, 1.5),
		entry(4, types.OpSet, 6),
		entry(5, types.OpSetMax, 12),
	}
	want := Reduce(5, base)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := append([]types.AccountingEntry(nil), base...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, Combine(5, shuffled))
	}
}

func TestReduce_DoesNotMutate(t *testing.T) {
	es := []types.AccountingEntry{entry(1, types.OpAdd, 2), entry(0, types.OpSet, 1)}
	Reduce(0, es)
	assert.Equal(t, 1, es[0].Precedence.Record)
	assert.Zero(t, es[0].Delta)
}

func TestLedger(t *testing.T) {
	l := New()
	other := types.MeterRef{Meter: types.MeterSecondaryStat, Part: "FT_HANGAR_2", Field: types.FieldMax}

	a := entry(0, types.OpAdd, 2)
	a.Delta = 2
	b := entry(1, types.OpAdd, 1)
	b.Delta = 1
	c := entry(0, types.OpSet, 6)
	c.Meter = other
	c.Delta = 6

	l.Record(a)
	l.Record(c)
	l.Record(b)

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []types.AccountingEntry{a, b}, l.EntriesFor(3, maxHangar))
	assert.Empty(t, l.EntriesFor(4, maxHangar))
	assert.Equal(t, []types.MeterRef{maxHangar, other}, l.Touched(3))
	assert.Equal(t, []types.AccountingEntry{a, b, c}, l.Entries())

	exp := l.Explain(3, maxHangar, 5)
	assert.Equal(t, 5.0, exp.Initial)
	assert.Equal(t, 8.0, exp.Final)
	assert.Len(t, exp.Entries, 2)

	l.Clear()
	assert.Zero(t, l.Len())
	assert.Empty(t, l.Entries())
}

func TestLedger_EntriesForIsCopy(t *testing.T) {
	l := New()
	l.Record(entry(0, types.OpAdd, 2))
	got := l.EntriesFor(3, maxHangar)
	got[0].Value = 99
	assert.Equal(t, 2.0, l.EntriesFor(3, maxHangar)[0].Value)
}
