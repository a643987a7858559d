// Package ledger combines contributions to a meter and records how each one
// moved it.
package ledger

import (
	"math"
	"sort"

	"github.com/nathoo/effectcore/types"
)

// Combine folds the contributions to one meter field, starting from its
// pre-pass value. The entries are sorted by precedence in place, and each
// one's Delta is filled so that initial plus all deltas equals the returned
// final value.
//
// The last SET in precedence order replaces the initial value, every ADD is
// summed on top, and the largest SET-MAX then acts as a floor. A SET that is
// overridden by a later SET is credited with zero.
func Combine(initial float64, entries []types.AccountingEntry) float64 {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Precedence.Less(entries[j].Precedence)
	})

	winningSet, winningMax := -1, -1
	for i, e := range entries {
		switch e.Op {
		case types.OpSet:
			winningSet = i
		case types.OpSetMax:
			if winningMax < 0 || e.Value > entries[winningMax].Value {
				winningMax = i
			}
		}
	}

	v := initial
	for i := range entries {
		entries[i].Delta = 0
	}
	if winningSet >= 0 {
		entries[winningSet].Delta = entries[winningSet].Value - initial
		v = entries[winningSet].Value
	}
	for i, e := range entries {
		if e.Op == types.OpAdd {
			entries[i].Delta = e.Value
			v += e.Value
		}
	}
	if winningMax >= 0 {
		m := entries[winningMax].Value
		entries[winningMax].Delta = math.Max(0, m-v)
		v = math.Max(v, m)
	}
	return v
}

// Reduce is Combine on a copy, for callers that only need the final value.
func Reduce(initial float64, entries []types.AccountingEntry) float64 {
	cp := append([]types.AccountingEntry(nil), entries...)
	return Combine(initial, cp)
}
