package ledger

import (
	"sort"

	"github.com/nathoo/effectcore/types"
)

type slot struct {
	object types.ObjectID
	meter  types.MeterRef
}

// Ledger holds the accounting entries of the most recent pass, grouped by
// object and meter field. It is rebuilt from scratch every pass.
type Ledger struct {
	entries map[slot][]types.AccountingEntry
	total   int
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{entries: map[slot][]types.AccountingEntry{}}
}

// Record appends an entry. Entries for one meter keep insertion order.
func (l *Ledger) Record(e types.AccountingEntry) {
	k := slot{e.Object, e.Meter}
	l.entries[k] = append(l.entries[k], e)
	l.total++
}

// EntriesFor returns a copy of the entries that touched one meter field.
func (l *Ledger) EntriesFor(obj types.ObjectID, meter types.MeterRef) []types.AccountingEntry {
	return append([]types.AccountingEntry(nil), l.entries[slot{obj, meter}]...)
}

// Entries returns every entry, ordered by object, meter and insertion.
func (l *Ledger) Entries() []types.AccountingEntry {
	out := make([]types.AccountingEntry, 0, l.total)
	for _, k := range l.slots() {
		out = append(out, l.entries[k]...)
	}
	return out
}

// Touched lists the meter fields of an object that have entries.
func (l *Ledger) Touched(obj types.ObjectID) []types.MeterRef {
	var refs []types.MeterRef
	for _, k := range l.slots() {
		if k.object == obj {
			refs = append(refs, k.meter)
		}
	}
	return refs
}

// Len returns the number of entries.
func (l *Ledger) Len() int { return l.total }

// Clear drops every entry.
func (l *Ledger) Clear() {
	l.entries = map[slot][]types.AccountingEntry{}
	l.total = 0
}

func (l *Ledger) slots() []slot {
	keys := make([]slot, 0, len(l.entries))
	for k := range l.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.object != b.object {
			return a.object < b.object
		}
		if a.meter.Meter != b.meter.Meter {
			return a.meter.Meter < b.meter.Meter
		}
		if a.meter.Part != b.meter.Part {
			return a.meter.Part < b.meter.Part
		}
		return a.meter.Field < b.meter.Field
	})
	return keys
}

// Explanation accounts for a meter field's value after a pass.
type Explanation struct {
	Object  types.ObjectID          `json:"object"`
	Meter   types.MeterRef          `json:"meter"`
	Initial float64                 `json:"initial"`
	Entries []types.AccountingEntry `json:"entries"`
	Final   float64                 `json:"final"`
}

// Explain pairs a meter's pre-pass value with the entries that moved it.
// Final is recomputed from the entries, so it disagrees with the stored
// meter only if the ledger is out of step with the pass.
func (l *Ledger) Explain(obj types.ObjectID, meter types.MeterRef, initial float64) Explanation {
	entries := l.EntriesFor(obj, meter)
	final := initial
	for _, e := range entries {
		final += e.Delta
	}
	return Explanation{
		Object:  obj,
		Meter:   meter,
		Initial: initial,
		Entries: entries,
		Final:   final,
	}
}
