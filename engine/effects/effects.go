// Package effects turns active effect groups into meter contributions and
// merges them into the meter store. Apply only reads; Merge is the single
// place a pass mutates meters.
package effects

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nathoo/effectcore/engine/content"
	"github.com/nathoo/effectcore/engine/ledger"
	"github.com/nathoo/effectcore/engine/rules"
	"github.com/nathoo/effectcore/engine/state"
	"github.com/nathoo/effectcore/types"
)

// Apply evaluates one active group. ctx carries the graph, unlocks and turn;
// its Source is replaced with the group's. Each (target, effect) pair yields
// at most one entry with Delta unset. Failures skip the pair and come back as
// diagnostics.
func Apply(ag content.ActiveGroup, ctx rules.Context) ([]types.AccountingEntry, []types.Diagnostic) {
	ctx.Source = ag.Source
	ctx.Target = types.NoObject
	ctx.HasValue = false

	g := ag.Group
	label := ag.Label()

	if g.Activation != nil && !rules.Test(g.Activation, ctx, ag.Source) {
		return nil, nil
	}

	var entries []types.AccountingEntry
	var diags []types.Diagnostic
	for _, target := range rules.ResolveScope(g.Scope, ctx) {
		for i, eff := range g.Effects {
			m, ok := ctx.Graph.Meter(target, eff.Target.Key())
			if !ok {
				diags = append(diags, types.Diagnostic{
					Kind:    types.EvaluationWarning,
					Record:  ag.Record.Name,
					Label:   label,
					Object:  target,
					Meter:   eff.Target.String(),
					Message: fmt.Sprintf("object %d has no meter %s", target, eff.Target.Key()),
				})
				continue
			}

			v, err := rules.EvalValue(eff.Value, ctx.WithTarget(target).WithValue(m.Get(eff.Target.Field)))
			if err != nil {
				diags = append(diags, types.Diagnostic{
					Kind:    classify(err),
					Record:  ag.Record.Name,
					Label:   label,
					Object:  target,
					Meter:   eff.Target.String(),
					Message: err.Error(),
				})
				continue
			}

			entries = append(entries, types.AccountingEntry{
				Record: ag.Record.Name,
				Label:  label,
				Object: target,
				Source: ag.Source,
				Meter:  eff.Target,
				Op:     eff.Op,
				Value:  v,
				Precedence: types.Precedence{
					Record: ag.Record.Order,
					Group:  ag.Index,
					Source: ag.Source,
					Effect: i,
				},
			})
		}
	}
	return entries, diags
}

// classify maps an evaluation error to its diagnostic kind. Arithmetic and
// missing-context failures are arithmetic warnings; dangling references are
// evaluation warnings.
func classify(err error) types.DiagnosticKind {
	switch {
	case errors.Is(err, rules.ErrDivisionByZero),
		errors.Is(err, rules.ErrNotFinite),
		errors.Is(err, rules.ErrMissingTarget),
		errors.Is(err, rules.ErrMissingValue):
		return types.ArithmeticWarning
	default:
		return types.EvaluationWarning
	}
}

type slot struct {
	object types.ObjectID
	meter  types.MeterRef
}

// Merge resets the effective layer, combines all contributions per meter
// field and writes the results. The ledger is cleared and refilled with the
// entries in precedence order, deltas filled in. It returns the number of
// meter fields written.
func Merge(entries []types.AccountingEntry, store *state.MeterStore, l *ledger.Ledger) int {
	store.Reset()
	l.Clear()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Precedence.Less(entries[j].Precedence)
	})

	bySlot := map[slot][]int{}
	var order []slot
	for i, e := range entries {
		k := slot{e.Object, e.Meter}
		if _, ok := bySlot[k]; !ok {
			order = append(order, k)
		}
		bySlot[k] = append(bySlot[k], i)
	}

	written := 0
	for _, k := range order {
		idx := bySlot[k]
		group := make([]types.AccountingEntry, len(idx))
		for j, i := range idx {
			group[j] = entries[i]
		}
		m, ok := store.Initial(k.object, k.meter.Key())
		if !ok {
			continue
		}
		final := ledger.Combine(m.Get(k.meter.Field), group)
		if store.Write(k.object, k.meter, final) {
			written++
		}
		for j, i := range idx {
			entries[i].Delta = group[j].Delta
		}
	}

	for _, e := range entries {
		if _, ok := store.Initial(e.Object, e.Meter.Key()); ok {
			l.Record(e)
		}
	}
	return written
}
