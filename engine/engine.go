// Package engine provides the RunPass orchestrator that wires together
// content activation, condition evaluation, effects and the ledger into a
// single turn's effect pass.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nathoo/effectcore/engine/content"
	"github.com/nathoo/effectcore/engine/effects"
	"github.com/nathoo/effectcore/engine/ledger"
	"github.com/nathoo/effectcore/engine/rules"
	"github.com/nathoo/effectcore/engine/state"
	"github.com/nathoo/effectcore/types"
)

// Engine holds the loaded content, the observed universe and the ledger of
// the last pass.
type Engine struct {
	Registry *content.Registry
	Universe *state.Universe
	Unlocks  *content.UnlockTable
	Ledger   *ledger.Ledger

	Logger  *slog.Logger
	Metrics *Metrics // optional
	Workers int      // read-phase parallelism; <1 means GOMAXPROCS
	Verify  bool     // check every touched meter against the ledger after merging
	RNG     *RNG     // optional; shuffles active groups before the read phase

	Turn int
	last *PassResult
}

// New creates an engine over a registry, universe and unlock table.
// A nil unlock table starts empty.
func New(reg *content.Registry, u *state.Universe, unlocks *content.UnlockTable) *Engine {
	if unlocks == nil {
		unlocks = content.NewUnlockTable()
	}
	return &Engine{
		Registry: reg,
		Universe: u,
		Unlocks:  unlocks,
		Ledger:   ledger.New(),
		Logger:   slog.Default(),
	}
}

// PassResult summarises one effect pass.
type PassResult struct {
	ID            uuid.UUID          `json:"id"`
	Turn          int                `json:"turn"`
	ActiveGroups  int                `json:"active_groups"`
	Entries       int                `json:"entries"`
	MetersWritten int                `json:"meters_written"`
	Diagnostics   []types.Diagnostic `json:"diagnostics"`
	Duration      time.Duration      `json:"duration"`
	// RNGStart is the shuffle stream position before the pass drew from it.
	RNGStart      int64              `json:"rng_start,omitempty"`
}

// Count returns the number of diagnostics of one kind.
func (r *PassResult) Count(kind types.DiagnosticKind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Last returns the result of the most recent pass, or nil.
func (e *Engine) Last() *PassResult {
	return e.last
}

type groupOutput struct {
	entries []types.AccountingEntry
	diags   []types.Diagnostic
}

// RunPass evaluates every active effect group for turn and merges the
// contributions into the meter store. Groups are evaluated concurrently
// against the frozen initial meters; the merge runs only once all of them
// finish. If ctx is cancelled first, nothing is written and the previous
// pass stays in place.
func (e *Engine) RunPass(ctx context.Context, turn int) (*PassResult, error) {
	start := time.Now()
	log := e.logger()

	groups := e.Registry.AllActive(e.Universe.Empires(), turn, e.Unlocks, e.Universe)
	var rngStart int64
	if e.RNG != nil {
		rngStart = e.RNG.Position()
		e.RNG.Shuffle(len(groups), func(i, j int) { groups[i], groups[j] = groups[j], groups[i] })
	}

	base := rules.NewContext(e.Universe, e.Unlocks, turn, types.NoObject)
	outputs := make([]groupOutput, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers())
	for i := range groups {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outputs[i] = applyGroup(groups[i], base)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("turn %d pass aborted: %w", turn, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("turn %d pass aborted: %w", turn, err)
	}

	var entries []types.AccountingEntry
	var diags []types.Diagnostic
	for _, out := range outputs {
		entries = append(entries, out.entries...)
		diags = append(diags, out.diags...)
	}

	written := effects.Merge(entries, e.Universe.Meters, e.Ledger)
	sortDiagnostics(diags)

	res := &PassResult{
		ID:            uuid.New(),
		Turn:          turn,
		ActiveGroups:  len(groups),
		Entries:       e.Ledger.Len(),
		MetersWritten: written,
		Diagnostics:   diags,
		Duration:      time.Since(start),
		RNGStart:      rngStart,
	}
	e.Turn = turn
	e.last = res

	for _, d := range diags {
		log.Warn(d.Message,
			"kind", d.Kind,
			"record", d.Record,
			"label", d.Label,
			"object", d.Object,
			"meter", d.Meter,
		)
	}
	e.Metrics.observe(res)
	log.Info("effect pass complete",
		"pass", res.ID,
		"turn", turn,
		"groups", res.ActiveGroups,
		"entries", res.Entries,
		"meters", res.MetersWritten,
		"warnings", len(diags),
		"duration", res.Duration,
	)

	if e.Verify {
		if err := VerifyLedger(e.Universe.Meters, e.Ledger); err != nil {
			log.Error("ledger does not explain meters", "pass", res.ID, "error", err)
			return res, err
		}
	}
	return res, nil
}

// applyGroup runs effects.Apply, turning a panic in one group into a
// diagnostic so the rest of the pass survives.
func applyGroup(ag content.ActiveGroup, ctx rules.Context) (out groupOutput) {
	defer func() {
		if r := recover(); r != nil {
			out = groupOutput{diags: []types.Diagnostic{{
				Kind:    types.EvaluationWarning,
				Record:  ag.Record.Name,
				Label:   ag.Label(),
				Object:  ag.Source,
				Message: fmt.Sprintf("effect group %d panicked: %v", ag.Index, r),
			}}}
		}
	}()
	out.entries, out.diags = effects.Apply(ag, ctx)
	return out
}

// Explain accounts for the current value of one meter field.
func (e *Engine) Explain(obj types.ObjectID, ref types.MeterRef) (ledger.Explanation, error) {
	if _, ok := e.Universe.Object(obj); !ok {
		return ledger.Explanation{}, fmt.Errorf("no object %d", obj)
	}
	m, ok := e.Universe.Meters.Initial(obj, ref.Key())
	if !ok {
		return ledger.Explanation{}, fmt.Errorf("object %d has no meter %s", obj, ref.Key())
	}
	return e.Ledger.Explain(obj, ref, m.Get(ref.Field)), nil
}

// MeterValue returns the effective value of a meter field after the last
// pass.
func (e *Engine) MeterValue(obj types.ObjectID, ref types.MeterRef) (float64, bool) {
	m, ok := e.Universe.Meters.Effective(obj, ref.Key())
	if !ok {
		return 0, false
	}
	return m.Get(ref.Field), true
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e *Engine) workers() int {
	if e.Workers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return e.Workers
}

func sortDiagnostics(diags []types.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Record != b.Record {
			return a.Record < b.Record
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		if a.Object != b.Object {
			return a.Object < b.Object
		}
		if a.Meter != b.Meter {
			return a.Meter < b.Meter
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Message < b.Message
	})
}
