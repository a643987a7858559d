// Package report implements JSON serialization of a completed effect pass:
// meters before and after, the ledger and the diagnostics.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nathoo/effectcore/engine"
	"github.com/nathoo/effectcore/types"
)

// FormatVersion is bumped when the report layout changes.
const FormatVersion = "1"

// MeterRow is one meter of one object.
type MeterRow struct {
	Object    types.ObjectID `json:"object"`
	Meter     types.MeterKey `json:"meter"`
	Initial   types.Meter    `json:"initial"`
	Effective types.Meter    `json:"effective"`
}

// Report is the JSON-serializable pass format.
type Report struct {
	Version     string                  `json:"version"`
	Pass        uuid.UUID               `json:"pass"`
	Turn        int                     `json:"turn"`
	GeneratedAt time.Time               `json:"generated_at"`
	RNGSeed     *int64                  `json:"rng_seed,omitempty"`
	RNGPosition int64                   `json:"rng_position,omitempty"` // before the pass
	Meters      []MeterRow              `json:"meters"`
	Ledger      []types.AccountingEntry `json:"ledger"`
	Diagnostics []types.Diagnostic      `json:"diagnostics"`
}

// Build captures the engine's last pass.
func Build(e *engine.Engine) (*Report, error) {
	last := e.Last()
	if last == nil {
		return nil, fmt.Errorf("no pass to report")
	}
	r := &Report{
		Version:     FormatVersion,
		Pass:        last.ID,
		Turn:        last.Turn,
		GeneratedAt: time.Now().UTC(),
		Ledger:      e.Ledger.Entries(),
		Diagnostics: append([]types.Diagnostic{}, last.Diagnostics...),
	}
	if e.RNG != nil {
		seed := e.RNG.Seed()
		r.RNGSeed = &seed
		r.RNGPosition = last.RNGStart
	}
	for _, id := range e.Universe.Objects() {
		for _, k := range e.Universe.Meters.Keys(id) {
			init, _ := e.Universe.Meters.Initial(id, k)
			eff, _ := e.Universe.Meters.Effective(id, k)
			r.Meters = append(r.Meters, MeterRow{Object: id, Meter: k, Initial: init, Effective: eff})
		}
	}
	return r, nil
}

// RNG returns the shuffle stream as it stood before the reported pass, or
// nil if the pass ran in content-load order.
func (r *Report) RNG() *engine.RNG {
	if r.RNGSeed == nil {
		return nil
	}
	return engine.RestoreRNG(*r.RNGSeed, r.RNGPosition)
}

// Save serializes a report to JSON bytes.
func Save(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Load deserializes JSON bytes into a Report.
func Load(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if r.Version != FormatVersion {
		return nil, fmt.Errorf("report version %q, want %q", r.Version, FormatVersion)
	}
	// Ensure slices are never nil after load.
	if r.Meters == nil {
		r.Meters = []MeterRow{}
	}
	if r.Ledger == nil {
		r.Ledger = []types.AccountingEntry{}
	}
	if r.Diagnostics == nil {
		r.Diagnostics = []types.Diagnostic{}
	}
	return &r, nil
}

// WriteFile saves a report under dir as pass-<turn>-<id>.json and returns
// the path.
func WriteFile(dir string, r *Report) (string, error) {
	data, err := Save(r)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("pass-%d-%s.json", r.Turn, r.Pass))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// ReadFile loads a report from disk.
func ReadFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Diff lists the effective meter values that differ between two reports,
// including meters present in only one of them.
func Diff(a, b *Report) []string {
	type key struct {
		obj types.ObjectID
		m   types.MeterKey
	}
	index := func(r *Report) map[key]types.Meter {
		out := make(map[key]types.Meter, len(r.Meters))
		for _, row := range r.Meters {
			out[key{row.Object, row.Meter}] = row.Effective
		}
		return out
	}
	am, bm := index(a), index(b)

	var diffs []string
	for _, row := range a.Meters {
		k := key{row.Object, row.Meter}
		other, ok := bm[k]
		switch {
		case !ok:
			diffs = append(diffs, fmt.Sprintf("#%d %s: only in first report", k.obj, k.m))
		case other != row.Effective:
			diffs = append(diffs, fmt.Sprintf("#%d %s: %g/%g -> %g/%g",
				k.obj, k.m, row.Effective.Current, row.Effective.Max, other.Current, other.Max))
		}
	}
	for _, row := range b.Meters {
		if _, ok := am[key{row.Object, row.Meter}]; !ok {
			diffs = append(diffs, fmt.Sprintf("#%d %s: only in second report", row.Object, row.Meter))
		}
	}
	return diffs
}
