package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/nathoo/effectcore/engine/ledger"
	"github.com/nathoo/effectcore/engine/state"
	"github.com/nathoo/effectcore/types"
)

const verifyTolerance = 1e-9

// MismatchError reports a meter field whose effective value is not its
// initial value plus the deltas of its ledger entries.
type MismatchError struct {
	Object    types.ObjectID
	Meter     types.MeterRef
	Explained float64
	Actual    float64
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("object %d %s: ledger explains %g, meter holds %g", e.Object, e.Meter, e.Explained, e.Actual)
}

// VerifyLedger checks every meter field in the store: one with ledger
// entries must equal initial plus their deltas, and one without must still
// hold its initial value. All mismatches are joined into the returned error.
func VerifyLedger(store *state.MeterStore, l *ledger.Ledger) error {
	var errs []error
	for id, meters := range store.Snapshot() {
		for key, eff := range meters {
			for _, field := range []types.MeterField{types.FieldCurrent, types.FieldMax} {
				ref := types.MeterRef{Meter: key.Meter, Part: key.Part, Field: field}
				init, _ := store.Initial(id, key)
				exp := l.Explain(id, ref, init.Get(field))
				if math.Abs(exp.Final-eff.Get(field)) > verifyTolerance {
					errs = append(errs, &MismatchError{
						Object:    id,
						Meter:     ref,
						Explained: exp.Final,
						Actual:    eff.Get(field),
					})
				}
			}
		}
	}
	return errors.Join(errs...)
}
