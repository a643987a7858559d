package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/effectcore/types"
)

// ValidationError collects all authoring errors and warnings found while
// loading content. Any error rejects the whole load.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Diagnostics converts the errors to AuthoringError diagnostics.
func (e *ValidationError) Diagnostics() []types.Diagnostic {
	out := make([]types.Diagnostic, 0, len(e.Errors))
	for _, msg := range e.Errors {
		out = append(out, types.Diagnostic{Kind: types.AuthoringError, Object: types.NoObject, Message: msg})
	}
	return out
}

// validate checks compiled records for unique names, known prerequisites
// and effect groups that can never write anything.
func validate(records []types.ContentRecord, ve *ValidationError) {
	names := map[string]bool{}
	for _, rec := range records {
		if rec.Name == "" {
			continue
		}
		if names[rec.Name] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate record name %q", rec.Name))
		}
		names[rec.Name] = true
	}

	for _, rec := range records {
		for _, pre := range rec.Prerequisites {
			switch {
			case pre == rec.Name:
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s %q lists itself as a prerequisite", rec.Kind, rec.Name))
			case !names[pre]:
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s %q has unknown prerequisite %q", rec.Kind, rec.Name, pre))
			}
		}

		if len(rec.EffectGroups) == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s %q has no effect groups", rec.Kind, rec.Name))
		}
		for i, g := range rec.EffectGroups {
			validateGroup(rec, i+1, g, ve)
		}
	}
}

func validateGroup(rec types.ContentRecord, idx int, g types.EffectGroup, ve *ValidationError) {
	where := fmt.Sprintf("%s %q group %d", rec.Kind, rec.Name, idx)
	if len(g.Effects) == 0 {
		ve.Warnings = append(ve.Warnings, where+" has no effects")
	}
	if _, ok := g.Scope.(types.None); ok {
		ve.Warnings = append(ve.Warnings, where+" scope matches nothing")
	}

	// A part meter written by an effect should be one the scope asks for,
	// otherwise every matched ship without that part is a silent no-op.
	parts := map[string]bool{}
	scopeParts(g.Scope, parts)
	if len(parts) == 0 {
		return
	}
	for _, eff := range g.Effects {
		if eff.Target.Part != "" && !parts[eff.Target.Part] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"%s writes %s but its scope never tests for part %s", where, eff.Target, eff.Target.Part))
		}
	}
}

// scopeParts collects the part names tested positively by DesignHasPart in a
// condition tree.
func scopeParts(c types.Condition, out map[string]bool) {
	switch c := c.(type) {
	case types.DesignHasPart:
		if _, high := c.Bounds(); c.Name != "" && high > 0 {
			out[c.Name] = true
		}
	case types.And:
		for _, op := range c.Operands {
			scopeParts(op, out)
		}
	case types.Or:
		for _, op := range c.Operands {
			scopeParts(op, out)
		}
	}
}
