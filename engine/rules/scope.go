package rules

import "github.com/nathoo/effectcore/types"

// ResolveScope evaluates a scope condition against the whole graph.
func ResolveScope(c types.Condition, ctx Context) []types.ObjectID {
	if c == nil {
		return nil
	}
	return Evaluate(c, ctx, InitialCandidates(c, ctx))
}

// InitialCandidates narrows the universe a scope starts from. A kind filter
// at the top of the scope (alone or as an And operand) restricts candidates to
// that kind, which also makes it the universe a nested Not subtracts from.
// IsSource at the top limits candidates to the Source.
func InitialCandidates(c types.Condition, ctx Context) []types.ObjectID {
	switch c := c.(type) {
	case types.OfKind:
		return ctx.Graph.ObjectsOfKind(c.Kind)
	case types.IsSource:
		return []types.ObjectID{ctx.Source}
	case types.And:
		for _, op := range c.Operands {
			switch op := op.(type) {
			case types.OfKind:
				return ctx.Graph.ObjectsOfKind(op.Kind)
			case types.IsSource:
				return []types.ObjectID{ctx.Source}
			}
		}
	}
	return ctx.Graph.Objects()
}
