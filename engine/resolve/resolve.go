// Package resolve maps object and empire names typed at the console to IDs.
package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/effectcore/engine/state"
	"github.com/nathoo/effectcore/types"
)

// AmbiguityError indicates multiple objects matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates no object matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no object called %q", e.Name)
}

// Object resolves a name to an object ID. Accepted forms, in order: a
// numeric ID ("20" or "#20"), an exact name, a single word of a name, and a
// name with spaces written as underscores. Matching is case insensitive.
func Object(u *state.Universe, name string) (types.ObjectID, error) {
	name = strings.TrimSpace(name)
	if id, ok := parseID(name); ok {
		if _, exists := u.Object(id); exists {
			return id, nil
		}
		return types.NoObject, &NotFoundError{Name: name}
	}

	nameLower := strings.ToLower(name)

	// Exact names win over partial matches.
	var exact, partial []types.ObjectID
	for _, id := range u.Objects() {
		obj, _ := u.Object(id)
		switch matchesName(obj, nameLower) {
		case matchExact:
			exact = append(exact, id)
		case matchPartial:
			partial = append(partial, id)
		}
	}

	matches := exact
	if len(matches) == 0 {
		matches = partial
	}
	switch len(matches) {
	case 0:
		return types.NoObject, &NotFoundError{Name: name}
	case 1:
		return matches[0], nil
	default:
		return types.NoObject, &AmbiguityError{Name: name, Candidates: labels(u, matches)}
	}
}

// Empire resolves an empire by numeric ID or by the name of its empire
// object.
func Empire(u *state.Universe, name string) (types.EmpireID, error) {
	name = strings.TrimSpace(name)
	if n, err := strconv.Atoi(name); err == nil {
		e := types.EmpireID(n)
		if _, ok := u.EmpireObject(e); ok {
			return e, nil
		}
		return types.NoEmpire, fmt.Errorf("no empire %d", n)
	}
	var matches []types.EmpireID
	for _, e := range u.Empires() {
		id, _ := u.EmpireObject(e)
		obj, _ := u.Object(id)
		if matchesName(obj, strings.ToLower(name)) != matchNone {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return types.NoEmpire, fmt.Errorf("no empire called %q", name)
	case 1:
		return matches[0], nil
	default:
		var ids []types.ObjectID
		for _, e := range matches {
			id, _ := u.EmpireObject(e)
			ids = append(ids, id)
		}
		return types.NoEmpire, &AmbiguityError{Name: name, Candidates: labels(u, ids)}
	}
}

type match int

const (
	matchNone match = iota
	matchPartial
	matchExact
)

// matchesName checks an object's name against the query (lower-cased).
// Supports exact match, word-based partial match, and underscore
// normalisation ("terran flagship" matches "Terran_Flagship").
func matchesName(obj types.Object, nameLower string) match {
	objName := strings.ToLower(obj.Name)
	if objName == "" {
		return matchNone
	}
	if objName == nameLower || strings.ReplaceAll(nameLower, " ", "_") == objName {
		return matchExact
	}
	for _, word := range strings.Fields(objName) {
		if word == nameLower {
			return matchPartial
		}
	}
	return matchNone
}

func parseID(s string) (types.ObjectID, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil {
		return 0, false
	}
	return types.ObjectID(n), true
}

func labels(u *state.Universe, ids []types.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		obj, _ := u.Object(id)
		out = append(out, fmt.Sprintf("#%d %s", id, obj.Name))
	}
	return out
}
