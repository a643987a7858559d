// Package ai exposes what an external AI planner reads from the engine: the
// planner's enumerations and a read-only view of an empire's meters and
// their accounting.
//
// Enumeration values are persisted by the planner, so they are never
// renumbered. Members the planner no longer uses stay in the tables as
// reserved entries.
package ai

import (
	"fmt"
	"sort"
)

type member struct {
	name     string
	reserved bool
}

// enumTable maps stable numeric values to names.
type enumTable[T ~int] struct {
	kind    string
	byValue map[T]member
	byName  map[string]T
}

func newEnumTable[T ~int](kind string, members map[T]member) enumTable[T] {
	t := enumTable[T]{kind: kind, byValue: members, byName: make(map[string]T, len(members))}
	for v, m := range members {
		if _, dup := t.byName[m.name]; dup {
			panic(fmt.Sprintf("%s: duplicate name %s", kind, m.name))
		}
		t.byName[m.name] = v
	}
	return t
}

func (t enumTable[T]) name(v T) string {
	if m, ok := t.byValue[v]; ok {
		return m.name
	}
	return fmt.Sprintf("%s(%d)", t.kind, int(v))
}

// known reports whether v is a member, reserved or not.
func (t enumTable[T]) known(v T) bool {
	_, ok := t.byValue[v]
	return ok
}

func (t enumTable[T]) reserved(v T) bool {
	return t.byValue[v].reserved
}

func (t enumTable[T]) parse(s string) (T, error) {
	v, ok := t.byName[s]
	if !ok {
		return 0, fmt.Errorf("unknown %s %q", t.kind, s)
	}
	return v, nil
}

// active lists non-reserved members in ascending order.
func (t enumTable[T]) active() []T {
	var out []T
	for v, m := range t.byValue {
		if !m.reserved {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// unmarshal accepts a member name, the numeric form of a known value, or
// the "Kind(n)" form that name produces for values outside the table.
func (t enumTable[T]) unmarshal(b []byte) (T, error) {
	s := string(b)
	if v, err := t.parse(s); err == nil {
		return v, nil
	}
	var n int
	if _, err := fmt.Sscanf(s, t.kind+"(%d)", &n); err == nil {
		return T(n), nil
	}
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && t.known(T(n)) {
		return T(n), nil
	}
	return 0, fmt.Errorf("unknown %s %q", t.kind, s)
}
