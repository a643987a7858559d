package content

import (
	"sort"

	"github.com/nathoo/effectcore/types"
)

// UnlockTable records which records each empire has unlocked and from which
// turn. It is owned by the simulation; the engine only queries it.
type UnlockTable struct {
	at map[types.EmpireID]map[string]int
}

// NewUnlockTable creates an empty table.
func NewUnlockTable() *UnlockTable {
	return &UnlockTable{at: map[types.EmpireID]map[string]int{}}
}

// Unlock marks a record unlocked for an empire from a turn onward. An
// earlier unlock turn is kept.
func (u *UnlockTable) Unlock(empire types.EmpireID, record string, turn int) {
	if u.at[empire] == nil {
		u.at[empire] = map[string]int{}
	}
	if prev, ok := u.at[empire][record]; ok && prev <= turn {
		return
	}
	u.at[empire][record] = turn
}

// Lock removes an unlock.
func (u *UnlockTable) Lock(empire types.EmpireID, record string) {
	delete(u.at[empire], record)
}

// IsUnlocked reports whether record is unlocked for empire at turn. A nil
// table has nothing unlocked.
func (u *UnlockTable) IsUnlocked(empire types.EmpireID, record string, turn int) bool {
	if u == nil {
		return false
	}
	at, ok := u.at[empire][record]
	return ok && turn >= at
}

// Unlocked lists an empire's unlocked records at a turn, sorted by name.
func (u *UnlockTable) Unlocked(empire types.EmpireID, turn int) []string {
	if u == nil {
		return nil
	}
	var names []string
	for name, at := range u.at[empire] {
		if turn >= at {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
