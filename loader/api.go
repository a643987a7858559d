package loader

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/effectcore/types"
)

// Every constructor returns a node table: {type = "...", def = <author table>}
// plus any fixed parameters. compile.go turns nodes into Go values.

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerConditionHelpers(L)
	registerValueHelpers(L)
	registerEffectHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	record := func(kind types.RecordKind) lua.LGFunction {
		return func(L *lua.LState) int {
			// Tech { name = "...", ... } or the curried Tech "NAME" { ... }.
			if name, ok := L.Get(1).(lua.LString); ok {
				L.Push(L.NewFunction(func(L *lua.LState) int {
					tbl := L.CheckTable(1)
					coll.add(kind, string(name), tbl)
					return 0
				}))
				return 1
			}
			tbl := L.CheckTable(1)
			coll.add(kind, "", tbl)
			return 0
		}
	}
	L.SetGlobal("Tech", L.NewFunction(record(types.RecordTech)))
	L.SetGlobal("Building", L.NewFunction(record(types.RecordBuilding)))

	// EffectsGroup { scope = ..., activation = ..., accountinglabel = ..., effects = {...} }
	L.SetGlobal("EffectsGroup", L.NewFunction(func(L *lua.LState) int {
		L.Push(node(L, "effects_group", L.CheckTable(1)))
		return 1
	}))
}

// node builds a tagged node table wrapping def (which may be nil).
func node(L *lua.LState, typ string, def *lua.LTable) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("type", lua.LString(typ))
	if def != nil {
		tbl.RawSetString("def", def)
	}
	return tbl
}

func registerConditionHelpers(L *lua.LState) {
	// Bare conditions are plain globals: Ship, Unowned, IsSource, ...
	kinds := map[string]types.ObjectKind{
		"Ship":       types.KindShip,
		"Fleet":      types.KindFleet,
		"Planet":     types.KindPlanet,
		"System":     types.KindSystem,
		"IsBuilding": types.KindBuilding,
		"IsEmpire":   types.KindEmpire,
	}
	for name, kind := range kinds {
		tbl := node(L, "kind", nil)
		tbl.RawSetString("kind", lua.LString(kind))
		L.SetGlobal(name, tbl)
	}
	for name, typ := range map[string]string{
		"All":      "all",
		"None":     "none",
		"Unowned":  "unowned",
		"IsSource": "is_source",
	} {
		L.SetGlobal(name, node(L, typ, nil))
	}

	// Table-argument conditions: OwnedBy { empire = Source.Owner }, ...
	for name, typ := range map[string]string{
		"OwnedBy":       "owned_by",
		"DesignHasPart": "design_has_part",
		"ObjectID":      "object_id",
		"InSystem":      "in_system",
		"MeterInRange":  "meter_in_range",
		"Turn":          "turn",
		"OwnerHasTech":  "owner_has_tech",
		"And":           "and",
		"Or":            "or",
	} {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			L.Push(node(L, typ, L.CheckTable(1)))
			return 1
		}))
	}

	// Not(condition)
	L.SetGlobal("Not", L.NewFunction(func(L *lua.LState) int {
		tbl := node(L, "not", nil)
		tbl.RawSetString("operand", L.CheckTable(1))
		L.Push(tbl)
		return 1
	}))
}

// valueMeta gives value nodes arithmetic, so content can write
// Value + 2 * FIGHTER_DAMAGE_FACTOR.
func valueMeta(L *lua.LState) *lua.LTable {
	mt := L.NewTypeMetatable("effectcore.value")
	if mt.RawGetString("__add") != lua.LNil {
		return mt
	}
	binary := func(op string) *lua.LFunction {
		return L.NewFunction(func(L *lua.LState) int {
			L.Push(arith(L, op, L.Get(1), L.Get(2)))
			return 1
		})
	}
	L.SetField(mt, "__add", binary("+"))
	L.SetField(mt, "__sub", binary("-"))
	L.SetField(mt, "__mul", binary("*"))
	L.SetField(mt, "__div", binary("/"))
	L.SetField(mt, "__unm", L.NewFunction(func(L *lua.LState) int {
		L.Push(arith(L, "-", lua.LNumber(0), L.Get(1)))
		return 1
	}))
	return mt
}

func valueNode(L *lua.LState, typ string) *lua.LTable {
	tbl := node(L, typ, nil)
	L.SetMetatable(tbl, valueMeta(L))
	return tbl
}

func arith(L *lua.LState, op string, left, right lua.LValue) *lua.LTable {
	tbl := valueNode(L, "arith")
	tbl.RawSetString("op", lua.LString(op))
	tbl.RawSetString("left", left)
	tbl.RawSetString("right", right)
	return tbl
}

// objectTable builds Source or Target: a reference usable in MeterOf whose
// fields are the numeric attributes of the bound object.
func objectTable(L *lua.LState, ref string) *lua.LTable {
	tbl := node(L, "object", nil)
	tbl.RawSetString("ref", lua.LString(ref))
	for _, attr := range []types.Attribute{types.AttrID, types.AttrOwner, types.AttrDesignID, types.AttrSystemID, types.AttrFleetID} {
		prop := valueNode(L, "property")
		prop.RawSetString("ref", lua.LString(ref))
		prop.RawSetString("attr", lua.LString(attr))
		tbl.RawSetString(string(attr), prop)
	}
	return tbl
}

func registerValueHelpers(L *lua.LState) {
	L.SetGlobal("Value", valueNode(L, "value"))
	L.SetGlobal("CurrentTurn", valueNode(L, "current_turn"))
	L.SetGlobal("Source", objectTable(L, "Source"))
	L.SetGlobal("Target", objectTable(L, "Target"))

	// MeterOf { object = Target, meter = "max:structure" }
	// PartsInShipDesign { name = "FT_HANGAR_1", design = Target.DesignID }
	for name, typ := range map[string]string{
		"MeterOf":           "meter_of",
		"PartsInShipDesign": "parts_in_ship_design",
	} {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			tbl := valueNode(L, typ)
			tbl.RawSetString("def", L.CheckTable(1))
			L.Push(tbl)
			return 1
		}))
	}

	// CountOf(condition)
	L.SetGlobal("CountOf", L.NewFunction(func(L *lua.LState) int {
		tbl := valueNode(L, "count")
		tbl.RawSetString("condition", L.CheckTable(1))
		L.Push(tbl)
		return 1
	}))

	// Formula("Target.Owner == Source.Owner ? 2 : 1")
	L.SetGlobal("Formula", L.NewFunction(func(L *lua.LState) int {
		tbl := valueNode(L, "formula")
		tbl.RawSetString("src", lua.LString(L.CheckString(1)))
		L.Push(tbl)
		return 1
	}))

	// Min(a, b), Max(a, b)
	for name, op := range map[string]string{"Min": "min", "Max": "max"} {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			L.Push(arith(L, op, L.CheckAny(1), L.CheckAny(2)))
			return 1
		}))
	}
}

func registerEffectHelpers(L *lua.LState) {
	// Set<Meter> and SetMax<Meter> for every meter, e.g.
	// SetMaxCapacity { partname = "FT_HANGAR_1", value = Value + 1 }.
	for meter := range types.KnownMeters {
		for _, field := range []string{"current", "max"} {
			name := "Set" + camel(string(meter))
			if field == "max" {
				name = "SetMax" + camel(string(meter))
			}
			L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
				tbl := node(L, "set_meter", L.CheckTable(1))
				tbl.RawSetString("meter", lua.LString(meter))
				tbl.RawSetString("field", lua.LString(field))
				L.Push(tbl)
				return 1
			}))
		}
	}

	// SetMeter { meter = "max:capacity@FT_HANGAR_1", value = ..., mode = "add" }
	L.SetGlobal("SetMeter", L.NewFunction(func(L *lua.LState) int {
		L.Push(node(L, "set_meter", L.CheckTable(1)))
		return 1
	}))
}

// camel turns secondary_stat into SecondaryStat.
func camel(s string) string {
	var b strings.Builder
	for _, word := range strings.Split(s, "_") {
		if word == "" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]) + word[1:])
	}
	return b.String()
}
