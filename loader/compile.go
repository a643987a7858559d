// Package loader loads Lua content (techs and buildings) into Go structs.
// The Lua VM is discarded after loading: no Lua runs during a pass.
package loader

import (
	"fmt"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/effectcore/engine/rules"
	"github.com/nathoo/effectcore/types"
)

// Fields each author table may carry.
var (
	techFields = fieldSet("name", "description", "short_description", "category",
		"researchcost", "researchturns", "tags", "prerequisites", "effectsgroups", "graphic")
	buildingFields = fieldSet("name", "description", "category",
		"buildcost", "buildtime", "tags", "prerequisites", "effectsgroups", "graphic")
	groupFields  = fieldSet("scope", "activation", "accountinglabel", "effects")
	effectFields = fieldSet("partname", "value", "mode")
	meterFields  = fieldSet("meter", "value", "mode")
)

func fieldSet(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// compiler turns collected tables into records, gathering every error
// rather than stopping at the first.
type compiler struct {
	ve    *ValidationError
	where string // "file: record" prefix for messages
}

func (c *compiler) errorf(format string, args ...any) {
	c.ve.Errors = append(c.ve.Errors, c.where+": "+fmt.Sprintf(format, args...))
}

// compile converts all collected Lua data into content records, in load
// order.
func compile(coll *collector) ([]types.ContentRecord, *ValidationError) {
	c := &compiler{ve: &ValidationError{}}
	records := make([]types.ContentRecord, 0, len(coll.records))
	for _, raw := range coll.records {
		records = append(records, c.record(raw))
	}
	return records, c.ve
}

func (c *compiler) record(raw rawRecord) types.ContentRecord {
	tbl := raw.table
	rec := types.ContentRecord{
		Name:     raw.name,
		Kind:     raw.kind,
		Category: getString(tbl, "category"),
	}
	if n := getString(tbl, "name"); n != "" {
		rec.Name = n
	}
	c.where = fmt.Sprintf("%s: %s %s", raw.file, raw.kind, rec.Name)
	if rec.Name == "" {
		c.errorf("missing name")
	}

	allowed := techFields
	if raw.kind == types.RecordBuilding {
		allowed = buildingFields
		rec.Cost = getNumber(tbl, "buildcost")
		rec.Turns = getInt(tbl, "buildtime")
	} else {
		rec.Cost = getNumber(tbl, "researchcost")
		rec.Turns = getInt(tbl, "researchturns")
	}
	c.checkFields(tbl, allowed, string(raw.kind))

	rec.Tags = c.stringList(tbl, "tags")
	rec.Prerequisites = c.stringList(tbl, "prerequisites")

	for i, v := range array(getTable(tbl, "effectsgroups")) {
		n, ok := c.nodeOf(v, "effects_group")
		if !ok {
			c.errorf("effectsgroups[%d] is not an EffectsGroup", i+1)
			continue
		}
		rec.EffectGroups = append(rec.EffectGroups, c.group(getTable(n, "def"), i+1))
	}
	return rec
}

func (c *compiler) group(tbl *lua.LTable, idx int) types.EffectGroup {
	c.checkFields(tbl, groupFields, fmt.Sprintf("EffectsGroup %d", idx))
	g := types.EffectGroup{AccountingLabel: getString(tbl, "accountinglabel")}

	if v := tbl.RawGetString("scope"); v != lua.LNil {
		g.Scope = c.condition(v)
	} else {
		c.errorf("EffectsGroup %d has no scope", idx)
		g.Scope = types.None{}
	}
	if v := tbl.RawGetString("activation"); v != lua.LNil {
		g.Activation = c.condition(v)
	}

	for i, v := range array(getTable(tbl, "effects")) {
		n, ok := c.nodeOf(v, "set_meter")
		if !ok {
			c.errorf("EffectsGroup %d effects[%d] is not an effect", idx, i+1)
			continue
		}
		if eff, ok := c.effect(n); ok {
			g.Effects = append(g.Effects, eff)
		}
	}
	return g
}

func (c *compiler) effect(n *lua.LTable) (types.Effect, bool) {
	def := getTable(n, "def")
	var ref types.MeterRef
	var err error
	if meter := getString(n, "meter"); meter != "" {
		// Set<Meter> / SetMax<Meter>.
		c.checkFields(def, effectFields, "Set"+camel(meter))
		name := meter
		if part := getString(def, "partname"); part != "" {
			name += "@" + part
		}
		if getString(n, "field") == "max" {
			name = "max:" + name
		}
		ref, err = types.ParseMeterRef(name)
	} else {
		c.checkFields(def, meterFields, "SetMeter")
		ref, err = types.ParseMeterRef(getString(def, "meter"))
	}
	if err != nil {
		c.errorf("%v", err)
		return types.Effect{}, false
	}

	raw := def.RawGetString("value")
	if raw == lua.LNil {
		c.errorf("effect on %s has no value", ref)
		return types.Effect{}, false
	}
	value := c.value(raw)
	value, op, err := normalize(value, getString(def, "mode"))
	if err != nil {
		c.errorf("effect on %s: %v", ref, err)
		return types.Effect{}, false
	}
	return types.Effect{Target: ref, Value: value, Op: op}, true
}

func (c *compiler) condition(v lua.LValue) types.Condition {
	tbl, ok := v.(*lua.LTable)
	typ := ""
	if ok {
		typ = getString(tbl, "type")
	}
	def := getTable(tbl, "def")

	switch typ {
	case "all":
		return types.All{}
	case "none":
		return types.None{}
	case "unowned":
		return types.Unowned{}
	case "is_source":
		return types.IsSource{}
	case "kind":
		return types.OfKind{Kind: types.ObjectKind(getString(tbl, "kind"))}
	case "owned_by":
		c.checkFields(def, fieldSet("empire"), "OwnedBy")
		return types.OwnedBy{Empire: c.required(def, "empire", "OwnedBy")}
	case "design_has_part":
		c.checkFields(def, fieldSet("name", "low", "high"), "DesignHasPart")
		has := types.DesignHasPart{
			Name: getString(def, "name"),
			Low:  intOr(def, "low", 1),
			High: intOr(def, "high", types.NoLimit),
		}
		if has.Low == 0 && has.High == 0 {
			// Zero bounds are the "at least one" default, so "none" is spelled
			// as a ship without the part.
			return types.And{Operands: []types.Condition{
				types.OfKind{Kind: types.KindShip},
				types.Not{Operand: types.DesignHasPart{Name: has.Name}},
			}}
		}
		return has
	case "object_id":
		c.checkFields(def, fieldSet("id"), "ObjectID")
		return types.HasID{ID: c.required(def, "id", "ObjectID")}
	case "in_system":
		c.checkFields(def, fieldSet("id"), "InSystem")
		return types.InSystem{System: c.required(def, "id", "InSystem")}
	case "meter_in_range":
		c.checkFields(def, fieldSet("meter", "low", "high"), "MeterInRange")
		ref, err := types.ParseMeterRef(getString(def, "meter"))
		if err != nil {
			c.errorf("MeterInRange: %v", err)
			return types.None{}
		}
		in := types.MeterInRange{
			Meter: ref,
			Low:   numberOr(def, "low", -types.NoLimit),
			High:  numberOr(def, "high", types.NoLimit),
		}
		if in.Low == 0 && in.High == 0 {
			return types.And{Operands: []types.Condition{
				types.MeterInRange{Meter: ref, Low: -types.NoLimit, High: 0},
				types.MeterInRange{Meter: ref, Low: 0, High: types.NoLimit},
			}}
		}
		return in
	case "turn":
		c.checkFields(def, fieldSet("low", "high"), "Turn")
		turn := types.TurnInRange{Low: intOr(def, "low", 0), High: intOr(def, "high", types.NoLimit)}
		if turn.Low == 0 && turn.High == 0 {
			turn.Low = -types.NoLimit
		}
		return turn
	case "owner_has_tech":
		c.checkFields(def, fieldSet("name"), "OwnerHasTech")
		name := getString(def, "name")
		if name == "" {
			c.errorf("OwnerHasTech needs a name")
		}
		return types.OwnerHasUnlocked{Record: name}
	case "and", "or":
		var ops []types.Condition
		for _, item := range array(def) {
			ops = append(ops, c.condition(item))
		}
		if def != nil && def.Len() != countKeys(def) {
			c.errorf("%s takes a list of conditions", strings.ToUpper(typ[:1])+typ[1:])
		}
		if typ == "and" {
			return types.And{Operands: ops}
		}
		return types.Or{Operands: ops}
	case "not":
		return types.Not{Operand: c.condition(tbl.RawGetString("operand"))}
	}

	c.errorf("%s is not a condition", describe(v))
	return types.None{}
}

func (c *compiler) required(def *lua.LTable, field, what string) types.ValueExpr {
	v := lua.LValue(lua.LNil)
	if def != nil {
		v = def.RawGetString(field)
	}
	if v == lua.LNil {
		c.errorf("%s needs %s", what, field)
		return types.Literal{}
	}
	return c.value(v)
}

func (c *compiler) value(v lua.LValue) types.ValueExpr {
	if n, ok := v.(lua.LNumber); ok {
		return types.Literal{Value: float64(n)}
	}
	tbl, ok := v.(*lua.LTable)
	if !ok {
		if s, ok := v.(lua.LString); ok {
			c.errorf("string %q is not a value; use Formula(%q)", string(s), string(s))
		} else {
			c.errorf("%s is not a value", describe(v))
		}
		return types.Literal{}
	}

	switch getString(tbl, "type") {
	case "value":
		return types.CurrentValue{}
	case "current_turn":
		return types.CurrentTurn{}
	case "property":
		return types.Property{Ref: objectRef(getString(tbl, "ref")), Attr: types.Attribute(getString(tbl, "attr"))}
	case "meter_of":
		def := getTable(tbl, "def")
		c.checkFields(def, fieldSet("object", "meter"), "MeterOf")
		ref, err := types.ParseMeterRef(getString(def, "meter"))
		if err != nil {
			c.errorf("MeterOf: %v", err)
			return types.Literal{}
		}
		obj := getTable(def, "object")
		if obj == nil || getString(obj, "type") != "object" {
			c.errorf("MeterOf needs object = Source or Target")
			return types.Literal{}
		}
		return types.MeterOf{Ref: objectRef(getString(obj, "ref")), Meter: ref}
	case "parts_in_ship_design":
		def := getTable(tbl, "def")
		c.checkFields(def, fieldSet("name", "design"), "PartsInShipDesign")
		return types.PartsInShipDesign{
			Name:   getString(def, "name"),
			Design: c.required(def, "design", "PartsInShipDesign"),
		}
	case "count":
		return types.Count{Condition: c.condition(tbl.RawGetString("condition"))}
	case "formula":
		f, err := rules.CompileFormula(getString(tbl, "src"))
		if err != nil {
			c.errorf("%v", err)
			return types.Literal{}
		}
		return f
	case "arith":
		op, ok := arithOps[getString(tbl, "op")]
		if !ok {
			c.errorf("unknown operator %q", getString(tbl, "op"))
			return types.Literal{}
		}
		return types.Arith{Op: op, Left: c.value(tbl.RawGetString("left")), Right: c.value(tbl.RawGetString("right"))}
	case "object":
		c.errorf("%s is an object, not a number; use %s.ID", getString(tbl, "ref"), getString(tbl, "ref"))
		return types.Literal{}
	}
	c.errorf("%s is not a value", describe(v))
	return types.Literal{}
}

var arithOps = map[string]types.ArithOp{
	"+":   types.ArithAdd,
	"-":   types.ArithSub,
	"*":   types.ArithMul,
	"/":   types.ArithDiv,
	"min": types.ArithMin,
	"max": types.ArithMax,
}

func objectRef(s string) types.ObjectRef {
	if s == "Target" {
		return types.RefTarget
	}
	return types.RefSource
}

// checkFields reports keys of an author table that no constructor reads.
func (c *compiler) checkFields(tbl *lua.LTable, allowed map[string]bool, what string) {
	if tbl == nil {
		return
	}
	var unknown []string
	tbl.ForEach(func(k, _ lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok {
			unknown = append(unknown, k.String())
			return
		}
		if !allowed[string(ks)] {
			unknown = append(unknown, string(ks))
		}
	})
	sort.Strings(unknown)
	for _, k := range unknown {
		c.errorf("%s has unknown field %q", what, k)
	}
}

func (c *compiler) stringList(tbl *lua.LTable, key string) []string {
	var out []string
	for i, v := range array(getTable(tbl, key)) {
		s, ok := v.(lua.LString)
		if !ok {
			c.errorf("%s[%d] is not a string", key, i+1)
			continue
		}
		out = append(out, string(s))
	}
	return out
}

// nodeOf returns v as a node table of the given type.
func (c *compiler) nodeOf(v lua.LValue, typ string) (*lua.LTable, bool) {
	tbl, ok := v.(*lua.LTable)
	if !ok || getString(tbl, "type") != typ {
		return nil, false
	}
	return tbl, true
}

// describe names a Lua value for error messages.
func describe(v lua.LValue) string {
	if tbl, ok := v.(*lua.LTable); ok {
		if typ := getString(tbl, "type"); typ != "" {
			return typ
		}
		return "a plain table"
	}
	if v == lua.LNil {
		return "nil"
	}
	return v.Type().String() + " " + v.String()
}

// array returns the sequence part of a table, or nil.
func array(tbl *lua.LTable) []lua.LValue {
	if tbl == nil {
		return nil
	}
	out := make([]lua.LValue, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		out = append(out, tbl.RawGetInt(i))
	}
	return out
}

func countKeys(tbl *lua.LTable) int {
	n := 0
	tbl.ForEach(func(_, _ lua.LValue) { n++ })
	return n
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if tbl == nil {
		return ""
	}
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	return numberOr(tbl, key, 0)
}

func numberOr(tbl *lua.LTable, key string, def float64) float64 {
	if tbl == nil {
		return def
	}
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

func intOr(tbl *lua.LTable, key string, def int) int {
	return int(numberOr(tbl, key, float64(def)))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if tbl == nil {
		return nil
	}
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}
