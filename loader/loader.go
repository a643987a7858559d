package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/effectcore/engine/content"
	"github.com/nathoo/effectcore/types"
)

// rawRecord holds a Tech or Building table before compilation.
type rawRecord struct {
	kind  types.RecordKind
	name  string // from the curried form; "" when the table carries it
	table *lua.LTable
	file  string
}

// collector accumulates Lua definitions during file execution.
type collector struct {
	records []rawRecord
	file    string
}

func (c *collector) add(kind types.RecordKind, name string, tbl *lua.LTable) {
	c.records = append(c.records, rawRecord{kind: kind, name: name, table: tbl, file: c.file})
}

// Load reads all .lua files from dir, compiles them into content records,
// validates them, and returns the registry. The Lua VM is discarded after
// loading. Warnings are logged through slog.Default.
func Load(dir string) (*content.Registry, error) {
	reg, warnings, err := load(dir)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		slog.Warn("content warning", "dir", dir, "warning", w)
	}
	return reg, nil
}

// Check loads dir like Load but returns warnings instead of logging them.
func Check(dir string) (*content.Registry, []string, error) {
	return load(dir)
}

func load(dir string) (*content.Registry, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading content directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	// Sort: macros.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		coll.file = f
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	records, ve := compile(coll)
	validate(records, ve)
	if len(ve.Errors) > 0 {
		return nil, ve.Warnings, ve
	}

	reg := content.NewRegistry()
	for _, rec := range records {
		if err := reg.Add(rec); err != nil {
			return nil, ve.Warnings, fmt.Errorf("registering %s: %w", rec.Name, err)
		}
	}
	return reg, ve.Warnings, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Content must evaluate the same way every load.
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}
}

// sortedLuaFiles returns .lua files with macros.lua first and the rest
// sorted alphabetically. File order is content-load order.
func sortedLuaFiles(files []string) []string {
	var macros string
	var others []string
	for _, f := range files {
		if f == "macros.lua" {
			macros = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if macros != "" {
		return append([]string{macros}, others...)
	}
	return others
}
