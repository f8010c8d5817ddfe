// Package loader reads a game directory of Lua scripts and compiles it
// into a running Session. Scripts declare rooms, things and the player,
// and attach handler functions to verbs; the Lua VM stays alive for the
// whole session since those handlers run on every matching command.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/leokoppel/notea/engine"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	game     *lua.LTable
	rooms    []rawRoom
	entities []rawEntity
	player   *lua.LTable
	connects []rawConnect
	verbs    []rawVerb
	handlers []rawHandler
}

type rawRoom struct {
	id    string
	table *lua.LTable
}

type rawEntity struct {
	id    string
	kind  string // item, thing, background, character
	table *lua.LTable
}

type rawConnect struct {
	from, direction, to string
	bothWays            bool
}

type rawVerb struct {
	name  string
	table *lua.LTable
}

type rawHandler struct {
	kind   string // on, onmulti, keyword, group
	verb   string
	shapes *lua.LTable
	fn     *lua.LFunction
}

// Game is a loaded game: the session plus the Lua VM its handlers live
// in. Close releases the VM.
type Game struct {
	Session *engine.Session

	Title  string
	Author string
	Intro  string

	vm *lua.LState
}

// Close shuts down the Lua VM. The session is unusable afterwards.
func (g *Game) Close() { g.vm.Close() }

// Load reads all .lua files from dir, executes them in a sandboxed VM,
// and compiles the collected definitions into a Game.
func Load(dir string) (*Game, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading game directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	sortLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			L.Close()
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	game, err := compile(L, coll)
	if err != nil {
		L.Close()
		return nil, err
	}
	return game, nil
}

// sortLuaFiles orders game.lua first, the rest alphabetically, so the
// game table and rooms exist before later files reference them.
func sortLuaFiles(files []string) {
	sort.Slice(files, func(i, j int) bool {
		if files[i] == "game.lua" {
			return files[j] != "game.lua"
		}
		if files[j] == "game.lua" {
			return false
		}
		return files[i] < files[j]
	})
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes filesystem and code-loading globals.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}
}
