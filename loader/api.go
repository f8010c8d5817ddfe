package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the Lua constructors as globals. Entity and
// room constructors are curried: Room "id" { ... }.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", author = "...", intro = "...", start = "room_id" }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Room "id" { name = "...", description = "...", exits = { north = "other" } }
	L.SetGlobal("Room", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.rooms = append(coll.rooms, rawRoom{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// Item / Thing / Background / Character "id" { name, description,
	// location = "room_id", synonyms = {...} } — curried like Room.
	entity := func(kind string) *lua.LFunction {
		return L.NewFunction(func(L *lua.LState) int {
			id := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				coll.entities = append(coll.entities, rawEntity{
					id: id, kind: kind, table: L.CheckTable(1),
				})
				return 0
			}))
			return 1
		})
	}
	L.SetGlobal("Item", entity("item"))
	L.SetGlobal("Thing", entity("thing"))
	L.SetGlobal("Background", entity("background"))
	L.SetGlobal("Character", entity("character"))

	// Player { name = "...", location = "room_id" }
	L.SetGlobal("Player", L.NewFunction(func(L *lua.LState) int {
		coll.player = L.CheckTable(1)
		return 0
	}))

	// Connect("room_a", "north", "room_b", true)
	L.SetGlobal("Connect", L.NewFunction(func(L *lua.LState) int {
		coll.connects = append(coll.connects, rawConnect{
			from:      L.CheckString(1),
			direction: L.CheckString(2),
			to:        L.CheckString(3),
			bothWays:  L.OptBool(4, false),
		})
		return 0
	}))

	// Verb "read" { synonyms = {"peruse"}, groups = {"sight"},
	//               interrogative = "What do you want to %s?" }
	L.SetGlobal("Verb", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.verbs = append(coll.verbs, rawVerb{name: name, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))

	// On("read", {{kind = "book"}}, function(ctx) ... end)
	// Each shape is a table with optional prep, kind and list fields; an
	// empty shape table means the verb alone. kind may be an entity id.
	handler := func(kind string) *lua.LFunction {
		return L.NewFunction(func(L *lua.LState) int {
			coll.handlers = append(coll.handlers, rawHandler{
				kind:   kind,
				verb:   L.CheckString(1),
				shapes: L.CheckTable(2),
				fn:     L.CheckFunction(3),
			})
			return 0
		})
	}
	L.SetGlobal("On", handler("on"))
	L.SetGlobal("OnMulti", handler("onmulti"))
	L.SetGlobal("OnGroup", handler("group"))

	// Keyword("pray", function(ctx) ... end)
	L.SetGlobal("Keyword", L.NewFunction(func(L *lua.LState) int {
		coll.handlers = append(coll.handlers, rawHandler{
			kind: "keyword",
			verb: L.CheckString(1),
			fn:   L.CheckFunction(2),
		})
		return 0
	}))
}
