package loader

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/leokoppel/notea/engine"
	"github.com/leokoppel/notea/engine/action"
	"github.com/leokoppel/notea/world"
)

// compile turns the collected Lua definitions into a live Game. Order
// matters: rooms and things exist before locations and exits resolve,
// and the session exists before handlers close over it.
func compile(L *lua.LState, coll *collector) (*Game, error) {
	if err := validate(coll); err != nil {
		return nil, err
	}

	w := world.New()

	for _, r := range coll.rooms {
		room := &world.Entity{
			ID:          r.id,
			Name:        getString(r.table, "name", displayName(r.id)),
			Kinds:       []string{"room", "thing"},
			Description: getString(r.table, "description", ""),
			Exits:       map[string]*world.Entity{},
		}
		w.Add(room)
		room.Location = room
	}

	for _, raw := range coll.entities {
		e := &world.Entity{
			ID:          raw.id,
			Name:        getString(raw.table, "name", displayName(raw.id)),
			Synonyms:    getStrings(raw.table, "synonyms"),
			Description: getString(raw.table, "description", ""),
		}
		switch raw.kind {
		case "item":
			e.Kinds = []string{raw.id, "item", "thing"}
			e.Gettable = true
			e.Standout = true
		case "background":
			e.Kinds = []string{raw.id, "background", "thing"}
		case "character":
			e.Kinds = []string{raw.id, "character", "thing"}
		default:
			e.Kinds = []string{raw.id, "thing"}
		}
		if kinds := getStrings(raw.table, "kinds"); kinds != nil {
			e.Kinds = append([]string{raw.id}, append(kinds, "thing")...)
		}
		if v := raw.table.RawGetString("gettable"); v != lua.LNil {
			e.Gettable = lua.LVAsBool(v)
		}
		if v := getString(raw.table, "the", ""); v != "" {
			e.SetThe(v)
		}
		if v := getString(raw.table, "a", ""); v != "" {
			e.SetA(v)
		}
		w.Add(e)
	}

	// Locations and exits resolve once everything is registered.
	for _, raw := range coll.entities {
		locID := getString(raw.table, "location", "")
		if locID == "" {
			continue
		}
		loc, ok := w.Lookup(locID)
		if !ok {
			return nil, fmt.Errorf("%s %q: unknown location %q", raw.kind, raw.id, locID)
		}
		e, _ := w.Lookup(raw.id)
		e.Location = loc
	}
	for _, r := range coll.rooms {
		exits, ok := r.table.RawGetString("exits").(*lua.LTable)
		if !ok {
			continue
		}
		room, _ := w.Lookup(r.id)
		var exitErr error
		exits.ForEach(func(k, v lua.LValue) {
			dir, dok := k.(lua.LString)
			dest, tok := v.(lua.LString)
			if !dok || !tok {
				exitErr = fmt.Errorf("room %q: malformed exits table", r.id)
				return
			}
			to, found := w.Lookup(string(dest))
			if !found {
				exitErr = fmt.Errorf("room %q: exit %s leads to unknown room %q", r.id, dir, dest)
				return
			}
			if err := w.Connect(room, string(dir), to, false); err != nil {
				exitErr = fmt.Errorf("room %q: %w", r.id, err)
			}
		})
		if exitErr != nil {
			return nil, exitErr
		}
	}
	for _, c := range coll.connects {
		from, ok := w.Lookup(c.from)
		if !ok {
			return nil, fmt.Errorf("Connect: unknown room %q", c.from)
		}
		to, ok := w.Lookup(c.to)
		if !ok {
			return nil, fmt.Errorf("Connect: unknown room %q", c.to)
		}
		if err := w.Connect(from, c.direction, to, c.bothWays); err != nil {
			return nil, err
		}
	}

	start := getString(coll.player, "location", "")
	if start == "" && coll.game != nil {
		start = getString(coll.game, "start", "")
	}
	startRoom, ok := w.Lookup(start)
	if !ok {
		return nil, fmt.Errorf("player: unknown starting room %q", start)
	}
	w.NewPlayer(getString(coll.player, "name", "you"), startRoom)

	s := engine.NewSession(w)
	game := &Game{Session: s, vm: L}
	if coll.game != nil {
		game.Title = getString(coll.game, "title", "")
		game.Author = getString(coll.game, "author", "")
		game.Intro = getString(coll.game, "intro", "")
	}

	for _, v := range coll.verbs {
		act := s.Registry.Verb(v.name)
		for _, syn := range getStrings(v.table, "synonyms") {
			s.Registry.Synonym(syn, v.name)
		}
		if groups := getStrings(v.table, "groups"); len(groups) > 0 {
			act.AddGroups(groups...)
		}
		if q := getString(v.table, "interrogative", ""); q != "" {
			act.Interrogative = q
		}
		if p := getString(v.table, "default_prep", ""); p != "" {
			act.DefaultPrep = p
		}
	}

	for _, h := range coll.handlers {
		fn := wrapHandler(L, game, h.fn)
		switch h.kind {
		case "keyword":
			s.Registry.Keyword(h.verb).On(
				[]action.Shape{{}}, action.NewHandler(fn).WithGuard(nil))
		case "group":
			shapes, err := parseShapes(h.shapes)
			if err != nil {
				return nil, fmt.Errorf("OnGroup(%q): %w", h.verb, err)
			}
			s.Registry.Group(h.verb).On(shapes, action.NewHandler(fn).WithGuard(nil))
		case "onmulti":
			shapes, err := parseShapes(h.shapes)
			if err != nil {
				return nil, fmt.Errorf("OnMulti(%q): %w", h.verb, err)
			}
			s.Registry.Verb(h.verb).OnMulti(shapes, action.NewHandler(fn), nil)
		default:
			shapes, err := parseShapes(h.shapes)
			if err != nil {
				return nil, fmt.Errorf("On(%q): %w", h.verb, err)
			}
			s.Registry.Verb(h.verb).On(shapes, action.NewHandler(fn))
		}
	}

	return game, nil
}

// wrapHandler adapts a Lua function to an action.Func. The function
// receives a ctx table and its return value decides whether the command
// counts as handled.
func wrapHandler(L *lua.LState, g *Game, fn *lua.LFunction) action.Func {
	return func(inv *action.Invocation) bool {
		ctx := buildCtx(L, g, inv)
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, ctx); err != nil {
			inv.Say("[script error: %v]", err)
			return true
		}
		ret := L.Get(-1)
		L.Pop(1)
		return lua.LVAsBool(ret)
	}
}

// buildCtx assembles the per-invocation table handlers receive: the
// verb, resolved targets, and world-mutating helpers.
func buildCtx(L *lua.LState, g *Game, inv *action.Invocation) *lua.LTable {
	ctx := L.NewTable()
	ctx.RawSetString("verb", lua.LString(inv.Verb))
	ctx.RawSetString("actor", lua.LString(inv.Actor.ID))

	targets := L.NewTable()
	for _, t := range inv.Targets {
		tt := L.NewTable()
		if t.Prep != "" {
			tt.RawSetString("prep", lua.LString(t.Prep))
		}
		if t.One != nil {
			tt.RawSetString("id", lua.LString(t.One.ID))
			if ctx.RawGetString("target") == lua.LNil {
				ctx.RawSetString("target", lua.LString(t.One.ID))
			}
		}
		if len(t.List) > 0 {
			ids := L.NewTable()
			for _, e := range t.List {
				ids.Append(lua.LString(e.ID))
			}
			tt.RawSetString("ids", ids)
		}
		targets.Append(tt)
	}
	ctx.RawSetString("targets", targets)

	lookup := func(L *lua.LState, id string) *world.Entity {
		if id == "player" || id == inv.Actor.ID {
			return inv.Actor
		}
		e, ok := inv.World.Lookup(id)
		if !ok {
			L.RaiseError("unknown entity %q", id)
		}
		return e
	}

	ctx.RawSetString("say", L.NewFunction(func(L *lua.LState) int {
		inv.Say("%s", L.CheckString(1))
		return 0
	}))
	ctx.RawSetString("move", L.NewFunction(func(L *lua.LState) int {
		e := lookup(L, L.CheckString(1))
		e.Place(lookup(L, L.CheckString(2)))
		return 0
	}))
	ctx.RawSetString("destroy", L.NewFunction(func(L *lua.LState) int {
		lookup(L, L.CheckString(1)).Place(nil)
		return 0
	}))
	ctx.RawSetString("carrying", L.NewFunction(func(L *lua.LState) int {
		e := lookup(L, L.CheckString(1))
		L.Push(lua.LBool(inv.World.Carrying(inv.Actor, e)))
		return 1
	}))
	ctx.RawSetString("describe", L.NewFunction(func(L *lua.LState) int {
		lookup(L, L.CheckString(1)).Description = L.CheckString(2)
		return 0
	}))
	ctx.RawSetString("stop", L.NewFunction(func(L *lua.LState) int {
		g.Session.Running = false
		return 0
	}))
	return ctx
}

// parseShapes converts a Lua array of shape tables into dispatch
// shapes. {{}} means the bare verb; {{prep = "at", kind = "thing"}}
// one slot.
func parseShapes(tbl *lua.LTable) ([]action.Shape, error) {
	var shapes []action.Shape
	var err error
	tbl.ForEach(func(_, v lua.LValue) {
		st, ok := v.(*lua.LTable)
		if !ok {
			err = fmt.Errorf("shape must be a table, got %s", v.Type())
			return
		}
		shapes = append(shapes, action.Shape{
			Prep: getString(st, "prep", ""),
			Kind: getString(st, "kind", ""),
			List: lua.LVAsBool(st.RawGetString("list")),
		})
	})
	if err != nil {
		return nil, err
	}
	if len(shapes) == 0 {
		shapes = []action.Shape{{}}
	}
	return shapes, nil
}

func getString(tbl *lua.LTable, key, fallback string) string {
	if tbl == nil {
		return fallback
	}
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return fallback
}

func getStrings(tbl *lua.LTable, key string) []string {
	if tbl == nil {
		return nil
	}
	arr, ok := tbl.RawGetString(key).(*lua.LTable)
	if !ok {
		return nil
	}
	var res []string
	arr.ForEach(func(_, v lua.LValue) {
		if s, ok := v.(lua.LString); ok {
			res = append(res, string(s))
		}
	})
	return res
}

// displayName turns an id like "brass_lamp" into "brass lamp".
func displayName(id string) string {
	return strings.ReplaceAll(id, "_", " ")
}
