package engine

import (
	"github.com/leokoppel/notea/engine/action"
	"github.com/leokoppel/notea/world"
)

// Defaults installs the stock verbs, keywords and group handlers every
// game starts from. Game scripts layer their own handlers on top.
func Defaults(s *Session) {
	reg := s.Registry

	// Background scenery deflects everything before any verb handler
	// sees it.
	reg.Group("all").On(
		[]action.Shape{{Kind: "background"}},
		action.NewHandler(func(inv *action.Invocation) bool {
			inv.Say("That's not important; leave it alone.")
			return true
		}).WithGuard(nil),
	)

	registerLook(s)
	registerGet(s)
	registerDrop(s)
	registerGo(s)

	reg.Verb("wait").On([]action.Shape{{}}, action.NewHandler(func(inv *action.Invocation) bool {
		inv.Say("Time passes.")
		return true
	}))

	registerKeywords(s)
}

func registerLook(s *Session) {
	look := s.Registry.Verb("look").AddGroups("sight")
	s.Registry.Synonym("l", "look")
	s.Registry.Synonym("examine", "look")
	s.Registry.Synonym("x", "look")

	look.On([]action.Shape{{}}, action.NewHandler(func(inv *action.Invocation) bool {
		s.Look(inv.Out, true)
		return true
	}))

	describe := action.NewHandler(func(inv *action.Invocation) bool {
		e := inv.Targets[0].One
		if e.HasKind("room") {
			s.Look(inv.Out, true)
			return true
		}
		if e.Description != "" {
			inv.Say("%s", e.Description)
		} else {
			inv.Say("You see nothing special about %s.", e.The())
		}
		return true
	}).WithGuard(nil)
	look.On([]action.Shape{{Kind: "thing"}}, describe)
	look.On([]action.Shape{{Prep: "at", Kind: "thing"}}, describe)
}

func registerGet(s *Session) {
	get := s.Registry.Verb("get")
	s.Registry.Synonym("take", "get")

	// "get lamp" when one lamp is carried and one is on the floor is
	// not worth a question.
	get.AmbiguityFilter = func(matches []*world.Entity) []*world.Entity {
		var inRoom []*world.Entity
		for _, e := range matches {
			if e.Location == s.World.Player.Location {
				inRoom = append(inRoom, e)
			}
		}
		if len(inRoom) > 0 {
			return inRoom
		}
		return matches
	}

	take := action.NewHandler(func(inv *action.Invocation) bool {
		e := inv.Targets[0].One
		switch {
		case e == inv.Actor:
			inv.Say("You can't take yourself!")
		case !e.Gettable:
			inv.Say("You can't take that.")
		case inv.World.Carrying(inv.Actor, e):
			inv.Say("You already have %s.", e.The())
		default:
			e.Place(inv.Actor)
			inv.Say("Taken.")
		}
		return true
	})
	get.OnMulti([]action.Shape{{Kind: "thing"}}, take, func(e *world.Entity) bool {
		return e.Gettable && !s.World.Carrying(s.World.Player, e)
	})

	// "pick up x" arrives as the verb "pick" with an "up" preposition.
	s.Registry.Verb("pick").OnMulti(
		[]action.Shape{{Prep: "up", Kind: "thing"}}, take,
		func(e *world.Entity) bool {
			return e.Gettable && !s.World.Carrying(s.World.Player, e)
		})
}

func registerDrop(s *Session) {
	drop := s.Registry.Verb("drop")

	put := action.NewHandler(func(inv *action.Invocation) bool {
		e := inv.Targets[0].One
		if !inv.World.Carrying(inv.Actor, e) {
			inv.Say("You don't have %s.", e.The())
			return true
		}
		e.Place(inv.Actor.Location)
		inv.Say("Dropped.")
		return true
	})
	drop.OnMulti([]action.Shape{{Kind: "thing"}}, put, func(e *world.Entity) bool {
		return e.Gettable && s.World.Carrying(s.World.Player, e)
	})
}

func registerGo(s *Session) {
	walk := s.Registry.Verb("go").AddGroups("movement")
	walk.Interrogative = "Where do you want to %s?"
	s.Registry.Synonym("walk", "go")
	s.Registry.Synonym("run", "go")

	walk.On([]action.Shape{{Kind: "direction"}}, action.NewHandler(func(inv *action.Invocation) bool {
		dir := inv.Targets[0].One
		room := inv.Actor.Location
		if room == nil || room.Exits[dir.Name] == nil {
			inv.Say("You can't go that way.")
			return true
		}
		s.Enter(inv.Out, room.Exits[dir.Name])
		return true
	}).WithGuard(nil))
}

func registerKeywords(s *Session) {
	kwd := func(name string, fn action.Func) {
		s.Registry.Keyword(name).On([]action.Shape{{}}, action.NewHandler(fn).WithGuard(nil))
	}

	inventory := func(inv *action.Invocation) bool {
		carried := inv.World.Carried(inv.Actor)
		if len(carried) == 0 {
			inv.Say("You are empty-handed.")
			return true
		}
		inv.Say("You are carrying:")
		for _, e := range carried {
			inv.Say("  %s", action.Capitalize(e.A()))
		}
		return true
	}
	kwd("inventory", inventory)
	kwd("i", inventory)

	kwd("quit", func(inv *action.Invocation) bool {
		s.Running = false
		inv.Say("Goodbye.")
		return true
	})
	kwd("restart", func(inv *action.Invocation) bool {
		s.Running = false
		s.Restarting = true
		inv.Say("Restarting...")
		return true
	})

	kwd("brief", func(inv *action.Invocation) bool {
		s.Verbosity = Brief
		inv.Say("Brief descriptions.")
		return true
	})
	kwd("superbrief", func(inv *action.Invocation) bool {
		s.Verbosity = Superbrief
		inv.Say("Superbrief descriptions.")
		return true
	})
	kwd("verbose", func(inv *action.Invocation) bool {
		s.Verbosity = Verbose
		inv.Say("Maximum verbosity.")
		return true
	})

	kwd("score", func(inv *action.Invocation) bool {
		inv.Say("You have taken %d turns.", s.Steps)
		return true
	})
	kwd("time", func(inv *action.Invocation) bool {
		inv.Say("You have taken %d turns.", s.Steps)
		return true
	})
	kwd("version", func(inv *action.Invocation) bool {
		inv.Say("notea engine")
		return true
	})
	kwd("diagnose", func(inv *action.Invocation) bool {
		inv.Say("You are in perfect health.")
		return true
	})
}
