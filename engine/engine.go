// Package engine ties the pipeline to a running game session: it owns
// the cross-turn clarification state, the step counter, and room
// narration.
package engine

import (
	"errors"
	"fmt"

	"github.com/leokoppel/notea/engine/action"
	"github.com/leokoppel/notea/engine/parse"
	"github.com/leokoppel/notea/types"
	"github.com/leokoppel/notea/world"
)

// Verbosity controls how much of a room is described on entry.
type Verbosity int

const (
	// Brief gives the full description only on the first visit.
	Brief Verbosity = iota
	// Verbose always gives the full description.
	Verbose
	// Superbrief never gives more than the room name.
	Superbrief
)

// Session is one running game: a world, its registered actions, and the
// turn state that carries across inputs.
type Session struct {
	World    *world.World
	Registry *action.Registry
	Pipeline *parse.Pipeline

	Steps   int
	Running bool

	// Restarting is set alongside Running going false when the player
	// asks to start over. The front end reloads the game and runs a
	// fresh session; the engine itself cannot rebuild the world.
	Restarting bool

	Verbosity Verbosity

	// OnCommand, if set, observes each resolved command before its
	// handlers run. Used for tracing.
	OnCommand func(*parse.Command)

	// OnInput, if set, sees each input line before the parser does.
	// Returning true claims the line: no parsing happens, the turn
	// counter does not advance, and any stored clarification survives.
	// Handlers that ask the player a blocking question install one of
	// these for the duration of the conversation.
	OnInput func(input string, say func(string)) bool

	pending *types.Pending
}

// NewSession creates a session over the world with the default actions
// installed.
func NewSession(w *world.World) *Session {
	s := &Session{
		World:    w,
		Registry: action.NewRegistry(),
		Running:  true,
	}
	s.Pipeline = parse.New(w, s.Registry)
	Defaults(s)
	return s
}

// Step runs one line of player input and returns the narration lines it
// produced. Ambiguous commands store a clarification that the next Step
// may complete.
func (s *Session) Step(input string) []string {
	var out []string
	say := func(line string) { out = append(out, line) }

	if s.OnInput != nil && s.OnInput(input, say) {
		return out
	}

	pending := s.pending
	s.pending = nil

	advanced := false
	for cmd, err := range s.Pipeline.Parse(input, s.World.Player, pending) {
		if err != nil {
			var ae *types.AmbiguityError
			if errors.As(err, &ae) {
				s.pending = &ae.Pending
			}
			say(err.Error())
			break
		}

		if s.OnCommand != nil {
			s.OnCommand(cmd)
		}

		inv := &action.Invocation{
			World:   s.World,
			Actor:   s.World.Player,
			Verb:    cmd.Verb,
			Targets: cmd.Targets,
			Out:     say,
		}
		handled := false
		for _, h := range cmd.Handlers {
			if h.Call(inv) {
				handled = true
				break
			}
		}
		if !handled {
			say("You can't do that.")
		}
		if !cmd.Keyword {
			advanced = true
		}
		if !s.Running {
			break
		}
	}

	if advanced {
		s.Steps++
	}
	return out
}

// Look narrates the actor's current room. With full set the description
// is always given; otherwise verbosity and visit state decide.
func (s *Session) Look(say func(string), full bool) {
	room := s.World.Player.Location
	if room == nil {
		say("You are nowhere.")
		return
	}
	say(room.Name)

	describe := full
	if !full {
		switch s.Verbosity {
		case Verbose:
			describe = true
		case Brief:
			describe = !room.Moved
		}
	}
	if describe && room.Description != "" {
		say(room.Description)
	}

	for _, e := range s.World.InRoom(room) {
		if e == s.World.Player || !e.Standout {
			continue
		}
		say(fmt.Sprintf("There is %s here.", e.A()))
	}
}

// Enter moves the actor into a room and narrates the arrival. The first
// visit is marked by the room's Moved flag.
func (s *Session) Enter(say func(string), room *world.Entity) {
	s.World.Player.Place(room)
	s.Look(say, false)
	room.Moved = true
}
