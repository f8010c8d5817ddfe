// Package world holds the live game model the command pipeline resolves
// nouns against: entities with names, synonyms and kind chains, rooms
// with directional exits, the player character, and the compass.
package world

import (
	"fmt"
	"strings"
)

// Entity is any addressable game object: item, character, room, or
// compass direction. Identity is pointer identity; ID is a stable key
// derived from the primary name, used by handler tables.
type Entity struct {
	ID       string
	Name     string
	Synonyms []string

	// Kinds is the entity's type chain, most specific first, ending in
	// "thing" (directions are just {"direction"}). Handler dispatch
	// walks this chain for ancestor fallback.
	Kinds []string

	Description string
	Location    *Entity
	Exits       map[string]*Entity // rooms only: canonical direction -> room

	Gettable      bool
	Standout      bool
	AlwaysVisible bool
	Moved         bool

	// Posture and Reach apply to characters: a character mounted on
	// something can only reach the listed entities.
	Posture *Entity
	Reach   []*Entity

	theStr string
	aStr   string
}

// The returns the definite-article form ("the red book", "yourself").
func (e *Entity) The() string {
	if e.theStr != "" {
		return e.theStr
	}
	return "the " + e.Name
}

// A returns the indefinite-article form ("a red book", "an owl").
func (e *Entity) A() string {
	if e.aStr != "" {
		return e.aStr
	}
	article := "a"
	if strings.ContainsRune("aeiou", rune(e.Name[0])) {
		article = "an"
	}
	return article + " " + e.Name
}

// SetThe overrides the definite-article form.
func (e *Entity) SetThe(s string) { e.theStr = s }

// SetA overrides the indefinite-article form.
func (e *Entity) SetA(s string) { e.aStr = s }

// HasKind reports whether k appears in the entity's kind chain.
func (e *Entity) HasKind(k string) bool {
	for _, x := range e.Kinds {
		if x == k {
			return true
		}
	}
	return false
}

// Names returns the primary name followed by all synonyms.
func (e *Entity) Names() []string {
	return append([]string{e.Name}, e.Synonyms...)
}

// Visible reports whether the entity can currently be referred to by
// the actor: same room, carried, always-visible, or a direction.
func (e *Entity) Visible(actor *Entity) bool {
	if e.AlwaysVisible || e.HasKind("direction") {
		return true
	}
	return e.Location != nil && (e.Location == actor.Location || e.Location == actor)
}

// Reachable reports whether the actor can physically touch the entity.
// An unmounted actor reaches everything visible; a mounted one only
// what its position allows.
func (e *Entity) Reachable(actor *Entity) bool {
	if actor == nil || actor.Posture == nil || actor.Reach == nil {
		return true
	}
	for _, r := range actor.Reach {
		if r == e {
			return true
		}
	}
	return false
}

// Place moves the entity, detaching it from any previous location.
func (e *Entity) Place(loc *Entity) {
	if e.Location != nil {
		e.Moved = true
	}
	e.Location = loc
}

func (e *Entity) String() string {
	return fmt.Sprintf("Entity(%q)", e.Name)
}

// World is the full set of entities plus the vocabulary the compass and
// room nouns contribute to the parser.
type World struct {
	entities []*Entity          // insertion order; noun resolution and "all" expansion iterate in this order
	byID     map[string]*Entity

	Player *Entity

	Directions     map[string]*Entity // canonical name -> direction entity
	DirectionWords map[string]string  // surface word -> canonical name ("n" -> "north")
	Opposites      map[string]string
	DirectionVerbs map[string]bool
	RoomNouns      map[string]bool
}

// New creates a world seeded with the standard compass, direction verbs
// and room nouns. Authors may add directions of their own.
func New() *World {
	w := &World{
		byID:           map[string]*Entity{},
		Directions:     map[string]*Entity{},
		DirectionWords: map[string]string{},
		Opposites: map[string]string{
			"north": "south", "south": "north",
			"east": "west", "west": "east",
			"ne": "sw", "sw": "ne",
			"se": "nw", "nw": "se",
			"up": "down", "down": "up",
			"in": "out", "out": "in",
		},
		DirectionVerbs: map[string]bool{"go": true, "walk": true, "run": true},
		RoomNouns:      map[string]bool{"room": true, "area": true},
	}

	compass := []struct {
		name  string
		words []string
	}{
		{"north", []string{"north", "n"}},
		{"east", []string{"east", "e"}},
		{"south", []string{"south", "s"}},
		{"west", []string{"west", "w"}},
		{"ne", []string{"northeast", "ne"}},
		{"nw", []string{"northwest", "nw"}},
		{"se", []string{"southeast", "se"}},
		{"sw", []string{"southwest", "sw"}},
		{"up", []string{"up", "u"}},
		{"down", []string{"down", "d"}},
		{"in", []string{"in"}},
		{"out", []string{"out"}},
	}
	for _, c := range compass {
		w.AddDirection(c.name, c.words...)
	}
	return w
}

// AddDirection registers a compass direction and the words that name it.
func (w *World) AddDirection(name string, words ...string) *Entity {
	d := &Entity{ID: "dir_" + name, Name: name, Kinds: []string{"direction"}}
	w.Directions[name] = d
	for _, word := range words {
		w.DirectionWords[word] = name
	}
	return d
}

// Opposite returns the opposite of a canonical direction name, or "".
func (w *World) Opposite(dir string) string {
	return w.Opposites[dir]
}

// Add registers an entity. IDs must be unique; a duplicate panics since
// it is an authoring error, not a runtime condition.
func (w *World) Add(e *Entity) *Entity {
	if e.ID == "" {
		e.ID = strings.ReplaceAll(strings.ToLower(e.Name), " ", "_")
	}
	if _, dup := w.byID[e.ID]; dup {
		panic(fmt.Sprintf("world: duplicate entity id %q", e.ID))
	}
	w.byID[e.ID] = e
	w.entities = append(w.entities, e)
	return e
}

// Entities returns all registered entities in insertion order.
// Directions are not included; they live in Directions.
func (w *World) Entities() []*Entity {
	return w.entities
}

// Lookup finds an entity by ID.
func (w *World) Lookup(id string) (*Entity, bool) {
	e, ok := w.byID[id]
	return e, ok
}

// NewRoom creates and registers a room.
func (w *World) NewRoom(name, description string) *Entity {
	r := &Entity{
		Name:        name,
		Kinds:       []string{"room", "thing"},
		Description: description,
		Exits:       map[string]*Entity{},
	}
	w.Add(r)
	r.Location = r
	return r
}

// NewThing creates and registers a plain scenery thing.
func (w *World) NewThing(name string, location *Entity, synonyms ...string) *Entity {
	t := &Entity{
		Name:     name,
		Synonyms: synonyms,
		Kinds:    []string{"thing"},
		Location: location,
	}
	return w.Add(t)
}

// NewItem creates and registers a gettable item.
func (w *World) NewItem(name string, location *Entity, synonyms ...string) *Entity {
	t := &Entity{
		Name:     name,
		Synonyms: synonyms,
		Kinds:    []string{"item", "thing"},
		Location: location,
		Gettable: true,
		Standout: true,
	}
	return w.Add(t)
}

// NewBackgroundItem creates and registers non-interactive scenery.
func (w *World) NewBackgroundItem(name string, location *Entity, synonyms ...string) *Entity {
	t := &Entity{
		Name:     name,
		Synonyms: synonyms,
		Kinds:    []string{"background", "thing"},
		Location: location,
	}
	return w.Add(t)
}

// NewCharacter creates and registers a character.
func (w *World) NewCharacter(name string, location *Entity, synonyms ...string) *Entity {
	t := &Entity{
		Name:     name,
		Synonyms: synonyms,
		Kinds:    []string{"character", "thing"},
		Location: location,
	}
	return w.Add(t)
}

// NewPlayer creates the player character and installs it as w.Player.
func (w *World) NewPlayer(name string, location *Entity) *Entity {
	p := &Entity{
		Name:     name,
		Synonyms: []string{"self", "me", "myself"},
		Kinds:    []string{"player", "character", "thing"},
		Location: location,
	}
	p.SetThe("yourself")
	p.SetA("you")
	w.Add(p)
	w.Player = p
	return p
}

// Connect links two rooms. The direction may be any word naming a
// compass direction ("n" or "north"). With bothWays set the opposite
// connection is created too.
func (w *World) Connect(from *Entity, direction string, to *Entity, bothWays bool) error {
	canon, ok := w.DirectionWords[direction]
	if !ok {
		return fmt.Errorf("world: invalid direction %q", direction)
	}
	if from.Exits == nil {
		from.Exits = map[string]*Entity{}
	}
	from.Exits[canon] = to
	if bothWays {
		opp := w.Opposite(canon)
		if opp == "" {
			return fmt.Errorf("world: no opposite for direction %q", canon)
		}
		if to.Exits == nil {
			to.Exits = map[string]*Entity{}
		}
		to.Exits[opp] = from
	}
	return nil
}

// Carried returns the entities the actor is carrying, in world order.
func (w *World) Carried(actor *Entity) []*Entity {
	var inv []*Entity
	for _, e := range w.entities {
		if e.Location == actor {
			inv = append(inv, e)
		}
	}
	return inv
}

// Carrying reports whether the actor carries the entity.
func (w *World) Carrying(actor, e *Entity) bool {
	return e.Location == actor
}

// InRoom returns the entities located in the given room, in world
// order, excluding the room itself.
func (w *World) InRoom(room *Entity) []*Entity {
	var res []*Entity
	for _, e := range w.entities {
		if e.Location == room && e != room {
			res = append(res, e)
		}
	}
	return res
}
