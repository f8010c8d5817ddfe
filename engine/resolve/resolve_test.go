package resolve

import (
	"errors"
	"testing"

	"github.com/leokoppel/notea/engine/action"
	"github.com/leokoppel/notea/types"
	"github.com/leokoppel/notea/world"
)

type fixture struct {
	w        *world.World
	reg      *action.Registry
	hall     *world.Entity
	cellar   *world.Entity
	redBook  *world.Entity
	blueBook *world.Entity
	hat      *world.Entity
	painting *world.Entity
	vase     *world.Entity
	player   *world.Entity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := world.New()
	f := &fixture{w: w, reg: action.NewRegistry()}
	f.hall = w.NewRoom("Hall", "")
	f.cellar = w.NewRoom("Cellar", "")
	f.redBook = w.NewItem("red book", f.hall, "tome")
	f.blueBook = w.NewItem("blue book", f.hall)
	f.hat = w.NewItem("hat", f.hall)
	f.painting = w.NewBackgroundItem("painting", f.hall)
	f.vase = w.NewItem("vase", f.cellar)
	f.player = w.NewPlayer("you", f.hall)

	f.reg.Verb("get")
	f.reg.Verb("look")
	f.reg.Verb("go")
	f.reg.Keyword("quit")
	return f
}

func pairs(ps ...types.TargetPair) []types.TargetPair { return ps }

func TestObjectsSimple(t *testing.T) {
	f := newFixture(t)
	res, err := Objects(f.w, f.reg, "get", pairs(types.TargetPair{Nouns: []string{"hat"}}), f.player)
	if err != nil {
		t.Fatal(err)
	}
	if res.Action.Name != "get" || res.Keyword {
		t.Errorf("action = %q keyword = %v", res.Action.Name, res.Keyword)
	}
	if len(res.Targets) != 1 || res.Targets[0].One != f.hat {
		t.Errorf("targets = %+v", res.Targets)
	}
}

func TestObjectsSynonymAndSubsequence(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		noun string
		want *world.Entity
	}{
		{"tome", f.redBook},
		{"red book", f.redBook},
		{"red", f.redBook},
		{"blue book", f.blueBook},
	}
	for _, tt := range tests {
		res, err := Objects(f.w, f.reg, "get", pairs(types.TargetPair{Nouns: []string{tt.noun}}), f.player)
		if err != nil {
			t.Fatalf("%q: %v", tt.noun, err)
		}
		if res.Targets[0].One != tt.want {
			t.Errorf("%q resolved to %v, want %v", tt.noun, res.Targets[0].One, tt.want)
		}
	}
}

func TestObjectsAmbiguous(t *testing.T) {
	f := newFixture(t)
	in := pairs(types.TargetPair{Nouns: []string{"book"}})
	_, err := Objects(f.w, f.reg, "look", in, f.player)

	var ae *types.AmbiguityError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AmbiguityError, got %v", err)
	}
	if want := "Did you mean the red book or the blue book?"; ae.Msg != want {
		t.Errorf("Msg = %q, want %q", ae.Msg, want)
	}
	wantPending := types.Pending{
		Verb: "look", Pairs: in, Class: types.TagNoun, Pair: 0, Noun: 0,
	}
	if !ae.Pending.Equal(&wantPending) {
		t.Errorf("Pending = %+v, want %+v", ae.Pending, wantPending)
	}
}

func TestObjectsAmbiguityFilter(t *testing.T) {
	f := newFixture(t)
	f.redBook.Place(f.player) // carried; the blue one is on the floor

	get, _ := f.reg.Lookup("get")
	get.AmbiguityFilter = func(matches []*world.Entity) []*world.Entity {
		var inRoom []*world.Entity
		for _, e := range matches {
			if e.Location == f.player.Location {
				inRoom = append(inRoom, e)
			}
		}
		if len(inRoom) > 0 {
			return inRoom
		}
		return matches
	}

	res, err := Objects(f.w, f.reg, "get", pairs(types.TargetPair{Nouns: []string{"book"}}), f.player)
	if err != nil {
		t.Fatal(err)
	}
	if res.Targets[0].One != f.blueBook {
		t.Errorf("resolved to %v, want the blue book", res.Targets[0].One)
	}

	// The filter only applies to the filtered verb.
	_, err = Objects(f.w, f.reg, "look", pairs(types.TargetPair{Nouns: []string{"book"}}), f.player)
	var ae *types.AmbiguityError
	if !errors.As(err, &ae) {
		t.Errorf("look should still be ambiguous, got %v", err)
	}
}

func TestObjectsNotVisible(t *testing.T) {
	f := newFixture(t)
	_, err := Objects(f.w, f.reg, "get", pairs(types.TargetPair{Nouns: []string{"vase"}}), f.player)

	var nf *types.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if want := "You see no vase here!"; nf.Msg != want {
		t.Errorf("Msg = %q, want %q", nf.Msg, want)
	}
}

func TestObjectsAll(t *testing.T) {
	f := newFixture(t)
	res, err := Objects(f.w, f.reg, "get", pairs(types.TargetPair{Nouns: []string{"all"}}), f.player)
	if err != nil {
		t.Fatal(err)
	}
	target := res.Targets[0]
	if !target.All {
		t.Error("All flag should be set")
	}
	// World enumeration order: everything visible except the actor.
	want := []*world.Entity{f.hall, f.redBook, f.blueBook, f.hat, f.painting}
	if len(target.List) != len(want) {
		t.Fatalf("List = %v, want %v", target.List, want)
	}
	for i := range want {
		if target.List[i] != want[i] {
			t.Errorf("List[%d] = %v, want %v", i, target.List[i], want[i])
		}
	}
}

func TestObjectsAllExcept(t *testing.T) {
	f := newFixture(t)
	res, err := Objects(f.w, f.reg, "get",
		pairs(types.TargetPair{Nouns: []string{"all", "except", "hat"}}), f.player)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range res.Targets[0].List {
		if e == f.hat {
			t.Error("excepted entity should not be in the list")
		}
	}
	if len(res.Targets[0].List) != 4 {
		t.Errorf("List = %v", res.Targets[0].List)
	}
}

func TestObjectsExceptBeforeAll(t *testing.T) {
	f := newFixture(t)
	_, err := Objects(f.w, f.reg, "get",
		pairs(types.TargetPair{Nouns: []string{"except", "hat"}}), f.player)

	var pe *types.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if want := "I don't understand 'except' used that way."; pe.Msg != want {
		t.Errorf("Msg = %q, want %q", pe.Msg, want)
	}
}

func TestObjectsBareDirection(t *testing.T) {
	f := newFixture(t)
	res, err := Objects(f.w, f.reg, "", pairs(types.TargetPair{Nouns: []string{"n"}}), f.player)
	if err != nil {
		t.Fatal(err)
	}
	if res.Action.Name != "go" {
		t.Errorf("action = %q, want go", res.Action.Name)
	}
	if res.Targets[0].One != f.w.Directions["north"] {
		t.Errorf("target = %v, want the north direction", res.Targets[0].One)
	}
}

func TestObjectsNoVerb(t *testing.T) {
	f := newFixture(t)
	_, err := Objects(f.w, f.reg, "", pairs(types.TargetPair{Nouns: []string{"hat"}}), f.player)
	if err == nil || err.Error() != "There was no verb in that sentence!" {
		t.Errorf("err = %v", err)
	}
}

func TestObjectsRoomNoun(t *testing.T) {
	f := newFixture(t)
	res, err := Objects(f.w, f.reg, "look",
		pairs(types.TargetPair{Prep: "at", Nouns: []string{"room"}}), f.player)
	if err != nil {
		t.Fatal(err)
	}
	if res.Targets[0].One != f.hall {
		t.Errorf("target = %v, want the hall", res.Targets[0].One)
	}
	if res.Targets[0].Prep != "at" {
		t.Errorf("prep = %q", res.Targets[0].Prep)
	}
}

func TestObjectsKeyword(t *testing.T) {
	f := newFixture(t)
	res, err := Objects(f.w, f.reg, "quit", pairs(types.TargetPair{}), f.player)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Keyword || res.Action.Name != "quit" {
		t.Errorf("res = %+v", res)
	}
}
