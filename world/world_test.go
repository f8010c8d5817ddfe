package world

import (
	"testing"
)

func TestAddDerivesID(t *testing.T) {
	w := New()
	e := w.Add(&Entity{Name: "Red Book", Kinds: []string{"thing"}})
	if e.ID != "red_book" {
		t.Errorf("ID = %q, want %q", e.ID, "red_book")
	}
	got, ok := w.Lookup("red_book")
	if !ok || got != e {
		t.Errorf("Lookup(red_book) = %v, %v", got, ok)
	}
}

func TestAddDuplicatePanics(t *testing.T) {
	w := New()
	w.NewRoom("Hall", "")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate id")
		}
	}()
	w.NewRoom("Hall", "")
}

func TestCompassSeeded(t *testing.T) {
	w := New()
	for _, name := range []string{"north", "south", "east", "west", "ne", "nw", "se", "sw", "up", "down", "in", "out"} {
		if w.Directions[name] == nil {
			t.Errorf("missing direction %q", name)
		}
	}
	if got := w.DirectionWords["n"]; got != "north" {
		t.Errorf(`DirectionWords["n"] = %q, want "north"`, got)
	}
	if got := w.Opposite("ne"); got != "sw" {
		t.Errorf(`Opposite("ne") = %q, want "sw"`, got)
	}
}

func TestConnect(t *testing.T) {
	w := New()
	hall := w.NewRoom("Hall", "")
	attic := w.NewRoom("Attic", "")

	if err := w.Connect(hall, "u", attic, true); err != nil {
		t.Fatal(err)
	}
	if hall.Exits["up"] != attic {
		t.Errorf("hall up exit = %v", hall.Exits["up"])
	}
	if attic.Exits["down"] != hall {
		t.Errorf("attic down exit = %v", attic.Exits["down"])
	}

	if err := w.Connect(hall, "sideways", attic, false); err == nil {
		t.Error("expected error for invalid direction")
	}
}

func TestVisibility(t *testing.T) {
	w := New()
	hall := w.NewRoom("Hall", "")
	cellar := w.NewRoom("Cellar", "")
	book := w.NewItem("book", hall)
	vase := w.NewItem("vase", cellar)
	moon := w.NewThing("moon", nil)
	moon.AlwaysVisible = true
	player := w.NewPlayer("you", hall)

	coin := w.NewItem("coin", player) // carried

	tests := []struct {
		name string
		e    *Entity
		want bool
	}{
		{"same room", book, true},
		{"other room", vase, false},
		{"carried", coin, true},
		{"always visible", moon, true},
		{"direction", w.Directions["north"], true},
	}
	for _, tt := range tests {
		if got := tt.e.Visible(player); got != tt.want {
			t.Errorf("%s: Visible = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestReachable(t *testing.T) {
	w := New()
	hall := w.NewRoom("Hall", "")
	chair := w.NewThing("chair", hall)
	book := w.NewItem("book", hall)
	player := w.NewPlayer("you", hall)

	if !book.Reachable(player) {
		t.Error("unmounted actor should reach everything")
	}

	player.Posture = chair
	player.Reach = []*Entity{chair}
	if book.Reachable(player) {
		t.Error("mounted actor should not reach the book")
	}
	if !chair.Reachable(player) {
		t.Error("mounted actor should reach the chair")
	}
}

func TestCarriedAndInRoomOrder(t *testing.T) {
	w := New()
	hall := w.NewRoom("Hall", "")
	a := w.NewItem("apple", hall)
	b := w.NewItem("banana", hall)
	player := w.NewPlayer("you", hall)

	b.Place(player)
	a.Place(player)

	carried := w.Carried(player)
	// world insertion order, not pickup order
	if len(carried) != 2 || carried[0] != a || carried[1] != b {
		t.Errorf("Carried = %v", carried)
	}
	if got := w.InRoom(hall); len(got) != 1 || got[0] != player {
		t.Errorf("InRoom = %v", got)
	}
}

func TestArticles(t *testing.T) {
	w := New()
	hall := w.NewRoom("Hall", "")
	owl := w.NewCharacter("owl", hall)
	book := w.NewItem("book", hall)
	player := w.NewPlayer("you", hall)

	if got := owl.A(); got != "an owl" {
		t.Errorf("A() = %q", got)
	}
	if got := book.The(); got != "the book" {
		t.Errorf("The() = %q", got)
	}
	if got := player.The(); got != "yourself" {
		t.Errorf("player The() = %q", got)
	}
}

func TestPlaceSetsMoved(t *testing.T) {
	w := New()
	hall := w.NewRoom("Hall", "")
	book := w.NewItem("book", hall)
	player := w.NewPlayer("you", hall)

	if book.Moved {
		t.Fatal("fresh item should not be moved")
	}
	book.Place(player)
	if !book.Moved {
		t.Error("Place should mark the item moved")
	}
}
