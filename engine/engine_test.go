package engine

import (
	"strings"
	"testing"

	"github.com/leokoppel/notea/world"
)

type fixture struct {
	s        *Session
	hall     *world.Entity
	study    *world.Entity
	redBook  *world.Entity
	blueBook *world.Entity
	coin     *world.Entity
	statue   *world.Entity
	dust     *world.Entity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := world.New()
	f := &fixture{}
	f.hall = w.NewRoom("Hall", "A dusty hall.")
	f.study = w.NewRoom("Study", "Books line the walls.")
	if err := w.Connect(f.hall, "north", f.study, true); err != nil {
		t.Fatal(err)
	}
	f.redBook = w.NewItem("red book", f.hall)
	f.blueBook = w.NewItem("blue book", f.hall)
	f.coin = w.NewItem("coin", f.hall)
	f.statue = w.NewBackgroundItem("statue", f.hall)
	f.dust = w.NewThing("dust", f.hall)
	w.NewPlayer("you", f.hall)

	f.s = NewSession(w)
	return f
}

func (f *fixture) step(t *testing.T, input string) []string {
	t.Helper()
	return f.s.Step(input)
}

func wantLines(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("output mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestStepTake(t *testing.T) {
	f := newFixture(t)
	wantLines(t, f.step(t, "take the red book"), []string{"Taken."})
	if f.redBook.Location != f.s.World.Player {
		t.Error("red book should be carried")
	}
	if f.s.Steps != 1 {
		t.Errorf("Steps = %d, want 1", f.s.Steps)
	}

	wantLines(t, f.step(t, "take the red book"), []string{"You already have the red book."})
	wantLines(t, f.step(t, "take dust"), []string{"You can't take that."})
}

func TestStepAmbiguityProtocol(t *testing.T) {
	f := newFixture(t)
	wantLines(t, f.step(t, "take book"),
		[]string{"Did you mean the red book or the blue book?"})

	// The bare answer completes the stored command.
	wantLines(t, f.step(t, "red"), []string{"Taken."})
	if f.redBook.Location != f.s.World.Player {
		t.Error("red book should be carried")
	}
}

func TestStepAmbiguityAbandoned(t *testing.T) {
	f := newFixture(t)
	f.step(t, "take book")

	// A full new command silently discards the question.
	got := f.step(t, "take coin")
	wantLines(t, got, []string{"Taken."})
	if f.coin.Location != f.s.World.Player {
		t.Error("coin should be carried")
	}

	// And the clarification does not linger for later turns.
	got = f.step(t, "red")
	if len(got) == 0 || got[0] == "Taken." {
		t.Errorf("stale clarification should not fire, got %q", got)
	}
}

func TestStepGetAmbiguityFilterPrefersRoom(t *testing.T) {
	f := newFixture(t)
	f.step(t, "take red book")

	// One book carried, one on the floor: "take book" is not a question.
	wantLines(t, f.step(t, "take book"), []string{"Taken."})
	if f.blueBook.Location != f.s.World.Player {
		t.Error("blue book should be carried")
	}

	// "look at book" has no such filter and still asks.
	got := f.step(t, "look at book")
	wantLines(t, got, []string{"Did you mean the red book or the blue book?"})
}

func TestStepTakeAll(t *testing.T) {
	f := newFixture(t)
	got := f.step(t, "take all")
	want := []string{
		"The red book: Taken.",
		"The blue book: Taken.",
		"The coin: Taken.",
	}
	wantLines(t, got, want)
	if f.statue.Location == f.s.World.Player {
		t.Error("background scenery must not be taken by take all")
	}
	if f.dust.Location == f.s.World.Player {
		t.Error("non-gettable things must not be taken by take all")
	}
}

func TestStepTakeAllExcept(t *testing.T) {
	f := newFixture(t)
	got := f.step(t, "take all except the coin")
	want := []string{
		"The red book: Taken.",
		"The blue book: Taken.",
	}
	wantLines(t, got, want)
	if f.coin.Location == f.s.World.Player {
		t.Error("excepted coin must stay put")
	}
}

func TestStepDropAll(t *testing.T) {
	f := newFixture(t)
	f.step(t, "take all")
	got := f.step(t, "drop all")
	want := []string{
		"The red book: Dropped.",
		"The blue book: Dropped.",
		"The coin: Dropped.",
	}
	wantLines(t, got, want)
	if f.coin.Location != f.hall {
		t.Error("coin should be back in the hall")
	}
}

func TestStepMovement(t *testing.T) {
	f := newFixture(t)
	got := f.step(t, "n")
	if got[0] != "Study" {
		t.Errorf("first line = %q, want the room name", got[0])
	}
	if f.s.World.Player.Location != f.study {
		t.Error("player should be in the study")
	}

	got = f.step(t, "go south")
	if got[0] != "Hall" {
		t.Errorf("first line = %q", got[0])
	}

	wantLines(t, f.step(t, "go east"), []string{"You can't go that way."})
}

func TestStepMovementInterrogative(t *testing.T) {
	f := newFixture(t)
	wantLines(t, f.step(t, "go"), []string{"Where do you want to go?"})

	got := f.step(t, "north")
	if got[0] != "Study" {
		t.Errorf("answer should move the player, got %q", got)
	}
}

func TestStepChainedClauses(t *testing.T) {
	f := newFixture(t)
	got := f.step(t, "take the coin, then go north")
	if got[0] != "Taken." || got[1] != "Study" {
		t.Errorf("output = %q", got)
	}
	if f.s.Steps != 1 {
		t.Errorf("Steps = %d, want 1 for a single input line", f.s.Steps)
	}
}

func TestStepBackgroundIntercepted(t *testing.T) {
	f := newFixture(t)
	want := []string{"That's not important; leave it alone."}
	wantLines(t, f.step(t, "take statue"), want)
	wantLines(t, f.step(t, "look at statue"), want)
}

func TestStepLookAndVerbosity(t *testing.T) {
	f := newFixture(t)
	got := f.step(t, "look")
	want := []string{
		"Hall",
		"A dusty hall.",
		"There is a red book here.",
		"There is a blue book here.",
		"There is a coin here.",
	}
	wantLines(t, got, want)

	// Brief mode: revisiting a known room skips the description.
	f.step(t, "n")
	f.study.Moved = true
	got = f.step(t, "s")
	if len(got) > 1 && got[1] == "Books line the walls." {
		// hall was already visited via the initial fixture state
		t.Log("hall described in brief mode")
	}

	f.step(t, "verbose")
	got = f.step(t, "n")
	if got[1] != "Books line the walls." {
		t.Errorf("verbose mode should describe, got %q", got)
	}
}

func TestStepExamine(t *testing.T) {
	f := newFixture(t)
	f.redBook.Description = "A slim red volume."
	wantLines(t, f.step(t, "x red book"), []string{"A slim red volume."})
	wantLines(t, f.step(t, "examine coin"), []string{"You see nothing special about the coin."})
}

func TestStepInventory(t *testing.T) {
	f := newFixture(t)
	wantLines(t, f.step(t, "i"), []string{"You are empty-handed."})
	before := f.s.Steps

	f.step(t, "take coin")
	got := f.step(t, "inventory")
	wantLines(t, got, []string{"You are carrying:", "  A coin"})

	// Keyword turns don't advance the clock.
	if f.s.Steps != before+1 {
		t.Errorf("Steps = %d, want %d", f.s.Steps, before+1)
	}
}

func TestStepQuit(t *testing.T) {
	f := newFixture(t)
	wantLines(t, f.step(t, "quit"), []string{"Goodbye."})
	if f.s.Running {
		t.Error("quit should stop the session")
	}
	if f.s.Restarting {
		t.Error("quit must not request a restart")
	}
}

func TestStepRestart(t *testing.T) {
	f := newFixture(t)
	wantLines(t, f.step(t, "restart"), []string{"Restarting..."})
	if f.s.Running {
		t.Error("restart should stop the session")
	}
	if !f.s.Restarting {
		t.Error("restart should request a reload")
	}
	if f.s.Steps != 0 {
		t.Errorf("Steps = %d, restart is a keyword turn", f.s.Steps)
	}
}

func TestStepLookShorthand(t *testing.T) {
	f := newFixture(t)
	got := f.step(t, "l")
	if len(got) == 0 || got[0] != "Hall" {
		t.Errorf("l = %q, want the room description", got)
	}
}

func TestStepInputHook(t *testing.T) {
	f := newFixture(t)
	claimed := 0
	f.s.OnInput = func(input string, say func(string)) bool {
		if claimed > 0 {
			return false
		}
		claimed++
		say("You nod.")
		return true
	}

	wantLines(t, f.step(t, "yes"), []string{"You nod."})
	if f.s.Steps != 0 {
		t.Errorf("Steps = %d, a claimed line is not a turn", f.s.Steps)
	}

	// Once the hook declines, the line reaches the parser as usual.
	wantLines(t, f.step(t, "take coin"), []string{"Taken."})
	if f.s.Steps != 1 {
		t.Errorf("Steps = %d, want 1", f.s.Steps)
	}
}

func TestStepInputHookKeepsClarification(t *testing.T) {
	f := newFixture(t)
	f.step(t, "take book")

	claimed := 0
	f.s.OnInput = func(input string, say func(string)) bool {
		if claimed > 0 {
			return false
		}
		claimed++
		say("One moment.")
		return true
	}
	wantLines(t, f.step(t, "hello"), []string{"One moment."})

	// The stored question is still waiting for its answer.
	wantLines(t, f.step(t, "red"), []string{"Taken."})
	if f.redBook.Location != f.s.World.Player {
		t.Error("red book should be carried")
	}
}

func TestStepParseErrors(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		input string
		want  string
	}{
		{"", "What?"},
		{"coin", "There was no verb in that sentence!"},
		{"take florp", "What kind of a word is florp?"},
		{"look at in", "Can you say that another way?"},
	}
	for _, tt := range tests {
		got := f.step(t, tt.input)
		if len(got) != 1 || !strings.HasPrefix(got[0], tt.want) {
			t.Errorf("Step(%q) = %q, want prefix %q", tt.input, got, tt.want)
		}
	}
}
