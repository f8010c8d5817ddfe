// Package cli provides the plain terminal front end: a prompt loop over
// Session.Step plus a few slash-prefixed meta commands.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leokoppel/notea/engine"
	"github.com/leokoppel/notea/engine/parse"
	"github.com/leokoppel/notea/loader"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Game      *loader.Game
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given game.
func New(g *loader.Game) *CLI {
	return &CLI{
		Game: g,
		In:   os.Stdin,
		Out:  os.Stdout,
	}
}

func (c *CLI) session() *engine.Session { return c.Game.Session }

// Run starts the game loop. It shows the intro, describes the starting
// room, then loops prompt, input, step, output until the game stops.
func (c *CLI) Run() {
	s := c.session()
	s.OnCommand = c.traceCommand

	if c.Game.Intro != "" {
		c.printLine(c.Game.Intro)
		c.printLine("")
	}
	s.Look(c.printLine, true)

	scanner := bufio.NewScanner(c.In)
	for s.Running {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		for _, line := range s.Step(input) {
			c.printLine(line)
		}
	}
}

// traceCommand dumps each resolved command when tracing is on.
func (c *CLI) traceCommand(cmd *parse.Command) {
	if !c.Trace {
		return
	}
	c.printSystem(fmt.Sprintf("trace: verb=%q action=%q keyword=%v handlers=%d",
		cmd.Verb, cmd.Action.Name, cmd.Keyword, len(cmd.Handlers)))
	for i, t := range cmd.Targets {
		var names []string
		for _, e := range t.Entities() {
			names = append(names, e.ID)
		}
		c.printSystem(fmt.Sprintf("trace:   target %d: prep=%q nouns=%v all=%v",
			i, t.Prep, names, t.All))
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should
// exit.
func (c *CLI) handleMeta(input string) bool {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", input))
	}
	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"  /state        — Debug: dump current state",
		"  /trace        — Toggle parser trace output",
		"",
		"Game commands:",
		"  look (l)              — Describe the room",
		"  examine <thing> (x)   — Look closely at something",
		"  go/walk <dir>         — Move (or just type n/s/e/w/u/d)",
		"  take/get <item>       — Pick something up (take all works too)",
		"  drop <item>           — Put something down",
		"  inventory (i)         — Check what you're carrying",
		"  wait                  — Let time pass",
		"  restart               — Start the game over",
		"  again (g)             — Repeat your last command",
		"",
		"Commands can be chained: \"take the lamp and the rope, then go north\".",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.session()
	loc := "nowhere"
	if s.World.Player.Location != nil {
		loc = s.World.Player.Location.ID
	}
	c.printSystem(fmt.Sprintf("Turn: %d", s.Steps))
	c.printSystem(fmt.Sprintf("Location: %s", loc))
	var inv []string
	for _, e := range s.World.Carried(s.World.Player) {
		inv = append(inv, e.ID)
	}
	c.printSystem(fmt.Sprintf("Inventory: %v", inv))
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
