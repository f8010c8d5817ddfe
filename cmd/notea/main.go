// Notea runs text adventures written as Lua game directories.
// Usage: notea [--version] [--plain] [--script <file>] [--trace] <game_directory>
package main

import (
	"fmt"
	"os"

	"github.com/leokoppel/notea/cli"
	"github.com/leokoppel/notea/loader"
	"github.com/leokoppel/notea/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	trace := false
	var gameDir string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("notea %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		default:
			if gameDir == "" {
				gameDir = args[i]
			}
		}
	}

	if gameDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: notea [--version] [--plain] [--script <file>] [--trace] <game_directory>\n")
		os.Exit(1)
	}

	// The restart keyword stops the session with Restarting set; loading
	// again is the front end's job, so loop until a plain quit.
	for {
		game, err := loader.Load(gameDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
			os.Exit(1)
		}

		banner := func() {
			if game.Title != "" {
				if game.Author != "" {
					fmt.Printf("%s by %s\n\n", game.Title, game.Author)
				} else {
					fmt.Printf("%s\n\n", game.Title)
				}
			}
		}

		// Script mode: read commands from a file, echoing each one.
		if scriptFile != "" {
			f, err := os.Open(scriptFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
				os.Exit(1)
			}
			banner()
			c := cli.New(game)
			c.In = f
			c.EchoInput = true
			c.Trace = trace
			c.Run()
			f.Close()
			game.Close()
			return
		}

		// Plain CLI when asked for, or when stdout is not a terminal.
		if plain || !isTerminal() {
			banner()
			c := cli.New(game)
			c.Trace = trace
			c.Run()
		} else if err := tui.Run(game); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		restarting := game.Session.Restarting
		game.Close()
		if !restarting {
			return
		}
	}
}

// isTerminal reports whether stdout is a terminal.
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
