package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleItem = lipgloss.NewStyle().
			Bold(true)

	styleQuestion = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindItem
	kindQuestion
	kindError
)

// classifyLine guesses the kind of an output line from its text. The
// parser's complaints and clarifying questions have fixed openings.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "There is ") && strings.HasSuffix(line, " here."):
		return kindItem
	case strings.HasPrefix(line, "Did you mean "),
		strings.HasPrefix(line, "Do you want to "),
		strings.HasPrefix(line, "What do you want to "),
		strings.HasPrefix(line, "Where do you want to "):
		return kindQuestion
	case strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You see no "),
		strings.HasPrefix(line, "You don't have "),
		strings.HasPrefix(line, "What kind of a word "),
		strings.HasPrefix(line, "I don't understand"),
		strings.HasPrefix(line, "There was no verb "),
		strings.HasPrefix(line, "Can you say that "):
		return kindError
	default:
		return kindNarrative
	}
}

func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindItem:
		return styleItem.Render(line)
	case kindQuestion:
		return styleQuestion.Render(line)
	case kindError:
		return styleError.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
