package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing
// current room, exits, inventory, and turn count.
func (m Model) renderStatusBar() string {
	s := m.game.Session
	player := s.World.Player

	roomName := "Nowhere"
	var dirs []string
	if room := player.Location; room != nil {
		roomName = room.Name
		for dir := range room.Exits {
			dirs = append(dirs, dir)
		}
		sort.Strings(dirs)
	}

	left := fmt.Sprintf(" %s | Exits: %s", roomName, strings.Join(dirs, ","))
	right := fmt.Sprintf("T:%d ", s.Steps)

	// Show inventory items if they fit, otherwise just the count.
	if carried := s.World.Carried(player); len(carried) > 0 {
		var names []string
		for _, e := range carried {
			names = append(names, e.Name)
		}
		candidate := fmt.Sprintf("Inv: %s | T:%d ", strings.Join(names, ", "), s.Steps)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Inv: %d | T:%d ", len(carried), s.Steps)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return styleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
