package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jamsplayer/jams/internal/player"
	"github.com/jamsplayer/jams/internal/tui/styles"
)

// PlayerBar renders the current playback state as a single bar
type PlayerBar struct {
	state player.State
	width int
}

// NewPlayerBar creates a new player bar
func NewPlayerBar() PlayerBar {
	return PlayerBar{}
}

// SetState updates the displayed playback state
func (b *PlayerBar) SetState(state player.State) {
	b.state = state
}

// SetWidth updates the bar width
func (b *PlayerBar) SetWidth(width int) {
	b.width = width
}

// View renders the player bar
func (b PlayerBar) View() string {
	glyph := styles.PausedChar
	if b.state.Playing {
		glyph = styles.PlayingChar
	}

	title := "nothing loaded"
	if b.state.Song != nil {
		title = b.state.Song.DisplayTitle()
		if b.state.Song.Artist != "" {
			title += " — " + b.state.Song.Artist
		}
	}

	timeline := fmt.Sprintf("%s / %s",
		formatSeconds(b.state.CurrentTime),
		formatSeconds(b.state.Duration),
	)

	volume := fmt.Sprintf("vol %d%%", int(b.state.Volume*100))
	if b.state.Muted {
		volume = "muted"
	}

	left := fmt.Sprintf("%s  %s", styles.AccentStyle.Render(glyph), styles.TitleStyle.Render(title))
	right := styles.DimStyle.Render(timeline + "  " + volume)

	innerWidth := b.width - 4 // border + padding
	gap := innerWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return styles.PlayerBarStyle.Width(innerWidth).Render(left + strings.Repeat(" ", gap) + right)
}

// formatSeconds renders a duration as m:ss
func formatSeconds(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
