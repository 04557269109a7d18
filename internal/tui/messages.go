package tui

import (
	"github.com/jamsplayer/jams/internal/domain"
	"github.com/jamsplayer/jams/internal/player"
	"github.com/jamsplayer/jams/internal/search"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PlaylistsLoadedMsg signals that playlists have been loaded
type PlaylistsLoadedMsg struct {
	Playlists []domain.Playlist
}

// DownloadFinishedMsg signals that a playlist download completed
type DownloadFinishedMsg struct {
	PlaylistTitle string
	Fetched       int
}

// PlayerEventMsg wraps a player state event
type PlayerEventMsg struct {
	Event player.Event
}

// NetworkEventMsg wraps a network connectivity event
type NetworkEventMsg struct {
	Event domain.NetworkEvent
}

// SearchResultsMsg signals that search results are ready
type SearchResultsMsg struct {
	Results []search.Result
	Query   string
}

// StatusExpiredMsg clears a transient status message
type StatusExpiredMsg struct {
	ID int
}
