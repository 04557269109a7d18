package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jamsplayer/jams/internal/domain"
	"github.com/jamsplayer/jams/internal/download"
	"github.com/jamsplayer/jams/internal/player"
	"github.com/jamsplayer/jams/internal/playlist"
	"github.com/jamsplayer/jams/internal/search"
)

// Command factories for async operations

// LoadPlaylistsCmd loads all playlists from the repository
func LoadPlaylistsCmd(repo *playlist.Repository) tea.Cmd {
	return func() tea.Msg {
		playlists, err := repo.List()
		if err != nil {
			return ErrMsg{Err: err, Context: "loading playlists"}
		}
		return PlaylistsLoadedMsg{Playlists: playlists}
	}
}

// DownloadPlaylistCmd fetches every uncached song of a playlist
func DownloadPlaylistCmd(svc *download.Service, p domain.Playlist) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		fetched, err := svc.DownloadPlaylist(ctx, p)
		if err != nil {
			return ErrMsg{Err: err, Context: "downloading playlist"}
		}
		return DownloadFinishedMsg{
			PlaylistTitle: p.Title,
			Fetched:       len(fetched),
		}
	}
}

// SearchSongsCmd runs a fuzzy search over the song catalog
func SearchSongsCmd(svc *search.Service, query string) tea.Cmd {
	return func() tea.Msg {
		results, err := svc.Search(query)
		if err != nil {
			return ErrMsg{Err: err, Context: "searching songs"}
		}
		return SearchResultsMsg{Results: results, Query: query}
	}
}

// ListenPlayerCmd waits for the next player state event
func ListenPlayerCmd(p *player.Player) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-p.Events()
		if !ok {
			return nil
		}
		return PlayerEventMsg{Event: event}
	}
}

// ListenNetworkCmd waits for the next network connectivity event
func ListenNetworkCmd(events <-chan domain.NetworkEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return NetworkEventMsg{Event: event}
	}
}

// ExpireStatusCmd clears a transient status message after a delay
func ExpireStatusCmd(id int) tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return StatusExpiredMsg{ID: id}
	})
}
