package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GeneralPlaylistTitle is the conventional name of the default playlist.
// The repository does not treat it specially; UI callers block deleting or
// renaming it.
const GeneralPlaylistTitle = "general"

// Playlist is a named, ordered collection of songs. Each playlist holds
// independent copies of its song entries.
type Playlist struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Picture   *Picture  `json:"picture,omitempty"`
	Songs     []Song    `json:"songs"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewPlaylist creates an empty playlist with a generated id and both
// timestamps set to now.
func NewPlaylist(title string) Playlist {
	now := time.Now().UTC()
	return Playlist{
		ID:        uuid.NewString(),
		Title:     title,
		Songs:     []Song{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsGeneral reports whether this is the protected default playlist.
// Matching is case-insensitive.
func (p Playlist) IsGeneral() bool {
	return strings.EqualFold(p.Title, GeneralPlaylistTitle)
}

// ContainsSong reports whether a song with the same identity is already in
// the playlist.
func (p Playlist) ContainsSong(song Song) bool {
	for _, s := range p.Songs {
		if s.SameIdentity(song) {
			return true
		}
	}
	return false
}

// SongCount returns the number of songs in the playlist.
func (p Playlist) SongCount() int { return len(p.Songs) }

// TotalTags returns the distinct tags across all songs in the playlist.
func (p Playlist) TotalTags() []string {
	seen := make(map[string]bool)
	var tags []string
	for _, s := range p.Songs {
		for _, t := range s.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags
}
