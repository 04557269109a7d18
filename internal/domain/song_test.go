package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameIdentity(t *testing.T) {
	base := Song{Xorname: "abc", FileName: "track", Extension: "mp3", DownloadFolder: "/music"}

	tests := []struct {
		name  string
		other Song
		want  bool
	}{
		{
			name:  "identical tuple",
			other: Song{Xorname: "abc", FileName: "track", Extension: "mp3", DownloadFolder: "/music"},
			want:  true,
		},
		{
			name:  "metadata differs but tuple matches",
			other: Song{Xorname: "abc", FileName: "track", Extension: "mp3", DownloadFolder: "/music", Title: "Other", Artist: "Other"},
			want:  true,
		},
		{
			name:  "different xorname",
			other: Song{Xorname: "def", FileName: "track", Extension: "mp3", DownloadFolder: "/music"},
			want:  false,
		},
		{
			name:  "different folder",
			other: Song{Xorname: "abc", FileName: "track", Extension: "mp3", DownloadFolder: "/other"},
			want:  false,
		},
		{
			name:  "different extension",
			other: Song{Xorname: "abc", FileName: "track", Extension: "flac", DownloadFolder: "/music"},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.SameIdentity(tt.other))
		})
	}
}

func TestHasCompleteIdentity(t *testing.T) {
	full := Song{Xorname: "abc", FileName: "track", Extension: "mp3", DownloadFolder: "/music"}
	assert.True(t, full.HasCompleteIdentity())

	missingFolder := full
	missingFolder.DownloadFolder = ""
	assert.False(t, missingFolder.HasCompleteIdentity())

	assert.False(t, Song{}.HasCompleteIdentity())
}

func TestValidateTags(t *testing.T) {
	tests := []struct {
		name    string
		tags    []string
		wantErr bool
	}{
		{name: "no tags", tags: nil, wantErr: false},
		{name: "valid tags", tags: []string{"rock", "90s"}, wantErr: false},
		{name: "max count", tags: []string{"a", "b", "c", "d", "e"}, wantErr: false},
		{name: "too many", tags: []string{"a", "b", "c", "d", "e", "f"}, wantErr: true},
		{name: "empty tag", tags: []string{""}, wantErr: true},
		{name: "too long", tags: []string{strings.Repeat("x", MaxTagLength+1)}, wantErr: true},
		{name: "max length ok", tags: []string{strings.Repeat("x", MaxTagLength)}, wantErr: false},
		{name: "non alphanumeric", tags: []string{"lo-fi"}, wantErr: true},
		{name: "whitespace", tags: []string{"two words"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Song{Tags: tt.tags}.ValidateTags()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTags)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewPlaylist(t *testing.T) {
	p := NewPlaylist("Road Trip")

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Road Trip", p.Title)
	assert.Empty(t, p.Songs)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	other := NewPlaylist("Road Trip")
	assert.NotEqual(t, p.ID, other.ID)
}

func TestIsGeneral(t *testing.T) {
	assert.True(t, Playlist{Title: "general"}.IsGeneral())
	assert.True(t, Playlist{Title: "General"}.IsGeneral())
	assert.False(t, Playlist{Title: "generally"}.IsGeneral())
}

func TestContainsSong(t *testing.T) {
	song := Song{Xorname: "abc", FileName: "track", Extension: "mp3", DownloadFolder: "/music"}
	p := Playlist{Songs: []Song{song}}

	renamed := song
	renamed.Title = "New Name"
	assert.True(t, p.ContainsSong(renamed))

	elsewhere := song
	elsewhere.DownloadFolder = "/other"
	assert.False(t, p.ContainsSong(elsewhere))
}
