package domain

import (
	"time"
)

// MaxTags is the maximum number of tags a song may carry.
const MaxTags = 5

// MaxTagLength is the maximum length of a single tag.
const MaxTagLength = 20

// Picture holds embedded cover art for a song or playlist.
type Picture struct {
	Data     []byte `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// Song is a single track entry inside a playlist. Songs are copied by
// value into playlists: editing a song's metadata in one playlist never
// propagates to copies held by other playlists.
type Song struct {
	Xorname        string    `json:"xorname"` // Network content identifier (canonical identity)
	FileName       string    `json:"fileName"`
	Extension      string    `json:"extension"`
	DownloadFolder string    `json:"downloadFolder"`
	Title          string    `json:"title"`
	Artist         string    `json:"artist"`
	Tags           []string  `json:"tags,omitempty"`
	Picture        *Picture  `json:"picture,omitempty"`
	TrackNumber    int       `json:"trackNumber,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// SameIdentity reports whether two songs refer to the same stored audio.
// Identity is the canonical tuple of xorname plus path components, never a
// derived URL: URL forms differ between platform strategies and are not
// safe to compare.
func (s Song) SameIdentity(other Song) bool {
	return s.Xorname == other.Xorname &&
		s.FileName == other.FileName &&
		s.Extension == other.Extension &&
		s.DownloadFolder == other.DownloadFolder
}

// HasCompleteIdentity reports whether every component needed to derive the
// local playable path is present.
func (s Song) HasCompleteIdentity() bool {
	return s.Xorname != "" && s.FileName != "" && s.Extension != "" && s.DownloadFolder != ""
}

// DisplayTitle returns the title, falling back to the file name.
func (s Song) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.FileName
}

// ValidateTags checks the tag constraints: at most MaxTags tags, each
// alphanumeric and at most MaxTagLength characters.
func (s Song) ValidateTags() error {
	if len(s.Tags) > MaxTags {
		return ErrInvalidTags
	}
	for _, tag := range s.Tags {
		if tag == "" || len(tag) > MaxTagLength {
			return ErrInvalidTags
		}
		for _, r := range tag {
			if !isAlphanumeric(r) {
				return ErrInvalidTags
			}
		}
	}
	return nil
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
