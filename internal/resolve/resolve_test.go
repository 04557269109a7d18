package resolve

import (
	"testing"

	"github.com/jamsplayer/jams/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeSong() domain.Song {
	return domain.Song{
		Xorname:        "abc123",
		FileName:       "track",
		Extension:      "mp3",
		DownloadFolder: "/music",
		Title:          "T",
		Artist:         "A",
	}
}

func TestPlayablePath(t *testing.T) {
	path, err := PlayablePath(completeSong())
	require.NoError(t, err)
	assert.Equal(t, "/music/abc123__track.mp3", path)
}

func TestPlayablePathIsPure(t *testing.T) {
	song := completeSong()
	first, err := PlayablePath(song)
	require.NoError(t, err)
	second, err := PlayablePath(song)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlayablePathTrimsTrailingSlashes(t *testing.T) {
	song := completeSong()
	song.DownloadFolder = "/music///"
	path, err := PlayablePath(song)
	require.NoError(t, err)
	assert.Equal(t, "/music/abc123__track.mp3", path)
}

func TestPlayablePathIncompleteIdentity(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Song)
	}{
		{"missing xorname", func(s *domain.Song) { s.Xorname = "" }},
		{"missing file name", func(s *domain.Song) { s.FileName = "" }},
		{"missing extension", func(s *domain.Song) { s.Extension = "" }},
		{"missing download folder", func(s *domain.Song) { s.DownloadFolder = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			song := completeSong()
			tt.mutate(&song)
			_, err := PlayablePath(song)
			assert.ErrorIs(t, err, domain.ErrIncompleteSongIdentity)
		})
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		in        string
		folder    string
		fileName  string
		extension string
	}{
		{"/music/track.mp3", "/music", "track", "mp3"},
		{"/music/no-extension", "/music", "no-extension", ""},
		{`C:\music\track.flac`, "C:/music", "track", "flac"},
		{"/a/b/c/track.v2.ogg", "/a/b/c", "track.v2", "ogg"},
	}

	for _, tt := range tests {
		folder, name, ext := SplitPath(tt.in)
		assert.Equal(t, tt.folder, folder, tt.in)
		assert.Equal(t, tt.fileName, name, tt.in)
		assert.Equal(t, tt.extension, ext, tt.in)
	}
}

func TestLoopbackStrategyEncodes(t *testing.T) {
	s := LoopbackStrategy{Port: 12345}
	u, err := s.PlayableURL("/music/abc__my track.mp3")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:12345/abc__my%20track.mp3", u)
}

func TestFileStrategy(t *testing.T) {
	s := FileStrategy{}

	u, err := s.PlayableURL("/music/abc__track.mp3")
	require.NoError(t, err)
	assert.Equal(t, "file:///music/abc__track.mp3", u)

	u, err = s.PlayableURL(`C:\music\abc__track.mp3`)
	require.NoError(t, err)
	assert.Equal(t, "file:///C:/music/abc__track.mp3", u)
}

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy("loopback", 9000)
	require.NoError(t, err)
	assert.IsType(t, LoopbackStrategy{}, s)

	s, err = NewStrategy("", 0)
	require.NoError(t, err)
	assert.IsType(t, FileStrategy{}, s)

	_, err = NewStrategy("carrier-pigeon", 0)
	assert.Error(t, err)
}
