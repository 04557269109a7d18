package store

import (
	"testing"

	"github.com/jamsplayer/jams/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesBuckets(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	err = s.Set(domain.BucketCatalog, "playlists", []string{"a"})
	require.NoError(t, err)
}

func TestGetMissingKey(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	var out []string
	found, err := s.Get(domain.BucketCatalog, "nope", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetGetRoundTrip(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	in := map[string]int{"volume": 7}
	require.NoError(t, s.Set(domain.BucketSettings, "prefs", in))

	var out map[string]int
	found, err := s.Get(domain.BucketSettings, "prefs", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, out)
}

func TestDelete(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(domain.BucketSession, "flag", true))
	require.NoError(t, s.Delete(domain.BucketSession, "flag"))

	var out bool
	found, err := s.Get(domain.BucketSession, "flag", &out)
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting again is not an error
	require.NoError(t, s.Delete(domain.BucketSession, "flag"))
}

func TestMemoryOnlyMode(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(domain.BucketCatalog, "playlists", []int{1, 2}))

	var out []int
	found, err := s.Get(domain.BucketCatalog, "playlists", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []int{1, 2}, out)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(domain.BucketSettings, "lang", "en"))
	require.NoError(t, s.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()

	var lang string
	found, err := s2.Get(domain.BucketSettings, "lang", &lang)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "en", lang)
}
