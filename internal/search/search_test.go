package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamsplayer/jams/internal/domain"
)

type fakeCatalog struct {
	songs []domain.Song
	err   error
	calls int
}

func (f *fakeCatalog) AllUniqueSongs() ([]domain.Song, error) {
	f.calls++
	return f.songs, f.err
}

func song(title, artist string, tags ...string) domain.Song {
	return domain.Song{
		Xorname:  "x-" + title,
		FileName: title,
		Title:    title,
		Artist:   artist,
		Tags:     tags,
	}
}

func TestSearchMatchesTitle(t *testing.T) {
	repo := &fakeCatalog{songs: []domain.Song{
		song("Blue Monday", "New Order"),
		song("Sunday Girl", "Blondie"),
		song("Paranoid", "Black Sabbath"),
	}}
	svc := NewService(repo, nil)

	results, err := svc.Search("monday")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Blue Monday", results[0].Song.Title)
}

func TestSearchMatchesArtistAndTags(t *testing.T) {
	repo := &fakeCatalog{songs: []domain.Song{
		song("Track One", "Aphex Twin", "ambient"),
		song("Track Two", "Burial", "garage"),
	}}
	svc := NewService(repo, nil)

	results, err := svc.Search("aphex")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Track One", results[0].Song.Title)

	results, err = svc.Search("garage")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Track Two", results[0].Song.Title)
}

func TestSearchEmptyQuery(t *testing.T) {
	repo := &fakeCatalog{songs: []domain.Song{song("Anything", "")}}
	svc := NewService(repo, nil)

	results, err := svc.Search("   ")
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Zero(t, repo.calls, "empty query should not touch the repository")
}

func TestSearchCachesIndexUntilRefresh(t *testing.T) {
	repo := &fakeCatalog{songs: []domain.Song{song("Cached", "")}}
	svc := NewService(repo, nil)

	_, err := svc.Search("cached")
	require.NoError(t, err)
	_, err = svc.Search("cached")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)

	svc.Refresh()
	_, err = svc.Search("cached")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestSearchRepositoryError(t *testing.T) {
	repo := &fakeCatalog{err: errors.New("store offline")}
	svc := NewService(repo, nil)

	_, err := svc.Search("anything")
	require.Error(t, err)
}

func TestSearchFallsBackToFileName(t *testing.T) {
	s := domain.Song{Xorname: "x", FileName: "untitled-demo", Extension: "mp3"}
	repo := &fakeCatalog{songs: []domain.Song{s}}
	svc := NewService(repo, nil)

	results, err := svc.Search("demo")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "untitled-demo", results[0].Song.FileName)
}
