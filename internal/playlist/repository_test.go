package playlist

import (
	"testing"
	"time"

	"github.com/jamsplayer/jams/internal/domain"
	"github.com/jamsplayer/jams/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	s, err := store.Open("") // memory-only
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewRepository(s, nil)
}

func testSong(xorname string) domain.Song {
	return domain.Song{
		Xorname:        xorname,
		FileName:       "track",
		Extension:      "mp3",
		DownloadFolder: "/music",
		Title:          "T",
		Artist:         "A",
	}
}

func TestListEmpty(t *testing.T) {
	repo := newTestRepo(t)

	playlists, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, playlists)
}

func TestCreateAndList(t *testing.T) {
	repo := newTestRepo(t)

	p := domain.NewPlaylist("Road Trip")
	stored, err := repo.Create(p)
	require.NoError(t, err)
	assert.Equal(t, p.ID, stored.ID)

	playlists, err := repo.List()
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.Equal(t, p.ID, playlists[0].ID)
	assert.Equal(t, "Road Trip", playlists[0].Title)
	assert.NotNil(t, playlists[0].Songs)
}

func TestCreateDuplicateID(t *testing.T) {
	repo := newTestRepo(t)

	p := domain.NewPlaylist("First")
	_, err := repo.Create(p)
	require.NoError(t, err)

	q := p
	q.Title = "Second"
	_, err = repo.Create(q)
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
}

func TestCreateDuplicateTitle(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Create(domain.NewPlaylist("General"))
	require.NoError(t, err)

	_, err = repo.Create(domain.NewPlaylist("General"))
	assert.ErrorIs(t, err, domain.ErrDuplicateTitle)
}

func TestCreateTitleMatchIsCaseSensitive(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Create(domain.NewPlaylist("General"))
	require.NoError(t, err)

	_, err = repo.Create(domain.NewPlaylist("general"))
	assert.NoError(t, err)
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	repo := newTestRepo(t)

	p := domain.NewPlaylist("Old Title")
	p.CreatedAt = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	p.UpdatedAt = p.CreatedAt
	_, err := repo.Create(p)
	require.NoError(t, err)

	title := "New Title"
	updated, err := repo.Update(p.ID, Patch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(p.CreatedAt))
}

func TestUpdateNotFound(t *testing.T) {
	repo := newTestRepo(t)

	title := "x"
	_, err := repo.Update("missing", Patch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)

	p := domain.NewPlaylist("Doomed")
	_, err := repo.Create(p)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(p.ID))

	playlists, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, playlists)

	assert.ErrorIs(t, repo.Delete(p.ID), domain.ErrNotFound)
}

func TestAddSongIdempotent(t *testing.T) {
	repo := newTestRepo(t)

	p := domain.NewPlaylist("General")
	_, err := repo.Create(p)
	require.NoError(t, err)

	song := testSong("abc123")
	require.NoError(t, repo.AddSong(p.ID, song))

	// Second add with the same identity is a reported no-op
	err = repo.AddSong(p.ID, song)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	got, err := repo.Get(p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Songs, 1)
}

func TestAddSongPlaylistNotFound(t *testing.T) {
	repo := newTestRepo(t)
	assert.ErrorIs(t, repo.AddSong("missing", testSong("abc")), domain.ErrNotFound)
}

func TestAddSongRefreshesUpdatedAt(t *testing.T) {
	repo := newTestRepo(t)

	p := domain.NewPlaylist("General")
	p.UpdatedAt = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := repo.Create(p)
	require.NoError(t, err)

	require.NoError(t, repo.AddSong(p.ID, testSong("abc")))

	got, err := repo.Get(p.ID)
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.After(p.UpdatedAt))
}

func TestRemoveSong(t *testing.T) {
	repo := newTestRepo(t)

	p := domain.NewPlaylist("General")
	_, err := repo.Create(p)
	require.NoError(t, err)

	song := testSong("abc")
	require.NoError(t, repo.AddSong(p.ID, song))
	require.NoError(t, repo.RemoveSong(p.ID, song))

	got, err := repo.Get(p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Songs)

	assert.ErrorIs(t, repo.RemoveSong(p.ID, song), domain.ErrNotFound)
}

func TestSongCopiesAreIndependent(t *testing.T) {
	repo := newTestRepo(t)

	a := domain.NewPlaylist("A")
	b := domain.NewPlaylist("B")
	_, err := repo.Create(a)
	require.NoError(t, err)
	_, err = repo.Create(b)
	require.NoError(t, err)

	song := testSong("shared")
	require.NoError(t, repo.AddSong(a.ID, song))
	require.NoError(t, repo.AddSong(b.ID, song))

	// Edit the copy in A only
	gotA, err := repo.Get(a.ID)
	require.NoError(t, err)
	gotA.Songs[0].Title = "Renamed"
	_, err = repo.Update(a.ID, Patch{Songs: &gotA.Songs})
	require.NoError(t, err)

	gotB, err := repo.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", gotB.Songs[0].Title)
}

func TestMoveSong(t *testing.T) {
	repo := newTestRepo(t)

	from := domain.NewPlaylist("From")
	to := domain.NewPlaylist("To")
	_, err := repo.Create(from)
	require.NoError(t, err)
	_, err = repo.Create(to)
	require.NoError(t, err)

	song := testSong("moving")
	require.NoError(t, repo.AddSong(from.ID, song))

	require.NoError(t, repo.MoveSong(song, from.ID, to.ID))

	gotFrom, err := repo.Get(from.ID)
	require.NoError(t, err)
	assert.Empty(t, gotFrom.Songs)

	gotTo, err := repo.Get(to.ID)
	require.NoError(t, err)
	require.Len(t, gotTo.Songs, 1)
	assert.Equal(t, "moving", gotTo.Songs[0].Xorname)
}

func TestMoveSongMissingTargetKeepsSource(t *testing.T) {
	repo := newTestRepo(t)

	from := domain.NewPlaylist("From")
	_, err := repo.Create(from)
	require.NoError(t, err)

	song := testSong("stays-put")
	require.NoError(t, repo.AddSong(from.ID, song))

	err = repo.MoveSong(song, from.ID, "no-such-playlist")
	require.ErrorIs(t, err, domain.ErrNotFound)

	gotFrom, err := repo.Get(from.ID)
	require.NoError(t, err)
	require.Len(t, gotFrom.Songs, 1, "failed move must not drop the song from its source")
	assert.Equal(t, "stays-put", gotFrom.Songs[0].Xorname)
}

func TestMoveSongMissingSourceKeepsTarget(t *testing.T) {
	repo := newTestRepo(t)

	to := domain.NewPlaylist("To")
	_, err := repo.Create(to)
	require.NoError(t, err)

	err = repo.MoveSong(testSong("nowhere"), "no-such-playlist", to.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	gotTo, err := repo.Get(to.ID)
	require.NoError(t, err)
	assert.Empty(t, gotTo.Songs)
}

func TestMoveSongAlreadyInTarget(t *testing.T) {
	repo := newTestRepo(t)

	from := domain.NewPlaylist("From")
	to := domain.NewPlaylist("To")
	_, err := repo.Create(from)
	require.NoError(t, err)
	_, err = repo.Create(to)
	require.NoError(t, err)

	song := testSong("everywhere")
	require.NoError(t, repo.AddSong(from.ID, song))
	require.NoError(t, repo.AddSong(to.ID, song))

	require.NoError(t, repo.MoveSong(song, from.ID, to.ID))

	gotFrom, err := repo.Get(from.ID)
	require.NoError(t, err)
	assert.Empty(t, gotFrom.Songs)

	gotTo, err := repo.Get(to.ID)
	require.NoError(t, err)
	require.Len(t, gotTo.Songs, 1)
}

func TestAllUniqueSongs(t *testing.T) {
	repo := newTestRepo(t)

	a := domain.NewPlaylist("A")
	b := domain.NewPlaylist("B")
	_, err := repo.Create(a)
	require.NoError(t, err)
	_, err = repo.Create(b)
	require.NoError(t, err)

	shared := testSong("shared")
	onlyB := testSong("only-b")
	require.NoError(t, repo.AddSong(a.ID, shared))
	require.NoError(t, repo.AddSong(b.ID, shared))
	require.NoError(t, repo.AddSong(b.ID, onlyB))

	songs, err := repo.AllUniqueSongs()
	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, "shared", songs[0].Xorname)
	assert.Equal(t, "only-b", songs[1].Xorname)
}
