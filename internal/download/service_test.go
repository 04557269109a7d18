package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jamsplayer/jams/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient records call order and tracks concurrent in-flight downloads.
type fakeClient struct {
	mu        sync.Mutex
	inFlight  int
	maxSeen   int
	calls     []string
	delay     time.Duration
	failUnder map[string]error
}

func (f *fakeClient) Download(ctx context.Context, xorname, fileName, destination string) (domain.FileDetail, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.calls = append(f.calls, xorname)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if err, ok := f.failUnder[xorname]; ok {
		return domain.FileDetail{}, err
	}
	return domain.FileDetail{
		Xorname:  xorname,
		FileName: fileName,
		Path:     destination + "/" + xorname + "__" + fileName,
	}, nil
}

func playlistWith(n int) domain.Playlist {
	p := domain.NewPlaylist("test")
	for i := 0; i < n; i++ {
		p.Songs = append(p.Songs, domain.Song{
			Xorname:        fmt.Sprintf("xor%02d", i),
			FileName:       "track",
			Extension:      "mp3",
			DownloadFolder: "/nonexistent-cache",
			Title:          fmt.Sprintf("Song %d", i),
		})
	}
	return p
}

func TestDownloadPlaylistEmpty(t *testing.T) {
	svc := NewService(&fakeClient{}, nil)

	results, err := svc.DownloadPlaylist(context.Background(), domain.NewPlaylist("empty"))
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestDownloadPlaylistAll(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, nil)

	results, err := svc.DownloadPlaylist(context.Background(), playlistWith(7))
	require.NoError(t, err)
	assert.Len(t, results, 7)
	assert.Len(t, client.calls, 7)
}

func TestDownloadPlaylistConcurrencyBound(t *testing.T) {
	client := &fakeClient{delay: 20 * time.Millisecond}
	svc := NewService(client, nil)

	results, err := svc.DownloadPlaylist(context.Background(), playlistWith(12))
	require.NoError(t, err)
	assert.Len(t, results, 12)
	assert.LessOrEqual(t, client.maxSeen, 5, "more than 5 downloads in flight")
	assert.Equal(t, 5, client.maxSeen, "batches should saturate the window")
}

func TestDownloadPlaylistFailureIsolation(t *testing.T) {
	client := &fakeClient{
		failUnder: map[string]error{
			"xor01": domain.ErrNotFound,
			"xor06": errors.New("peer vanished"),
		},
	}
	svc := NewService(client, nil)

	results, err := svc.DownloadPlaylist(context.Background(), playlistWith(10))
	require.NoError(t, err)
	assert.Len(t, results, 8)

	for _, r := range results {
		assert.NotEqual(t, "xor01", r.Xorname)
		assert.NotEqual(t, "xor06", r.Xorname)
	}
}

func TestDownloadPlaylistSkipsMissingXorname(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, nil)

	p := playlistWith(2)
	p.Songs[0].Xorname = ""

	results, err := svc.DownloadPlaylist(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, []string{"xor01"}, client.calls)
}

func TestDownloadSong(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, nil)

	song := domain.Song{Xorname: "abc", FileName: "track", Extension: "mp3", DownloadFolder: "/music"}
	detail, err := svc.DownloadSong(context.Background(), song)
	require.NoError(t, err)
	assert.Equal(t, "abc", detail.Xorname)
	assert.Equal(t, "track.mp3", detail.FileName)

	_, err = svc.DownloadSong(context.Background(), domain.Song{})
	assert.ErrorIs(t, err, domain.ErrIncompleteSongIdentity)
}
