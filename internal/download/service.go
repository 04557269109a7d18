// Package download orchestrates fetching playlist songs from the network
// into the local cache folder.
package download

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/jamsplayer/jams/internal/domain"
	"github.com/jamsplayer/jams/internal/resolve"
)

// batchSize caps the number of downloads in flight at any instant. Songs
// are processed in fixed windows; every window settles fully (success or
// failure) before the next one starts.
const batchSize = 5

// downloader abstracts the network download call (consumer-defined interface)
type downloader interface {
	Download(ctx context.Context, xorname, fileName, destination string) (domain.FileDetail, error)
}

// Service downloads playlist songs with bounded concurrency.
type Service struct {
	client downloader
	logger *slog.Logger
}

// NewService creates a download service over the network client.
func NewService(client downloader, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, logger: logger}
}

// DownloadPlaylist fetches every song in the playlist that has no local
// cache hit. Failures are logged and excluded from the result; siblings in
// the same batch are unaffected. There are no automatic retries.
func (s *Service) DownloadPlaylist(ctx context.Context, p domain.Playlist) ([]domain.FileDetail, error) {
	if len(p.Songs) == 0 {
		s.logger.Warn("no songs in playlist", "playlistID", p.ID, "title", p.Title)
		return nil, nil
	}

	missing := make([]domain.Song, 0, len(p.Songs))
	for _, song := range p.Songs {
		if s.isCached(song) {
			s.logger.Debug("song already cached", "xorname", song.Xorname, "title", song.Title)
			continue
		}
		missing = append(missing, song)
	}

	var results []domain.FileDetail
	for start := 0; start < len(missing); start += batchSize {
		end := min(start+batchSize, len(missing))
		results = append(results, s.downloadBatch(ctx, missing[start:end])...)
	}

	s.logger.Info("playlist download finished",
		"playlistID", p.ID, "requested", len(p.Songs), "fetched", len(results))
	return results, nil
}

// DownloadSong fetches a single song, bypassing the cache check.
func (s *Service) DownloadSong(ctx context.Context, song domain.Song) (domain.FileDetail, error) {
	if song.Xorname == "" {
		return domain.FileDetail{}, domain.ErrIncompleteSongIdentity
	}

	var fileName string
	if song.FileName != "" && song.Extension != "" {
		fileName = song.FileName + "." + song.Extension
	}

	detail, err := s.client.Download(ctx, song.Xorname, fileName, song.DownloadFolder)
	if err != nil {
		s.logger.Error("download failed", "xorname", song.Xorname, "title", song.Title, "error", err)
		return domain.FileDetail{}, err
	}
	return detail, nil
}

// downloadBatch runs one window of downloads and waits for all of them to
// settle. A failing download never aborts its siblings.
func (s *Service) downloadBatch(ctx context.Context, batch []domain.Song) []domain.FileDetail {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	var settled []domain.FileDetail

	for _, song := range batch {
		if song.Xorname == "" {
			s.logger.Warn("skipping song with missing xorname", "title", song.Title)
			continue
		}

		wg.Add(1)
		go func(song domain.Song) {
			defer wg.Done()

			detail, err := s.DownloadSong(ctx, song)
			if err != nil {
				return // Logged inside DownloadSong; excluded from results
			}

			mu.Lock()
			settled = append(settled, detail)
			mu.Unlock()
		}(song)
	}

	wg.Wait()
	return settled
}

// isCached reports whether the song's resolved playable path already exists
// on disk. Songs with incomplete identity are never considered cached.
func (s *Service) isCached(song domain.Song) bool {
	path, err := resolve.PlayablePath(song)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
