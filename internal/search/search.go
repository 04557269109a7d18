package search

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jamsplayer/jams/internal/domain"
)

// catalog is the slice of the playlist repository this service needs.
type catalog interface {
	AllUniqueSongs() ([]domain.Song, error)
}

// Result is a search hit with its ranking score (lower is better).
type Result struct {
	Song  domain.Song
	Score int
}

// Service performs fuzzy search over the song catalog. The index is
// rebuilt on demand from the playlist repository and cached until
// Refresh is called.
type Service struct {
	repo   catalog
	logger *slog.Logger

	indexMu sync.RWMutex
	songs   []domain.Song
	keys    []string // pre-computed lowercase "title artist tags" per song
	indexed bool
}

// NewService creates a search service backed by the playlist repository.
func NewService(repo catalog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Search finds songs whose title, artist, or tags fuzzily match the
// query. Results are sorted by score (lower is better).
func (s *Service) Search(query string) ([]Result, error) {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return nil, nil
	}

	if err := s.ensureIndexed(); err != nil {
		return nil, err
	}

	s.indexMu.RLock()
	defer s.indexMu.RUnlock()

	matches := fuzzy.RankFindFold(query, s.keys)
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	results := make([]Result, 0, len(matches))
	for _, match := range matches {
		results = append(results, Result{
			Song:  s.songs[match.OriginalIndex],
			Score: match.Distance,
		})
	}

	s.logger.Debug("search complete", "query", query, "results", len(results))
	return results, nil
}

// Refresh drops the cached index so the next search rebuilds it from
// the repository. Call after playlist mutations.
func (s *Service) Refresh() {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	s.songs = nil
	s.keys = nil
	s.indexed = false
}

func (s *Service) ensureIndexed() error {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	if s.indexed {
		return nil
	}

	songs, err := s.repo.AllUniqueSongs()
	if err != nil {
		return err
	}

	s.songs = songs
	s.keys = make([]string, len(songs))
	for i, song := range songs {
		s.keys[i] = searchKey(song)
	}
	s.indexed = true

	s.logger.Debug("indexed songs", "count", len(songs))
	return nil
}

// searchKey builds the lowercase text a song is matched against.
func searchKey(song domain.Song) string {
	parts := make([]string, 0, 2+len(song.Tags))
	parts = append(parts, song.DisplayTitle())
	if song.Artist != "" {
		parts = append(parts, song.Artist)
	}
	parts = append(parts, song.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}
