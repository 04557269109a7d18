// Package session persists the small UI session flags that survive
// restarts independently of playback state.
package session

import (
	"log/slog"
	"sync"

	"github.com/jamsplayer/jams/internal/domain"
)

// storeKey is the fixed session bucket key the record lives under.
const storeKey = "player-visibility"

// schemaVersion tags the persisted record so future layouts can migrate.
const schemaVersion = 1

type record struct {
	SchemaVersion   int  `json:"schemaVersion"`
	IsPlayerVisible bool `json:"isPlayerVisible"`
	HasLoaded       bool `json:"hasLoaded"`
}

// Store holds the two persisted UI flags. Storage failure degrades
// silently to in-memory defaults; there are no other failure modes.
type Store struct {
	mu     sync.Mutex
	store  domain.Store
	logger *slog.Logger
	rec    record
}

// NewStore loads the persisted flags, falling back to defaults when the
// record is absent or storage is unavailable.
func NewStore(store domain.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{store: store, logger: logger, rec: record{SchemaVersion: schemaVersion}}

	var rec record
	found, err := store.Get(domain.BucketSession, storeKey, &rec)
	if err != nil {
		logger.Warn("session store unavailable, using defaults", "error", err)
		return s
	}
	if found {
		rec.SchemaVersion = schemaVersion
		s.rec = rec
	}
	return s
}

// IsPlayerVisible reports whether the player bar is shown.
func (s *Store) IsPlayerVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.IsPlayerVisible
}

// HasLoaded reports whether a song has ever been loaded.
func (s *Store) HasLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.HasLoaded
}

// SetPlayerVisible sets the player bar visibility.
func (s *Store) SetPlayerVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.IsPlayerVisible = visible
	s.persist()
}

// TogglePlayerVisible flips the player bar visibility and returns the new
// value.
func (s *Store) TogglePlayerVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.IsPlayerVisible = !s.rec.IsPlayerVisible
	s.persist()
	return s.rec.IsPlayerVisible
}

// SetHasLoaded sets the has-loaded flag.
func (s *Store) SetHasLoaded(loaded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.HasLoaded = loaded
	s.persist()
}

func (s *Store) persist() {
	if err := s.store.Set(domain.BucketSession, storeKey, s.rec); err != nil {
		// Keep the in-memory value; visibility flags are not worth failing over
		s.logger.Warn("failed to persist session flags", "error", err)
	}
}
