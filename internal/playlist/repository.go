package playlist

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jamsplayer/jams/internal/domain"
)

// storeKey is the single catalog key the whole playlist collection lives
// under. The collection is read and replaced as a whole; there are no
// partial writes.
const storeKey = "playlists"

// Repository provides CRUD over the persisted playlist collection.
//
// Every mutation is a read-modify-write of the full collection. The
// repository serializes its own cycles with a mutex, so concurrent edits
// from multiple UI surfaces within one process cannot lose updates.
type Repository struct {
	store  domain.Store
	logger *slog.Logger
	mu     sync.Mutex // Serializes read-modify-write cycles
}

// NewRepository creates a playlist repository over the given store.
func NewRepository(store domain.Store, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{store: store, logger: logger}
}

// List returns all persisted playlists. An empty store yields an empty
// slice, not an error.
func (r *Repository) List() ([]domain.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Get returns the playlist with the given id.
func (r *Repository) Get(id string) (domain.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	playlists, err := r.load()
	if err != nil {
		return domain.Playlist{}, err
	}
	for _, p := range playlists {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Playlist{}, fmt.Errorf("playlist %s: %w", id, domain.ErrNotFound)
}

// Create appends the candidate playlist and persists the collection. It
// fails with ErrDuplicateID when the id is taken and ErrDuplicateTitle when
// any existing title exactly equals the candidate's (case-sensitive).
func (r *Repository) Create(candidate domain.Playlist) (domain.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	playlists, err := r.load()
	if err != nil {
		return domain.Playlist{}, err
	}

	for _, p := range playlists {
		if p.ID == candidate.ID {
			r.logger.Warn("rejected playlist with duplicate id", "id", candidate.ID)
			return domain.Playlist{}, fmt.Errorf("playlist %s: %w", candidate.ID, domain.ErrDuplicateID)
		}
		if p.Title == candidate.Title {
			r.logger.Warn("rejected playlist with duplicate title", "title", candidate.Title)
			return domain.Playlist{}, fmt.Errorf("playlist %q: %w", candidate.Title, domain.ErrDuplicateTitle)
		}
	}

	if candidate.Songs == nil {
		candidate.Songs = []domain.Song{}
	}

	playlists = append(playlists, candidate)
	if err := r.save(playlists); err != nil {
		return domain.Playlist{}, err
	}

	r.logger.Info("created playlist", "id", candidate.ID, "title", candidate.Title)
	return candidate, nil
}

// Patch carries the fields Update may change. Nil fields are left as-is.
type Patch struct {
	Title   *string
	Picture *domain.Picture
	Songs   *[]domain.Song
}

// Update replaces the matching playlist, preserving CreatedAt and setting
// UpdatedAt to now. Fails with ErrNotFound when no playlist has the id.
func (r *Repository) Update(id string, patch Patch) (domain.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	playlists, err := r.load()
	if err != nil {
		return domain.Playlist{}, err
	}

	for i, p := range playlists {
		if p.ID != id {
			continue
		}
		if patch.Title != nil {
			p.Title = *patch.Title
		}
		if patch.Picture != nil {
			p.Picture = patch.Picture
		}
		if patch.Songs != nil {
			p.Songs = *patch.Songs
		}
		p.UpdatedAt = time.Now().UTC()

		playlists[i] = p
		if err := r.save(playlists); err != nil {
			return domain.Playlist{}, err
		}
		r.logger.Info("updated playlist", "id", id, "title", p.Title)
		return p, nil
	}

	return domain.Playlist{}, fmt.Errorf("playlist %s: %w", id, domain.ErrNotFound)
}

// Delete removes the playlist and persists. Blocking deletion of protected
// playlists (the "general" playlist) is the caller's responsibility; the
// repository imposes no such rule.
func (r *Repository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	playlists, err := r.load()
	if err != nil {
		return err
	}

	for i, p := range playlists {
		if p.ID != id {
			continue
		}
		playlists = append(playlists[:i], playlists[i+1:]...)
		if err := r.save(playlists); err != nil {
			return err
		}
		r.logger.Info("deleted playlist", "id", id, "title", p.Title)
		return nil
	}

	return fmt.Errorf("playlist %s: %w", id, domain.ErrNotFound)
}

// AddSong appends a copy of the song to the playlist. When a song with the
// same identity is already present it persists nothing and reports
// ErrAlreadyExists, which is an expected outcome rather than a failure.
func (r *Repository) AddSong(playlistID string, song domain.Song) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addSongLocked(playlistID, song)
}

func (r *Repository) addSongLocked(playlistID string, song domain.Song) error {
	playlists, err := r.load()
	if err != nil {
		return err
	}

	for i, p := range playlists {
		if p.ID != playlistID {
			continue
		}
		if p.ContainsSong(song) {
			r.logger.Debug("song already in playlist", "playlistID", playlistID, "xorname", song.Xorname)
			return domain.ErrAlreadyExists
		}
		p.Songs = append(p.Songs, song)
		p.UpdatedAt = time.Now().UTC()
		playlists[i] = p
		if err := r.save(playlists); err != nil {
			return err
		}
		r.logger.Info("added song to playlist", "playlistID", playlistID, "xorname", song.Xorname, "title", song.Title)
		return nil
	}

	return fmt.Errorf("playlist %s: %w", playlistID, domain.ErrNotFound)
}

// RemoveSong removes the song with the given identity from exactly one
// playlist's collection. Copies held by other playlists are untouched.
func (r *Repository) RemoveSong(playlistID string, song domain.Song) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeSongLocked(playlistID, song)
}

func (r *Repository) removeSongLocked(playlistID string, song domain.Song) error {
	playlists, err := r.load()
	if err != nil {
		return err
	}

	for i, p := range playlists {
		if p.ID != playlistID {
			continue
		}
		for j, s := range p.Songs {
			if s.SameIdentity(song) {
				p.Songs = append(p.Songs[:j], p.Songs[j+1:]...)
				p.UpdatedAt = time.Now().UTC()
				playlists[i] = p
				if err := r.save(playlists); err != nil {
					return err
				}
				r.logger.Info("removed song from playlist", "playlistID", playlistID, "xorname", song.Xorname)
				return nil
			}
		}
		return fmt.Errorf("song %s in playlist %s: %w", song.Xorname, playlistID, domain.ErrNotFound)
	}

	return fmt.Errorf("playlist %s: %w", playlistID, domain.ErrNotFound)
}

// MoveSong moves a song from one playlist to another. Both edits are
// applied to one loaded collection and persisted with a single save, so a
// missing source or target leaves the library untouched.
func (r *Repository) MoveSong(song domain.Song, fromPlaylistID, toPlaylistID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	playlists, err := r.load()
	if err != nil {
		return err
	}

	fromIdx, toIdx := -1, -1
	for i, p := range playlists {
		if p.ID == fromPlaylistID {
			fromIdx = i
		}
		if p.ID == toPlaylistID {
			toIdx = i
		}
	}
	if fromIdx < 0 {
		return fmt.Errorf("playlist %s: %w", fromPlaylistID, domain.ErrNotFound)
	}
	if toIdx < 0 {
		return fmt.Errorf("playlist %s: %w", toPlaylistID, domain.ErrNotFound)
	}

	songIdx := -1
	for j, s := range playlists[fromIdx].Songs {
		if s.SameIdentity(song) {
			songIdx = j
			break
		}
	}
	if songIdx < 0 {
		return fmt.Errorf("song %s in playlist %s: %w", song.Xorname, fromPlaylistID, domain.ErrNotFound)
	}

	now := time.Now().UTC()
	moved := playlists[fromIdx].Songs[songIdx]
	playlists[fromIdx].Songs = append(playlists[fromIdx].Songs[:songIdx], playlists[fromIdx].Songs[songIdx+1:]...)
	playlists[fromIdx].UpdatedAt = now

	// A copy already in the target is an expected no-op, as in AddSong
	if !playlists[toIdx].ContainsSong(moved) {
		playlists[toIdx].Songs = append(playlists[toIdx].Songs, moved)
		playlists[toIdx].UpdatedAt = now
	}

	if err := r.save(playlists); err != nil {
		return err
	}
	r.logger.Info("moved song", "xorname", song.Xorname, "from", fromPlaylistID, "to", toPlaylistID)
	return nil
}

// AllUniqueSongs flattens every playlist's songs, deduplicated by identity.
// The first occurrence wins.
func (r *Repository) AllUniqueSongs() ([]domain.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	playlists, err := r.load()
	if err != nil {
		return nil, err
	}

	var songs []domain.Song
	for _, p := range playlists {
		for _, s := range p.Songs {
			duplicate := false
			for _, seen := range songs {
				if seen.SameIdentity(s) {
					duplicate = true
					break
				}
			}
			if !duplicate {
				songs = append(songs, s)
			}
		}
	}
	return songs, nil
}

func (r *Repository) load() ([]domain.Playlist, error) {
	var playlists []domain.Playlist
	found, err := r.store.Get(domain.BucketCatalog, storeKey, &playlists)
	if err != nil {
		r.logger.Error("failed to load playlists", "error", err)
		return nil, err
	}
	if !found {
		return []domain.Playlist{}, nil
	}
	return playlists, nil
}

func (r *Repository) save(playlists []domain.Playlist) error {
	if err := r.store.Set(domain.BucketCatalog, storeKey, playlists); err != nil {
		r.logger.Error("failed to save playlists", "error", err)
		return err
	}
	return nil
}
