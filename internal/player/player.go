// Package player manages playback state transitions against the single
// active media element.
package player

import (
	"log/slog"
	"math"
	"sync"

	"github.com/jamsplayer/jams/internal/domain"
	"github.com/jamsplayer/jams/internal/resolve"
)

// State is the reactive snapshot exposed to the UI. Duration and
// CurrentTime are observed from the media element, never set here except
// through an explicit seek.
type State struct {
	Playing     bool
	Muted       bool
	Volume      float64 // 0.0 - 1.0
	Duration    float64 // Seconds
	CurrentTime float64 // Seconds
	Song        *domain.Song
	HasLoaded   bool // Sticky once a song has ever loaded
}

// EventType identifies a player event.
type EventType int

const (
	EventSongLoaded   EventType = iota // A new source was loaded
	EventStateChanged                  // Transport, mute, or volume changed
	EventTimeUpdate                    // Observed position advanced
)

// Event carries a snapshot of the state after an effective transition.
// No event is emitted for an action that was a no-op.
type Event struct {
	Type  EventType
	State State
}

// Player is the playback state machine. All transitions go through its
// action methods; the media element is never mutated from outside.
type Player struct {
	mu       sync.Mutex
	media    Media
	strategy resolve.URLStrategy
	logger   *slog.Logger

	state   State
	eventCh chan Event
	done    chan struct{}
}

// New creates a player over the media element. The strategy converts
// resolved cache paths into element-loadable URLs.
func New(media Media, strategy resolve.URLStrategy, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Player{
		media:    media,
		strategy: strategy,
		logger:   logger,
		state:    State{Volume: 1},
		eventCh:  make(chan Event, 16),
		done:     make(chan struct{}),
	}
	go p.observe()
	return p
}

// Events returns the event channel subscribers consume state from.
func (p *Player) Events() <-chan Event {
	return p.eventCh
}

// State returns a copy of the current snapshot.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Play starts playback. When the song's identity differs from the loaded
// one the source is reloaded and the position reset to zero; when it is
// the same song playback resumes from the current position. A song without
// a download folder makes the whole action a logged no-op: Play never
// fails.
func (p *Player) Play(song *domain.Song) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playLocked(song)
}

func (p *Player) playLocked(song *domain.Song) {
	if song == nil {
		// Resume whatever is loaded
		if p.state.Song == nil {
			p.logger.Warn("no song to play")
			return
		}
		song = p.state.Song
	}

	if song.DownloadFolder == "" {
		p.logger.Warn("song has no download folder", "title", song.Title)
		return
	}

	if !p.sameAsLoaded(*song) {
		path, err := resolve.PlayablePath(*song)
		if err != nil {
			p.logger.Warn("cannot resolve playable path", "title", song.Title, "error", err)
			return
		}
		url, err := p.strategy.PlayableURL(path)
		if err != nil {
			p.logger.Warn("cannot build playable URL", "path", path, "error", err)
			return
		}

		if err := p.media.Load(url); err != nil {
			p.logger.Error("failed to load media source", "url", url, "error", err)
			return
		}

		copied := *song
		p.state.Song = &copied
		p.state.CurrentTime = 0
		p.state.Duration = 0
		p.state.HasLoaded = true
		p.logger.Info("loaded media source", "title", song.Title, "url", url)
		p.emit(EventSongLoaded)
	}

	if err := p.media.Play(); err != nil {
		p.logger.Error("playback failed", "title", song.Title, "error", err)
		return
	}
	if !p.state.Playing {
		p.state.Playing = true
		p.emit(EventStateChanged)
	}
}

// Pause pauses the current media regardless of song identity. It is a
// no-op when nothing is loaded.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauseLocked()
}

func (p *Player) pauseLocked() {
	if p.state.Song == nil {
		return
	}
	if err := p.media.Pause(); err != nil {
		p.logger.Error("pause failed", "error", err)
		return
	}
	if p.state.Playing {
		p.state.Playing = false
		p.emit(EventStateChanged)
	}
}

// Toggle pauses when the given song (or the current one, when nil) is the
// one playing, and plays it otherwise.
func (p *Player) Toggle(song *domain.Song) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isPlayingLocked(song) {
		p.pauseLocked()
		return
	}
	p.playLocked(song)
}

// SeekBy shifts the position by delta seconds.
func (p *Player) SeekBy(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Song == nil {
		return
	}
	p.seekLocked(p.media.Position() + delta)
}

// Seek jumps to an absolute position in seconds.
func (p *Player) Seek(seconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Song == nil {
		return
	}
	p.seekLocked(seconds)
}

func (p *Player) seekLocked(seconds float64) {
	if err := p.media.SetPosition(seconds); err != nil {
		p.logger.Error("seek failed", "seconds", seconds, "error", err)
		return
	}
	p.state.CurrentTime = seconds
	p.emit(EventTimeUpdate)
}

// SetRate sets the playback speed multiplier, unclamped.
func (p *Player) SetRate(rate float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.media.SetRate(rate); err != nil {
		p.logger.Error("failed to set playback rate", "rate", rate, "error", err)
	}
}

// ToggleMute flips the mute flag. Volume is untouched.
func (p *Player) ToggleMute() {
	p.mu.Lock()
	defer p.mu.Unlock()

	muted := !p.state.Muted
	if err := p.media.SetMuted(muted); err != nil {
		p.logger.Error("failed to toggle mute", "error", err)
		return
	}
	p.state.Muted = muted
	p.emit(EventStateChanged)
}

// SetVolume clamps to [0,1], applies to the media element, and updates the
// snapshot.
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	volume = math.Min(math.Max(volume, 0), 1)
	if err := p.media.SetVolume(volume); err != nil {
		p.logger.Error("failed to set volume", "volume", volume, "error", err)
		return
	}
	p.state.Volume = volume
	p.emit(EventStateChanged)
}

// IsPlaying reports whether the given song, specifically, is the one
// playing. With a nil song it reports on the current song. The comparison
// uses the canonical song identity, not a derived URL.
func (p *Player) IsPlaying(song *domain.Song) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isPlayingLocked(song)
}

func (p *Player) isPlayingLocked(song *domain.Song) bool {
	if song == nil {
		return p.state.Playing
	}
	if song.DownloadFolder == "" {
		return false
	}
	return p.state.Playing && p.sameAsLoaded(*song)
}

// Close stops observation and releases the media element.
func (p *Player) Close() error {
	close(p.done)
	return p.media.Close()
}

func (p *Player) sameAsLoaded(song domain.Song) bool {
	return p.state.Song != nil && p.state.Song.SameIdentity(song)
}

// observe folds media element events into the snapshot.
func (p *Player) observe() {
	for {
		select {
		case <-p.done:
			return
		case ev, ok := <-p.media.Events():
			if !ok {
				return
			}
			p.mu.Lock()
			switch ev.Kind {
			case MediaTimeUpdate:
				p.state.CurrentTime = math.Floor(ev.Seconds)
				p.emit(EventTimeUpdate)
			case MediaDurationChange:
				p.state.Duration = math.Floor(ev.Seconds)
				p.emit(EventStateChanged)
			case MediaPlaying:
				if !p.state.Playing {
					p.state.Playing = true
					p.emit(EventStateChanged)
				}
			case MediaPaused:
				if p.state.Playing {
					p.state.Playing = false
					p.emit(EventStateChanged)
				}
			}
			p.mu.Unlock()
		}
	}
}

// emit sends an event without blocking; a full subscriber queue drops the
// oldest semantics in favor of the freshest snapshot being queryable via
// State().
func (p *Player) emit(t EventType) {
	select {
	case p.eventCh <- Event{Type: t, State: p.state}:
	default:
	}
}
