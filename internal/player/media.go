package player

// Media is the single active media element. It is exclusively owned by the
// Player; no other component may mutate its source or position.
type Media interface {
	// Load replaces the media source. Position resets to zero.
	Load(url string) error

	Play() error
	Pause() error

	// SetPosition seeks to an absolute position in seconds. No bounds
	// clamping beyond what the element enforces natively.
	SetPosition(seconds float64) error
	Position() float64

	// SetRate sets the playback speed multiplier, unclamped.
	SetRate(rate float64) error

	SetVolume(volume float64) error
	SetMuted(muted bool) error

	// Events returns observed element changes: time and duration updates
	// and transport transitions caused by the element itself (such as a
	// track ending).
	Events() <-chan MediaEvent

	Close() error
}

// MediaEventKind identifies an observed media element change.
type MediaEventKind int

const (
	MediaTimeUpdate     MediaEventKind = iota // Seconds holds the current position
	MediaDurationChange                       // Seconds holds the new duration
	MediaPlaying                              // Element started playing
	MediaPaused                               // Element paused (including end of track)
)

// MediaEvent is a single observed change from the media element.
type MediaEvent struct {
	Kind    MediaEventKind
	Seconds float64
}
