package network

import (
	"context"
	"log/slog"
	"time"

	"github.com/jamsplayer/jams/internal/domain"
)

// Watcher polls the node's connection state and emits lifecycle events on
// transitions. The UI layer consumes connected, disconnected, and sign_in
// the same way it would native backend events.
type Watcher struct {
	client   domain.NetworkClient
	logger   *slog.Logger
	interval time.Duration
	events   chan domain.NetworkEvent
}

// NewWatcher creates a watcher polling at the given interval.
func NewWatcher(client domain.NetworkClient, interval time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Watcher{
		client:   client,
		logger:   logger,
		interval: interval,
		events:   make(chan domain.NetworkEvent, 8),
	}
}

// Events returns the event channel.
func (w *Watcher) Events() <-chan domain.NetworkEvent {
	return w.events
}

// Run polls until the context is cancelled. The first successful
// connection also emits sign_in with the client address.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	connected := false
	signedIn := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		now := w.client.IsConnected(ctx)
		if now == connected {
			continue
		}
		connected = now

		if !connected {
			w.logger.Info("network connection lost")
			w.send(domain.NetworkEvent{Type: domain.NetworkDisconnected})
			continue
		}

		w.logger.Info("network connection established")
		w.send(domain.NetworkEvent{Type: domain.NetworkConnected})

		if !signedIn {
			address, err := w.client.ClientAddress(ctx)
			if err != nil {
				w.logger.Warn("could not fetch client address", "error", err)
				continue
			}
			signedIn = true
			w.send(domain.NetworkEvent{Type: domain.NetworkSignIn, Address: address})
		}
	}
}

func (w *Watcher) send(ev domain.NetworkEvent) {
	select {
	case w.events <- ev:
	default:
		w.logger.Debug("dropped network event", "type", ev.Type.String())
	}
}
