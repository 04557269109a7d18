package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os/exec"
	"sync"
	"time"
)

// mpv observed property ids
const (
	propTimePos  = 1
	propDuration = 2
	propPause    = 3
)

// MPV drives an mpv process over its JSON IPC socket, implementing Media.
// mpv runs idle with video disabled; every source swap goes through
// loadfile on the same process.
type MPV struct {
	cmd    *exec.Cmd
	conn   net.Conn
	logger *slog.Logger

	mu       sync.Mutex
	position float64
	reqID    int

	events chan MediaEvent
	done   chan struct{}
}

type mpvRequest struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id,omitempty"`
}

type mpvMessage struct {
	Event     string `json:"event,omitempty"`
	Name      string `json:"name,omitempty"`
	ID        int    `json:"id,omitempty"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	RequestID int    `json:"request_id,omitempty"`
}

// NewMPV spawns mpv with an IPC socket and waits for the socket to accept
// a connection.
func NewMPV(command string, extraArgs []string, socketPath string, logger *slog.Logger) (*MPV, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if command == "" {
		command = "mpv"
	}

	args := []string{
		"--idle=yes",
		"--no-video",
		"--really-quiet",
		"--input-ipc-server=" + socketPath,
	}
	args = append(args, extraArgs...)

	cmd := exec.Command(command, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", command, err)
	}

	conn, err := dialWithRetry(socketPath, 5*time.Second)
	if err != nil {
		cmd.Process.Kill()
		return nil, fmt.Errorf("failed to reach mpv ipc socket: %w", err)
	}

	m := &MPV{
		cmd:    cmd,
		conn:   conn,
		logger: logger,
		events: make(chan MediaEvent, 32),
		done:   make(chan struct{}),
	}

	m.command("observe_property", propTimePos, "time-pos")
	m.command("observe_property", propDuration, "duration")
	m.command("observe_property", propPause, "pause")

	go m.readLoop()

	logger.Info("mpv started", "command", command, "socket", socketPath)
	return m, nil
}

func dialWithRetry(socketPath string, timeout time.Duration) (net.Conn, error) {
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.Dial("unix", socketPath)
		if err == nil {
			return conn, nil
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (m *MPV) Load(url string) error {
	return m.command("loadfile", url, "replace")
}

func (m *MPV) Play() error {
	return m.command("set_property", "pause", false)
}

func (m *MPV) Pause() error {
	return m.command("set_property", "pause", true)
}

func (m *MPV) SetPosition(seconds float64) error {
	return m.command("seek", seconds, "absolute")
}

func (m *MPV) Position() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *MPV) SetRate(rate float64) error {
	return m.command("set_property", "speed", rate)
}

func (m *MPV) SetVolume(volume float64) error {
	// mpv volume is 0-100
	return m.command("set_property", "volume", volume*100)
}

func (m *MPV) SetMuted(muted bool) error {
	return m.command("set_property", "mute", muted)
}

func (m *MPV) Events() <-chan MediaEvent {
	return m.events
}

func (m *MPV) Close() error {
	close(m.done)
	m.command("quit")
	m.conn.Close()
	return m.cmd.Wait()
}

func (m *MPV) command(parts ...any) error {
	m.mu.Lock()
	m.reqID++
	req := mpvRequest{Command: parts, RequestID: m.reqID}
	m.mu.Unlock()

	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	if _, err := m.conn.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("mpv ipc write: %w", err)
	}
	return nil
}

// readLoop translates mpv's property-change stream into MediaEvents.
func (m *MPV) readLoop() {
	defer close(m.events)

	scanner := bufio.NewScanner(m.conn)
	for scanner.Scan() {
		select {
		case <-m.done:
			return
		default:
		}

		var msg mpvMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			m.logger.Debug("unparseable mpv message", "line", scanner.Text())
			continue
		}

		if msg.Error != "" && msg.Error != "success" {
			m.logger.Warn("mpv command failed", "requestID", msg.RequestID, "error", msg.Error)
			continue
		}

		switch msg.Event {
		case "property-change":
			m.handleProperty(msg)
		case "end-file":
			m.send(MediaEvent{Kind: MediaPaused})
		}
	}
}

func (m *MPV) handleProperty(msg mpvMessage) {
	switch msg.ID {
	case propTimePos:
		if seconds, ok := msg.Data.(float64); ok {
			m.mu.Lock()
			m.position = seconds
			m.mu.Unlock()
			m.send(MediaEvent{Kind: MediaTimeUpdate, Seconds: seconds})
		}
	case propDuration:
		if seconds, ok := msg.Data.(float64); ok {
			m.send(MediaEvent{Kind: MediaDurationChange, Seconds: seconds})
		}
	case propPause:
		if paused, ok := msg.Data.(bool); ok {
			if paused {
				m.send(MediaEvent{Kind: MediaPaused})
			} else {
				m.send(MediaEvent{Kind: MediaPlaying})
			}
		}
	}
}

func (m *MPV) send(ev MediaEvent) {
	select {
	case m.events <- ev:
	default:
		// Drop rather than stall the ipc reader; the freshest state is
		// always queryable from the player snapshot.
	}
}
