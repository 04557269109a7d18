package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jamsplayer/jams/internal/domain"
	"github.com/jamsplayer/jams/internal/download"
	"github.com/jamsplayer/jams/internal/player"
	"github.com/jamsplayer/jams/internal/playlist"
	"github.com/jamsplayer/jams/internal/resolve"
	"github.com/jamsplayer/jams/internal/search"
	"github.com/jamsplayer/jams/internal/session"
	"github.com/jamsplayer/jams/internal/tui/components"
	"github.com/jamsplayer/jams/internal/tui/styles"
)

// pane identifies the focused column
type pane int

const (
	panePlaylists pane = iota
	paneSongs
)

// modalKind identifies which modal is open and what submit does
type modalKind int

const (
	modalNone modalKind = iota
	modalNewPlaylist
	modalRenamePlaylist
	modalSearch
	modalConfirmDelete
)

// Layout proportions
const (
	PlaylistColumnPercent = 35
	SongColumnPercent     = 65
	MinColumnWidth        = 20
)

// Services bundles everything the TUI needs
type Services struct {
	Playlists *playlist.Repository
	Downloads *download.Service
	Search    *search.Service
	Player    *player.Player
	Session   *session.Store
	Network   <-chan domain.NetworkEvent
	Logger    *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	svc Services

	// Data
	playlists []domain.Playlist
	selected  *domain.Playlist // playlist shown in the song column

	// Search results currently shown in the song column, nil when the
	// column shows a playlist
	searchResults []search.Result

	// UI components
	playlistCol *components.ListColumn
	songCol     *components.ListColumn
	inputModal  components.InputModal
	confirm     components.ConfirmModal
	playerBar   components.PlayerBar

	// UI state
	focus       pane
	modal       modalKind
	statusMsg   string
	statusIsErr bool
	statusID    int
	width       int
	height      int

	// Network state shown in the status bar
	networkUp   bool
	networkAddr string

	// Move-song flow: the song being relocated and its source playlist
	moveSong     *domain.Song
	moveSourceID string

	// Pending delete target
	deleteID string
}

// New creates the application model
func New(svc Services) Model {
	if svc.Logger == nil {
		svc.Logger = slog.Default()
	}

	playlistCol := components.NewListColumn("Playlists")
	playlistCol.Focus()

	m := Model{
		svc:         svc,
		playlistCol: playlistCol,
		songCol:     components.NewListColumn("Songs"),
		inputModal:  components.NewInputModal(),
		confirm:     components.NewConfirmModal(),
		playerBar:   components.NewPlayerBar(),
	}
	m.playerBar.SetState(svc.Player.State())
	return m
}

// Init starts the initial load and event listeners
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		LoadPlaylistsCmd(m.svc.Playlists),
		ListenPlayerCmd(m.svc.Player),
	}
	if m.svc.Network != nil {
		cmds = append(cmds, ListenNetworkCmd(m.svc.Network))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case PlaylistsLoadedMsg:
		return m.onPlaylistsLoaded(msg), nil

	case DownloadFinishedMsg:
		cmd := m.setStatus(fmt.Sprintf("downloaded %d songs from %q", msg.Fetched, msg.PlaylistTitle), false)
		m.refreshSongColumn()
		return m, cmd

	case PlayerEventMsg:
		m.playerBar.SetState(msg.Event.State)
		return m, ListenPlayerCmd(m.svc.Player)

	case NetworkEventMsg:
		m.onNetworkEvent(msg.Event)
		return m, ListenNetworkCmd(m.svc.Network)

	case SearchResultsMsg:
		return m.onSearchResults(msg)

	case StatusExpiredMsg:
		if msg.ID == m.statusID {
			m.statusMsg = ""
		}
		return m, nil

	case ErrMsg:
		m.svc.Logger.Error("ui operation failed", "context", msg.Context, "error", msg.Err)
		return m, m.setStatus(msg.Error(), true)

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m, nil
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modals capture all input while open
	if m.inputModal.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.inputModal, cmd, submitted = m.inputModal.Update(msg)
		if submitted {
			return m.onModalSubmit()
		}
		if !m.inputModal.IsVisible() {
			m.modal = modalNone
		}
		return m, cmd
	}
	if m.confirm.IsVisible() {
		var confirmed, dismissed bool
		m.confirm, confirmed, dismissed = m.confirm.Update(msg)
		if dismissed {
			m.modal = modalNone
			if confirmed {
				return m.onDeleteConfirmed()
			}
		}
		return m, nil
	}

	// In-column filter captures input while typing
	if col := m.focusedColumn(); col.FilterActive() {
		return m, col.UpdateFilter(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Up):
		m.focusedColumn().CursorUp()
		m.syncSongColumn()
	case key.Matches(msg, Keys.Down):
		m.focusedColumn().CursorDown()
		m.syncSongColumn()
	case key.Matches(msg, Keys.Home):
		m.focusedColumn().CursorHome()
		m.syncSongColumn()
	case key.Matches(msg, Keys.End):
		m.focusedColumn().CursorEnd()
		m.syncSongColumn()

	case key.Matches(msg, Keys.Left):
		m.setFocus(panePlaylists)
	case key.Matches(msg, Keys.Right):
		m.setFocus(paneSongs)

	case key.Matches(msg, Keys.Escape):
		if col := m.focusedColumn(); col.HasFilter() {
			col.ClearFilter()
			m.syncSongColumn()
		} else if m.moveSong != nil {
			m.moveSong = nil
			return m, m.setStatus("move cancelled", false)
		}

	case key.Matches(msg, Keys.Filter):
		return m, m.focusedColumn().StartFilter()

	case key.Matches(msg, Keys.Enter):
		return m.onEnter()

	case key.Matches(msg, Keys.NewPlaylist):
		m.modal = modalNewPlaylist
		m.inputModal.Show("New playlist", "")

	case key.Matches(msg, Keys.Rename):
		return m.onRename()

	case key.Matches(msg, Keys.Delete):
		return m.onDelete()

	case key.Matches(msg, Keys.MoveSong):
		return m.onMoveSong()

	case key.Matches(msg, Keys.Download):
		if m.selected != nil {
			return m, tea.Batch(
				m.setStatus(fmt.Sprintf("downloading %q...", m.selected.Title), false),
				DownloadPlaylistCmd(m.svc.Downloads, *m.selected),
			)
		}

	case key.Matches(msg, Keys.Search):
		m.modal = modalSearch
		m.inputModal.Show("Search songs", "")

	case key.Matches(msg, Keys.TogglePlayer):
		m.svc.Session.TogglePlayerVisible()
		m.layout()

	case key.Matches(msg, Keys.PlayPause):
		m.svc.Player.Toggle(nil)

	case key.Matches(msg, Keys.SeekFwd):
		m.svc.Player.SeekBy(10)
	case key.Matches(msg, Keys.SeekBack):
		m.svc.Player.SeekBy(-10)

	case key.Matches(msg, Keys.VolumeUp):
		m.svc.Player.SetVolume(m.svc.Player.State().Volume + 0.05)
	case key.Matches(msg, Keys.VolumeDown):
		m.svc.Player.SetVolume(m.svc.Player.State().Volume - 0.05)
	case key.Matches(msg, Keys.Mute):
		m.svc.Player.ToggleMute()
	}

	return m, nil
}

// onEnter selects a playlist, completes a move, or plays a song
func (m Model) onEnter() (tea.Model, tea.Cmd) {
	if m.focus == panePlaylists {
		item, ok := m.playlistCol.Selected()
		if !ok {
			return m, nil
		}
		if m.moveSong != nil {
			return m.onMoveTargetPicked(item.ID)
		}
		m.selectPlaylist(item.ID)
		m.setFocus(paneSongs)
		return m, nil
	}

	// Song pane: play the selected song
	song, ok := m.selectedSong()
	if !ok {
		return m, nil
	}
	if song.DownloadFolder == "" {
		return m, m.setStatus(fmt.Sprintf("%q is not downloaded yet (press d)", song.DisplayTitle()), true)
	}
	m.svc.Player.Toggle(&song)
	// Loading a song reveals the player bar; both flags persist
	m.svc.Session.SetPlayerVisible(true)
	m.svc.Session.SetHasLoaded(true)
	m.layout()
	m.playerBar.SetState(m.svc.Player.State())
	return m, nil
}

func (m Model) onRename() (tea.Model, tea.Cmd) {
	if m.focus != panePlaylists || m.selected == nil {
		return m, nil
	}
	if m.selected.IsGeneral() {
		return m, m.setStatus("the general playlist cannot be renamed", true)
	}
	m.modal = modalRenamePlaylist
	m.inputModal.Show("Rename playlist", m.selected.Title)
	return m, nil
}

func (m Model) onDelete() (tea.Model, tea.Cmd) {
	if m.focus == panePlaylists {
		if m.selected == nil {
			return m, nil
		}
		if m.selected.IsGeneral() {
			return m, m.setStatus("the general playlist cannot be deleted", true)
		}
		m.modal = modalConfirmDelete
		m.deleteID = m.selected.ID
		m.confirm.Show(fmt.Sprintf("Delete playlist %q?", m.selected.Title))
		return m, nil
	}

	// Song pane: remove song from the selected playlist, no confirm
	song, ok := m.selectedSong()
	if !ok || m.selected == nil {
		return m, nil
	}
	if err := m.svc.Playlists.RemoveSong(m.selected.ID, song); err != nil {
		return m, m.setStatus("remove failed: "+err.Error(), true)
	}
	m.svc.Search.Refresh()
	return m, tea.Batch(
		m.setStatus(fmt.Sprintf("removed %q", song.DisplayTitle()), false),
		LoadPlaylistsCmd(m.svc.Playlists),
	)
}

func (m Model) onDeleteConfirmed() (tea.Model, tea.Cmd) {
	if err := m.svc.Playlists.Delete(m.deleteID); err != nil {
		return m, m.setStatus("delete failed: "+err.Error(), true)
	}
	m.deleteID = ""
	m.selected = nil
	// Clear the song pane now; the reload lands a frame later
	m.songCol.SetTitle("Songs")
	m.songCol.SetItems(nil)
	m.svc.Search.Refresh()
	return m, tea.Batch(
		m.setStatus("playlist deleted", false),
		LoadPlaylistsCmd(m.svc.Playlists),
	)
}

// onMoveSong marks the selected song for relocation; the user then
// picks a target playlist in the playlist column
func (m Model) onMoveSong() (tea.Model, tea.Cmd) {
	if m.focus != paneSongs || m.selected == nil {
		return m, nil
	}
	song, ok := m.selectedSong()
	if !ok {
		return m, nil
	}
	m.moveSong = &song
	m.moveSourceID = m.selected.ID
	m.setFocus(panePlaylists)
	return m, m.setStatus(fmt.Sprintf("moving %q: pick a playlist and press enter", song.DisplayTitle()), false)
}

func (m Model) onMoveTargetPicked(targetID string) (tea.Model, tea.Cmd) {
	song := *m.moveSong
	sourceID := m.moveSourceID
	m.moveSong = nil
	m.moveSourceID = ""

	if targetID == sourceID {
		return m, m.setStatus("move cancelled", false)
	}
	if err := m.svc.Playlists.MoveSong(song, sourceID, targetID); err != nil {
		return m, m.setStatus("move failed: "+err.Error(), true)
	}
	m.svc.Search.Refresh()
	return m, tea.Batch(
		m.setStatus(fmt.Sprintf("moved %q", song.DisplayTitle()), false),
		LoadPlaylistsCmd(m.svc.Playlists),
	)
}

func (m Model) onModalSubmit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.inputModal.Value())
	kind := m.modal
	m.inputModal.Hide()
	m.modal = modalNone

	switch kind {
	case modalNewPlaylist:
		if value == "" {
			return m, nil
		}
		if _, err := m.svc.Playlists.Create(domain.NewPlaylist(value)); err != nil {
			if errors.Is(err, domain.ErrDuplicateTitle) {
				return m, m.setStatus(fmt.Sprintf("a playlist named %q already exists", value), true)
			}
			return m, m.setStatus("create failed: "+err.Error(), true)
		}
		m.svc.Search.Refresh()
		return m, tea.Batch(
			m.setStatus(fmt.Sprintf("created %q", value), false),
			LoadPlaylistsCmd(m.svc.Playlists),
		)

	case modalRenamePlaylist:
		if value == "" || m.selected == nil {
			return m, nil
		}
		if _, err := m.svc.Playlists.Update(m.selected.ID, playlist.Patch{Title: &value}); err != nil {
			return m, m.setStatus("rename failed: "+err.Error(), true)
		}
		return m, tea.Batch(
			m.setStatus(fmt.Sprintf("renamed to %q", value), false),
			LoadPlaylistsCmd(m.svc.Playlists),
		)

	case modalSearch:
		if value == "" {
			return m, nil
		}
		return m, SearchSongsCmd(m.svc.Search, value)
	}

	return m, nil
}

func (m Model) onPlaylistsLoaded(msg PlaylistsLoadedMsg) Model {
	m.playlists = msg.Playlists

	items := make([]components.Item, len(msg.Playlists))
	for i, p := range msg.Playlists {
		items[i] = components.Item{
			ID:       p.ID,
			Title:    p.Title,
			Subtitle: fmt.Sprintf("%d songs", p.SongCount()),
		}
	}
	m.playlistCol.SetItems(items)

	// Keep the selection pointing at fresh data
	if m.selected != nil {
		m.selectPlaylist(m.selected.ID)
		m.playlistCol.SelectID(m.selected.ID)
	} else if item, ok := m.playlistCol.Selected(); ok {
		m.selectPlaylist(item.ID)
	}
	return m
}

func (m Model) onSearchResults(msg SearchResultsMsg) (tea.Model, tea.Cmd) {
	if len(msg.Results) == 0 {
		return m, m.setStatus(fmt.Sprintf("no songs match %q", msg.Query), false)
	}

	items := make([]components.Item, len(msg.Results))
	for i, res := range msg.Results {
		items[i] = components.Item{
			ID:        songItemID(res.Song),
			Title:     res.Song.DisplayTitle(),
			Subtitle:  res.Song.Artist,
			Indicator: cacheIndicator(res.Song),
		}
	}
	m.selected = nil
	m.songCol.SetTitle(fmt.Sprintf("Search: %s", msg.Query))
	m.songCol.SetItems(items)
	m.searchResults = msg.Results
	m.setFocus(paneSongs)
	return m, nil
}

func (m *Model) onNetworkEvent(ev domain.NetworkEvent) {
	switch ev.Type {
	case domain.NetworkConnected:
		m.networkUp = true
	case domain.NetworkDisconnected:
		m.networkUp = false
	case domain.NetworkSignIn:
		m.networkUp = true
		m.networkAddr = ev.Address
	}
}

// selectPlaylist points the song column at the playlist with the given ID
func (m *Model) selectPlaylist(id string) {
	m.searchResults = nil
	for i := range m.playlists {
		if m.playlists[i].ID == id {
			m.selected = &m.playlists[i]
			m.refreshSongColumn()
			return
		}
	}
	m.selected = nil
	m.songCol.SetTitle("Songs")
	m.songCol.SetItems(nil)
}

// syncSongColumn keeps the song pane following the playlist cursor
func (m *Model) syncSongColumn() {
	if m.focus != panePlaylists || m.moveSong != nil {
		return
	}
	if item, ok := m.playlistCol.Selected(); ok {
		if m.selected == nil || m.selected.ID != item.ID {
			m.selectPlaylist(item.ID)
		}
	}
}

func (m *Model) refreshSongColumn() {
	if m.selected == nil {
		return
	}
	items := make([]components.Item, len(m.selected.Songs))
	for i, song := range m.selected.Songs {
		items[i] = components.Item{
			ID:        songItemID(song),
			Title:     song.DisplayTitle(),
			Subtitle:  song.Artist,
			Indicator: cacheIndicator(song),
		}
	}
	m.songCol.SetTitle(m.selected.Title)
	m.songCol.SetItems(items)
}

// selectedSong resolves the song under the song-column cursor
func (m Model) selectedSong() (domain.Song, bool) {
	idx, ok := m.songCol.SelectedIndex()
	if !ok {
		return domain.Song{}, false
	}
	if m.searchResults != nil {
		if idx >= len(m.searchResults) {
			return domain.Song{}, false
		}
		return m.searchResults[idx].Song, true
	}
	if m.selected == nil || idx >= len(m.selected.Songs) {
		return domain.Song{}, false
	}
	return m.selected.Songs[idx], true
}

func (m *Model) setFocus(p pane) {
	m.focus = p
	if p == panePlaylists {
		m.playlistCol.Focus()
		m.songCol.Blur()
	} else {
		m.playlistCol.Blur()
		m.songCol.Focus()
	}
}

func (m Model) focusedColumn() *components.ListColumn {
	if m.focus == panePlaylists {
		return m.playlistCol
	}
	return m.songCol
}

// setStatus shows a transient status message and schedules its expiry
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusMsg = text
	m.statusIsErr = isErr
	m.statusID++
	return ExpireStatusCmd(m.statusID)
}

func (m *Model) layout() {
	contentHeight := m.height - 1 // status bar
	if m.svc.Session.IsPlayerVisible() {
		contentHeight -= 3 // player bar with border
	}

	playlistWidth := m.width * PlaylistColumnPercent / 100
	if playlistWidth < MinColumnWidth {
		playlistWidth = MinColumnWidth
	}
	songWidth := m.width - playlistWidth

	m.playlistCol.SetSize(playlistWidth, contentHeight)
	m.songCol.SetSize(songWidth, contentHeight)
	m.playerBar.SetWidth(m.width)
}

// View renders the whole application
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	columns := lipgloss.JoinHorizontal(lipgloss.Top, m.playlistCol.View(), m.songCol.View())

	sections := []string{columns}
	if m.svc.Session.IsPlayerVisible() {
		sections = append(sections, m.playerBar.View())
	}
	sections = append(sections, m.statusBar())

	if m.inputModal.IsVisible() {
		return centerModal(m.inputModal.View(), m.width, m.height)
	}
	if m.confirm.IsVisible() {
		return centerModal(m.confirm.View(), m.width, m.height)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) statusBar() string {
	network := styles.ErrorStyle.Render("offline")
	if m.networkUp {
		network = styles.SuccessStyle.Render("connected")
		if m.networkAddr != "" {
			network += styles.DimStyle.Render(" " + shortAddr(m.networkAddr))
		}
	}

	status := m.statusMsg
	if status == "" {
		status = "n: new  r: rename  x: delete  m: move  d: download  f: search  b: player  q: quit"
	}
	style := styles.StatusBarStyle
	if m.statusIsErr {
		style = styles.ErrorStyle
	}

	left := style.Render(truncateStatus(status, m.width-20))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(network)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + network
}

// centerModal places a modal in the center of the screen
func centerModal(modal string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}

// songItemID builds a stable row ID from the song identity tuple
func songItemID(s domain.Song) string {
	return s.Xorname + "/" + s.FileName + "." + s.Extension
}

// cacheIndicator shows whether the song file is present locally
func cacheIndicator(s domain.Song) string {
	path, err := resolve.PlayablePath(s)
	if err != nil {
		return styles.UncachedDot
	}
	if _, err := os.Stat(path); err != nil {
		return styles.UncachedDot
	}
	return styles.CachedDot
}

func shortAddr(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

func truncateStatus(s string, width int) string {
	if width < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
