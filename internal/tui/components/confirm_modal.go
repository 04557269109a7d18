package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jamsplayer/jams/internal/tui/styles"
)

// ConfirmModal asks a yes/no question before a destructive action
type ConfirmModal struct {
	visible bool
	prompt  string
}

// NewConfirmModal creates a new confirm modal
func NewConfirmModal() ConfirmModal {
	return ConfirmModal{}
}

// Show displays the modal with a prompt
func (m *ConfirmModal) Show(prompt string) {
	m.visible = true
	m.prompt = prompt
}

// Hide dismisses the modal
func (m *ConfirmModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m ConfirmModal) IsVisible() bool {
	return m.visible
}

// Update handles key events, returns (modal, confirmed, dismissed)
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, bool, bool) {
	if !m.visible {
		return m, false, false
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, false, false
	}

	switch keyMsg.String() {
	case "y", "Y", "enter":
		m.Hide()
		return m, true, true
	case "n", "N", "esc":
		m.Hide()
		return m, false, true
	}
	return m, false, false
}

// View renders the confirm modal
func (m ConfirmModal) View() string {
	if !m.visible {
		return ""
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render(m.prompt),
		"",
		styles.DimStyle.Render("y: confirm   n/esc: cancel"),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Red).
		Background(styles.SlateDark).
		Padding(1, 2).
		Render(content)
}
