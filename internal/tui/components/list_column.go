package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/jamsplayer/jams/internal/tui/styles"
)

// Layout constants for list columns
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Header and filter line each take 1 line
	HeaderLines = 2
)

// Item is a single renderable row in a list column.
type Item struct {
	ID        string
	Title     string
	Subtitle  string // rendered dimmed after the title
	Indicator string // pre-rendered glyph shown before the title
}

// itemSource adapts []Item to fuzzy.Source for in-column filtering.
type itemSource []Item

func (s itemSource) String(i int) string { return s[i].Title }
func (s itemSource) Len() int            { return len(s) }

// ListColumn is a scrollable, filterable list of items.
type ListColumn struct {
	items []Item
	title string

	// Selection
	cursor int
	offset int

	// Dimensions
	width   int
	height  int
	focused bool

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into items
}

// NewListColumn creates a new list column with the given title
func NewListColumn(title string) *ListColumn {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &ListColumn{
		title:       title,
		filterInput: ti,
	}
}

// SetItems replaces the column contents, clamping the cursor
func (c *ListColumn) SetItems(items []Item) {
	c.items = items
	c.applyFilter()
	if c.cursor >= c.visibleCount() {
		c.cursor = c.visibleCount() - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
	c.clampOffset()
}

// SetTitle updates the header text
func (c *ListColumn) SetTitle(title string) { c.title = title }

// SetSize updates the column dimensions
func (c *ListColumn) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.filterInput.Width = width - BorderWidth - 4
	c.clampOffset()
}

// Focus marks the column as the active pane
func (c *ListColumn) Focus() { c.focused = true }

// Blur marks the column as inactive
func (c *ListColumn) Blur() { c.focused = false }

// Focused reports whether this column is the active pane
func (c *ListColumn) Focused() bool { return c.focused }

// Selected returns the item under the cursor, or false when empty
func (c *ListColumn) Selected() (Item, bool) {
	idx, ok := c.selectedIndex()
	if !ok {
		return Item{}, false
	}
	return c.items[idx], true
}

// SelectedIndex returns the index into the unfiltered items
func (c *ListColumn) SelectedIndex() (int, bool) { return c.selectedIndex() }

func (c *ListColumn) selectedIndex() (int, bool) {
	if c.visibleCount() == 0 {
		return 0, false
	}
	if c.filterQuery != "" {
		return c.filteredIdx[c.cursor], true
	}
	return c.cursor, true
}

// SelectID moves the cursor to the item with the given ID if present
func (c *ListColumn) SelectID(id string) {
	for pos := 0; pos < c.visibleCount(); pos++ {
		idx := pos
		if c.filterQuery != "" {
			idx = c.filteredIdx[pos]
		}
		if c.items[idx].ID == id {
			c.cursor = pos
			c.clampOffset()
			return
		}
	}
}

// CursorUp moves the selection up one row
func (c *ListColumn) CursorUp() {
	if c.cursor > 0 {
		c.cursor--
	}
	c.clampOffset()
}

// CursorDown moves the selection down one row
func (c *ListColumn) CursorDown() {
	if c.cursor < c.visibleCount()-1 {
		c.cursor++
	}
	c.clampOffset()
}

// CursorHome jumps to the first row
func (c *ListColumn) CursorHome() {
	c.cursor = 0
	c.clampOffset()
}

// CursorEnd jumps to the last row
func (c *ListColumn) CursorEnd() {
	c.cursor = c.visibleCount() - 1
	if c.cursor < 0 {
		c.cursor = 0
	}
	c.clampOffset()
}

// StartFilter opens the in-column filter input
func (c *ListColumn) StartFilter() tea.Cmd {
	c.filterActive = true
	c.filterInput.SetValue("")
	return c.filterInput.Focus()
}

// FilterActive reports whether the filter input is capturing keys
func (c *ListColumn) FilterActive() bool { return c.filterActive }

// ClearFilter resets filtering entirely
func (c *ListColumn) ClearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filterInput.Blur()
	c.filterInput.SetValue("")
	c.applyFilter()
	c.cursor = 0
	c.offset = 0
}

// HasFilter reports whether a filter query is applied
func (c *ListColumn) HasFilter() bool { return c.filterQuery != "" }

// UpdateFilter feeds a message to the filter input while it is active.
// Enter commits the filter, esc clears it.
func (c *ListColumn) UpdateFilter(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			c.filterActive = false
			c.filterInput.Blur()
			return nil
		case "esc":
			c.ClearFilter()
			return nil
		}
	}

	var cmd tea.Cmd
	c.filterInput, cmd = c.filterInput.Update(msg)
	if q := c.filterInput.Value(); q != c.filterQuery {
		c.filterQuery = q
		c.applyFilter()
		c.cursor = 0
		c.offset = 0
	}
	return cmd
}

func (c *ListColumn) applyFilter() {
	if c.filterQuery == "" {
		c.filteredIdx = nil
		return
	}
	matches := fuzzy.FindFrom(c.filterQuery, itemSource(c.items))
	c.filteredIdx = make([]int, len(matches))
	for i, m := range matches {
		c.filteredIdx[i] = m.Index
	}
}

func (c *ListColumn) visibleCount() int {
	if c.filterQuery != "" {
		return len(c.filteredIdx)
	}
	return len(c.items)
}

func (c *ListColumn) maxVisible() int {
	rows := c.height - BorderHeight - HeaderLines
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (c *ListColumn) clampOffset() {
	maxVisible := c.maxVisible()
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+maxVisible {
		c.offset = c.cursor - maxVisible + 1
	}
	if c.offset < 0 {
		c.offset = 0
	}
}

// View renders the column
func (c *ListColumn) View() string {
	innerWidth := c.width - BorderWidth
	if innerWidth < 4 {
		innerWidth = 4
	}

	var b strings.Builder

	header := c.title
	if count := c.visibleCount(); count > 0 {
		header = fmt.Sprintf("%s (%d)", c.title, count)
	}
	b.WriteString(styles.TitleStyle.Render(truncate(header, innerWidth)))
	b.WriteString("\n")

	if c.filterActive || c.filterQuery != "" {
		b.WriteString(truncate(c.filterInput.View(), innerWidth))
	}
	b.WriteString("\n")

	maxVisible := c.maxVisible()
	count := c.visibleCount()
	for pos := c.offset; pos < count && pos < c.offset+maxVisible; pos++ {
		idx := pos
		if c.filterQuery != "" {
			idx = c.filteredIdx[pos]
		}
		b.WriteString(c.renderRow(c.items[idx], pos == c.cursor, innerWidth))
		if pos < count-1 && pos < c.offset+maxVisible-1 {
			b.WriteString("\n")
		}
	}

	if count == 0 {
		b.WriteString(styles.DimStyle.Render("  (empty)"))
	}

	border := styles.InactiveBorder
	if c.focused {
		border = styles.ActiveBorder
	}

	return border.
		Width(innerWidth).
		Height(c.height - BorderHeight).
		Render(b.String())
}

func (c *ListColumn) renderRow(item Item, selected bool, width int) string {
	line := item.Title
	if item.Subtitle != "" {
		line += "  " + item.Subtitle
	}

	prefix := "  "
	if item.Indicator != "" {
		prefix = item.Indicator + " "
	}

	if selected {
		text := truncate(line, width-2)
		if c.focused {
			return prefix + styles.HighlightStyle.Render(text)
		}
		return prefix + styles.TitleStyle.Render(text)
	}
	return prefix + styles.SubtitleStyle.Render(truncate(line, width-2))
}

// truncate cuts a string to width runes with an ellipsis
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width || width < 1 {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
