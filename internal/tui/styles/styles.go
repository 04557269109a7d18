package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	JamsPurple = lipgloss.Color("#A78BFA")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#3B82F6")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(JamsPurple)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(JamsPurple)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(JamsPurple).
			Padding(0, 1)

	FilterPromptStyle = lipgloss.NewStyle().Foreground(JamsPurple)
	FilterStyle       = lipgloss.NewStyle().Foreground(White)
)

// Player glyphs
const (
	PlayingChar  = "▶"
	PausedChar   = "⏸"
	CachedChar   = "●"
	UncachedChar = "○"
)

// Song cache indicator styles
var (
	CachedStyle   = lipgloss.NewStyle().Foreground(Green)
	UncachedStyle = lipgloss.NewStyle().Foreground(DimGray)
)

// Pre-rendered cache indicators
var (
	CachedDot   = CachedStyle.Render(CachedChar)
	UncachedDot = UncachedStyle.Render(UncachedChar)
)

// Panel styles
var (
	PlayerBarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SlateLight).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(LightGray)
)
