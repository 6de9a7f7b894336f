// Package theme provides the color palettes and styles of the member
// selector.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents the complete visual theme for the application.
type Theme struct {
	// Base colors
	Base    lipgloss.Color
	Surface lipgloss.Color
	Overlay lipgloss.Color
	Muted   lipgloss.Color
	Subtle  lipgloss.Color
	Text    lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Tertiary  lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Navigation colors
	Header lipgloss.Color
	Level  lipgloss.Color
	Member lipgloss.Color

	// UI element colors
	Border    lipgloss.Color
	Selection lipgloss.Color
	Highlight lipgloss.Color
}

// DefaultTheme returns the default dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		Base:    lipgloss.Color("#0d1117"),
		Surface: lipgloss.Color("#161b22"),
		Overlay: lipgloss.Color("#21262d"),
		Muted:   lipgloss.Color("#484f58"),
		Subtle:  lipgloss.Color("#6e7681"),
		Text:    lipgloss.Color("#e6edf3"),

		Primary:   lipgloss.Color("#58a6ff"),
		Secondary: lipgloss.Color("#bc8cff"),
		Tertiary:  lipgloss.Color("#79c0ff"),

		Success: lipgloss.Color("#3fb950"),
		Warning: lipgloss.Color("#d29922"),
		Error:   lipgloss.Color("#f85149"),
		Info:    lipgloss.Color("#58a6ff"),

		Header: lipgloss.Color("#6e7681"),
		Level:  lipgloss.Color("#a371f7"),
		Member: lipgloss.Color("#7ee787"),

		Border:    lipgloss.Color("#30363d"),
		Selection: lipgloss.Color("#388bfd"),
		Highlight: lipgloss.Color("#1f6feb"),
	}
}

// NeonTheme returns a vibrant neon theme.
func NeonTheme() *Theme {
	return &Theme{
		Base:    lipgloss.Color("#0a0a0f"),
		Surface: lipgloss.Color("#12121a"),
		Overlay: lipgloss.Color("#1a1a24"),
		Muted:   lipgloss.Color("#3a3a4a"),
		Subtle:  lipgloss.Color("#5a5a6a"),
		Text:    lipgloss.Color("#f0f0f5"),

		Primary:   lipgloss.Color("#00ffff"),
		Secondary: lipgloss.Color("#ff00ff"),
		Tertiary:  lipgloss.Color("#00ff88"),

		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0055"),
		Info:    lipgloss.Color("#00ffff"),

		Header: lipgloss.Color("#5a5a6a"),
		Level:  lipgloss.Color("#ff00ff"),
		Member: lipgloss.Color("#00ff88"),

		Border:    lipgloss.Color("#2a2a3a"),
		Selection: lipgloss.Color("#00ffff"),
		Highlight: lipgloss.Color("#0088aa"),
	}
}

// ByName returns the named theme. Unknown names fall back to the default.
func ByName(name string) *Theme {
	switch strings.ToLower(name) {
	case "neon":
		return NeonTheme()
	default:
		return DefaultTheme()
	}
}

// Styles holds all pre-configured styles for the UI.
type Styles struct {
	theme *Theme

	// Layout styles
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Component styles
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style

	// List styles
	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style

	// Breadcrumb styles
	CrumbHeader  lipgloss.Style
	CrumbLevel   lipgloss.Style
	CrumbCurrent lipgloss.Style
	CrumbFocused lipgloss.Style
	CrumbArrow   lipgloss.Style

	// Status styles
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style

	// Special styles
	Spinner    lipgloss.Style
	KeyBinding lipgloss.Style
	KeyLabel   lipgloss.Style
	Divider    lipgloss.Style
	Box        lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	s := &Styles{theme: theme}

	s.Header = lipgloss.NewStyle().
		Foreground(theme.Text).
		Background(theme.Surface).
		Bold(true).
		Padding(0, 1)

	s.Footer = lipgloss.NewStyle().
		Foreground(theme.Subtle).
		Padding(0, 1)

	s.Content = lipgloss.NewStyle().
		Padding(0, 1)

	s.Title = lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true)

	s.Subtitle = lipgloss.NewStyle().
		Foreground(theme.Subtle).
		Italic(true)

	s.Label = lipgloss.NewStyle().
		Foreground(theme.Muted)

	s.Value = lipgloss.NewStyle().
		Foreground(theme.Text)

	s.ListItem = lipgloss.NewStyle().
		Foreground(theme.Text).
		Padding(0, 1)

	s.ListItemSelected = lipgloss.NewStyle().
		Foreground(theme.Text).
		Background(theme.Selection).
		Bold(true).
		Padding(0, 1)

	s.CrumbHeader = lipgloss.NewStyle().
		Foreground(theme.Header).
		Italic(true)

	s.CrumbLevel = lipgloss.NewStyle().
		Foreground(theme.Level).
		Underline(true)

	s.CrumbCurrent = lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true)

	s.CrumbFocused = lipgloss.NewStyle().
		Foreground(theme.Base).
		Background(theme.Level).
		Bold(true)

	s.CrumbArrow = lipgloss.NewStyle().
		Foreground(theme.Muted)

	s.Success = lipgloss.NewStyle().
		Foreground(theme.Success)

	s.Warning = lipgloss.NewStyle().
		Foreground(theme.Warning)

	s.Error = lipgloss.NewStyle().
		Foreground(theme.Error)

	s.Info = lipgloss.NewStyle().
		Foreground(theme.Info)

	s.Muted = lipgloss.NewStyle().
		Foreground(theme.Muted)

	s.Spinner = lipgloss.NewStyle().
		Foreground(theme.Primary)

	s.KeyBinding = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	s.KeyLabel = lipgloss.NewStyle().
		Foreground(theme.Subtle)

	s.Divider = lipgloss.NewStyle().
		Foreground(theme.Border)

	s.Box = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	return s
}

// GetTheme returns the underlying theme.
func (s *Styles) GetTheme() *Theme {
	return s.theme
}

// IconSet names the glyphs used by the selector.
type IconSet struct {
	Member    string
	Leaf      string
	Level     string
	Arrow     string
	Search    string
	Check     string
	Cross     string
	Dimension string
	Hierarchy string
}

// Icons uses Nerd Font glyphs.
var Icons = IconSet{
	Member:    "\U000f0256",
	Leaf:      "\U000f0765",
	Level:     "\U000f0328",
	Arrow:     "›",
	Search:    "\U000f0349",
	Check:     "✓",
	Cross:     "✗",
	Dimension: "\U000f01a7",
	Hierarchy: "\U000f0645",
}

// FallbackIcons are used when Nerd Fonts aren't available.
var FallbackIcons = IconSet{
	Member:    "▸",
	Leaf:      "•",
	Level:     "≡",
	Arrow:     "›",
	Search:    "/",
	Check:     "✓",
	Cross:     "✗",
	Dimension: "◆",
	Hierarchy: "◇",
}

// IconsFor returns the icon set for the font capability.
func IconsFor(nerdFonts bool) IconSet {
	if nerdFonts {
		return Icons
	}
	return FallbackIcons
}
