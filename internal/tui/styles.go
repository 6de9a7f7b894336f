package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ikari-pl/go-olap-memberselect/internal/tui/theme"
)

// styleManager implements the StyleManager interface on top of a theme.
type styleManager struct {
	theme  *theme.Theme
	styles *theme.Styles

	headerStyle  lipgloss.Style
	errorStyle   lipgloss.Style
	successStyle lipgloss.Style

	useNerdFonts bool
}

// NewStyleManager creates a StyleManager for the given theme. A nil theme
// uses the default.
func NewStyleManager(t *theme.Theme) StyleManager {
	if t == nil {
		t = theme.DefaultTheme()
	}
	s := theme.NewStyles(t)

	return &styleManager{
		theme:  t,
		styles: s,

		headerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(t.Surface).
			Bold(true).
			Padding(0, 1),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(t.Error).
			Bold(true).
			Padding(0, 1),

		successStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(t.Success).
			Bold(true).
			Padding(0, 1),
	}
}

// Header renders the title bar with an accent line below it.
func (s *styleManager) Header(text string, width int) string {
	if width <= 0 {
		width = 80
	}
	header := s.headerStyle.
		Width(width).
		Render(fmt.Sprintf("%s %s", s.Icons().Dimension, text))

	return header + "\n" + s.renderGradientLine(width)
}

// renderGradientLine draws an accent line in the theme colors.
func (s *styleManager) renderGradientLine(width int) string {
	var b strings.Builder
	colors := []lipgloss.Color{
		s.theme.Primary,
		s.theme.Secondary,
		s.theme.Tertiary,
	}

	segmentWidth := width / len(colors)
	for i, color := range colors {
		n := segmentWidth
		if i == len(colors)-1 {
			n = width - i*segmentWidth
		}
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▀", n)))
	}
	return b.String()
}

// Footer renders key hints written as "[key]action".
func (s *styleManager) Footer(text string) string {
	var rendered []string
	for _, part := range strings.Fields(text) {
		if strings.HasPrefix(part, "[") {
			if idx := strings.Index(part, "]"); idx > 0 {
				rendered = append(rendered,
					s.styles.KeyBinding.Render(part[1:idx])+s.styles.KeyLabel.Render(part[idx+1:]))
				continue
			}
		}
		rendered = append(rendered, s.styles.KeyLabel.Render(part))
	}
	return s.styles.Footer.Render(strings.Join(rendered, " "))
}

// Crumb renders one breadcrumb.
func (s *styleManager) Crumb(item PathItem, focused bool) string {
	switch {
	case focused:
		return s.styles.CrumbFocused.Render(item.DisplayName)
	case item.Header:
		return s.styles.CrumbHeader.Render(item.DisplayName)
	case item.Current:
		return s.styles.CrumbCurrent.Render(item.DisplayName)
	case item.Actionable:
		return s.styles.CrumbLevel.Render(item.DisplayName)
	default:
		return s.styles.Muted.Render(item.DisplayName)
	}
}

// CrumbSeparator renders the arrow between crumbs.
func (s *styleManager) CrumbSeparator() string {
	return s.styles.CrumbArrow.Render(" " + s.Icons().Arrow + " ")
}

// Error renders error text.
func (s *styleManager) Error(text string) string {
	return s.errorStyle.Render(s.Icons().Cross + " " + text)
}

// Success renders success text.
func (s *styleManager) Success(text string) string {
	return s.successStyle.Render(s.Icons().Check + " " + text)
}

// DimText renders text with dimmed/grayed out styling.
func (s *styleManager) DimText(text string) string {
	return s.styles.Muted.Render(text)
}

// Box renders text in a rounded box.
func (s *styleManager) Box(text string) string {
	return s.styles.Box.Render(text)
}

// Title renders a title.
func (s *styleManager) Title(text string) string {
	return s.styles.Title.Render(text)
}

// Subtitle renders a subtitle.
func (s *styleManager) Subtitle(text string) string {
	return s.styles.Subtitle.Render(text)
}

// Separator renders a visual separator line.
func (s *styleManager) Separator(width int) string {
	if width <= 0 {
		width = 60
	}
	return s.styles.Divider.Render(strings.Repeat("─", width))
}

// Icons returns the icon set in use.
func (s *styleManager) Icons() theme.IconSet {
	return theme.IconsFor(s.useNerdFonts)
}

// GetStyles returns the underlying theme styles.
func (s *styleManager) GetStyles() *theme.Styles {
	return s.styles
}

// GetTheme returns the underlying theme.
func (s *styleManager) GetTheme() *theme.Theme {
	return s.theme
}

// SetNerdFonts enables or disables Nerd Fonts icons.
func (s *styleManager) SetNerdFonts(enabled bool) {
	s.useNerdFonts = enabled
}
