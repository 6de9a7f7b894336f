// Package tui provides the terminal user interface of the member selector:
// breadcrumbs, member list, filter box and loading indicator on top of a
// selector.Engine.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ikari-pl/go-olap-memberselect/internal/olap"
	"github.com/ikari-pl/go-olap-memberselect/internal/selector"
	"github.com/ikari-pl/go-olap-memberselect/internal/tui/theme"
)

// TUI provides the interactive selector.
type TUI interface {
	// Renderer returns the receiver of the engine's render events. The
	// engine passed to Run must be created with it.
	Renderer() selector.Renderer

	// Indicator returns the loading indicator the engine must be created with.
	Indicator() selector.LoadingIndicator

	// Run opens the selector and blocks until the user saves or cancels.
	// Cancelling returns ErrCancelled.
	Run(ctx context.Context, engine *selector.Engine) (selector.Selection, error)
}

// Navigator holds the breadcrumb trail and the crumb focus.
type Navigator interface {
	// SetTrail replaces the trail and its actionable flags.
	SetTrail(trail olap.Trail, actionable []bool)

	// GetPath returns the rendered breadcrumb items.
	GetPath() []PathItem

	// Focus moves focus to the last actionable crumb. It reports false when
	// no crumb is actionable.
	Focus() bool

	// Blur removes crumb focus.
	Blur()

	// IsFocused returns true while a crumb has focus.
	IsFocused() bool

	// Next moves focus to the next actionable crumb.
	Next()

	// Prev moves focus to the previous actionable crumb.
	Prev()

	// Selected returns the trail index of the focused crumb, or -1.
	Selected() int

	// RenderPath renders the trail.
	RenderPath(styles StyleManager) string
}

// StyleManager provides consistent styling across the TUI.
type StyleManager interface {
	// Header renders a header with the given text.
	Header(text string, width int) string

	// Footer renders a footer of "[key]action" hints.
	Footer(text string) string

	// Crumb renders one breadcrumb entry.
	Crumb(item PathItem, focused bool) string

	// CrumbSeparator renders the separator between crumbs.
	CrumbSeparator() string

	// Error renders error text.
	Error(text string) string

	// Success renders success text.
	Success(text string) string

	// DimText renders text with dimmed/grayed out styling.
	DimText(text string) string

	// Box renders text in a box.
	Box(text string) string

	// Title renders a title.
	Title(text string) string

	// Subtitle renders a subtitle.
	Subtitle(text string) string

	// Separator renders a visual separator.
	Separator(width int) string

	// Icons returns the icon set in use.
	Icons() theme.IconSet

	// GetStyles returns the underlying theme styles.
	GetStyles() *theme.Styles

	// GetTheme returns the underlying theme.
	GetTheme() *theme.Theme

	// SetNerdFonts enables or disables Nerd Fonts.
	SetNerdFonts(enabled bool)
}

// FilterManager handles the unique-name filter box.
type FilterManager interface {
	// IsActive returns true if the filter box has focus.
	IsActive() bool

	// GetFilter returns the current filter input.
	GetFilter() textinput.Model

	// SetActive sets the filter active state.
	SetActive(active bool)

	// UpdateInput updates the filter input model. changed reports whether
	// the text differs from before.
	UpdateInput(msg tea.Msg) (cmd tea.Cmd, changed bool)

	// ClearFilter clears the text and removes focus.
	ClearFilter()

	// GetFilterText returns the current filter text.
	GetFilterText() string

	// SetFilterText sets the filter text.
	SetFilterText(text string)

	// Debounce returns a command delivering the current text once the
	// input has been idle for the debounce interval, or nil when debouncing
	// is disabled.
	Debounce() tea.Cmd

	// Settled reports whether msg carries the latest filter text.
	Settled(msg filterDebounceMsg) bool
}
