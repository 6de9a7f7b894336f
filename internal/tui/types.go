package tui

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"

	"github.com/ikari-pl/go-olap-memberselect/internal/olap"
	"github.com/ikari-pl/go-olap-memberselect/internal/selector"
)

// ErrCancelled is returned by Run when the user leaves without saving.
var ErrCancelled = errors.New("selection cancelled")

// Options configures a TUI session.
type Options struct {
	// PriorUniqueName and PriorTrail resume a previously committed
	// selection. Empty starts a new one.
	PriorUniqueName string
	PriorTrail      []string

	// FilterDebounce delays filter lookups until typing pauses.
	FilterDebounce time.Duration

	Theme     string
	NerdFonts bool
	AltScreen bool
}

// PathItem represents a single breadcrumb.
type PathItem struct {
	Index       int    // Position in the trail
	Label       string // Trail entry
	DisplayName string // Short name for display
	Header      bool   // Dimension or hierarchy entry
	Actionable  bool   // Clicking navigates back to this level
	Current     bool   // Last entry
}

// ListItem represents a member in the list.
type ListItem struct {
	Row olap.MemberRow
}

// FilterValue implements list.Item interface.
func (li ListItem) FilterValue() string {
	return li.Row.DisplayText() + " " + li.Row.UniqueName
}

// Title implements list.Item interface.
func (li ListItem) Title() string {
	return truncate(li.Row.DisplayText(), MaxDisplayNameLength)
}

// truncate shortens s to at most limit runes, the last of them an ellipsis.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-len(EllipsisString)]) + EllipsisString
}

// Description implements list.Item interface.
func (li ListItem) Description() string {
	if level := li.Row.LevelLabel(); level != "" {
		return level + " │ " + li.Row.UniqueName
	}
	return li.Row.UniqueName
}

// display receives the engine's render events. The model copies them into
// its components after every engine call.
type display struct {
	trail      olap.Trail
	actionable []bool
	rows       []olap.MemberRow
	level      string
	loading    bool
	version    int
}

var (
	_ selector.Renderer         = (*display)(nil)
	_ selector.LoadingIndicator = (*display)(nil)
)

func (d *display) RenderBreadcrumbs(trail olap.Trail, actionable []bool) {
	d.trail = trail
	d.actionable = actionable
	d.version++
}

func (d *display) RenderMembers(rows []olap.MemberRow) {
	d.rows = rows
	d.version++
}

func (d *display) RenderSelectedLevel(label string) {
	d.level = label
	d.version++
}

func (d *display) Show() { d.loading = true }
func (d *display) Hide() { d.loading = false }

// Constants for display limits.
const (
	MaxDisplayNameLength = 75
	MaxCrumbLength       = 24
	EllipsisString       = "..."
)

// StatusType constants
const (
	StatusInfo    = "info"
	StatusSuccess = "success"
	StatusWarning = "warning"
	StatusError   = "error"
)

// keyMap holds the selector key bindings.
type keyMap struct {
	DrillIn    key.Binding
	CrumbFocus key.Binding
	CrumbPrev  key.Binding
	CrumbNext  key.Binding
	Filter     key.Binding
	Back       key.Binding
	Save       key.Binding
	Clear      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		DrillIn: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Drill into member / open crumb"),
		),
		CrumbFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Focus breadcrumbs"),
		),
		CrumbPrev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "Previous crumb"),
		),
		CrumbNext: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "Next crumb"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Jump to unique name"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Leave filter or crumbs / cancel"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s", "a"),
			key.WithHelp("a", "Add selected member"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+r", "c"),
			key.WithHelp("c", "Clear selection"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Cancel"),
		),
	}
}

// HelpSection represents a section in the help view.
type HelpSection struct {
	Title    string
	Bindings []KeyBinding
}

// KeyBinding represents a keyboard shortcut.
type KeyBinding struct {
	Key         string
	Description string
}

func helpFor(bindings ...key.Binding) []KeyBinding {
	out := make([]KeyBinding, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, KeyBinding{Key: h.Key, Description: h.Desc})
	}
	return out
}

// DefaultKeyBindings returns the help sections for the default key map.
func DefaultKeyBindings() []HelpSection {
	km := defaultKeyMap()
	return []HelpSection{
		{
			Title: "Members",
			Bindings: append(
				[]KeyBinding{{Key: "j/↓ k/↑", Description: "Move"}},
				helpFor(km.DrillIn, km.Filter)...,
			),
		},
		{
			Title:    "Breadcrumbs",
			Bindings: helpFor(km.CrumbFocus, km.CrumbPrev, km.CrumbNext),
		},
		{
			Title:    "Selection",
			Bindings: helpFor(km.Save, km.Clear, km.Back, km.Help, km.Quit),
		},
	}
}
