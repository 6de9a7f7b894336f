package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// filterDebounceMsg is delivered when the filter text has been idle for the
// debounce interval.
type filterDebounceMsg struct {
	id   int
	text string
}

// filterManager implements the FilterManager interface.
type filterManager struct {
	input      textinput.Model
	active     bool
	lastText   string
	debounce   time.Duration
	debounceID int
}

// NewFilterManager creates a new FilterManager. A zero debounce delivers
// every change immediately.
func NewFilterManager(debounce time.Duration) FilterManager {
	input := textinput.New()
	input.Placeholder = "[Dimension].[Hierarchy].[Member]..."
	input.CharLimit = 512
	input.Width = 50
	input.Prompt = ""
	input.Cursor.SetMode(cursor.CursorStatic)

	return &filterManager{
		input:    input,
		active:   false,
		debounce: debounce,
	}
}

// IsActive returns true if filtering is currently active.
func (fm *filterManager) IsActive() bool {
	return fm.active
}

// GetFilter returns the current filter input.
func (fm *filterManager) GetFilter() textinput.Model {
	return fm.input
}

// SetActive sets the filter active state.
func (fm *filterManager) SetActive(active bool) {
	fm.active = active
	if active {
		fm.input.Focus()
	} else {
		fm.input.Blur()
	}
}

// UpdateInput updates the filter input model and returns a command.
func (fm *filterManager) UpdateInput(msg tea.Msg) (tea.Cmd, bool) {
	var cmd tea.Cmd
	fm.input, cmd = fm.input.Update(msg)
	text := fm.input.Value()
	changed := text != fm.lastText
	fm.lastText = text
	if changed {
		fm.debounceID++
	}
	return cmd, changed
}

// ClearFilter clears the current filter. Pending debounced text is dropped.
func (fm *filterManager) ClearFilter() {
	fm.input.SetValue("")
	fm.lastText = ""
	fm.active = false
	fm.input.Blur()
	fm.debounceID++
}

// GetFilterText returns the current filter text.
func (fm *filterManager) GetFilterText() string {
	return fm.input.Value()
}

// SetFilterText sets the filter text.
func (fm *filterManager) SetFilterText(text string) {
	fm.input.SetValue(text)
	fm.lastText = text
}

// Debounce schedules delivery of the current text.
func (fm *filterManager) Debounce() tea.Cmd {
	if fm.debounce <= 0 {
		return nil
	}
	msg := filterDebounceMsg{id: fm.debounceID, text: fm.lastText}
	return tea.Tick(fm.debounce, func(time.Time) tea.Msg {
		return msg
	})
}

// Settled reports whether no keystroke arrived after msg was scheduled.
func (fm *filterManager) Settled(msg filterDebounceMsg) bool {
	return msg.id == fm.debounceID
}
