package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ikari-pl/go-olap-memberselect/internal/olap"
	"github.com/ikari-pl/go-olap-memberselect/internal/selector"
	"github.com/ikari-pl/go-olap-memberselect/internal/tui/theme"
)

// Layout rows outside the member list: header (2), breadcrumbs, level,
// filter, status, footer and spacing.
const chromeHeight = 9

// fetchedMsg carries a resolved catalog request back to the event loop.
type fetchedMsg struct {
	resp selector.Response
}

// tui implements the TUI interface.
type tui struct {
	logger  *slog.Logger
	opts    Options
	styles  StyleManager
	display *display
	output  io.Writer
}

// NewTUI creates a new TUI instance.
func NewTUI(logger *slog.Logger, opts Options) TUI {
	if logger == nil {
		logger = slog.Default()
	}
	styles := NewStyleManager(theme.ByName(opts.Theme))
	styles.SetNerdFonts(opts.NerdFonts)

	return &tui{
		logger:  logger,
		opts:    opts,
		styles:  styles,
		display: &display{},
		output:  os.Stderr,
	}
}

// Renderer returns the receiver of the engine's render events.
func (t *tui) Renderer() selector.Renderer {
	return t.display
}

// Indicator returns the loading indicator.
func (t *tui) Indicator() selector.LoadingIndicator {
	return t.display
}

// Run opens the selector and blocks until the user saves or cancels. The UI
// draws on stderr so stdout stays free for the result.
func (t *tui) Run(ctx context.Context, engine *selector.Engine) (selector.Selection, error) {
	if engine == nil {
		return selector.Selection{}, fmt.Errorf("engine cannot be nil")
	}

	m := newModel(ctx, engine, t.display, t.styles, NewFilterManager(t.opts.FilterDebounce), t.logger)
	m.open(t.opts.PriorUniqueName, t.opts.PriorTrail)

	progOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(t.output)}
	if t.opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(m, progOpts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return selector.Selection{}, ctxErr
		}
		return selector.Selection{}, fmt.Errorf("failed to run TUI: %w", err)
	}

	if fm, ok := final.(*model); ok && fm.result != nil {
		return *fm.result, nil
	}
	return selector.Selection{}, ErrCancelled
}

// model is the bubbletea model of a selector session.
type model struct {
	ctx       context.Context
	engine    *selector.Engine
	display   *display
	synced    int
	navigator Navigator
	styles    StyleManager
	filter    FilterManager
	keys      keyMap
	list      list.Model
	spinner   spinner.Model
	logger    *slog.Logger

	width      int
	height     int
	showHelp   bool
	status     string
	statusType string

	initial tea.Cmd
	result  *selector.Selection
}

func newModel(ctx context.Context, engine *selector.Engine, d *display, styles StyleManager, filter FilterManager, logger *slog.Logger) *model {
	th := styles.GetTheme()

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(th.Text).
		BorderForeground(th.Member).
		Bold(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(th.Subtle).
		BorderForeground(th.Member)

	listModel := list.New(nil, delegate, 80, 20)
	listModel.SetShowTitle(false)
	listModel.SetShowStatusBar(true)
	listModel.SetStatusBarItemName("member", "members")
	listModel.SetFilteringEnabled(false)
	listModel.SetShowHelp(false)
	listModel.KeyMap.Quit.SetEnabled(false)
	listModel.KeyMap.ForceQuit.SetEnabled(false)

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.GetStyles().Spinner),
	)

	return &model{
		ctx:       ctx,
		engine:    engine,
		display:   d,
		navigator: NewNavigator(),
		styles:    styles,
		filter:    filter,
		keys:      defaultKeyMap(),
		list:      listModel,
		spinner:   spin,
		logger:    logger,
		width:     80,
		height:    30,
	}
}

// open starts the engine session; the first request is sent from Init. A
// resumed member is shown in the filter box without triggering a lookup.
func (m *model) open(priorUniqueName string, priorTrail []string) {
	m.filter.SetFilterText(priorUniqueName)
	m.initial = m.issue(m.engine.Open(priorUniqueName, priorTrail))
}

// Init initializes the model.
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.initial)
}

// Update handles messages and updates the model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)
		return m, nil

	case fetchedMsg:
		return m, m.issue(m.engine.Apply(msg.resp))

	case filterDebounceMsg:
		if !m.filter.Settled(msg) {
			return m, nil
		}
		return m, m.issue(m.engine.FilterChange(msg.text))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// issue syncs the view with the engine and resolves req in the background.
func (m *model) issue(req selector.Request, ok bool) tea.Cmd {
	m.sync()
	if !ok {
		return nil
	}
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		return fetchedMsg{resp: engine.Resolve(ctx, req)}
	}
}

// sync copies the latest render events into the components.
func (m *model) sync() {
	if m.synced == m.display.version {
		return
	}
	m.synced = m.display.version

	m.navigator.SetTrail(m.display.trail, m.display.actionable)
	items := make([]list.Item, len(m.display.rows))
	for i, r := range m.display.rows {
		items[i] = ListItem{Row: r}
	}
	m.list.SetItems(items)
	m.list.ResetSelected()
}

// handleWindowResize handles window resize messages.
func (m *model) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	listHeight := msg.Height - chromeHeight
	if listHeight < 5 {
		listHeight = 5
	}
	m.list.SetSize(msg.Width-2, listHeight)
}

// handleKeyPress handles key press messages.
func (m *model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.setStatus("", "")

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.filter.IsActive() {
		switch msg.String() {
		case "esc", "enter", "tab", "up", "down":
			m.filter.SetActive(false)
			return m, nil
		}
		cmd, changed := m.filter.UpdateInput(msg)
		if !changed {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.filterChanged())
	}

	if m.navigator.IsFocused() {
		switch {
		case key.Matches(msg, m.keys.CrumbPrev):
			m.navigator.Prev()
			return m, nil
		case key.Matches(msg, m.keys.CrumbNext):
			m.navigator.Next()
			return m, nil
		case key.Matches(msg, m.keys.DrillIn):
			i := m.navigator.Selected()
			if path := m.navigator.GetPath(); i >= 0 && i < len(path) {
				m.logger.Debug("crumb selected", "index", i, "label", path[i].Label)
			}
			m.navigator.Blur()
			m.filter.ClearFilter()
			return m, m.issue(m.engine.CrumbClick(i))
		case key.Matches(msg, m.keys.Back, m.keys.CrumbFocus):
			m.navigator.Blur()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit, m.keys.Back):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.navigator.Blur()
		m.filter.SetActive(true)
		return m, nil

	case key.Matches(msg, m.keys.CrumbFocus):
		if !m.navigator.Focus() {
			m.setStatus("No level to go back to", StatusInfo)
		}
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m.handleSave()

	case key.Matches(msg, m.keys.Clear):
		m.navigator.Blur()
		m.filter.ClearFilter()
		m.setStatus("Selection cleared", StatusSuccess)
		return m, m.issue(m.engine.Clear())

	case key.Matches(msg, m.keys.DrillIn):
		item, ok := m.list.SelectedItem().(ListItem)
		if !ok {
			return m, nil
		}
		m.filter.ClearFilter()
		return m, m.issue(m.engine.DrillIn(item.Row.UniqueName))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// filterChanged debounces the filter text or looks it up right away.
func (m *model) filterChanged() tea.Cmd {
	if cmd := m.filter.Debounce(); cmd != nil {
		return cmd
	}
	return m.issue(m.engine.FilterChange(m.filter.GetFilterText()))
}

// handleSave commits the selection and quits on success.
func (m *model) handleSave() (tea.Model, tea.Cmd) {
	sel, err := m.engine.Commit()
	if err != nil {
		var verr *selector.ValidationError
		if errors.As(err, &verr) {
			m.setStatus(verr.Message, StatusWarning)
		} else {
			m.setStatus(err.Error(), StatusError)
		}
		return m, nil
	}
	m.result = &sel
	return m, tea.Quit
}

func (m *model) setStatus(text, statusType string) {
	m.status = text
	m.statusType = statusType
}

// View renders the current view.
func (m *model) View() string {
	var b strings.Builder
	coords := m.engine.Coordinates()
	icons := m.styles.Icons()

	b.WriteString(m.styles.Header(fmt.Sprintf("Select member %s %s", icons.Arrow, coordinatesTitle(coords)), m.width))
	b.WriteString("\n")
	b.WriteString(" " + m.navigator.RenderPath(m.styles))
	b.WriteString("\n")
	if m.display.level != "" {
		b.WriteString(" " + m.styles.DimText("Level:") + " " + m.styles.Subtitle(m.display.level))
	}
	b.WriteString("\n")
	b.WriteString(" " + m.styles.DimText(icons.Search) + " " + m.filter.GetFilter().View())
	b.WriteString("\n")
	b.WriteString(m.styles.Separator(m.width))
	b.WriteString("\n")

	switch {
	case m.showHelp:
		b.WriteString(m.renderHelp())
	case m.display.loading && len(m.list.Items()) == 0:
		b.WriteString(" " + m.spinner.View() + " " + m.styles.DimText("Loading members..."))
	case len(m.list.Items()) == 0:
		b.WriteString(" " + m.styles.DimText("Nothing to show"))
	default:
		b.WriteString(m.list.View())
	}
	b.WriteString("\n")

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.styles.Footer("[enter]drill [tab]crumbs [/]jump [a]add [c]clear [?]help [q]cancel"))
	return b.String()
}

func (m *model) renderStatus() string {
	switch {
	case m.status != "" && (m.statusType == StatusError || m.statusType == StatusWarning):
		return m.styles.Error(m.status)
	case m.status != "" && m.statusType == StatusSuccess:
		return m.styles.Success(m.status)
	case m.status != "":
		return " " + m.styles.DimText(m.status)
	case m.display.loading:
		return " " + m.spinner.View() + m.styles.DimText("Loading...")
	}
	return ""
}

func (m *model) renderHelp() string {
	var sections []string
	st := m.styles.GetStyles()
	for _, section := range DefaultKeyBindings() {
		lines := []string{m.styles.Title(section.Title)}
		for _, kb := range section.Bindings {
			lines = append(lines, fmt.Sprintf("  %s  %s",
				st.KeyBinding.Width(10).Render(kb.Key),
				st.KeyLabel.Render(kb.Description)))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	return m.styles.Box(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func coordinatesTitle(c olap.Coordinates) string {
	return c.Cube + " " + olap.Bracket(c.Dimension, c.Hierarchy)
}
