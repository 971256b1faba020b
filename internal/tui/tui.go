package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/riskview/riskview/internal/analysis"
	"github.com/riskview/riskview/internal/config"
	"github.com/riskview/riskview/internal/model"
	"github.com/riskview/riskview/internal/tui/theme"
)

// tui implements the TUI interface.
type tui struct {
	logger *slog.Logger
}

// NewTUI creates a new TUI instance.
func NewTUI(logger *slog.Logger) TUI {
	return &tui{logger: logger}
}

// Run starts the TUI with the given model and blocks until the user exits.
func (t *tui) Run(ctx context.Context, graph *model.Graph, settings *config.Settings, engine analysis.Engine) error {
	if graph == nil {
		return fmt.Errorf("model graph cannot be nil")
	}

	m := newAppModel(ctx, t.logger, graph, settings, engine)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// inputMode selects what the text input captures.
type inputMode int

const (
	modeNormal inputMode = iota
	modeFilter
	modeZoom
)

// analysisMsg delivers the runner's completion into the update loop.
type analysisMsg analysis.Completion

const sidebarWidth = 36

// appModel is the bubbletea application model. All state transitions
// happen inside Update; the only other goroutine is the analysis run,
// whose completion arrives as an analysisMsg.
type appModel struct {
	ctx      context.Context
	logger   *slog.Logger
	styles   *theme.Styles
	graph    *model.Graph
	settings *config.Settings
	engine   analysis.Engine
	runner   *analysis.Runner

	asserts  *InvariantPolicy
	registry *ActionRegistry
	catalog  *ResultCatalog
	nav      *Navigator
	host     *ViewHost
	zoom     *ZoomController
	input    *filterInput
	mode     inputMode

	results *analysis.ResultSet
	waiting bool
	status  string

	width  int
	height int
}

func newAppModel(ctx context.Context, logger *slog.Logger, graph *model.Graph, settings *config.Settings, engine analysis.Engine) *appModel {
	registry := NewActionRegistry(logger)
	asserts := NewInvariantPolicy(logger, settings.StrictAsserts)
	catalog := NewResultCatalog(logger, registry, asserts)
	host := NewViewHost(logger)
	zoom := NewZoomController(logger)
	host.Subscribe(zoom)

	nav := NewNavigator()
	nav.SetTree(catalog.Rebuild(graph, nil))

	return &appModel{
		ctx:      ctx,
		logger:   logger,
		styles:   theme.NewStyles(theme.DefaultTheme()),
		graph:    graph,
		settings: settings,
		engine:   engine,
		runner:   analysis.NewRunner(logger),
		asserts:  asserts,
		registry: registry,
		catalog:  catalog,
		nav:      nav,
		host:     host,
		zoom:     zoom,
		input:    newFilterInput("filter entries..."),
		status:   fmt.Sprintf("loaded %s: press R to run the analysis", graph.Name),
		width:    80,
		height:   24,
	}
}

// Init initializes the model.
func (m *appModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case analysisMsg:
		m.applyCompletion(analysis.Completion(msg))

	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	}

	if violation := m.asserts.TakeViolation(); violation != "" {
		m.status = violation
	}
	return m, cmd
}

// applyCompletion swaps in a new result generation. The registry is
// invalidated inside Rebuild before the new tree is populated; open
// views stay open.
func (m *appModel) applyCompletion(c analysis.Completion) {
	m.waiting = false
	if c.Err != nil {
		m.status = "analysis failed: " + c.Err.Error()
		return
	}
	m.results = c.Results
	m.nav.SetTree(m.catalog.Rebuild(m.graph, m.results))
	m.status = fmt.Sprintf("analysis complete: %d result(s) in %s",
		len(c.Results.Results), c.Elapsed.Round(time.Millisecond))
}

func (m *appModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	// The wait overlay is modal: no cancellation, Esc included.
	if m.waiting {
		return nil
	}

	switch m.mode {
	case modeFilter:
		return m.handleFilterKey(msg)
	case modeZoom:
		return m.handleZoomKey(msg)
	}

	switch msg.String() {
	case "q":
		return tea.Quit

	case "up", "k":
		m.nav.MoveUp()
	case "down", "j":
		m.nav.MoveDown()
	case " ":
		m.nav.Toggle()

	case "enter":
		m.activateSelection()

	case "R":
		return m.startAnalysis()

	case "tab", "]":
		m.cycleView(1)
	case "shift+tab", "[":
		m.cycleView(-1)

	case "w":
		if err := m.host.CloseCurrent(); err == nil {
			m.status = "view closed"
		}

	case "+", "=":
		m.zoom.ZoomIn()
	case "-":
		m.zoom.ZoomOut()
	case "f":
		m.zoom.FitCurrent(m.contentSize())
	case "z":
		if m.zoom.Active() {
			m.mode = modeZoom
			m.input.Clear()
			m.input.SetActive(true)
		}

	case "/":
		m.mode = modeFilter
		m.input.Clear()
		m.input.SetActive(true)

	case "S":
		if err := m.graph.Save(); err != nil {
			m.status = err.Error()
		}
	}
	return nil
}

func (m *appModel) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.input.Clear()
		m.nav.SetFilter("")
		m.mode = modeNormal
		return nil
	case "enter":
		m.input.SetActive(false)
		m.mode = modeNormal
		return nil
	}
	cmd := m.input.Update(msg)
	m.nav.SetFilter(m.input.Value())
	return cmd
}

func (m *appModel) handleZoomKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.input.Clear()
		m.mode = modeNormal
		return nil
	case "enter":
		if err := m.zoom.SetZoom(m.input.Value()); err != nil {
			m.status = err.Error()
		}
		m.input.Clear()
		m.mode = modeNormal
		return nil
	}
	return m.input.Update(msg)
}

// activateSelection materializes the view behind the selected node, or
// toggles a branch without an action.
func (m *appModel) activateSelection() {
	node := m.nav.Selected()
	if node == nil {
		return
	}
	if node.ActionID == "" {
		m.nav.Toggle()
		return
	}

	build, ok := m.registry.Lookup(node.ActionID)
	if !ok {
		m.asserts.Fail("navigation node %s has no registered action", node.ActionID)
		return
	}
	view, err := build()
	if err != nil {
		m.status = err.Error()
		return
	}
	m.host.Add(view)
	m.status = "opened " + view.Title
}

func (m *appModel) startAnalysis() tea.Cmd {
	m.waiting = true
	ch := m.runner.Start(m.ctx, m.engine, m.graph, m.settings)
	return func() tea.Msg {
		return analysisMsg(<-ch)
	}
}

func (m *appModel) cycleView(delta int) {
	views := m.host.Views()
	if len(views) == 0 {
		return
	}
	idx := m.host.CurrentIndex()
	if idx < 0 {
		idx = 0
	} else {
		idx = ((idx+delta)%len(views) + len(views)) % len(views)
	}
	_ = m.host.ActivateIndex(idx)
}

func (m *appModel) contentSize() (w, h int) {
	return m.width - sidebarWidth - 2, m.height - 4
}

// View renders the application.
func (m *appModel) View() string {
	if m.waiting {
		overlay := m.styles.Overlay.Render("Analyzing model...\n\nplease wait")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
	}

	header := m.styles.Header.Width(m.width).Render("riskview · " + m.graph.Name)

	bodyHeight := m.height - 4
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	sidebar := m.styles.Sidebar.
		Width(sidebarWidth).
		Height(bodyHeight).
		Render(m.renderNav(bodyHeight))

	contentW, _ := m.contentSize()
	content := m.styles.Content.
		Width(contentW).
		Height(bodyHeight).
		Render(m.renderTabs(contentW) + "\n" + renderView(m.styles, m.host.Current()))

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)

	return strings.Join([]string{header, body, m.renderStatus()}, "\n")
}

func (m *appModel) renderNav(maxRows int) string {
	var b strings.Builder

	if m.mode == modeFilter {
		b.WriteString("/" + m.input.View() + "\n")
		maxRows--
	}

	rows := m.nav.Rows()
	for i, row := range rows {
		if i >= maxRows-1 {
			b.WriteString(m.styles.Muted.Render("..."))
			break
		}
		line := strings.Repeat("  ", row.depth) + navMarker(row.node) + row.node.Title

		style := m.styles.NavItem
		if row.node.ActionID == "" && len(row.node.Children) == 0 {
			style = m.styles.NavItemInert
		}
		if i == m.nav.Cursor() {
			style = m.styles.NavItemSelected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func navMarker(node *NavNode) string {
	if len(node.Children) > 0 {
		return "▸ "
	}
	return "  "
}

func (m *appModel) renderTabs(width int) string {
	views := m.host.Views()
	if len(views) == 0 {
		return m.styles.Muted.Render("(no open views)")
	}

	var tabs []string
	current := m.host.Current()
	for _, v := range views {
		style := m.styles.Tab
		if v == current {
			style = m.styles.TabActive
		}
		tabs = append(tabs, style.Render(v.Title))
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if lipgloss.Width(line) > width {
		line = ansi.Truncate(line, width, "")
	}
	return line
}

func (m *appModel) renderStatus() string {
	left := m.status
	right := ""
	if m.zoom.Active() {
		if m.mode == modeZoom {
			right = "zoom: " + m.input.View()
		} else {
			right = fmt.Sprintf("zoom: %d%%", m.zoom.Level())
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.styles.Footer.Render(left + strings.Repeat(" ", gap) + right)
}
