package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/riskview/riskview/internal/analysis"
	"github.com/riskview/riskview/internal/config"
	"github.com/riskview/riskview/internal/model"
)

// stubEngine returns a fixed result set or error.
type stubEngine struct {
	results *analysis.ResultSet
	err     error
}

func (s *stubEngine) Analyze(ctx context.Context, graph *model.Graph, settings *config.Settings) (*analysis.ResultSet, error) {
	return s.results, s.err
}

func newTestApp(t *testing.T, engine analysis.Engine) *appModel {
	t.Helper()
	settings := config.Default()
	return newAppModel(context.Background(), discardLogger(), testModel(), settings, engine)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAnalysisCompletionSwapsResults(t *testing.T) {
	rs := analysis.NewResultSet([]analysis.ResultEntry{fullEntry()})
	m := newTestApp(t, &stubEngine{results: rs})

	// register an action under the initial generation
	build, ok := m.registry.Lookup("model/basic-events")
	if !ok {
		t.Fatal("model actions should be registered at startup")
	}

	m.waiting = true
	m.Update(analysisMsg(analysis.Completion{Results: rs, Elapsed: time.Millisecond}))

	if m.waiting {
		t.Error("completion should clear the wait state")
	}
	if m.results != rs {
		t.Error("completion should swap in the result set")
	}
	if _, err := build(); err == nil {
		t.Error("pre-swap materializers must be stale after the swap")
	}

	found := false
	for _, row := range m.nav.Rows() {
		if row.node.Title == "Analysis Results" {
			found = true
		}
	}
	if !found {
		t.Error("navigation tree should gain the results branch")
	}
}

func TestAnalysisFailureKeepsTree(t *testing.T) {
	m := newTestApp(t, &stubEngine{})
	m.waiting = true
	m.Update(analysisMsg(analysis.Completion{Err: errors.New("engine exploded")}))

	if m.waiting {
		t.Error("failure should clear the wait state")
	}
	if !strings.Contains(m.status, "engine exploded") {
		t.Errorf("status = %q, want the engine error surfaced", m.status)
	}
	if m.results != nil {
		t.Error("failed run must not install results")
	}
}

func TestWaitOverlaySwallowsKeys(t *testing.T) {
	m := newTestApp(t, &stubEngine{})
	m.waiting = true

	before := m.nav.Cursor()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil {
		t.Error("esc during wait must be swallowed")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.nav.Cursor() != before {
		t.Error("navigation keys during wait must be swallowed")
	}

	if !strings.Contains(m.View(), "please wait") {
		t.Error("wait overlay should be visible")
	}
}

func TestRunAnalysisDeliversCompletionMsg(t *testing.T) {
	rs := analysis.NewResultSet([]analysis.ResultEntry{fullEntry()})
	m := newTestApp(t, &stubEngine{results: rs})

	_, cmd := m.Update(key("R"))
	if !m.waiting {
		t.Fatal("R should enter the wait state")
	}
	if cmd == nil {
		t.Fatal("R should schedule the completion command")
	}

	msg := cmd()
	done, ok := msg.(analysisMsg)
	if !ok {
		t.Fatalf("msg = %T, want analysisMsg", msg)
	}
	if done.Results != rs {
		t.Error("completion should carry the engine result set")
	}
}

func TestActivateSelectionOpensView(t *testing.T) {
	m := newTestApp(t, &stubEngine{})

	// walk the cursor to the basic events entry
	target := -1
	for i, row := range m.nav.Rows() {
		if strings.HasPrefix(row.node.Title, "Basic Events") {
			target = i
		}
	}
	if target == -1 {
		// expand Model Data first
		for i, row := range m.nav.Rows() {
			if row.node.Title == "Model Data" {
				target = i
			}
		}
		for m.nav.Cursor() < target {
			m.nav.MoveDown()
		}
		m.nav.Toggle()
		for i, row := range m.nav.Rows() {
			if strings.HasPrefix(row.node.Title, "Basic Events") {
				target = i
			}
		}
	}
	for m.nav.Cursor() < target {
		m.nav.MoveDown()
	}
	for m.nav.Cursor() > target {
		m.nav.MoveUp()
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.host.Current() == nil {
		t.Fatal("activation should open and focus a view")
	}
	if m.host.Current().Kind != ViewTable {
		t.Error("basic events should open as a table view")
	}
}

func TestSaveSurfacesNotImplemented(t *testing.T) {
	m := newTestApp(t, &stubEngine{})
	m.Update(key("S"))
	if !strings.Contains(m.status, "not implemented") {
		t.Errorf("status = %q, want the not-implemented error surfaced", m.status)
	}
}

func TestRenderTabsTruncatesToWidth(t *testing.T) {
	m := newTestApp(t, &stubEngine{})
	m.host.Add(NewTableView("a rather long first view title", &Table{}))
	m.host.Add(NewTableView("a rather long second view title", &Table{}))

	line := m.renderTabs(20)
	if got := lipgloss.Width(line); got > 20 {
		t.Errorf("rendered tab width = %d, want at most 20", got)
	}
	if strings.HasSuffix(line, "\x1b") || strings.HasSuffix(line, "\x1b[") {
		t.Errorf("tab line %q ends inside an escape sequence", line)
	}
}

func TestZoomKeysOnlyWithZoomableView(t *testing.T) {
	m := newTestApp(t, &stubEngine{})

	m.Update(key("z"))
	if m.mode != modeNormal {
		t.Error("zoom entry must stay disabled without a zoomable view")
	}

	m.host.Add(diagramView(t))
	m.Update(key("+"))
	if m.zoom.Level() != 105 {
		t.Errorf("Level = %d, want 105", m.zoom.Level())
	}

	m.Update(key("z"))
	if m.mode != modeZoom {
		t.Error("z should enter zoom entry mode with a zoomable view")
	}
}

func TestFilterModeNarrowsNav(t *testing.T) {
	m := newTestApp(t, &stubEngine{})

	m.Update(key("/"))
	if m.mode != modeFilter {
		t.Fatal("/ should enter filter mode")
	}
	m.Update(key("p"))
	m.Update(key("l"))

	if m.nav.Filter() != "pl" {
		t.Errorf("filter = %q, want pl", m.nav.Filter())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeNormal || m.nav.Filter() != "" {
		t.Error("esc should clear the filter and leave filter mode")
	}
}
