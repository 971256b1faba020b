package tui

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/riskview/riskview/internal/diagram"
)

// ViewKind discriminates the content a view carries.
type ViewKind int

const (
	// ViewDiagram is a laid-out fault-tree diagram.
	ViewDiagram ViewKind = iota
	// ViewTable is a column/row table.
	ViewTable
)

// View is one open view in the view host. Capabilities are explicit
// flags set by the materializer, never derived from the content type.
type View struct {
	ID    uuid.UUID
	Title string
	Kind  ViewKind

	ZoomCapable bool
	Printable   bool

	// Level is the zoom level in percent while the view is zoom capable.
	Level int

	// Exactly one of these is set, matching Kind.
	Scene *diagram.Scene
	Table *Table
}

// NewDiagramView wraps a built scene in a zoomable, printable view.
func NewDiagramView(title string, scene *diagram.Scene) *View {
	return &View{
		ID:          uuid.New(),
		Title:       title,
		Kind:        ViewDiagram,
		ZoomCapable: true,
		Printable:   true,
		Level:       100,
		Scene:       scene,
	}
}

// NewTableView wraps a table in a printable, non-zoomable view.
func NewTableView(title string, table *Table) *View {
	return &View{
		ID:        uuid.New(),
		Title:     title,
		Kind:      ViewTable,
		Printable: true,
		Table:     table,
	}
}

// Release frees the view's owned content. A diagram view owns its scene.
func (v *View) Release() {
	if v.Scene != nil {
		v.Scene.Close()
		v.Scene = nil
	}
	v.Table = nil
}

// Table is the content of a table view.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NavNode is one entry in the navigation tree. ActionID is the registry
// key of the node's materializer; an empty ActionID marks a
// non-actionable entry (headings and placeholders).
type NavNode struct {
	Title    string
	ActionID string
	Children []*NavNode
}

// NavTree is the navigation pane content: the model branch and the
// report branch, rebuilt together on every model/result swap.
type NavTree struct {
	Roots []*NavNode
}

// InvariantPolicy routes internal invariant violations. In normal runs a
// violation is logged and shown on the status line; with strict asserts
// enabled it panics instead.
type InvariantPolicy struct {
	logger *slog.Logger
	strict bool

	violation string
}

// NewInvariantPolicy creates the policy. strict makes violations panic.
func NewInvariantPolicy(logger *slog.Logger, strict bool) *InvariantPolicy {
	return &InvariantPolicy{logger: logger, strict: strict}
}

// Fail reports an invariant violation.
func (p *InvariantPolicy) Fail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.logger.Error("internal invariant violated", "error", msg)
	if p.strict {
		panic(msg)
	}
	p.violation = "internal error: " + msg
}

// TakeViolation returns the pending status-line message and clears it.
func (p *InvariantPolicy) TakeViolation() string {
	msg := p.violation
	p.violation = ""
	return msg
}
