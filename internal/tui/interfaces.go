// Package tui provides the terminal user interface for browsing
// fault-tree models and their analysis results: a navigation tree over
// the model and report, lazily materialized diagram and table views,
// and a zoom controller for diagram views.
package tui

import (
	"context"

	"github.com/riskview/riskview/internal/analysis"
	"github.com/riskview/riskview/internal/config"
	"github.com/riskview/riskview/internal/model"
)

// TUI provides the main terminal user interface.
type TUI interface {
	// Run starts the TUI with the given model and blocks until the user
	// exits. The engine is invoked when the user requests an analysis.
	Run(ctx context.Context, graph *model.Graph, settings *config.Settings, engine analysis.Engine) error
}

// Materializer builds a view on demand. Materializers are registered
// per navigation node and invoked at activation time; they are never
// memoized, so activating the same node twice yields two views.
type Materializer func() (*View, error)

// ViewObserver receives view host lifecycle notifications.
type ViewObserver interface {
	// ViewAdded fires after a view is appended to the host.
	ViewAdded(v *View)

	// ViewBecameCurrent fires whenever the current view changes,
	// including to nil when the current view is closed.
	ViewBecameCurrent(v *View)

	// ViewClosed fires after a view is removed and released.
	ViewClosed(v *View)
}
