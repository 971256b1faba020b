package tui

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// ViewHost owns the ordered set of open views and the notion of a
// current view. Closing the current view leaves the current view nil
// until the next activation; the host never promotes a neighbor on its
// own.
type ViewHost struct {
	logger    *slog.Logger
	views     []*View
	current   *View
	observers []ViewObserver
}

// NewViewHost creates an empty view host.
func NewViewHost(logger *slog.Logger) *ViewHost {
	return &ViewHost{logger: logger}
}

// Subscribe registers an observer for view lifecycle events.
func (h *ViewHost) Subscribe(o ViewObserver) {
	h.observers = append(h.observers, o)
}

// Views returns the open views in opening order.
func (h *ViewHost) Views() []*View {
	return h.views
}

// Current returns the current view, or nil when none is current.
func (h *ViewHost) Current() *View {
	return h.current
}

// Add appends a view and makes it current.
func (h *ViewHost) Add(v *View) {
	h.views = append(h.views, v)
	h.logger.Debug("view added", "title", v.Title, "id", v.ID)
	for _, o := range h.observers {
		o.ViewAdded(v)
	}
	h.setCurrent(v)
}

// Activate makes the view with the given ID current.
func (h *ViewHost) Activate(id uuid.UUID) error {
	for _, v := range h.views {
		if v.ID == id {
			h.setCurrent(v)
			return nil
		}
	}
	return fmt.Errorf("activate view: %s is not open", id)
}

// ActivateIndex makes the i-th open view current.
func (h *ViewHost) ActivateIndex(i int) error {
	if i < 0 || i >= len(h.views) {
		return fmt.Errorf("activate view: index %d out of range", i)
	}
	h.setCurrent(h.views[i])
	return nil
}

// Close removes the view with the given ID and releases its content.
// Closing the current view leaves no view current.
func (h *ViewHost) Close(id uuid.UUID) error {
	for i, v := range h.views {
		if v.ID != id {
			continue
		}
		h.views = append(h.views[:i], h.views[i+1:]...)
		if h.current == v {
			h.setCurrent(nil)
		}
		v.Release()
		h.logger.Debug("view closed", "title", v.Title, "id", v.ID)
		for _, o := range h.observers {
			o.ViewClosed(v)
		}
		return nil
	}
	return fmt.Errorf("close view: %s is not open", id)
}

// CloseCurrent closes the current view if there is one.
func (h *ViewHost) CloseCurrent() error {
	if h.current == nil {
		return fmt.Errorf("close view: no current view")
	}
	return h.Close(h.current.ID)
}

// CurrentIndex returns the index of the current view, or -1.
func (h *ViewHost) CurrentIndex() int {
	for i, v := range h.views {
		if v == h.current {
			return i
		}
	}
	return -1
}

func (h *ViewHost) setCurrent(v *View) {
	if h.current == v {
		return
	}
	h.current = v
	for _, o := range h.observers {
		o.ViewBecameCurrent(v)
	}
}
