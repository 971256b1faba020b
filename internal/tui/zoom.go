package tui

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
)

// zoomStep is the increment applied by ZoomIn and ZoomOut.
const zoomStep = 5

// zoomGrammar accepts a positive integer without leading zeros,
// optionally followed by a percent sign.
var zoomGrammar = regexp.MustCompile(`^[1-9][0-9]*%?$`)

// ZoomController tracks the zoom state of the current view. It is
// Inactive while no zoom-capable view is current and Active(level)
// otherwise; the level is written back to the view so it survives view
// switches. The controller follows the view host via ViewObserver.
type ZoomController struct {
	logger *slog.Logger
	view   *View
}

// NewZoomController creates an inactive controller.
func NewZoomController(logger *slog.Logger) *ZoomController {
	return &ZoomController{logger: logger}
}

// ViewAdded implements ViewObserver.
func (z *ZoomController) ViewAdded(v *View) {}

// ViewBecameCurrent implements ViewObserver. A zoom-capable view
// activates the controller at the view's stored level; anything else,
// including nil, deactivates it.
func (z *ZoomController) ViewBecameCurrent(v *View) {
	if v == nil || !v.ZoomCapable {
		z.view = nil
		return
	}
	if v.Level <= 0 {
		v.Level = 100
	}
	z.view = v
}

// ViewClosed implements ViewObserver.
func (z *ZoomController) ViewClosed(v *View) {
	if z.view == v {
		z.view = nil
	}
}

// Active reports whether a zoom-capable view is current.
func (z *ZoomController) Active() bool {
	return z.view != nil
}

// Level returns the current zoom level in percent. It is only
// meaningful while Active.
func (z *ZoomController) Level() int {
	if z.view == nil {
		return 0
	}
	return z.view.Level
}

// ZoomIn raises the level by one step.
func (z *ZoomController) ZoomIn() {
	if z.view == nil {
		return
	}
	z.view.Level += zoomStep
}

// ZoomOut lowers the level by one step, clamped positive.
func (z *ZoomController) ZoomOut() {
	if z.view == nil {
		return
	}
	level := z.view.Level - zoomStep
	if level < 1 {
		level = 1
	}
	z.view.Level = level
}

// SetZoom parses a zoom entry. Input must match the zoom grammar; on
// rejection the level is left unchanged and an error is returned.
func (z *ZoomController) SetZoom(text string) error {
	if z.view == nil {
		return fmt.Errorf("set zoom: no zoomable view is current")
	}
	if !zoomGrammar.MatchString(text) {
		return fmt.Errorf("set zoom: %q is not a valid zoom level", text)
	}
	level, err := strconv.Atoi(trimPercent(text))
	if err != nil {
		return fmt.Errorf("set zoom: %w", err)
	}
	z.view.Level = level
	return nil
}

// BestFit returns the largest zoom level in whole percent at which the
// content fits the viewport in both dimensions.
func BestFit(viewportW, viewportH, contentW, contentH int) int {
	if contentW <= 0 || contentH <= 0 {
		return 100
	}
	h := viewportW * 100 / contentW
	v := viewportH * 100 / contentH
	if v < h {
		return v
	}
	return h
}

// FitCurrent applies BestFit of the current view's scene to the given
// viewport.
func (z *ZoomController) FitCurrent(viewportW, viewportH int) {
	if z.view == nil || z.view.Scene == nil {
		return
	}
	w, h := z.view.Scene.Size()
	level := BestFit(viewportW, viewportH, w, h)
	if level < 1 {
		level = 1
	}
	z.view.Level = level
	z.logger.Debug("best fit applied", "view", z.view.Title, "level", level)
}

func trimPercent(s string) string {
	if len(s) > 0 && s[len(s)-1] == '%' {
		return s[:len(s)-1]
	}
	return s
}
