package tui

import (
	"log/slog"
	"testing"

	"github.com/riskview/riskview/internal/diagram"
	"github.com/riskview/riskview/internal/model"
)

func diagramView(t *testing.T) *View {
	t.Helper()
	g := model.NewGraph("z")
	top := &model.Gate{
		ID:         "top",
		Connective: model.ConnectiveOr,
		Children:   []model.ChildRef{{Kind: model.ChildBasicEvent, ID: "e"}},
	}
	g.Gates["top"] = top
	g.GateList = append(g.GateList, top)
	be := &model.BasicEvent{ID: "e"}
	g.BasicEvents["e"] = be
	g.BasicEventList = append(g.BasicEventList, be)

	scene, err := diagram.NewBuilder(slog.New(slog.DiscardHandler), g).Build(top)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return NewDiagramView("z", scene)
}

func activeZoom(t *testing.T) (*ZoomController, *View) {
	t.Helper()
	z := NewZoomController(discardLogger())
	v := diagramView(t)
	z.ViewBecameCurrent(v)
	return z, v
}

func TestZoomInactiveByDefault(t *testing.T) {
	z := NewZoomController(discardLogger())
	if z.Active() {
		t.Error("controller should start inactive")
	}
	z.ZoomIn()
	z.ZoomOut()
	if err := z.SetZoom("150"); err == nil {
		t.Error("SetZoom should fail while inactive")
	}
}

func TestZoomActivatesOnZoomCapableView(t *testing.T) {
	z, _ := activeZoom(t)
	if !z.Active() {
		t.Fatal("controller should be active")
	}
	if z.Level() != 100 {
		t.Errorf("Level = %d, want 100", z.Level())
	}
}

func TestZoomIgnoresTableViews(t *testing.T) {
	z := NewZoomController(discardLogger())
	z.ViewBecameCurrent(tableView("t"))
	if z.Active() {
		t.Error("table views must not activate zoom")
	}
}

func TestZoomDeactivatesOnNilCurrent(t *testing.T) {
	z, _ := activeZoom(t)
	z.ViewBecameCurrent(nil)
	if z.Active() {
		t.Error("nil current view should deactivate zoom")
	}
}

func TestZoomSteps(t *testing.T) {
	z, _ := activeZoom(t)

	z.ZoomIn()
	if z.Level() != 105 {
		t.Errorf("Level = %d after zoom in, want 105", z.Level())
	}
	z.ZoomOut()
	z.ZoomOut()
	if z.Level() != 95 {
		t.Errorf("Level = %d after zoom out, want 95", z.Level())
	}
}

func TestZoomOutClampsPositive(t *testing.T) {
	z, _ := activeZoom(t)
	if err := z.SetZoom("3"); err != nil {
		t.Fatalf("SetZoom failed: %v", err)
	}
	z.ZoomOut()
	if z.Level() < 1 {
		t.Errorf("Level = %d, want positive", z.Level())
	}
}

func TestSetZoomGrammar(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"150%", 150, false},
		{"150", 150, false},
		{"5", 5, false},
		{"0", 0, true},
		{"007", 0, true},
		{"-20", 0, true},
		{"abc", 0, true},
		{"%", 0, true},
		{"", 0, true},
		{"120%%", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			z, _ := activeZoom(t)
			err := z.SetZoom(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SetZoom(%q) succeeded, want rejection", tt.input)
				}
				if z.Level() != 100 {
					t.Errorf("Level = %d after rejection, want unchanged 100", z.Level())
				}
				return
			}
			if err != nil {
				t.Fatalf("SetZoom(%q) failed: %v", tt.input, err)
			}
			if z.Level() != tt.want {
				t.Errorf("Level = %d, want %d", z.Level(), tt.want)
			}
		})
	}
}

func TestZoomLevelSurvivesViewSwitch(t *testing.T) {
	z := NewZoomController(discardLogger())
	a := diagramView(t)
	b := diagramView(t)

	z.ViewBecameCurrent(a)
	if err := z.SetZoom("150"); err != nil {
		t.Fatalf("SetZoom failed: %v", err)
	}
	z.ViewBecameCurrent(b)
	if z.Level() != 100 {
		t.Errorf("Level = %d on fresh view, want 100", z.Level())
	}
	z.ViewBecameCurrent(a)
	if z.Level() != 150 {
		t.Errorf("Level = %d back on first view, want 150", z.Level())
	}
}

func TestBestFit(t *testing.T) {
	tests := []struct {
		name                   string
		vw, vh, cw, ch, expect int
	}{
		{"width bound", 200, 100, 400, 100, 50},
		{"height bound", 400, 50, 400, 100, 50},
		{"exact fit", 400, 100, 400, 100, 100},
		{"enlarge", 800, 400, 400, 100, 200},
		{"floor", 100, 100, 300, 300, 33},
		{"degenerate content", 100, 100, 0, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BestFit(tt.vw, tt.vh, tt.cw, tt.ch); got != tt.expect {
				t.Errorf("BestFit = %d, want %d", got, tt.expect)
			}
		})
	}
}
