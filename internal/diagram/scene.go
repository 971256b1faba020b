package diagram

import (
	"strconv"
	"unicode/utf8"

	"github.com/riskview/riskview/internal/model"
)

// Layout metrics, in abstract scene units. Exporters treat them as
// pixels; the terminal view projects them onto character cells.
const (
	charWidth      = 8
	boxPadding     = 16
	gateBoxHeight  = 48
	eventBoxHeight = 40
	hGap           = 24
	vGap           = 40
)

// BoxKind tells renderers what a placed box stands for.
type BoxKind int

const (
	BoxGate BoxKind = iota
	BoxBasicEvent
	BoxHouseEvent
)

// Box is one placed rectangle of the scene.
type Box struct {
	X, Y, W, H int
	Kind       BoxKind
	Title      string // gate or event ID
	Subtitle   string // connective, or probability for events
}

// Edge is one parent-to-child connector, drawn from the bottom center of
// the parent box to the top center of the child box.
type Edge struct {
	FromX, FromY int
	ToX, ToY     int
}

// Scene owns the visual graph of one diagram build. Ownership of every
// VisualNode passes to the scene when the build completes; Close tears
// the scene down deterministically when its view closes.
type Scene struct {
	root      *VisualNode
	nodeCount int
	edgeCount int

	boxes []Box
	edges []Edge
	pos   map[string]int // gate ID -> index into boxes

	width  int
	height int
}

func newScene(root *VisualNode, nodeCount, edgeCount int) *Scene {
	s := &Scene{
		root:      root,
		nodeCount: nodeCount,
		edgeCount: edgeCount,
		pos:       make(map[string]int, nodeCount),
	}
	s.width = s.place(root, 0, 0)
	return s
}

// Root returns the root visual node.
func (s *Scene) Root() *VisualNode {
	return s.root
}

// NodeCount is the number of distinct gates in the scene.
func (s *Scene) NodeCount() int {
	return s.nodeCount
}

// EdgeCount is the number of parent-to-gate references in the scene.
func (s *Scene) EdgeCount() int {
	return s.edgeCount
}

// Size returns the bounding box of the laid-out scene.
func (s *Scene) Size() (width, height int) {
	return s.width, s.height
}

// Boxes returns the placed boxes in placement order.
func (s *Scene) Boxes() []Box {
	return s.boxes
}

// Edges returns the placed connectors.
func (s *Scene) Edges() []Edge {
	return s.edges
}

// Render feeds every box and edge to the given callbacks. This is the
// render hook export collaborators consume together with Size. A nil
// callback skips that element kind.
func (s *Scene) Render(drawBox func(Box), drawEdge func(Edge)) {
	if drawBox != nil {
		for _, b := range s.boxes {
			drawBox(b)
		}
	}
	if drawEdge != nil {
		for _, e := range s.edges {
			drawEdge(e)
		}
	}
}

// Close releases the scene's nodes and geometry.
func (s *Scene) Close() {
	s.root = nil
	s.boxes = nil
	s.edges = nil
	s.pos = nil
}

// place lays out the subtree rooted at n with its left edge at x and its
// top at y, returning the width the subtree occupies. A gate already
// placed by an earlier parent occupies no width; the caller still gets
// an edge to the existing box.
func (s *Scene) place(n *VisualNode, x, y int) int {
	if _, placed := s.pos[n.GateID]; placed {
		return 0
	}

	childY := y + gateBoxHeight + vGap
	cx := x
	for _, child := range n.Children {
		if w := s.place(child, cx, childY); w > 0 {
			cx += w + hGap
		}
	}

	var leafIdx []int
	for _, leaf := range n.Leaves {
		idx := s.placeLeaf(leaf, cx, childY)
		leafIdx = append(leafIdx, idx)
		cx += s.boxes[idx].W + hGap
	}

	span := 0
	if cx > x {
		span = cx - hGap - x
	}

	own := boxWidth(n.GateID)
	width := own
	if span > width {
		width = span
	}

	bx := x + (width-own)/2
	s.pos[n.GateID] = len(s.boxes)
	s.boxes = append(s.boxes, Box{
		X:        bx,
		Y:        y,
		W:        own,
		H:        gateBoxHeight,
		Kind:     BoxGate,
		Title:    n.GateID,
		Subtitle: connectiveLabel(n),
	})
	if bottom := y + gateBoxHeight; bottom > s.height {
		s.height = bottom
	}

	from := Edge{FromX: bx + own/2, FromY: y + gateBoxHeight}
	for _, child := range n.Children {
		target := s.boxes[s.pos[child.GateID]]
		e := from
		e.ToX = target.X + target.W/2
		e.ToY = target.Y
		s.edges = append(s.edges, e)
	}
	for _, idx := range leafIdx {
		target := s.boxes[idx]
		e := from
		e.ToX = target.X + target.W/2
		e.ToY = target.Y
		s.edges = append(s.edges, e)
	}

	return width
}

func (s *Scene) placeLeaf(leaf EventBox, x, y int) int {
	kind := BoxBasicEvent
	if leaf.Kind == model.ChildHouseEvent {
		kind = BoxHouseEvent
	}

	subtitle := ""
	if leaf.Probability != nil {
		subtitle = formatProbability(*leaf.Probability)
	}

	w := boxWidth(leaf.ID)
	s.boxes = append(s.boxes, Box{
		X:        x,
		Y:        y,
		W:        w,
		H:        eventBoxHeight,
		Kind:     kind,
		Title:    leaf.ID,
		Subtitle: subtitle,
	})
	if bottom := y + eventBoxHeight; bottom > s.height {
		s.height = bottom
	}
	return len(s.boxes) - 1
}

func boxWidth(title string) int {
	return utf8.RuneCountInString(title)*charWidth + 2*boxPadding
}

func connectiveLabel(n *VisualNode) string {
	if n.Connective == model.ConnectiveAtLeast {
		return string(n.Connective) + " " + strconv.Itoa(n.MinNumber)
	}
	return string(n.Connective)
}

func formatProbability(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}
