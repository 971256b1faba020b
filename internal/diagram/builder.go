// Package diagram builds deduplicated visual graphs from a model's gate
// graph. One build produces exactly one visual node per distinct gate
// reachable from the root, however many parents reference it, so shared
// substructure never blows up the output.
package diagram

import (
	"fmt"
	"log/slog"

	"github.com/riskview/riskview/internal/model"
)

// VisualNode is the visual counterpart of one gate. Children may be
// shared between nodes when the underlying gate graph shares subtrees.
type VisualNode struct {
	GateID     string
	Label      string
	Connective model.Connective
	MinNumber  int

	// Children are the gate-typed children in document order.
	Children []*VisualNode
	// Leaves are the event-typed children in document order.
	Leaves []EventBox
}

// EventBox is a leaf attached to a visual node.
type EventBox struct {
	ID          string
	Kind        model.ChildKind
	Label       string
	Probability *float64 // nil when the event carries no expression
}

// visitState separates revisit-in-progress (a cycle) from
// revisit-complete (a shared subtree).
type visitState int

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// Builder constructs diagram scenes for one model graph.
type Builder struct {
	logger *slog.Logger
	graph  *model.Graph
}

// NewBuilder creates a Builder over the given model graph.
func NewBuilder(logger *slog.Logger, graph *model.Graph) *Builder {
	return &Builder{logger: logger, graph: graph}
}

// Build constructs the deduplicated visual graph rooted at the given
// gate and lays it out into a Scene. The scene owns every node the build
// created; the builder retains nothing.
//
// A nil root is a precondition violation and panics. A cyclic gate graph
// is an error.
func (b *Builder) Build(root *model.Gate) (*Scene, error) {
	if root == nil {
		panic("diagram: Build called with nil root gate")
	}

	st := &buildState{
		nodes: make(map[string]*VisualNode),
		state: make(map[string]visitState),
	}

	rootNode, err := b.buildNode(root, st)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("Built diagram graph",
		"root", root.ID,
		"nodes", len(st.nodes),
		"edges", st.edges)

	return newScene(rootNode, len(st.nodes), st.edges), nil
}

// buildState is scoped to one Build call.
type buildState struct {
	nodes map[string]*VisualNode
	state map[string]visitState
	edges int
}

func (b *Builder) buildNode(gate *model.Gate, st *buildState) (*VisualNode, error) {
	switch st.state[gate.ID] {
	case stateVisiting:
		return nil, fmt.Errorf("cycle through gate %q", gate.ID)
	case stateDone:
		return st.nodes[gate.ID], nil
	}

	st.state[gate.ID] = stateVisiting
	node := &VisualNode{
		GateID:     gate.ID,
		Label:      gate.Label,
		Connective: gate.Connective,
		MinNumber:  gate.MinNumber,
	}
	st.nodes[gate.ID] = node

	for _, ref := range gate.Children {
		switch ref.Kind {
		case model.ChildGate:
			child := b.graph.Gate(ref.ID)
			if child == nil {
				return nil, fmt.Errorf("gate %q references undefined gate %q", gate.ID, ref.ID)
			}
			st.edges++
			childNode, err := b.buildNode(child, st)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, childNode)

		case model.ChildBasicEvent:
			box := EventBox{ID: ref.ID, Kind: model.ChildBasicEvent}
			if be := b.graph.BasicEvent(ref.ID); be != nil {
				box.Label = be.Label
				box.Probability = be.Probability
			}
			node.Leaves = append(node.Leaves, box)

		case model.ChildHouseEvent:
			box := EventBox{ID: ref.ID, Kind: model.ChildHouseEvent}
			if he := b.graph.HouseEvents[ref.ID]; he != nil {
				box.Label = he.Label
			}
			node.Leaves = append(node.Leaves, box)
		}
	}

	st.state[gate.ID] = stateDone
	return node, nil
}
