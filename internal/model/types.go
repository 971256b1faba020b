// Package model holds the loaded fault-tree model: gates, basic events,
// house events, and the fault trees that tie them together. A Graph is
// immutable once loaded and is replaced as a unit when new input files
// are opened.
package model

import (
	"errors"
	"fmt"
)

// ErrNotImplemented marks operations that exist in the interface but are
// deliberately unfinished. Callers must surface it, never swallow it.
var ErrNotImplemented = errors.New("not implemented")

// Connective is the logical function a gate applies to its children.
type Connective string

// Gate connectives from the Open-PSA model exchange format.
const (
	ConnectiveAnd     Connective = "and"
	ConnectiveOr      Connective = "or"
	ConnectiveAtLeast Connective = "atleast"
	ConnectiveNot     Connective = "not"
	ConnectiveXor     Connective = "xor"
	ConnectiveNand    Connective = "nand"
	ConnectiveNor     Connective = "nor"
	ConnectiveNull    Connective = "null"
)

// ChildKind discriminates the reference types a gate child can have.
type ChildKind int

const (
	ChildGate ChildKind = iota
	ChildBasicEvent
	ChildHouseEvent
)

// ChildRef is one ordered child reference of a gate. The same gate ID may
// be referenced from any number of parents (shared subtree).
type ChildRef struct {
	Kind ChildKind
	ID   string
}

// Gate is an internal fault-tree node combining child events via a
// logical connective.
type Gate struct {
	ID         string
	Label      string
	Connective Connective
	MinNumber  int // atleast only
	Children   []ChildRef
}

// GateChildren returns the IDs of the gate-typed children, in order.
func (g *Gate) GateChildren() []string {
	var ids []string
	for _, c := range g.Children {
		if c.Kind == ChildGate {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// BasicEvent is a leaf fault-tree node. Probability is nil when the event
// carries no expression.
type BasicEvent struct {
	ID          string
	Label       string
	Probability *float64
}

// HasProbability reports whether the event carries a probability expression.
func (b *BasicEvent) HasProbability() bool {
	return b.Probability != nil
}

// HouseEvent is a leaf with a constant boolean state.
type HouseEvent struct {
	ID    string
	Label string
	State bool
}

// FaultTree groups the gates defined under one define-fault-tree element.
// TopGates holds the gates no other gate references; the first one is the
// root used for the diagram view.
type FaultTree struct {
	Name     string
	TopGates []string
}

// Graph is the loaded model: an acyclic directed graph of gates over
// basic- and house-event leaves. Lookup maps are keyed by ID; the *List
// slices preserve definition order for table views.
type Graph struct {
	Name       string
	FaultTrees []*FaultTree

	Gates       map[string]*Gate
	BasicEvents map[string]*BasicEvent
	HouseEvents map[string]*HouseEvent

	GateList       []*Gate
	BasicEventList []*BasicEvent
	HouseEventList []*HouseEvent

	// gateTree records which fault tree defined each gate.
	gateTree map[string]string
}

// NewGraph returns an empty model graph with the given name.
func NewGraph(name string) *Graph {
	return &Graph{
		Name:        name,
		Gates:       make(map[string]*Gate),
		BasicEvents: make(map[string]*BasicEvent),
		HouseEvents: make(map[string]*HouseEvent),
		gateTree:    make(map[string]string),
	}
}

// Gate returns the gate with the given ID, or nil.
func (g *Graph) Gate(id string) *Gate {
	return g.Gates[id]
}

// BasicEvent returns the basic event with the given ID, or nil.
func (g *Graph) BasicEvent(id string) *BasicEvent {
	return g.BasicEvents[id]
}

// EventProbability resolves the probability of a basic event by ID.
// The second return is false when the event is unknown or has no
// expression.
func (g *Graph) EventProbability(id string) (float64, bool) {
	be, ok := g.BasicEvents[id]
	if !ok || be.Probability == nil {
		return 0, false
	}
	return *be.Probability, true
}

// Save writes the model back to its input file.
//
// Saving is not implemented yet; it fails explicitly so the caller can
// tell the user instead of silently dropping the request.
func (g *Graph) Save() error {
	return fmt.Errorf("saving the model: %w", ErrNotImplemented)
}

// SaveAs writes the model to an arbitrary path.
func (g *Graph) SaveAs(path string) error {
	return fmt.Errorf("saving the model to %s: %w", path, ErrNotImplemented)
}
