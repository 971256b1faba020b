// Package analysis defines the immutable result set of a completed risk
// analysis and the engine collaborator that produces it. Nothing in this
// package recomputes probabilities or importance factors; results are
// consumed as already-computed facts.
package analysis

import (
	"fmt"

	"github.com/google/uuid"
)

// TargetKind discriminates the analysis target variants.
type TargetKind int

const (
	// TargetGate marks a fault-tree analysis target.
	TargetGate TargetKind = iota
	// TargetSequence marks an event-tree analysis target. Sequence
	// targets never reach the fault-tree display path.
	TargetSequence
)

// Target identifies what a result entry was computed for.
type Target struct {
	Kind TargetKind

	// TargetGate
	Gate string

	// TargetSequence
	InitiatingEvent string
	Sequence        string
}

// GateTarget returns a fault-tree analysis target.
func GateTarget(gateID string) Target {
	return Target{Kind: TargetGate, Gate: gateID}
}

// SequenceTarget returns an event-tree analysis target.
func SequenceTarget(initiatingEvent, sequence string) Target {
	return Target{
		Kind:            TargetSequence,
		InitiatingEvent: initiatingEvent,
		Sequence:        sequence,
	}
}

// Literal is one event reference within a product, possibly complemented.
type Literal struct {
	EventID    string `json:"event_id"`
	Complement bool   `json:"complement,omitempty"`
}

// Product is a minimal combination of literals sufficient to cause the
// top event. Probability is supplied by the analysis, not derived here.
type Product struct {
	Literals    []Literal `json:"literals"`
	Probability float64   `json:"probability"`
}

// Order is the number of literals in the product.
func (p Product) Order() int {
	return len(p.Literals)
}

// FaultTreeAnalysis holds the ordered products of one analysis target.
type FaultTreeAnalysis struct {
	Products []Product `json:"products"`
}

// SumOfProbabilities is the sum over all product probabilities, used to
// normalize per-product contributions.
func (fta *FaultTreeAnalysis) SumOfProbabilities() float64 {
	var sum float64
	for _, p := range fta.Products {
		sum += p.Probability
	}
	return sum
}

// ProbabilityAnalysis holds the total probability computed upstream.
type ProbabilityAnalysis struct {
	TotalProbability float64 `json:"total_probability"`
}

// ImportanceRecord carries the sensitivity measures of one basic event.
type ImportanceRecord struct {
	EventID    string  `json:"event_id"`
	Occurrence float64 `json:"occurrence"`
	MIF        float64 `json:"mif"`
	CIF        float64 `json:"cif"`
	DIF        float64 `json:"dif"`
	RAW        float64 `json:"raw"`
	RRW        float64 `json:"rrw"`
}

// ImportanceAnalysis holds the ordered importance records.
type ImportanceAnalysis struct {
	Records []ImportanceRecord `json:"records"`
}

// ResultEntry is the complete analysis output for one target. All
// sub-analyses except the fault-tree one are optional.
type ResultEntry struct {
	Target      Target               `json:"target"`
	FaultTree   *FaultTreeAnalysis   `json:"fault_tree_analysis,omitempty"`
	Probability *ProbabilityAnalysis `json:"probability_analysis,omitempty"`
	Importance  *ImportanceAnalysis  `json:"importance_analysis,omitempty"`
}

// ResultSet is one complete, immutable analysis outcome. The generation
// token ties registry entries and materializers to the exact model/result
// pair they were built against.
type ResultSet struct {
	Generation uuid.UUID     `json:"generation"`
	Results    []ResultEntry `json:"results"`
}

// NewResultSet wraps the given entries under a fresh generation token.
func NewResultSet(results []ResultEntry) *ResultSet {
	return &ResultSet{
		Generation: uuid.New(),
		Results:    results,
	}
}

// DisplayName extracts the display name of a gate target. Calling it on
// a sequence target is a programmer error: only fault-tree style targets
// reach the display path.
func (t Target) DisplayName() (string, error) {
	switch t.Kind {
	case TargetGate:
		return t.Gate, nil
	case TargetSequence:
		return "", fmt.Errorf("unexpected analysis target %s/%s in fault-tree display path",
			t.InitiatingEvent, t.Sequence)
	default:
		return "", fmt.Errorf("unknown analysis target kind %d", t.Kind)
	}
}
