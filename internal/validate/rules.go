// Package validate checks a loaded fault-tree model for structural and
// data problems before analysis. It is designed for CI integration,
// providing configurable rules and multiple output formats.
package validate

import (
	"context"
	"fmt"

	"github.com/riskview/riskview/internal/model"
)

// Severity represents the severity level of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Level returns the numeric level (higher = more severe).
func (s Severity) Level() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Category represents the category of a validation rule.
type Category string

const (
	CategoryStructure Category = "structure"
	CategoryData      Category = "data"
	CategoryHygiene   Category = "hygiene"
)

// Issue represents a validation issue found in the model.
type Issue struct {
	RuleID      string   `json:"ruleId"`
	RuleName    string   `json:"ruleName"`
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
	Message     string   `json:"message"`
	Description string   `json:"description,omitempty"`
	Suggestion  string   `json:"suggestion,omitempty"`
	ElementID   string   `json:"elementId,omitempty"`
	ElementType string   `json:"elementType,omitempty"`
}

// Rule defines a validation rule interface.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "RV001")
	ID() string
	// Name returns the human-readable name of the rule
	Name() string
	// Category returns the category of this rule
	Category() Category
	// Severity returns the default severity of this rule
	Severity() Severity
	// Description returns a detailed description of what this rule checks
	Description() string
	// Check executes the rule against the model and returns any issues found
	Check(ctx context.Context, graph *model.Graph) []Issue
}

// =============================================================================
// Structure Rules
// =============================================================================

// UndefinedReferenceRule checks for gate children that reference
// undefined elements.
type UndefinedReferenceRule struct{}

func (r *UndefinedReferenceRule) ID() string         { return "RV001" }
func (r *UndefinedReferenceRule) Name() string       { return "undefined-reference" }
func (r *UndefinedReferenceRule) Category() Category { return CategoryStructure }
func (r *UndefinedReferenceRule) Severity() Severity { return SeverityError }
func (r *UndefinedReferenceRule) Description() string {
	return "Every child a gate references must be defined somewhere in the loaded files. A dangling reference makes the tree unbuildable and the analysis results meaningless."
}

func (r *UndefinedReferenceRule) Check(ctx context.Context, graph *model.Graph) []Issue {
	var issues []Issue
	for _, gate := range graph.GateList {
		for _, child := range gate.Children {
			if defined(graph, child) {
				continue
			}
			issues = append(issues, Issue{
				RuleID:      r.ID(),
				RuleName:    r.Name(),
				Severity:    r.Severity(),
				Category:    r.Category(),
				Message:     fmt.Sprintf("Gate '%s' references undefined %s '%s'", gate.ID, childKindName(child.Kind), child.ID),
				Description: r.Description(),
				Suggestion:  "Define the missing element or load the input file that defines it",
				ElementID:   gate.ID,
				ElementType: "gate",
			})
		}
	}
	return issues
}

func defined(graph *model.Graph, child model.ChildRef) bool {
	switch child.Kind {
	case model.ChildGate:
		_, ok := graph.Gates[child.ID]
		return ok
	case model.ChildBasicEvent:
		_, ok := graph.BasicEvents[child.ID]
		return ok
	case model.ChildHouseEvent:
		_, ok := graph.HouseEvents[child.ID]
		return ok
	}
	return false
}

func childKindName(kind model.ChildKind) string {
	switch kind {
	case model.ChildGate:
		return "gate"
	case model.ChildBasicEvent:
		return "basic event"
	case model.ChildHouseEvent:
		return "house event"
	}
	return "element"
}

// EmptyGateRule checks for gates with no children.
type EmptyGateRule struct{}

func (r *EmptyGateRule) ID() string         { return "RV002" }
func (r *EmptyGateRule) Name() string       { return "empty-gate" }
func (r *EmptyGateRule) Category() Category { return CategoryStructure }
func (r *EmptyGateRule) Severity() Severity { return SeverityError }
func (r *EmptyGateRule) Description() string {
	return "A gate with no children has no defined truth value. Empty gates usually mean an input file was truncated or hand-edited incorrectly."
}

func (r *EmptyGateRule) Check(ctx context.Context, graph *model.Graph) []Issue {
	var issues []Issue
	for _, gate := range graph.GateList {
		if len(gate.Children) > 0 {
			continue
		}
		issues = append(issues, Issue{
			RuleID:      r.ID(),
			RuleName:    r.Name(),
			Severity:    r.Severity(),
			Category:    r.Category(),
			Message:     fmt.Sprintf("Gate '%s' has no children", gate.ID),
			Description: r.Description(),
			Suggestion:  "Add child events to the gate formula or remove the gate",
			ElementID:   gate.ID,
			ElementType: "gate",
		})
	}
	return issues
}

// CircularDependencyRule checks for cycles in gate references.
type CircularDependencyRule struct{}

func (r *CircularDependencyRule) ID() string         { return "RV003" }
func (r *CircularDependencyRule) Name() string       { return "circular-dependency" }
func (r *CircularDependencyRule) Category() Category { return CategoryStructure }
func (r *CircularDependencyRule) Severity() Severity { return SeverityError }
func (r *CircularDependencyRule) Description() string {
	return "Fault trees are acyclic by definition. A gate that reaches itself through its children cannot be evaluated or drawn."
}

func (r *CircularDependencyRule) Check(ctx context.Context, graph *model.Graph) []Issue {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, len(graph.Gates))
	var issues []Issue

	var visit func(id string, path []string)
	visit = func(id string, path []string) {
		switch state[id] {
		case visiting:
			issues = append(issues, Issue{
				RuleID:      r.ID(),
				RuleName:    r.Name(),
				Severity:    r.Severity(),
				Category:    r.Category(),
				Message:     fmt.Sprintf("Gate '%s' is part of a reference cycle (%s)", id, joinPath(path, id)),
				Description: r.Description(),
				Suggestion:  "Break the cycle by removing one of the gate references",
				ElementID:   id,
				ElementType: "gate",
			})
			return
		case done:
			return
		}
		state[id] = visiting
		gate := graph.Gates[id]
		if gate != nil {
			for _, childID := range gate.GateChildren() {
				visit(childID, append(path, id))
			}
		}
		state[id] = done
	}

	for _, gate := range graph.GateList {
		visit(gate.ID, nil)
	}
	return issues
}

func joinPath(path []string, last string) string {
	out := ""
	for _, p := range path {
		out += p + " -> "
	}
	return out + last
}

// VoteThresholdRule checks atleast gates whose threshold exceeds the
// number of children.
type VoteThresholdRule struct{}

func (r *VoteThresholdRule) ID() string         { return "RV004" }
func (r *VoteThresholdRule) Name() string       { return "vote-threshold" }
func (r *VoteThresholdRule) Category() Category { return CategoryStructure }
func (r *VoteThresholdRule) Severity() Severity { return SeverityError }
func (r *VoteThresholdRule) Description() string {
	return "An atleast gate requiring more children than it has can never be true. The gate is constant false and the subtree below it is dead."
}

func (r *VoteThresholdRule) Check(ctx context.Context, graph *model.Graph) []Issue {
	var issues []Issue
	for _, gate := range graph.GateList {
		if gate.Connective != model.ConnectiveAtLeast {
			continue
		}
		if gate.MinNumber <= len(gate.Children) {
			continue
		}
		issues = append(issues, Issue{
			RuleID:      r.ID(),
			RuleName:    r.Name(),
			Severity:    r.Severity(),
			Category:    r.Category(),
			Message:     fmt.Sprintf("Gate '%s' requires %d of %d children", gate.ID, gate.MinNumber, len(gate.Children)),
			Description: r.Description(),
			Suggestion:  "Lower the min attribute or add more children",
			ElementID:   gate.ID,
			ElementType: "gate",
		})
	}
	return issues
}

// =============================================================================
// Data Rules
// =============================================================================

// ProbabilityRangeRule checks for probabilities outside [0, 1].
type ProbabilityRangeRule struct{}

func (r *ProbabilityRangeRule) ID() string         { return "RV010" }
func (r *ProbabilityRangeRule) Name() string       { return "probability-out-of-range" }
func (r *ProbabilityRangeRule) Category() Category { return CategoryData }
func (r *ProbabilityRangeRule) Severity() Severity { return SeverityError }
func (r *ProbabilityRangeRule) Description() string {
	return "A probability must lie in [0, 1]. Values outside that range propagate garbage through probability and importance calculations."
}

func (r *ProbabilityRangeRule) Check(ctx context.Context, graph *model.Graph) []Issue {
	var issues []Issue
	for _, be := range graph.BasicEventList {
		if be.Probability == nil {
			continue
		}
		p := *be.Probability
		if p >= 0 && p <= 1 {
			continue
		}
		issues = append(issues, Issue{
			RuleID:      r.ID(),
			RuleName:    r.Name(),
			Severity:    r.Severity(),
			Category:    r.Category(),
			Message:     fmt.Sprintf("Basic event '%s' has probability %g outside [0, 1]", be.ID, p),
			Description: r.Description(),
			Suggestion:  "Fix the probability expression in the input file",
			ElementID:   be.ID,
			ElementType: "basic-event",
		})
	}
	return issues
}

// MissingProbabilityRule checks for basic events without a probability
// expression.
type MissingProbabilityRule struct{}

func (r *MissingProbabilityRule) ID() string         { return "RV011" }
func (r *MissingProbabilityRule) Name() string       { return "missing-probability" }
func (r *MissingProbabilityRule) Category() Category { return CategoryData }
func (r *MissingProbabilityRule) Severity() Severity { return SeverityWarning }
func (r *MissingProbabilityRule) Description() string {
	return "Probability analysis needs an expression on every basic event. Events without one force the analysis to be qualitative only."
}

func (r *MissingProbabilityRule) Check(ctx context.Context, graph *model.Graph) []Issue {
	var issues []Issue
	for _, be := range graph.BasicEventList {
		if be.HasProbability() {
			continue
		}
		issues = append(issues, Issue{
			RuleID:      r.ID(),
			RuleName:    r.Name(),
			Severity:    r.Severity(),
			Category:    r.Category(),
			Message:     fmt.Sprintf("Basic event '%s' has no probability expression", be.ID),
			Description: r.Description(),
			Suggestion:  "Add a float expression under define-basic-event, or disable probability analysis",
			ElementID:   be.ID,
			ElementType: "basic-event",
		})
	}
	return issues
}

// =============================================================================
// Hygiene Rules
// =============================================================================

// UnreferencedEventRule checks for defined events no gate references.
type UnreferencedEventRule struct{}

func (r *UnreferencedEventRule) ID() string         { return "RV020" }
func (r *UnreferencedEventRule) Name() string       { return "unreferenced-event" }
func (r *UnreferencedEventRule) Category() Category { return CategoryHygiene }
func (r *UnreferencedEventRule) Severity() Severity { return SeverityWarning }
func (r *UnreferencedEventRule) Description() string {
	return "An event no gate references never contributes to any top gate. It is usually a leftover from an earlier revision of the model."
}

func (r *UnreferencedEventRule) Check(ctx context.Context, graph *model.Graph) []Issue {
	referenced := make(map[string]bool)
	for _, gate := range graph.GateList {
		for _, child := range gate.Children {
			if child.Kind != model.ChildGate {
				referenced[child.ID] = true
			}
		}
	}

	var issues []Issue
	report := func(id, elemType string) {
		issues = append(issues, Issue{
			RuleID:      r.ID(),
			RuleName:    r.Name(),
			Severity:    r.Severity(),
			Category:    r.Category(),
			Message:     fmt.Sprintf("%s '%s' is defined but never referenced", displayType(elemType), id),
			Description: r.Description(),
			Suggestion:  "Remove the definition or wire it into a gate",
			ElementID:   id,
			ElementType: elemType,
		})
	}
	for _, be := range graph.BasicEventList {
		if !referenced[be.ID] {
			report(be.ID, "basic-event")
		}
	}
	for _, he := range graph.HouseEventList {
		if !referenced[he.ID] {
			report(he.ID, "house-event")
		}
	}
	return issues
}

func displayType(elemType string) string {
	switch elemType {
	case "basic-event":
		return "Basic event"
	case "house-event":
		return "House event"
	}
	return "Element"
}

// SingleChildGateRule checks for and/or gates with exactly one child.
type SingleChildGateRule struct{}

func (r *SingleChildGateRule) ID() string         { return "RV021" }
func (r *SingleChildGateRule) Name() string       { return "single-child-gate" }
func (r *SingleChildGateRule) Category() Category { return CategoryHygiene }
func (r *SingleChildGateRule) Severity() Severity { return SeverityInfo }
func (r *SingleChildGateRule) Description() string {
	return "An and/or gate with one child is a pass-through. It adds a diagram level without changing the logic."
}

func (r *SingleChildGateRule) Check(ctx context.Context, graph *model.Graph) []Issue {
	var issues []Issue
	for _, gate := range graph.GateList {
		if gate.Connective != model.ConnectiveAnd && gate.Connective != model.ConnectiveOr {
			continue
		}
		if len(gate.Children) != 1 {
			continue
		}
		issues = append(issues, Issue{
			RuleID:      r.ID(),
			RuleName:    r.Name(),
			Severity:    r.Severity(),
			Category:    r.Category(),
			Message:     fmt.Sprintf("Gate '%s' (%s) has a single child", gate.ID, gate.Connective),
			Description: r.Description(),
			Suggestion:  "Reference the child directly from the parent gate",
			ElementID:   gate.ID,
			ElementType: "gate",
		})
	}
	return issues
}

// WideGateRule checks for gates with an unusually large number of
// children.
type WideGateRule struct {
	maxChildren int
}

// NewWideGateRule creates the rule with a configurable child threshold.
func NewWideGateRule(maxChildren int) *WideGateRule {
	if maxChildren <= 0 {
		maxChildren = 12
	}
	return &WideGateRule{maxChildren: maxChildren}
}

func (r *WideGateRule) ID() string         { return "RV022" }
func (r *WideGateRule) Name() string       { return "wide-gate" }
func (r *WideGateRule) Category() Category { return CategoryHygiene }
func (r *WideGateRule) Severity() Severity { return SeverityInfo }
func (r *WideGateRule) Description() string {
	return "Gates with very many direct children render as unreadable diagram rows and typically group distinct failure modes that deserve intermediate gates."
}

func (r *WideGateRule) Check(ctx context.Context, graph *model.Graph) []Issue {
	var issues []Issue
	for _, gate := range graph.GateList {
		if len(gate.Children) <= r.maxChildren {
			continue
		}
		issues = append(issues, Issue{
			RuleID:      r.ID(),
			RuleName:    r.Name(),
			Severity:    r.Severity(),
			Category:    r.Category(),
			Message:     fmt.Sprintf("Gate '%s' has %d children (threshold %d)", gate.ID, len(gate.Children), r.maxChildren),
			Description: r.Description(),
			Suggestion:  "Group related children under intermediate gates",
			ElementID:   gate.ID,
			ElementType: "gate",
		})
	}
	return issues
}
