package validate

import (
	"context"
	"testing"

	"github.com/riskview/riskview/internal/model"
)

func TestUndefinedReferenceRule(t *testing.T) {
	g := testGraph()
	g.Gates["mid"].Children = append(g.Gates["mid"].Children,
		model.ChildRef{Kind: model.ChildBasicEvent, ID: "missing"})

	issues := (&UndefinedReferenceRule{}).Check(context.Background(), g)
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(issues))
	}
	if issues[0].ElementID != "mid" {
		t.Errorf("ElementID = %s, want mid", issues[0].ElementID)
	}
}

func TestEmptyGateRule(t *testing.T) {
	g := testGraph()
	addGate(g, &model.Gate{ID: "hollow", Connective: model.ConnectiveOr})
	g.Gates["mid"].Children = append(g.Gates["mid"].Children,
		model.ChildRef{Kind: model.ChildGate, ID: "hollow"})

	issues := (&EmptyGateRule{}).Check(context.Background(), g)
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(issues))
	}
	if issues[0].ElementID != "hollow" {
		t.Errorf("ElementID = %s, want hollow", issues[0].ElementID)
	}
}

func TestCircularDependencyRule(t *testing.T) {
	g := testGraph()
	// mid -> loop -> top -> mid
	addGate(g, &model.Gate{
		ID:         "loop",
		Connective: model.ConnectiveAnd,
		Children:   []model.ChildRef{{Kind: model.ChildGate, ID: "top"}},
	})
	g.Gates["mid"].Children = append(g.Gates["mid"].Children,
		model.ChildRef{Kind: model.ChildGate, ID: "loop"})

	issues := (&CircularDependencyRule{}).Check(context.Background(), g)
	if len(issues) == 0 {
		t.Fatal("expected a cycle issue")
	}
}

func TestCircularDependencyRuleSelfLoop(t *testing.T) {
	g := model.NewGraph("self")
	addGate(g, &model.Gate{
		ID:         "g",
		Connective: model.ConnectiveAnd,
		Children:   []model.ChildRef{{Kind: model.ChildGate, ID: "g"}},
	})

	issues := (&CircularDependencyRule{}).Check(context.Background(), g)
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(issues))
	}
}

func TestCircularDependencyRuleAcceptsSharedSubtree(t *testing.T) {
	// Diamond: two parents of the same gate is sharing, not a cycle.
	g := testGraph()
	g.Gates["top"].Children = append(g.Gates["top"].Children,
		model.ChildRef{Kind: model.ChildGate, ID: "mid"})

	issues := (&CircularDependencyRule{}).Check(context.Background(), g)
	if len(issues) != 0 {
		t.Errorf("issues = %v, want none", issues)
	}
}

func TestVoteThresholdRule(t *testing.T) {
	g := testGraph()
	addGate(g, &model.Gate{
		ID:         "vote",
		Connective: model.ConnectiveAtLeast,
		MinNumber:  3,
		Children: []model.ChildRef{
			{Kind: model.ChildBasicEvent, ID: "pump-a"},
			{Kind: model.ChildBasicEvent, ID: "pump-b"},
		},
	})
	g.Gates["top"].Children = append(g.Gates["top"].Children,
		model.ChildRef{Kind: model.ChildGate, ID: "vote"})

	issues := (&VoteThresholdRule{}).Check(context.Background(), g)
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(issues))
	}
	if issues[0].ElementID != "vote" {
		t.Errorf("ElementID = %s, want vote", issues[0].ElementID)
	}
}

func TestProbabilityRangeRule(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		want int
	}{
		{"zero", 0, 0},
		{"one", 1, 0},
		{"mid", 0.5, 0},
		{"negative", -0.1, 1},
		{"above one", 1.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := model.NewGraph("p")
			p := tt.p
			addBasicEvent(g, &model.BasicEvent{ID: "e", Probability: &p})

			issues := (&ProbabilityRangeRule{}).Check(context.Background(), g)
			if len(issues) != tt.want {
				t.Errorf("issues = %d, want %d", len(issues), tt.want)
			}
		})
	}
}

func TestMissingProbabilityRule(t *testing.T) {
	g := testGraph()
	addBasicEvent(g, &model.BasicEvent{ID: "bare"})
	g.Gates["mid"].Children = append(g.Gates["mid"].Children,
		model.ChildRef{Kind: model.ChildBasicEvent, ID: "bare"})

	issues := (&MissingProbabilityRule{}).Check(context.Background(), g)
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(issues))
	}
	if issues[0].ElementID != "bare" {
		t.Errorf("ElementID = %s, want bare", issues[0].ElementID)
	}
}

func TestUnreferencedEventRule(t *testing.T) {
	g := testGraph()
	addBasicEvent(g, &model.BasicEvent{ID: "spare"})
	addHouseEvent(g, &model.HouseEvent{ID: "maintenance", State: true})

	issues := (&UnreferencedEventRule{}).Check(context.Background(), g)
	if len(issues) != 2 {
		t.Fatalf("issues = %d, want 2", len(issues))
	}
}

func TestSingleChildGateRule(t *testing.T) {
	g := testGraph()
	addGate(g, &model.Gate{
		ID:         "wrap",
		Connective: model.ConnectiveOr,
		Children:   []model.ChildRef{{Kind: model.ChildGate, ID: "top"}},
	})
	// not gates are single-child by nature and must not be flagged
	addGate(g, &model.Gate{
		ID:         "inv",
		Connective: model.ConnectiveNot,
		Children:   []model.ChildRef{{Kind: model.ChildBasicEvent, ID: "pump-a"}},
	})
	issues := (&SingleChildGateRule{}).Check(context.Background(), g)
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(issues))
	}
	if issues[0].ElementID != "wrap" {
		t.Errorf("ElementID = %s, want wrap", issues[0].ElementID)
	}
}

func TestWideGateRule(t *testing.T) {
	g := model.NewGraph("wide")
	gate := &model.Gate{ID: "bus", Connective: model.ConnectiveOr}
	p := 0.1
	for _, id := range []string{"a", "b", "c", "d"} {
		addBasicEvent(g, &model.BasicEvent{ID: id, Probability: &p})
		gate.Children = append(gate.Children, model.ChildRef{Kind: model.ChildBasicEvent, ID: id})
	}
	addGate(g, gate)

	issues := NewWideGateRule(3).Check(context.Background(), g)
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(issues))
	}

	issues = NewWideGateRule(4).Check(context.Background(), g)
	if len(issues) != 0 {
		t.Errorf("issues = %d, want 0", len(issues))
	}
}
