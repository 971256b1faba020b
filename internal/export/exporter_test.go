package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/riskview/riskview/internal/analysis"
	"github.com/riskview/riskview/internal/diagram"
	"github.com/riskview/riskview/internal/model"
)

func testGraph() *model.Graph {
	g := model.NewGraph("two-train")
	p := 0.01
	top := &model.Gate{
		ID:         "trains-fail",
		Connective: model.ConnectiveAnd,
		Children: []model.ChildRef{
			{Kind: model.ChildGate, ID: "train-a"},
			{Kind: model.ChildGate, ID: "train-b"},
		},
	}
	trainA := &model.Gate{
		ID:         "train-a",
		Connective: model.ConnectiveOr,
		Children: []model.ChildRef{
			{Kind: model.ChildBasicEvent, ID: "pump-a"},
			{Kind: model.ChildHouseEvent, ID: "maintenance"},
		},
	}
	trainB := &model.Gate{
		ID:         "train-b",
		Connective: model.ConnectiveOr,
		Children: []model.ChildRef{
			{Kind: model.ChildBasicEvent, ID: "pump-b"},
		},
	}
	for _, gate := range []*model.Gate{top, trainA, trainB} {
		g.Gates[gate.ID] = gate
		g.GateList = append(g.GateList, gate)
	}
	for _, id := range []string{"pump-a", "pump-b"} {
		be := &model.BasicEvent{ID: id, Probability: &p}
		g.BasicEvents[id] = be
		g.BasicEventList = append(g.BasicEventList, be)
	}
	he := &model.HouseEvent{ID: "maintenance", State: false}
	g.HouseEvents[he.ID] = he
	g.HouseEventList = append(g.HouseEventList, he)
	g.FaultTrees = []*model.FaultTree{{Name: "two-train", TopGates: []string{"trains-fail"}}}
	return g
}

func testResults() *analysis.ResultSet {
	return analysis.NewResultSet([]analysis.ResultEntry{
		{
			Target: analysis.GateTarget("trains-fail"),
			FaultTree: &analysis.FaultTreeAnalysis{
				Products: []analysis.Product{
					{Literals: []analysis.Literal{{EventID: "pump-a"}, {EventID: "pump-b"}}, Probability: 1e-4},
				},
			},
			Probability: &analysis.ProbabilityAnalysis{TotalProbability: 1e-4},
		},
	})
}

func TestExportJSON(t *testing.T) {
	data, err := NewExporter().ExportJSON(testResults())
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var rs analysis.ResultSet
	if err := json.Unmarshal(data, &rs); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(rs.Results) != 1 {
		t.Errorf("Results = %d, want 1", len(rs.Results))
	}
}

func TestExportDOT(t *testing.T) {
	out, err := NewExporter().ExportDOT(testGraph())
	if err != nil {
		t.Fatalf("ExportDOT failed: %v", err)
	}

	if !strings.HasPrefix(out, "digraph FaultTree {") {
		t.Error("DOT output should start with digraph declaration")
	}
	if !strings.Contains(out, `"trains-fail" -> "train-a"`) {
		t.Error("DOT output should contain the gate edge")
	}
	if !strings.Contains(out, `"train-a" -> "pump-a"`) {
		t.Error("DOT output should contain the event edge")
	}
	if !strings.Contains(out, "subgraph cluster_gates") {
		t.Error("DOT output should group gates in a cluster")
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "}") {
		t.Error("DOT output should be closed")
	}
}

func TestExportMermaid(t *testing.T) {
	out, err := NewExporter().ExportMermaid(testGraph())
	if err != nil {
		t.Fatalf("ExportMermaid failed: %v", err)
	}

	if !strings.Contains(out, "flowchart TB") {
		t.Error("Mermaid output should declare a flowchart")
	}
	if !strings.Contains(out, "trainsfail ==> traina") {
		t.Error("Mermaid output should contain the gate edge with sanitized IDs")
	}
	if !strings.Contains(out, "traina -.-> maintenance") {
		t.Error("Mermaid output should render house event edges dashed")
	}
}

func TestExportMarkdown(t *testing.T) {
	out, err := NewExporter().ExportMarkdown(testGraph(), testResults())
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}

	if !strings.Contains(out, "# two-train") {
		t.Error("Markdown output should start with the model name")
	}
	if !strings.Contains(out, "| Gates | 3 |") {
		t.Error("Markdown output should count gates")
	}
	if !strings.Contains(out, "### trains-fail") {
		t.Error("Markdown output should contain the result section")
	}
	if !strings.Contains(out, "**Probability:** 0.0001") {
		t.Error("Markdown output should contain the total probability")
	}
	if !strings.Contains(out, "```mermaid") {
		t.Error("Markdown output should embed the mermaid graph")
	}
}

func TestExportMarkdownWithoutResults(t *testing.T) {
	out, err := NewExporter().ExportMarkdown(testGraph(), nil)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if strings.Contains(out, "## Analysis Results") {
		t.Error("Markdown output should omit the results section")
	}
}

func TestExportSVG(t *testing.T) {
	g := testGraph()
	builder := diagram.NewBuilder(slog.New(slog.DiscardHandler), g)
	scene, err := builder.Build(g.Gates["trains-fail"])
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	out, err := NewExporter().ExportSVG(scene)
	if err != nil {
		t.Fatalf("ExportSVG failed: %v", err)
	}

	if !strings.Contains(out, "<svg xmlns=") {
		t.Error("SVG output should contain the svg element")
	}
	width, height := scene.Size()
	wantSize := fmt.Sprintf(`width="%d" height="%d"`, width+2*svgMargin, height+2*svgMargin)
	if !strings.Contains(out, wantSize) {
		t.Errorf("SVG output should be sized by the scene bounding box, want %s", wantSize)
	}
	if strings.Count(out, "<rect ") != len(scene.Boxes()) {
		t.Errorf("rects = %d, want %d", strings.Count(out, "<rect "), len(scene.Boxes()))
	}
	if strings.Count(out, "<line ") != len(scene.Edges()) {
		t.Errorf("lines = %d, want %d", strings.Count(out, "<line "), len(scene.Edges()))
	}
	if !strings.Contains(out, ">trains-fail<") {
		t.Error("SVG output should label the root gate")
	}
}

func TestExportSVGNilScene(t *testing.T) {
	if _, err := NewExporter().ExportSVG(nil); err == nil {
		t.Fatal("expected error for nil scene")
	}
}
