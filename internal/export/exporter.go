// Package export renders the loaded model and its analysis results to
// external formats: SVG for diagrams, DOT and Mermaid for the gate
// graph, JSON and Markdown for results.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/riskview/riskview/internal/analysis"
	"github.com/riskview/riskview/internal/model"
)

// Exporter provides export functionality for models and result sets.
type Exporter struct{}

// NewExporter creates a new Exporter instance.
func NewExporter() *Exporter {
	return &Exporter{}
}

// ExportJSON exports a result set as pretty-printed JSON.
func (e *Exporter) ExportJSON(rs *analysis.ResultSet) ([]byte, error) {
	return json.MarshalIndent(rs, "", "  ")
}

// ExportDOT exports the gate graph as DOT format for Graphviz.
func (e *Exporter) ExportDOT(graph *model.Graph) (string, error) {
	var buf bytes.Buffer

	buf.WriteString("digraph FaultTree {\n")
	buf.WriteString("  graph [rankdir=TB, splines=ortho, nodesep=0.8, ranksep=1.0];\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	if len(graph.GateList) > 0 {
		buf.WriteString("  subgraph cluster_gates {\n")
		buf.WriteString("    label=\"Gates\";\n")
		buf.WriteString("    style=dashed;\n")
		buf.WriteString("    color=\"#a371f7\";\n")
		for _, gate := range graph.GateList {
			buf.WriteString(fmt.Sprintf("    \"%s\" [label=\"%s\\n%s\", fillcolor=\"#a371f7\", fontcolor=\"white\"];\n",
				escapeDOT(gate.ID), escapeDOT(gate.ID), gateSubtitle(gate)))
		}
		buf.WriteString("  }\n\n")
	}

	if len(graph.BasicEventList) > 0 {
		buf.WriteString("  subgraph cluster_basic_events {\n")
		buf.WriteString("    label=\"Basic Events\";\n")
		buf.WriteString("    style=dashed;\n")
		buf.WriteString("    color=\"#7ee787\";\n")
		for _, be := range graph.BasicEventList {
			label := escapeDOT(be.ID)
			if be.HasProbability() {
				label = fmt.Sprintf("%s\\n%g", label, *be.Probability)
			}
			buf.WriteString(fmt.Sprintf("    \"%s\" [label=\"%s\", fillcolor=\"#7ee787\", fontcolor=\"black\"];\n",
				escapeDOT(be.ID), label))
		}
		buf.WriteString("  }\n\n")
	}

	for _, he := range graph.HouseEventList {
		buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\\n(%t)\", fillcolor=\"#79c0ff\"];\n",
			escapeDOT(he.ID), escapeDOT(he.ID), he.State))
	}

	buf.WriteString("\n  // Edges\n")
	for _, gate := range graph.GateList {
		for _, child := range gate.Children {
			buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [%s];\n",
				escapeDOT(gate.ID), escapeDOT(child.ID), edgeStyle(child.Kind)))
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// ExportMermaid exports the gate graph as Mermaid diagram format.
func (e *Exporter) ExportMermaid(graph *model.Graph) (string, error) {
	var buf bytes.Buffer

	buf.WriteString("```mermaid\nflowchart TB\n")

	buf.WriteString("\n    %% Node definitions\n")
	for _, gate := range graph.GateList {
		buf.WriteString(fmt.Sprintf("    %s[\"%s (%s)\"]\n",
			mermaidID(gate.ID), gate.ID, gateSubtitle(gate)))
	}
	for _, be := range graph.BasicEventList {
		buf.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", mermaidID(be.ID), be.ID))
	}
	for _, he := range graph.HouseEventList {
		buf.WriteString(fmt.Sprintf("    %s{{\"%s\"}}\n", mermaidID(he.ID), he.ID))
	}

	buf.WriteString("\n    %% Connections\n")
	for _, gate := range graph.GateList {
		fromID := mermaidID(gate.ID)
		for _, child := range gate.Children {
			toID := mermaidID(child.ID)
			switch child.Kind {
			case model.ChildGate:
				buf.WriteString(fmt.Sprintf("    %s ==> %s\n", fromID, toID))
			case model.ChildHouseEvent:
				buf.WriteString(fmt.Sprintf("    %s -.-> %s\n", fromID, toID))
			default:
				buf.WriteString(fmt.Sprintf("    %s --> %s\n", fromID, toID))
			}
		}
	}

	buf.WriteString("\n    %% Styles\n")
	buf.WriteString("    classDef gate fill:#a371f7,stroke:#8b5cf6,color:#fff\n")
	buf.WriteString("    classDef basic fill:#7ee787,stroke:#22c55e,color:#000\n")
	buf.WriteString("    classDef house fill:#79c0ff,stroke:#3b82f6,color:#000\n")

	var gates, basics, houses []string
	for _, gate := range graph.GateList {
		gates = append(gates, mermaidID(gate.ID))
	}
	for _, be := range graph.BasicEventList {
		basics = append(basics, mermaidID(be.ID))
	}
	for _, he := range graph.HouseEventList {
		houses = append(houses, mermaidID(he.ID))
	}
	if len(gates) > 0 {
		buf.WriteString(fmt.Sprintf("    class %s gate\n", strings.Join(gates, ",")))
	}
	if len(basics) > 0 {
		buf.WriteString(fmt.Sprintf("    class %s basic\n", strings.Join(basics, ",")))
	}
	if len(houses) > 0 {
		buf.WriteString(fmt.Sprintf("    class %s house\n", strings.Join(houses, ",")))
	}

	buf.WriteString("```\n")
	return buf.String(), nil
}

// ExportMarkdown exports the model, and optionally its analysis results,
// as Markdown documentation.
func (e *Exporter) ExportMarkdown(graph *model.Graph, rs *analysis.ResultSet) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", graph.Name))

	buf.WriteString("## Statistics\n\n")
	buf.WriteString("| Metric | Count |\n")
	buf.WriteString("|--------|-------|\n")
	buf.WriteString(fmt.Sprintf("| Fault Trees | %d |\n", len(graph.FaultTrees)))
	buf.WriteString(fmt.Sprintf("| Gates | %d |\n", len(graph.GateList)))
	buf.WriteString(fmt.Sprintf("| Basic Events | %d |\n", len(graph.BasicEventList)))
	buf.WriteString(fmt.Sprintf("| House Events | %d |\n", len(graph.HouseEventList)))
	buf.WriteString("\n")

	buf.WriteString("## Fault Trees\n\n")
	for _, ft := range graph.FaultTrees {
		buf.WriteString(fmt.Sprintf("### %s\n\n", ft.Name))
		buf.WriteString("**Top gates:**\n")
		for _, top := range ft.TopGates {
			buf.WriteString(fmt.Sprintf("- `%s`\n", top))
		}
		buf.WriteString("\n")
	}

	if len(graph.BasicEventList) > 0 {
		buf.WriteString("## Basic Events\n\n")
		buf.WriteString("| Id | Label | Probability |\n")
		buf.WriteString("|----|-------|-------------|\n")
		for _, be := range graph.BasicEventList {
			prob := ""
			if be.HasProbability() {
				prob = fmt.Sprintf("%g", *be.Probability)
			}
			buf.WriteString(fmt.Sprintf("| `%s` | %s | %s |\n", be.ID, be.Label, prob))
		}
		buf.WriteString("\n")
	}

	if rs != nil && len(rs.Results) > 0 {
		buf.WriteString("## Analysis Results\n\n")
		for _, entry := range rs.Results {
			name, err := entry.Target.DisplayName()
			if err != nil {
				return "", err
			}
			buf.WriteString(fmt.Sprintf("### %s\n\n", name))
			if entry.FaultTree != nil {
				buf.WriteString(fmt.Sprintf("- **Products:** %d\n", len(entry.FaultTree.Products)))
			}
			if entry.Probability != nil {
				buf.WriteString(fmt.Sprintf("- **Probability:** %g\n", entry.Probability.TotalProbability))
			}
			if entry.Importance != nil {
				buf.WriteString(fmt.Sprintf("- **Importance records:** %d\n", len(entry.Importance.Records)))
			}
			buf.WriteString("\n")
		}
	}

	mermaid, _ := e.ExportMermaid(graph)
	buf.WriteString("## Gate Graph\n\n")
	buf.WriteString(mermaid)

	return buf.String(), nil
}

// Helper functions

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func mermaidID(name string) string {
	// Valid Mermaid ID (alphanumeric and underscore only)
	result := strings.Builder{}
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func gateSubtitle(gate *model.Gate) string {
	if gate.Connective == model.ConnectiveAtLeast {
		return fmt.Sprintf("atleast %d", gate.MinNumber)
	}
	return string(gate.Connective)
}

func edgeStyle(kind model.ChildKind) string {
	switch kind {
	case model.ChildGate:
		return "style=bold, color=\"#a371f7\""
	case model.ChildHouseEvent:
		return "style=dashed, color=\"#79c0ff\""
	default:
		return "style=solid, color=\"#7ee787\""
	}
}
