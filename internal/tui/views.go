package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/riskview/riskview/internal/diagram"
	"github.com/riskview/riskview/internal/model"
	"github.com/riskview/riskview/internal/tui/theme"
)

// renderView renders the content of a view for the main pane.
func renderView(styles *theme.Styles, v *View) string {
	if v == nil {
		return styles.Muted.Render("No view open. Select an entry and press enter.")
	}
	switch v.Kind {
	case ViewDiagram:
		return renderDiagram(styles, v.Scene)
	case ViewTable:
		return renderTable(styles, v.Table)
	default:
		return ""
	}
}

// renderTable renders a table with per-column widths derived from the
// widest cell.
func renderTable(styles *theme.Styles, t *Table) string {
	if t == nil || len(t.Columns) == 0 {
		return ""
	}

	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = lipgloss.Width(col)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	for i, col := range t.Columns {
		b.WriteString(styles.TableHeader.Render(pad(col, widths[i])))
	}
	b.WriteString("\n")

	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				b.WriteString(styles.TableCell.Render(pad(cell, widths[i])))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderDiagram renders a scene as an indented gate tree. A gate that
// was already printed renders as a transfer marker instead of
// re-descending, mirroring the deduplicated structure.
func renderDiagram(styles *theme.Styles, scene *diagram.Scene) string {
	if scene == nil || scene.Root() == nil {
		return ""
	}

	var b strings.Builder
	printed := make(map[string]bool)
	renderNode(styles, &b, scene.Root(), 0, printed)
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render(
		fmt.Sprintf("%d gates, %d edges", scene.NodeCount(), scene.EdgeCount())))
	return b.String()
}

func renderNode(styles *theme.Styles, b *strings.Builder, n *diagram.VisualNode, depth int, printed map[string]bool) {
	indent := strings.Repeat("  ", depth)

	if printed[n.GateID] {
		b.WriteString(indent)
		b.WriteString(styles.Gate.Render("▲ " + n.GateID))
		b.WriteString(styles.Muted.Render(" (transfer)"))
		b.WriteString("\n")
		return
	}
	printed[n.GateID] = true

	b.WriteString(indent)
	b.WriteString(styles.Gate.Render(n.GateID))
	b.WriteString(styles.Muted.Render(" [" + connectiveText(n) + "]"))
	b.WriteString("\n")

	for _, child := range n.Children {
		renderNode(styles, b, child, depth+1, printed)
	}
	for _, leaf := range n.Leaves {
		b.WriteString(strings.Repeat("  ", depth+1))
		b.WriteString(renderLeaf(styles, leaf))
		b.WriteString("\n")
	}
}

func renderLeaf(styles *theme.Styles, leaf diagram.EventBox) string {
	switch leaf.Kind {
	case model.ChildHouseEvent:
		return styles.HouseEvent.Render("⌂ " + leaf.ID)
	default:
		s := styles.BasicEvent.Render("○ " + leaf.ID)
		if leaf.Probability != nil {
			s += styles.Muted.Render(fmt.Sprintf(" p=%g", *leaf.Probability))
		}
		return s
	}
}

func connectiveText(n *diagram.VisualNode) string {
	if n.Connective == model.ConnectiveAtLeast {
		return fmt.Sprintf("atleast %d", n.MinNumber)
	}
	return string(n.Connective)
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
