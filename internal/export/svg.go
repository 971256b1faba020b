package export

import (
	"bytes"
	"fmt"

	"github.com/riskview/riskview/internal/diagram"
)

const svgMargin = 8

// ExportSVG renders a laid-out diagram scene as an SVG document. The
// document is sized by the scene bounding box plus a small margin.
func (e *Exporter) ExportSVG(scene *diagram.Scene) (string, error) {
	if scene == nil {
		return "", fmt.Errorf("export svg: nil scene")
	}

	width, height := scene.Size()
	width += 2 * svgMargin
	height += 2 * svgMargin

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	buf.WriteString(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height))
	buf.WriteString(`  <style>text { font-family: Helvetica, sans-serif; }</style>` + "\n")

	// Edges first so boxes paint over the joints.
	scene.Render(nil, func(edge diagram.Edge) {
		buf.WriteString(fmt.Sprintf(
			`  <line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#57606a" stroke-width="1"/>`+"\n",
			edge.FromX+svgMargin, edge.FromY+svgMargin, edge.ToX+svgMargin, edge.ToY+svgMargin))
	})

	scene.Render(func(box diagram.Box) {
		fill, stroke, text := boxColors(box.Kind)
		buf.WriteString(fmt.Sprintf(
			`  <rect x="%d" y="%d" width="%d" height="%d" rx="4" fill="%s" stroke="%s"/>`+"\n",
			box.X+svgMargin, box.Y+svgMargin, box.W, box.H, fill, stroke))

		cx := box.X + svgMargin + box.W/2
		buf.WriteString(fmt.Sprintf(
			`  <text x="%d" y="%d" text-anchor="middle" font-size="12" fill="%s">%s</text>`+"\n",
			cx, box.Y+svgMargin+18, text, escapeSVG(box.Title)))
		if box.Subtitle != "" {
			buf.WriteString(fmt.Sprintf(
				`  <text x="%d" y="%d" text-anchor="middle" font-size="10" fill="%s">%s</text>`+"\n",
				cx, box.Y+svgMargin+32, text, escapeSVG(box.Subtitle)))
		}
	}, nil)

	buf.WriteString("</svg>\n")
	return buf.String(), nil
}

func boxColors(kind diagram.BoxKind) (fill, stroke, text string) {
	switch kind {
	case diagram.BoxGate:
		return "#a371f7", "#8b5cf6", "#ffffff"
	case diagram.BoxHouseEvent:
		return "#79c0ff", "#3b82f6", "#000000"
	default:
		return "#7ee787", "#22c55e", "#000000"
	}
}

func escapeSVG(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
