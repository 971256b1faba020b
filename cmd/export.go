package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/riskview/riskview/internal/analysis"
	"github.com/riskview/riskview/internal/config"
	"github.com/riskview/riskview/internal/diagram"
	"github.com/riskview/riskview/internal/export"
	"github.com/riskview/riskview/internal/model"
)

var exportCmd = &cobra.Command{
	Use:   "export [model files...]",
	Short: "Export the model or its analysis results to a file",
	Long: `Exports the loaded model as a diagram (svg, dot, mermaid) or document
(markdown), or the analysis results as json. The markdown and json
formats include analysis results when a report file is configured.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("format", "f", "markdown", "output format: svg, dot, mermaid, markdown, json")
	exportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	exportCmd.Flags().String("fault-tree", "", "fault tree to diagram (default: first in the model)")
	exportCmd.Flags().String("report", "", "analysis report file (overrides config)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	logger := newLogger()

	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	treeName, _ := cmd.Flags().GetString("fault-tree")
	report, _ := cmd.Flags().GetString("report")

	graph, err := model.Load(args)
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}

	settings, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if report != "" {
		settings.ReportFile = report
	}

	// Results are optional for markdown and required for json.
	var results *analysis.ResultSet
	if settings.ReportFile != "" {
		engine := analysis.NewReportEngine(logger, settings.ReportFile)
		results, err = engine.Analyze(ctx, graph, settings)
		if err != nil {
			return fmt.Errorf("reading report: %w", err)
		}
	}

	exporter := export.NewExporter()
	var content string

	switch format {
	case "svg":
		scene, err := buildScene(logger, graph, treeName)
		if err != nil {
			return err
		}
		defer scene.Close()
		content, err = exporter.ExportSVG(scene)
		if err != nil {
			return err
		}
	case "dot":
		content, err = exporter.ExportDOT(graph)
		if err != nil {
			return err
		}
	case "mermaid":
		content, err = exporter.ExportMermaid(graph)
		if err != nil {
			return err
		}
	case "markdown":
		content, err = exporter.ExportMarkdown(graph, results)
		if err != nil {
			return err
		}
	case "json":
		if results == nil {
			return fmt.Errorf("json export needs analysis results: set report_file in the config or pass --report")
		}
		data, err := exporter.ExportJSON(results)
		if err != nil {
			return err
		}
		content = string(data)
	default:
		return fmt.Errorf("unknown format %q: must be one of svg, dot, mermaid, markdown, json", format)
	}

	if output == "" {
		fmt.Print(content)
		return nil
	}
	if err := os.WriteFile(output, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", output, len(content))
	}
	return nil
}

// buildScene lays out the diagram for the requested fault tree, defaulting
// to the first one defined in the model.
func buildScene(logger *slog.Logger, graph *model.Graph, treeName string) (*diagram.Scene, error) {
	if len(graph.FaultTrees) == 0 {
		return nil, fmt.Errorf("the model defines no fault trees")
	}

	tree := graph.FaultTrees[0]
	if treeName != "" {
		tree = nil
		for _, ft := range graph.FaultTrees {
			if ft.Name == treeName {
				tree = ft
				break
			}
		}
		if tree == nil {
			return nil, fmt.Errorf("unknown fault tree %q", treeName)
		}
	}
	if len(tree.TopGates) == 0 {
		return nil, fmt.Errorf("fault tree %q has no top gate", tree.Name)
	}

	root := graph.Gate(tree.TopGates[0])
	if root == nil {
		return nil, fmt.Errorf("top gate %q of fault tree %q is not defined", tree.TopGates[0], tree.Name)
	}
	return diagram.NewBuilder(logger, graph).Build(root)
}
