package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riskview/riskview/internal/analysis"
	"github.com/riskview/riskview/internal/config"
	"github.com/riskview/riskview/internal/model"
	"github.com/riskview/riskview/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse [model files...]",
	Short: "Browse a fault-tree model and its analysis results interactively",
	Long: `Loads one or more Open-PSA MEF XML files into a single model and opens
the interactive browser. Press R inside the browser to run the analysis.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().String("report", "", "analysis report file (overrides config)")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	logger, closeLog, err := newTUILogger()
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closeLog()

	settings, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if report, _ := cmd.Flags().GetString("report"); report != "" {
		settings.ReportFile = report
	}

	graph, err := model.Load(args)
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}

	engine := analysis.NewReportEngine(logger, settings.ReportFile)
	return tui.NewTUI(logger).Run(ctx, graph, settings, engine)
}
