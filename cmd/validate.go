package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riskview/riskview/internal/model"
	"github.com/riskview/riskview/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [model files...]",
	Short: "Check a fault-tree model for structural and data problems",
	Long: `Runs the validation rules against the loaded model: undefined references,
cycles, probability ranges, unreferenced events, and similar problems.
The exit code is non-zero when errors are found.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("format", "text", "output format: text, text-no-color, json, github")
	validateCmd.Flags().String("severity", "info", "minimum severity to report: error, warning, info")
	validateCmd.Flags().Bool("strict", false, "fail on warnings too")
	validateCmd.Flags().StringSlice("disable", nil, "rule IDs to disable")
	validateCmd.Flags().Bool("list-rules", false, "list available rules and exit")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	format, _ := cmd.Flags().GetString("format")
	severity, _ := cmd.Flags().GetString("severity")
	strict, _ := cmd.Flags().GetBool("strict")
	disabled, _ := cmd.Flags().GetStringSlice("disable")
	listRules, _ := cmd.Flags().GetBool("list-rules")

	if listRules {
		v := validate.NewValidator(validate.DefaultConfig())
		for _, info := range v.ListRules() {
			fmt.Printf("%-6s %-24s %-8s %s\n", info.ID, info.Name, info.Severity, info.Description)
		}
		return nil
	}

	cfg := validate.DefaultConfig()
	cfg.MinSeverity = validate.Severity(severity)
	cfg.FailOnWarning = strict
	cfg.DisabledRules = disabled

	graph, err := model.Load(args)
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}

	result := validate.NewValidator(cfg).Run(ctx, graph)

	formatter := validate.NewFormatter(format)
	if err := formatter.Format(result, os.Stdout); err != nil {
		return fmt.Errorf("formatting results: %w", err)
	}

	if result.ExitCode != 0 {
		os.Exit(result.ExitCode)
	}
	return nil
}
