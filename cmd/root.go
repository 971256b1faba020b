package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "riskview",
	Short: "Terminal browser for fault-tree risk analysis results",
	Long: `riskview loads fault-tree models in the Open-PSA MEF XML format and lets
you browse the analysis results in the terminal: fault-tree diagrams,
minimal cut set tables, probabilities, and importance factors.

Running riskview with model files and no subcommand opens the browser.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runBrowse(cmd, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".riskview.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger returns the logger for non-interactive commands. Without
// --verbose only warnings and errors reach stderr.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newTUILogger returns the logger for the interactive browser. Writing to
// stderr would corrupt the alternate screen, so logs go to a file when
// --verbose is set and are discarded otherwise.
func newTUILogger() (*slog.Logger, func(), error) {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile("riskview.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}
