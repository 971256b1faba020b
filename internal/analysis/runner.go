package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/riskview/riskview/internal/config"
	"github.com/riskview/riskview/internal/model"
)

// Completion is the single message delivered when an analysis run ends.
type Completion struct {
	Results *ResultSet
	Err     error
	Elapsed time.Duration
}

// Runner executes an engine off the interaction goroutine. The returned
// channel delivers exactly one Completion per run; there is no partial
// delivery and no cancellation beyond the context.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logger}
}

// Start launches the analysis and returns the completion channel. The
// channel is buffered so the worker never blocks on a receiver that has
// not arrived yet.
func (r *Runner) Start(ctx context.Context, engine Engine, graph *model.Graph, settings *config.Settings) <-chan Completion {
	done := make(chan Completion, 1)

	go func() {
		start := time.Now()
		results, err := engine.Analyze(ctx, graph, settings)
		elapsed := time.Since(start)

		if err != nil {
			r.logger.Error("Analysis failed", "error", err, "elapsed", elapsed)
		} else {
			r.logger.Info("Analysis complete", "results", len(results.Results), "elapsed", elapsed)
		}
		done <- Completion{Results: results, Err: err, Elapsed: elapsed}
	}()

	return done
}
