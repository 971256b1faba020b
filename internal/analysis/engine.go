package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riskview/riskview/internal/config"
	"github.com/riskview/riskview/internal/model"
)

// Engine computes a complete result set for a model under the given
// settings. Implementations run to completion: there is no partial or
// streaming delivery.
type Engine interface {
	Analyze(ctx context.Context, graph *model.Graph, settings *config.Settings) (*ResultSet, error)
}

// reportEngine is an Engine backed by a precomputed report file. It
// stands in for the external analysis engine: the results were computed
// elsewhere and are only checked against the model and trimmed to the
// requested sub-analyses.
type reportEngine struct {
	logger *slog.Logger
	path   string
}

// NewReportEngine returns an Engine that loads results from the report
// file at path.
func NewReportEngine(logger *slog.Logger, path string) Engine {
	return &reportEngine{logger: logger, path: path}
}

// Analyze loads the report, verifies every gate target exists in the
// model, and drops sub-analyses the settings disable.
func (e *reportEngine) Analyze(ctx context.Context, graph *model.Graph, settings *config.Settings) (*ResultSet, error) {
	if graph == nil {
		return nil, fmt.Errorf("no model loaded")
	}

	entries, err := LoadReport(e.path)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		entry := &entries[i]
		if entry.Target.Kind == TargetGate && graph.Gate(entry.Target.Gate) == nil {
			return nil, fmt.Errorf("report target %q is not a gate in model %q",
				entry.Target.Gate, graph.Name)
		}
		if !settings.ProbabilityAnalysis {
			entry.Probability = nil
		}
		if !settings.ImportanceAnalysis {
			entry.Importance = nil
		}
	}

	results := NewResultSet(entries)
	e.logger.Info("Loaded analysis report",
		"file", e.path,
		"results", len(results.Results),
		"generation", results.Generation)
	return results, nil
}
