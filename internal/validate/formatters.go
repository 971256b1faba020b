package validate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Helper functions to suppress errcheck warnings for formatting output.
// These are used for writing to output streams where errors are non-fatal.
func fprintf(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

// Formatter defines the interface for output formatters.
type Formatter interface {
	Format(result *Result, w io.Writer) error
}

// NewFormatter creates a formatter for the given format type.
func NewFormatter(format string) Formatter {
	switch format {
	case "json":
		return &JSONFormatter{}
	case "github":
		return &GitHubFormatter{}
	case "text", "":
		return &TextFormatter{Color: true}
	case "text-no-color":
		return &TextFormatter{Color: false}
	default:
		return &TextFormatter{Color: true}
	}
}

// =============================================================================
// Text Formatter (Human Readable)
// =============================================================================

// TextFormatter outputs human-readable text.
type TextFormatter struct {
	Color bool
}

func (f *TextFormatter) Format(result *Result, w io.Writer) error {
	red := ""
	yellow := ""
	blue := ""
	reset := ""
	bold := ""
	dim := ""

	if f.Color {
		red = "\033[31m"
		yellow = "\033[33m"
		blue = "\033[34m"
		reset = "\033[0m"
		bold = "\033[1m"
		dim = "\033[2m"
	}

	fprintf(w, "\n%s%sriskview - Model Validation%s\n", bold, blue, reset)
	fprintf(w, "%s══════════════════════════════════════════════════════════════════%s\n\n", dim, reset)

	if len(result.Issues) == 0 {
		fprintf(w, "%s✓ No issues found!%s\n\n", bold, reset)
		return nil
	}

	// Group issues by element
	byElement := make(map[string][]Issue)
	order := make([]string, 0)
	for _, issue := range result.Issues {
		key := issue.ElementID
		if key == "" {
			key = "model"
		}
		if _, seen := byElement[key]; !seen {
			order = append(order, key)
		}
		byElement[key] = append(byElement[key], issue)
	}

	for _, elementID := range order {
		fprintf(w, "%s%s%s\n", bold, elementID, reset)
		for _, issue := range byElement[elementID] {
			severityColor := blue
			severityIcon := "ℹ"
			switch issue.Severity {
			case SeverityError:
				severityColor = red
				severityIcon = "✖"
			case SeverityWarning:
				severityColor = yellow
				severityIcon = "⚠"
			}

			fprintf(w, "  %s%s%s %s%s%s %s\n",
				severityColor, severityIcon, reset,
				dim, issue.RuleID, reset,
				issue.Message)

			if issue.Suggestion != "" {
				fprintf(w, "     %s→ %s%s\n", dim, issue.Suggestion, reset)
			}
		}
		fprintln(w)
	}

	fprintf(w, "%s──────────────────────────────────────────────────────────────────%s\n", dim, reset)
	summary := []string{}
	if result.ErrorCount > 0 {
		summary = append(summary, fmt.Sprintf("%s%d error(s)%s", red, result.ErrorCount, reset))
	}
	if result.WarnCount > 0 {
		summary = append(summary, fmt.Sprintf("%s%d warning(s)%s", yellow, result.WarnCount, reset))
	}
	if result.InfoCount > 0 {
		summary = append(summary, fmt.Sprintf("%s%d info%s", blue, result.InfoCount, reset))
	}
	fprintf(w, "%s %s\n\n", bold, strings.Join(summary, ", "))

	return nil
}

// =============================================================================
// JSON Formatter
// =============================================================================

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// JSONOutput is the structure for JSON output.
type JSONOutput struct {
	Version       string  `json:"version"`
	Timestamp     string  `json:"timestamp"`
	TotalElements int     `json:"totalElements"`
	Summary       Summary `json:"summary"`
	Issues        []Issue `json:"issues"`
	ExitCode      int     `json:"exitCode"`
}

type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Total    int `json:"total"`
}

func (f *JSONFormatter) Format(result *Result, w io.Writer) error {
	output := JSONOutput{
		Version:       "1.0",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		TotalElements: result.TotalElements,
		Summary: Summary{
			Errors:   result.ErrorCount,
			Warnings: result.WarnCount,
			Info:     result.InfoCount,
			Total:    len(result.Issues),
		},
		Issues:   result.Issues,
		ExitCode: result.ExitCode,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// =============================================================================
// GitHub Actions Formatter
// =============================================================================

// GitHubFormatter outputs GitHub Actions workflow commands.
type GitHubFormatter struct{}

func (f *GitHubFormatter) Format(result *Result, w io.Writer) error {
	// Include each rule's description only once
	explainedRules := make(map[string]bool)

	for _, issue := range result.Issues {
		level := "notice"
		switch issue.Severity {
		case SeverityError:
			level = "error"
		case SeverityWarning:
			level = "warning"
		}

		message := issue.Message
		if !explainedRules[issue.RuleID] && issue.Description != "" {
			message += " Why: " + issue.Description
			explainedRules[issue.RuleID] = true
		}
		if issue.Suggestion != "" {
			message += " Suggestion: " + issue.Suggestion
		}

		fprintf(w, "::%s title=%s (%s)::%s\n", level, issue.RuleName, issue.RuleID, message)
	}

	fprintf(w, "::group::Validation Summary\n")
	fprintf(w, "Total: %d issue(s) - %d error(s), %d warning(s), %d info\n",
		len(result.Issues), result.ErrorCount, result.WarnCount, result.InfoCount)
	fprintf(w, "::endgroup::\n")

	return nil
}
