package validate

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func sampleResult() *Result {
	return &Result{
		Issues: []Issue{
			{
				RuleID:     "RV001",
				RuleName:   "undefined-reference",
				Severity:   SeverityError,
				Message:    "Gate 'top' references undefined gate 'ghost'",
				ElementID:  "top",
				Suggestion: "Define the missing element",
			},
			{
				RuleID:    "RV020",
				RuleName:  "unreferenced-event",
				Severity:  SeverityWarning,
				Message:   "Basic event 'spare' is defined but never referenced",
				ElementID: "spare",
			},
		},
		ErrorCount:    1,
		WarnCount:     1,
		TotalElements: 5,
		ExitCode:      1,
	}
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []string{"json", "github", "text", "text-no-color", "", "unknown"} {
		t.Run(format, func(t *testing.T) {
			if NewFormatter(format) == nil {
				t.Fatal("NewFormatter returned nil")
			}
		})
	}
}

func TestTextFormatter(t *testing.T) {
	f := &TextFormatter{Color: false}
	var buf bytes.Buffer
	if err := f.Format(sampleResult(), &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "undefined gate 'ghost'") {
		t.Error("Output should contain the error message")
	}
	if !strings.Contains(output, "never referenced") {
		t.Error("Output should contain the warning message")
	}
	if !strings.Contains(output, "RV001") {
		t.Error("Output should contain the rule ID")
	}
	if strings.Contains(output, "\033[") {
		t.Error("Color disabled, output should carry no ANSI codes")
	}
}

func TestTextFormatterNoIssues(t *testing.T) {
	f := &TextFormatter{Color: false}
	var buf bytes.Buffer
	if err := f.Format(&Result{Issues: []Issue{}}, &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No issues found") {
		t.Error("Output should report no issues")
	}
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONFormatter{}
	var buf bytes.Buffer
	if err := f.Format(sampleResult(), &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var output JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if output.Summary.Errors != 1 || output.Summary.Warnings != 1 {
		t.Errorf("Summary = %+v, want 1 error and 1 warning", output.Summary)
	}
	if output.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", output.ExitCode)
	}
	if len(output.Issues) != 2 {
		t.Errorf("Issues = %d, want 2", len(output.Issues))
	}
}

func TestGitHubFormatter(t *testing.T) {
	f := &GitHubFormatter{}
	var buf bytes.Buffer
	if err := f.Format(sampleResult(), &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "::error ") {
		t.Error("Output should contain an error annotation")
	}
	if !strings.Contains(output, "::warning ") {
		t.Error("Output should contain a warning annotation")
	}
	if !strings.Contains(output, "::group::Validation Summary") {
		t.Error("Output should contain the summary group")
	}
}
