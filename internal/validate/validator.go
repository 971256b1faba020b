package validate

import (
	"context"
	"sort"

	"github.com/riskview/riskview/internal/model"
)

// Config holds validator configuration.
type Config struct {
	// MinSeverity is the minimum severity level to report
	MinSeverity Severity
	// EnabledRules contains the IDs of rules to enable (empty means all)
	EnabledRules []string
	// DisabledRules contains the IDs of rules to disable
	DisabledRules []string
	// FailOnWarning treats warnings as failures for CI
	FailOnWarning bool
	// MaxIssues is the maximum number of issues to report (0 = unlimited)
	MaxIssues int
	// Thresholds allows overriding default rule thresholds
	Thresholds Thresholds
}

// Thresholds contains configurable thresholds for rules that have one.
type Thresholds struct {
	MaxGateChildren int `json:"maxGateChildren"`
}

// DefaultConfig returns a default validator configuration.
func DefaultConfig() *Config {
	return &Config{
		MinSeverity:   SeverityInfo,
		EnabledRules:  nil, // All rules enabled
		DisabledRules: nil,
		FailOnWarning: false,
		MaxIssues:     0, // Unlimited
		Thresholds: Thresholds{
			MaxGateChildren: 12,
		},
	}
}

// StrictConfig returns a strict configuration for CI.
func StrictConfig() *Config {
	cfg := DefaultConfig()
	cfg.FailOnWarning = true
	cfg.MinSeverity = SeverityWarning
	return cfg
}

// Result holds the results of a validation run.
type Result struct {
	Issues        []Issue `json:"issues"`
	ErrorCount    int     `json:"errorCount"`
	WarnCount     int     `json:"warningCount"`
	InfoCount     int     `json:"infoCount"`
	TotalElements int     `json:"totalElements"`
	ExitCode      int     `json:"exitCode"`
}

// Passed returns true if the run passed (no errors, and no warnings if
// strict).
func (r *Result) Passed(strict bool) bool {
	if r.ErrorCount > 0 {
		return false
	}
	if strict && r.WarnCount > 0 {
		return false
	}
	return true
}

// Validator orchestrates rule execution.
type Validator struct {
	config *Config
	rules  []Rule
}

// NewValidator creates a new validator with the given configuration.
func NewValidator(cfg *Config) *Validator {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	v := &Validator{
		config: cfg,
		rules:  make([]Rule, 0),
	}
	v.registerRules()
	return v
}

// registerRules registers all available validation rules.
func (v *Validator) registerRules() {
	// Structure Rules (RV001-RV004)
	v.rules = append(v.rules, &UndefinedReferenceRule{})
	v.rules = append(v.rules, &EmptyGateRule{})
	v.rules = append(v.rules, &CircularDependencyRule{})
	v.rules = append(v.rules, &VoteThresholdRule{})

	// Data Rules (RV010-RV011)
	v.rules = append(v.rules, &ProbabilityRangeRule{})
	v.rules = append(v.rules, &MissingProbabilityRule{})

	// Hygiene Rules (RV020-RV022)
	v.rules = append(v.rules, &UnreferencedEventRule{})
	v.rules = append(v.rules, &SingleChildGateRule{})
	v.rules = append(v.rules, NewWideGateRule(v.config.Thresholds.MaxGateChildren))
}

// isRuleEnabled checks if a rule should be executed.
func (v *Validator) isRuleEnabled(ruleID string) bool {
	for _, disabled := range v.config.DisabledRules {
		if disabled == ruleID {
			return false
		}
	}

	if len(v.config.EnabledRules) > 0 {
		for _, enabled := range v.config.EnabledRules {
			if enabled == ruleID {
				return true
			}
		}
		return false
	}

	return true
}

// shouldReport checks if an issue meets the minimum severity threshold.
func (v *Validator) shouldReport(issue Issue) bool {
	return issue.Severity.Level() >= v.config.MinSeverity.Level()
}

// Run executes all enabled rules against the model.
func (v *Validator) Run(ctx context.Context, graph *model.Graph) *Result {
	result := &Result{
		Issues:        make([]Issue, 0),
		TotalElements: len(graph.Gates) + len(graph.BasicEvents) + len(graph.HouseEvents),
	}

	var allIssues []Issue
	for _, rule := range v.rules {
		select {
		case <-ctx.Done():
			return result
		default:
		}

		if !v.isRuleEnabled(rule.ID()) {
			continue
		}

		for _, issue := range rule.Check(ctx, graph) {
			if !v.shouldReport(issue) {
				continue
			}
			allIssues = append(allIssues, issue)
		}
	}

	for _, issue := range allIssues {
		result.Issues = append(result.Issues, issue)

		switch issue.Severity {
		case SeverityError:
			result.ErrorCount++
		case SeverityWarning:
			result.WarnCount++
		case SeverityInfo:
			result.InfoCount++
		}

		if v.config.MaxIssues > 0 && len(result.Issues) >= v.config.MaxIssues {
			break
		}
	}

	// Most severe first, then by element for stable output.
	sort.Slice(result.Issues, func(i, j int) bool {
		if result.Issues[i].Severity.Level() != result.Issues[j].Severity.Level() {
			return result.Issues[i].Severity.Level() > result.Issues[j].Severity.Level()
		}
		if result.Issues[i].ElementID != result.Issues[j].ElementID {
			return result.Issues[i].ElementID < result.Issues[j].ElementID
		}
		return result.Issues[i].RuleID < result.Issues[j].RuleID
	})

	if result.ErrorCount > 0 {
		result.ExitCode = 1
	} else if v.config.FailOnWarning && result.WarnCount > 0 {
		result.ExitCode = 1
	}

	return result
}

// ListRules returns all available rules.
func (v *Validator) ListRules() []RuleInfo {
	info := make([]RuleInfo, 0, len(v.rules))
	for _, rule := range v.rules {
		info = append(info, RuleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Category:    rule.Category(),
			Severity:    rule.Severity(),
			Description: rule.Description(),
			Enabled:     v.isRuleEnabled(rule.ID()),
		})
	}
	return info
}

// RuleInfo provides information about a validation rule.
type RuleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Enabled     bool     `json:"enabled"`
}
