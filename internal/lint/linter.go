package lint

import (
	"context"
	"sort"

	"github.com/ikari-pl/go-olap-memberselect/internal/catalog"
)

// Config holds linter configuration.
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

// Thresholds contains configurable thresholds for various rules.
type Thresholds struct {
	MaxFanOut int `json:"maxFanOut"`
}

// DefaultConfig returns a default linter configuration.
func DefaultConfig() *Config {
	return &Config{
		MinSeverity:   SeverityInfo,
		EnabledRules:  nil, // All rules enabled
		DisabledRules: nil,
		FailOnWarning: false,
		MaxIssues:     0, // Unlimited
		Thresholds: Thresholds{
			MaxFanOut: 500,
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

// Result holds the results of a lint run.
type Result struct {
	// Source is the catalog file that was checked, if any.
	Source       string  `json:"source,omitempty"`
	Issues       []Issue `json:"issues"`
	ErrorCount   int     `json:"errorCount"`
	WarnCount    int     `json:"warningCount"`
	InfoCount    int     `json:"infoCount"`
	TotalMembers int     `json:"totalMembers"`
	ExitCode     int     `json:"exitCode"`
}

// Passed returns true if the lint run passed (no errors, and no warnings if strict).
func (r *Result) Passed(strict bool) bool {
	if r.ErrorCount > 0 {
		return false
	}
	if strict && r.WarnCount > 0 {
		return false
	}
	return true
}

// Summary returns a summary string of the results.
func (r *Result) Summary() string {
	if r.ErrorCount == 0 && r.WarnCount == 0 && r.InfoCount == 0 {
		return "No issues found"
	}
	return ""
}

// Linter orchestrates lint rule execution.
type Linter struct {
	config *Config
	rules  []Rule
}

// NewLinter creates a new linter with the given configuration.
func NewLinter(cfg *Config) *Linter {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	l := &Linter{
		config: cfg,
		rules:  make([]Rule, 0),
	}
	l.registerRules()
	return l
}

// registerRules registers all available lint rules.
func (l *Linter) registerRules() {
	// Structure Rules (MS001-MS002)
	l.rules = append(l.rules, &EmptyHierarchyRule{})
	l.rules = append(l.rules, &UnusedLevelRule{})

	// Navigation Rules (MS010-MS011)
	l.rules = append(l.rules, &DuplicateLevelNameRule{})
	l.rules = append(l.rules, &LevelShadowsHeaderRule{})

	// Naming Rules (MS020-MS022)
	l.rules = append(l.rules, &ReservedCharacterRule{})
	l.rules = append(l.rules, &BlankNameRule{})
	l.rules = append(l.rules, &MissingCaptionRule{})

	// Performance Rules (MS030)
	l.rules = append(l.rules, NewHighFanOutRule(l.config.Thresholds.MaxFanOut))
}

// isRuleEnabled checks if a rule should be executed.
func (l *Linter) isRuleEnabled(ruleID string) bool {
	for _, disabled := range l.config.DisabledRules {
		if disabled == ruleID {
			return false
		}
	}

	if len(l.config.EnabledRules) > 0 {
		for _, enabled := range l.config.EnabledRules {
			if enabled == ruleID {
				return true
			}
		}
		return false
	}

	return true
}

// shouldReport checks if an issue meets the minimum severity threshold.
func (l *Linter) shouldReport(issue Issue) bool {
	return issue.Severity.Level() >= l.config.MinSeverity.Level()
}

// Run executes all enabled lint rules against the catalog document.
func (l *Linter) Run(ctx context.Context, doc *catalog.Document) *Result {
	result := &Result{
		Issues:       make([]Issue, 0),
		TotalMembers: countMembers(doc),
	}

	for _, rule := range l.rules {
		select {
		case <-ctx.Done():
			return result
		default:
		}

		if !l.isRuleEnabled(rule.ID()) {
			continue
		}

		for _, issue := range rule.Check(ctx, doc) {
			if !l.shouldReport(issue) {
				continue
			}
			if l.config.MaxIssues > 0 && len(result.Issues) >= l.config.MaxIssues {
				break
			}
			result.Issues = append(result.Issues, issue)

			switch issue.Severity {
			case SeverityError:
				result.ErrorCount++
			case SeverityWarning:
				result.WarnCount++
			case SeverityInfo:
				result.InfoCount++
			}
		}
	}

	// Most severe first, then by location and target
	sort.SliceStable(result.Issues, func(i, j int) bool {
		a, b := result.Issues[i], result.Issues[j]
		if a.Severity.Level() != b.Severity.Level() {
			return a.Severity.Level() > b.Severity.Level()
		}
		if a.Location() != b.Location() {
			return a.Location() < b.Location()
		}
		return a.Target < b.Target
	})

	if result.ErrorCount > 0 {
		result.ExitCode = 1
	} else if l.config.FailOnWarning && result.WarnCount > 0 {
		result.ExitCode = 1
	}

	return result
}

// ListRules returns all available rules.
func (l *Linter) ListRules() []RuleInfo {
	info := make([]RuleInfo, 0, len(l.rules))
	for _, rule := range l.rules {
		info = append(info, RuleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Category:    rule.Category(),
			Severity:    rule.Severity(),
			Description: rule.Description(),
			Enabled:     l.isRuleEnabled(rule.ID()),
		})
	}
	return info
}

// RuleInfo provides information about a lint rule.
type RuleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Enabled     bool     `json:"enabled"`
}

func countMembers(doc *catalog.Document) int {
	n := 0
	for _, ref := range hierarchies(doc) {
		walkMembers(ref.spec.Members, nil, 0, func(catalog.MemberSpec, []string, int) { n++ })
	}
	return n
}
