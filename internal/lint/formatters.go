package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// Helper functions to suppress errcheck warnings for formatting output.
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
	// ANSI color codes
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

	title := "Catalog Lint Results"
	if result.Source != "" {
		title += " - " + result.Source
	}
	fprintf(w, "\n%s%s%s%s\n", bold, blue, title, reset)
	fprintf(w, "%s══════════════════════════════════════════════════════════════════%s\n\n", dim, reset)

	if len(result.Issues) == 0 {
		fprintf(w, "%s✓ No issues found!%s (%d members checked)\n\n", bold, reset, result.TotalMembers)
		return nil
	}

	// Group issues by hierarchy
	byLocation := make(map[string][]Issue)
	var locations []string
	for _, issue := range result.Issues {
		loc := issue.Location()
		if loc == "" {
			loc = "General Issues"
		}
		if _, ok := byLocation[loc]; !ok {
			locations = append(locations, loc)
		}
		byLocation[loc] = append(byLocation[loc], issue)
	}
	sort.Strings(locations)

	for _, loc := range locations {
		fprintf(w, "%s%s%s\n", bold, loc, reset)
		for _, issue := range byLocation[loc] {
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

			if issue.Target != "" {
				fprintf(w, "     %s%s%s\n", dim, issue.Target, reset)
			}
			if issue.Suggestion != "" {
				fprintf(w, "     %s→ %s%s\n", dim, issue.Suggestion, reset)
			}
		}
		fprintln(w)
	}

	// Summary
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
	Version      string  `json:"version"`
	Timestamp    string  `json:"timestamp"`
	Source       string  `json:"source,omitempty"`
	TotalMembers int     `json:"totalMembers"`
	Summary      Summary `json:"summary"`
	Issues       []Issue `json:"issues"`
	ExitCode     int     `json:"exitCode"`
}

type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Total    int `json:"total"`
}

func (f *JSONFormatter) Format(result *Result, w io.Writer) error {
	output := JSONOutput{
		Version:      "1.0",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Source:       result.Source,
		TotalMembers: result.TotalMembers,
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
	// Include the description only once per rule
	explainedRules := make(map[string]bool)

	for _, issue := range result.Issues {
		level := "notice"
		switch issue.Severity {
		case SeverityError:
			level = "error"
		case SeverityWarning:
			level = "warning"
		}

		// ::error file={name},title={title}::{message}
		params := []string{}
		if result.Source != "" {
			params = append(params, fmt.Sprintf("file=%s", result.Source))
		}
		params = append(params, fmt.Sprintf("title=%s (%s)", issue.RuleName, issue.RuleID))

		message := issue.Message
		if loc := issue.Location(); loc != "" {
			message = loc + ": " + message
		}
		if !explainedRules[issue.RuleID] && issue.Description != "" {
			message += " Why: " + issue.Description
			explainedRules[issue.RuleID] = true
		}
		if issue.Suggestion != "" {
			message += " Suggestion: " + issue.Suggestion
		}

		fprintf(w, "::%s %s::%s\n", level, strings.Join(params, ","), message)
	}

	fprintf(w, "::group::Lint Summary\n")
	fprintf(w, "Total: %d issue(s) - %d error(s), %d warning(s), %d info\n",
		len(result.Issues), result.ErrorCount, result.WarnCount, result.InfoCount)
	fprintf(w, "::endgroup::\n")

	return nil
}
