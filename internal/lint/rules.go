// Package lint checks YAML catalogs for shapes the member selector cannot
// navigate cleanly. It is designed for CI/CD integration, providing
// configurable rules and multiple output formats.
package lint

import (
	"context"
	"fmt"
	"strings"

	"github.com/ikari-pl/go-olap-memberselect/internal/catalog"
	"github.com/ikari-pl/go-olap-memberselect/internal/olap"
)

// Severity represents the severity level of a lint issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Level returns the numeric level (higher = more severe)
func (s Severity) Level() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// ParseSeverity converts a flag value to a Severity, defaulting to info.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError
	case "warning", "warn":
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Category represents the category of a lint rule.
type Category string

const (
	CategoryStructure   Category = "structure"
	CategoryNavigation  Category = "navigation"
	CategoryNaming      Category = "naming"
	CategoryPerformance Category = "performance"
)

// Issue represents a lint issue found in a catalog.
type Issue struct {
	RuleID      string   `json:"ruleId"`
	RuleName    string   `json:"ruleName"`
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
	Message     string   `json:"message"`
	Description string   `json:"description,omitempty"`
	Suggestion  string   `json:"suggestion,omitempty"`
	Cube        string   `json:"cube,omitempty"`
	Dimension   string   `json:"dimension,omitempty"`
	Hierarchy   string   `json:"hierarchy,omitempty"`
	// Target is the level or member unique name the issue is about.
	Target string `json:"target,omitempty"`
}

// Location returns "Cube [Dimension].[Hierarchy]" for grouping.
func (i Issue) Location() string {
	if i.Dimension == "" {
		return i.Cube
	}
	return i.Cube + " " + olap.Bracket(i.Dimension, i.Hierarchy)
}

// Rule defines a lint rule interface.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "MS001")
	ID() string
	// Name returns the human-readable name of the rule
	Name() string
	// Category returns the category of this rule
	Category() Category
	// Severity returns the default severity of this rule
	Severity() Severity
	// Description returns a detailed description of what this rule checks
	Description() string
	// Check executes the rule against the catalog and returns any issues found
	Check(ctx context.Context, doc *catalog.Document) []Issue
}

// hierarchyRef is one hierarchy with its position in the document.
type hierarchyRef struct {
	coords olap.Coordinates
	spec   catalog.HierarchySpec
}

func hierarchies(doc *catalog.Document) []hierarchyRef {
	var refs []hierarchyRef
	for _, c := range doc.Cubes {
		for _, d := range c.Dimensions {
			for _, h := range d.Hierarchies {
				refs = append(refs, hierarchyRef{
					coords: olap.Coordinates{Cube: c.Name, Dimension: d.Name, Hierarchy: h.Name},
					spec:   h,
				})
			}
		}
	}
	return refs
}

// walkMembers calls fn for every member with its path below the hierarchy
// and its depth (0 for the first level).
func walkMembers(specs []catalog.MemberSpec, path []string, depth int, fn func(m catalog.MemberSpec, path []string, depth int)) {
	for _, m := range specs {
		p := append(append([]string{}, path...), m.Name)
		fn(m, p, depth)
		walkMembers(m.Children, p, depth+1, fn)
	}
}

func newIssue(r Rule, ref hierarchyRef, target, message, suggestion string) Issue {
	return Issue{
		RuleID:      r.ID(),
		RuleName:    r.Name(),
		Severity:    r.Severity(),
		Category:    r.Category(),
		Message:     message,
		Description: r.Description(),
		Suggestion:  suggestion,
		Cube:        ref.coords.Cube,
		Dimension:   ref.coords.Dimension,
		Hierarchy:   ref.coords.Hierarchy,
		Target:      target,
	}
}

// =============================================================================
// Structure Rules
// =============================================================================

// EmptyHierarchyRule checks for hierarchies without members.
type EmptyHierarchyRule struct{}

func (r *EmptyHierarchyRule) ID() string         { return "MS001" }
func (r *EmptyHierarchyRule) Name() string       { return "empty-hierarchy" }
func (r *EmptyHierarchyRule) Category() Category { return CategoryStructure }
func (r *EmptyHierarchyRule) Severity() Severity { return SeverityError }
func (r *EmptyHierarchyRule) Description() string {
	return "A hierarchy without members opens on an empty first level, so nothing can ever be chosen."
}

func (r *EmptyHierarchyRule) Check(ctx context.Context, doc *catalog.Document) []Issue {
	var issues []Issue
	for _, ref := range hierarchies(doc) {
		if len(ref.spec.Members) == 0 {
			issues = append(issues, newIssue(r, ref, olap.Bracket(ref.coords.Dimension, ref.coords.Hierarchy),
				fmt.Sprintf("hierarchy %s has no members", olap.Bracket(ref.coords.Dimension, ref.coords.Hierarchy)),
				"Add members to the first level or remove the hierarchy"))
		}
	}
	return issues
}

// UnusedLevelRule checks for levels below the deepest member.
type UnusedLevelRule struct{}

func (r *UnusedLevelRule) ID() string         { return "MS002" }
func (r *UnusedLevelRule) Name() string       { return "unused-level" }
func (r *UnusedLevelRule) Category() Category { return CategoryStructure }
func (r *UnusedLevelRule) Severity() Severity { return SeverityInfo }
func (r *UnusedLevelRule) Description() string {
	return "Levels that no member reaches never show up in the breadcrumbs."
}

func (r *UnusedLevelRule) Check(ctx context.Context, doc *catalog.Document) []Issue {
	var issues []Issue
	for _, ref := range hierarchies(doc) {
		if len(ref.spec.Members) == 0 {
			continue
		}
		deepest := -1
		walkMembers(ref.spec.Members, nil, 0, func(_ catalog.MemberSpec, _ []string, depth int) {
			if depth > deepest {
				deepest = depth
			}
		})
		for i := deepest + 1; i < len(ref.spec.Levels); i++ {
			level := ref.spec.Levels[i]
			issues = append(issues, newIssue(r, ref, olap.Qualify(ref.coords, level),
				fmt.Sprintf("level %q has no members", level),
				"Remove the level or add members to it"))
		}
	}
	return issues
}

// =============================================================================
// Navigation Rules
// =============================================================================

// DuplicateLevelNameRule checks for levels that share a name.
type DuplicateLevelNameRule struct{}

func (r *DuplicateLevelNameRule) ID() string         { return "MS010" }
func (r *DuplicateLevelNameRule) Name() string       { return "duplicate-level-name" }
func (r *DuplicateLevelNameRule) Category() Category { return CategoryNavigation }
func (r *DuplicateLevelNameRule) Severity() Severity { return SeverityError }
func (r *DuplicateLevelNameRule) Description() string {
	return "Breadcrumbs are keyed by level name. Two levels with the same name collapse into one crumb and drilling past the second one truncates the trail."
}

func (r *DuplicateLevelNameRule) Check(ctx context.Context, doc *catalog.Document) []Issue {
	var issues []Issue
	for _, ref := range hierarchies(doc) {
		seen := make(map[string]bool, len(ref.spec.Levels))
		for _, level := range ref.spec.Levels {
			if seen[level] {
				issues = append(issues, newIssue(r, ref, olap.Qualify(ref.coords, level),
					fmt.Sprintf("level %q appears more than once", level),
					"Give every level of a hierarchy a distinct name"))
			}
			seen[level] = true
		}
	}
	return issues
}

// LevelShadowsHeaderRule checks for levels named like their dimension or
// hierarchy.
type LevelShadowsHeaderRule struct{}

func (r *LevelShadowsHeaderRule) ID() string         { return "MS011" }
func (r *LevelShadowsHeaderRule) Name() string       { return "level-shadows-header" }
func (r *LevelShadowsHeaderRule) Category() Category { return CategoryNavigation }
func (r *LevelShadowsHeaderRule) Severity() Severity { return SeverityWarning }
func (r *LevelShadowsHeaderRule) Description() string {
	return "The dimension and hierarchy names head every trail. A level with the same name shows up twice and is easy to confuse with the header."
}

func (r *LevelShadowsHeaderRule) Check(ctx context.Context, doc *catalog.Document) []Issue {
	var issues []Issue
	for _, ref := range hierarchies(doc) {
		for _, level := range ref.spec.Levels {
			if level == ref.coords.Dimension || level == ref.coords.Hierarchy {
				issues = append(issues, newIssue(r, ref, olap.Qualify(ref.coords, level),
					fmt.Sprintf("level %q has the same name as its dimension or hierarchy", level),
					"Rename the level"))
			}
		}
	}
	return issues
}

// =============================================================================
// Naming Rules
// =============================================================================

// ReservedCharacterRule checks for names that break unique-name parsing.
type ReservedCharacterRule struct{}

func (r *ReservedCharacterRule) ID() string         { return "MS020" }
func (r *ReservedCharacterRule) Name() string       { return "reserved-character" }
func (r *ReservedCharacterRule) Category() Category { return CategoryNaming }
func (r *ReservedCharacterRule) Severity() Severity { return SeverityError }
func (r *ReservedCharacterRule) Description() string {
	return "Unique names are bracket-delimited. Square brackets inside a name split it into the wrong segments."
}

func (r *ReservedCharacterRule) Check(ctx context.Context, doc *catalog.Document) []Issue {
	var issues []Issue
	bad := func(s string) bool { return strings.ContainsAny(s, "[]") }
	for _, ref := range hierarchies(doc) {
		names := append([]string{ref.coords.Dimension, ref.coords.Hierarchy}, ref.spec.Levels...)
		for _, name := range names {
			if bad(name) {
				issues = append(issues, newIssue(r, ref, name,
					fmt.Sprintf("name %q contains square brackets", name),
					"Remove '[' and ']' from the name"))
			}
		}
		walkMembers(ref.spec.Members, nil, 0, func(m catalog.MemberSpec, path []string, _ int) {
			if bad(m.Name) {
				issues = append(issues, newIssue(r, ref, olap.Qualify(ref.coords, path...),
					fmt.Sprintf("member name %q contains square brackets", m.Name),
					"Remove '[' and ']' from the name; captions may keep them"))
			}
		})
	}
	return issues
}

// BlankNameRule checks for empty or whitespace-only names.
type BlankNameRule struct{}

func (r *BlankNameRule) ID() string         { return "MS021" }
func (r *BlankNameRule) Name() string       { return "blank-name" }
func (r *BlankNameRule) Category() Category { return CategoryNaming }
func (r *BlankNameRule) Severity() Severity { return SeverityError }
func (r *BlankNameRule) Description() string {
	return "Blank names produce unique names like \"[]\" that cannot be drilled into or saved meaningfully."
}

func (r *BlankNameRule) Check(ctx context.Context, doc *catalog.Document) []Issue {
	var issues []Issue
	blank := func(s string) bool { return strings.TrimSpace(s) == "" }
	for _, ref := range hierarchies(doc) {
		if blank(ref.coords.Dimension) || blank(ref.coords.Hierarchy) {
			issues = append(issues, newIssue(r, ref, "",
				"dimension or hierarchy without a name",
				"Name the dimension and hierarchy"))
		}
		for i, level := range ref.spec.Levels {
			if blank(level) {
				issues = append(issues, newIssue(r, ref, "",
					fmt.Sprintf("level %d has no name", i),
					"Name the level"))
			}
		}
		walkMembers(ref.spec.Members, nil, 0, func(m catalog.MemberSpec, path []string, _ int) {
			if blank(m.Name) {
				issues = append(issues, newIssue(r, ref, olap.Qualify(ref.coords, path...),
					"member without a name",
					"Name the member; use caption for display text"))
			}
		})
	}
	return issues
}

// MissingCaptionRule checks for members without a caption.
type MissingCaptionRule struct{}

func (r *MissingCaptionRule) ID() string         { return "MS022" }
func (r *MissingCaptionRule) Name() string       { return "missing-caption" }
func (r *MissingCaptionRule) Category() Category { return CategoryNaming }
func (r *MissingCaptionRule) Severity() Severity { return SeverityInfo }
func (r *MissingCaptionRule) Description() string {
	return "Members without a caption are listed by their name, which is often a code rather than a label."
}

func (r *MissingCaptionRule) Check(ctx context.Context, doc *catalog.Document) []Issue {
	var issues []Issue
	for _, ref := range hierarchies(doc) {
		walkMembers(ref.spec.Members, nil, 0, func(m catalog.MemberSpec, path []string, _ int) {
			if m.Caption == "" && strings.TrimSpace(m.Name) != "" {
				issues = append(issues, newIssue(r, ref, olap.Qualify(ref.coords, path...),
					fmt.Sprintf("member %q has no caption", m.Name),
					"Add a caption"))
			}
		})
	}
	return issues
}

// =============================================================================
// Performance Rules
// =============================================================================

// HighFanOutRule checks for members and first levels with too many children
// to browse comfortably.
type HighFanOutRule struct {
	Threshold int
}

func NewHighFanOutRule(threshold int) *HighFanOutRule {
	if threshold <= 0 {
		threshold = 500 // Default
	}
	return &HighFanOutRule{Threshold: threshold}
}

func (r *HighFanOutRule) ID() string         { return "MS030" }
func (r *HighFanOutRule) Name() string       { return "high-fan-out" }
func (r *HighFanOutRule) Category() Category { return CategoryPerformance }
func (r *HighFanOutRule) Severity() Severity { return SeverityWarning }
func (r *HighFanOutRule) Description() string {
	return "Very long member lists are slow to fetch and hard to scan. Users end up typing unique names instead of drilling."
}

func (r *HighFanOutRule) Check(ctx context.Context, doc *catalog.Document) []Issue {
	var issues []Issue
	for _, ref := range hierarchies(doc) {
		if n := len(ref.spec.Members); n > r.Threshold && len(ref.spec.Levels) > 0 {
			issues = append(issues, newIssue(r, ref, olap.Qualify(ref.coords, ref.spec.Levels[0]),
				fmt.Sprintf("first level %q has %d members (threshold: %d)", ref.spec.Levels[0], n, r.Threshold),
				"Consider an intermediate grouping level"))
		}
		walkMembers(ref.spec.Members, nil, 0, func(m catalog.MemberSpec, path []string, _ int) {
			if n := len(m.Children); n > r.Threshold {
				issues = append(issues, newIssue(r, ref, olap.Qualify(ref.coords, path...),
					fmt.Sprintf("member %q has %d children (threshold: %d)", m.Name, n, r.Threshold),
					"Consider an intermediate grouping level"))
			}
		})
	}
	return issues
}
