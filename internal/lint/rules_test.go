package lint

import (
	"context"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/ikari-pl/go-olap-memberselect/internal/catalog"
)

func TestSeverityLevel(t *testing.T) {
	tests := []struct {
		severity Severity
		want     int
	}{
		{SeverityError, 3},
		{SeverityWarning, 2},
		{SeverityInfo, 1},
		{Severity("unknown"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			if got := tt.severity.Level(); got != tt.want {
				t.Errorf("Level() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseSeverity(t *testing.T) {
	tests := map[string]Severity{
		"error":   SeverityError,
		"ERROR":   SeverityError,
		"warn":    SeverityWarning,
		"warning": SeverityWarning,
		"info":    SeverityInfo,
		"":        SeverityInfo,
	}
	for in, want := range tests {
		if got := ParseSeverity(in); got != want {
			t.Errorf("ParseSeverity(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIssueLocation(t *testing.T) {
	issue := Issue{Cube: "Sales", Dimension: "Geography", Hierarchy: "Standard"}
	if got := issue.Location(); got != "Sales [Geography].[Standard]" {
		t.Errorf("Location() = %q", got)
	}
	if got := (Issue{Cube: "Sales"}).Location(); got != "Sales" {
		t.Errorf("Location() without dimension = %q", got)
	}
}

func TestEmptyHierarchyRule(t *testing.T) {
	rule := &EmptyHierarchyRule{}

	issues := rule.Check(context.Background(), singleHierarchy(catalog.HierarchySpec{Name: "Standard", Levels: []string{"Country"}}))
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].RuleID != "MS001" || issues[0].Severity != SeverityError {
		t.Errorf("unexpected issue: %+v", issues[0])
	}
	if issues[0].Target != "[Geography].[Standard]" {
		t.Errorf("Target = %q", issues[0].Target)
	}

	if issues := rule.Check(context.Background(), cleanDocument()); len(issues) != 0 {
		t.Errorf("expected no issues, got %+v", issues)
	}
}

func TestUnusedLevelRule(t *testing.T) {
	rule := &UnusedLevelRule{}
	doc := singleHierarchy(catalog.HierarchySpec{
		Name:   "Standard",
		Levels: []string{"Country", "State", "City"},
		Members: []catalog.MemberSpec{
			{Name: "USA", Children: []catalog.MemberSpec{{Name: "CA"}}},
			{Name: "Canada"},
		},
	})

	issues := rule.Check(context.Background(), doc)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d: %+v", len(issues), issues)
	}
	if issues[0].Target != "[Geography].[Standard].[City]" {
		t.Errorf("Target = %q", issues[0].Target)
	}

	// Empty hierarchies are reported by MS001 only
	empty := singleHierarchy(catalog.HierarchySpec{Name: "Standard", Levels: []string{"Country", "State"}})
	if issues := rule.Check(context.Background(), empty); len(issues) != 0 {
		t.Errorf("expected no issues for an empty hierarchy, got %+v", issues)
	}
}

func TestDuplicateLevelNameRule(t *testing.T) {
	rule := &DuplicateLevelNameRule{}
	doc := singleHierarchy(catalog.HierarchySpec{
		Name:   "Standard",
		Levels: []string{"Region", "Country", "Region"},
	})

	issues := rule.Check(context.Background(), doc)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if !strings.Contains(issues[0].Message, `"Region"`) {
		t.Errorf("Message = %q", issues[0].Message)
	}
	if issues[0].Category != CategoryNavigation {
		t.Errorf("Category = %v", issues[0].Category)
	}
}

func TestLevelShadowsHeaderRule(t *testing.T) {
	rule := &LevelShadowsHeaderRule{}
	doc := singleHierarchy(catalog.HierarchySpec{
		Name:   "Standard",
		Levels: []string{"Geography", "Standard", "City"},
	})

	issues := rule.Check(context.Background(), doc)
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(issues))
	}
	for _, issue := range issues {
		if issue.Severity != SeverityWarning {
			t.Errorf("Severity = %v, want warning", issue.Severity)
		}
	}
}

func TestReservedCharacterRule(t *testing.T) {
	rule := &ReservedCharacterRule{}
	doc := singleHierarchy(catalog.HierarchySpec{
		Name:   "Standard",
		Levels: []string{"Country", "[State]"},
		Members: []catalog.MemberSpec{
			{Name: "USA", Caption: "[US] United States", Children: []catalog.MemberSpec{
				{Name: "C]A"},
			}},
		},
	})

	issues := rule.Check(context.Background(), doc)
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues (level and member), got %d: %+v", len(issues), issues)
	}
	if issues[1].Target != "[Geography].[Standard].[USA].[C]A]" {
		t.Errorf("member Target = %q", issues[1].Target)
	}
}

func TestBlankNameRule(t *testing.T) {
	rule := &BlankNameRule{}
	doc := singleHierarchy(catalog.HierarchySpec{
		Name:   "Standard",
		Levels: []string{"Country", " "},
		Members: []catalog.MemberSpec{
			{Name: "USA", Children: []catalog.MemberSpec{{Name: ""}}},
		},
	})

	issues := rule.Check(context.Background(), doc)
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %+v", len(issues), issues)
	}
	if issues[0].Message != "level 1 has no name" {
		t.Errorf("Message = %q", issues[0].Message)
	}

	unnamed := singleHierarchy(catalog.HierarchySpec{Levels: []string{"Country"}})
	if issues := rule.Check(context.Background(), unnamed); len(issues) != 1 {
		t.Errorf("expected 1 issue for an unnamed hierarchy, got %d", len(issues))
	}
}

func TestMissingCaptionRule(t *testing.T) {
	rule := &MissingCaptionRule{}
	doc := singleHierarchy(catalog.HierarchySpec{
		Name:   "Standard",
		Levels: []string{"Country", "State"},
		Members: []catalog.MemberSpec{
			{Name: "USA", Caption: "United States", Children: []catalog.MemberSpec{
				{Name: "CA"},
				{Name: ""}, // Blank names belong to MS021
			}},
		},
	})

	issues := rule.Check(context.Background(), doc)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].Target != "[Geography].[Standard].[USA].[CA]" {
		t.Errorf("Target = %q", issues[0].Target)
	}
	if issues[0].Severity != SeverityInfo {
		t.Errorf("Severity = %v", issues[0].Severity)
	}
}

func TestHighFanOutRule(t *testing.T) {
	if r := NewHighFanOutRule(0); r.Threshold != 500 {
		t.Errorf("default Threshold = %d, want 500", r.Threshold)
	}

	many := func(n int) []catalog.MemberSpec {
		out := make([]catalog.MemberSpec, n)
		for i := range out {
			out[i] = catalog.MemberSpec{Name: "M" + strconv.Itoa(i)}
		}
		return out
	}

	rule := NewHighFanOutRule(3)
	doc := singleHierarchy(catalog.HierarchySpec{
		Name:   "Standard",
		Levels: []string{"Country", "State"},
		Members: append(many(3), catalog.MemberSpec{
			Name:     "USA",
			Children: many(4),
		}),
	})

	issues := rule.Check(context.Background(), doc)
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues (first level and USA), got %d: %+v", len(issues), issues)
	}
	if issues[0].Target != "[Geography].[Standard].[Country]" {
		t.Errorf("first level Target = %q", issues[0].Target)
	}
	if issues[1].Target != "[Geography].[Standard].[USA]" {
		t.Errorf("member Target = %q", issues[1].Target)
	}

	// At the threshold is fine
	if issues := NewHighFanOutRule(4).Check(context.Background(), doc); len(issues) != 0 {
		t.Errorf("expected no issues at the threshold, got %d", len(issues))
	}
}

func TestRuleMetadata(t *testing.T) {
	for _, rule := range NewLinter(nil).rules {
		t.Run(rule.ID(), func(t *testing.T) {
			if !strings.HasPrefix(rule.ID(), "MS") {
				t.Errorf("ID %q should start with MS", rule.ID())
			}
			if rule.Severity().Level() == 0 {
				t.Errorf("unknown severity %q", rule.Severity())
			}
			if rule.Category() == "" {
				t.Error("Category should not be empty")
			}
		})
	}
}

func TestLintTestdataCatalog(t *testing.T) {
	doc := mustDecode(t, "../catalog/testdata/geography.yaml")
	cfg := DefaultConfig()
	cfg.MinSeverity = SeverityWarning

	result := NewLinter(cfg).Run(context.Background(), doc)
	if !result.Passed(true) {
		t.Errorf("test catalog should lint clean at warning level: %+v", result.Issues)
	}
	if result.TotalMembers == 0 {
		t.Error("TotalMembers should count the catalog's members")
	}
}

func mustDecode(t *testing.T, path string) *catalog.Document {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	doc, err := catalog.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
	return doc
}
