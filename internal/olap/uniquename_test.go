package olap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegments(t *testing.T) {
	assert.Equal(t, []string{"Geo", "Std", "USA"}, Segments("[Geo].[Std].[USA]"))
	assert.Equal(t, []string{"Los Angeles"}, Segments("[Los Angeles]"))
	assert.Nil(t, Segments(""))
}

func TestLastSegment(t *testing.T) {
	tests := map[string]string{
		"[Geo].[Std].[State]":   "State",
		"[Geo].[Std].[Country]": "Country",
		"[Level]":               "Level",
		"Level":                 "Level",
		"":                      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, LastSegment(in), "input %q", in)
	}
}

func TestBracketAndQualify(t *testing.T) {
	coords := Coordinates{Cube: "Sales", Dimension: "Geography", Hierarchy: "Standard"}

	assert.Equal(t, "[Geography].[Standard].", Prefix("Geography", "Standard"))
	assert.Equal(t, "[Geography].[Standard].[USA].[CA]", Qualify(coords, "USA", "CA"))
	assert.Equal(t, "[USA]", Bracket("USA"))
	assert.Equal(t, "", Bracket())
}

func TestRelative(t *testing.T) {
	coords := Coordinates{Dimension: "Geography", Hierarchy: "Standard"}

	assert.Equal(t, "[USA].[CA]", Relative(coords, "[Geography].[Standard].[USA].[CA]"))
	assert.Equal(t, "[USA].[CA]", Relative(coords, "[USA].[CA]"), "missing prefix keeps the whole name")
	assert.Equal(t, "", Relative(coords, ""))
}

func TestMemberRowDisplayText(t *testing.T) {
	assert.Equal(t, "United States", MemberRow{Caption: "United States", Name: "USA"}.DisplayText())
	assert.Equal(t, "USA", MemberRow{Name: "USA", UniqueName: "[Geo].[Std].[USA]"}.DisplayText())
	assert.Equal(t, "[Geo].[Std].[USA]", MemberRow{UniqueName: "[Geo].[Std].[USA]"}.DisplayText())
	assert.Equal(t, "State", MemberRow{LevelUniqueName: "[Geo].[Std].[State]"}.LevelLabel())
}
