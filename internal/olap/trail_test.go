package olap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrail(t *testing.T) {
	trail := NewTrail("Geography", "Standard", "Country", "State")
	assert.Equal(t, Trail{"Geography", "Standard", "Country", "State"}, trail)
	assert.Equal(t, "State", trail.Current())
	assert.Equal(t, "", Trail(nil).Current())
}

func TestTrailTruncateAt(t *testing.T) {
	trail := NewTrail("Geo", "Std", "Country", "State", "City", "District")

	for i := range trail {
		got := trail.TruncateAt(i)
		require.Len(t, got, i+1, "index %d", i)
		assert.Equal(t, trail[:i+1], got, "index %d", i)
	}

	t.Run("does not alias the original", func(t *testing.T) {
		got := trail.TruncateAt(2)
		got[2] = "changed"
		assert.Equal(t, "Country", trail[2])
	})

	t.Run("out of range returns a copy", func(t *testing.T) {
		assert.Equal(t, trail, trail.TruncateAt(-1))
		assert.Equal(t, trail, trail.TruncateAt(len(trail)))
	})
}

func TestTrailDedupe(t *testing.T) {
	tests := []struct {
		name  string
		trail Trail
		want  Trail
	}{
		{"empty", nil, nil},
		{"header only", Trail{"Geo", "Std"}, Trail{"Geo", "Std"}},
		{"no duplicates", NewTrail("Geo", "Std", "Country", "State"), NewTrail("Geo", "Std", "Country", "State")},
		{"adjacent duplicate", NewTrail("Geo", "Std", "Country", "State", "State"), NewTrail("Geo", "Std", "Country", "State")},
		{"first occurrence wins", NewTrail("Geo", "Std", "Country", "State", "Country", "City"), NewTrail("Geo", "Std", "Country", "State", "City")},
		{"header with equal names is kept", NewTrail("Time", "Time", "Year"), NewTrail("Time", "Time", "Year")},
		{"level named like the dimension is kept", NewTrail("Region", "Std", "Region"), NewTrail("Region", "Std", "Region")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.trail.Dedupe()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, got.Dedupe(), "dedupe must be idempotent")
		})
	}
}

func TestTrailExtend(t *testing.T) {
	base := NewTrail("Geo", "Std", "Country")

	once := base.Extend("State")
	assert.Equal(t, NewTrail("Geo", "Std", "Country", "State"), once)
	assert.Equal(t, once, once.Extend("State"), "extending twice with the same label equals extending once")

	deeper := once.Extend("City")
	assert.Equal(t, NewTrail("Geo", "Std", "Country", "State", "City"), deeper)

	t.Run("existing label cuts back to it", func(t *testing.T) {
		assert.Equal(t, NewTrail("Geo", "Std", "Country", "State"), deeper.Extend("State"))
	})

	t.Run("empty label is ignored", func(t *testing.T) {
		assert.Equal(t, base, base.Extend(""))
	})

	t.Run("original is untouched", func(t *testing.T) {
		assert.Equal(t, NewTrail("Geo", "Std", "Country"), base)
	})
}

func TestTrailSelectedLevel(t *testing.T) {
	tests := []struct {
		trail Trail
		want  string
	}{
		{nil, ""},
		{Trail{"Geography"}, "Geography"},
		{Trail{"Geography", "Standard"}, "Standard"},
		{Trail{"Geography", "Standard", "USA"}, "USA"},
		{Trail{"Geography", "Standard", "Country", "State"}, "Country"},
		{Trail{"Geography", "Standard", "USA", "CA", "Los Angeles"}, "CA"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.trail.SelectedLevel(), "trail %v", tt.trail)
	}
}

func TestTrailActionable(t *testing.T) {
	trail := NewTrail("Geo", "Std", "Country", "State", "City")
	assert.Equal(t, []bool{false, false, true, true, false}, trail.Actionable())

	for i, want := range trail.Actionable() {
		assert.Equal(t, want, trail.IsActionable(i), "index %d", i)
	}
	assert.False(t, trail.IsActionable(-1))
	assert.False(t, trail.IsActionable(10))
	assert.Equal(t, []bool{false, false, false}, NewTrail("Geo", "Std", "Country").Actionable())
}

func TestTrailIndexOf(t *testing.T) {
	trail := NewTrail("Region", "Std", "Country", "Region")
	assert.Equal(t, 3, trail.IndexOf("Region"), "level labels are preferred over header entries")
	assert.Equal(t, 1, trail.IndexOf("Std"))
	assert.Equal(t, -1, trail.IndexOf("City"))
}
