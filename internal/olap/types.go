// Package olap holds the data model shared by the catalog clients, the
// navigation engine and the terminal adapter: hierarchy coordinates, levels,
// member rows, breadcrumb trails and bracket-delimited unique names.
package olap

// Coordinates identify the hierarchy a selector navigates.
type Coordinates struct {
	Cube      string `json:"cube" yaml:"cube"`
	Dimension string `json:"dimension" yaml:"dimension"`
	Hierarchy string `json:"hierarchy" yaml:"hierarchy"`
}

// Level is a rank within a hierarchy, e.g. "Country" or "State".
type Level struct {
	Name       string `json:"name" yaml:"name"`
	UniqueName string `json:"uniqueName,omitempty" yaml:"uniqueName,omitempty"`
	Caption    string `json:"caption,omitempty" yaml:"caption,omitempty"`
}

// MemberRow is one entry of a member listing.
type MemberRow struct {
	Name            string `json:"name,omitempty" yaml:"name,omitempty"`
	Caption         string `json:"caption" yaml:"caption"`
	UniqueName      string `json:"uniqueName" yaml:"uniqueName"`
	LevelUniqueName string `json:"levelUniqueName,omitempty" yaml:"levelUniqueName,omitempty"`
}

// DisplayText returns the caption, falling back to the name and then the
// unique name.
func (m MemberRow) DisplayText() string {
	switch {
	case m.Caption != "":
		return m.Caption
	case m.Name != "":
		return m.Name
	default:
		return m.UniqueName
	}
}

// LevelLabel returns the trail label this row's level contributes, derived
// from the last segment of LevelUniqueName.
func (m MemberRow) LevelLabel() string {
	return LastSegment(m.LevelUniqueName)
}
