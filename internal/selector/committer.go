package selector

import (
	"github.com/ikari-pl/go-olap-memberselect/internal/olap"
)

// MsgNoMember is shown when a commit is attempted before a member is chosen.
const MsgNoMember = "You have to choose a member for the calculated member!"

// ValidationError reports a commit that cannot proceed. The state is left
// untouched and the user may keep navigating.
type ValidationError struct {
	Message string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return e.Message
}

// Selection is the result handed back to the caller: the chosen member
// relative to its hierarchy and the trail that led to it.
type Selection struct {
	UniqueName  string   `json:"uniqueName" yaml:"uniqueName"`
	Breadcrumbs []string `json:"breadcrumbs" yaml:"breadcrumbs"`
}

// Commit validates st and packages the chosen member.
func Commit(coords olap.Coordinates, st State) (Selection, error) {
	if st.CurrentUniqueName == "" {
		return Selection{}, &ValidationError{Message: MsgNoMember}
	}
	crumbs := st.Trail.Dedupe()
	if crumbs == nil {
		crumbs = olap.Trail{}
	}
	return Selection{
		UniqueName:  olap.Relative(coords, st.CurrentUniqueName),
		Breadcrumbs: []string(crumbs),
	}, nil
}
