package selector

import (
	"github.com/ikari-pl/go-olap-memberselect/internal/olap"
)

// State is the navigation state owned by an Engine.
type State struct {
	Trail             olap.Trail
	CurrentUniqueName string
	Listing           []olap.MemberRow
	PendingRequestID  uint64
	SelectedLevel     string
	FilterText        string
	// ClearLevel is the level the Clear action returns to.
	ClearLevel string
	Loading    bool
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Trail = s.Trail.Clone()
	if s.Listing != nil {
		out.Listing = make([]olap.MemberRow, len(s.Listing))
		copy(out.Listing, s.Listing)
	}
	return out
}

// RequestKind names the catalog lookup a request performs.
type RequestKind int

const (
	// FetchFirstLevel looks up the top level of the hierarchy.
	FetchFirstLevel RequestKind = iota
	// FetchLevelMembers lists the members of Request.Target, a level name.
	FetchLevelMembers
	// FetchChildMembers lists the children of Request.Target, a unique name.
	FetchChildMembers
)

// String returns the kind name used in logs and metrics.
func (k RequestKind) String() string {
	switch k {
	case FetchFirstLevel:
		return "first_level"
	case FetchLevelMembers:
		return "level_members"
	case FetchChildMembers:
		return "child_members"
	default:
		return "unknown"
	}
}

// Gesture names the user action that issued a request.
type Gesture string

const (
	GestureOpen    Gesture = "open"
	GestureResume  Gesture = "resume"
	GestureDrillIn Gesture = "drill_in"
	GestureCrumb   Gesture = "crumb"
	GestureFilter  Gesture = "filter"
	GestureClear   Gesture = "clear"
)

// Request is a catalog lookup issued by the engine. ID orders requests;
// only the response to the newest one is applied.
type Request struct {
	ID      uint64
	Kind    RequestKind
	Gesture Gesture
	Target  string
}

// Outcome classifies a resolved request.
type Outcome int

const (
	// OutcomeOK carries a non-empty result.
	OutcomeOK Outcome = iota
	// OutcomeEmpty means the lookup succeeded with no rows.
	OutcomeEmpty
	// OutcomeFailed means the lookup returned an error.
	OutcomeFailed
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Response is the tagged result of resolving a Request.
type Response struct {
	Request Request
	Outcome Outcome
	Level   olap.Level
	Rows    []olap.MemberRow
	Err     error
}

// Transition is the result of reconciling a response with a state.
type Transition struct {
	State State
	// Next is a follow-up request that must be issued, if any.
	Next *Request
	// Stale is set when the response was superseded and ignored.
	Stale bool
	// Changed is false when the state was left as it was.
	Changed bool
}
