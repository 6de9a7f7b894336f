package selector

import (
	"github.com/ikari-pl/go-olap-memberselect/internal/olap"
)

// reduce reconciles a resolved request with the state it was issued from.
// It never mutates st; the returned transition carries the next state.
func reduce(coords olap.Coordinates, st State, resp Response) Transition {
	if resp.Request.ID != st.PendingRequestID {
		return Transition{State: st, Stale: true}
	}

	next := st.Clone()
	next.Loading = false

	switch resp.Request.Kind {
	case FetchFirstLevel:
		if resp.Outcome != OutcomeOK {
			return Transition{State: next}
		}
		next.Trail = olap.NewTrail(coords.Dimension, coords.Hierarchy, resp.Level.Name)
		next.ClearLevel = resp.Level.Name
		return Transition{
			State:   next,
			Changed: true,
			Next: &Request{
				Kind:    FetchLevelMembers,
				Gesture: resp.Request.Gesture,
				Target:  resp.Level.Name,
			},
		}

	case FetchLevelMembers:
		if resp.Outcome == OutcomeFailed {
			return Transition{State: next}
		}
		next.Listing = cloneRows(resp.Rows)
		return Transition{State: next, Changed: true}

	case FetchChildMembers:
		// Drilling into a leaf, or a filter that matches nothing, keeps
		// the current position.
		if resp.Outcome != OutcomeOK || len(resp.Rows) == 0 {
			return Transition{State: next}
		}
		next.Listing = cloneRows(resp.Rows)
		if label := resp.Rows[0].LevelLabel(); label != "" {
			next.Trail = next.Trail.Extend(label)
		}
		next.CurrentUniqueName = resp.Request.Target
		next.SelectedLevel = next.Trail.SelectedLevel()
		return Transition{State: next, Changed: true}
	}

	return Transition{State: next}
}

func cloneRows(rows []olap.MemberRow) []olap.MemberRow {
	out := make([]olap.MemberRow, len(rows))
	copy(out, rows)
	return out
}
