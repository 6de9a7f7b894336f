package olap

// HeaderLen is the number of informational entries (dimension, hierarchy) at
// the start of every trail.
const HeaderLen = 2

// Trail is the breadcrumb path from the dimension root to the current
// position: dimension, hierarchy, then level labels in descending depth.
type Trail []string

// NewTrail builds a trail from its header and level labels.
func NewTrail(dimension, hierarchy string, levels ...string) Trail {
	t := make(Trail, 0, HeaderLen+len(levels))
	t = append(t, dimension, hierarchy)
	return append(t, levels...)
}

// Clone returns an independent copy of the trail.
func (t Trail) Clone() Trail {
	if t == nil {
		return nil
	}
	out := make(Trail, len(t))
	copy(out, t)
	return out
}

// Current returns the last entry, or "" for an empty trail.
func (t Trail) Current() string {
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1]
}

// IndexOf returns the position of the first entry equal to label, searching
// level labels before header entries, or -1.
func (t Trail) IndexOf(label string) int {
	for i := HeaderLen; i < len(t); i++ {
		if t[i] == label {
			return i
		}
	}
	for i := 0; i < len(t) && i < HeaderLen; i++ {
		if t[i] == label {
			return i
		}
	}
	return -1
}

// Dedupe removes repeated level labels, keeping the first occurrence and the
// original order. Header entries are always kept.
func (t Trail) Dedupe() Trail {
	if len(t) <= HeaderLen {
		return t.Clone()
	}
	out := make(Trail, 0, len(t))
	out = append(out, t[:HeaderLen]...)
	seen := make(map[string]bool, len(t)-HeaderLen)
	for _, label := range t[HeaderLen:] {
		if seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}

// Extend appends label, deduplicates, and cuts the trail right after the
// surviving occurrence of label so that it becomes the current entry.
func (t Trail) Extend(label string) Trail {
	if label == "" {
		return t.Clone()
	}
	out := append(t.Clone(), label).Dedupe()
	for i := HeaderLen; i < len(out); i++ {
		if out[i] == label {
			return out[:i+1]
		}
	}
	return out
}

// TruncateAt keeps exactly the entries 0..i. An index outside the trail
// returns an unchanged copy.
func (t Trail) TruncateAt(i int) Trail {
	if i < 0 || i >= len(t) {
		return t.Clone()
	}
	return t[:i+1].Clone()
}

// SelectedLevel derives the level the current member list belongs to. While
// at most one label sits below the header the newest label is the level;
// deeper than that the newest label names the drilled member's child level,
// so the level is the one before it.
func (t Trail) SelectedLevel() string {
	n := len(t)
	switch {
	case n == 0:
		return ""
	case n-HeaderLen < 2:
		return t[n-1]
	default:
		return t[n-2]
	}
}

// Actionable reports for each entry whether clicking it can navigate:
// header entries are informational and the last entry is the current
// position.
func (t Trail) Actionable() []bool {
	flags := make([]bool, len(t))
	for i := range t {
		flags[i] = i >= HeaderLen && i < len(t)-1
	}
	return flags
}

// IsActionable reports whether entry i can be clicked.
func (t Trail) IsActionable(i int) bool {
	return i >= HeaderLen && i < len(t)-1
}
