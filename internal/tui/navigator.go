package tui

import (
	"strings"

	"github.com/ikari-pl/go-olap-memberselect/internal/olap"
)

// navigator implements the Navigator interface.
type navigator struct {
	path    []PathItem
	focused int
}

// NewNavigator creates a new Navigator instance.
func NewNavigator() Navigator {
	return &navigator{
		path:    make([]PathItem, 0),
		focused: -1,
	}
}

// SetTrail replaces the trail. Focus is kept when the focused crumb is still
// actionable.
func (n *navigator) SetTrail(trail olap.Trail, actionable []bool) {
	path := make([]PathItem, 0, len(trail))
	for i, label := range trail {
		path = append(path, PathItem{
			Index:       i,
			Label:       label,
			DisplayName: truncate(label, MaxCrumbLength),
			Header:      i < olap.HeaderLen,
			Actionable:  i < len(actionable) && actionable[i],
			Current:     i == len(trail)-1,
		})
	}
	n.path = path

	if n.focused >= 0 && (n.focused >= len(path) || !path[n.focused].Actionable) {
		n.focused = -1
	}
}

// GetPath returns the current navigation path.
func (n *navigator) GetPath() []PathItem {
	return n.path
}

// Focus moves focus to the actionable crumb closest to the current entry.
func (n *navigator) Focus() bool {
	for i := len(n.path) - 1; i >= 0; i-- {
		if n.path[i].Actionable {
			n.focused = i
			return true
		}
	}
	return false
}

// Blur removes crumb focus.
func (n *navigator) Blur() {
	n.focused = -1
}

// IsFocused returns true while a crumb has focus.
func (n *navigator) IsFocused() bool {
	return n.focused >= 0
}

// Next moves focus to the next actionable crumb, if any.
func (n *navigator) Next() {
	if n.focused < 0 {
		return
	}
	for i := n.focused + 1; i < len(n.path); i++ {
		if n.path[i].Actionable {
			n.focused = i
			return
		}
	}
}

// Prev moves focus to the previous actionable crumb, if any.
func (n *navigator) Prev() {
	if n.focused < 0 {
		return
	}
	for i := n.focused - 1; i >= 0; i-- {
		if n.path[i].Actionable {
			n.focused = i
			return
		}
	}
}

// Selected returns the trail index of the focused crumb.
func (n *navigator) Selected() int {
	return n.focused
}

// RenderPath renders the breadcrumb trail as a formatted string.
func (n *navigator) RenderPath(styles StyleManager) string {
	if len(n.path) == 0 {
		return ""
	}

	parts := make([]string, 0, len(n.path))
	for i, item := range n.path {
		parts = append(parts, styles.Crumb(item, i == n.focused))
	}
	return strings.Join(parts, styles.CrumbSeparator())
}
