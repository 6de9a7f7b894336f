// Package selector implements the member navigation state machine: it owns
// the breadcrumb trail and member listing, turns gestures into catalog
// requests and reconciles their results.
package selector

import "github.com/ikari-pl/go-olap-memberselect/internal/olap"

// LoadingIndicator is shown while a request is pending.
type LoadingIndicator interface {
	// Show is called when a request is issued.
	Show()

	// Hide is called when the pending request resolves.
	Hide()
}

// Renderer receives the engine's view of the navigation state after every
// change.
type Renderer interface {
	// RenderBreadcrumbs renders the trail with one actionable flag per entry.
	RenderBreadcrumbs(trail olap.Trail, actionable []bool)

	// RenderMembers renders the current member listing.
	RenderMembers(rows []olap.MemberRow)

	// RenderSelectedLevel renders the derived selected-level label.
	RenderSelectedLevel(label string)
}

type nopIndicator struct{}

func (nopIndicator) Show() {}
func (nopIndicator) Hide() {}

type nopRenderer struct{}

func (nopRenderer) RenderBreadcrumbs(olap.Trail, []bool) {}
func (nopRenderer) RenderMembers([]olap.MemberRow)       {}
func (nopRenderer) RenderSelectedLevel(string)           {}
