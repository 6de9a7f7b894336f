// Package catalog fetches hierarchy levels and members from an OLAP catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikari-pl/go-olap-memberselect/internal/olap"
)

// ErrNotFound is returned when a cube, hierarchy, level or member does not
// exist in the catalog.
var ErrNotFound = errors.New("not found")

// Client provides the catalog lookups the selector needs.
type Client interface {
	// Levels returns the levels of a hierarchy, top level first.
	Levels(ctx context.Context, coords olap.Coordinates) ([]olap.Level, error)

	// LevelMembers returns the members of the named level.
	LevelMembers(ctx context.Context, coords olap.Coordinates, level string) ([]olap.MemberRow, error)

	// ChildMembers returns the children of a member. uniqueName may be fully
	// qualified or relative to a hierarchy of the cube.
	ChildMembers(ctx context.Context, cube, uniqueName string) ([]olap.MemberRow, error)
}

// FirstLevel returns the top level of a hierarchy.
func FirstLevel(ctx context.Context, client Client, coords olap.Coordinates) (olap.Level, error) {
	levels, err := client.Levels(ctx, coords)
	if err != nil {
		return olap.Level{}, err
	}
	if len(levels) == 0 {
		return olap.Level{}, fmt.Errorf("hierarchy [%s].[%s] has no levels: %w", coords.Dimension, coords.Hierarchy, ErrNotFound)
	}
	return levels[0], nil
}
