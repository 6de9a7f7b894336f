package olap

import "strings"

const segmentSeparator = "].["

// Segments splits a bracket-delimited unique name such as
// "[Geo].[Std].[USA]" into its unbracketed parts.
func Segments(uniqueName string) []string {
	if uniqueName == "" {
		return nil
	}
	parts := strings.Split(uniqueName, segmentSeparator)
	for i, p := range parts {
		parts[i] = Unbracket(p)
	}
	return parts
}

// LastSegment returns the final unbracketed segment of a unique name.
func LastSegment(uniqueName string) string {
	if uniqueName == "" {
		return ""
	}
	parts := strings.Split(uniqueName, segmentSeparator)
	return Unbracket(parts[len(parts)-1])
}

// Unbracket removes every square bracket from s.
func Unbracket(s string) string {
	return strings.NewReplacer("[", "", "]", "").Replace(s)
}

// Bracket wraps each segment in brackets and joins them with dots.
func Bracket(segments ...string) string {
	if len(segments) == 0 {
		return ""
	}
	return "[" + strings.Join(segments, segmentSeparator) + "]"
}

// Prefix returns the "[dimension].[hierarchy]." prefix of fully qualified
// member names in the given hierarchy.
func Prefix(dimension, hierarchy string) string {
	return Bracket(dimension, hierarchy) + "."
}

// Qualify builds the fully qualified unique name of the member reached by
// the given path below the hierarchy.
func Qualify(c Coordinates, path ...string) string {
	return Bracket(append([]string{c.Dimension, c.Hierarchy}, path...)...)
}

// Relative returns the part of uniqueName after the hierarchy prefix, or
// uniqueName unchanged when the prefix does not occur.
func Relative(c Coordinates, uniqueName string) string {
	if _, after, ok := strings.Cut(uniqueName, Prefix(c.Dimension, c.Hierarchy)); ok {
		return after
	}
	return uniqueName
}
