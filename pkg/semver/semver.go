// Package semver compares the version strings found in component and
// platform inventory data. Versions are frequently embedded in longer
// identifiers (e.g. "etcd-operator.v3.5.9"), so every operation first
// extracts the leading dotted-triple numeric token. Malformed input never
// panics or errors; it degrades to "incomparable".
package semver

import (
	"regexp"

	blang "github.com/blang/semver/v4"
)

// Ordering is the result of comparing two parsable versions.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

// Magnitude classifies the size of a version jump.
type Magnitude string

const (
	MagnitudeNone  Magnitude = "none"
	MagnitudePatch Magnitude = "patch"
	MagnitudeMinor Magnitude = "minor"
	MagnitudeMajor Magnitude = "major"
)

var triple = regexp.MustCompile(`\d+\.\d+\.\d+`)

// Clean extracts the first dotted-triple numeric token from raw.
// When no such token exists the input is returned unchanged so callers
// can still use it as an opaque identifier.
func Clean(raw string) string {
	if m := triple.FindString(raw); m != "" {
		return m
	}
	return raw
}

func parse(raw string) (blang.Version, bool) {
	v, err := blang.Parse(Clean(raw))
	if err != nil {
		return blang.Version{}, false
	}
	return v, true
}

// Parsable reports whether raw contains a comparable version.
func Parsable(raw string) bool {
	_, ok := parse(raw)
	return ok
}

// Compare orders a against b. ok is false when either side does not
// contain a parsable version; callers must then skip the comparison
// rather than assume any ordering.
func Compare(a, b string) (Ordering, bool) {
	va, okA := parse(a)
	vb, okB := parse(b)
	if !okA || !okB {
		return Equal, false
	}
	return Ordering(va.Compare(vb)), true
}

// DiffMagnitude classifies the jump between two versions. Incomparable
// pairs and identical versions both yield MagnitudeNone.
func DiffMagnitude(a, b string) Magnitude {
	va, okA := parse(a)
	vb, okB := parse(b)
	if !okA || !okB {
		return MagnitudeNone
	}

	switch {
	case va.Major != vb.Major:
		return MagnitudeMajor
	case va.Minor != vb.Minor:
		return MagnitudeMinor
	case va.Patch != vb.Patch:
		return MagnitudePatch
	default:
		return MagnitudeNone
	}
}
