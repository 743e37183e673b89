package domain

import (
	"sort"

	dErrors "blpgate/pkg/domain-errors"
)

// SecurityLevel is a clearance or classification rank in a closed, totally
// ordered set. Invariant: a SecurityLevel held by any entity is always one of
// the defined levels.
//
// Usage: construct via ParseSecurityLevel at trust boundaries to enforce the
// catalog; direct casting bypasses validation.
type SecurityLevel int

// The defined levels. The catalog is closed: no dynamic addition.
const (
	LevelPublic       SecurityLevel = 0
	LevelConfidential SecurityLevel = 1
	LevelSecret       SecurityLevel = 2
	LevelTopSecret    SecurityLevel = 3
)

// levelNames is the single source of truth for the level catalog.
var levelNames = map[SecurityLevel]string{
	LevelPublic:       "Public",
	LevelConfidential: "Confidential",
	LevelSecret:       "Secret",
	LevelTopSecret:    "Top Secret",
}

// ParseSecurityLevel constructs a SecurityLevel from external input.
//
// Errors: returns CodeInvalidInput when the value is outside the catalog.
func ParseSecurityLevel(v int) (SecurityLevel, error) {
	l := SecurityLevel(v)
	if !l.IsValid() {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput, "invalid security level: %d", v)
	}
	return l, nil
}

// IsValid checks membership in the level catalog.
func (l SecurityLevel) IsValid() bool {
	_, ok := levelNames[l]
	return ok
}

// String returns the display name, or "Unknown" outside the catalog.
func (l SecurityLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "Unknown"
}

// Int returns the numeric rank for storage and comparisons.
func (l SecurityLevel) Int() int { return int(l) }

// Levels returns the catalog in ascending order.
func Levels() []SecurityLevel {
	out := make([]SecurityLevel, 0, len(levelNames))
	for l := range levelNames {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
