// Package policy implements the Bell-LaPadula mandatory access control rules:
//
//   - No Read Up: a subject cannot read objects above its clearance
//     (Simple Security Property).
//   - No Write Down: a subject cannot write to objects below its clearance
//     (*-Property).
//
// This is pure domain logic - no I/O, no side effects. Every function is
// deterministic over the closed level set, which keeps the rules exhaustively
// testable.
package policy

import (
	"fmt"

	id "blpgate/pkg/domain"
)

// Action names a mediated operation for rationale formatting.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
)

// CheckReadAccess applies the Simple Security Property (No Read Up): a
// subject may read an object iff its level dominates the object's level.
// Out-of-catalog levels always deny; entity invariants should make that
// unreachable, but the rule must not grant on corrupt input.
func CheckReadAccess(subjectLevel, objectLevel id.SecurityLevel) bool {
	if !subjectLevel.IsValid() || !objectLevel.IsValid() {
		return false
	}
	return subjectLevel >= objectLevel
}

// CheckWriteAccess applies the *-Property (No Write Down): a subject may
// write to an object iff its level is dominated by the object's level.
func CheckWriteAccess(subjectLevel, objectLevel id.SecurityLevel) bool {
	if !subjectLevel.IsValid() || !objectLevel.IsValid() {
		return false
	}
	return subjectLevel <= objectLevel
}

// CheckDeleteAccess grants deletion to a Top Secret super-admin, or to the
// owner whose current level still equals the object's level. Ownership alone
// is not sufficient: an owner whose clearance was changed after creation is
// denied. That asymmetry is intended policy, not a bug.
func CheckDeleteAccess(subjectLevel, objectLevel id.SecurityLevel, isOwner, isSuperAdmin bool) bool {
	if isSuperAdmin && subjectLevel == id.LevelTopSecret {
		return true
	}
	if isOwner && subjectLevel == objectLevel {
		return true
	}
	return false
}

// CanViewExistence reports whether a subject may observe that an object
// exists at all. Same inequality as read access: listings and lookups must
// not let a subject infer the presence of higher-classified objects.
func CanViewExistence(subjectLevel, objectLevel id.SecurityLevel) bool {
	return CheckReadAccess(subjectLevel, objectLevel)
}

// ValidateLevel checks membership in the level catalog.
func ValidateLevel(level id.SecurityLevel) bool {
	return level.IsValid()
}

// DescribeDecision formats the audit rationale for a read or write check.
// Used only for human-readable audit detail, never for control flow.
func DescribeDecision(subjectLevel, objectLevel id.SecurityLevel, action Action) string {
	switch action {
	case ActionRead:
		if subjectLevel >= objectLevel {
			return fmt.Sprintf("READ granted: %s can read %s", subjectLevel, objectLevel)
		}
		return fmt.Sprintf("READ denied: %s cannot read %s (No Read Up)", subjectLevel, objectLevel)
	case ActionWrite:
		if subjectLevel <= objectLevel {
			return fmt.Sprintf("WRITE granted: %s can write to %s", subjectLevel, objectLevel)
		}
		return fmt.Sprintf("WRITE denied: %s cannot write to %s (No Write Down)", subjectLevel, objectLevel)
	}
	return "Unknown action"
}
