package mediator

// Outcome is the per-request decision space. Every outcome maps to a distinct
// audit detail, while callers only see granted versus a coded error.
type Outcome string

const (
	OutcomeGranted            Outcome = "granted"
	OutcomeDeniedPolicy       Outcome = "denied_policy"
	OutcomeDeniedNotFound     Outcome = "denied_not_found"
	OutcomeDeniedInvalidInput Outcome = "denied_invalid_input"
	OutcomeFailedStorage      Outcome = "failed_storage"
)
