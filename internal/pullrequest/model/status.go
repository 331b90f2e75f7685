package model

// AI categorization statuses. The state machine is
// null -> processing -> {completed | error}, with skipped reachable
// directly from null. Terminal states are only re-entered by a fresh
// webhook delivery.
const (
	AIStatusSkipped    = "skipped"
	AIStatusProcessing = "processing"
	AIStatusCompleted  = "completed"
	AIStatusError      = "error"
)
