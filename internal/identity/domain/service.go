package domain

import "context"

// Outcome describes how the sync engine disposed of an event.
type Outcome string

const (
	// OutcomeApplied means mutations were committed.
	OutcomeApplied Outcome = "applied"
	// OutcomeNoOp means the event was recognized and correctly required no change.
	OutcomeNoOp Outcome = "noop"
)

// Service applies verified, classified IdP events to the identity mirror.
// It never retries internally; callers act on the (Outcome, error) pair and
// rely on the sender's redelivery for retryable failures.
type Service interface {
	Process(ctx context.Context, evt Event) (Outcome, error)
}
