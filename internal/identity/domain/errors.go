package domain

import (
	"context"
	"errors"
)

var (
	// ErrMissingHeaders indicates one of the required signature headers is absent.
	ErrMissingHeaders = errors.New("missing_headers")
	// ErrInvalidSignature indicates the recomputed signature does not match.
	ErrInvalidSignature = errors.New("invalid_signature")
	// ErrNotConfigured indicates the webhook secret is unset. Fatal at startup.
	ErrNotConfigured = errors.New("webhook_secret_not_configured")

	// ErrEventIgnored marks an unrecognized event kind. Acknowledged upstream,
	// never retried.
	ErrEventIgnored = errors.New("event_ignored")
	// ErrInvalidPayload marks a body that is not valid JSON.
	ErrInvalidPayload = errors.New("invalid_payload")
	// ErrInvalidEvent marks a recognized kind with a malformed required field.
	ErrInvalidEvent = errors.New("invalid_event")

	// ErrMissingPrerequisite marks a referenced profile or entity that has not
	// been mirrored yet. The sender's redelivery is expected to resolve it.
	ErrMissingPrerequisite = errors.New("missing_prerequisite")
)

// IsRetryable reports whether the error should surface as a retryable
// failure to the delivery system.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMissingPrerequisite) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
