// Package jobstatus defines the lifecycle state machine for job postings.
//
// Valid status graph:
//
//	draft ──► pending_payment ──► active ◄──► paused
//	  │                             │            │
//	  └──(finalPrice == 0)──────────┴────────────┴──► closed
//
// closed is terminal. A free posting (finalPrice == 0) skips
// pending_payment and activates immediately.
package jobstatus

import (
	"fmt"

	"jobboard-api/internal/models"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[models.Status][]models.Status{
	models.StatusDraft:          {models.StatusPendingPayment, models.StatusActive, models.StatusClosed},
	models.StatusPendingPayment: {models.StatusActive, models.StatusClosed},
	models.StatusActive:         {models.StatusPaused, models.StatusClosed},
	models.StatusPaused:         {models.StatusActive, models.StatusClosed},
	// closed is terminal — no outgoing transitions
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (models.Status, error) {
	st := models.Status(s)
	switch st {
	case models.StatusDraft, models.StatusPendingPayment, models.StatusActive,
		models.StatusPaused, models.StatusClosed:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by
// the state machine.
func IsTransitionAllowed(from, to models.Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state — no outgoing transitions
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// InitialStatus returns the status a freshly created job enters. Free
// postings activate immediately; paid postings wait for payment.
func InitialStatus(finalPrice int) models.Status {
	if finalPrice == 0 {
		return models.StatusActive
	}
	return models.StatusPendingPayment
}

// IsTerminal returns true when status has no outgoing transitions.
func IsTerminal(s models.Status) bool {
	_, ok := validTransitions[s]
	return !ok
}
