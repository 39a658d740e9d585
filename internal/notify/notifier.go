// Package notify fires side-channel notices after a transition commits.
// Delivery is best-effort: a failed notification is logged, never surfaced
// to the caller whose transition already committed.
package notify

import (
	"context"
	"time"
)

// StatusChange is the payload handed to notification sinks.
type StatusChange struct {
	ApplicantID string    `json:"applicant_id"`
	Kind        string    `json:"kind"`
	NewStatus   string    `json:"new_status"`
	ActorID     string    `json:"actor_id"`
	ActorRole   string    `json:"actor_role"`
	At          time.Time `json:"at"`
}

// Notifier delivers a status change to one sink (email gateway, broker
// topic, in-app feed). Implementations may block; the dispatcher keeps them
// off the transition path.
type Notifier interface {
	Notify(ctx context.Context, change StatusChange) error
}

// Noop discards notifications. Used when no sink is configured.
type Noop struct{}

func (Noop) Notify(context.Context, StatusChange) error { return nil }
