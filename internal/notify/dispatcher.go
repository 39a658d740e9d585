package notify

import (
	"context"
	"log/slog"
	"time"
)

const defaultQueueSize = 256

// Dispatcher decouples notification delivery from the request path. The
// service enqueues; Run drains on a background goroutine. A full queue
// drops the notice with a log line rather than blocking a transition.
type Dispatcher struct {
	notifier Notifier
	logger   *slog.Logger
	inbox    chan StatusChange
	timeout  time.Duration
}

func NewDispatcher(notifier Notifier, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		logger:   logger,
		inbox:    make(chan StatusChange, defaultQueueSize),
		timeout:  10 * time.Second,
	}
}

// Enqueue hands a status change to the background loop. Never blocks.
func (d *Dispatcher) Enqueue(change StatusChange) {
	select {
	case d.inbox <- change:
	default:
		d.logger.Warn("notification queue full, dropping notice",
			"applicant_id", change.ApplicantID,
			"new_status", change.NewStatus,
		)
	}
}

// Run delivers queued notices until ctx is cancelled. Delivery errors are
// logged and the loop keeps going.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change := <-d.inbox:
			deliverCtx, cancel := context.WithTimeout(context.Background(), d.timeout)
			err := d.notifier.Notify(deliverCtx, change)
			cancel()
			if err != nil {
				d.logger.Error("notification delivery failed",
					"applicant_id", change.ApplicantID,
					"new_status", change.NewStatus,
					"error", err,
				)
			}
		}
	}
}
