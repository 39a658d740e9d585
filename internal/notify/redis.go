package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis appends status changes to a stream that in-app consumers read.
type Redis struct {
	client *redis.Client
	stream string
}

func NewRedis(client *redis.Client, stream string) *Redis {
	return &Redis{client: client, stream: stream}
}

func (r *Redis) Notify(ctx context.Context, change StatusChange) error {
	err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]any{
			"applicant_id": change.ApplicantID,
			"kind":         change.Kind,
			"new_status":   change.NewStatus,
			"actor_id":     change.ActorID,
			"actor_role":   change.ActorRole,
			"at":           change.At.Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd status change: %w", err)
	}
	return nil
}
