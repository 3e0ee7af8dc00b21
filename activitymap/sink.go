package activitymap

import (
	"context"

	auth "github.com/goliatone/go-campus-auth"
)

// NewLogSink writes every event as one normalized audit log line
func NewLogSink(logger auth.Logger, opts ...Option) auth.ActivitySink {
	logger = auth.ResolveLogger("auth.activity", nil, logger)
	return auth.ActivitySinkFunc(func(_ context.Context, event auth.ActivityEvent) error {
		n := Normalize(event, opts...)
		args := []any{
			"actor_id", n.ActorID,
			"verb", n.Verb,
			"object_type", n.ObjectType,
			"channel", n.Channel,
			"occurred_at", n.OccurredAt,
		}
		if n.ObjectID != "" {
			args = append(args, "object_id", n.ObjectID)
		}
		if len(n.Metadata) > 0 {
			args = append(args, "metadata", n.Metadata)
		}
		logger.Info("Activity", args...)
		return nil
	})
}
