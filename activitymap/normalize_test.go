package activitymap_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-campus-auth"
	"github.com/goliatone/go-campus-auth/activitymap"
)

func TestNormalizeDefaults(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)
	event := auth.ActivityEvent{
		EventType:  auth.ActivityEventLoginFailure,
		StudentID:  "student-100",
		Metadata:   map[string]any{"reason": "password_mismatch"},
		OccurredAt: ts,
	}

	out := activitymap.Normalize(event)

	assert.Equal(t, "student-100", out.ActorID)
	assert.Equal(t, string(auth.ActivityEventLoginFailure), out.Verb)
	assert.Equal(t, "student", out.ObjectType)
	assert.Equal(t, "student-100", out.ObjectID)
	assert.Equal(t, "auth", out.Channel)
	assert.True(t, out.OccurredAt.Equal(ts))
	assert.Equal(t, "password_mismatch", out.Metadata["reason"])

	// metadata is copied, not shared
	out.Metadata["reason"] = "changed"
	assert.Equal(t, "password_mismatch", event.Metadata["reason"])
}

func TestNormalizeAnonymousAndOptions(t *testing.T) {
	t.Parallel()

	out := activitymap.Normalize(auth.ActivityEvent{
		EventType: auth.ActivityEventRegisterDuplicate,
	},
		activitymap.WithDefaultChannel(" campus "),
		activitymap.WithDefaultObjectType("account"),
		activitymap.WithActorFallback("system"),
	)

	assert.Equal(t, "system", out.ActorID)
	assert.Empty(t, out.ObjectID)
	assert.Equal(t, "campus", out.Channel)
	assert.Equal(t, "account", out.ObjectType)
	assert.False(t, out.OccurredAt.IsZero())
	assert.Nil(t, out.Metadata)
}

func TestLogSinkWritesNormalizedLine(t *testing.T) {
	var buf bytes.Buffer
	logger := auth.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	sink := activitymap.NewLogSink(logger)
	require.NoError(t, sink.Record(context.Background(), auth.ActivityEvent{
		EventType: auth.ActivityEventLoginSuccess,
		StudentID: "abc",
	}))

	out := buf.String()
	assert.Contains(t, out, "msg=Activity")
	assert.Contains(t, out, "verb=auth.login.success")
	assert.Contains(t, out, "actor_id=abc")
	assert.Contains(t, out, "object_type=student")
}
