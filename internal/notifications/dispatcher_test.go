package notifications_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/wareline/wareline/internal/notifications"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func TestNotifyEnqueuesDeliveryTask(t *testing.T) {
	queue := &fakeEnqueuer{}
	d := notifications.NewDispatcher(slog.New(slog.NewTextHandler(io.Discard, nil)), queue)
	userID := uuid.New()

	d.Notify(context.Background(), userID, "Task assigned", "PT-0001 is waiting", "/preparation/tasks/1")

	require.Len(t, queue.tasks, 1)
	require.Equal(t, notifications.TaskTypeDeliver, queue.tasks[0].Type())

	var payload notifications.DeliverPayload
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload(), &payload))
	require.Equal(t, userID.String(), payload.UserID)
	require.Equal(t, "Task assigned", payload.Title)
	require.Equal(t, "PT-0001 is waiting", payload.Body)
	require.Equal(t, "/preparation/tasks/1", payload.Link)
}

func TestNotifySwallowsEnqueueFailure(t *testing.T) {
	queue := &fakeEnqueuer{err: errors.New("redis down")}
	d := notifications.NewDispatcher(slog.New(slog.NewTextHandler(io.Discard, nil)), queue)

	// Must not panic or surface the error to the caller.
	d.Notify(context.Background(), uuid.New(), "Task assigned", "", "")
	require.Empty(t, queue.tasks)
}
