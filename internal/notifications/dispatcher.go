package notifications

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Enqueuer is the slice of asynq.Client the dispatcher needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher queues notifications for background delivery. It is
// fire-and-forget: enqueue failures are logged and never reach the operation
// that triggered the notification.
type Dispatcher struct {
	logger *slog.Logger
	queue  Enqueuer
}

func NewDispatcher(logger *slog.Logger, queue Enqueuer) *Dispatcher {
	return &Dispatcher{logger: logger, queue: queue}
}

func (d *Dispatcher) Notify(ctx context.Context, userID uuid.UUID, title, body, link string) {
	payload, err := json.Marshal(DeliverPayload{
		UserID: userID.String(),
		Title:  title,
		Body:   body,
		Link:   link,
	})
	if err != nil {
		d.logger.Warn("notification payload marshal failed", slog.Any("error", err))
		return
	}
	if _, err := d.queue.EnqueueContext(ctx, asynq.NewTask(TaskTypeDeliver, payload), asynq.MaxRetry(3)); err != nil {
		d.logger.Warn("notification enqueue failed",
			slog.String("user_id", userID.String()),
			slog.Any("error", err))
	}
}
