package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/wareline/wareline/internal/notifications"
	"github.com/wareline/wareline/internal/shared"
)

// NotifyDeliverJob persists queued notifications. Delivery beyond the store
// (websocket, email) would hang off this handler.
type NotifyDeliverJob struct {
	repo   notifications.Repository
	logger *slog.Logger
}

func NewNotifyDeliverJob(repo notifications.Repository, logger *slog.Logger) *NotifyDeliverJob {
	return &NotifyDeliverJob{repo: repo, logger: logger}
}

func (j *NotifyDeliverJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload notifications.DeliverPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		j.logger.Warn("notify deliver: bad user id", slog.String("user_id", payload.UserID))
		return asynq.SkipRetry
	}
	n := notifications.Notification{
		ID:     shared.NewID(),
		UserID: userID,
		Title:  payload.Title,
		Body:   payload.Body,
		Link:   payload.Link,
	}
	if err := j.repo.Insert(ctx, n); err != nil {
		j.logger.Error("notify deliver: insert failed", slog.Any("error", err))
		return err
	}
	return nil
}
