package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/wareline/wareline/internal/inventory"
	"github.com/wareline/wareline/internal/notifications"
	"github.com/wareline/wareline/internal/rbac"
	"github.com/wareline/wareline/internal/shared"
	"github.com/wareline/wareline/internal/users"
)

// ExpiryScanJob finds lots with stock that expire within the horizon and
// notifies every supervisor. Notifications are written straight to the store;
// re-enqueueing through the dispatcher from inside the worker would loop.
type ExpiryScanJob struct {
	lots    *inventory.Service
	users   users.RepositoryPort
	notes   notifications.Repository
	logger  *slog.Logger
	horizon time.Duration
}

func NewExpiryScanJob(lots *inventory.Service, userRepo users.RepositoryPort, notes notifications.Repository, logger *slog.Logger, horizon time.Duration) *ExpiryScanJob {
	return &ExpiryScanJob{lots: lots, users: userRepo, notes: notes, logger: logger, horizon: horizon}
}

func (j *ExpiryScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	horizon := j.horizon
	var payload ExpiryScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err == nil && payload.HorizonHours > 0 {
		horizon = time.Duration(payload.HorizonHours) * time.Hour
	}

	lots, err := j.lots.ListExpiring(ctx, horizon)
	if err != nil {
		return fmt.Errorf("expiry scan: %w", err)
	}
	if len(lots) == 0 {
		return nil
	}

	supervisors, err := j.users.ListUsers(ctx, rbac.RoleSupervisor)
	if err != nil {
		return fmt.Errorf("expiry scan: list supervisors: %w", err)
	}

	body := fmt.Sprintf("%d inventory lot(s) expire within %s.", len(lots), horizon)
	for _, supervisor := range supervisors {
		n := notifications.Notification{
			ID:     shared.NewID(),
			UserID: supervisor.ID,
			Title:  "Lots nearing expiry",
			Body:   body,
			Link:   "/inventory/lots?expiring=1",
		}
		if err := j.notes.Insert(ctx, n); err != nil {
			j.logger.Warn("expiry scan: notification insert failed",
				slog.String("user_id", supervisor.ID.String()),
				slog.Any("error", err))
		}
	}
	j.logger.Info("expiry scan finished",
		slog.Int("lots", len(lots)),
		slog.Int("supervisors", len(supervisors)))
	return nil
}
