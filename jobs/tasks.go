package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/wareline/wareline/internal/notifications"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskInventoryExpiryScan is the cron task scanning for lots close to expiry.
	TaskInventoryExpiryScan = "inventory:expiry_scan"
	// TaskNotifyDeliver persists and delivers one queued notification.
	TaskNotifyDeliver = notifications.TaskTypeDeliver
)

// ExpiryScanPayload configures one expiry scan run.
type ExpiryScanPayload struct {
	HorizonHours int `json:"horizon_hours"`
}

// NewExpiryScanTask constructs an Asynq task for the expiry scan.
func NewExpiryScanTask(horizonHours int) (*asynq.Task, error) {
	data, err := json.Marshal(ExpiryScanPayload{HorizonHours: horizonHours})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInventoryExpiryScan, data), nil
}
