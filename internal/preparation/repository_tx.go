package preparation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wareline/wareline/internal/inventory"
	"github.com/wareline/wareline/internal/shared"
)

// TxRepository is the write surface available inside a task transaction.
// Transition methods are conditional updates: the WHERE clause is the atomic
// test-and-set, so two racing writers cannot both observe the old status.
type TxRepository interface {
	InsertTask(ctx context.Context, t Task) error
	InsertItems(ctx context.Context, items []Item) error
	StatusOf(ctx context.Context, id uuid.UUID) (Status, error)
	HeaderOf(ctx context.Context, id uuid.UUID) (Task, error)
	ItemsOf(ctx context.Context, taskID uuid.UUID) ([]Item, error)
	UpdateTaskFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	UpdateItemFields(ctx context.Context, itemID uuid.UUID, fields map[string]interface{}) error
	MarkStarted(ctx context.Context, id uuid.UUID) (bool, error)
	MarkSubmitted(ctx context.Context, id uuid.UUID) (bool, error)
	MarkConfirmed(ctx context.Context, id uuid.UUID) (bool, error)
	MarkRejected(ctx context.Context, id uuid.UUID, reason string) (bool, error)
	MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error)
	SetReviewPending(ctx context.Context, id uuid.UUID) (bool, error)
	ReserveLot(ctx context.Context, lotID uuid.UUID, qty float64) error
	RestoreLot(ctx context.Context, lotID uuid.UUID, qty float64) error
	DeleteTaskCascade(ctx context.Context, id uuid.UUID) error
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) InsertTask(ctx context.Context, t Task) error {
	_, err := r.tx.Exec(ctx,
		`INSERT INTO preparation_tasks (id, order_id, supervisor_id, packer_id, status, deadline, note, picked_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $8)`,
		t.ID, t.OrderID, t.SupervisorID, t.PackerID, t.Status, t.Deadline, t.Note, time.Now())
	return err
}

func (r *txRepository) InsertItems(ctx context.Context, items []Item) error {
	for _, it := range items {
		if _, err := r.tx.Exec(ctx,
			`INSERT INTO preparation_items (id, task_id, order_line_id, product_id, lot_id, requested_qty, post_qty, pre_evd, post_evd)
			 VALUES ($1, $2, $3, $4, $5, $6, 0, '', '')`,
			it.ID, it.TaskID, it.OrderLineID, it.ProductID, it.LotID, it.RequestedQty); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) StatusOf(ctx context.Context, id uuid.UUID) (Status, error) {
	var status Status
	err := r.tx.QueryRow(ctx, `SELECT status FROM preparation_tasks WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: task %s", shared.ErrNotFound, id)
	}
	return status, err
}

func (r *txRepository) HeaderOf(ctx context.Context, id uuid.UUID) (Task, error) {
	t, err := scanTask(r.tx.QueryRow(ctx, `SELECT `+taskColumns+` FROM preparation_tasks WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, fmt.Errorf("%w: task %s", shared.ErrNotFound, id)
	}
	return t, err
}

func (r *txRepository) ItemsOf(ctx context.Context, taskID uuid.UUID) ([]Item, error) {
	rows, err := r.tx.Query(ctx, `SELECT `+itemColumns+` FROM preparation_items WHERE task_id = $1 ORDER BY id`, taskID)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

// UpdateTaskFields builds a dynamic SET list from the supplied columns.
func (r *txRepository) UpdateTaskFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	set := ``
	args := []interface{}{}
	argCount := 0
	for col, val := range fields {
		argCount++
		if set != `` {
			set += `, `
		}
		set += col + ` = $` + strconv.Itoa(argCount)
		args = append(args, val)
	}
	argCount++
	set += `, updated_at = now()`
	args = append(args, id)
	tag, err := r.tx.Exec(ctx, `UPDATE preparation_tasks SET `+set+` WHERE id = $`+strconv.Itoa(argCount), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %s", shared.ErrNotFound, id)
	}
	return nil
}

func (r *txRepository) UpdateItemFields(ctx context.Context, itemID uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	set := ``
	args := []interface{}{}
	argCount := 0
	for col, val := range fields {
		argCount++
		if set != `` {
			set += `, `
		}
		set += col + ` = $` + strconv.Itoa(argCount)
		args = append(args, val)
	}
	argCount++
	args = append(args, itemID)
	tag, err := r.tx.Exec(ctx, `UPDATE preparation_items SET `+set+` WHERE id = $`+strconv.Itoa(argCount), args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: item %s", shared.ErrNotFound, itemID)
	}
	return nil
}

func (r *txRepository) MarkStarted(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.tx.Exec(ctx,
		`UPDATE preparation_tasks
		    SET status = 'in_progress', started_at = COALESCE(started_at, now()), updated_at = now()
		  WHERE id = $1 AND status = 'assigned'`, id)
	return tag.RowsAffected() > 0, err
}

func (r *txRepository) MarkSubmitted(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.tx.Exec(ctx,
		`UPDATE preparation_tasks
		    SET status = 'pending_review', review_result = 'pending', updated_at = now()
		  WHERE id = $1 AND status = 'in_progress'`, id)
	return tag.RowsAffected() > 0, err
}

func (r *txRepository) MarkConfirmed(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.tx.Exec(ctx,
		`UPDATE preparation_tasks
		    SET status = 'completed', review_result = 'confirmed',
		        completed_at = COALESCE(completed_at, now()), updated_at = now()
		  WHERE id = $1 AND status = 'pending_review'`, id)
	return tag.RowsAffected() > 0, err
}

// MarkRejected returns the task to in_progress for correction. started_at is
// untouched so the first-start timestamp survives the round trip.
func (r *txRepository) MarkRejected(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	tag, err := r.tx.Exec(ctx,
		`UPDATE preparation_tasks
		    SET status = 'in_progress', review_result = 'rejected', review_reason = $2, updated_at = now()
		  WHERE id = $1 AND status = 'pending_review'`, id, reason)
	return tag.RowsAffected() > 0, err
}

// MarkCancelled is the test-and-set for cancellation: a second caller sees
// zero rows and the rollback never runs twice.
func (r *txRepository) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.tx.Exec(ctx,
		`UPDATE preparation_tasks
		    SET status = 'cancelled', updated_at = now()
		  WHERE id = $1 AND status NOT IN ('completed', 'cancelled')`, id)
	return tag.RowsAffected() > 0, err
}

func (r *txRepository) SetReviewPending(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.tx.Exec(ctx,
		`UPDATE preparation_tasks
		    SET review_result = 'pending', updated_at = now()
		  WHERE id = $1 AND status = 'pending_review'`, id)
	return tag.RowsAffected() > 0, err
}

func (r *txRepository) ReserveLot(ctx context.Context, lotID uuid.UUID, qty float64) error {
	return inventory.Reserve(ctx, r.tx, lotID, qty)
}

func (r *txRepository) RestoreLot(ctx context.Context, lotID uuid.UUID, qty float64) error {
	return inventory.Restore(ctx, r.tx, lotID, qty)
}

func (r *txRepository) DeleteTaskCascade(ctx context.Context, id uuid.UUID) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM preparation_items WHERE task_id = $1`, id); err != nil {
		return err
	}
	tag, err := r.tx.Exec(ctx, `DELETE FROM preparation_tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task %s", shared.ErrNotFound, id)
	}
	return nil
}
