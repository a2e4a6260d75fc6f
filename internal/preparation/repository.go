package preparation

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wareline/wareline/internal/platform/db"
	"github.com/wareline/wareline/internal/shared"
)

// Repository reads tasks and runs transactional units of work. All writes that
// touch inventory or status go through WithTx so the status flip and the lot
// adjustments share one transaction.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Task, int, error)
	Get(ctx context.Context, id uuid.UUID) (Task, error)
	GetItem(ctx context.Context, taskID, itemID uuid.UUID) (Item, error)
	AggregatedPostQty(ctx context.Context, orderLineID uuid.UUID) (float64, error)
	RefreshPickedCount(ctx context.Context, taskID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const taskColumns = `id, order_id, supervisor_id, packer_id, status, review_result, review_reason, deadline, note, picked_count, started_at, completed_at, created_at, updated_at`

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.OrderID, &t.SupervisorID, &t.PackerID, &t.Status, &t.ReviewResult, &t.ReviewReason,
		&t.Deadline, &t.Note, &t.PickedCount, &t.StartedAt, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

const itemColumns = `id, task_id, order_line_id, product_id, lot_id, requested_qty, post_qty, pre_evd, post_evd`

func scanItems(rows pgx.Rows) ([]Item, error) {
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.TaskID, &it.OrderLineID, &it.ProductID, &it.LotID,
			&it.RequestedQty, &it.PostQty, &it.PreEvd, &it.PostEvd); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Task, int, error) {
	where := ``
	args := []interface{}{}
	argCount := 0
	if filters.Status != "" {
		argCount++
		where += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}
	if filters.OrderID != nil {
		argCount++
		where += ` AND order_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.OrderID)
	}
	if filters.PackerID != nil {
		argCount++
		where += ` AND packer_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.PackerID)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM preparation_tasks WHERE 1=1`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + taskColumns + ` FROM preparation_tasks WHERE 1=1` + where + ` ORDER BY created_at DESC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, t)
	}
	return tasks, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM preparation_tasks WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, fmt.Errorf("%w: task %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return Task{}, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+itemColumns+` FROM preparation_items WHERE task_id = $1 ORDER BY id`, id)
	if err != nil {
		return Task{}, err
	}
	t.Items, err = scanItems(rows)
	return t, err
}

func (r *repository) GetItem(ctx context.Context, taskID, itemID uuid.UUID) (Item, error) {
	var it Item
	err := r.db.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM preparation_items WHERE id = $1 AND task_id = $2`, itemID, taskID).
		Scan(&it.ID, &it.TaskID, &it.OrderLineID, &it.ProductID, &it.LotID, &it.RequestedQty, &it.PostQty, &it.PreEvd, &it.PostEvd)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, fmt.Errorf("%w: item %s in task %s", shared.ErrNotFound, itemID, taskID)
	}
	return it, err
}

// AggregatedPostQty sums picked quantity for an order line across every task
// that references it, skipping cancelled tasks.
func (r *repository) AggregatedPostQty(ctx context.Context, orderLineID uuid.UUID) (float64, error) {
	var sum float64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(i.post_qty), 0)
		   FROM preparation_items i
		   JOIN preparation_tasks t ON t.id = i.task_id
		  WHERE i.order_line_id = $1 AND t.status <> 'cancelled'`,
		orderLineID).Scan(&sum)
	return sum, err
}

// RefreshPickedCount recomputes the derived picked-items counter. It runs
// outside the transition transaction; callers treat failure as log-only.
func (r *repository) RefreshPickedCount(ctx context.Context, taskID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE preparation_tasks
		    SET picked_count = (SELECT COUNT(*) FROM preparation_items WHERE task_id = $1 AND post_qty > 0)
		  WHERE id = $1`,
		taskID)
	return err
}

// Delete removes the task and its items. Administrative correction only.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.DeleteTaskCascade(ctx, id)
	})
}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}
