package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wareline/wareline/internal/platform/db"
	"github.com/wareline/wareline/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Order, int, error)
	Get(ctx context.Context, id uuid.UUID) (Order, error)
	CreateWithLines(ctx context.Context, order Order) (Order, error)
	GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]OrderLine, error)
	SetStatus(ctx context.Context, id uuid.UUID, from []Status, to Status) error
	MarkCODCollected(ctx context.Context, id uuid.UUID, amount float64) error
	MarkCODRemitted(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const orderColumns = `id, code, customer_name, customer_phone, address, status, note, cod_amount, cod_collected_at, cod_remitted_at, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.Code, &o.CustomerName, &o.CustomerPhone, &o.Address, &o.Status, &o.Note,
		&o.CODAmount, &o.CODCollectedAt, &o.CODRemittedAt, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	where := ``
	args := []interface{}{}
	argCount := 0
	if filters.Search != "" {
		argCount++
		p := strconv.Itoa(argCount)
		where += ` AND (code ILIKE $` + p + ` OR customer_name ILIKE $` + p + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.Status != "" {
		argCount++
		where += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM sales_orders WHERE 1=1`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM sales_orders WHERE 1=1` + where + ` ORDER BY created_at DESC`
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

	var list []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, o)
	}
	return list, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM sales_orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, fmt.Errorf("%w: order %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return Order{}, err
	}
	o.Lines, err = r.GetOrderLines(ctx, id)
	return o, err
}

func (r *repository) CreateWithLines(ctx context.Context, order Order) (Order, error) {
	now := time.Now()
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO sales_orders (id, code, customer_name, customer_phone, address, status, note, cod_amount, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			order.ID, order.Code, order.CustomerName, order.CustomerPhone, order.Address, order.Status, order.Note, order.CODAmount, now, now)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("%w: order code %s", shared.ErrDuplicate, order.Code)
			}
			return err
		}
		for _, line := range order.Lines {
			if _, err := tx.Exec(ctx,
				`INSERT INTO sales_order_lines (id, order_id, product_id, qty, unit_price) VALUES ($1, $2, $3, $4, $5)`,
				line.ID, order.ID, line.ProductID, line.Qty, line.UnitPrice); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	return order, nil
}

func (r *repository) GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]OrderLine, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, order_id, product_id, qty, unit_price FROM sales_order_lines WHERE order_id = $1 ORDER BY id`,
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []OrderLine
	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Qty, &l.UnitPrice); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// SetStatus flips status only when the current status is in the allowed set.
// Zero rows on an existing order means a state conflict.
func (r *repository) SetStatus(ctx context.Context, id uuid.UUID, from []Status, to Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE sales_orders SET status = $1, updated_at = now() WHERE id = $2 AND status = ANY($3)`,
		to, id, statusStrings(from))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM sales_orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: order %s", shared.ErrNotFound, id)
		}
		return fmt.Errorf("%w: order %s cannot move to %s", shared.ErrConflict, id, to)
	}
	return nil
}

func (r *repository) MarkCODCollected(ctx context.Context, id uuid.UUID, amount float64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE sales_orders SET cod_amount = $1, cod_collected_at = now(), updated_at = now() WHERE id = $2 AND cod_collected_at IS NULL`,
		amount, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %s COD already collected or missing", shared.ErrConflict, id)
	}
	return nil
}

func (r *repository) MarkCODRemitted(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE sales_orders SET cod_remitted_at = now(), updated_at = now() WHERE id = $1 AND cod_collected_at IS NOT NULL AND cod_remitted_at IS NULL`,
		id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %s COD not collected or already remitted", shared.ErrConflict, id)
	}
	return nil
}

func statusStrings(in []Status) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
