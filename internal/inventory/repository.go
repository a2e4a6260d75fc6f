package inventory

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

	"github.com/wareline/wareline/internal/shared"
)

// Execer is the slice of pgx shared by *pgxpool.Pool and pgx.Tx. Reserve and
// Restore run over it so preparation transactions can adjust lots inside
// their own transactional scope.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Reserve deducts qty from a lot's remaining quantity. The conditional update
// is the atomic test-and-set: zero rows means the lot is missing or short.
func Reserve(ctx context.Context, db Execer, lotID uuid.UUID, qty float64) error {
	tag, err := db.Exec(ctx,
		`UPDATE inventory_lots SET remain_qty = remain_qty - $1, updated_at = now() WHERE id = $2 AND remain_qty >= $1`,
		qty, lotID)
	if err != nil {
		return fmt.Errorf("reserve lot %s: %w", lotID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: lot %s, qty %.3f", ErrInsufficientStock, lotID, qty)
	}
	return nil
}

// Restore returns qty to a lot's remaining quantity. The guard keeps
// remain_qty from exceeding qty_on_hand; tripping it means a reservation was
// restored twice or never made.
func Restore(ctx context.Context, db Execer, lotID uuid.UUID, qty float64) error {
	tag, err := db.Exec(ctx,
		`UPDATE inventory_lots SET remain_qty = remain_qty + $1, updated_at = now() WHERE id = $2 AND remain_qty + $1 <= qty_on_hand`,
		qty, lotID)
	if err != nil {
		return fmt.Errorf("restore lot %s: %w", lotID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: lot %s, qty %.3f", ErrRestoreOverflow, lotID, qty)
	}
	return nil
}

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Lot, int, error)
	Get(ctx context.Context, id uuid.UUID) (Lot, error)
	Create(ctx context.Context, lot Lot) (Lot, error)
	Reserve(ctx context.Context, lotID uuid.UUID, qty float64) error
	Restore(ctx context.Context, lotID uuid.UUID, qty float64) error
	ListExpiring(ctx context.Context, before time.Time) ([]Lot, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const lotColumns = `id, product_id, department_id, qty_on_hand, remain_qty, expiry_date, created_at, updated_at`

func scanLot(row pgx.Row) (Lot, error) {
	var l Lot
	err := row.Scan(&l.ID, &l.ProductID, &l.DepartmentID, &l.QtyOnHand, &l.RemainQty, &l.ExpiryDate, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Lot, int, error) {
	where := ``
	args := []interface{}{}
	argCount := 0
	if filters.ProductID != nil {
		argCount++
		where += ` AND product_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.ProductID)
	}
	if filters.DepartmentID != nil {
		argCount++
		where += ` AND department_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.DepartmentID)
	}
	if filters.ExpiringBefore != nil {
		argCount++
		where += ` AND expiry_date IS NOT NULL AND expiry_date <= $` + strconv.Itoa(argCount)
		args = append(args, *filters.ExpiringBefore)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_lots WHERE 1=1`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + lotColumns + ` FROM inventory_lots WHERE 1=1` + where + ` ORDER BY expiry_date ASC NULLS LAST, created_at DESC`
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

	var lots []Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, 0, err
		}
		lots = append(lots, l)
	}
	return lots, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Lot, error) {
	l, err := scanLot(r.db.QueryRow(ctx, `SELECT `+lotColumns+` FROM inventory_lots WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lot{}, fmt.Errorf("%w: lot %s", shared.ErrNotFound, id)
	}
	return l, err
}

func (r *repository) Create(ctx context.Context, lot Lot) (Lot, error) {
	now := time.Now()
	_, err := r.db.Exec(ctx,
		`INSERT INTO inventory_lots (id, product_id, department_id, qty_on_hand, remain_qty, expiry_date, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		lot.ID, lot.ProductID, lot.DepartmentID, lot.QtyOnHand, lot.RemainQty, lot.ExpiryDate, now, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Lot{}, fmt.Errorf("%w: lot %s", shared.ErrDuplicate, lot.ID)
		}
		return Lot{}, err
	}
	lot.CreatedAt = now
	lot.UpdatedAt = now
	return lot, nil
}

func (r *repository) Reserve(ctx context.Context, lotID uuid.UUID, qty float64) error {
	return Reserve(ctx, r.db, lotID, qty)
}

func (r *repository) Restore(ctx context.Context, lotID uuid.UUID, qty float64) error {
	return Restore(ctx, r.db, lotID, qty)
}

func (r *repository) ListExpiring(ctx context.Context, before time.Time) ([]Lot, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+lotColumns+` FROM inventory_lots WHERE expiry_date IS NOT NULL AND expiry_date <= $1 AND remain_qty > 0 ORDER BY expiry_date ASC`,
		before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []Lot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		lots = append(lots, l)
	}
	return lots, rows.Err()
}
