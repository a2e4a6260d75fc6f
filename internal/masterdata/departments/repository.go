package departments

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

	mdshared "github.com/wareline/wareline/internal/masterdata/shared"
	"github.com/wareline/wareline/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters mdshared.ListFilters) ([]Department, int, error)
	Get(ctx context.Context, id uuid.UUID) (Department, error)
	Create(ctx context.Context, d Department) (Department, error)
	Update(ctx context.Context, id uuid.UUID, d Department) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const columns = `id, code, name, manager_id, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters mdshared.ListFilters) ([]Department, int, error) {
	where := ``
	args := []interface{}{}
	argCount := 0
	if filters.Search != "" {
		argCount++
		p := strconv.Itoa(argCount)
		where += ` AND (name ILIKE $` + p + ` OR code ILIKE $` + p + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.IsActive != nil {
		argCount++
		where += ` AND is_active = $` + strconv.Itoa(argCount)
		args = append(args, *filters.IsActive)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM departments WHERE 1=1`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + columns + ` FROM departments WHERE 1=1` + where + ` ORDER BY name ASC`
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

	var list []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Code, &d.Name, &d.ManagerID, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, d)
	}
	return list, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Department, error) {
	var d Department
	err := r.db.QueryRow(ctx, `SELECT `+columns+` FROM departments WHERE id = $1`, id).
		Scan(&d.ID, &d.Code, &d.Name, &d.ManagerID, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, fmt.Errorf("%w: department %s", shared.ErrNotFound, id)
	}
	return d, err
}

func (r *repository) Create(ctx context.Context, d Department) (Department, error) {
	now := time.Now()
	_, err := r.db.Exec(ctx, `INSERT INTO departments (id, code, name, manager_id, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.Code, d.Name, d.ManagerID, d.IsActive, now, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Department{}, fmt.Errorf("%w: code %s", shared.ErrDuplicate, d.Code)
		}
		return Department{}, err
	}
	d.CreatedAt = now
	d.UpdatedAt = now
	return d, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, d Department) error {
	tag, err := r.db.Exec(ctx, `UPDATE departments SET code = $1, name = $2, manager_id = $3, is_active = $4, updated_at = $5 WHERE id = $6`,
		d.Code, d.Name, d.ManagerID, d.IsActive, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: department %s", shared.ErrNotFound, id)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: department %s", shared.ErrNotFound, id)
	}
	return nil
}
