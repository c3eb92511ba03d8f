package attributes

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListFilter narrows List results.
type ListFilter struct {
	Type       string
	OnlyActive bool
}

// Repository persists attributes in PostgreSQL.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Attribute, error)
	Get(ctx context.Context, id int64) (Attribute, error)
	Create(ctx context.Context, attr Attribute) (Attribute, error)
	Update(ctx context.Context, attr Attribute) error
	Delete(ctx context.Context, id int64) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Attribute, error) {
	query := `SELECT id, type, name, color_code, status FROM attributes`
	conds := []string{}
	args := []any{}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, `type = $1`)
	}
	if filter.OnlyActive {
		conds = append(conds, `status = 1`)
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += ` ORDER BY type, LOWER(name)`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attrs := []Attribute{}
	for rows.Next() {
		var a Attribute
		if err := rows.Scan(&a.ID, &a.Type, &a.Name, &a.ColorCode, &a.Status); err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	return attrs, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Attribute, error) {
	var a Attribute
	err := r.pool.QueryRow(ctx,
		`SELECT id, type, name, color_code, status FROM attributes WHERE id = $1`, id).
		Scan(&a.ID, &a.Type, &a.Name, &a.ColorCode, &a.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Attribute{}, ErrNotFound
		}
		return Attribute{}, err
	}
	return a, nil
}

func (r *repository) Create(ctx context.Context, attr Attribute) (Attribute, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO attributes (type, name, color_code, status) VALUES ($1, $2, $3, $4) RETURNING id`,
		attr.Type, attr.Name, attr.ColorCode, attr.Status).Scan(&attr.ID)
	if err != nil {
		return Attribute{}, translateErr(err)
	}
	return attr, nil
}

func (r *repository) Update(ctx context.Context, attr Attribute) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE attributes SET name = $1, color_code = $2, status = $3 WHERE id = $4`,
		attr.Name, attr.ColorCode, attr.Status, attr.ID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attributes WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func translateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
