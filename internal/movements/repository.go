package movements

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRepository exposes the ledger operations available inside a movement
// transaction.
type TxRepository interface {
	GetVariantForUpdate(ctx context.Context, variantID int64) (VariantStock, error)
	UpdateVariantQuantity(ctx context.Context, variantID, quantity int64) error
	InsertMovement(ctx context.Context, m Movement) (int64, error)
}

// Repository persists movements in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes fn inside one transaction. The variant row lock taken by
// GetVariantForUpdate serializes concurrent movements against one variant.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	wrapper := &txRepository{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// List returns all movements newest-first, joined with product name and the
// variant label. Same-timestamp rows keep insertion order (highest id first).
func (r *Repository) List(ctx context.Context) ([]Movement, error) {
	rows, err := r.pool.Query(ctx, `
SELECT m.id, m.product_id, m.variant_id, m.type, m.quantity, m.username, m.time, m.note,
       p.name,
       TRIM(COALESCE(v.color, '') ||
            CASE WHEN v.color IS NOT NULL AND v.size IS NOT NULL THEN ' / ' ELSE '' END ||
            COALESCE(v.size, ''))
FROM movements m
LEFT JOIN products p ON p.id = m.product_id
LEFT JOIN product_variants v ON v.id = m.variant_id
ORDER BY m.time DESC, m.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Movement{}
	for rows.Next() {
		var (
			m     Movement
			label *string
		)
		if err := rows.Scan(&m.ID, &m.ProductID, &m.VariantID, &m.Type, &m.Quantity,
			&m.User, &m.Time, &m.Note, &m.ProductName, &label); err != nil {
			return nil, err
		}
		if label != nil {
			m.Variant = *label
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *txRepository) GetVariantForUpdate(ctx context.Context, variantID int64) (VariantStock, error) {
	var vs VariantStock
	err := r.tx.QueryRow(ctx, `
SELECT v.id, v.product_id, p.name, v.color, v.size, v.quantity
FROM product_variants v
JOIN products p ON p.id = v.product_id
WHERE v.id = $1
FOR UPDATE OF v`, variantID).
		Scan(&vs.ID, &vs.ProductID, &vs.ProductName, &vs.Color, &vs.Size, &vs.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return VariantStock{}, ErrVariantNotFound
		}
		return VariantStock{}, err
	}
	return vs, nil
}

func (r *txRepository) UpdateVariantQuantity(ctx context.Context, variantID, quantity int64) error {
	_, err := r.tx.Exec(ctx,
		`UPDATE product_variants SET quantity = $1 WHERE id = $2`, quantity, variantID)
	return err
}

func (r *txRepository) InsertMovement(ctx context.Context, m Movement) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `
INSERT INTO movements (product_id, variant_id, type, quantity, username, time, note)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		m.ProductID, m.VariantID, string(m.Type), m.Quantity, m.User, m.Time, m.Note).Scan(&id)
	return id, err
}
