package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocklet/stocklet/internal/platform/db"
)

// Repository persists products and variants in PostgreSQL. Create, Update and
// Delete each run in a single transaction so variant batches are
// all-or-nothing and deletes never leave orphans.
type Repository interface {
	ListProducts(ctx context.Context) ([]Product, error)
	ListVariants(ctx context.Context) ([]Variant, error)
	Create(ctx context.Context, product Product, variants []Variant) (Product, error)
	Update(ctx context.Context, code string, product Product, variants []Variant, replaceVariants bool) error
	Delete(ctx context.Context, code string) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, name, cost, note, category, created_at FROM products ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Cost, &p.Note, &p.Category, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) ListVariants(ctx context.Context) ([]Variant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, color, size, quantity, img FROM product_variants ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	variants := []Variant{}
	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Color, &v.Size, &v.Quantity, &v.Img); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

func (r *repository) Create(ctx context.Context, product Product, variants []Variant) (Product, error) {
	created := product
	created.Variants = []Variant{}
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO products (code, name, cost, note, category) VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			product.Code, product.Name, product.Cost, product.Note, product.Category).
			Scan(&created.ID, &created.CreatedAt)
		if err != nil {
			return err
		}
		inserted, err := insertVariants(ctx, tx, created.ID, variants)
		if err != nil {
			return err
		}
		created.Variants = inserted
		return nil
	})
	if err != nil {
		return Product{}, err
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, code string, product Product, variants []Variant, replaceVariants bool) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		productID, err := lookupID(ctx, tx, code)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE products SET name = $1, cost = $2, note = $3, category = $4 WHERE id = $5`,
			product.Name, product.Cost, product.Note, product.Category, productID)
		if err != nil {
			return err
		}
		if !replaceVariants {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM product_variants WHERE product_id = $1`, productID); err != nil {
			return err
		}
		_, err = insertVariants(ctx, tx, productID, variants)
		return err
	})
}

func (r *repository) Delete(ctx context.Context, code string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		productID, err := lookupID(ctx, tx, code)
		if err != nil {
			return err
		}
		// Movements first, then variants, then the product row: the ledger
		// references both and nothing cascades for it.
		if _, err := tx.Exec(ctx, `DELETE FROM movements WHERE product_id = $1`, productID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM product_variants WHERE product_id = $1`, productID); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
		return err
	})
}

func lookupID(ctx context.Context, tx pgx.Tx, code string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `SELECT id FROM products WHERE code = $1`, code).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

func insertVariants(ctx context.Context, tx pgx.Tx, productID int64, variants []Variant) ([]Variant, error) {
	inserted := make([]Variant, 0, len(variants))
	for _, v := range variants {
		v.ProductID = productID
		err := tx.QueryRow(ctx,
			`INSERT INTO product_variants (product_id, color, size, quantity, img)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			productID, v.Color, v.Size, v.Quantity, v.Img).Scan(&v.ID)
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, v)
	}
	return inserted, nil
}
