package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hanifwid/go-shop-api/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

var _ Store = (*Repo)(nil)

const productCols = `id, product_name, quantity, cost, product_desc, product_url`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.Cost, &p.Description, &p.URL)
	return p, err
}

func (r *Repo) queryMany(ctx context.Context, sql string, args ...any) ([]Product, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Products(ctx context.Context) ([]Product, error) {
	return r.queryMany(ctx, `SELECT `+productCols+` FROM products ORDER BY id`)
}

func (r *Repo) ProductByID(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, apperr.NotFound("product", id)
	}
	return p, err
}

func (r *Repo) SearchByName(ctx context.Context, name string) ([]Product, error) {
	return r.queryMany(ctx,
		`SELECT `+productCols+` FROM products WHERE product_name ILIKE '%' || $1 || '%' ORDER BY id`, name)
}

func (r *Repo) ByMaxCost(ctx context.Context, maxCost decimal.Decimal) ([]Product, error) {
	return r.queryMany(ctx,
		`SELECT `+productCols+` FROM products WHERE cost <= $1 ORDER BY id`, maxCost)
}

func (r *Repo) Available(ctx context.Context) ([]Product, error) {
	return r.queryMany(ctx,
		`SELECT `+productCols+` FROM products WHERE quantity > 0 ORDER BY id`)
}

func (r *Repo) Insert(ctx context.Context, p Product) (Product, error) {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(product_name, quantity, cost, product_desc, product_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		p.Name, p.Quantity, p.Cost, p.Description, p.URL,
	).Scan(&p.ID)
	return p, err
}

func (r *Repo) Update(ctx context.Context, p Product) (Product, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET product_name=$2, quantity=$3, cost=$4, product_desc=$5, product_url=$6
		WHERE id=$1`,
		p.ID, p.Name, p.Quantity, p.Cost, p.Description, p.URL,
	)
	if err != nil {
		return Product{}, err
	}
	if ct.RowsAffected() == 0 {
		return Product{}, apperr.NotFound("product", p.ID)
	}
	return p, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound("product", id)
	}
	return nil
}
