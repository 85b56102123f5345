package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanifwid/go-shop-api/internal/apperr"
	"github.com/hanifwid/go-shop-api/internal/catalog"
	"github.com/hanifwid/go-shop-api/internal/users"
)

// Repo implements Store on PostgreSQL. Lifecycle transactions lock the
// rows they read with SELECT ... FOR UPDATE, which serializes concurrent
// read-modify-write cycles on the same product without a version column.
type Repo struct{ DB *pgxpool.Pool }

var _ Store = (*Repo)(nil)

func (r *Repo) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return pgx.BeginFunc(ctx, r.DB, func(pgtx pgx.Tx) error {
		return fn(&repoTx{tx: pgtx})
	})
}

type repoTx struct{ tx pgx.Tx }

var _ Tx = (*repoTx)(nil)

func (t *repoTx) UserByID(ctx context.Context, id int64) (users.User, error) {
	var u users.User
	err := t.tx.QueryRow(ctx,
		`SELECT id, name, email, password, role, address FROM users WHERE id=$1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return users.User{}, apperr.NotFound("user", id)
	}
	return u, err
}

func (t *repoTx) ProductForUpdate(ctx context.Context, id int64) (catalog.Product, error) {
	var p catalog.Product
	err := t.tx.QueryRow(ctx, `
		SELECT id, product_name, quantity, cost, product_desc, product_url
		FROM products WHERE id=$1 FOR UPDATE`, id,
	).Scan(&p.ID, &p.Name, &p.Quantity, &p.Cost, &p.Description, &p.URL)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Product{}, apperr.NotFound("product", id)
	}
	return p, err
}

func (t *repoTx) SetProductQuantity(ctx context.Context, id int64, quantity int) error {
	ct, err := t.tx.Exec(ctx, `UPDATE products SET quantity=$2 WHERE id=$1`, id, quantity)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound("product", id)
	}
	return nil
}

func (t *repoTx) InsertOrder(ctx context.Context, o Order) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO orders(user_id, product_id, quantity, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		o.UserID, o.ProductID, o.Quantity, o.Status, o.CreatedAt,
	).Scan(&id)
	return id, err
}

func (t *repoTx) OrderForUpdate(ctx context.Context, id int64) (Order, error) {
	var o Order
	err := t.tx.QueryRow(ctx, `
		SELECT id, user_id, product_id, quantity, status, created_at
		FROM orders WHERE id=$1 FOR UPDATE`, id,
	).Scan(&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, apperr.NotFound("order", id)
	}
	return o, err
}

func (t *repoTx) SetOrderStatus(ctx context.Context, id int64, status Status) error {
	ct, err := t.tx.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound("order", id)
	}
	return nil
}

func (t *repoTx) DeleteOrder(ctx context.Context, id int64) error {
	ct, err := t.tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound("order", id)
	}
	return nil
}

const detailQuery = `
	SELECT o.id, o.user_id, o.product_id, o.quantity, o.status, o.created_at,
	       u.name, p.product_name
	FROM orders o
	JOIN users u ON u.id = o.user_id
	JOIN products p ON p.id = o.product_id`

func scanDetail(row pgx.Row) (OrderDetail, error) {
	var d OrderDetail
	err := row.Scan(&d.ID, &d.UserID, &d.ProductID, &d.Quantity, &d.Status, &d.CreatedAt,
		&d.UserName, &d.ProductName)
	return d, err
}

func (r *Repo) OrderDetail(ctx context.Context, id int64) (OrderDetail, error) {
	d, err := scanDetail(r.DB.QueryRow(ctx, detailQuery+` WHERE o.id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return OrderDetail{}, apperr.NotFound("order", id)
	}
	return d, err
}

func (r *Repo) Orders(ctx context.Context, f Filter) ([]OrderDetail, error) {
	sql := detailQuery + ` WHERE 1=1`
	args := []any{}
	if f.UserID != nil {
		args = append(args, *f.UserID)
		sql += ` AND o.user_id=$1`
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		if len(args) == 1 {
			sql += ` AND o.status=$1`
		} else {
			sql += ` AND o.status=$2`
		}
	}
	sql += ` ORDER BY o.id`

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []OrderDetail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
