package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanifwid/go-shop-api/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

var _ Store = (*Repo)(nil)

const userCols = `id, name, email, password, role, address`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Address)
	return u, err
}

func (r *Repo) Users(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+userCols+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) UserByID(ctx context.Context, id int64) (User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("user", id)
	}
	return u, err
}

func (r *Repo) UserByEmail(ctx context.Context, email string) (User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email=$1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFoundBy("user", "email", email)
	}
	return u, err
}

func (r *Repo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)`, email).Scan(&exists)
	return exists, err
}

func (r *Repo) Insert(ctx context.Context, u User) (User, error) {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO users(name, email, password, role, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		u.Name, u.Email, u.Password, u.Role, u.Address,
	).Scan(&u.ID)
	return u, err
}

func (r *Repo) Update(ctx context.Context, u User) (User, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE users SET name=$2, email=$3, password=$4, role=$5, address=$6
		WHERE id=$1`,
		u.ID, u.Name, u.Email, u.Password, u.Role, u.Address,
	)
	if err != nil {
		return User{}, err
	}
	if ct.RowsAffected() == 0 {
		return User{}, apperr.NotFound("user", u.ID)
	}
	return u, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound("user", id)
	}
	return nil
}
