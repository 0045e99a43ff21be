package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinica/clinica/internal/platform/crud"
)

type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Role         string `json:"role" validate:"required,oneof=admin receptionist cashier director doctor imaging patient"`
	PasswordHash string `json:"-"`
}

// Repo extends the generic table with an email lookup for login.
type Repo struct {
	*crud.Table[User]
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{
		pool: pool,
		Table: &crud.Table[User]{
			Pool:    pool,
			Name:    "users",
			Columns: []string{"name", "email", "role", "password_hash"},
			Scan: func(row pgx.Row) (*User, error) {
				var u User
				err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PasswordHash)
				return &u, err
			},
			Values: func(u *User) []interface{} {
				return []interface{}{u.Name, u.Email, u.Role, u.PasswordHash}
			},
		},
	}
}

// FindByEmail returns (nil, nil) when no user has that email.
func (r *Repo) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, email, role, password_hash FROM users WHERE email = $1`, email)
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
