package doctor

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinica/clinica/internal/platform/crud"
)

type Doctor struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name" validate:"required"`
	Specialty string  `json:"specialty" validate:"required"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
}

func NewRepo(pool *pgxpool.Pool) *crud.Table[Doctor] {
	return &crud.Table[Doctor]{
		Pool:    pool,
		Name:    "doctors",
		Columns: []string{"name", "specialty", "phone", "email"},
		Scan: func(row pgx.Row) (*Doctor, error) {
			var d Doctor
			err := row.Scan(&d.ID, &d.Name, &d.Specialty, &d.Phone, &d.Email)
			return &d, err
		},
		Values: func(d *Doctor) []interface{} {
			return []interface{}{d.Name, d.Specialty, d.Phone, d.Email}
		},
	}
}
