package patient

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinica/clinica/internal/platform/crud"
)

type Patient struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name" validate:"required"`
	DPI   *string `json:"dpi,omitempty"`
	DOB   *Date   `json:"dob,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

func NewRepo(pool *pgxpool.Pool) *crud.Table[Patient] {
	return &crud.Table[Patient]{
		Pool:    pool,
		Name:    "patients",
		Columns: []string{"name", "dpi", "dob", "phone", "email"},
		Scan: func(row pgx.Row) (*Patient, error) {
			var p Patient
			err := row.Scan(&p.ID, &p.Name, &p.DPI, &p.DOB, &p.Phone, &p.Email)
			return &p, err
		},
		Values: func(p *Patient) []interface{} {
			return []interface{}{p.Name, p.DPI, p.DOB, p.Phone, p.Email}
		},
	}
}
