package catalog

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinica/clinica/internal/platform/crud"
)

// Service is a billable clinic service; billing reads its price when an
// invoice line does not carry one.
type Service struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name" validate:"required"`
	Category *string `json:"category,omitempty"`
	Price    float64 `json:"price" validate:"gte=0"`
}

func NewRepo(pool *pgxpool.Pool) *crud.Table[Service] {
	return &crud.Table[Service]{
		Pool:    pool,
		Name:    "services",
		Columns: []string{"name", "category", "price"},
		Scan: func(row pgx.Row) (*Service, error) {
			var s Service
			err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Price)
			return &s, err
		},
		Values: func(s *Service) []interface{} {
			return []interface{}{s.Name, s.Category, s.Price}
		},
	}
}
