package stats

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/clinica/clinica/internal/domain/appointment"
	"github.com/clinica/clinica/internal/platform/auth"
)

// Overview is the dashboard counter block.
type Overview struct {
	Patients          int64 `json:"patients"`
	Doctors           int64 `json:"doctors"`
	Appointments      int64 `json:"appointments"`
	AppointmentsToday int64 `json:"appointments_today"`
}

type Handler struct {
	pool     *pgxpool.Pool
	todaySQL string
}

// NewHandler builds the today-count query from the resolved appointment
// date column so it works against either schema dialect.
func NewHandler(pool *pgxpool.Pool, cols appointment.Columns) *Handler {
	dateCol := pgx.Identifier{cols.Date}.Sanitize()
	return &Handler{
		pool: pool,
		todaySQL: fmt.Sprintf(
			`SELECT COUNT(*) FROM appointments WHERE %s::date = CURRENT_DATE`, dateCol),
	}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/stats", auth.RequireRole("director"))
	g.GET("/overview", h.Overview)
}

func (h *Handler) Overview(c echo.Context) error {
	ctx := c.Request().Context()
	var o Overview
	counts := []struct {
		sql  string
		dest *int64
	}{
		{`SELECT COUNT(*) FROM patients`, &o.Patients},
		{`SELECT COUNT(*) FROM doctors`, &o.Doctors},
		{`SELECT COUNT(*) FROM appointments`, &o.Appointments},
		{h.todaySQL, &o.AppointmentsToday},
	}
	for _, q := range counts {
		if err := h.count(ctx, q.sql, q.dest); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) count(ctx context.Context, sql string, dest *int64) error {
	return h.pool.QueryRow(ctx, sql).Scan(dest)
}
