package catalog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/clinica/clinica/internal/platform/auth"
)

// Repo is the table contract the handler needs; satisfied by
// crud.Table[Service].
type Repo interface {
	List(ctx context.Context) ([]*Service, error)
	Get(ctx context.Context, id int64) (*Service, error)
	Create(ctx context.Context, s *Service) (int64, error)
	Update(ctx context.Context, id int64, s *Service) error
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	repo     Repo
	validate *validator.Validate
}

func NewHandler(repo Repo, validate *validator.Validate) *Handler {
	return &Handler{repo: repo, validate: validate}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/services", auth.RequireRole("receptionist", "cashier", "director"))
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, auth.RequireRole("director"))
	g.PUT("/:id", h.Update, auth.RequireRole("director"))
	g.DELETE("/:id", h.Delete, auth.RequireRole("director"))
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) List(c echo.Context) error {
	items, err := h.repo.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	s, err := h.repo.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if s == nil {
		return echo.NewHTTPError(http.StatusNotFound, "service not found")
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) Create(c echo.Context) error {
	var s Service
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id, err := h.repo.Create(c.Request().Context(), &s)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	s.ID = id
	return c.JSON(http.StatusCreated, s)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var s Service
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.repo.Update(c.Request().Context(), id, &s); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	updated, err := h.repo.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if updated == nil {
		return echo.NewHTTPError(http.StatusNotFound, "service not found")
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.repo.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
