package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/JakWdo/envfilter/internal/filter"
	"github.com/JakWdo/envfilter/internal/store"
)

// FiltersController serves the saved-filter endpoints. Saved filters are
// immutable: create, list and get only.
type FiltersController struct {
	Store  store.SavedFilterStore
	Logger *zap.Logger
}

type createFilterRequest struct {
	EnvironmentID string `json:"environment_id"`
	Name          string `json:"name"`
	DSL           string `json:"dsl"`
	CreatedBy     string `json:"created_by"`
}

// Register implements Controller.
func (c *FiltersController) Register(e *echo.Echo) {
	e.POST("/environments/filters", c.createAction)
	e.GET("/environments/filters", c.listAction)
	e.GET("/environments/filters/:id", c.getAction)
}

func (c *FiltersController) createAction(ctx echo.Context) error {
	var req createFilterRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request body"})
	}
	if req.EnvironmentID == "" {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "environment_id is required"})
	}
	if req.Name == "" {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "name is required"})
	}
	// Reject queries that would fail at apply time
	if _, err := filter.Parse(req.DSL); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	saved := store.SavedFilter{
		ID:            uuid.NewString(),
		EnvironmentID: req.EnvironmentID,
		Name:          req.Name,
		DSL:           req.DSL,
		CreatedBy:     req.CreatedBy,
		CreatedAt:     time.Now().UTC(),
	}
	if err := c.Store.CreateSavedFilter(ctx.Request().Context(), saved); err != nil {
		c.Logger.Error("failed to create saved filter", zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to create filter"})
	}

	return ctx.JSON(http.StatusCreated, saved)
}

func (c *FiltersController) listAction(ctx echo.Context) error {
	environmentID := ctx.QueryParam("environment_id")
	if environmentID == "" {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "environment_id is required"})
	}

	filters, err := c.Store.ListSavedFilters(ctx.Request().Context(), environmentID)
	if err != nil {
		c.Logger.Error("failed to list saved filters", zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to list filters"})
	}
	if filters == nil {
		filters = []store.SavedFilter{}
	}

	return ctx.JSON(http.StatusOK, filters)
}

func (c *FiltersController) getAction(ctx echo.Context) error {
	saved, err := c.Store.GetSavedFilter(ctx.Request().Context(), ctx.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return ctx.JSON(http.StatusNotFound, errorResponse{Error: "filter not found"})
	}
	if err != nil {
		c.Logger.Error("failed to get saved filter", zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to get filter"})
	}

	return ctx.JSON(http.StatusOK, saved)
}
