package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/JakWdo/envfilter/internal/engine"
	"github.com/JakWdo/envfilter/internal/filter"
	"github.com/JakWdo/envfilter/internal/store"
)

// errorResponse is the uniform error body for all endpoints.
type errorResponse struct {
	Error string `json:"error"`
}

// EnvironmentController serves POST /environments/:environment_id/filter.
type EnvironmentController struct {
	Executor *engine.Executor
	Logger   *zap.Logger
}

type filterRequest struct {
	DSL          string `json:"dsl"`
	ResourceType string `json:"resource_type"`
	Limit        int    `json:"limit"`
	Cursor       string `json:"cursor"`
}

// Register implements Controller.
func (c *EnvironmentController) Register(e *echo.Echo) {
	e.POST("/environments/:environment_id/filter", c.filterAction)
}

func (c *EnvironmentController) filterAction(ctx echo.Context) error {
	var req filterRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "malformed request body"})
	}

	typ, err := store.ParseResourceType(req.ResourceType)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	result, err := c.Executor.Filter(ctx.Request().Context(), engine.Request{
		EnvironmentID: ctx.Param("environment_id"),
		ResourceType:  typ,
		DSL:           req.DSL,
		Limit:         req.Limit,
		Cursor:        req.Cursor,
	})
	if err != nil {
		var serr *filter.SyntaxError
		if errors.As(err, &serr) || errors.Is(err, engine.ErrBadCursor) {
			return ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		c.Logger.Error("filter failed",
			zap.String("environment_id", ctx.Param("environment_id")),
			zap.Error(err),
		)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{Error: "filter failed"})
	}

	return ctx.JSON(http.StatusOK, result)
}
