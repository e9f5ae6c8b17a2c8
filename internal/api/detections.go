package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ListDetections returns the in-memory history, most recent first. An
// optional limit query parameter caps the count.
func (c *Controller) ListDetections(ctx echo.Context) error {
	history := c.Sink.History()

	if raw := ctx.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		if limit < len(history) {
			history = history[:limit]
		}
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"detections": history,
		"total":      len(history),
	})
}

// ClearDetections removes the entire history.
func (c *Controller) ClearDetections(ctx echo.Context) error {
	c.Sink.ClearHistory()
	return ctx.NoContent(http.StatusNoContent)
}

// ExportDetections streams the history as a CSV attachment.
func (c *Controller) ExportDetections(ctx echo.Context) error {
	ctx.Response().Header().Set(echo.HeaderContentType, "text/csv")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="detections.csv"`)
	ctx.Response().WriteHeader(http.StatusOK)
	return c.Sink.ExportCSV(ctx.Response())
}
