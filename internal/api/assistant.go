package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type assistantRequest struct {
	Question string `json:"question"`
}

// AskAssistant answers an FAQ question using the rule-based assistant.
func (c *Controller) AskAssistant(ctx echo.Context) error {
	var req assistantRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Question) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question is required")
	}

	return ctx.JSON(http.StatusOK, c.Assistant.Ask(req.Question))
}
