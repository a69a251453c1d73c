package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kapilraj/pos-backend/internal/service"
)

type DashboardHandler struct {
	Dashboard *service.DashboardService
}

// Summary reports the day's sales and order count plus recent orders.
// An optional ?date=2006-01-02 query selects a past day; default is today.
func (h *DashboardHandler) Summary(c echo.Context) error {
	date := time.Now()
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		}
		date = parsed
	}

	resp, err := h.Dashboard.Summary(c.Request().Context(), date)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}
