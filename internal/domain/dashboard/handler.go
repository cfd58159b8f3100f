package dashboard

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
	now func() time.Time
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard/daily", h.Daily)
}

// Daily serves the stats for ?date=YYYY-MM-DD, defaulting to today (UTC).
func (h *Handler) Daily(c echo.Context) error {
	day := h.now().UTC()
	if q := c.QueryParam("date"); q != "" {
		d, err := time.Parse("2006-01-02", q)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		day = d
	}
	stats, err := h.svc.DailyStats(c.Request().Context(), day)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, stats)
}
