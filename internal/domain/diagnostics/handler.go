package diagnostics

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carepoint/hms/internal/domain/aiassist"
	"github.com/carepoint/hms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the laboratory endpoints. aiMW applies only to the
// report drafting route, which calls the language model.
func (h *Handler) RegisterRoutes(api *echo.Group, aiMW ...echo.MiddlewareFunc) {
	api.GET("/lab-appointments", h.List)
	api.POST("/lab-appointments", h.Schedule)
	api.GET("/lab-appointments/stats", h.Stats)
	api.GET("/lab-appointments/:id", h.Get)
	api.DELETE("/lab-appointments/:id", h.Delete)
	api.POST("/lab-appointments/:id/cancel", h.Cancel)
	api.POST("/lab-appointments/:id/report/generate", h.GenerateReport, aiMW...)
	api.PUT("/lab-appointments/:id/report", h.SaveReport)
}

func (h *Handler) Schedule(c echo.Context) error {
	var l LabAppointment
	if err := c.Bind(&l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Schedule(c.Request().Context(), &l); err != nil {
		return httpError(err, http.StatusInternalServerError)
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *Handler) Get(c echo.Context) error {
	l, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err, http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := pagination.Filters(c, ParamPatientID, ParamStatus)
	items, total, err := h.svc.Search(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err, http.StatusInternalServerError)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Cancel(c echo.Context) error {
	l, err := h.svc.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err, http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) GenerateReport(c echo.Context) error {
	report, err := h.svc.GenerateReport(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, aiassist.ErrOperationFailed) {
			return aiassist.HTTPError(err)
		}
		return httpError(err, http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) SaveReport(c echo.Context) error {
	var report aiassist.LabReportResult
	if err := c.Bind(&report); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	l, err := h.svc.SaveReport(c.Request().Context(), c.Param("id"), &report)
	if err != nil {
		return httpError(err, http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) Stats(c echo.Context) error {
	counts, err := h.svc.StatusCounts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, counts)
}

func httpError(err error, fallback int) error {
	switch {
	case isValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrLabAppointmentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(fallback, err.Error())
}
