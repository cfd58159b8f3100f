package aiassist

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

const msgPatientNotFound = "Selected patient not found."

// PatientDirectory answers whether a patient ID refers to a known patient.
type PatientDirectory interface {
	PatientExists(ctx context.Context, id string) (bool, error)
}

type Handler struct {
	actions  *Actions
	patients PatientDirectory
}

func NewHandler(actions *Actions, patients PatientDirectory) *Handler {
	return &Handler{actions: actions, patients: patients}
}

// RegisterRoutes mounts the AI endpoints. Extra middleware (rate limits) is
// applied to this group only.
func (h *Handler) RegisterRoutes(api *echo.Group, mw ...echo.MiddlewareFunc) {
	g := api.Group("/ai", mw...)
	g.POST("/diagnosis", h.Diagnose)
	g.POST("/lab-report", h.GenerateLabReport)
}

func (h *Handler) Diagnose(c echo.Context) error {
	var req DiagnosisRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req, err := PrepareDiagnosis(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	ok, err := h.patients.PatientExists(ctx, req.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, msgPatientNotFound)
	}

	out, err := h.actions.RunDiagnosis(ctx, req)
	if err != nil {
		return HTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GenerateLabReport(c echo.Context) error {
	var req LabReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req, err := PrepareLabReport(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	out, err := h.actions.RunLabReportGeneration(c.Request().Context(), req)
	if err != nil {
		return HTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

// HTTPError maps an OperationFailed to 502 with its fixed message.
func HTTPError(err error) error {
	var of *OperationFailed
	if errors.As(err, &of) {
		return echo.NewHTTPError(http.StatusBadGateway, of.Message)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
