package scheduling

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(newTestService()), echo.New()
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_CreateAppointment(t *testing.T) {
	h, e := newTestHandler()
	c, rec := jsonContext(e, http.MethodPost, "/api/v1/appointments",
		`{"patient_id":"pat1","doctor_id":"doc1","when":"next friday 3pm","reason":"Check-up"}`)

	if err := h.CreateAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var a Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatal(err)
	}
	if a.Date == "" || a.Time == "" || a.Reason != "Check-up" {
		t.Errorf("unexpected appointment %+v", a)
	}
}

func TestHandler_CreateAppointment_BadRequest(t *testing.T) {
	h, e := newTestHandler()
	c, _ := jsonContext(e, http.MethodPost, "/", `{"patient_id":"pat1"}`)

	err := h.CreateAppointment(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_GetAppointment_NotFound(t *testing.T) {
	h, e := newTestHandler()
	c, _ := jsonContext(e, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("apt404")

	err := h.GetAppointment(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_ListAppointments_ByDate(t *testing.T) {
	h, e := newTestHandler()
	for _, body := range []string{
		`{"patient_id":"pat1","doctor_id":"doc1","date":"2026-03-05","time":"10:00"}`,
		`{"patient_id":"pat2","doctor_id":"doc1","date":"2026-03-07","time":"10:00"}`,
	} {
		c, _ := jsonContext(e, http.MethodPost, "/", body)
		if err := h.CreateAppointment(c); err != nil {
			t.Fatal(err)
		}
	}

	c, rec := jsonContext(e, http.MethodGet, "/api/v1/appointments?date=2026-03-07", "")
	if err := h.ListAppointments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Data  []Appointment `json:"data"`
		Total int           `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Data[0].PatientID != "pat2" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestHandler_DeleteAppointment(t *testing.T) {
	h, e := newTestHandler()
	c, _ := jsonContext(e, http.MethodPost, "/", `{"patient_id":"pat1","doctor_id":"doc1","date":"2026-03-05","time":"10:00"}`)
	if err := h.CreateAppointment(c); err != nil {
		t.Fatal(err)
	}

	c, rec := jsonContext(e, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("apt1")
	if err := h.DeleteAppointment(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}
