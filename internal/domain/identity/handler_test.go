package identity

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
	h := NewHandler(newTestService())
	return h, echo.New()
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestHandler_CreatePatient(t *testing.T) {
	h, e := newTestHandler()

	c, rec := jsonContext(e, http.MethodPost, "/api/v1/patients",
		`{"name":"John Smith","age":45,"gender":"Male","contact":"555-0101","address":"123 Maple St"}`)
	if err := h.CreatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var p Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.ID == "" || p.Name != "John Smith" || p.Status != PatientAdmitted {
		t.Errorf("unexpected patient %+v", p)
	}
}

func TestHandler_CreatePatient_BadRequest(t *testing.T) {
	h, e := newTestHandler()

	c, _ := jsonContext(e, http.MethodPost, "/api/v1/patients", `{"age":45,"gender":"Male"}`)
	if code := httpCode(t, h.CreatePatient(c)); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestHandler_GetPatient_NotFound(t *testing.T) {
	h, e := newTestHandler()

	c, _ := jsonContext(e, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("pat404")
	if code := httpCode(t, h.GetPatient(c)); code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
}

func TestHandler_UpdatePatient(t *testing.T) {
	h, e := newTestHandler()
	c, _ := jsonContext(e, http.MethodPost, "/", `{"name":"Jane Doe","age":32,"gender":"Female"}`)
	if err := h.CreatePatient(c); err != nil {
		t.Fatal(err)
	}

	c, rec := jsonContext(e, http.MethodPut, "/", `{"name":"Jane Doe","age":33,"gender":"Female","status":"Discharged"}`)
	c.SetParamNames("id")
	c.SetParamValues("pat1")
	if err := h.UpdatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	c, _ = jsonContext(e, http.MethodPut, "/", `{"name":"Nobody","age":33,"gender":"Female"}`)
	c.SetParamNames("id")
	c.SetParamValues("pat9")
	if code := httpCode(t, h.UpdatePatient(c)); code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown patient, got %d", code)
	}
}

func TestHandler_ListPatients_Filters(t *testing.T) {
	h, e := newTestHandler()
	for _, body := range []string{
		`{"name":"John Smith","age":45,"gender":"Male"}`,
		`{"name":"Jane Doe","age":32,"gender":"Female","status":"Under Observation"}`,
	} {
		c, _ := jsonContext(e, http.MethodPost, "/", body)
		if err := h.CreatePatient(c); err != nil {
			t.Fatal(err)
		}
	}

	c, rec := jsonContext(e, http.MethodGet, "/api/v1/patients?status=Under+Observation", "")
	if err := h.ListPatients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Data  []Patient `json:"data"`
		Total int       `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Data[0].Name != "Jane Doe" {
		t.Errorf("unexpected list response %+v", resp)
	}
}

func TestHandler_CreateDoctor_CommaLanguages(t *testing.T) {
	h, e := newTestHandler()

	c, rec := jsonContext(e, http.MethodPost, "/api/v1/doctors",
		`{"name":"Dr. Ben Hayes","department":"Neurology","qualification":"MD","experience":8,
		  "languages":"English, French","email":"ben.hayes@hospital.example"}`)
	if err := h.CreateDoctor(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var d Doctor
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	if len(d.Languages) != 2 || d.Languages[1] != "French" {
		t.Errorf("expected split languages, got %v", d.Languages)
	}
	if len(d.Availability) != 2 {
		t.Errorf("expected default availability, got %v", d.Availability)
	}
}

func TestHandler_CreateDoctor_InvalidEmail(t *testing.T) {
	h, e := newTestHandler()

	c, _ := jsonContext(e, http.MethodPost, "/",
		`{"name":"Dr. X","department":"General","qualification":"MD","languages":["English"],"email":"nope"}`)
	err := h.CreateDoctor(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest || he.Message != "invalid email address" {
		t.Errorf("expected 400 invalid email address, got %v", err)
	}
}

func TestHandler_DeleteDoctor(t *testing.T) {
	h, e := newTestHandler()
	if err := h.svc.CreateDoctor(t.Context(), validDoctor()); err != nil {
		t.Fatal(err)
	}

	c, rec := jsonContext(e, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("doc1")
	if err := h.DeleteDoctor(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}

	c, _ = jsonContext(e, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("doc1")
	if code := httpCode(t, h.DeleteDoctor(c)); code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
}

func TestHandler_ListDepartments(t *testing.T) {
	h, e := newTestHandler()
	c, rec := jsonContext(e, http.MethodGet, "/api/v1/departments", "")
	if err := h.ListDepartments(c); err != nil {
		t.Fatal(err)
	}

	var got []string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	want := []string{"Cardiology", "Neurology", "Pediatrics", "Orthopedics", "General"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestStringList_UnmarshalJSON(t *testing.T) {
	var l StringList
	if err := json.Unmarshal([]byte(`[" English ","","Hindi"]`), &l); err != nil {
		t.Fatal(err)
	}
	if len(l) != 2 || l[0] != "English" || l[1] != "Hindi" {
		t.Errorf("unexpected list %v", l)
	}
	if err := json.Unmarshal([]byte(`42`), &l); err == nil {
		t.Error("expected error for non-list value")
	}
}
