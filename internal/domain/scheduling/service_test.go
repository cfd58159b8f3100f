package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubDirectory struct {
	patients map[string]bool
	doctors  map[string]bool
}

func (d stubDirectory) PatientExists(_ context.Context, id string) (bool, error) {
	return d.patients[id], nil
}

func (d stubDirectory) DoctorExists(_ context.Context, id string) (bool, error) {
	return d.doctors[id], nil
}

var fixedNow = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC) // a Monday

func newTestService() *Service {
	svc := NewService(NewAppointmentRepoMemory(), stubDirectory{
		patients: map[string]bool{"pat1": true, "pat2": true},
		doctors:  map[string]bool{"doc1": true, "doc2": true},
	})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestService_Book_ExplicitDate(t *testing.T) {
	svc := newTestService()

	a, err := svc.Book(context.Background(), BookingRequest{
		PatientID: "pat1", DoctorID: "doc1", Date: "2026-03-05", Time: "14:30", Reason: " Follow-up ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID != "apt1" {
		t.Errorf("expected apt1, got %q", a.ID)
	}
	if a.Date != "2026-03-05" || a.Time != "14:30" {
		t.Errorf("unexpected date/time %s %s", a.Date, a.Time)
	}
	if a.Reason != "Follow-up" {
		t.Errorf("expected trimmed reason, got %q", a.Reason)
	}
}

func TestService_Book_RFC3339(t *testing.T) {
	svc := newTestService()

	a, err := svc.Book(context.Background(), BookingRequest{
		PatientID: "pat1", DoctorID: "doc1", Date: "2026-03-05T16:15:00+02:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Date != "2026-03-05" || a.Time != "14:15" {
		t.Errorf("expected UTC rendering 2026-03-05 14:15, got %s %s", a.Date, a.Time)
	}
}

func TestService_Book_NaturalLanguage(t *testing.T) {
	svc := newTestService()

	a, err := svc.Book(context.Background(), BookingRequest{
		PatientID: "pat2", DoctorID: "doc2", When: "tomorrow at 10am",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Date != "2026-03-03" {
		t.Errorf("expected 2026-03-03, got %s", a.Date)
	}
	if a.StartsAt.Hour() != 10 {
		t.Errorf("expected hour 10, got %d", a.StartsAt.Hour())
	}
}

func TestService_Book_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  BookingRequest
	}{
		{"missing ids", BookingRequest{Date: "2026-03-05", Time: "10:00"}},
		{"missing date", BookingRequest{PatientID: "pat1", DoctorID: "doc1"}},
		{"bad date", BookingRequest{PatientID: "pat1", DoctorID: "doc1", Date: "05/03/2026", Time: "10:00"}},
		{"date without time", BookingRequest{PatientID: "pat1", DoctorID: "doc1", Date: "2026-03-05"}},
		{"bad time", BookingRequest{PatientID: "pat1", DoctorID: "doc1", Date: "2026-03-05", Time: "10am"}},
		{"unknown patient", BookingRequest{PatientID: "pat9", DoctorID: "doc1", Date: "2026-03-05", Time: "10:00"}},
		{"unknown doctor", BookingRequest{PatientID: "pat1", DoctorID: "doc9", Date: "2026-03-05", Time: "10:00"}},
		{"unparseable phrase", BookingRequest{PatientID: "pat1", DoctorID: "doc1", When: "whenever suits"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newTestService().Book(context.Background(), tt.req); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseWhen_NoMatch(t *testing.T) {
	_, err := ParseWhen("whenever suits", fixedNow)
	if !errors.Is(err, ErrUnrecognisedWhen) {
		t.Errorf("expected ErrUnrecognisedWhen, got %v", err)
	}
}

func TestService_Reschedule(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, err := svc.Book(ctx, BookingRequest{PatientID: "pat1", DoctorID: "doc1", Date: "2026-03-05", Time: "10:00"})
	if err != nil {
		t.Fatal(err)
	}

	moved, err := svc.Reschedule(ctx, a.ID, BookingRequest{PatientID: "pat1", DoctorID: "doc2", Date: "2026-03-06", Time: "11:00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if moved.ID != a.ID || moved.DoctorID != "doc2" || moved.Date != "2026-03-06" {
		t.Errorf("unexpected rescheduled appointment %+v", moved)
	}
	if !moved.CreatedAt.Equal(a.CreatedAt) {
		t.Error("CreatedAt must survive a reschedule")
	}

	_, err = svc.Reschedule(ctx, "apt99", BookingRequest{PatientID: "pat1", DoctorID: "doc1", Date: "2026-03-06", Time: "11:00"})
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestService_SearchAndDay(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	for _, req := range []BookingRequest{
		{PatientID: "pat1", DoctorID: "doc1", Date: "2026-03-05", Time: "15:00"},
		{PatientID: "pat2", DoctorID: "doc1", Date: "2026-03-05", Time: "09:00"},
		{PatientID: "pat1", DoctorID: "doc2", Date: "2026-03-06", Time: "09:00"},
	} {
		if _, err := svc.Book(ctx, req); err != nil {
			t.Fatal(err)
		}
	}

	day, err := svc.AppointmentsOn(ctx, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(day) != 2 || day[0].Time != "09:00" {
		t.Errorf("expected two appointments ordered by start, got %+v", day)
	}

	_, total, err := svc.SearchAppointments(ctx, map[string]string{ParamPatientID: "pat1"}, 10, 0)
	if err != nil || total != 2 {
		t.Errorf("expected 2 for pat1, got %d (%v)", total, err)
	}

	if _, _, err := svc.SearchAppointments(ctx, map[string]string{ParamDate: "March 5"}, 10, 0); err == nil {
		t.Error("expected error for malformed date filter")
	}
}

func TestService_DeleteAppointment(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, err := svc.Book(ctx, BookingRequest{PatientID: "pat1", DoctorID: "doc1", Date: "2026-03-05", Time: "10:00"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteAppointment(ctx, a.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetAppointment(ctx, a.ID); !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}
}
