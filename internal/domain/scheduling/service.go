package scheduling

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Directory confirms that the people named on a booking exist.
type Directory interface {
	PatientExists(ctx context.Context, id string) (bool, error)
	DoctorExists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo AppointmentRepository
	dir  Directory
	now  func() time.Time
}

func NewService(repo AppointmentRepository, dir Directory) *Service {
	return &Service{repo: repo, dir: dir, now: time.Now}
}

func (s *Service) Book(ctx context.Context, req BookingRequest) (*Appointment, error) {
	a, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Reschedule replaces the booking details of an existing appointment.
func (s *Service) Reschedule(ctx context.Context, id string, req BookingRequest) (*Appointment, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	a, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	a.ID = id
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) DeleteAppointment(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) SearchAppointments(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	if d := params[ParamDate]; d != "" {
		if _, err := time.Parse(dateLayout, d); err != nil {
			return nil, 0, fmt.Errorf("date filter must be YYYY-MM-DD")
		}
	}
	return s.repo.Search(ctx, params, limit, offset)
}

// AppointmentsOn returns every appointment whose UTC date is day.
func (s *Service) AppointmentsOn(ctx context.Context, day time.Time) ([]*Appointment, error) {
	out, _, err := s.repo.Search(ctx, map[string]string{ParamDate: day.UTC().Format(dateLayout)}, 0, 0)
	return out, err
}

func (s *Service) resolve(ctx context.Context, req BookingRequest) (*Appointment, error) {
	a := &Appointment{
		PatientID: strings.TrimSpace(req.PatientID),
		DoctorID:  strings.TrimSpace(req.DoctorID),
		Reason:    strings.TrimSpace(req.Reason),
	}
	if a.PatientID == "" || a.DoctorID == "" {
		return nil, fmt.Errorf("patient_id and doctor_id are required")
	}

	start, err := resolveStart(req, s.now())
	if err != nil {
		return nil, err
	}
	a.StartsAt = start

	if ok, err := s.dir.PatientExists(ctx, a.PatientID); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("patient_id %q does not reference a known patient", a.PatientID)
	}
	if ok, err := s.dir.DoctorExists(ctx, a.DoctorID); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("doctor_id %q does not reference a known doctor", a.DoctorID)
	}
	return a, nil
}
