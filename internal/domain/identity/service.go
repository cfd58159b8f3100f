package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

const maxAge = 150

type Service struct {
	patients PatientRepository
	doctors  DoctorRepository
}

func NewService(patients PatientRepository, doctors DoctorRepository) *Service {
	return &Service{patients: patients, doctors: doctors}
}

// -- Patient --

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if err := s.checkPatient(ctx, p); err != nil {
		return err
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id string) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if err := s.checkPatient(ctx, p); err != nil {
		return err
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id string) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.Search(ctx, nil, limit, offset)
}

func (s *Service) SearchPatients(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.Search(ctx, params, limit, offset)
}

// PatientExists reports whether id names a stored patient.
func (s *Service) PatientExists(ctx context.Context, id string) (bool, error) {
	_, err := s.patients.GetByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrPatientNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *Service) PatientStatusCounts(ctx context.Context) (map[PatientStatus]int, error) {
	return s.patients.CountByStatus(ctx)
}

func (s *Service) checkPatient(ctx context.Context, p *Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	p.DoctorID = strings.TrimSpace(p.DoctorID)
	if p.Status == "" {
		p.Status = PatientAdmitted
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Age < 0 || p.Age > maxAge {
		return fmt.Errorf("age must be between 0 and %d", maxAge)
	}
	if !validGender(p.Gender) {
		return fmt.Errorf("gender must be one of Male, Female, Other")
	}
	if !validPatientStatus(p.Status) {
		return fmt.Errorf("invalid patient status %q", p.Status)
	}
	if p.DoctorID != "" {
		if _, err := s.doctors.GetByID(ctx, p.DoctorID); err != nil {
			if errors.Is(err, ErrDoctorNotFound) {
				return fmt.Errorf("doctor_id %q does not reference a known doctor", p.DoctorID)
			}
			return err
		}
	}
	return nil
}

// -- Doctor --

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if d.Status == "" {
		d.Status = DoctorActive
	}
	if len(d.Availability) == 0 {
		d.Availability = append(StringList(nil), DefaultAvailability...)
	}
	if err := validateDoctor(d); err != nil {
		return err
	}
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id string) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if err := validateDoctor(d); err != nil {
		return err
	}
	return s.doctors.Update(ctx, d)
}

func (s *Service) DeleteDoctor(ctx context.Context, id string) error {
	return s.doctors.Delete(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.Search(ctx, nil, limit, offset)
}

func (s *Service) SearchDoctors(ctx context.Context, params map[string]string, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.Search(ctx, params, limit, offset)
}

func (s *Service) DoctorExists(ctx context.Context, id string) (bool, error) {
	_, err := s.doctors.GetByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrDoctorNotFound):
		return false, nil
	default:
		return false, err
	}
}

// DoctorNames maps every doctor ID to its display name.
func (s *Service) DoctorNames(ctx context.Context) (map[string]string, error) {
	doctors, _, err := s.doctors.Search(ctx, nil, 0, 0)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(doctors))
	for _, d := range doctors {
		names[d.ID] = d.Name
	}
	return names, nil
}

func validateDoctor(d *Doctor) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Qualification = strings.TrimSpace(d.Qualification)
	d.Email = strings.TrimSpace(d.Email)
	d.Languages = clean(d.Languages)

	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validDepartment(d.Department) {
		return fmt.Errorf("invalid department %q", d.Department)
	}
	if d.Qualification == "" {
		return fmt.Errorf("qualification is required")
	}
	if d.Experience < 0 {
		return fmt.Errorf("experience must not be negative")
	}
	if len(d.Languages) == 0 {
		return fmt.Errorf("languages are required")
	}
	if addr, err := mail.ParseAddress(d.Email); err != nil || addr.Address != d.Email {
		return fmt.Errorf("invalid email address")
	}
	if !validDoctorStatus(d.Status) {
		return fmt.Errorf("invalid doctor status %q", d.Status)
	}
	if d.Rating < 0 || d.Rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	return nil
}
