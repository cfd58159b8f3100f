package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carepoint/hms/internal/domain/aiassist"
)

// ErrInvalidTransition is returned when a status change is not allowed
// from the appointment's current status.
var ErrInvalidTransition = errors.New("invalid lab appointment status transition")

// validationError reports input the caller must correct.
type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

func isValidation(err error) bool {
	var ve *validationError
	return errors.As(err, &ve)
}

// ReportGenerator drafts lab reports; satisfied by *aiassist.Actions.
type ReportGenerator interface {
	RunLabReportGeneration(ctx context.Context, req aiassist.LabReportRequest) (*aiassist.LabReportResult, error)
}

type PatientDirectory interface {
	PatientExists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo     LabAppointmentRepository
	patients PatientDirectory
	reports  ReportGenerator
}

func NewService(repo LabAppointmentRepository, patients PatientDirectory, reports ReportGenerator) *Service {
	return &Service{repo: repo, patients: patients, reports: reports}
}

func (s *Service) Schedule(ctx context.Context, l *LabAppointment) error {
	l.PatientID = strings.TrimSpace(l.PatientID)
	l.TestName = strings.TrimSpace(l.TestName)
	l.Date = strings.TrimSpace(l.Date)
	if l.PatientID == "" || l.TestName == "" {
		return invalid("patient_id and test_name are required")
	}
	if _, err := time.Parse("2006-01-02", l.Date); err != nil {
		return invalid("date must be YYYY-MM-DD")
	}
	ok, err := s.patients.PatientExists(ctx, l.PatientID)
	if err != nil {
		return err
	}
	if !ok {
		return invalid("patient_id %q does not reference a known patient", l.PatientID)
	}
	l.Status = LabScheduled
	l.Report = nil
	return s.repo.Create(ctx, l)
}

func (s *Service) Get(ctx context.Context, id string) (*LabAppointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*LabAppointment, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Cancel marks a scheduled appointment Cancelled. Completed appointments
// keep their report and cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, id string) (*LabAppointment, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch l.Status {
	case LabCancelled:
		return l, nil
	case LabCompleted:
		return nil, fmt.Errorf("%w: appointment %s is already completed", ErrInvalidTransition, id)
	}
	l.Status = LabCancelled
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// GenerateReport drafts a report for the appointment's test. The draft is
// returned for review and is not stored.
func (s *Service) GenerateReport(ctx context.Context, id string) (*aiassist.LabReportResult, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status == LabCancelled {
		return nil, fmt.Errorf("%w: appointment %s is cancelled", ErrInvalidTransition, id)
	}
	return s.reports.RunLabReportGeneration(ctx, aiassist.LabReportRequest{TestName: l.TestName})
}

// SaveReport stores a reviewed report and completes the appointment.
func (s *Service) SaveReport(ctx context.Context, id string, report *aiassist.LabReportResult) (*LabAppointment, error) {
	if err := validateReport(report); err != nil {
		return nil, err
	}
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status == LabCancelled {
		return nil, fmt.Errorf("%w: appointment %s is cancelled", ErrInvalidTransition, id)
	}
	l.Report = report
	l.Status = LabCompleted
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) StatusCounts(ctx context.Context) (StatusCounts, error) {
	return s.repo.CountByStatus(ctx)
}

func validateReport(r *aiassist.LabReportResult) error {
	if r == nil || len(r.Results) == 0 {
		return invalid("report must contain at least one analyte")
	}
	for i, a := range r.Results {
		if strings.TrimSpace(a.Analyte) == "" || strings.TrimSpace(a.Result) == "" {
			return invalid("results[%d]: analyte and result are required", i)
		}
	}
	if strings.TrimSpace(r.Interpretation) == "" {
		return invalid("report interpretation is required")
	}
	return nil
}
