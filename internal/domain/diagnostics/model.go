package diagnostics

import (
	"errors"
	"time"

	"github.com/carepoint/hms/internal/domain/aiassist"
)

var ErrLabAppointmentNotFound = errors.New("lab appointment not found")

type LabStatus string

const (
	LabScheduled LabStatus = "Scheduled"
	LabCompleted LabStatus = "Completed"
	LabCancelled LabStatus = "Cancelled"
)

var LabStatuses = []LabStatus{LabScheduled, LabCompleted, LabCancelled}

// LabAppointment is a scheduled laboratory test. Report is set once the
// reviewed results are saved.
type LabAppointment struct {
	ID        string                    `json:"id"`
	PatientID string                    `json:"patient_id"`
	TestName  string                    `json:"test_name"`
	Date      string                    `json:"date"`
	Status    LabStatus                 `json:"status"`
	Report    *aiassist.LabReportResult `json:"report,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// StatusCounts is the laboratory dashboard summary.
type StatusCounts struct {
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

func (c *StatusCounts) add(s LabStatus, n int) {
	switch s {
	case LabScheduled:
		c.Scheduled += n
	case LabCompleted:
		c.Completed += n
	case LabCancelled:
		c.Cancelled += n
	}
}

func cloneReport(r *aiassist.LabReportResult) *aiassist.LabReportResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Results = append([]aiassist.Analyte(nil), r.Results...)
	return &out
}
