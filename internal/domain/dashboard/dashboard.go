// Package dashboard assembles the daily operations summary shown on the
// hospital front page from the other domain services.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carepoint/hms/internal/domain/diagnostics"
	"github.com/carepoint/hms/internal/domain/identity"
	"github.com/carepoint/hms/internal/domain/scheduling"
)

const unknownDoctor = "Unknown"

type Appointments interface {
	AppointmentsOn(ctx context.Context, day time.Time) ([]*scheduling.Appointment, error)
}

type Directory interface {
	DoctorNames(ctx context.Context) (map[string]string, error)
	PatientStatusCounts(ctx context.Context) (map[identity.PatientStatus]int, error)
}

type Revenue interface {
	CollectedOn(ctx context.Context, day time.Time) (float64, error)
}

type Labs interface {
	StatusCounts(ctx context.Context) (diagnostics.StatusCounts, error)
}

// DoctorLoad is the number of appointments a doctor has on the day.
// Appointments for doctors missing from the directory share one row with an
// empty DoctorID.
type DoctorLoad struct {
	DoctorID     string `json:"doctor_id,omitempty"`
	Doctor       string `json:"doctor"`
	Appointments int    `json:"appointments"`
}

type DailyStats struct {
	Date                 string                         `json:"date"`
	PatientsSeen         int                            `json:"patients_seen"`
	AmountCollected      float64                        `json:"amount_collected"`
	AppointmentsByDoctor []DoctorLoad                   `json:"appointments_by_doctor"`
	PatientStatus        map[identity.PatientStatus]int `json:"patient_status"`
	LabStatus            diagnostics.StatusCounts       `json:"lab_status"`
}

type Service struct {
	appointments Appointments
	directory    Directory
	revenue      Revenue
	labs         Labs
}

func NewService(appointments Appointments, directory Directory, revenue Revenue, labs Labs) *Service {
	return &Service{appointments: appointments, directory: directory, revenue: revenue, labs: labs}
}

// DailyStats gathers every source concurrently; the first failure cancels
// the rest.
func (s *Service) DailyStats(ctx context.Context, day time.Time) (*DailyStats, error) {
	day = day.UTC()
	var (
		appts     []*scheduling.Appointment
		names     map[string]string
		collected float64
		patients  map[identity.PatientStatus]int
		labs      diagnostics.StatusCounts
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		appts, err = s.appointments.AppointmentsOn(gctx, day)
		return wrap("appointments", err)
	})
	g.Go(func() (err error) {
		names, err = s.directory.DoctorNames(gctx)
		return wrap("doctors", err)
	})
	g.Go(func() (err error) {
		collected, err = s.revenue.CollectedOn(gctx, day)
		return wrap("billing", err)
	})
	g.Go(func() (err error) {
		patients, err = s.directory.PatientStatusCounts(gctx)
		return wrap("patients", err)
	})
	g.Go(func() (err error) {
		labs, err = s.labs.StatusCounts(gctx)
		return wrap("laboratory", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	status := make(map[identity.PatientStatus]int, len(identity.PatientStatuses))
	for _, st := range identity.PatientStatuses {
		status[st] = patients[st]
	}

	return &DailyStats{
		Date:                 day.Format("2006-01-02"),
		PatientsSeen:         distinctPatients(appts),
		AmountCollected:      collected,
		AppointmentsByDoctor: loadByDoctor(appts, names),
		PatientStatus:        status,
		LabStatus:            labs,
	}, nil
}

func distinctPatients(appts []*scheduling.Appointment) int {
	seen := make(map[string]struct{}, len(appts))
	for _, a := range appts {
		seen[a.PatientID] = struct{}{}
	}
	return len(seen)
}

// loadByDoctor counts appointments per doctor, busiest first.
func loadByDoctor(appts []*scheduling.Appointment, names map[string]string) []DoctorLoad {
	counts := make(map[string]int)
	for _, a := range appts {
		id := a.DoctorID
		if _, ok := names[id]; !ok {
			id = ""
		}
		counts[id]++
	}

	out := make([]DoctorLoad, 0, len(counts))
	for id, n := range counts {
		name, ok := names[id]
		if !ok {
			name = unknownDoctor
		}
		out = append(out, DoctorLoad{DoctorID: id, Doctor: name, Appointments: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Appointments != out[j].Appointments {
			return out[i].Appointments > out[j].Appointments
		}
		if out[i].Doctor != out[j].Doctor {
			return out[i].Doctor < out[j].Doctor
		}
		return out[i].DoctorID < out[j].DoctorID
	})
	return out
}

func wrap(source string, err error) error {
	if err != nil {
		return fmt.Errorf("dashboard %s: %w", source, err)
	}
	return nil
}
