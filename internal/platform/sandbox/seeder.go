// Package sandbox loads the demo hospital dataset used by the memory
// storage driver and by `hms-server seed` against PostgreSQL.
package sandbox

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/carepoint/hms/internal/domain/aiassist"
	"github.com/carepoint/hms/internal/domain/billing"
	"github.com/carepoint/hms/internal/domain/diagnostics"
	"github.com/carepoint/hms/internal/domain/identity"
	"github.com/carepoint/hms/internal/domain/scheduling"
)

//go:embed seed.yaml
var defaultSeed []byte

// ---------------------------------------------------------------------------
// Dataset
// ---------------------------------------------------------------------------

// Dataset mirrors seed.yaml. Dates are offsets (in_days) from the load day
// so the dashboard always has data for today.
type Dataset struct {
	Doctors         []SeedDoctor      `yaml:"doctors"`
	Patients        []SeedPatient     `yaml:"patients"`
	Appointments    []SeedAppointment `yaml:"appointments"`
	Bills           []SeedBill        `yaml:"bills"`
	LabAppointments []SeedLab         `yaml:"lab_appointments"`
}

type SeedDoctor struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Department    string   `yaml:"department"`
	Qualification string   `yaml:"qualification"`
	Experience    int      `yaml:"experience"`
	Languages     []string `yaml:"languages"`
	Email         string   `yaml:"email"`
	Status        string   `yaml:"status"`
	Availability  []string `yaml:"availability"`
	Rating        float64  `yaml:"rating"`
}

type SeedPatient struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Age      int    `yaml:"age"`
	Gender   string `yaml:"gender"`
	Contact  string `yaml:"contact"`
	Address  string `yaml:"address"`
	Status   string `yaml:"status"`
	DoctorID string `yaml:"doctor_id"`
}

type SeedAppointment struct {
	ID        string `yaml:"id"`
	PatientID string `yaml:"patient_id"`
	DoctorID  string `yaml:"doctor_id"`
	InDays    int    `yaml:"in_days"`
	Time      string `yaml:"time"`
	Reason    string `yaml:"reason"`
}

type SeedBill struct {
	ID        string  `yaml:"id"`
	PatientID string  `yaml:"patient_id"`
	Amount    float64 `yaml:"amount"`
	InDays    int     `yaml:"in_days"`
	Status    string  `yaml:"status"`
}

type SeedLab struct {
	ID        string      `yaml:"id"`
	PatientID string      `yaml:"patient_id"`
	TestName  string      `yaml:"test_name"`
	InDays    int         `yaml:"in_days"`
	Status    string      `yaml:"status"`
	Report    *SeedReport `yaml:"report"`
}

type SeedReport struct {
	Results []struct {
		Analyte        string `yaml:"analyte"`
		Result         string `yaml:"result"`
		ReferenceRange string `yaml:"referenceRange"`
	} `yaml:"results"`
	Interpretation string `yaml:"interpretation"`
}

// Load reads a dataset from path, or the embedded demo data when path is empty.
func Load(path string) (*Dataset, error) {
	raw := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &ds, nil
}

// ---------------------------------------------------------------------------
// Seeder
// ---------------------------------------------------------------------------

// Repositories is the set of stores a dataset is written to.
type Repositories struct {
	Patients        identity.PatientRepository
	Doctors         identity.DoctorRepository
	Appointments    scheduling.AppointmentRepository
	Bills           billing.BillRepository
	LabAppointments diagnostics.LabAppointmentRepository
}

// Result reports how many records were written.
type Result struct {
	Doctors         int           `json:"doctors"`
	Patients        int           `json:"patients"`
	Appointments    int           `json:"appointments"`
	Bills           int           `json:"bills"`
	LabAppointments int           `json:"lab_appointments"`
	Duration        time.Duration `json:"duration"`
}

func (r *Result) Total() int {
	return r.Doctors + r.Patients + r.Appointments + r.Bills + r.LabAppointments
}

type Seeder struct {
	repos Repositories
	now   func() time.Time
}

func NewSeeder(repos Repositories) *Seeder {
	return &Seeder{repos: repos, now: time.Now}
}

// Apply writes the dataset in dependency order: doctors, patients, then the
// records that reference them. Seed data is trusted and written straight to
// the repositories, keeping its IDs.
func (s *Seeder) Apply(ctx context.Context, ds *Dataset) (*Result, error) {
	start := time.Now()
	today := s.now().UTC().Truncate(24 * time.Hour)
	day := func(offset int) time.Time { return today.AddDate(0, 0, offset) }
	res := &Result{}

	for _, d := range ds.Doctors {
		doc := &identity.Doctor{
			ID: d.ID, Name: d.Name, Department: identity.Department(d.Department),
			Qualification: d.Qualification, Experience: d.Experience,
			Languages: d.Languages, Email: d.Email, Status: identity.DoctorStatus(d.Status),
			Availability: d.Availability, Rating: d.Rating,
		}
		if err := s.repos.Doctors.Create(ctx, doc); err != nil {
			return nil, fmt.Errorf("seed doctor %s: %w", d.ID, err)
		}
		res.Doctors++
	}

	for _, p := range ds.Patients {
		pat := &identity.Patient{
			ID: p.ID, Name: p.Name, Age: p.Age, Gender: identity.Gender(p.Gender),
			Contact: p.Contact, Address: p.Address, Status: identity.PatientStatus(p.Status),
			DoctorID: p.DoctorID,
		}
		if err := s.repos.Patients.Create(ctx, pat); err != nil {
			return nil, fmt.Errorf("seed patient %s: %w", p.ID, err)
		}
		res.Patients++
	}

	for _, a := range ds.Appointments {
		clock, err := time.Parse("15:04", a.Time)
		if err != nil {
			return nil, fmt.Errorf("seed appointment %s: time %q: %w", a.ID, a.Time, err)
		}
		appt := &scheduling.Appointment{
			ID: a.ID, PatientID: a.PatientID, DoctorID: a.DoctorID, Reason: a.Reason,
			StartsAt: day(a.InDays).Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute),
		}
		if err := s.repos.Appointments.Create(ctx, appt); err != nil {
			return nil, fmt.Errorf("seed appointment %s: %w", a.ID, err)
		}
		res.Appointments++
	}

	for _, b := range ds.Bills {
		bill := &billing.Bill{
			ID: b.ID, PatientID: b.PatientID, Amount: b.Amount,
			Date: day(b.InDays).Format("2006-01-02"), Status: billing.BillStatus(b.Status),
		}
		if err := s.repos.Bills.Create(ctx, bill); err != nil {
			return nil, fmt.Errorf("seed bill %s: %w", b.ID, err)
		}
		res.Bills++
	}

	for _, l := range ds.LabAppointments {
		lab := &diagnostics.LabAppointment{
			ID: l.ID, PatientID: l.PatientID, TestName: l.TestName,
			Date: day(l.InDays).Format("2006-01-02"), Status: diagnostics.LabStatus(l.Status),
			Report: l.Report.toResult(),
		}
		if err := s.repos.LabAppointments.Create(ctx, lab); err != nil {
			return nil, fmt.Errorf("seed lab appointment %s: %w", l.ID, err)
		}
		res.LabAppointments++
	}

	res.Duration = time.Since(start)
	return res, nil
}

func (r *SeedReport) toResult() *aiassist.LabReportResult {
	if r == nil {
		return nil
	}
	out := &aiassist.LabReportResult{Interpretation: r.Interpretation}
	for _, a := range r.Results {
		out.Results = append(out.Results, aiassist.Analyte{
			Analyte: a.Analyte, Result: a.Result, ReferenceRange: a.ReferenceRange,
		})
	}
	return out
}
