package scheduling

import "context"

const (
	ParamPatientID = "patient_id"
	ParamDoctorID  = "doctor_id"
	ParamDate      = "date"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id string) error
	// Search filters by patient_id, doctor_id and date (YYYY-MM-DD); limit <= 0 returns all.
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error)
}
