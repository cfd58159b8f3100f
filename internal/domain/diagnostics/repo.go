package diagnostics

import "context"

const (
	ParamPatientID = "patient_id"
	ParamStatus    = "status"
)

type LabAppointmentRepository interface {
	Create(ctx context.Context, l *LabAppointment) error
	GetByID(ctx context.Context, id string) (*LabAppointment, error)
	Update(ctx context.Context, l *LabAppointment) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*LabAppointment, int, error)
	CountByStatus(ctx context.Context) (StatusCounts, error)
}
