package identity

import (
	"context"
)

// Search parameters understood by the repositories.
const (
	ParamName       = "name"
	ParamStatus     = "status"
	ParamDoctorID   = "doctor_id"
	ParamDepartment = "department"
)

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id string) error
	// Search returns one page of matches and the total; limit <= 0 returns all.
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error)
	CountByStatus(ctx context.Context) (map[PatientStatus]int, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id string) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Doctor, int, error)
}
