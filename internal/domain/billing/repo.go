package billing

import "context"

const (
	ParamPatientID = "patient_id"
	ParamStatus    = "status"
	ParamDate      = "date"
)

type BillRepository interface {
	Create(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, id string) (*Bill, error)
	Update(ctx context.Context, b *Bill) error
	Delete(ctx context.Context, id string) error
	// Search filters by patient_id, status and date; limit <= 0 returns all.
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Bill, int, error)
	Summary(ctx context.Context) (Summary, error)
}
