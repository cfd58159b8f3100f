package billing

import (
	"context"
	"errors"
	"time"

	"github.com/carepoint/hms/internal/platform/memstore"
)

type billRepoMemory struct {
	store *memstore.Store[Bill]
}

func NewBillRepoMemory() BillRepository {
	return &billRepoMemory{store: memstore.New(
		func(b Bill) string { return b.ID },
		func(a, b Bill) bool {
			if a.Date != b.Date {
				return a.Date > b.Date
			}
			return memstore.NaturalLess(a.ID, b.ID)
		},
	)}
}

func (r *billRepoMemory) Create(_ context.Context, b *Bill) error {
	if b.ID == "" {
		b.ID = r.store.NextID("bill")
	}
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	return r.store.Insert(*b)
}

func (r *billRepoMemory) GetByID(_ context.Context, id string) (*Bill, error) {
	b, err := r.store.Get(id)
	if err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *billRepoMemory) Update(_ context.Context, b *Bill) error {
	saved, err := r.store.Update(b.ID, func(cur Bill) (Bill, error) {
		next := *b
		next.CreatedAt = cur.CreatedAt
		next.UpdatedAt = time.Now().UTC()
		return next, nil
	})
	if err != nil {
		return notFound(err)
	}
	*b = saved
	return nil
}

func (r *billRepoMemory) Delete(_ context.Context, id string) error {
	return notFound(r.store.Delete(id))
}

func (r *billRepoMemory) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Bill, int, error) {
	patientID, status, date := params[ParamPatientID], params[ParamStatus], params[ParamDate]
	page, total := r.store.Page(func(b Bill) bool {
		if patientID != "" && b.PatientID != patientID {
			return false
		}
		if status != "" && string(b.Status) != status {
			return false
		}
		return date == "" || b.Date == date
	}, limit, offset)

	out := make([]*Bill, len(page))
	for i := range page {
		out[i] = &page[i]
	}
	return out, total, nil
}

func (r *billRepoMemory) Summary(_ context.Context) (Summary, error) {
	sum := newSummary()
	for _, b := range r.store.Filter(nil) {
		t := sum[b.Status]
		t.Count++
		t.Amount = roundCents(t.Amount + b.Amount)
		sum[b.Status] = t
	}
	return sum, nil
}

func notFound(err error) error {
	if errors.Is(err, memstore.ErrNotFound) {
		return ErrBillNotFound
	}
	return err
}
