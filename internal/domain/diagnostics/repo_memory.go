package diagnostics

import (
	"context"
	"errors"
	"time"

	"github.com/carepoint/hms/internal/platform/memstore"
)

type labRepoMemory struct {
	store *memstore.Store[LabAppointment]
}

func NewLabAppointmentRepoMemory() LabAppointmentRepository {
	return &labRepoMemory{store: memstore.New(
		func(l LabAppointment) string { return l.ID },
		func(a, b LabAppointment) bool {
			if a.Date != b.Date {
				return a.Date < b.Date
			}
			return memstore.NaturalLess(a.ID, b.ID)
		},
	)}
}

func (r *labRepoMemory) Create(_ context.Context, l *LabAppointment) error {
	if l.ID == "" {
		l.ID = r.store.NextID("lab")
	}
	now := time.Now().UTC()
	l.CreatedAt, l.UpdatedAt = now, now
	stored := *l
	stored.Report = cloneReport(l.Report)
	return r.store.Insert(stored)
}

func (r *labRepoMemory) GetByID(_ context.Context, id string) (*LabAppointment, error) {
	l, err := r.store.Get(id)
	if err != nil {
		return nil, notFound(err)
	}
	l.Report = cloneReport(l.Report)
	return &l, nil
}

func (r *labRepoMemory) Update(_ context.Context, l *LabAppointment) error {
	saved, err := r.store.Update(l.ID, func(cur LabAppointment) (LabAppointment, error) {
		next := *l
		next.Report = cloneReport(l.Report)
		next.CreatedAt = cur.CreatedAt
		next.UpdatedAt = time.Now().UTC()
		return next, nil
	})
	if err != nil {
		return notFound(err)
	}
	l.CreatedAt, l.UpdatedAt = saved.CreatedAt, saved.UpdatedAt
	return nil
}

func (r *labRepoMemory) Delete(_ context.Context, id string) error {
	return notFound(r.store.Delete(id))
}

func (r *labRepoMemory) Search(_ context.Context, params map[string]string, limit, offset int) ([]*LabAppointment, int, error) {
	patientID, status := params[ParamPatientID], params[ParamStatus]
	page, total := r.store.Page(func(l LabAppointment) bool {
		if patientID != "" && l.PatientID != patientID {
			return false
		}
		return status == "" || string(l.Status) == status
	}, limit, offset)

	out := make([]*LabAppointment, len(page))
	for i := range page {
		l := page[i]
		l.Report = cloneReport(l.Report)
		out[i] = &l
	}
	return out, total, nil
}

func (r *labRepoMemory) CountByStatus(_ context.Context) (StatusCounts, error) {
	var counts StatusCounts
	for _, l := range r.store.Filter(nil) {
		counts.add(l.Status, 1)
	}
	return counts, nil
}

func notFound(err error) error {
	if errors.Is(err, memstore.ErrNotFound) {
		return ErrLabAppointmentNotFound
	}
	return err
}
