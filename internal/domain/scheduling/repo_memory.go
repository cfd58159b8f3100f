package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/carepoint/hms/internal/platform/memstore"
)

type appointmentRepoMemory struct {
	store *memstore.Store[Appointment]
}

func NewAppointmentRepoMemory() AppointmentRepository {
	return &appointmentRepoMemory{store: memstore.New(
		func(a Appointment) string { return a.ID },
		func(a, b Appointment) bool {
			if !a.StartsAt.Equal(b.StartsAt) {
				return a.StartsAt.Before(b.StartsAt)
			}
			return memstore.NaturalLess(a.ID, b.ID)
		},
	)}
}

func (r *appointmentRepoMemory) Create(_ context.Context, a *Appointment) error {
	if a.ID == "" {
		a.ID = r.store.NextID("apt")
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	a.stamp()
	return r.store.Insert(*a)
}

func (r *appointmentRepoMemory) GetByID(_ context.Context, id string) (*Appointment, error) {
	a, err := r.store.Get(id)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *appointmentRepoMemory) Update(_ context.Context, a *Appointment) error {
	saved, err := r.store.Update(a.ID, func(cur Appointment) (Appointment, error) {
		next := *a
		next.CreatedAt = cur.CreatedAt
		next.UpdatedAt = time.Now().UTC()
		next.stamp()
		return next, nil
	})
	if err != nil {
		return notFound(err)
	}
	*a = saved
	return nil
}

func (r *appointmentRepoMemory) Delete(_ context.Context, id string) error {
	return notFound(r.store.Delete(id))
}

func (r *appointmentRepoMemory) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	patientID, doctorID, date := params[ParamPatientID], params[ParamDoctorID], params[ParamDate]

	page, total := r.store.Page(func(a Appointment) bool {
		if patientID != "" && a.PatientID != patientID {
			return false
		}
		if doctorID != "" && a.DoctorID != doctorID {
			return false
		}
		return date == "" || a.Date == date
	}, limit, offset)

	out := make([]*Appointment, len(page))
	for i := range page {
		out[i] = &page[i]
	}
	return out, total, nil
}

func notFound(err error) error {
	if errors.Is(err, memstore.ErrNotFound) {
		return ErrAppointmentNotFound
	}
	return err
}
