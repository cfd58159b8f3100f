package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/carepoint/hms/internal/platform/memstore"
)

type patientRepoMemory struct {
	store *memstore.Store[Patient]
}

func NewPatientRepoMemory() PatientRepository {
	return &patientRepoMemory{store: memstore.New(func(p Patient) string { return p.ID }, nil)}
}

func (r *patientRepoMemory) Create(_ context.Context, p *Patient) error {
	if p.ID == "" {
		p.ID = r.store.NextID("pat")
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	return r.store.Insert(*p)
}

func (r *patientRepoMemory) GetByID(_ context.Context, id string) (*Patient, error) {
	p, err := r.store.Get(id)
	if err != nil {
		return nil, patientErr(err)
	}
	return &p, nil
}

func (r *patientRepoMemory) Update(_ context.Context, p *Patient) error {
	saved, err := r.store.Update(p.ID, func(cur Patient) (Patient, error) {
		next := *p
		next.CreatedAt = cur.CreatedAt
		next.UpdatedAt = time.Now().UTC()
		return next, nil
	})
	if err != nil {
		return patientErr(err)
	}
	*p = saved
	return nil
}

func (r *patientRepoMemory) Delete(_ context.Context, id string) error {
	return patientErr(r.store.Delete(id))
}

func (r *patientRepoMemory) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	name := strings.ToLower(params[ParamName])
	status := params[ParamStatus]
	doctorID := params[ParamDoctorID]

	page, total := r.store.Page(func(p Patient) bool {
		if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
			return false
		}
		if status != "" && string(p.Status) != status {
			return false
		}
		return doctorID == "" || p.DoctorID == doctorID
	}, limit, offset)
	return pointers(page), total, nil
}

func (r *patientRepoMemory) CountByStatus(_ context.Context) (map[PatientStatus]int, error) {
	counts := make(map[PatientStatus]int, len(PatientStatuses))
	for _, p := range r.store.Filter(nil) {
		counts[p.Status]++
	}
	return counts, nil
}

type doctorRepoMemory struct {
	store *memstore.Store[Doctor]
}

func NewDoctorRepoMemory() DoctorRepository {
	return &doctorRepoMemory{store: memstore.New(func(d Doctor) string { return d.ID }, nil)}
}

func (r *doctorRepoMemory) Create(_ context.Context, d *Doctor) error {
	if d.ID == "" {
		d.ID = r.store.NextID("doc")
	}
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now
	return r.store.Insert(copyDoctor(*d))
}

func (r *doctorRepoMemory) GetByID(_ context.Context, id string) (*Doctor, error) {
	d, err := r.store.Get(id)
	if err != nil {
		return nil, doctorErr(err)
	}
	d = copyDoctor(d)
	return &d, nil
}

func (r *doctorRepoMemory) Update(_ context.Context, d *Doctor) error {
	saved, err := r.store.Update(d.ID, func(cur Doctor) (Doctor, error) {
		next := copyDoctor(*d)
		next.CreatedAt = cur.CreatedAt
		next.UpdatedAt = time.Now().UTC()
		return next, nil
	})
	if err != nil {
		return doctorErr(err)
	}
	*d = copyDoctor(saved)
	return nil
}

func (r *doctorRepoMemory) Delete(_ context.Context, id string) error {
	return doctorErr(r.store.Delete(id))
}

func (r *doctorRepoMemory) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Doctor, int, error) {
	name := strings.ToLower(params[ParamName])
	dept := params[ParamDepartment]
	status := params[ParamStatus]

	page, total := r.store.Page(func(d Doctor) bool {
		if name != "" && !strings.Contains(strings.ToLower(d.Name), name) {
			return false
		}
		if dept != "" && string(d.Department) != dept {
			return false
		}
		return status == "" || string(d.Status) == status
	}, limit, offset)

	out := make([]*Doctor, len(page))
	for i := range page {
		d := copyDoctor(page[i])
		out[i] = &d
	}
	return out, total, nil
}

// copyDoctor detaches the slice fields so stored records are never aliased.
func copyDoctor(d Doctor) Doctor {
	d.Languages = append(StringList(nil), d.Languages...)
	d.Availability = append(StringList(nil), d.Availability...)
	return d
}

func pointers[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}

func patientErr(err error) error {
	if errors.Is(err, memstore.ErrNotFound) {
		return ErrPatientNotFound
	}
	return err
}

func doctorErr(err error) error {
	if errors.Is(err, memstore.ErrNotFound) {
		return ErrDoctorNotFound
	}
	return err
}
