package identity

import (
	"context"
	"errors"
	"testing"
)

func newTestService() *Service {
	return NewService(NewPatientRepoMemory(), NewDoctorRepoMemory())
}

func validDoctor() *Doctor {
	return &Doctor{
		Name:          "Dr. Emily Carter",
		Department:    DeptCardiology,
		Qualification: "MD, FACC",
		Experience:    12,
		Languages:     StringList{"English", "Spanish"},
		Email:         "emily.carter@hospital.example",
	}
}

func mustCreateDoctor(t *testing.T, svc *Service) *Doctor {
	t.Helper()
	d := validDoctor()
	if err := svc.CreateDoctor(context.Background(), d); err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	return d
}

// -- Patient Tests --

func TestService_CreatePatient(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	doc := mustCreateDoctor(t, svc)

	p := &Patient{Name: " John Smith ", Age: 45, Gender: GenderMale, DoctorID: doc.ID}
	if err := svc.CreatePatient(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "pat1" {
		t.Errorf("expected generated id pat1, got %q", p.ID)
	}
	if p.Name != "John Smith" {
		t.Errorf("expected trimmed name, got %q", p.Name)
	}
	if p.Status != PatientAdmitted {
		t.Errorf("expected default status Admitted, got %q", p.Status)
	}
	if p.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestService_CreatePatient_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name string
		p    Patient
	}{
		{"missing name", Patient{Age: 30, Gender: GenderFemale}},
		{"negative age", Patient{Name: "A", Age: -1, Gender: GenderFemale}},
		{"age too high", Patient{Name: "A", Age: 151, Gender: GenderFemale}},
		{"bad gender", Patient{Name: "A", Age: 30, Gender: "X"}},
		{"bad status", Patient{Name: "A", Age: 30, Gender: GenderOther, Status: "Lost"}},
		{"unknown doctor", Patient{Name: "A", Age: 30, Gender: GenderOther, DoctorID: "doc99"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.p
			if err := svc.CreatePatient(ctx, &p); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestService_UpdatePatient_NotFound(t *testing.T) {
	svc := newTestService()
	p := &Patient{ID: "pat42", Name: "Ghost", Age: 40, Gender: GenderMale}
	err := svc.UpdatePatient(context.Background(), p)
	if !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestService_UpdatePatient_KeepsCreatedAt(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p := &Patient{Name: "Jane Doe", Age: 32, Gender: GenderFemale}
	if err := svc.CreatePatient(ctx, p); err != nil {
		t.Fatal(err)
	}
	created := p.CreatedAt

	upd := &Patient{ID: p.ID, Name: "Jane Doe", Age: 33, Gender: GenderFemale, Status: PatientDischarged}
	if err := svc.UpdatePatient(ctx, upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := svc.GetPatient(ctx, p.ID)
	if got.Age != 33 || got.Status != PatientDischarged {
		t.Errorf("update not applied: %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed from %v to %v", created, got.CreatedAt)
	}
}

func TestService_SearchPatients(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	doc := mustCreateDoctor(t, svc)

	for _, p := range []*Patient{
		{Name: "John Smith", Age: 45, Gender: GenderMale, DoctorID: doc.ID},
		{Name: "Jane Doe", Age: 32, Gender: GenderFemale, Status: PatientUnderObservation},
		{Name: "Johnny Walker", Age: 50, Gender: GenderMale, Status: PatientDischarged},
	} {
		if err := svc.CreatePatient(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	got, total, err := svc.SearchPatients(ctx, map[string]string{ParamName: "JOHN"}, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(got) != 2 {
		t.Errorf("expected 2 name matches, got %d", total)
	}

	_, total, _ = svc.SearchPatients(ctx, map[string]string{ParamDoctorID: doc.ID}, 10, 0)
	if total != 1 {
		t.Errorf("expected 1 doctor match, got %d", total)
	}

	page, total, _ := svc.ListPatients(ctx, 1, 1)
	if total != 3 || len(page) != 1 || page[0].ID != "pat2" {
		t.Errorf("unexpected page: total=%d page=%v", total, page)
	}
}

func TestService_PatientExists(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p := &Patient{Name: "Peter Jones", Age: 67, Gender: GenderMale}
	if err := svc.CreatePatient(ctx, p); err != nil {
		t.Fatal(err)
	}

	if ok, err := svc.PatientExists(ctx, p.ID); err != nil || !ok {
		t.Errorf("expected patient to exist, got %v %v", ok, err)
	}
	if ok, err := svc.PatientExists(ctx, "pat404"); err != nil || ok {
		t.Errorf("expected patient to be missing, got %v %v", ok, err)
	}
}

func TestService_PatientStatusCounts(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	for _, st := range []PatientStatus{PatientAdmitted, PatientAdmitted, PatientDischarged} {
		if err := svc.CreatePatient(ctx, &Patient{Name: "P", Age: 20, Gender: GenderOther, Status: st}); err != nil {
			t.Fatal(err)
		}
	}
	counts, err := svc.PatientStatusCounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts[PatientAdmitted] != 2 || counts[PatientDischarged] != 1 || counts[PatientUnderObservation] != 0 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestService_DeletePatient(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p := &Patient{Name: "Mary Johnson", Age: 8, Gender: GenderFemale}
	if err := svc.CreatePatient(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeletePatient(ctx, p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeletePatient(ctx, p.ID); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("expected ErrPatientNotFound on second delete, got %v", err)
	}
}

// -- Doctor Tests --

func TestService_CreateDoctor_Defaults(t *testing.T) {
	svc := newTestService()
	d := mustCreateDoctor(t, svc)

	if d.ID != "doc1" {
		t.Errorf("expected doc1, got %q", d.ID)
	}
	if d.Status != DoctorActive {
		t.Errorf("expected Active, got %q", d.Status)
	}
	if len(d.Availability) != 2 || d.Availability[0] != "Monday 9-12" || d.Availability[1] != "Wednesday 14-17" {
		t.Errorf("expected default availability, got %v", d.Availability)
	}
}

func TestService_CreateDoctor_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Doctor)
		want   string
	}{
		{"missing name", func(d *Doctor) { d.Name = " " }, "name is required"},
		{"bad department", func(d *Doctor) { d.Department = "Dermatology" }, `invalid department "Dermatology"`},
		{"missing qualification", func(d *Doctor) { d.Qualification = "" }, "qualification is required"},
		{"negative experience", func(d *Doctor) { d.Experience = -2 }, "experience must not be negative"},
		{"no languages", func(d *Doctor) { d.Languages = StringList{" ", ""} }, "languages are required"},
		{"bad email", func(d *Doctor) { d.Email = "not-an-email" }, "invalid email address"},
		{"display name email", func(d *Doctor) { d.Email = "Emily <e@x.example>" }, "invalid email address"},
		{"bad status", func(d *Doctor) { d.Status = "Retired" }, `invalid doctor status "Retired"`},
		{"rating too high", func(d *Doctor) { d.Rating = 5.5 }, "rating must be between 0 and 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			d := validDoctor()
			tt.mutate(d)
			err := svc.CreateDoctor(context.Background(), d)
			if err == nil || err.Error() != tt.want {
				t.Errorf("expected %q, got %v", tt.want, err)
			}
		})
	}
}

func TestService_SearchDoctors(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	mustCreateDoctor(t, svc)
	neuro := validDoctor()
	neuro.Name = "Dr. Ben Hayes"
	neuro.Department = DeptNeurology
	neuro.Status = DoctorOnLeave
	if err := svc.CreateDoctor(ctx, neuro); err != nil {
		t.Fatal(err)
	}

	got, total, err := svc.SearchDoctors(ctx, map[string]string{ParamDepartment: "Neurology"}, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || got[0].Name != "Dr. Ben Hayes" {
		t.Errorf("unexpected department search result %v", got)
	}

	_, total, _ = svc.SearchDoctors(ctx, map[string]string{ParamStatus: string(DoctorActive)}, 10, 0)
	if total != 1 {
		t.Errorf("expected 1 active doctor, got %d", total)
	}

	names, err := svc.DoctorNames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if names["doc1"] != "Dr. Emily Carter" || names["doc2"] != "Dr. Ben Hayes" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestDoctorRepoMemory_NoAliasing(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	d := mustCreateDoctor(t, svc)

	d.Languages[0] = "Klingon"
	got, err := svc.GetDoctor(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Languages[0] != "English" {
		t.Errorf("stored doctor was mutated through caller slice: %v", got.Languages)
	}
}
