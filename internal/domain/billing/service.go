package billing

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type PatientDirectory interface {
	PatientExists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo     BillRepository
	patients PatientDirectory
	now      func() time.Time
}

func NewService(repo BillRepository, patients PatientDirectory) *Service {
	return &Service{repo: repo, patients: patients, now: time.Now}
}

func (s *Service) CreateBill(ctx context.Context, b *Bill) error {
	if b.Status == "" {
		b.Status = BillPending
	}
	if strings.TrimSpace(b.Date) == "" {
		b.Date = s.now().UTC().Format(dateLayout)
	}
	if err := s.check(ctx, b); err != nil {
		return err
	}
	return s.repo.Create(ctx, b)
}

func (s *Service) GetBill(ctx context.Context, id string) (*Bill, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateBill(ctx context.Context, b *Bill) error {
	if err := s.check(ctx, b); err != nil {
		return err
	}
	return s.repo.Update(ctx, b)
}

func (s *Service) DeleteBill(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) SearchBills(ctx context.Context, params map[string]string, limit, offset int) ([]*Bill, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}

// MarkPaid settles a bill. Paying an already paid bill is a no-op.
func (s *Service) MarkPaid(ctx context.Context, id string) (*Bill, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == BillPaid {
		return b, nil
	}
	b.Status = BillPaid
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	return s.repo.Summary(ctx)
}

// CollectedOn sums the Paid bills dated day.
func (s *Service) CollectedOn(ctx context.Context, day time.Time) (float64, error) {
	bills, _, err := s.repo.Search(ctx, map[string]string{
		ParamStatus: string(BillPaid),
		ParamDate:   day.UTC().Format(dateLayout),
	}, 0, 0)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, b := range bills {
		total += b.Amount
	}
	return roundCents(total), nil
}

func (s *Service) check(ctx context.Context, b *Bill) error {
	b.PatientID = strings.TrimSpace(b.PatientID)
	b.Date = strings.TrimSpace(b.Date)
	if b.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}
	if b.Amount < 0 || math.IsNaN(b.Amount) || math.IsInf(b.Amount, 0) {
		return fmt.Errorf("amount must be a non-negative number")
	}
	b.Amount = roundCents(b.Amount)
	if _, err := time.Parse(dateLayout, b.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	if !validStatus(b.Status) {
		return fmt.Errorf("invalid bill status %q", b.Status)
	}
	ok, err := s.patients.PatientExists(ctx, b.PatientID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("patient_id %q does not reference a known patient", b.PatientID)
	}
	return nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
