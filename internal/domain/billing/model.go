package billing

import (
	"errors"
	"time"
)

var ErrBillNotFound = errors.New("bill not found")

type BillStatus string

const (
	BillPaid    BillStatus = "Paid"
	BillPending BillStatus = "Pending"
	BillOverdue BillStatus = "Overdue"
)

func validStatus(s BillStatus) bool {
	switch s {
	case BillPaid, BillPending, BillOverdue:
		return true
	}
	return false
}

// Bill is an invoice raised against a patient. Amount is in the hospital's
// currency with two decimal places.
type Bill struct {
	ID        string     `json:"id"`
	PatientID string     `json:"patient_id"`
	Amount    float64    `json:"amount"`
	Date      string     `json:"date"`
	Status    BillStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// StatusTotal aggregates the bills in one status.
type StatusTotal struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// Summary is keyed by status; every status is present.
type Summary map[BillStatus]StatusTotal

func newSummary() Summary {
	return Summary{BillPaid: {}, BillPending: {}, BillOverdue: {}}
}
