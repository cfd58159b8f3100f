package scheduling

import (
	"errors"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrUnrecognisedWhen    = errors.New("no date or time found in phrase")
)

// Appointment is a patient visit with a doctor. StartsAt is authoritative;
// Date and Time are its UTC calendar rendering.
type Appointment struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	DoctorID  string    `json:"doctor_id"`
	StartsAt  time.Time `json:"starts_at"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) stamp() {
	a.StartsAt = a.StartsAt.UTC()
	a.Date = a.StartsAt.Format(dateLayout)
	a.Time = a.StartsAt.Format(timeLayout)
}

// BookingRequest is the input for creating or rescheduling an appointment.
// Either When (a phrase such as "next monday 10am") or Date must be set.
// Date accepts RFC 3339 or YYYY-MM-DD; the latter needs Time ("HH:MM").
type BookingRequest struct {
	PatientID string `json:"patient_id"`
	DoctorID  string `json:"doctor_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	When      string `json:"when"`
	Reason    string `json:"reason"`
}
