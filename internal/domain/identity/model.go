package identity

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrDoctorNotFound  = errors.New("doctor not found")
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

type PatientStatus string

const (
	PatientAdmitted         PatientStatus = "Admitted"
	PatientUnderObservation PatientStatus = "Under Observation"
	PatientDischarged       PatientStatus = "Discharged"
)

// PatientStatuses lists every status in display order.
var PatientStatuses = []PatientStatus{PatientAdmitted, PatientUnderObservation, PatientDischarged}

type Department string

const (
	DeptCardiology  Department = "Cardiology"
	DeptNeurology   Department = "Neurology"
	DeptPediatrics  Department = "Pediatrics"
	DeptOrthopedics Department = "Orthopedics"
	DeptGeneral     Department = "General"
)

var Departments = []Department{DeptCardiology, DeptNeurology, DeptPediatrics, DeptOrthopedics, DeptGeneral}

type DoctorStatus string

const (
	DoctorActive   DoctorStatus = "Active"
	DoctorInactive DoctorStatus = "Inactive"
	DoctorOnLeave  DoctorStatus = "On Leave"
)

// DefaultAvailability is assigned to doctors created without a schedule.
var DefaultAvailability = []string{"Monday 9-12", "Wednesday 14-17"}

type Patient struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Age       int           `json:"age"`
	Gender    Gender        `json:"gender"`
	Contact   string        `json:"contact"`
	Address   string        `json:"address"`
	Status    PatientStatus `json:"status"`
	DoctorID  string        `json:"doctor_id,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type Doctor struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Department    Department   `json:"department"`
	Qualification string       `json:"qualification"`
	Experience    int          `json:"experience"`
	Languages     StringList   `json:"languages"`
	Email         string       `json:"email"`
	Status        DoctorStatus `json:"status"`
	Availability  StringList   `json:"availability"`
	Rating        float64      `json:"rating"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// StringList decodes either a JSON array or a comma separated string, so
// "English, Spanish" and ["English","Spanish"] are equivalent.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = SplitList(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = clean(items)
	return nil
}

// SplitList splits a comma separated value, trimming blanks.
func SplitList(s string) []string {
	return clean(strings.Split(s, ","))
}

func clean(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func validGender(g Gender) bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

func validPatientStatus(s PatientStatus) bool {
	for _, v := range PatientStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func validDepartment(d Department) bool {
	for _, v := range Departments {
		if v == d {
			return true
		}
	}
	return false
}

func validDoctorStatus(s DoctorStatus) bool {
	switch s {
	case DoctorActive, DoctorInactive, DoctorOnLeave:
		return true
	}
	return false
}
