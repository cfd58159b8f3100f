package aiassist

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	minSymptomsLength = 10

	noHistoricalData = "No historical data provided."
	noLabReports     = "No lab reports provided."
	noDoctorNotes    = "No doctor notes provided."
)

var (
	ErrPatientRequired  = errors.New("Please select a patient.")
	ErrSymptomsTooShort = errors.New("Please describe the current symptoms.")
	ErrTestNameRequired = errors.New("Please provide a test name.")
)

// PrepareDiagnosis applies the form rules of the diagnosis screen: a patient
// must be chosen, symptoms need some detail, and empty optional fields are
// replaced with explicit placeholders so the prompt never has blank lines.
func PrepareDiagnosis(req DiagnosisRequest) (DiagnosisRequest, error) {
	req.PatientID = strings.TrimSpace(req.PatientID)
	if req.PatientID == "" {
		return req, ErrPatientRequired
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.CurrentSymptoms)) < minSymptomsLength {
		return req, ErrSymptomsTooShort
	}
	req.HistoricalData = orDefault(req.HistoricalData, noHistoricalData)
	req.LabReports = orDefault(req.LabReports, noLabReports)
	req.DoctorNotes = orDefault(req.DoctorNotes, noDoctorNotes)
	return req, nil
}

func PrepareLabReport(req LabReportRequest) (LabReportRequest, error) {
	req.TestName = strings.TrimSpace(req.TestName)
	if req.TestName == "" {
		return req, ErrTestNameRequired
	}
	return req, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
