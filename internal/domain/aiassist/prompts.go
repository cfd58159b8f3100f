package aiassist

import (
	"strings"
	"text/template"
)

var diagnosisTemplate = template.Must(template.New("diagnosis").Parse(
	`You are an AI assistant helping doctors diagnose patients.

Based on the patient's historical data, current symptoms, lab reports, and doctor's notes, provide a diagnosis suggestion.
Also, provide a confidence level (0-1) for your suggestion. If the information contains factors that should cause more concern, describe those factors. Finally, give a suggested treatment for the patient.

Patient ID: {{.PatientID}}
Current Symptoms: {{.CurrentSymptoms}}
Historical Data: {{.HistoricalData}}
Lab Reports: {{.LabReports}}
Doctor's Notes: {{.DoctorNotes}}`))

var labReportTemplate = template.Must(template.New("labReport").Parse(
	`You are an AI assistant helping a hospital laboratory draft test reports.

Generate a plausible, clinically realistic set of results for the lab test named below. List each analyte the test measures with its result value and the normal reference range, including units. Then write a short interpretation of the results as a whole.

Test Name: {{.TestName}}`))

func renderDiagnosisPrompt(req DiagnosisRequest) (string, error) {
	var b strings.Builder
	if err := diagnosisTemplate.Execute(&b, req); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderLabReportPrompt(req LabReportRequest) (string, error) {
	var b strings.Builder
	if err := labReportTemplate.Execute(&b, req); err != nil {
		return "", err
	}
	return b.String(), nil
}
