package aiassist

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

const (
	MsgDiagnosisFailed = "Failed to get AI diagnosis."
	MsgLabReportFailed = "Failed to generate lab report."
)

// ErrOperationFailed matches every *OperationFailed via errors.Is.
var ErrOperationFailed = errors.New("operation failed")

// OperationFailed is the only error the workflow actions return. It carries
// a fixed user-facing message and deliberately does not wrap the cause.
type OperationFailed struct {
	Message string
}

func (e *OperationFailed) Error() string { return e.Message }

func (e *OperationFailed) Is(target error) bool { return target == ErrOperationFailed }

// Assistant is the structured prompt surface the actions depend on.
type Assistant interface {
	Diagnose(ctx context.Context, req DiagnosisRequest) (*DiagnosisResult, error)
	GenerateLabReport(ctx context.Context, req LabReportRequest) (*LabReportResult, error)
}

// Actions exposes the assistant to callers with a uniform error contract:
// the underlying failure is logged and replaced by OperationFailed.
type Actions struct {
	assistant Assistant
	logger    zerolog.Logger
}

func NewActions(assistant Assistant, logger zerolog.Logger) *Actions {
	return &Actions{assistant: assistant, logger: logger.With().Str("component", "aiassist").Logger()}
}

func (a *Actions) RunDiagnosis(ctx context.Context, req DiagnosisRequest) (*DiagnosisResult, error) {
	out, err := a.assistant.Diagnose(ctx, req)
	if err != nil {
		a.logger.Error().Err(err).
			Str("action", "diagnosis").
			Str("patient_id", req.PatientID).
			Msg("error in AI diagnosis flow")
		return nil, &OperationFailed{Message: MsgDiagnosisFailed}
	}
	return out, nil
}

func (a *Actions) RunLabReportGeneration(ctx context.Context, req LabReportRequest) (*LabReportResult, error) {
	out, err := a.assistant.GenerateLabReport(ctx, req)
	if err != nil {
		a.logger.Error().Err(err).
			Str("action", "lab_report").
			Str("test_name", req.TestName).
			Msg("error in lab report flow")
		return nil, &OperationFailed{Message: MsgLabReportFailed}
	}
	return out, nil
}
