package aiassist

import (
	"context"
	"fmt"

	"github.com/carepoint/hms/internal/platform/llm"
)

// Service turns diagnosis and lab report requests into schema-validated
// results using an llm.Provider. It holds no per-call state.
type Service struct {
	provider llm.Provider
}

func NewService(provider llm.Provider) *Service {
	return &Service{provider: provider}
}

// Diagnose fails with *llm.ProviderError or *llm.SchemaValidationError.
func (s *Service) Diagnose(ctx context.Context, req DiagnosisRequest) (*DiagnosisResult, error) {
	prompt, err := renderDiagnosisPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("render diagnosis prompt: %w", err)
	}
	return llm.Generate[DiagnosisResult](ctx, s.provider, diagnosisSchema, prompt)
}

// GenerateLabReport fails with *llm.ProviderError or *llm.SchemaValidationError.
func (s *Service) GenerateLabReport(ctx context.Context, req LabReportRequest) (*LabReportResult, error) {
	prompt, err := renderLabReportPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("render lab report prompt: %w", err)
	}
	return llm.Generate[LabReportResult](ctx, s.provider, labReportSchema, prompt)
}
