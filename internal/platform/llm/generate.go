package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/carepoint/hms/internal/platform/telemetry"
)

const scope = "github.com/carepoint/hms/llm"

var genMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

var genMetricsOnce sync.Once

func initGenMetrics() {
	m := telemetry.Meter(scope)
	genMetrics.requests, _ = m.Int64Counter("hms.llm.requests",
		metric.WithDescription("Structured generation requests by schema and outcome"),
		metric.WithUnit("{request}"),
	)
	genMetrics.duration, _ = m.Float64Histogram("hms.llm.request.duration",
		metric.WithDescription("Structured generation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
}

// Generate submits prompt to p under schema, validates the output and decodes
// it into T. Provider failures surface as *ProviderError and non-conforming
// output as *SchemaValidationError. There is no retry.
func Generate[T any](ctx context.Context, p Provider, schema *Schema, prompt string) (*T, error) {
	genMetricsOnce.Do(initGenMetrics)

	ctx, span := telemetry.Tracer(scope).Start(ctx, "llm.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("hms.llm.provider", p.Name()),
		attribute.String("hms.llm.schema", schema.Name),
	)

	start := time.Now()
	out, err := generate[T](ctx, p, schema, prompt)

	outcome := "ok"
	switch {
	case IsProviderError(err):
		outcome = "provider_error"
	case IsSchemaValidationError(err):
		outcome = "schema_error"
	}
	attrs := metric.WithAttributes(
		attribute.String("schema", schema.Name),
		attribute.String("outcome", outcome),
	)
	if genMetrics.requests != nil {
		genMetrics.requests.Add(ctx, 1, attrs)
		genMetrics.duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	return out, err
}

func generate[T any](ctx context.Context, p Provider, schema *Schema, prompt string) (*T, error) {
	raw, err := p.Generate(ctx, schema, prompt)
	if err != nil {
		var se *SchemaValidationError
		if errors.As(err, &se) {
			return nil, err
		}
		var pe *ProviderError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}

	if err := schema.Validate(raw); err != nil {
		return nil, &SchemaValidationError{Schema: schema.Name, Err: err}
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &SchemaValidationError{Schema: schema.Name, Err: err}
	}
	return &out, nil
}
