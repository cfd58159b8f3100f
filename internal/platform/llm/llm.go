// Package llm is the boundary between HMS and generative model providers.
//
// A Provider accepts a Schema and a prompt and returns raw JSON that is
// expected to conform to that schema. Generate validates the output and
// decodes it into a typed value, so callers only ever see results that match
// their schema exactly.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Provider produces schema-constrained structured output for a prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, schema *Schema, prompt string) (json.RawMessage, error)
}

// ProviderError reports that the provider could not be reached or returned
// an error instead of output.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("llm provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// SchemaValidationError reports provider output that does not conform to the
// requested schema.
type SchemaValidationError struct {
	Schema string
	Err    error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("llm output does not match schema %s: %v", e.Schema, e.Err)
}

func (e *SchemaValidationError) Unwrap() error { return e.Err }

// IsProviderError reports whether err is, or wraps, a *ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// IsSchemaValidationError reports whether err is, or wraps, a *SchemaValidationError.
func IsSchemaValidationError(err error) bool {
	var se *SchemaValidationError
	return errors.As(err, &se)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, schema *Schema, prompt string) (json.RawMessage, error)

func (f ProviderFunc) Name() string { return "func" }

func (f ProviderFunc) Generate(ctx context.Context, schema *Schema, prompt string) (json.RawMessage, error) {
	return f(ctx, schema, prompt)
}
