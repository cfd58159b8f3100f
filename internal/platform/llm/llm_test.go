package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scoreResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Note  string  `json:"note,omitempty"`
}

func testSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema("score_result", "A scored label", map[string]any{
		"label": map[string]any{"type": "string", "minLength": 1},
		"score": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
		"note":  map[string]any{"type": "string"},
	}, "label", "score")
	require.NoError(t, err)
	return s
}

func staticProvider(raw string, err error) Provider {
	return ProviderFunc(func(ctx context.Context, schema *Schema, prompt string) (json.RawMessage, error) {
		if err != nil {
			return nil, err
		}
		return json.RawMessage(raw), nil
	})
}

func TestSchema_Document(t *testing.T) {
	s := testSchema(t)
	doc := s.Document()
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, []string{"label", "score"}, doc["required"])
}

func TestSchema_Validate(t *testing.T) {
	s := testSchema(t)

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"label":"ok","score":0.5}`, false},
		{"valid with optional", `{"label":"ok","score":1,"note":"n"}`, false},
		{"extra property tolerated", `{"label":"ok","score":0,"other":true}`, false},
		{"missing required", `{"label":"ok"}`, true},
		{"score above range", `{"label":"ok","score":1.5}`, true},
		{"score below range", `{"label":"ok","score":-0.1}`, true},
		{"empty label", `{"label":"","score":0.3}`, true},
		{"wrong type", `{"label":"ok","score":"high"}`, true},
		{"not json", `label: ok`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMustSchema_PanicsOnInvalidDefinition(t *testing.T) {
	assert.Panics(t, func() {
		MustSchema("bad", "", map[string]any{
			"x": map[string]any{"type": 12},
		})
	})
}

func TestGenerate_Success(t *testing.T) {
	s := testSchema(t)
	out, err := Generate[scoreResult](context.Background(), staticProvider(`{"label":"flu","score":0.8}`, nil), s, "prompt")
	require.NoError(t, err)
	assert.Equal(t, "flu", out.Label)
	assert.InDelta(t, 0.8, out.Score, 1e-9)
	assert.Empty(t, out.Note)
}

func TestGenerate_ProviderFailureIsProviderError(t *testing.T) {
	s := testSchema(t)
	cause := errors.New("connection refused")

	_, err := Generate[scoreResult](context.Background(), staticProvider("", cause), s, "prompt")
	require.Error(t, err)

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "func", pe.Provider)
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsSchemaValidationError(err))
}

func TestGenerate_TypedProviderErrorsPassThrough(t *testing.T) {
	s := testSchema(t)
	sve := &SchemaValidationError{Schema: s.Name, Err: ErrNoJSON}

	_, err := Generate[scoreResult](context.Background(), staticProvider("", sve), s, "prompt")
	assert.Same(t, sve, err)
}

func TestGenerate_NonConformingOutput(t *testing.T) {
	s := testSchema(t)

	_, err := Generate[scoreResult](context.Background(), staticProvider(`{"label":"flu"}`, nil), s, "prompt")
	require.Error(t, err)
	assert.True(t, IsSchemaValidationError(err))
	assert.False(t, IsProviderError(err))
}

func TestGenerate_PassesSchemaAndPrompt(t *testing.T) {
	s := testSchema(t)
	var gotSchema *Schema
	var gotPrompt string
	p := ProviderFunc(func(ctx context.Context, schema *Schema, prompt string) (json.RawMessage, error) {
		gotSchema, gotPrompt = schema, prompt
		return json.RawMessage(`{"label":"x","score":0}`), nil
	})

	_, err := Generate[scoreResult](context.Background(), p, s, "rendered prompt")
	require.NoError(t, err)
	assert.Same(t, s, gotSchema)
	assert.Equal(t, "rendered prompt", gotPrompt)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{"bare", `{"a":1}`, `{"a":1}`, false},
		{"padded", "  \n{\"a\":1}\n ", `{"a":1}`, false},
		{"fenced json", "Here you go:\n```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"fenced plain", "```\n{\"a\":2}\n```", `{"a":2}`, false},
		{"prose only", "I cannot help with that.", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.content)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoJSON)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}
