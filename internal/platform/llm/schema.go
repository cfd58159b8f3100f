package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema is a named JSON Schema for an object-shaped result. Name doubles as
// the tool name when a provider forces structured output through tool use.
type Schema struct {
	Name        string
	Description string
	Properties  map[string]any
	Required    []string

	compiled *jsonschema.Schema
}

// NewSchema compiles an object schema with the given properties.
func NewSchema(name, description string, properties map[string]any, required ...string) (*Schema, error) {
	s := &Schema{
		Name:        name,
		Description: description,
		Properties:  properties,
		Required:    required,
	}

	doc, err := json.Marshal(s.Document())
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", name, err)
	}

	url := "hms://schemas/" + name + ".json"
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(url, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	s.compiled = compiled
	return s, nil
}

// MustSchema is like NewSchema but panics on error. It is meant for
// package-level schema declarations.
func MustSchema(name, description string, properties map[string]any, required ...string) *Schema {
	s, err := NewSchema(name, description, properties, required...)
	if err != nil {
		panic(err)
	}
	return s
}

// Document returns the full JSON Schema document.
func (s *Schema) Document() map[string]any {
	doc := map[string]any{
		"type":       "object",
		"properties": s.Properties,
	}
	if len(s.Required) > 0 {
		doc["required"] = s.Required
	}
	return doc
}

// Validate checks raw JSON against the schema.
func (s *Schema) Validate(raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decode output: %w", err)
	}
	if s.compiled == nil {
		return fmt.Errorf("schema %s was not compiled", s.Name)
	}
	return s.compiled.Validate(v)
}
