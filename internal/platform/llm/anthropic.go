package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/carepoint/hms/internal/platform/telemetry"
)

const (
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	DefaultMaxTokens      = 2048
)

// AnthropicConfig configures the Anthropic Messages API provider.
type AnthropicConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int64
}

// Anthropic forces structured output by offering the schema as the only tool
// and requiring the model to call it.
type Anthropic struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

var tokenMetrics struct {
	input  metric.Int64Counter
	output metric.Int64Counter
}

var tokenMetricsOnce sync.Once

func initTokenMetrics() {
	m := telemetry.Meter(scope)
	tokenMetrics.input, _ = m.Int64Counter("hms.llm.input_tokens",
		metric.WithDescription("Anthropic API input tokens consumed"),
		metric.WithUnit("{token}"),
	)
	tokenMetrics.output, _ = m.Int64Counter("hms.llm.output_tokens",
		metric.WithDescription("Anthropic API output tokens generated"),
		metric.WithUnit("{token}"),
	)
}

func NewAnthropic(cfg AnthropicConfig) *Anthropic {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Model == "" {
		cfg.Model = DefaultAnthropicModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     anthropic.Model(cfg.Model),
		maxTokens: cfg.MaxTokens,
	}
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Generate(ctx context.Context, schema *Schema, prompt string) (json.RawMessage, error) {
	tokenMetricsOnce.Do(initTokenMetrics)

	tool := anthropic.ToolParam{
		Name:        schema.Name,
		Description: anthropic.String(schema.Description),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: schema.Properties,
			Required:   schema.Required,
		},
	}
	params := anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Tools: []anthropic.ToolUnionParam{{OfTool: &tool}},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: schema.Name},
		},
	}

	message, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, &ProviderError{Provider: a.Name(), Err: err}
	}

	modelAttr := metric.WithAttributes(attribute.String("model", string(a.model)))
	if tokenMetrics.input != nil {
		tokenMetrics.input.Add(ctx, message.Usage.InputTokens, modelAttr)
		tokenMetrics.output.Add(ctx, message.Usage.OutputTokens, modelAttr)
	}

	return structuredContent(message, schema.Name)
}

// structuredContent prefers the forced tool call and falls back to a JSON
// document in a text block.
func structuredContent(message *anthropic.Message, toolName string) (json.RawMessage, error) {
	if len(message.Content) == 0 {
		return nil, &SchemaValidationError{Schema: toolName, Err: fmt.Errorf("no content blocks")}
	}

	var text string
	for _, block := range message.Content {
		switch block.Type {
		case "tool_use":
			if block.Name == toolName && len(block.Input) > 0 {
				return block.Input, nil
			}
		case "text":
			if text == "" {
				text = block.Text
			}
		}
	}

	if text == "" {
		return nil, &SchemaValidationError{
			Schema: toolName,
			Err:    fmt.Errorf("no %s tool call in response (stop_reason=%s)", toolName, message.StopReason),
		}
	}
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, &SchemaValidationError{Schema: toolName, Err: err}
	}
	return raw, nil
}
