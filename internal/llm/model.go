// Package llm wraps langchaingo chat models behind the single capability the
// pipeline needs: send a user prompt (plus optional system prompt), get text
// back. Every call site in the pipeline expects the text to be valid JSON;
// malformed output is a handled, retryable case for the caller.
package llm

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/bedrock"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/sqlwise/sqlmcp-go/internal/config"
	"github.com/sqlwise/sqlmcp-go/internal/metrics"
)

// defaultSystemPrompt is used when a call site provides no system prompt.
const defaultSystemPrompt = "You are a data analyst. Only output valid JSON. " +
	"Do not include any explanation or repeat the input."

// Model wraps a langchaingo LLM for JSON-producing chat calls.
type Model struct {
	llm       llms.Model
	modelName string
	timeout   time.Duration
	collector *metrics.Collector
}

// NewModel creates a chat model based on configuration.
func NewModel(ctx context.Context, cfg config.Config) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	case config.ProviderGoogleAI:
		if cfg.GoogleAIAPIKey == "" {
			return nil, fmt.Errorf("Google AI API key required")
		}
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.GoogleAIAPIKey),
			googleai.WithDefaultModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create googleai model: %w", err)
		}

	case config.ProviderBedrock:
		awsCfg, cfgErr := awsconfig.LoadDefaultConfig(ctx)
		if cfgErr != nil {
			return nil, fmt.Errorf("load aws config: %w", cfgErr)
		}
		client := bedrockruntime.NewFromConfig(awsCfg)
		model, err = bedrock.New(
			bedrock.WithClient(client),
			bedrock.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create bedrock model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:       model,
		modelName: cfg.LLMModel,
		timeout:   cfg.LLMTimeout,
	}, nil
}

// WithMetrics attaches a metrics collector; every Chat call records its
// duration under metrics.OpLLMGenerate.
func (m *Model) WithMetrics(c *metrics.Collector) *Model {
	m.collector = c
	return m
}

// Model returns the configured model name.
func (m *Model) Model() string {
	return m.modelName
}

// Chat sends a user prompt with an optional system prompt and returns the
// response text with any surrounding ```json code fence stripped. An empty
// systemPrompt falls back to the JSON-only default. The call is bounded by
// the configured timeout.
func (m *Model) Chat(ctx context.Context, userPrompt, systemPrompt string) (string, error) {
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	start := time.Now()
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	response, err := m.llm.GenerateContent(ctx, messages)
	if m.collector != nil {
		m.collector.Record(metrics.OpLLMGenerate, time.Since(start))
	}
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	return StripCodeFence(response.Choices[0].Content, "json"), nil
}
