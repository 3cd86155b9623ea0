// Package openai implements the field-extraction gateway against the
// OpenAI chat completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"cargoscan/internal/config"
	"cargoscan/internal/domain"
	"cargoscan/internal/extractor"
	"cargoscan/internal/port"
)

const defaultModel = "gpt-4o-mini"

func init() {
	extractor.RegisterProvider("openai", func(cfg *config.ProviderConfig) (port.FieldExtractor, error) {
		return New(cfg), nil
	})
}

// Extractor implements port.FieldExtractor using the OpenAI API.
type Extractor struct {
	apiKey string
	model  string
	client *goopenai.Client
}

// New creates an OpenAI-based extractor from a provider config.
func New(cfg *config.ProviderConfig) *Extractor {
	return NewWithBaseURL(cfg, "")
}

// NewWithBaseURL creates an extractor pointing at a custom API base URL
// (for testing).
func NewWithBaseURL(cfg *config.ProviderConfig, baseURL string) *Extractor {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Extractor{
		apiKey: cfg.APIKey,
		model:  model,
		client: goopenai.NewClientWithConfig(clientCfg),
	}
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("%w: openai API key is empty", domain.ErrMissingCredential)
	}

	prompt := extractor.BuildPrompt(input.DocumentType)

	resp, err := e.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: e.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: prompt},
			{Role: goopenai.ChatMessageRoleUser, Content: "OCR TEXT:\n" + input.Text},
		},
	})
	if err != nil {
		return nil, classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response from API", domain.ErrUnparsableResponse)
	}

	doc, err := extractor.DecodeDocument(input.DocumentType, resp.Choices[0].Message.Content, input.Text, input.ImagePath)
	if err != nil {
		return nil, err
	}
	return &port.ExtractOutput{
		Document:   doc,
		ModelUsed:  e.model,
		PromptUsed: prompt,
	}, nil
}

func classifyError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: openai API status %d", domain.ErrMissingCredential, apiErr.HTTPStatusCode)
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500:
			return fmt.Errorf("%w: openai API status %d", domain.ErrConnectivity, apiErr.HTTPStatusCode)
		default:
			return fmt.Errorf("%w: openai API error: %v", domain.ErrUnparsableResponse, apiErr)
		}
	}
	return fmt.Errorf("%w: calling openai API: %v", domain.ErrConnectivity, err)
}
