// Package claude implements the field-extraction gateway against the
// Anthropic Messages API.
package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cargoscan/internal/config"
	"cargoscan/internal/domain"
	"cargoscan/internal/extractor"
	"cargoscan/internal/port"
)

const (
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	defaultModel = "claude-sonnet-4-20250514"
)

func init() {
	extractor.RegisterProvider("claude", func(cfg *config.ProviderConfig) (port.FieldExtractor, error) {
		return New(cfg), nil
	})
}

// Extractor implements port.FieldExtractor using the Anthropic Messages API.
type Extractor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// New creates a Claude-based extractor from a provider config.
func New(cfg *config.ProviderConfig) *Extractor {
	return newExtractor(cfg, apiURL)
}

// NewWithEndpoint creates an extractor pointing at a custom API endpoint
// (for testing).
func NewWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Extractor {
	return newExtractor(cfg, endpoint)
}

func newExtractor(cfg *config.ProviderConfig, endpoint string) *Extractor {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Extractor{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("%w: anthropic API key is empty", domain.ErrMissingCredential)
	}

	prompt := extractor.BuildPrompt(input.DocumentType)

	reqBody := map[string]interface{}{
		"model":      e.model,
		"max_tokens": 8192,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt + "\n\nOCR TEXT:\n" + input.Text,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", e.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: calling anthropic API: %v", domain.ErrConnectivity, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrConnectivity, err)
	}

	if resp.StatusCode != http.StatusOK {
		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, fmt.Errorf("%w: anthropic API status %d", domain.ErrMissingCredential, resp.StatusCode)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return nil, fmt.Errorf("%w: anthropic API status %d", domain.ErrConnectivity, resp.StatusCode)
		default:
			return nil, fmt.Errorf("%w: anthropic API status %d: %s", domain.ErrUnparsableResponse, resp.StatusCode, truncate(respBody, 300))
		}
	}

	return parseResponse(respBody, e.model, prompt, input)
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte, model, prompt string, input port.ExtractInput) (*port.ExtractOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling response: %v", domain.ErrUnparsableResponse, err)
	}
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("%w: empty response from API", domain.ErrUnparsableResponse)
	}
	if resp.StopReason == "max_tokens" {
		return nil, fmt.Errorf("%w: output truncated at the token limit", domain.ErrUnparsableResponse)
	}

	doc, err := extractor.DecodeDocument(input.DocumentType, resp.Content[0].Text, input.Text, input.ImagePath)
	if err != nil {
		return nil, err
	}
	return &port.ExtractOutput{
		Document:   doc,
		ModelUsed:  model,
		PromptUsed: prompt,
	}, nil
}

func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
