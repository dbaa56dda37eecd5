package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/greenstack/ecoswitch/internal/domain/models"
	"github.com/greenstack/ecoswitch/internal/domain/services"
	"github.com/greenstack/ecoswitch/internal/infrastructure/config"
)

// AnthropicProvider implements the LLMProvider interface for the Anthropic
// Messages API.
type AnthropicProvider struct {
	config     config.ProviderConfig
	httpClient *http.Client
}

// NewAnthropicProvider creates a new Anthropic provider instance.
func NewAnthropicProvider(cfg config.ProviderConfig) services.LLMProvider {
	return &AnthropicProvider{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Name returns the provider identifier.
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// anthropicResponse is the subset of the Messages API response we consume.
type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Complete sends a non-streaming message request and returns the generated
// text plus the total token count reported by the API.
func (p *AnthropicProvider) Complete(ctx context.Context, model string, query string) (*models.ProviderResponse, error) {
	reqBody := map[string]interface{}{
		"model":      model,
		"max_tokens": 1024,
		"messages": []map[string]string{
			{"role": "user", "content": query},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.config.BaseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.config.APIKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Anthropic API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &models.ProviderResponse{
		Text:   DedupeLines(strings.TrimSpace(text.String())),
		Tokens: parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
	}, nil
}

// CheckHealth verifies the provider is operational.
func (p *AnthropicProvider) CheckHealth(ctx context.Context) error {
	// Anthropic doesn't have a dedicated health endpoint; a missing key is
	// the only failure we can detect without spending tokens.
	if p.config.APIKey == "" {
		return models.ErrProviderDisabled
	}
	return nil
}
