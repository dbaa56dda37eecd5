package providers

import (
	"context"

	"github.com/greenstack/ecoswitch/internal/domain/models"
	"github.com/greenstack/ecoswitch/internal/domain/services"
	"github.com/greenstack/ecoswitch/internal/infrastructure/config"
)

// OllamaProvider implements the LLMProvider interface for a local Ollama
// instance. Ollama exposes an OpenAI-compatible API, so we can reuse the
// OpenAI implementation.
type OllamaProvider struct {
	openai *OpenAIProvider
}

// NewOllamaProvider creates a new Ollama provider instance.
func NewOllamaProvider(cfg config.ProviderConfig) services.LLMProvider {
	return &OllamaProvider{
		openai: NewOpenAIProvider(cfg).(*OpenAIProvider),
	}
}

// Name returns the provider identifier.
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Complete delegates to the OpenAI implementation (API-compatible).
func (p *OllamaProvider) Complete(ctx context.Context, model string, query string) (*models.ProviderResponse, error) {
	return p.openai.Complete(ctx, model, query)
}

// CheckHealth delegates to the OpenAI implementation.
func (p *OllamaProvider) CheckHealth(ctx context.Context) error {
	return p.openai.CheckHealth(ctx)
}
