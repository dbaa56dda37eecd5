package services

import (
	"context"

	"github.com/greenstack/ecoswitch/internal/domain/models"
)

// LLMProvider defines the interface for all LLM provider implementations.
// It is defined in the domain layer and implemented in the infrastructure
// layer so the router never branches on provider identity itself.
//
// Key design principles:
// - Small, focused interface (Interface Segregation Principle)
// - Easy to mock for testing
// - Provider-agnostic (supports Anthropic, OpenAI, Ollama, local, etc.)
type LLMProvider interface {
	// Name returns the provider's identifier (e.g., "anthropic", "openai").
	Name() string

	// Complete sends a single query to the named model and returns the
	// generated text together with the token count reported by the provider.
	// The call blocks until the provider responds or ctx is cancelled.
	Complete(ctx context.Context, model string, query string) (*models.ProviderResponse, error)

	// CheckHealth verifies the provider is operational and credentials are
	// valid. Returns nil if healthy, error otherwise.
	CheckHealth(ctx context.Context) error
}
