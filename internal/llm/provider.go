// Package llm provides text-generation clients for the supported AI
// providers behind a single capability interface.
package llm

import (
	"context"
	"fmt"

	organizationModel "github.com/prscope/prscope/internal/organization/model"
)

// Provider generates free-form text from a system and a user prompt. One
// implementation exists per supported provider; adding a provider means
// adding an implementation, not a branch.
type Provider interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Config selects and authenticates a provider.
type Config struct {
	// Provider is one of the organization model provider constants.
	Provider string
	// APIKey is the provider API key.
	APIKey string
	// Model is the provider-specific model identifier.
	Model string
}

// Factory builds a Provider from configuration.
type Factory func(cfg Config) (Provider, error)

// New creates a Provider for the configured provider identifier.
func New(cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing API key for provider %q", cfg.Provider)
	}

	switch cfg.Provider {
	case organizationModel.ProviderOpenAI:
		return newOpenAI(cfg.APIKey, cfg.Model), nil
	case organizationModel.ProviderGoogle:
		return newGoogle(cfg.APIKey, cfg.Model), nil
	case organizationModel.ProviderAnthropic:
		return newAnthropic(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %q", cfg.Provider)
	}
}
