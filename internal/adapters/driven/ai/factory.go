// Package ai creates LLM service adapters from settings.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driven/llm/ollama"
	openaillm "github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driven/llm/openai"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 10 * time.Second

// CreateLLMService creates the LLM service selected by settings.
// Returns nil without error if the provider is not configured.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var (
		svc driven.LLMService
		err error
	)

	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenAI:
		svc, err = openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		svc, err = anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderGemini:
		svc, err = geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: LLM provider %q", domain.ErrUnsupportedType, settings.Provider)
	}

	if err != nil {
		return nil, err
	}
	return svc, nil
}

// ValidateLLMConfig creates a service from settings and pings it.
// Unconfigured settings are not an error.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	return svc.Ping(ctx)
}
