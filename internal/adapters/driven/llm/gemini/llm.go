// Package gemini provides an LLM service adapter for Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the model name (default: gemini-1.5-flash).
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string
}

// contentModel is the part of *genai.GenerativeModel the service uses.
type contentModel interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
	CountTokens(ctx context.Context, parts ...genai.Part) (*genai.CountTokensResponse, error)
}

// LLMService generates text with Gemini.
type LLMService struct {
	client *genai.Client
	model  string
	// newModel returns a model configured for one call.
	newModel func(opts driven.GenerateOptions) contentModel
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	s := &LLMService{client: client, model: cfg.Model}
	s.newModel = func(o driven.GenerateOptions) contentModel {
		m := client.GenerativeModel(cfg.Model)
		configure(m, o)
		return m
	}
	return s, nil
}

func configure(m *genai.GenerativeModel, opts driven.GenerateOptions) {
	if opts.Temperature > 0 {
		m.SetTemperature(float32(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	if len(opts.StopWords) > 0 {
		m.StopSequences = opts.StopWords
	}
}

// Generate returns the text parts of the first candidate.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	resp, err := s.newModel(opts).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("gemini: prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("gemini: no candidates returned")
	}

	content := resp.Candidates[0].Content
	if content == nil {
		return "", fmt.Errorf("gemini: empty candidate")
	}

	var out strings.Builder
	for _, part := range content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	return out.String(), nil
}

// ModelName returns the configured model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping counts tokens of a short text, which checks the key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.newModel(driven.GenerateOptions{}).CountTokens(ctx, genai.Text("ping")); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *LLMService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
