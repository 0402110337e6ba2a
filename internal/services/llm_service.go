package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/justsurfingit/careerkit/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

var (
	ErrGenerationNotConfigured = errors.New("text generation service is not configured")
	ErrEmptyGeneration         = errors.New("text generation returned no content")
)

// GenerationRequest is one chat round trip: an optional system persona and a user prompt.
type GenerationRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

type LLMService struct {
	Client llms.Model
}

// NewLLMService builds the client for the configured provider. A missing key
// yields ErrGenerationNotConfigured so the caller can keep serving other routes.
func NewLLMService(ctx context.Context, cfg config.LLMConfig) (*LLMService, error) {
	var (
		llm llms.Model
		err error
	)
	switch cfg.Provider {
	case "", "openai":
		if cfg.OpenAIKey == "" {
			return nil, ErrGenerationNotConfigured
		}
		llm, err = openai.New(
			openai.WithToken(cfg.OpenAIKey),
			openai.WithModel(cfg.OpenAIModel),
		)
	case "googleai":
		if cfg.GeminiKey == "" {
			return nil, ErrGenerationNotConfigured
		}
		llm, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.GeminiKey),
			googleai.WithDefaultModel(cfg.GeminiModel),
		)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}
	log.Printf("🤖 LLM provider %q ready", cfg.Provider)
	return &LLMService{Client: llm}, nil
}

func (s *LLMService) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if req.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt))

	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	resp, err := s.Client.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("text generation failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", ErrEmptyGeneration
	}
	return resp.Choices[0].Content, nil
}
