package llmservice

import (
	"context"
	"errors"
	"strings"

	"article-rag/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// ErrEmptyResponse is returned when the model produces no choices.
var ErrEmptyResponse = errors.New("llmservice: empty response from model")

// GenerateContent sends a single-turn prompt to an OpenAI-compatible chat
// endpoint and returns the raw generated text.
func GenerateContent(ctx context.Context, cfg *config.LLMConfig, prompt string) (string, error) {
	llmOpts := []openai.Option{
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithModel(cfg.Model),
	}
	if cfg.ProjectID != "" {
		llmOpts = append(llmOpts, openai.WithOrganization(cfg.ProjectID))
	}
	llm, err := openai.New(llmOpts...)
	if err != nil {
		return "", err
	}

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}

	var opts []llms.CallOption
	if cfg.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(cfg.MaxTokens))
	}
	opts = append(opts, llms.WithTemperature(cfg.Temperature))

	log.Debug().Str("model", cfg.Model).Int("prompt_len", len(prompt)).Msg("Generating content")
	res, err := llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 || res.Choices[0].Content == "" {
		return "", ErrEmptyResponse
	}
	return res.Choices[0].Content, nil
}
