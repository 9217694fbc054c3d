package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"article-rag/internal/config"
	"article-rag/internal/db"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewEmbedder builds an embedder for the configured provider.
func NewEmbedder(cfg *config.LLMConfig) (embeddings.Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIEmbedder(cfg)
	default:
		return NewOllamaEmbedder(cfg)
	}
}

// NewOllamaEmbedder embeds through a local Ollama server.
func NewOllamaEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing ollama embedder: %w", err)
	}
	return embeddings.NewEmbedder(llm)
}

// NewOpenAIEmbedder embeds through an OpenAI-compatible endpoint.
func NewOpenAIEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithModel(cfg.Model),
		openai.WithEmbeddingModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing openai embedder: %w", err)
	}
	return embeddings.NewEmbedder(llm)
}

// EmbedTexts embeds a batch of chunks. Order is preserved: vector i belongs
// to texts[i]. Any vector whose length disagrees with db.VectorSize rejects
// the whole batch.
func EmbedTexts(ctx context.Context, embedder embeddings.Embedder, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d chunks: %w", len(texts), err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(texts))
	}
	for i, vec := range vectors {
		if len(vec) != db.VectorSize {
			return nil, fmt.Errorf("%w: chunk %d has dimension %d, want %d",
				db.ErrDimensionMismatch, i, len(vec), db.VectorSize)
		}
	}
	log.Debug().Int("chunks", len(texts)).Msg("Generated embeddings")
	return vectors, nil
}

// EmbedQuery embeds a single query string.
func EmbedQuery(ctx context.Context, embedder embeddings.Embedder, text string) ([]float32, error) {
	vec, err := embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vec) != db.VectorSize {
		return nil, fmt.Errorf("%w: query has dimension %d, want %d",
			db.ErrDimensionMismatch, len(vec), db.VectorSize)
	}
	return vec, nil
}
