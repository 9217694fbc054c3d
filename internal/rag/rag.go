package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/uptrace/bun"

	"article-rag/internal/chunker"
	"article-rag/internal/config"
	"article-rag/internal/db"
	"article-rag/internal/embedding"
	"article-rag/internal/llmservice"
	"article-rag/internal/memstore"
	"article-rag/internal/models"
)

// ErrNoContext is returned when a query finds nothing in the store.
var ErrNoContext = errors.New("rag: no stored chunks to retrieve from")

// RAG wires the pipeline stages together. Exactly one of db and mem is used
// as the vector store.
type RAG struct {
	db       *bun.DB
	mem      *memstore.Manager
	embedder embeddings.Embedder
	cfg      *config.Config
}

func NewRAG(bunDB *bun.DB, mem *memstore.Manager, embedder embeddings.Embedder, cfg *config.Config) *RAG {
	return &RAG{db: bunDB, mem: mem, embedder: embedder, cfg: cfg}
}

// Ingest chunks the text, embeds every chunk in one batch and stores the
// (chunk, vector) pairs, replacing whatever the store held before. It
// returns the number of chunks stored.
func (r *RAG) Ingest(ctx context.Context, text string) (int, error) {
	splitter, err := chunker.NewEnglishSplitter()
	if err != nil {
		return 0, err
	}
	ck, err := chunker.New(splitter, r.cfg.RAG.MaxWords, r.cfg.RAG.OverlapWords)
	if err != nil {
		return 0, err
	}
	chunks, err := ck.Chunk(text)
	if err != nil {
		return 0, err
	}
	log.Info().Int("chunks", len(chunks)).Msg("Chunked document")

	embedCtx, cancel := r.callContext(ctx)
	defer cancel()
	vectors, err := embedding.EmbedTexts(embedCtx, r.embedder, chunks)
	if err != nil {
		return 0, err
	}

	if r.mem != nil {
		if err := r.mem.AddChunks(ctx, chunks, vectors); err != nil {
			return 0, err
		}
		return len(chunks), nil
	}

	docs := make([]db.Document, len(chunks))
	for i, content := range chunks {
		docs[i] = db.Document{
			Content:   content,
			Embedding: pgvector.NewVector(vectors[i]),
		}
	}
	if err := db.ResetSchema(ctx, r.db); err != nil {
		return 0, err
	}
	if err := db.StoreDocuments(ctx, r.db, docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Query embeds the question, retrieves the closest chunks and asks the chat
// model to answer from that context alone.
func (r *RAG) Query(ctx context.Context, query string) (*models.PromptResponse, error) {
	embedCtx, cancel := r.callContext(ctx)
	qvec, err := embedding.EmbedQuery(embedCtx, r.embedder, query)
	cancel()
	if err != nil {
		return nil, err
	}

	contents, err := r.retrieve(ctx, qvec)
	if err != nil {
		return nil, err
	}
	if len(contents) == 0 {
		return nil, ErrNoContext
	}

	contextStr := BuildContext(contents)
	prompt := BuildPrompt(contextStr, query)

	genCtx, cancel := r.callContext(ctx)
	defer cancel()
	answer, err := llmservice.GenerateContent(genCtx, &r.cfg.ChatLLM, prompt)
	if err != nil {
		return nil, err
	}

	return &models.PromptResponse{
		Query:   query,
		Source:  contextStr,
		Content: answer,
	}, nil
}

func (r *RAG) retrieve(ctx context.Context, qvec []float32) ([]string, error) {
	topK := r.cfg.RAG.TopK

	if r.mem != nil {
		results, err := r.mem.Search(ctx, qvec, topK)
		if err != nil {
			return nil, err
		}
		contents := make([]string, len(results))
		for i, res := range results {
			contents[i] = res.Content
		}
		return contents, nil
	}

	results, err := db.SearchDocuments(ctx, r.db, pgvector.NewVector(qvec), topK, db.Metric(r.cfg.RAG.Metric))
	if err != nil {
		return nil, err
	}
	contents := make([]string, len(results))
	for i, res := range results {
		log.Debug().Float64("distance", res.Distance).Msg("Retrieved chunk")
		contents[i] = res.Content
	}
	return contents, nil
}

// callContext bounds a single embedding or generation call. Both are
// network-bound with unbounded latency otherwise.
func (r *RAG) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(r.cfg.RAG.RequestTimeoutSeconds) * time.Second
	return context.WithTimeout(ctx, timeout)
}

// BuildContext joins retrieved chunks with blank-line separators.
func BuildContext(contents []string) string {
	return strings.Join(contents, models.ContextSeparator)
}

// BuildPrompt fills the two-slot answer template.
func BuildPrompt(contextStr, question string) string {
	return fmt.Sprintf(models.RAGPromptTemplate, contextStr, question)
}
