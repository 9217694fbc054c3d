package memstore

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"article-rag/internal/helper"
)

// Manager wraps a chromem-go collection so the pipeline can run without a
// Postgres instance. The store is either in-memory or persisted to a local
// directory.
type Manager struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewManager opens (or creates) the named collection. With inMemory set,
// nothing is written to disk and the store lives for one process only.
func NewManager(dbPath, collectionName string, inMemory bool) (*Manager, error) {
	var cdb *chromem.DB
	var err error
	if inMemory {
		cdb = chromem.NewDB()
	} else {
		cdb, err = chromem.NewPersistentDB(dbPath, false)
		if err != nil {
			return nil, fmt.Errorf("memstore: opening %s: %w", dbPath, err)
		}
	}

	// The embedding func is never used: documents and queries always carry
	// precomputed vectors.
	collection, err := cdb.GetOrCreateCollection(collectionName, nil, func(_ context.Context, _ string) ([]float32, error) {
		return nil, fmt.Errorf("memstore: no embedding func configured")
	})
	if err != nil {
		return nil, fmt.Errorf("memstore: opening collection %s: %w", collectionName, err)
	}

	return &Manager{db: cdb, collection: collection}, nil
}

// Reset drops and recreates the collection, mirroring the relational
// store's per-run schema reset.
func (m *Manager) Reset(collectionName string) error {
	if err := m.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("memstore: deleting collection: %w", err)
	}
	collection, err := m.db.GetOrCreateCollection(collectionName, nil, func(_ context.Context, _ string) ([]float32, error) {
		return nil, fmt.Errorf("memstore: no embedding func configured")
	})
	if err != nil {
		return fmt.Errorf("memstore: recreating collection: %w", err)
	}
	m.collection = collection
	return nil
}

// AddChunks stores chunk texts with their precomputed vectors. Vectors are
// matched to chunks by position.
func (m *Manager) AddChunks(ctx context.Context, chunks []string, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("memstore: %d chunks but %d vectors", len(chunks), len(vectors))
	}
	docs := make([]chromem.Document, 0, len(chunks))
	for i, content := range chunks {
		id, err := helper.GenerateUUID()
		if err != nil {
			return err
		}
		docs = append(docs, chromem.Document{
			ID:        id,
			Content:   content,
			Metadata:  map[string]string{"chunk": fmt.Sprint(i)},
			Embedding: vectors[i],
		})
	}
	if err := m.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("memstore: adding documents: %w", err)
	}
	log.Debug().Int("chunks", len(docs)).Msg("Stored chunks in local collection")
	return nil
}

// Result is one retrieved chunk. Distance is 1 - cosine similarity so that
// results order the same way as the relational store's ascending distances.
type Result struct {
	Content  string
	Distance float64
}

// Search returns up to k chunks closest to the query vector.
func (m *Manager) Search(ctx context.Context, query []float32, k int) ([]Result, error) {
	if count := m.collection.Count(); k > count {
		k = count
	}
	if k == 0 {
		return nil, nil
	}

	found, err := m.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: query,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("memstore: querying collection: %w", err)
	}

	results := make([]Result, 0, len(found))
	for _, r := range found {
		results = append(results, Result{
			Content:  r.Content,
			Distance: 1 - float64(r.Similarity),
		})
	}
	return results, nil
}
