package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"article-rag/internal/config"
)

// VectorSize is the embedding dimension of the documents table. It is a
// contract with the embedding model; vectors of any other length are
// rejected before they reach the database.
const VectorSize = 384

// ErrDimensionMismatch marks a vector whose length disagrees with VectorSize.
var ErrDimensionMismatch = errors.New("db: embedding dimension mismatch")

type Document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`
	ID            int64           `bun:"id,pk,autoincrement"`
	Content       string          `bun:"content,notnull"`
	Embedding     pgvector.Vector `bun:"embedding,notnull,type:vector(384)"`
}

// SearchResult is one retrieved chunk with its distance to the query vector.
type SearchResult struct {
	Content  string  `bun:"content"`
	Distance float64 `bun:"distance"`
}

// Metric selects the pgvector distance operator used for retrieval.
type Metric string

const (
	Euclidean    Metric = "euclidean"
	Cosine       Metric = "cosine"
	InnerProduct Metric = "inner_product"
)

func (m Metric) operator() (string, error) {
	switch m {
	case Euclidean:
		return "<->", nil
	case Cosine:
		return "<=>", nil
	case InnerProduct:
		return "<#>", nil
	default:
		return "", fmt.Errorf("db: unknown distance metric %q", string(m))
	}
}

func Connect(cfg *config.DatabaseConfig) *sql.DB {
	opts := []pgdriver.Option{
		pgdriver.WithAddr(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		pgdriver.WithUser(cfg.User),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.Name),
	}
	if cfg.Insecure {
		opts = append(opts, pgdriver.WithInsecure(true))
	}
	return sql.OpenDB(pgdriver.NewConnector(opts...))
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// ResetSchema drops and recreates the documents table. Each ingestion run
// starts from an empty table.
func ResetSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("creating vector extension: %w", err)
	}
	if _, err := db.NewDropTable().Model((*Document)(nil)).IfExists().Exec(ctx); err != nil {
		return fmt.Errorf("dropping documents table: %w", err)
	}
	if _, err := db.NewCreateTable().Model((*Document)(nil)).Exec(ctx); err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}
	return nil
}

// StoreDocuments inserts all documents in a single statement inside a
// transaction. Either every document is stored or none is.
func StoreDocuments(ctx context.Context, db *bun.DB, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	if err := ValidateDimensions(docs); err != nil {
		return err
	}
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&docs).Exec(ctx)
		return err
	})
}

// ValidateDimensions rejects the whole batch when any vector has the wrong
// length, naming the first offender.
func ValidateDimensions(docs []Document) error {
	for i, doc := range docs {
		if got := len(doc.Embedding.Slice()); got != VectorSize {
			return fmt.Errorf("%w: document %d has dimension %d, want %d",
				ErrDimensionMismatch, i, got, VectorSize)
		}
	}
	return nil
}

// SearchDocuments returns up to limit stored chunks ordered by ascending
// distance to the query vector.
func SearchDocuments(ctx context.Context, db *bun.DB, query pgvector.Vector, limit int, metric Metric) ([]SearchResult, error) {
	if got := len(query.Slice()); got != VectorSize {
		return nil, fmt.Errorf("%w: query has dimension %d, want %d", ErrDimensionMismatch, got, VectorSize)
	}
	op, err := metric.operator()
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	err = db.NewSelect().
		Model((*Document)(nil)).
		ColumnExpr("content").
		ColumnExpr("embedding "+op+" ? AS distance", query).
		OrderExpr("embedding "+op+" ?", query).
		Limit(limit).
		Scan(ctx, &results)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	return results, nil
}
