package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"article-rag/internal/chunker"
	"article-rag/internal/config"
	"article-rag/internal/db"
	"article-rag/internal/embedding"
	"article-rag/internal/fetcher"
	"article-rag/internal/helper"
	"article-rag/internal/memstore"
	"article-rag/internal/parser"
	"article-rag/internal/rag"
)

const (
	defaultConfigPath = "./configs/config.yaml"
	memstorePath      = "./chromemdb"
	memstoreName      = "articles"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", defaultConfigPath, "Path to the config file")
	articleURL := flag.String("url", "", "URL of the article to ingest")
	filePath := flag.String("file", "", "Path to a local document to ingest")
	query := flag.String("query", "", "Question to answer from the stored chunks")
	store := flag.String("store", "postgres", "Vector store backend: postgres or chromem")
	dryRun := flag.Bool("dry-run", false, "Chunk and print without embedding or storing")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ctx := context.Background()

	switch {
	case *articleURL != "" || *filePath != "":
		ingest(ctx, cfg, *articleURL, *filePath, *store, *dryRun)
	case *query != "":
		answer(ctx, cfg, *query, *store)
	default:
		log.Fatal().Msg("Provide an article with -url or -file, or a question with -query")
	}
}

func ingest(ctx context.Context, cfg *config.Config, articleURL, filePath, store string, dryRun bool) {
	var text string
	var err error

	if articleURL != "" {
		timeout := time.Duration(cfg.RAG.RequestTimeoutSeconds) * time.Second
		article, ferr := fetcher.Fetch(ctx, articleURL, timeout)
		if ferr != nil {
			log.Fatal().Err(ferr).Msg("Error fetching article")
		}
		log.Info().Str("title", article.Title).Msg("Fetched article")
		text = article.Text
	} else {
		text, err = parser.ParseFile(filePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Error parsing document")
		}
	}

	if dryRun {
		printChunks(cfg, text)
		return
	}

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	pipeline, cleanup, err := newPipeline(cfg, embedder, store, true)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing vector store")
	}
	defer cleanup()

	stored, err := pipeline.Ingest(ctx, text)
	if err != nil {
		log.Fatal().Err(err).Msg("Error ingesting document")
	}
	log.Info().Int("chunks", stored).Msg("Ingestion complete")
}

func answer(ctx context.Context, cfg *config.Config, query, store string) {
	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	pipeline, cleanup, err := newPipeline(cfg, embedder, store, false)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing vector store")
	}
	defer cleanup()

	response, err := pipeline.Query(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Msg("Error querying")
	}

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", response.Query)

	log.Info().Msg("Source: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", response.Source)

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", response.Content)
}

func newPipeline(cfg *config.Config, embedder embeddings.Embedder, store string, reset bool) (*rag.RAG, func(), error) {
	switch store {
	case "chromem":
		if err := helper.CreateFolder(memstorePath); err != nil {
			return nil, nil, err
		}
		mem, err := memstore.NewManager(memstorePath, memstoreName, false)
		if err != nil {
			return nil, nil, err
		}
		if reset {
			if err := mem.Reset(memstoreName); err != nil {
				return nil, nil, err
			}
		}
		return rag.NewRAG(nil, mem, embedder, cfg), func() {}, nil
	case "postgres":
		sqldb := db.Connect(&cfg.Database)
		bunDB := db.NewDB(sqldb, cfg.Database.Debug)
		return rag.NewRAG(bunDB, nil, embedder, cfg), func() { bunDB.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", store)
	}
}

func printChunks(cfg *config.Config, text string) {
	splitter, err := chunker.NewEnglishSplitter()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading sentence splitter")
	}
	ck, err := chunker.New(splitter, cfg.RAG.MaxWords, cfg.RAG.OverlapWords)
	if err != nil {
		log.Fatal().Err(err).Msg("Error building chunker")
	}
	chunks, err := ck.Chunk(text)
	if err != nil {
		log.Fatal().Err(err).Msg("Error chunking document")
	}
	log.Info().Int("chunks", len(chunks)).Msg("Dry run, not storing")
	helper.PrettyPrint(chunks)
}
