// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/docsearch"
	"github.com/poiesic/docsearch/ai"
	"github.com/poiesic/docsearch/core"
	"github.com/poiesic/docsearch/reembed"
)

func main() {
	app := &cli.App{
		Name:  "docsearch",
		Usage: "Document chunking, indexing and multi-channel search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest text files as documents (pages separated by form feeds)",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags:     append(databaseFlags(), embeddingFlags()...),
			},
			{
				Name:      "search",
				Usage:     "Search ingested documents",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append(append(databaseFlags(), embeddingFlags()...),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
				),
			},
			{
				Name:   "documents",
				Usage:  "List ingested documents and their status",
				Action: documentsCommand,
				Flags:  append(databaseFlags(), embeddingFlags()...),
			},
			{
				Name:      "delete",
				Usage:     "Delete a document and everything derived from it",
				ArgsUsage: "DOCUMENT_ID",
				Action:    deleteCommand,
				Flags:     append(databaseFlags(), embeddingFlags()...),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all child chunks with new embeddings",
				Action: reembedCommand,
				Flags: append(append(databaseFlags(), embeddingFlags()...),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func databaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			EnvVars:  []string{"DOCSEARCH_DB"},
			Required: true,
		},
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			EnvVars: []string{"DOCSEARCH_EMBEDDING_HOST"},
			Value:   "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			EnvVars: []string{"DOCSEARCH_EMBEDDING_MODEL"},
			Value:   "embeddinggemma",
		},
		&cli.IntFlag{
			Name:    "embedding-dim",
			Usage:   "Embedding vector dimensionality",
			EnvVars: []string{"DOCSEARCH_EMBEDDING_DIM"},
			Value:   384,
		},
	}
}

func openDatabase(c *cli.Context) (*docsearch.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithEmbeddingDim(c.Int("embedding-dim")),
	)

	db, err := docsearch.NewDatabase(c.String("db"), docsearch.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one input file is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	ctx := context.Background()
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		pages := splitPages(string(data))
		doc, err := pipeline.ProcessDocument(ctx, &core.Document{
			Name: filepath.Base(path),
		}, pages)
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", path, err)
		}

		fmt.Printf("%s  %s  %d page(s)  %s\n", doc.Id, doc.Status, doc.PageCount, doc.Name)
	}
	return nil
}

// splitPages turns raw file text into page texts. Form feed characters mark
// page boundaries; a file without them is a single page.
func splitPages(text string) []string {
	parts := strings.Split(text, "\f")
	pages := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			pages = append(pages, part)
		}
	}
	return pages
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a query is required")
	}
	query := strings.Join(c.Args().Slice(), " ")

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	results, err := searcher.Search(context.Background(), query, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, result := range results {
		channels := make([]string, len(result.Channels))
		for j, ch := range result.Channels {
			channels[j] = ch.String()
		}
		fmt.Printf("%2d. [%.3f] doc %s page %d (%s)\n",
			i+1, result.FusionScore, result.DocumentId, result.PageNumber,
			strings.Join(channels, ","))
		fmt.Printf("    %s\n", result.Snippet)
	}
	return nil
}

func documentsCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	docs, err := db.DocumentRepository().ListDocuments(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		fmt.Println("No documents.")
		return nil
	}

	for _, doc := range docs {
		line := fmt.Sprintf("%s  %-10s  %3d page(s)  %s", doc.Id, doc.Status, doc.PageCount, doc.Name)
		if doc.Status == core.DocumentStatusFailed && doc.ErrorMessage != "" {
			line += "  (" + doc.ErrorMessage + ")"
		}
		fmt.Println(line)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one document ID is required")
	}
	docID := core.DocumentID(c.Args().First())

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteDocument(context.Background(), docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	fmt.Printf("Deleted %s\n", docID)
	return nil
}

func reembedCommand(c *cli.Context) error {
	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	reembedder := db.NewReembedder(reembedConfig, os.Stderr)
	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func setup(c *cli.Context) error {
	// Optional .env file; flags and real environment still win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "err", err)
	}

	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
