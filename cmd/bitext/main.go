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
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/bitext/ai"
	"github.com/poiesic/bitext/ai/openai"
	"github.com/poiesic/bitext/core"
	"github.com/poiesic/bitext/index"
	"github.com/poiesic/bitext/ingestion"
	"github.com/poiesic/bitext/lookup"
	"github.com/poiesic/bitext/rerank"
	"github.com/poiesic/bitext/search"
	"github.com/poiesic/bitext/storage/badger"
	"github.com/poiesic/bitext/validate"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "bitext",
		Usage: "Aligned bilingual corpus tooling",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Load chunk and alignment JSONL files into a corpus store",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "chunks",
						Usage:    "Path to chunks JSONL file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "alignments",
						Usage:    "Path to alignments JSONL file",
						Required: true,
					},
				},
			},
			{
				Name:   "build-index",
				Usage:  "Embed alignments and build a vector index directory",
				Action: buildIndexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "alignments",
						Usage:    "Path to alignments JSONL file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Index output directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "text-field",
						Usage: "Alignment field to embed (src_text, tgt_text)",
						Value: string(core.FieldSrcText),
					},
					&cli.StringFlag{
						Name:  "variant",
						Usage: "Index variant (flat_ip, flat_l2, hnsw, auto)",
						Value: string(index.VariantAuto),
					},
					&cli.BoolFlag{
						Name:  "normalize",
						Usage: "L2-normalize embeddings before indexing",
						Value: true,
					},
					&cli.IntFlag{
						Name:  "hnsw-m",
						Usage: "HNSW connectivity parameter",
						Value: index.DefaultHNSWM,
					},
					&cli.IntFlag{
						Name:  "hnsw-ef-search",
						Usage: "HNSW search breadth parameter",
						Value: index.DefaultHNSWEfSearch,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of texts to embed per request",
						Value: index.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: index.DefaultMaxAttempts,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "search",
				Usage:  "Query a vector index for similar alignments",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "index",
						Aliases:  []string{"i"},
						Usage:    "Index directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "k",
						Aliases: []string{"n"},
						Usage:   "Number of results",
						Value:   5,
					},
					&cli.StringFlag{
						Name:  "part",
						Usage: "Restrict results to one document part",
					},
					&cli.BoolFlag{
						Name:  "rerank",
						Usage: "Rerank candidates with a judge model",
					},
					&cli.IntFlag{
						Name:  "rerank-n",
						Usage: "Number of candidates to fetch before reranking",
						Value: 20,
					},
					&cli.IntFlag{
						Name:  "min-scored",
						Usage: "Minimum scored candidates before falling back to similarity order",
						Value: rerank.DefaultMinScored,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "judge-host",
						Usage: "Judge service host URL (defaults to embedding-host)",
					},
					&cli.StringFlag{
						Name:  "judge-model",
						Usage: "Judge model name (required with --rerank)",
					},
				},
			},
			{
				Name:   "validate",
				Usage:  "Judge alignments and write verdicts back to JSONL",
				Action: validateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Usage:    "Path to alignments JSONL file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Path for validated alignments JSONL",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "judge-host",
						Usage:    "Judge service host URL",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "judge-model",
						Usage:    "Judge model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "max-records",
						Usage: "Validate at most N records (0 = all)",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Number of concurrent judge calls (0 = default)",
					},
				},
			},
			{
				Name:      "lookup",
				Usage:     "Find the validated alignment for a text excerpt",
				Action:    lookupCommand,
				ArgsUsage: "EXCERPT",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	corpus, stats, err := ingestion.LoadCorpus(c.String("chunks"), c.String("alignments"), slog.Default())
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	if stats.Malformed > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d malformed records\n", stats.Malformed)
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create chunk repository: %w", err)
	}
	defer chunkRepo.Close()

	alignmentRepo, err := badger.NewAlignmentRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create alignment repository: %w", err)
	}
	defer alignmentRepo.Close()

	service, err := lookup.NewService(chunkRepo, alignmentRepo)
	if err != nil {
		return fmt.Errorf("failed to create lookup service: %w", err)
	}

	ingested, err := service.Ingest(ctx, corpus)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Ingested %d chunks and %d alignments into %s\n",
		ingested.Chunks, ingested.Alignments, c.String("db"))
	return nil
}

func buildIndexCommand(c *cli.Context) error {
	ctx := context.Background()

	alignments, stats, err := ingestion.ReadAlignmentsFile(c.String("alignments"), slog.Default())
	if err != nil {
		return fmt.Errorf("failed to read alignments: %w", err)
	}
	if stats.Malformed > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d malformed records\n", stats.Malformed)
	}

	textField := core.TextField(c.String("text-field"))
	if textField != core.FieldSrcText && textField != core.FieldTgtText {
		return fmt.Errorf("invalid text-field %q: must be %s or %s",
			c.String("text-field"), core.FieldSrcText, core.FieldTgtText)
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.ValidateEmbedding(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	builder, err := index.NewBuilder(embedder,
		index.WithTextField(textField),
		index.WithVariant(index.Variant(c.String("variant"))),
		index.WithNormalization(c.Bool("normalize")),
		index.WithHNSWParams(c.Int("hnsw-m"), c.Int("hnsw-ef-search")),
		index.WithBatchSize(c.Int("batch-size")),
		index.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	)
	if err != nil {
		return fmt.Errorf("failed to create index builder: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	built, err := builder.Build(ctx, alignments, c.String("out"))
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %d of %d alignments (%d empty, %d unvalidated), dim %d, variant %s\n",
		built.NumIndexed, built.NumAlignments, built.NumSkipped, built.NumUnvalidated, built.EmbeddingDim, built.Variant)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query is required")
	}

	embeddingHost := c.String("embedding-host")
	judgeHost := c.String("judge-host")
	if judgeHost == "" {
		judgeHost = embeddingHost
	}
	judgeModel := c.String("judge-model")
	if c.Bool("rerank") && judgeModel == "" {
		return fmt.Errorf("judge-model is required with --rerank")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(embeddingHost),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithJudgeHost(judgeHost),
		ai.WithJudgeModel(judgeModel),
	)
	if err := aiConfig.ValidateEmbedding(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}
	if c.Bool("rerank") {
		if err := aiConfig.ValidateJudge(); err != nil {
			return fmt.Errorf("invalid judge configuration: %w", err)
		}
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	searcher, err := search.Open(c.String("index"), embedder)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}

	k := c.Int("k")
	fetch := k
	if c.Bool("rerank") && c.Int("rerank-n") > fetch {
		fetch = c.Int("rerank-n")
	}

	var searchOpts []search.SearchOption
	if part := c.String("part"); part != "" {
		searchOpts = append(searchOpts, search.WithPartFilter(part))
	}

	results, err := searcher.Search(ctx, query, fetch, searchOpts...)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if c.Bool("rerank") {
		judge, err := openai.NewJudge(aiConfig)
		if err != nil {
			return fmt.Errorf("failed to create judge: %w", err)
		}

		reranker, err := rerank.NewReranker(judge,
			rerank.WithMinScored(c.Int("min-scored")))
		if err != nil {
			return fmt.Errorf("failed to create reranker: %w", err)
		}
		defer reranker.Release()

		scored, err := reranker.Rerank(ctx, query, results, k)
		if errors.Is(err, rerank.ErrTooFewScored) {
			fmt.Fprintln(os.Stderr, "Too few candidates scored; keeping similarity order")
		} else if err != nil {
			return fmt.Errorf("reranking failed: %w", err)
		} else {
			fmt.Printf("Found %d hits for %q (reranked)\n", len(scored), query)
			for i, hit := range scored {
				printHit(i, hit.Candidate, hit.Relevance)
			}
			return nil
		}
	}

	if len(results) > k {
		results = results[:k]
	}
	fmt.Printf("Found %d hits for %q\n", len(results), query)
	for i, hit := range results {
		printHit(i, hit, float64(hit.Score))
	}
	return nil
}

func printHit(rank int, hit search.Result, score float64) {
	fmt.Printf("%d: [%.3f] part=%s\n", rank, score, hit.Alignment.Part)
	fmt.Printf("   en: %s\n", hit.Alignment.SrcText)
	fmt.Printf("   it: %s\n", hit.Alignment.TgtText)
}

func validateCommand(c *cli.Context) error {
	ctx := context.Background()

	alignments, stats, err := ingestion.ReadAlignmentsFile(c.String("input"), slog.Default())
	if err != nil {
		return fmt.Errorf("failed to read alignments: %w", err)
	}
	if stats.Malformed > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d malformed records\n", stats.Malformed)
	}

	if max := c.Int("max-records"); max > 0 && len(alignments) > max {
		alignments = alignments[:max]
	}
	if len(alignments) == 0 {
		return fmt.Errorf("no alignments to validate")
	}

	aiConfig := ai.NewConfig(
		ai.WithJudgeHost(c.String("judge-host")),
		ai.WithJudgeModel(c.String("judge-model")),
	)
	if err := aiConfig.ValidateJudge(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	judge, err := openai.NewJudge(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create judge: %w", err)
	}

	opts := []validate.Option{
		validate.WithProgress(validate.NewProgressTracker(os.Stderr, len(alignments), c.Int("report-interval"))),
	}
	if n := c.Int("concurrency"); n > 0 {
		opts = append(opts, validate.WithConcurrency(n))
	}

	validator, err := validate.NewValidator(judge, opts...)
	if err != nil {
		return fmt.Errorf("failed to create validator: %w", err)
	}
	defer validator.Release()

	fmt.Fprintf(os.Stderr, "Judge host: %s\n", c.String("judge-host"))
	fmt.Fprintf(os.Stderr, "Judge model: %s\n", c.String("judge-model"))
	fmt.Fprintln(os.Stderr)

	validated, summary, err := validator.Validate(ctx, alignments)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := ingestion.WriteAlignmentsFile(c.String("output"), validated); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\nProcessed %d alignments: %d valid, %d invalid, %d errored (mean confidence %.3f)\n",
		summary.Processed, summary.Valid, summary.Invalid, summary.Errored, summary.MeanConfidence)
	return nil
}

func lookupCommand(c *cli.Context) error {
	ctx := context.Background()

	excerpt := strings.Join(c.Args().Slice(), " ")
	if excerpt == "" {
		return fmt.Errorf("excerpt is required")
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create chunk repository: %w", err)
	}
	defer chunkRepo.Close()

	alignmentRepo, err := badger.NewAlignmentRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create alignment repository: %w", err)
	}
	defer alignmentRepo.Close()

	service, err := lookup.NewService(chunkRepo, alignmentRepo)
	if err != nil {
		return fmt.Errorf("failed to create lookup service: %w", err)
	}

	result, err := service.Lookup(ctx, excerpt)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	printLookupResult(os.Stdout, result)
	return nil
}

func printLookupResult(w *os.File, result lookup.Result) {
	if !result.Found {
		fmt.Fprintf(w, "Not found: %s\n", result.Reason)
		return
	}
	fmt.Fprintf(w, "Found (%s)\n", result.Reason)
	fmt.Fprintf(w, "  chunk %d (%s)\n", result.QueryChunkID, result.QueryLanguage)
	fmt.Fprintf(w, "  en: %s\n", result.Alignment.SrcText)
	fmt.Fprintf(w, "  it: %s\n", result.Alignment.TgtText)
	if verdict := result.Alignment.Validation; verdict.ValidationSuccess {
		fmt.Fprintf(w, "  confidence: %.2f\n", verdict.Confidence)
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
