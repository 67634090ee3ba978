// Copyright 2025 Gabriel Ramos
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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	jurisrag "github.com/gabrielramosasof/jurisrag"
	"github.com/gabrielramosasof/jurisrag/ai"
	"github.com/gabrielramosasof/jurisrag/answer"
	"github.com/gabrielramosasof/jurisrag/document"
	"github.com/gabrielramosasof/jurisrag/ingestion"
	"github.com/gabrielramosasof/jurisrag/search"
	"github.com/gabrielramosasof/jurisrag/storage/badger"
)

const defaultStorePath = "vectorstore"

func main() {
	// Pick up OPENAI_API_KEY and friends from a local .env, if present
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "jurisrag",
		Usage: "Question answering over a corpus of legal documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Also write logs to this file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "load",
				Usage:  "Ingest .docx documents into the vector store",
				Action: loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data-dir",
						Aliases:  []string{"d"},
						Usage:    "Directory containing .docx documents",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to the vector store directory",
						Value: defaultStorePath,
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Chunk length in characters",
						Value: ingestion.DefaultChunkSize,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Overlap between adjacent chunks in characters",
						Value: ingestion.DefaultChunkOverlap,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for document parsing (0 = NumCPU/2)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to embed per API request",
						Value: ingestion.DefaultBatchSize,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "https://api.openai.com/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "text-embedding-3-small",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for embedding requests",
						Value: ingestion.DefaultMaxRetries,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: ingestion.DefaultRetryDelay,
					},
				},
			},
			{
				Name:   "ask",
				Usage:  "Ask questions about the ingested corpus interactively",
				Action: askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to the vector store directory",
						Value: defaultStorePath,
					},
					&cli.StringFlag{
						Name:    "data-dir",
						Aliases: []string{"d"},
						Usage:   "Build the store from this directory when it is empty",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of chunks retrieved per question",
						Value:   answer.DefaultTopK,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "https://api.openai.com/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "text-embedding-3-small",
					},
					&cli.StringFlag{
						Name:  "chat-host",
						Usage: "Chat-completion service host URL",
						Value: "https://api.openai.com/v1",
					},
					&cli.StringFlag{
						Name:  "chat-model",
						Usage: "Chat model name",
						Value: "gpt-3.5-turbo",
					},
					&cli.Float64Flag{
						Name:  "temperature",
						Usage: "Sampling temperature for answer generation",
						Value: 0,
					},
				},
			},
			{
				Name:   "docs",
				Usage:  "List ingested documents grouped by category",
				Action: docsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Usage: "Path to the vector store directory",
						Value: defaultStorePath,
					},
					&cli.StringFlag{
						Name:  "json",
						Usage: "Write the manifest as JSON to this path",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadCommand(c *cli.Context) error {
	ctx := context.Background()

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithToken(os.Getenv("OPENAI_API_KEY")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := jurisrag.NewDatabase(c.String("db"), jurisrag.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	pipelineOpts := []ingestion.Option{
		ingestion.WithChunkSize(c.Int("chunk-size")),
		ingestion.WithChunkOverlap(c.Int("chunk-overlap")),
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithMaxRetries(c.Int("max-retries")),
		ingestion.WithRetryDelay(c.Duration("retry-delay")),
		ingestion.WithProgress(os.Stderr),
	}
	if c.Int("pool-size") > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(c.Int("pool-size")))
	}

	pipeline, err := db.NewIngestionPipeline(pipelineOpts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	fmt.Fprintf(os.Stderr, "Data directory: %s\n", c.String("data-dir"))
	fmt.Fprintf(os.Stderr, "Store: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	stats, err := pipeline.Run(ctx, c.String("data-dir"))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	printLoadStats(os.Stdout, stats)
	return nil
}

func printLoadStats(w io.Writer, stats *ingestion.Stats) {
	fmt.Fprintln(w, color.GreenString("Ingestão concluída."))
	fmt.Fprintf(w, "  Documentos processados: %d\n", stats.Documents)
	fmt.Fprintf(w, "  Documentos inalterados: %d\n", stats.Skipped)
	if stats.Failed > 0 {
		fmt.Fprintf(w, "  %s\n", color.YellowString("Arquivos com falha: %d", stats.Failed))
	}
	fmt.Fprintf(w, "  Trechos indexados: %d\n", stats.Chunks)
	if stats.Documents > 0 {
		fmt.Fprintf(w, "  Trechos por documento: %.1f\n", float64(stats.Chunks)/float64(stats.Documents))
	}
	elapsed := stats.Elapsed.Round(time.Millisecond)
	fmt.Fprintf(w, "  Tempo total: %v\n", elapsed)
	if stats.Documents > 0 && stats.Elapsed.Seconds() > 0 {
		fmt.Fprintf(w, "  Velocidade: %.1f documentos/s\n", float64(stats.Documents)/stats.Elapsed.Seconds())
	}
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatHost(c.String("chat-host")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithTemperature(c.Float64("temperature")),
		ai.WithToken(os.Getenv("OPENAI_API_KEY")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := jurisrag.NewDatabase(c.String("db"), jurisrag.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	chunks, err := db.ChunkRepository().CountChunks(ctx)
	if err != nil {
		return fmt.Errorf("failed to read store: %w", err)
	}
	if chunks == 0 {
		dataDir := c.String("data-dir")
		if dataDir == "" {
			return fmt.Errorf("store %s is empty, run 'jurisrag load' first or pass --data-dir", c.String("db"))
		}
		chunks, err = buildStore(ctx, db, dataDir, os.Stderr, ingestion.WithProgress(os.Stderr))
		if err != nil {
			return fmt.Errorf("failed to build store: %w", err)
		}
		if chunks == 0 {
			return fmt.Errorf("no documents found in %s", dataDir)
		}
	}

	engine, err := db.NewAnswerEngine(
		answer.WithTopK(c.Int("top-k")),
		answer.WithMonitor(search.NewLogMonitor(slog.Default())),
	)
	if err != nil {
		return fmt.Errorf("failed to create answer engine: %w", err)
	}

	fmt.Println(color.CyanString("JURISRAG: consulta ao acervo jurídico (%d trechos indexados)", chunks))
	fmt.Println("Digite sua pergunta, 'limpar' para limpar a tela ou 'sair' para encerrar.")
	fmt.Println()

	_, err = askLoop(ctx, engine, os.Stdin, os.Stdout)
	return err
}

// buildStore ingests dataDir into an empty store so ask can run without
// a prior load. Returns the number of chunks indexed.
func buildStore(ctx context.Context, db *jurisrag.Database, dataDir string, out io.Writer, opts ...ingestion.Option) (int, error) {
	fmt.Fprintln(out, color.YellowString("Acervo vazio, construindo a partir de %s...", dataDir))

	pipeline, err := db.NewIngestionPipeline(opts...)
	if err != nil {
		return 0, err
	}
	defer pipeline.Release()

	stats, err := pipeline.Run(ctx, dataDir)
	if err != nil {
		return 0, err
	}
	return stats.Chunks, nil
}

// askLoop reads questions from in and answers them until an exit
// command or EOF. Returns the number of questions answered.
func askLoop(ctx context.Context, engine *answer.Engine, in io.Reader, out io.Writer) (int, error) {
	scanner := bufio.NewScanner(in)
	answered := 0

	for {
		fmt.Fprint(out, color.GreenString("Pergunta: "))
		if !scanner.Scan() {
			break
		}

		question := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(question) {
		case "":
			continue
		case "sair", "exit", "quit":
			goodbye(out, answered)
			return answered, nil
		case "limpar", "clear":
			fmt.Fprint(out, "\033[2J\033[H")
			continue
		}

		result, err := engine.Ask(ctx, question)
		if err != nil {
			// A failed question must not end the session
			if errors.Is(err, answer.ErrNoContext) {
				fmt.Fprintln(out, color.YellowString("Nenhum trecho relevante encontrado para essa pergunta."))
			} else {
				fmt.Fprintln(out, color.RedString("Erro ao responder: %v", err))
			}
			fmt.Fprintln(out)
			continue
		}

		answered++
		fmt.Fprintln(out)
		fmt.Fprintln(out, result.Text)
		fmt.Fprintln(out)
		fmt.Fprintln(out, color.CyanString("Baseado em %d documento(s):", len(result.Sources)))
		for _, source := range result.Sources {
			fmt.Fprintf(out, "  - %s (%s)\n", source.Path, source.Category)
		}
		fmt.Fprintln(out)
	}

	if err := scanner.Err(); err != nil {
		return answered, err
	}

	goodbye(out, answered)
	return answered, nil
}

func goodbye(out io.Writer, answered int) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, color.CyanString("Sessão encerrada. Perguntas respondidas: %d", answered))
}

func docsCommand(c *cli.Context) error {
	ctx := context.Background()

	// The listing only needs the store, not an AI provider
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer backend.Close()

	docRepo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create document repository: %w", err)
	}
	defer docRepo.Close()

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create chunk repository: %w", err)
	}
	defer chunkRepo.Close()

	docs, err := docRepo.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	if len(docs) == 0 {
		fmt.Println("Nenhum documento ingerido. Execute 'jurisrag load' primeiro.")
		return nil
	}

	chunks, err := chunkRepo.CountChunks(ctx)
	if err != nil {
		return fmt.Errorf("failed to count chunks: %w", err)
	}

	manifest := document.BuildManifest(docs)

	fmt.Println(color.CyanString("Documentos ingeridos: %d (%d categorias, %d trechos)",
		manifest.TotalDocuments, manifest.TotalCategories, chunks))
	fmt.Println()

	for _, category := range manifest.CategoryNames() {
		paths := manifest.Categories[category]
		fmt.Println(color.GreenString("%s (%d)", category, len(paths)))
		for _, path := range paths {
			fmt.Printf("  - %s\n", path)
		}
	}

	if jsonPath := c.String("json"); jsonPath != "" {
		if err := manifest.WriteJSON(jsonPath); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
		fmt.Println()
		fmt.Printf("Manifesto gravado em %s\n", jsonPath)
	}

	return nil
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

	var out io.Writer = os.Stderr
	if logFile := c.String("log-file"); logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		out = io.MultiWriter(os.Stderr, f)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
