package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gabrielramosasof/jurisrag/ai"
	"github.com/gabrielramosasof/jurisrag/core"
	"github.com/gabrielramosasof/jurisrag/document"
	"github.com/gabrielramosasof/jurisrag/storage"
)

const (
	// DefaultBatchSize is the number of chunks sent to the embedding
	// API per request.
	DefaultBatchSize = 64

	// DefaultMaxRetries is the number of attempts for a failed
	// embedding request.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the base delay for exponential backoff.
	DefaultRetryDelay = 1 * time.Second
)

// Pipeline orchestrates corpus ingestion: scanning a directory tree,
// parsing documents, chunking their text, embedding the chunks and
// persisting everything.
//
// Ingestion is incremental. A document whose extracted text has not
// changed since the last run is skipped; a changed document has its old
// chunks replaced.
type Pipeline struct {
	chunkRepository    storage.ChunkRepository
	documentRepository storage.DocumentRepository
	embedder           ai.Embedder
	loader             *document.Loader
	chunker            *Chunker

	poolSize     int
	chunkSize    int
	chunkOverlap int
	batchSize    int
	maxRetries   int
	retryDelay   time.Duration
	extractFunc  document.ExtractFunc
	progress     io.Writer
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent document parsing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		p.poolSize = size
		return nil
	}
}

// WithChunkSize sets the target chunk length in characters.
// Default is DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) error {
		if size > 0 {
			p.chunkSize = size
		}
		return nil
	}
}

// WithChunkOverlap sets the overlap between adjacent chunks.
// Default is DefaultChunkOverlap.
func WithChunkOverlap(overlap int) Option {
	return func(p *Pipeline) error {
		if overlap >= 0 {
			p.chunkOverlap = overlap
		}
		return nil
	}
}

// WithBatchSize sets the number of chunks embedded per API request.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size > 0 {
			p.batchSize = size
		}
		return nil
	}
}

// WithMaxRetries sets the retry attempts for embedding requests.
// Default is DefaultMaxRetries.
func WithMaxRetries(n int) Option {
	return func(p *Pipeline) error {
		if n > 0 {
			p.maxRetries = n
		}
		return nil
	}
}

// WithRetryDelay sets the base delay for exponential backoff.
// Default is DefaultRetryDelay.
func WithRetryDelay(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d > 0 {
			p.retryDelay = d
		}
		return nil
	}
}

// WithExtractFunc sets a custom text extraction function for parsing.
// Default is document.ExtractText; tests inject their own.
func WithExtractFunc(fn document.ExtractFunc) Option {
	return func(p *Pipeline) error {
		p.extractFunc = fn
		return nil
	}
}

// WithProgress sets where progress output is written.
// Default is io.Discard.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		if w == nil {
			w = io.Discard
		}
		p.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	chunkRepository storage.ChunkRepository,
	documentRepository storage.DocumentRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if documentRepository == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	p := &Pipeline{
		chunkRepository:    chunkRepository,
		documentRepository: documentRepository,
		embedder:           provider.Embedder(),
		chunkSize:          DefaultChunkSize,
		chunkOverlap:       DefaultChunkOverlap,
		batchSize:          DefaultBatchSize,
		maxRetries:         DefaultMaxRetries,
		retryDelay:         DefaultRetryDelay,
		progress:           io.Discard,
		logger:             slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			return nil, optErr
		}
	}

	loaderOpts := []document.LoaderOption{document.WithLogger(p.logger)}
	if p.poolSize > 0 {
		loaderOpts = append(loaderOpts, document.WithPoolSize(p.poolSize))
	}
	if p.extractFunc != nil {
		loaderOpts = append(loaderOpts, document.WithExtractFunc(p.extractFunc))
	}
	loader, err := document.NewLoader(loaderOpts...)
	if err != nil {
		return nil, err
	}

	p.loader = loader
	p.chunker = NewChunker(p.chunkSize, p.chunkOverlap)

	return p, nil
}

// Stats summarizes an ingestion run.
type Stats struct {
	// Documents is the number of documents ingested or updated.
	Documents int

	// Skipped is the number of documents left alone because their
	// text was unchanged.
	Skipped int

	// Failed is the number of files that could not be parsed.
	Failed int

	// Chunks is the number of chunks embedded and stored.
	Chunks int

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// Run ingests every .docx document under dir.
func (p *Pipeline) Run(ctx context.Context, dir string) (*Stats, error) {
	start := time.Now()

	files, err := document.Scan(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	if len(files) == 0 {
		p.logger.Warn("no documents found", "dir", dir)
		return &Stats{Elapsed: time.Since(start)}, nil
	}

	parsed, failed, err := p.loader.Load(ctx, files)
	if err != nil {
		return nil, err
	}

	stats, err := p.IngestDocuments(ctx, parsed)
	if err != nil {
		return nil, err
	}

	stats.Failed += failed
	stats.Elapsed = time.Since(start)
	return stats, nil
}

// IngestDocuments chunks, embeds and stores the given parsed documents.
// Unchanged documents are skipped; changed ones have their previous
// chunks replaced. An embedding failure aborts the run: a partially
// embedded corpus would silently degrade retrieval.
func (p *Pipeline) IngestDocuments(ctx context.Context, parsed []*document.Parsed) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	tracker := NewProgressTracker(p.progress, len(parsed), 1)
	tracker.Start()

	for _, doc := range parsed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		unchanged, err := p.isUnchanged(ctx, doc.Document)
		if err != nil {
			return nil, err
		}
		if unchanged {
			p.logger.Debug("skipping unchanged document", "path", doc.Document.Path)
			stats.Skipped++
			tracker.Increment(1)
			continue
		}

		chunks, err := p.chunker.Split(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to chunk %s: %w", doc.Document.Path, err)
		}

		if err := p.embedChunks(ctx, chunks); err != nil {
			return nil, fmt.Errorf("failed to embed %s: %w", doc.Document.Path, err)
		}

		if err := p.replaceChunks(ctx, doc.Document, chunks); err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", doc.Document.Path, err)
		}

		stats.Documents++
		stats.Chunks += len(chunks)
		tracker.Increment(1)
	}

	tracker.Finish()
	stats.Elapsed = time.Since(start)

	p.logger.Info("ingestion complete",
		"documents", stats.Documents,
		"skipped", stats.Skipped,
		"chunks", stats.Chunks,
		"elapsed", stats.Elapsed)

	return stats, nil
}

// Release releases resources including the parsing worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.loader != nil {
		p.loader.Release()
	}
}

// isUnchanged reports whether the stored manifest entry for doc carries
// the same text checksum.
func (p *Pipeline) isUnchanged(ctx context.Context, doc *core.Document) (bool, error) {
	existing, err := p.documentRepository.GetDocument(ctx, doc.Id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return existing.Checksum == doc.Checksum, nil
}

// embedChunks generates embeddings for all chunks in batches.
// Vectors are normalized so similarity search can use the dot product.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []*core.Chunk) error {
	for offset := 0; offset < len(chunks); offset += p.batchSize {
		end := offset + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[offset:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Contents
		}

		var embeddings [][]float32
		err := RetryWithBackoff(ctx, func() error {
			var err error
			embeddings, err = p.embedder.EmbedTexts(ctx, texts)
			return err
		}, p.maxRetries, p.retryDelay)
		if err != nil {
			return fmt.Errorf("failed to generate embeddings after %d attempts: %w", p.maxRetries, err)
		}

		if len(embeddings) != len(batch) {
			return fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(batch), len(embeddings))
		}

		for i := range batch {
			batch[i].Vector = core.NormalizeVector(embeddings[i])
		}
	}

	return nil
}

// replaceChunks swaps a document's stored chunks for new ones and
// updates its manifest entry. Each step runs in its own transaction;
// the manifest write comes last, so a crash mid-replace leaves a stale
// checksum and the next run re-ingests the document.
func (p *Pipeline) replaceChunks(ctx context.Context, doc *core.Document, chunks []*core.Chunk) error {
	if _, err := p.chunkRepository.DeleteChunksByDocument(ctx, doc.Id); err != nil {
		return err
	}

	if _, err := p.chunkRepository.AddChunks(ctx, chunks...); err != nil {
		return err
	}

	doc.Chunks = len(chunks)
	return p.documentRepository.PutDocuments(ctx, doc)
}
