package document

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/gabrielramosasof/jurisrag/core"
	"github.com/panjf2000/ants/v2"
)

// Parsed is a document together with its extracted text.
type Parsed struct {
	Document *core.Document
	Text     string
}

// ExtractFunc extracts the text of one corpus file.
// The default is ExtractText; tests inject their own.
type ExtractFunc func(path string) (string, error)

// Loader parses corpus files concurrently on a worker pool.
// Per-file parse failures are logged and skipped, never fatal: a single
// corrupted .docx must not abort ingestion of the rest of the corpus.
type Loader struct {
	pool    *ants.Pool
	extract ExtractFunc
	logger  *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader) error

// WithPoolSize sets the worker pool size for concurrent parsing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) LoaderOption {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}
		if l.pool != nil {
			l.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		l.pool = pool
		return nil
	}
}

// WithExtractFunc sets a custom text extraction function.
// Default is ExtractText.
func WithExtractFunc(fn ExtractFunc) LoaderOption {
	return func(l *Loader) error {
		if fn == nil {
			fn = ExtractText
		}
		l.extract = fn
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a new corpus loader.
func NewLoader(opts ...LoaderOption) (*Loader, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	l := &Loader{
		pool:    pool,
		extract: ExtractText,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(l); optErr != nil {
			l.Release()
			return nil, optErr
		}
	}

	return l, nil
}

// Load parses the given files concurrently and returns the parsed
// documents in scan order. Files whose text cannot be extracted, or that
// turn out to be empty, are skipped with a warning. The returned count of
// failed files lets callers report them.
func (l *Loader) Load(ctx context.Context, files []File) (parsed []*Parsed, failed int, err error) {
	start := time.Now()
	l.logger.Info("loading documents", "files", len(files))

	results := make([]*Parsed, len(files))
	var (
		wg       sync.WaitGroup
		failures int
		mu       sync.Mutex
	)

	for i, file := range files {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, ctxErr
		}

		wg.Add(1)
		i, file := i, file
		submitErr := l.pool.Submit(func() {
			defer wg.Done()

			text, extractErr := l.extract(file.AbsPath)
			if extractErr != nil {
				l.logger.Warn("skipping unreadable document", "path", file.Path, "err", extractErr)
				mu.Lock()
				failures++
				mu.Unlock()
				return
			}
			if text == "" {
				l.logger.Warn("skipping empty document", "path", file.Path)
				mu.Lock()
				failures++
				mu.Unlock()
				return
			}

			results[i] = &Parsed{
				Document: &core.Document{
					Id:       core.IDFromContent(file.Path),
					Path:     file.Path,
					Category: file.Category,
					Checksum: core.IDFromContent(text),
				},
				Text: text,
			}
		})
		if submitErr != nil {
			wg.Done()
			return nil, 0, submitErr
		}
	}

	wg.Wait()

	parsed = make([]*Parsed, 0, len(results))
	for _, r := range results {
		if r != nil {
			parsed = append(parsed, r)
		}
	}

	l.logger.Info("documents loaded",
		"parsed", len(parsed),
		"failed", failures,
		"elapsed", time.Since(start))

	return parsed, failures, nil
}

// Release releases the worker pool.
// The loader should not be used after calling Release.
func (l *Loader) Release() {
	if l.pool != nil {
		l.pool.Release()
	}
}
