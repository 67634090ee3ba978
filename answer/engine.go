package answer

import (
	"context"
	"log/slog"
	"sort"

	"github.com/gabrielramosasof/jurisrag/ai"
	"github.com/gabrielramosasof/jurisrag/core"
	"github.com/gabrielramosasof/jurisrag/search"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

// Engine answers questions grounded in retrieved document chunks.
type Engine struct {
	searcher *search.Searcher
	answerer ai.Answerer
	topK     int
	monitor  search.SearchMonitor
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithTopK sets how many chunks are retrieved per question.
// Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(e *Engine) error {
		if k > 0 {
			e.topK = k
		}
		return nil
	}
}

// WithMonitor sets a search monitor receiving retrieval callbacks.
func WithMonitor(monitor search.SearchMonitor) Option {
	return func(e *Engine) error {
		e.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a new answer engine.
func NewEngine(searcher *search.Searcher, provider ai.AIProvider, opts ...Option) (*Engine, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	e := &Engine{
		searcher: searcher,
		answerer: provider.Answerer(),
		topK:     DefaultTopK,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Ask retrieves the chunks most relevant to question and generates an
// answer grounded in them. Returns ErrNoContext when retrieval finds
// nothing to ground the answer on.
func (e *Engine) Ask(ctx context.Context, question string) (*core.Answer, error) {
	results, err := e.searcher.FindSimilarWithMonitor(ctx, question, e.topK, e.monitor)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNoContext
	}

	excerpts := make([]ai.Excerpt, len(results))
	for i, result := range results {
		excerpts[i] = ai.Excerpt{
			Source:   result.Chunk.Source,
			Contents: result.Chunk.Contents,
		}
	}

	text, err := e.answerer.Answer(ctx, question, excerpts)
	if err != nil {
		e.logger.Error("error generating answer", "err", err)
		return nil, err
	}

	return &core.Answer{
		Text:    text,
		Sources: collectSources(results),
	}, nil
}

// collectSources deduplicates retrieval results by document path,
// keeping each document's best score, ordered best first.
func collectSources(results []*core.SearchResult) []core.Source {
	best := make(map[string]core.Source, len(results))
	for _, result := range results {
		source, ok := best[result.Chunk.Source]
		if !ok || result.Score > source.Score {
			best[result.Chunk.Source] = core.Source{
				Path:     result.Chunk.Source,
				Category: result.Chunk.Category,
				Score:    result.Score,
			}
		}
	}

	sources := make([]core.Source, 0, len(best))
	for _, source := range best {
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Score != sources[j].Score {
			return sources[i].Score > sources[j].Score
		}
		return sources[i].Path < sources[j].Path
	})

	return sources
}
