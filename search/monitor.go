package search

import (
	"log/slog"

	"github.com/gabrielramosasof/jurisrag/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterEmbedding(vector []float32)
	AfterVectorSearch(results []*core.SearchResult)
	VerbatimHit(chunk *core.Chunk)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                           {}
func (n *noopMonitor) AfterEmbedding(_ []float32)               {}
func (n *noopMonitor) AfterVectorSearch(_ []*core.SearchResult) {}
func (n *noopMonitor) VerbatimHit(_ *core.Chunk)                {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)            {}

// LogMonitor logs each retrieval stage at debug level.
type LogMonitor struct {
	logger *slog.Logger
}

var _ SearchMonitor = (*LogMonitor)(nil)

// NewLogMonitor creates a monitor writing to the given logger.
// A nil logger falls back to slog.Default().
func NewLogMonitor(logger *slog.Logger) *LogMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMonitor{logger: logger}
}

func (m *LogMonitor) Start(query string) {
	m.logger.Debug("search started", "query", query)
}

func (m *LogMonitor) AfterEmbedding(vector []float32) {
	m.logger.Debug("query embedded", "dimensions", len(vector))
}

func (m *LogMonitor) AfterVectorSearch(results []*core.SearchResult) {
	m.logger.Debug("vector search complete", "matches", len(results))
}

func (m *LogMonitor) VerbatimHit(chunk *core.Chunk) {
	m.logger.Debug("verbatim match", "source", chunk.Source, "seq", chunk.Seq)
}

func (m *LogMonitor) Finish(results []*core.SearchResult) {
	m.logger.Debug("search finished", "results", len(results))
}
