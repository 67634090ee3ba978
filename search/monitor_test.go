package search

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/gabrielramosasof/jurisrag/core"
	"github.com/stretchr/testify/assert"
)

func TestLogMonitor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	monitor := NewLogMonitor(logger)

	monitor.Start("prazo prescricional")
	monitor.AfterEmbedding([]float32{1.0, 0.0, 0.0})
	monitor.AfterVectorSearch([]*core.SearchResult{{Score: 0.9}})
	monitor.VerbatimHit(&core.Chunk{Source: "a.docx", Seq: 3})
	monitor.Finish([]*core.SearchResult{{Score: 1.2}})

	out := buf.String()
	assert.Contains(t, out, "search started")
	assert.Contains(t, out, "query embedded")
	assert.Contains(t, out, "dimensions=3")
	assert.Contains(t, out, "vector search complete")
	assert.Contains(t, out, "verbatim match")
	assert.Contains(t, out, "source=a.docx")
	assert.Contains(t, out, "search finished")
}

func TestNewLogMonitor_NilLogger(t *testing.T) {
	monitor := NewLogMonitor(nil)
	assert.NotNil(t, monitor)

	// Must not panic with the default logger
	monitor.Start("q")
	monitor.Finish(nil)
}
