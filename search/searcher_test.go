package search

import (
	"context"
	"log/slog"
	"testing"

	"github.com/gabrielramosasof/jurisrag/ai/mock"
	"github.com/gabrielramosasof/jurisrag/core"
	"github.com/gabrielramosasof/jurisrag/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSearcher(t *testing.T) {
	chunkRepo, docRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		docRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	provider := mock.NewMockProvider()

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(chunkRepo, provider)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with custom logger", func(t *testing.T) {
		logger := slog.Default()
		searcher, err := NewSearcher(chunkRepo, provider, WithLogger(logger))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(chunkRepo, provider, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil chunk repository", func(t *testing.T) {
		_, err := NewSearcher(nil, provider)
		assert.Equal(t, ErrChunkRepositoryRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewSearcher(chunkRepo, nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})
}

func TestFindSimilar_EmptyDatabase(t *testing.T) {
	chunkRepo, docRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		docRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	provider := mock.NewMockProvider()
	searcher, err := NewSearcher(chunkRepo, provider)
	require.NoError(t, err)

	ctx := context.Background()
	results, err := searcher.FindSimilar(ctx, "qual o prazo de prescrição", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilar_EmptyQuery(t *testing.T) {
	chunkRepo, docRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		docRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	provider := mock.NewMockProvider()
	searcher, err := NewSearcher(chunkRepo, provider)
	require.NoError(t, err)

	_, err = searcher.FindSimilar(context.Background(), "   ", 10)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestFindSimilar_RanksAndLimits(t *testing.T) {
	chunkRepo, docRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		docRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	// Deterministic query vector via mock embedder
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1.0, 0.0, 0.0}, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockAnswerer())

	chunks := []*core.Chunk{
		{DocumentId: 1, Source: "Direito Civil/contratos.docx", Category: "Direito Civil",
			Seq: 0, Contents: "rescisão do contrato de locação", Vector: core.NormalizeVector([]float32{0.9, 0.1, 0.0})},
		{DocumentId: 1, Source: "Direito Civil/contratos.docx", Category: "Direito Civil",
			Seq: 1, Contents: "cláusula penal compensatória", Vector: core.NormalizeVector([]float32{0.7, 0.3, 0.0})},
		{DocumentId: 2, Source: "Direito Penal/dosimetria.docx", Category: "Direito Penal",
			Seq: 0, Contents: "fixação da pena-base", Vector: core.NormalizeVector([]float32{0.0, 1.0, 0.0})},
	}
	_, err = chunkRepo.AddChunks(ctx, chunks...)
	require.NoError(t, err)

	searcher, err := NewSearcher(chunkRepo, provider)
	require.NoError(t, err)

	results, err := searcher.FindSimilar(ctx, "rescisão locação contrato", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "rescisão do contrato de locação", results[0].Chunk.Contents)
	for i := 0; i < len(results)-1; i++ {
		assert.GreaterOrEqual(t, results[i].Score, results[i+1].Score)
	}
}

func TestFindSimilar_VerbatimBoost(t *testing.T) {
	chunkRepo, docRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		docRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1.0, 0.0, 0.0}, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockAnswerer())

	// The semantically closer chunk does not contain the query words;
	// the verbatim boost should promote the literal match above it
	chunks := []*core.Chunk{
		{DocumentId: 1, Source: "a.docx", Seq: 0,
			Contents: "disposições gerais aplicáveis", Vector: core.NormalizeVector([]float32{1.0, 0.05, 0.0})},
		{DocumentId: 1, Source: "a.docx", Seq: 1,
			Contents: "prazo prescricional de cinco anos", Vector: core.NormalizeVector([]float32{0.9, 0.4, 0.0})},
	}
	_, err = chunkRepo.AddChunks(ctx, chunks...)
	require.NoError(t, err)

	searcher, err := NewSearcher(chunkRepo, provider)
	require.NoError(t, err)

	results, err := searcher.FindSimilar(ctx, "prazo prescricional", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "prazo prescricional de cinco anos", results[0].Chunk.Contents)
}

func TestFindSimilarWithMonitor(t *testing.T) {
	chunkRepo, docRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		docRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1.0, 0.0, 0.0}, nil
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockAnswerer())

	chunks := []*core.Chunk{
		{DocumentId: 1, Source: "a.docx", Seq: 0,
			Contents: "prazo prescricional de cinco anos", Vector: core.NormalizeVector([]float32{0.9, 0.1, 0.0})},
		{DocumentId: 1, Source: "a.docx", Seq: 1,
			Contents: "disposições gerais aplicáveis", Vector: core.NormalizeVector([]float32{0.8, 0.3, 0.0})},
	}
	_, err = chunkRepo.AddChunks(ctx, chunks...)
	require.NoError(t, err)

	searcher, err := NewSearcher(chunkRepo, provider)
	require.NoError(t, err)

	monitor := &testMonitor{}
	results, err := searcher.FindSimilarWithMonitor(ctx, "prazo prescricional", 10, monitor)
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	// Every stage reported
	assert.Equal(t, "prazo prescricional", monitor.startedWith)
	assert.Greater(t, monitor.embeddingDims, 0)
	assert.Equal(t, 2, monitor.vectorMatches)
	assert.Equal(t, []string{"prazo prescricional de cinco anos"}, monitor.verbatimHits)
	assert.Equal(t, len(results), monitor.finishedWith)
}

// testMonitor is a simple test implementation of SearchMonitor
type testMonitor struct {
	startedWith   string
	embeddingDims int
	vectorMatches int
	verbatimHits  []string
	finishedWith  int
}

func (m *testMonitor) Start(query string) {
	m.startedWith = query
}

func (m *testMonitor) AfterEmbedding(vector []float32) {
	m.embeddingDims = len(vector)
}

func (m *testMonitor) AfterVectorSearch(results []*core.SearchResult) {
	m.vectorMatches = len(results)
}

func (m *testMonitor) VerbatimHit(chunk *core.Chunk) {
	m.verbatimHits = append(m.verbatimHits, chunk.Contents)
}

func (m *testMonitor) Finish(results []*core.SearchResult) {
	m.finishedWith = len(results)
}
