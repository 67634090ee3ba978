package answer

import (
	"context"
	"errors"
	"testing"

	"github.com/gabrielramosasof/jurisrag/ai"
	"github.com/gabrielramosasof/jurisrag/ai/mock"
	"github.com/gabrielramosasof/jurisrag/core"
	"github.com/gabrielramosasof/jurisrag/search"
	"github.com/gabrielramosasof/jurisrag/storage"
	"github.com/gabrielramosasof/jurisrag/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, provider ai.AIProvider, opts ...Option) (*Engine, storage.ChunkRepository, func()) {
	t.Helper()

	chunkRepo, docRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)

	searcher, err := search.NewSearcher(chunkRepo, provider)
	require.NoError(t, err)

	engine, err := NewEngine(searcher, provider, opts...)
	require.NoError(t, err)

	cleanup := func() {
		docRepo.Close()
		chunkRepo.Close()
		backend.Close()
	}
	return engine, chunkRepo, cleanup
}

func seedChunks(t *testing.T, chunkRepo storage.ChunkRepository) {
	t.Helper()

	chunks := []*core.Chunk{
		{DocumentId: 1, Source: "Direito Civil/contratos.docx", Category: "Direito Civil",
			Seq: 0, Contents: "Art. 421. A liberdade contratual será exercida nos limites da função social do contrato.",
			Vector: core.NormalizeVector([]float32{1.0, 0.1, 0.0})},
		{DocumentId: 1, Source: "Direito Civil/contratos.docx", Category: "Direito Civil",
			Seq: 1, Contents: "A resolução por onerosidade excessiva exige evento extraordinário e imprevisível.",
			Vector: core.NormalizeVector([]float32{0.9, 0.2, 0.0})},
		{DocumentId: 2, Source: "Direito Penal/dosimetria.docx", Category: "Direito Penal",
			Seq: 0, Contents: "A pena-base será fixada atendendo-se ao critério do art. 59.",
			Vector: core.NormalizeVector([]float32{0.2, 1.0, 0.0})},
	}
	_, err := chunkRepo.AddChunks(context.Background(), chunks...)
	require.NoError(t, err)
}

func TestNewEngine_RequiresDependencies(t *testing.T) {
	provider := mock.NewMockProvider()

	chunkRepo, docRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	searcher, err := search.NewSearcher(chunkRepo, provider)
	require.NoError(t, err)

	_, err = NewEngine(nil, provider)
	assert.ErrorIs(t, err, ErrSearcherRequired)

	_, err = NewEngine(searcher, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}

func TestAsk_ReturnsAnswerWithSources(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1.0, 0.0, 0.0}, nil
	}
	answerer := mock.NewMockAnswerer()
	provider := mock.NewMockProviderWithServices(embedder, answerer)

	engine, chunkRepo, cleanup := newTestEngine(t, provider)
	defer cleanup()
	seedChunks(t, chunkRepo)

	result, err := engine.Ask(context.Background(), "qual o limite da liberdade contratual?")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Text)
	require.NotEmpty(t, result.Sources)

	// Two chunks from the same document collapse into one source
	paths := make(map[string]int)
	for _, source := range result.Sources {
		paths[source.Path]++
	}
	for path, n := range paths {
		assert.Equal(t, 1, n, "source %s should appear once", path)
	}

	// Sources ordered best first
	for i := 0; i < len(result.Sources)-1; i++ {
		assert.GreaterOrEqual(t, result.Sources[i].Score, result.Sources[i+1].Score)
	}

	// The answerer received the retrieved excerpts
	require.NotEmpty(t, answerer.LastExcerpts())
	assert.Equal(t, "qual o limite da liberdade contratual?", answerer.LastQuestion())
	assert.Equal(t, "Direito Civil/contratos.docx", answerer.LastExcerpts()[0].Source)
}

func TestAsk_NoContext(t *testing.T) {
	provider := mock.NewMockProvider()

	engine, _, cleanup := newTestEngine(t, provider)
	defer cleanup()

	// Empty index: nothing to ground an answer on
	_, err := engine.Ask(context.Background(), "qualquer pergunta")
	assert.ErrorIs(t, err, ErrNoContext)
}

func TestAsk_TopKLimitsExcerpts(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1.0, 0.0, 0.0}, nil
	}
	answerer := mock.NewMockAnswerer()
	provider := mock.NewMockProviderWithServices(embedder, answerer)

	engine, chunkRepo, cleanup := newTestEngine(t, provider, WithTopK(2))
	defer cleanup()
	seedChunks(t, chunkRepo)

	_, err := engine.Ask(context.Background(), "função social do contrato")
	require.NoError(t, err)

	assert.LessOrEqual(t, len(answerer.LastExcerpts()), 2)
}

func TestAsk_AnswererFailure(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1.0, 0.0, 0.0}, nil
	}
	answerer := mock.NewMockAnswerer()
	answerer.AnswerFunc = func(ctx context.Context, question string, excerpts []ai.Excerpt) (string, error) {
		return "", errors.New("model unavailable")
	}
	provider := mock.NewMockProviderWithServices(embedder, answerer)

	engine, chunkRepo, cleanup := newTestEngine(t, provider)
	defer cleanup()
	seedChunks(t, chunkRepo)

	_, err := engine.Ask(context.Background(), "pergunta")
	require.Error(t, err)
}
