package ingestion

import (
	"github.com/gabrielramosasof/jurisrag/core"
	"github.com/gabrielramosasof/jurisrag/document"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the number of characters shared between
	// adjacent chunks. Overlap keeps clauses that straddle a boundary
	// retrievable from either side.
	DefaultChunkOverlap = 200
)

// Chunker splits parsed document text into overlapping chunks sized
// for embedding.
type Chunker struct {
	splitter textsplitter.RecursiveCharacter
}

// clampChunking replaces invalid size and overlap values. The overlap
// must end up strictly smaller than the size, whatever the inputs.
func clampChunking(chunkSize, chunkOverlap int) (int, int) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 5
	}
	return chunkSize, chunkOverlap
}

// NewChunker creates a chunker with the given size and overlap.
// Invalid values are clamped to something usable.
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	chunkSize, chunkOverlap = clampChunking(chunkSize, chunkOverlap)

	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

// Split chunks a parsed document. Each chunk carries the document's
// path and category so search results can cite their source, and a
// sequence number recording its position in the original text.
func (c *Chunker) Split(parsed *document.Parsed) ([]*core.Chunk, error) {
	pieces, err := c.splitter.SplitText(parsed.Text)
	if err != nil {
		return nil, err
	}

	chunks := make([]*core.Chunk, 0, len(pieces))
	seq := 0
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		chunks = append(chunks, &core.Chunk{
			DocumentId: parsed.Document.Id,
			Source:     parsed.Document.Path,
			Category:   parsed.Document.Category,
			Seq:        seq,
			Contents:   piece,
		})
		seq++
	}

	return chunks, nil
}
