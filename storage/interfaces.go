package storage

import (
	"context"

	"github.com/gabrielramosasof/jurisrag/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ChunkRepository provides operations for managing embedded chunks.
// It is the persisted similarity index: chunks carry their vectors, and
// FindSimilar ranks them against a query vector.
type ChunkRepository interface {
	Repository

	// AddChunks adds one or more chunks to storage.
	// IDs are always generated from the sequence and timestamps set.
	// Returns the chunks with generated IDs and timestamps populated.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetChunks retrieves multiple chunks by their IDs.
	// Returns only the chunks that exist (no error for missing chunks).
	GetChunks(ctx context.Context, ids ...core.ID) ([]*core.Chunk, error)

	// GetChunksByDocument retrieves IDs of chunks belonging to a document,
	// in sequence order. Returns only chunk IDs, not full chunks.
	GetChunksByDocument(ctx context.Context, documentID core.ID) ([]core.ID, error)

	// DeleteChunksByDocument removes all chunks belonging to a document,
	// including index entries. Returns the number of chunks removed.
	DeleteChunksByDocument(ctx context.Context, documentID core.ID) (int, error)

	// CountChunks returns the total number of stored chunks.
	CountChunks(ctx context.Context) (int, error)

	// FindSimilar finds chunks similar to the given vector.
	// Returns chunks with similarity >= minSimilarity, up to limit results.
	// Results are ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)
}

// DocumentRepository provides operations for the ingestion manifest.
type DocumentRepository interface {
	Repository

	// PutDocuments inserts or replaces manifest entries.
	// An entry that already exists keeps its original IngestedAt;
	// UpdatedAt is always refreshed.
	PutDocuments(ctx context.Context, docs ...*core.Document) error

	// GetDocument retrieves a manifest entry by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// DeleteDocument removes a manifest entry.
	// Deleting an entry that does not exist is not an error.
	DeleteDocument(ctx context.Context, id core.ID) error

	// ListDocuments returns all manifest entries, ordered by path.
	ListDocuments(ctx context.Context) ([]*core.Document, error)
}
