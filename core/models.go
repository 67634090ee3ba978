package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Document is the manifest entry for an ingested corpus file.
// Its Id is derived from the relative path, so re-ingesting the same tree
// addresses the same record. The Checksum is derived from the extracted
// text and is used to skip unchanged documents.
type Document struct {
	Id         ID
	Path       string // Path relative to the corpus root
	Category   string // First path element, or "Root" for top-level files
	Checksum   ID     // Content hash of the extracted text
	Chunks     int    // Number of chunks stored for this document
	IngestedAt time.Time
	UpdatedAt  time.Time
}

// Chunk represents one embedded window of a document's text.
type Chunk struct {
	Id         ID
	DocumentId ID
	Source     string // Relative path of the originating document
	Category   string
	Seq        int // Position of the chunk within the document, from 0
	Contents   string
	Vector     []float32 // Unit-normalized embedding (populated by the pipeline)
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// SearchResult represents a retrieved chunk with its relevance score.
type SearchResult struct {
	Chunk *Chunk
	Score float32
}

// Source identifies a document that contributed context to an answer.
type Source struct {
	Path     string
	Category string
	Score    float32
}

// Answer is the synthesized response to a question, together with the
// documents the retrieved excerpts came from.
type Answer struct {
	Text    string
	Sources []Source
}
