// Package ingestion provides pipeline orchestration for building the
// corpus index.
//
// The Pipeline type manages the ingestion workflow for legal documents,
// including:
//   - Scanning a directory tree for .docx files
//   - Parsing documents concurrently on a worker pool
//   - Splitting text into overlapping chunks
//   - Generating embeddings in batches with retry
//   - Persisting chunks and the document manifest
//
// Ingestion is incremental: documents whose extracted text is unchanged
// since the previous run are skipped, and changed documents have their
// old chunks replaced atomically per document.
package ingestion
