// Package document loads the legal corpus from disk.
//
// It scans a directory tree for .docx files, extracts their plain text,
// and produces core.Document records ready for chunking and embedding.
// Parsing happens concurrently on a worker pool since corpora routinely
// hold hundreds of documents.
package document
