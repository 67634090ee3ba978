// Package storage defines the persistence interfaces for jurisrag.
//
// Two repositories back the system: ChunkRepository holds embedded text
// chunks and serves vector similarity queries over them, and
// DocumentRepository holds the ingestion manifest used for incremental
// re-ingestion and corpus listings. Records are serialized with the
// mus-go binary format (see core's generated serializers).
//
// The storage/badger subpackage provides the BadgerDB implementation.
package storage
