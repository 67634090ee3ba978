package badger

import (
	"context"
	"testing"
	"time"

	"github.com/gabrielramosasof/jurisrag/core"
)

func TestDocumentBasics(t *testing.T) {
	chunkRepo, docRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	doc := &core.Document{
		Id:       core.IDFromContent("Direito Civil/contratos.docx"),
		Path:     "Direito Civil/contratos.docx",
		Category: "Direito Civil",
		Checksum: core.IDFromContent("conteúdo do documento"),
		Chunks:   12,
	}

	if err := docRepo.PutDocuments(ctx, doc); err != nil {
		t.Fatalf("Failed to put document: %v", err)
	}

	if doc.IngestedAt.IsZero() {
		t.Fatal("Expected IngestedAt to be set")
	}

	retrieved, err := docRepo.GetDocument(ctx, doc.Id)
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}

	if retrieved.Path != doc.Path {
		t.Fatalf("Expected '%s', got '%s'", doc.Path, retrieved.Path)
	}
	if retrieved.Chunks != 12 {
		t.Fatalf("Expected 12 chunks, got %d", retrieved.Chunks)
	}
}

func TestPutDocuments_PreservesIngestedAt(t *testing.T) {
	chunkRepo, docRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	doc := &core.Document{
		Id:       1,
		Path:     "Direito Penal/dosimetria.docx",
		Category: "Direito Penal",
		Checksum: 100,
		Chunks:   3,
	}
	if err := docRepo.PutDocuments(ctx, doc); err != nil {
		t.Fatalf("Failed to put document: %v", err)
	}

	firstIngested := doc.IngestedAt
	time.Sleep(2 * time.Millisecond)

	// Re-ingest with a new checksum
	updated := &core.Document{
		Id:       1,
		Path:     "Direito Penal/dosimetria.docx",
		Category: "Direito Penal",
		Checksum: 200,
		Chunks:   5,
	}
	if err := docRepo.PutDocuments(ctx, updated); err != nil {
		t.Fatalf("Failed to update document: %v", err)
	}

	retrieved, err := docRepo.GetDocument(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to get document: %v", err)
	}

	if !retrieved.IngestedAt.Equal(firstIngested) {
		t.Fatalf("Expected original IngestedAt %v to persist, got %v", firstIngested, retrieved.IngestedAt)
	}
	if !retrieved.UpdatedAt.After(firstIngested) {
		t.Fatal("Expected UpdatedAt to advance")
	}
	if retrieved.Checksum != 200 {
		t.Fatalf("Expected checksum 200, got %d", retrieved.Checksum)
	}
}

func TestDeleteDocument(t *testing.T) {
	chunkRepo, docRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	doc := &core.Document{Id: 7, Path: "a.docx", Category: "Root"}
	if err := docRepo.PutDocuments(ctx, doc); err != nil {
		t.Fatalf("Failed to put document: %v", err)
	}

	if err := docRepo.DeleteDocument(ctx, 7); err != nil {
		t.Fatalf("Failed to delete document: %v", err)
	}

	_, err = docRepo.GetDocument(ctx, 7)
	if err == nil {
		t.Fatal("Expected error when getting deleted document")
	}

	// Deleting again is not an error
	if err := docRepo.DeleteDocument(ctx, 7); err != nil {
		t.Fatalf("Expected idempotent delete, got %v", err)
	}
}

func TestListDocuments_OrderedByPath(t *testing.T) {
	chunkRepo, docRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { docRepo.Close(); chunkRepo.Close(); backend.Close() }()

	ctx := context.Background()

	docs := []*core.Document{
		{Id: 3, Path: "Direito Tributário/icms.docx", Category: "Direito Tributário"},
		{Id: 1, Path: "Direito Civil/contratos.docx", Category: "Direito Civil"},
		{Id: 2, Path: "Direito Penal/dosimetria.docx", Category: "Direito Penal"},
	}
	if err := docRepo.PutDocuments(ctx, docs...); err != nil {
		t.Fatalf("Failed to put documents: %v", err)
	}

	listed, err := docRepo.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("Failed to list documents: %v", err)
	}

	if len(listed) != 3 {
		t.Fatalf("Expected 3 documents, got %d", len(listed))
	}

	for i := 0; i < len(listed)-1; i++ {
		if listed[i].Path > listed[i+1].Path {
			t.Fatalf("Expected documents ordered by path, got %s before %s", listed[i].Path, listed[i+1].Path)
		}
	}
}
