package document

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/gabrielramosasof/jurisrag/core"
)

// Manifest is the corpus listing written by the docs command, grouping
// ingested documents by category. The JSON layout matches the
// processed_documents.json file consumed by downstream tooling.
type Manifest struct {
	TotalDocuments  int                 `json:"total_documents"`
	TotalCategories int                 `json:"total_categories"`
	GeneratedAt     time.Time           `json:"generated_at"`
	Categories      map[string][]string `json:"categories"`
}

// BuildManifest groups documents by category, with paths sorted inside
// each category.
func BuildManifest(docs []*core.Document) *Manifest {
	categories := make(map[string][]string)
	for _, doc := range docs {
		categories[doc.Category] = append(categories[doc.Category], doc.Path)
	}
	for _, paths := range categories {
		sort.Strings(paths)
	}

	return &Manifest{
		TotalDocuments:  len(docs),
		TotalCategories: len(categories),
		GeneratedAt:     time.Now().UTC(),
		Categories:      categories,
	}
}

// CategoryNames returns the category names in sorted order.
func (m *Manifest) CategoryNames() []string {
	names := make([]string, 0, len(m.Categories))
	for name := range m.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteJSON writes the manifest to path as indented JSON.
func (m *Manifest) WriteJSON(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
