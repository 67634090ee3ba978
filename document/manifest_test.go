package document

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gabrielramosasof/jurisrag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildManifest(t *testing.T) {
	docs := []*core.Document{
		{Path: "Direito Civil/obrigacoes.docx", Category: "Direito Civil"},
		{Path: "Direito Civil/contratos.docx", Category: "Direito Civil"},
		{Path: "constituicao.docx", Category: RootCategory},
	}

	m := BuildManifest(docs)

	assert.Equal(t, 3, m.TotalDocuments)
	assert.Equal(t, 2, m.TotalCategories)
	assert.Equal(t, []string{"Direito Civil", RootCategory}, m.CategoryNames())
	// Sorted inside each category
	assert.Equal(t, []string{
		"Direito Civil/contratos.docx",
		"Direito Civil/obrigacoes.docx",
	}, m.Categories["Direito Civil"])
}

func TestBuildManifest_Empty(t *testing.T) {
	m := BuildManifest(nil)
	assert.Zero(t, m.TotalDocuments)
	assert.Zero(t, m.TotalCategories)
	assert.Empty(t, m.CategoryNames())
}

func TestManifest_WriteJSON(t *testing.T) {
	m := BuildManifest([]*core.Document{
		{Path: "constituicao.docx", Category: RootCategory},
	})

	path := filepath.Join(t.TempDir(), "processed_documents.json")
	require.NoError(t, m.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Manifest
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 1, got.TotalDocuments)
	assert.Equal(t, []string{"constituicao.docx"}, got.Categories[RootCategory])
}
