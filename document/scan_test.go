package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "Direito Civil/contratos.docx")
	writeFile(t, dir, "Direito Civil/obrigacoes.docx")
	writeFile(t, dir, "Direito Penal/crimes.DOCX")
	writeFile(t, dir, "constituicao.docx")
	writeFile(t, dir, "notas.txt")
	writeFile(t, dir, "Direito Civil/~$contratos.docx")
	writeFile(t, dir, ".oculto/escondido.docx")

	files, err := Scan(dir)
	require.NoError(t, err)

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{
		"Direito Civil/contratos.docx",
		"Direito Civil/obrigacoes.docx",
		"Direito Penal/crimes.DOCX",
		"constituicao.docx",
	}, paths)

	byPath := make(map[string]File)
	for _, f := range files {
		byPath[f.Path] = f
	}
	assert.Equal(t, "Direito Civil", byPath["Direito Civil/contratos.docx"].Category)
	assert.Equal(t, RootCategory, byPath["constituicao.docx"].Category)
}

func TestScan_MissingDirectory(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestScan_EmptyDirectory(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"Direito Civil/contratos.docx", "Direito Civil"},
		{"Direito Civil/2024/contratos.docx", "Direito Civil"},
		{"contratos.docx", RootCategory},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, categoryOf(tt.rel))
		})
	}
}
