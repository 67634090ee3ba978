package document

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// ExtractText extracts the plain text of a .docx file.
// Paragraphs and tables from the document body are rendered in order,
// separated by newlines. Formatting, images and headers are dropped.
func ExtractText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}

	var b strings.Builder
	for _, it := range doc.Document.Body.Items {
		switch it.(type) {
		case *docx.Paragraph, *docx.Table:
			fmt.Fprintln(&b, it)
		}
	}

	return strings.TrimSpace(b.String()), nil
}
