// Package writer persists generated documents to the output directory.
package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raveheart1/pagecraft/internal/pipeline"
)

// Output file names, fixed per document type.
const (
	FAQFileName        = "faq.json"
	ProductFileName    = "product_page.json"
	ComparisonFileName = "comparison_page.json"
)

// Writer serializes run documents as indented JSON under a directory.
// Files are written via a temp file and rename so a crash mid-write never
// leaves a truncated document behind.
type Writer struct {
	dir string
}

// New returns a writer rooted at dir. The directory is created on first
// write, not here, so a failed run leaves no empty directory around.
func New(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// WriteDocuments persists all three documents and returns the paths written.
func (w *Writer) WriteDocuments(docs pipeline.Documents) ([]string, error) {
	if docs.FAQ == nil || docs.ProductPage == nil || docs.Comparison == nil {
		return nil, fmt.Errorf("incomplete document set")
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	written := make([]string, 0, 3)
	for _, doc := range []struct {
		name string
		v    any
	}{
		{FAQFileName, docs.FAQ},
		{ProductFileName, docs.ProductPage},
		{ComparisonFileName, docs.Comparison},
	} {
		path := filepath.Join(w.dir, doc.name)
		if err := w.writeJSON(path, doc.v); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func (w *Writer) writeJSON(path string, v any) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	buf = append(buf, '\n')

	tmp, err := os.CreateTemp(w.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
