package writer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/pagecraft/internal/pipeline"
	"github.com/raveheart1/pagecraft/internal/record"
	"github.com/raveheart1/pagecraft/internal/testutil"
)

func completeDocuments() pipeline.Documents {
	return pipeline.Documents{
		FAQ:         testutil.FAQPage(),
		ProductPage: testutil.ProductPage(),
		Comparison:  testutil.ComparisonPage(),
	}
}

func TestWriteDocuments(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "output")
	w := New(dir)

	paths, err := w.WriteDocuments(completeDocuments())
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, FAQFileName),
		filepath.Join(dir, ProductFileName),
		filepath.Join(dir, ComparisonFileName),
	}
	assert.Equal(t, want, paths)

	for _, path := range paths {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestWriteDocumentsContent(t *testing.T) {
	t.Parallel()

	w := New(t.TempDir())
	_, err := w.WriteDocuments(completeDocuments())
	require.NoError(t, err)

	var faq record.FAQPage
	buf, err := os.ReadFile(filepath.Join(w.Dir(), FAQFileName))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(buf, &faq))
	assert.Equal(t, testutil.ProductName, faq.ProductName)
	assert.Len(t, faq.FAQs, record.MinQuestions)

	// Indented and newline-terminated for clean diffs.
	assert.True(t, strings.HasPrefix(string(buf), "{\n  "))
	assert.True(t, strings.HasSuffix(string(buf), "}\n"))

	var comparison record.ComparisonPage
	buf, err = os.ReadFile(filepath.Join(w.Dir(), ComparisonFileName))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(buf, &comparison))
	assert.Equal(t, testutil.CompetitorName, comparison.ProductBName)
	assert.Len(t, comparison.ComparisonTable, 4)
}

func TestWriteDocumentsIncompleteSet(t *testing.T) {
	t.Parallel()

	tests := map[string]func(*pipeline.Documents){
		"missing faq":        func(d *pipeline.Documents) { d.FAQ = nil },
		"missing product":    func(d *pipeline.Documents) { d.ProductPage = nil },
		"missing comparison": func(d *pipeline.Documents) { d.Comparison = nil },
		"missing all":        func(d *pipeline.Documents) { *d = pipeline.Documents{} },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := filepath.Join(t.TempDir(), "out")
			docs := completeDocuments()
			mutate(&docs)

			_, err := New(dir).WriteDocuments(docs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "incomplete document set")

			// Nothing is written, not even the directory.
			_, statErr := os.Stat(dir)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestWriteDocumentsCreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "deep", "nested", "output")
	_, err := New(dir).WriteDocuments(completeDocuments())
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestWriteDocumentsOverwritesPreviousRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stale := filepath.Join(dir, FAQFileName)
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o644))

	_, err := New(dir).WriteDocuments(completeDocuments())
	require.NoError(t, err)

	buf, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(buf))

	var faq record.FAQPage
	require.NoError(t, json.Unmarshal(buf, &faq))
	assert.Equal(t, testutil.ProductName, faq.ProductName)
}
