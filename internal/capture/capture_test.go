package capture

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCapture writes a capture file into dir and returns its path.
func writeCapture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadFile_SnapshotEnvelope(t *testing.T) {
	path := writeCapture(t, t.TempDir(), "capture.json", `{
		"domain": "shop.example.com",
		"captured_at": "2026-08-20T10:00:00Z",
		"products": [
			{
				"title": "Air Max 90",
				"brand": "Nike",
				"price": "€129,99",
				"link_url": "https://shop.example.com/air-max-90",
				"element": {"tag_name": "article", "class_list": ["card"], "sibling_index": 3}
			}
		]
	}`)

	products, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "Air Max 90", p.Title)
	assert.Equal(t, "Nike", p.Brand)
	assert.Equal(t, "shop.example.com", p.Domain)
	assert.Equal(t, "article", p.Element.TagName)
	assert.Equal(t, []string{"card"}, p.Element.ClassList)
	assert.Equal(t, 3, p.Element.SiblingIndex)
	assert.Equal(t, time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC), p.CapturedAt)
}

func TestReadFile_BareArray(t *testing.T) {
	path := writeCapture(t, t.TempDir(), "capture.json",
		`[{"title": "Air Max 90"}, {"title": "Ultraboost"}]`)

	products, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Air Max 90", products[0].Title)
	assert.Empty(t, products[0].Domain)
	assert.False(t, products[0].CapturedAt.IsZero())
}

func TestReadFile_DropsUnusableProducts(t *testing.T) {
	path := writeCapture(t, t.TempDir(), "capture.json", `{
		"products": [
			{"title": "Air Max 90"},
			{"title": "  ", "price": "€10"},
			{"text": "some raw product text"}
		]
	}`)

	products, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Air Max 90", products[0].Title)
	assert.Equal(t, "some raw product text", products[1].Text)
}

func TestReadFile_InvalidJSON(t *testing.T) {
	path := writeCapture(t, t.TempDir(), "broken.json", `{"products": [`)

	_, err := ReadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestReadDir_NameOrder(t *testing.T) {
	dir := t.TempDir()
	writeCapture(t, dir, "02-second.json", `[{"title": "Second"}]`)
	writeCapture(t, dir, "01-first.json", `[{"title": "First"}]`)
	writeCapture(t, dir, "notes.txt", `ignored`)

	products, err := ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "First", products[0].Title)
	assert.Equal(t, "Second", products[1].Title)
}

func TestReadDir_FailsOnBadFile(t *testing.T) {
	dir := t.TempDir()
	writeCapture(t, dir, "good.json", `[{"title": "Fine"}]`)
	writeCapture(t, dir, "bad.json", `not json at all`)

	_, err := ReadDir(dir)
	assert.Error(t, err)
}

func TestReadDir_Empty(t *testing.T) {
	products, err := ReadDir(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, products)
}
