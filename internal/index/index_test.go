package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/docqa/internal/domain"
)

func entry(source, text string, page *int, v ...float32) Entry {
	return Entry{Chunk: domain.Chunk{Text: text, SourceID: source, Page: page}, Vector: v}
}

func sampleEntries() []Entry {
	return []Entry{
		entry("a.txt", "alpha", nil, 0, 0),
		entry("b.pdf", "bravo", domain.PageRef(0), 1, 0),
		entry("a.txt", "charlie", nil, 0, 2),
		entry("b.pdf", "delta", domain.PageRef(1), 3, 0),
	}
}

func TestBuild_Validation(t *testing.T) {
	_, err := Build(nil)
	require.Error(t, err)

	_, err = Build([]Entry{entry("a", "x", nil, 1, 2), entry("a", "y", nil, 1)})
	require.ErrorIs(t, err, domain.ErrVectorDimMismatch)

	ix, err := Build(sampleEntries())
	require.NoError(t, err)
	assert.Equal(t, 2, ix.Dimension())
	assert.Equal(t, 4, ix.Len())
	assert.NotEmpty(t, ix.Version())
	assert.Equal(t, []string{"a.txt", "b.pdf"}, ix.Sources())
}

func TestBuild_CopiesVectors(t *testing.T) {
	entries := sampleEntries()
	ix, err := Build(entries)
	require.NoError(t, err)

	entries[0].Vector[0] = 99
	res, err := ix.Search([]float32{0, 0}, 1, "")
	require.NoError(t, err)
	assert.Equal(t, "alpha", res[0].Chunk.Text)
	assert.Zero(t, res[0].Distance)
}

func TestSearch_OrderedBySquaredDistance(t *testing.T) {
	ix, err := Build(sampleEntries())
	require.NoError(t, err)

	res, err := ix.Search([]float32{0, 0}, 5, "")
	require.NoError(t, err)
	require.Len(t, res, 4)

	texts := []string{res[0].Chunk.Text, res[1].Chunk.Text, res[2].Chunk.Text, res[3].Chunk.Text}
	assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta"}, texts)
	assert.InDelta(t, 0, res[0].Distance, 1e-9)
	assert.InDelta(t, 1, res[1].Distance, 1e-9)
	assert.InDelta(t, 4, res[2].Distance, 1e-9)
	assert.InDelta(t, 9, res[3].Distance, 1e-9)
}

func TestSearch_TopK(t *testing.T) {
	ix, err := Build(sampleEntries())
	require.NoError(t, err)

	res, err := ix.Search([]float32{0, 0}, 2, "")
	require.NoError(t, err)
	assert.Len(t, res, 2)

	res, err = ix.Search([]float32{0, 0}, 0, "")
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestSearch_SourceFilter(t *testing.T) {
	ix, err := Build(sampleEntries())
	require.NoError(t, err)

	res, err := ix.Search([]float32{0, 0}, 5, "b.pdf")
	require.NoError(t, err)
	require.Len(t, res, 2)
	for _, r := range res {
		assert.Equal(t, "b.pdf", r.Chunk.SourceID)
	}

	res, err = ix.Search([]float32{0, 0}, 5, "missing.md")
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	ix, err := Build([]Entry{
		entry("s", "first", nil, 1, 0),
		entry("s", "second", nil, 0, 1),
		entry("s", "third", nil, -1, 0),
	})
	require.NoError(t, err)

	res, err := ix.Search([]float32{0, 0}, 3, "")
	require.NoError(t, err)
	assert.Equal(t, "first", res[0].Chunk.Text)
	assert.Equal(t, "second", res[1].Chunk.Text)
	assert.Equal(t, "third", res[2].Chunk.Text)
}

func TestSearch_DimensionMismatch(t *testing.T) {
	ix, err := Build(sampleEntries())
	require.NoError(t, err)

	_, err = ix.Search([]float32{0, 0, 0}, 5, "")
	assert.ErrorIs(t, err, domain.ErrVectorDimMismatch)
}
