package chunker

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/docqa/internal/domain"
)

func paragraphText(words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%04d", i)
	}
	return strings.Join(parts, " ")
}

func TestNew_Validation(t *testing.T) {
	_, err := New(0, 0)
	require.Error(t, err)
	_, err = New(100, -1)
	require.Error(t, err)
	_, err = New(100, 100)
	require.Error(t, err)
	_, err = New(800, 100)
	require.NoError(t, err)
}

func TestSplit_ShortDocumentIsOneChunk(t *testing.T) {
	c, err := New(800, 100)
	require.NoError(t, err)

	text := "Employees may work remotely two days every week."
	chunks, err := c.Split([]domain.Document{{SourceID: "intro.txt", Content: text}})
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Text)
	assert.Equal(t, "intro.txt", chunks[0].SourceID)
	assert.Equal(t, domain.NoPage, chunks[0].PageLabel())
}

func TestSplit_RespectsCeilingAndOverlaps(t *testing.T) {
	c, err := New(800, 100)
	require.NoError(t, err)

	text := paragraphText(600)
	chunks, err := c.Split([]domain.Document{{SourceID: "long.txt", Content: text}})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, ch := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(ch.Text), 800, "chunk %d too long", i)
		assert.NotEmpty(t, strings.TrimSpace(ch.Text))
	}

	// consecutive chunks share words at the boundary
	for i := 1; i < len(chunks); i++ {
		prevWords := strings.Fields(chunks[i-1].Text)
		last := prevWords[len(prevWords)-1]
		assert.Contains(t, chunks[i].Text, last, "chunk %d does not overlap its predecessor", i)
	}
}

// sharedBoundary returns the length of the longest suffix of prev that is
// also a prefix of next.
func sharedBoundary(prev, next string) int {
	for n := min(len(prev), len(next)); n > 0; n-- {
		if strings.HasSuffix(prev, next[:n]) {
			return n
		}
	}
	return 0
}

func TestSplit_WordTextOverlapsByAboutOverlapSize(t *testing.T) {
	c, err := New(800, 100)
	require.NoError(t, err)

	chunks, err := c.Split([]domain.Document{{SourceID: "long.txt", Content: paragraphText(600)}})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 2)

	// Overlap snaps to word boundaries, so it falls short of 100 by at most one word.
	for i := 1; i < len(chunks); i++ {
		shared := sharedBoundary(chunks[i-1].Text, chunks[i].Text)
		assert.GreaterOrEqual(t, shared, 100-len("w0000 "), "chunk %d overlap", i)
		assert.LessOrEqual(t, shared, 100, "chunk %d overlap", i)
		assert.LessOrEqual(t, utf8.RuneCountInString(chunks[i].Text), 800)
	}
}

func TestSplit_ParagraphBoundaryChunksMayShareNothing(t *testing.T) {
	c, err := New(800, 100)
	require.NoError(t, err)

	// Six paragraphs of 281 characters: two fit a chunk, and a whole
	// paragraph is too long to carry over as overlap.
	paras := make([]string, 6)
	for p := range paras {
		words := make([]string, 47)
		for w := range words {
			words[w] = fmt.Sprintf("p%dw%02d", p, w)
		}
		paras[p] = strings.Join(words, " ")
	}
	chunks, err := c.Split([]domain.Document{{SourceID: "policy.txt", Content: strings.Join(paras, "\n\n")}})
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for i, ch := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(ch.Text), 800, "chunk %d too long", i)
		assert.Equal(t, paras[2*i]+"\n\n"+paras[2*i+1], ch.Text)
	}
	for i := 1; i < len(chunks); i++ {
		assert.Zero(t, sharedBoundary(chunks[i-1].Text, chunks[i].Text), "chunk %d overlap", i)
	}
}

func TestSplit_HardCutsUnbreakableText(t *testing.T) {
	c, err := New(50, 10)
	require.NoError(t, err)

	text := strings.Repeat("é", 170)
	chunks, err := c.Split([]domain.Document{{SourceID: "blob.txt", Content: text}})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, ch := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(ch.Text), 50)
		assert.True(t, utf8.ValidString(ch.Text))
	}
}

func TestSplit_DocumentsAreIndependent(t *testing.T) {
	c, err := New(800, 100)
	require.NoError(t, err)

	docs := []domain.Document{
		{SourceID: "manual.pdf", Content: "Page zero text about onboarding.", Page: domain.PageRef(0)},
		{SourceID: "manual.pdf", Content: "Page one text about offboarding.", Page: domain.PageRef(1)},
		{SourceID: "faq.md", Content: "Short answer."},
	}
	chunks, err := c.Split(docs)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "0", chunks[0].PageLabel())
	assert.Equal(t, "1", chunks[1].PageLabel())
	assert.Equal(t, "faq.md", chunks[2].SourceID)
	assert.NotContains(t, chunks[0].Text, "offboarding")
}

func TestSplit_SkipsBlankDocuments(t *testing.T) {
	c, err := New(800, 100)
	require.NoError(t, err)

	chunks, err := c.Split([]domain.Document{{SourceID: "empty.pdf", Content: "  \n\n ", Page: domain.PageRef(3)}})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplit_Deterministic(t *testing.T) {
	c, err := New(200, 40)
	require.NoError(t, err)

	docs := []domain.Document{{SourceID: "a.txt", Content: paragraphText(300)}}
	first, err := c.Split(docs)
	require.NoError(t, err)
	second, err := c.Split(docs)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
