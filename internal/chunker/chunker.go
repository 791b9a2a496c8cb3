// Package chunker splits loaded documents into bounded, overlapping chunks.
package chunker

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Separators are tried in order: paragraph, line, word, character.
var Separators = []string{"\n\n", "\n", " ", ""}

// Chunker splits documents with a recursive character splitter.
type Chunker struct {
	size     int
	overlap  int
	splitter textsplitter.RecursiveCharacter
}

// New creates a chunker. size is the ceiling in characters, overlap the
// number of characters shared between consecutive chunks of one document.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, errors.New("chunker: size must be greater than zero")
	}
	if overlap < 0 {
		return nil, errors.New("chunker: overlap cannot be negative")
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunker: overlap %d must be smaller than size %d", overlap, size)
	}
	return &Chunker{
		size:    size,
		overlap: overlap,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
			textsplitter.WithSeparators(Separators),
			textsplitter.WithLenFunc(utf8.RuneCountInString),
		),
	}, nil
}

// Split chunks every document independently. Chunks never span documents and
// inherit the source id and page of the document they came from.
func (c *Chunker) Split(docs []domain.Document) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for i := range docs {
		doc := docs[i]
		if strings.TrimSpace(doc.Content) == "" {
			continue
		}
		segments, err := c.splitter.SplitText(doc.Content)
		if err != nil {
			return nil, fmt.Errorf("split %s: %w", doc.SourceID, err)
		}
		for _, segment := range segments {
			for _, text := range c.bound(strings.TrimSpace(segment)) {
				chunks = append(chunks, domain.Chunk{
					Text:     text,
					SourceID: doc.SourceID,
					Page:     doc.Page,
				})
			}
		}
	}
	return chunks, nil
}

// bound hard-cuts a segment that the splitter left above the ceiling.
func (c *Chunker) bound(text string) []string {
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= c.size {
		return []string{text}
	}
	runes := []rune(text)
	step := c.size - c.overlap
	var out []string
	for start := 0; start < len(runes); start += step {
		end := min(start+c.size, len(runes))
		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			out = append(out, piece)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}
