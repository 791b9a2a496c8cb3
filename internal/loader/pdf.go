package loader

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// parsePDF emits one document per page. Pages are numbered from zero.
func parsePDF(ctx context.Context, name string, data []byte) (docs []domain.Document, err error) {
	// The pdf reader panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			docs = nil
			err = fmt.Errorf("read pdf: %v: %w", r, domain.ErrInvalidDocument)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %v: %w", err, domain.ErrInvalidDocument)
	}

	total := r.NumPage()
	docs = make([]domain.Document, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i-1, err)
		}
		docs = append(docs, domain.Document{
			SourceID: name,
			Content:  text,
			Page:     domain.PageRef(i - 1),
		})
	}
	return docs, nil
}
