package loader

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/kailas-cloud/docqa/internal/domain"
)

func parseText(_ context.Context, name string, data []byte) ([]domain.Document, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("not valid utf-8: %w", domain.ErrInvalidDocument)
	}
	return []domain.Document{{SourceID: name, Content: string(data)}}, nil
}
