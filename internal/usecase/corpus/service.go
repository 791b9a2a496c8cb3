// Package corpus manages the raw document directory.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Service lists and stores raw documents.
type Service struct {
	dir     string
	formats Formats
	logger  *zap.Logger
}

// New creates a corpus service rooted at dir.
func New(dir string, formats Formats, logger *zap.Logger) *Service {
	return &Service{dir: dir, formats: formats, logger: logger}
}

// List returns the file names in the raw directory, sorted. A missing
// directory is an empty corpus.
func (s *Service) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("corpus: list %s: %w", s.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Save stores r under the base name of filename, replacing any file with the
// same name. The extension must be supported and the content must look like it.
func (s *Service) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" || name == "." {
		return "", fmt.Errorf("corpus: empty file name: %w", domain.ErrInvalidDocument)
	}
	ext := filepath.Ext(name)
	if !s.formats.Supported(name) {
		return "", fmt.Errorf("corpus: %q: %w", ext, domain.ErrUnsupportedFileType)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("corpus: read %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if detected := mimetype.Detect(data); !contentMatches(strings.ToLower(ext), detected) {
		return "", fmt.Errorf("corpus: %s looks like %s: %w", name, detected.String(), domain.ErrInvalidDocument)
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("corpus: ensure %s: %w", s.dir, err)
	}
	if err := writeAtomic(s.dir, name, data); err != nil {
		return "", fmt.Errorf("corpus: store %s: %w", name, err)
	}

	s.logger.Info("Document stored", zap.String("file", name), zap.Int("bytes", len(data)))
	return name, nil
}

func contentMatches(ext string, m *mimetype.MIME) bool {
	if ext == ".pdf" {
		return m.Is("application/pdf")
	}
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func writeAtomic(dir, name string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, name))
}
