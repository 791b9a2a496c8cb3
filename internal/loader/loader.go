// Package loader turns raw corpus files into documents.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Parser converts the bytes of one file into documents. name is the source id
// to attach.
type Parser interface {
	Parse(ctx context.Context, name string, data []byte) ([]domain.Document, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(ctx context.Context, name string, data []byte) ([]domain.Document, error)

// Parse calls f.
func (f ParserFunc) Parse(ctx context.Context, name string, data []byte) ([]domain.Document, error) {
	return f(ctx, name, data)
}

// Registry maps lower-cased file extensions to parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry returns a registry with the pdf, md and txt parsers.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	r.Register(".pdf", ParserFunc(parsePDF))
	r.Register(".md", ParserFunc(parseMarkdown))
	r.Register(".txt", ParserFunc(parseText))
	return r
}

// Register binds ext (with leading dot) to p, replacing any previous parser.
func (r *Registry) Register(ext string, p Parser) {
	r.parsers[strings.ToLower(ext)] = p
}

// Supported reports whether name has a registered extension.
func (r *Registry) Supported(name string) bool {
	_, ok := r.parsers[Ext(name)]
	return ok
}

// Extensions lists registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Ext returns the lower-cased extension of name, including the dot.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// Load parses a single file. The source id is the file's base name.
func (r *Registry) Load(ctx context.Context, path string) ([]domain.Document, error) {
	name := filepath.Base(path)
	p, ok := r.parsers[Ext(name)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrUnsupportedFileType)
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	docs, err := p.Parse(ctx, name, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return docs, nil
}

// Result is the outcome of loading a directory.
type Result struct {
	Documents []domain.Document
	Files     []string
	Skipped   []string
}

// LoadDirectory loads every supported file directly under dir in name order.
// Subdirectories are ignored and unsupported files are reported as skipped.
// A missing directory yields an empty result. Any parse failure aborts.
func (r *Registry) LoadDirectory(ctx context.Context, dir string) (Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var res Result
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !r.Supported(e.Name()) {
			res.Skipped = append(res.Skipped, e.Name())
			continue
		}
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("load directory: %w", err)
		}
		docs, err := r.Load(ctx, filepath.Join(dir, e.Name()))
		if err != nil {
			return Result{}, err
		}
		res.Files = append(res.Files, e.Name())
		res.Documents = append(res.Documents, docs...)
	}
	return res, nil
}
