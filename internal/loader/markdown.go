package loader

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"

	"github.com/kailas-cloud/docqa/internal/domain"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// parseMarkdown flattens markup into plain text. Block boundaries become blank
// lines so the chunker can still split on paragraphs.
func parseMarkdown(_ context.Context, name string, data []byte) ([]domain.Document, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("not valid utf-8: %w", domain.ErrInvalidDocument)
	}
	p := parser.NewWithExtensions(parser.CommonExtensions)
	root := markdown.Parse(data, p)

	var b strings.Builder
	ast.WalkFunc(root, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Text, *ast.Code, *ast.HTMLSpan:
			if entering {
				b.Write(node.AsLeaf().Literal)
			}
		case *ast.CodeBlock:
			if entering {
				b.Write(n.Literal)
				b.WriteString("\n\n")
			}
		case *ast.Softbreak, *ast.Hardbreak:
			if entering {
				b.WriteString("\n")
			}
		case *ast.TableCell:
			if !entering {
				b.WriteString(" ")
			}
		case *ast.Paragraph, *ast.Heading, *ast.ListItem, *ast.BlockQuote, *ast.TableRow:
			if !entering {
				b.WriteString("\n\n")
			}
		}
		return ast.GoToNext
	})

	text := strings.TrimSpace(blankRuns.ReplaceAllString(b.String(), "\n\n"))
	return []domain.Document{{SourceID: name, Content: text}}, nil
}
