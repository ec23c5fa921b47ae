// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pdiddy/persona-engine/pkg/types"
)

// MarkdownSource reads Markdown. Lines like <!-- page 3 --> start a new
// page; everything before the first marker is page 1. Markup is stripped
// and every block, headings included, becomes its own paragraph.
type MarkdownSource struct{}

func (s *MarkdownSource) Pages(ctx context.Context, path string) ([]types.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Cause: err}
	}

	md := goldmark.New()
	var pages []types.Page
	for _, chunk := range splitPageMarkers(string(data)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		body := renderPlain(md, []byte(chunk.Text))
		if strings.TrimSpace(body) == "" {
			continue
		}
		pages = append(pages, types.Page{Number: chunk.Number, Text: body})
	}
	return pages, nil
}

// splitPageMarkers cuts Markdown at page marker lines.
func splitPageMarkers(content string) []types.Page {
	var (
		pages   []types.Page
		current = 1
		lines   []string
	)
	flush := func() {
		if len(lines) > 0 {
			pages = append(pages, types.Page{Number: current, Text: strings.Join(lines, "\n")})
		}
		lines = nil
	}
	for _, line := range strings.Split(content, "\n") {
		if page, ok := parsePageMarker(strings.TrimSpace(line)); ok {
			flush()
			current = page
			continue
		}
		lines = append(lines, line)
	}
	flush()
	return pages
}

// parsePageMarker extracts the page number from an HTML comment like <!-- page 3 -->.
func parsePageMarker(line string) (int, bool) {
	if !strings.HasPrefix(line, "<!-- page ") || !strings.HasSuffix(line, " -->") {
		return 0, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(line, "<!-- page "), " -->")
	var page int
	if _, err := fmt.Sscanf(inner, "%d", &page); err != nil || page < 1 {
		return 0, false
	}
	return page, true
}

// renderPlain parses Markdown and returns its text with top-level blocks
// separated by blank lines.
func renderPlain(md goldmark.Markdown, src []byte) string {
	doc := md.Parser().Parse(text.NewReader(src))
	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		var b strings.Builder
		writeNodeText(&b, n, src)
		if t := strings.TrimSpace(b.String()); t != "" {
			blocks = append(blocks, t)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func writeNodeText(b *strings.Builder, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Text:
		b.Write(node.Segment.Value(src))
		if node.SoftLineBreak() || node.HardLineBreak() {
			b.WriteByte('\n')
		}
		return
	case *ast.String:
		b.Write(node.Value)
		return
	case *ast.AutoLink:
		b.Write(node.Label(src))
		return
	case *ast.CodeBlock, *ast.FencedCodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(src))
		}
		return
	case *ast.HTMLBlock, *ast.RawHTML:
		return
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		writeNodeText(b, c, src)
		if c.Type() == ast.TypeBlock && c.NextSibling() != nil {
			b.WriteByte('\n')
		}
	}
}
