// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/persona-engine/pkg/types"
)

const (
	htmlBlocks  = "h1, h2, h3, h4, h5, h6, p, li, td, blockquote, pre"
	htmlNesting = "p, li, td, blockquote, pre"
	htmlNoise   = "script, style, nav, footer, noscript"
)

// HTMLSource reads HTML. Each heading and text block becomes its own
// paragraph of a single page.
type HTMLSource struct{}

func (s *HTMLSource) Pages(ctx context.Context, path string) ([]types.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Cause: err}
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, &ReadError{Path: path, Cause: err}
	}
	doc.Find(htmlNoise).Remove()

	var blocks []string
	doc.Find(htmlBlocks).Each(func(_ int, sel *goquery.Selection) {
		// Nested blocks are already part of their ancestor's text.
		if sel.ParentsFiltered(htmlNesting).Length() > 0 {
			return
		}
		if text := strings.Join(strings.Fields(sel.Text()), " "); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) == 0 {
		return nil, nil
	}
	return []types.Page{{Number: 1, Text: strings.Join(blocks, "\n\n")}}, nil
}
