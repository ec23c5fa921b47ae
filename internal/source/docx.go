// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/pdiddy/persona-engine/pkg/types"
)

// DOCXSource reads Word documents. DOCX has no fixed pagination, so the
// whole body is returned as page 1 with one paragraph per block.
type DOCXSource struct{}

func (s *DOCXSource) Pages(ctx context.Context, path string) ([]types.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Cause: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &ReadError{Path: path, Cause: err}
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, &ReadError{Path: path, Cause: fmt.Errorf("parse docx: %w", err)}
	}

	var blocks []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if text := paragraphText(para); text != "" {
			blocks = append(blocks, text)
		}
	}
	if len(blocks) == 0 {
		return nil, nil
	}
	return []types.Page{{Number: 1, Text: strings.Join(blocks, "\n\n")}}, nil
}

func paragraphText(para *docx.Paragraph) string {
	var b strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				b.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(b.String())
}
