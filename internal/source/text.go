// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"os"

	"github.com/pdiddy/persona-engine/pkg/types"
)

// TextSource reads plain text. Form feeds separate pages.
type TextSource struct{}

func (s *TextSource) Pages(ctx context.Context, path string) ([]types.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Cause: err}
	}
	return splitFormFeed(string(data)), nil
}
