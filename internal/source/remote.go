// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"errors"
	"os"

	"github.com/pdiddy/persona-engine/internal/httputil"
	"github.com/pdiddy/persona-engine/pkg/types"
)

// RemoteSource downloads a document to a temporary file and reads it with
// the Source for its extension. The temporary file is removed afterwards.
type RemoteSource struct {
	Fetcher *httputil.Fetcher
	Ext     string
	Local   Source
}

func (s *RemoteSource) Pages(ctx context.Context, path string) ([]types.Page, error) {
	fetcher := s.Fetcher
	if fetcher == nil {
		fetcher = httputil.NewFetcher()
	}

	tmp, err := fetcher.Download(ctx, path, "", "persona-engine-*"+s.Ext)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ReadError{Path: path, Cause: err}
	}
	defer os.Remove(tmp)

	pages, err := s.Local.Pages(ctx, tmp)
	if err != nil {
		// Report the URL rather than the temporary file.
		var re *ReadError
		if errors.As(err, &re) {
			return nil, &ReadError{Path: path, Page: re.Page, Cause: re.Cause}
		}
		return nil, &ReadError{Path: path, Cause: err}
	}
	return pages, nil
}
