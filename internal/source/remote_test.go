// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/persona-engine/internal/httputil"
	"github.com/pdiddy/persona-engine/pkg/types"
)

func TestRemoteSource(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/guides/nice.txt" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, "Old town walks\fBeaches of the Riviera")
	}))
	defer ts.Close()

	opts := Options{
		Logger: discardLogger(),
		Fetcher: &httputil.Fetcher{
			Client:    ts.Client(),
			BaseDelay: time.Millisecond,
			Logger:    discardLogger(),
		},
	}

	t.Run("downloads and reads by extension", func(t *testing.T) {
		url := ts.URL + "/guides/nice.txt"
		src, err := ForFile(url, opts)
		require.NoError(t, err)

		pages, err := src.Pages(context.Background(), url)
		require.NoError(t, err)
		assert.Equal(t, []types.Page{
			{Number: 1, Text: "Old town walks"},
			{Number: 2, Text: "Beaches of the Riviera"},
		}, pages)
	})

	t.Run("missing document", func(t *testing.T) {
		url := ts.URL + "/guides/lyon.txt"
		src, err := ForFile(url, opts)
		require.NoError(t, err)

		_, err = src.Pages(context.Background(), url)
		var re *ReadError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, url, re.Path)

		var se *httputil.StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusNotFound, se.Code)
	})
}
