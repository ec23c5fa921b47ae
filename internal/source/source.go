// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source extracts ordered page text from documents. Each file type
// has its own Source; ForFile picks one by extension. A page that cannot be
// read is logged and skipped, so one damaged page never costs the rest of
// the document. Documents named by an http or https URL are downloaded
// first and then read by the extension of the URL path.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/persona-engine/internal/httputil"
	"github.com/pdiddy/persona-engine/pkg/types"
)

// Source returns the pages of one document in page order.
type Source interface {
	Pages(ctx context.Context, path string) ([]types.Page, error)
}

// Options configures the sources built by ForFile.
type Options struct {
	// PdftotextFallback runs the pdftotext binary when the PDF library
	// cannot open a file.
	PdftotextFallback bool

	// Logger receives page-level warnings. Defaults to slog.Default().
	Logger *slog.Logger

	// Fetcher downloads URL documents. Defaults to httputil.NewFetcher().
	Fetcher *httputil.Fetcher
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// supported maps lower-case extensions to constructors.
var supported = map[string]func(Options) Source{
	".pdf":      func(o Options) Source { return NewPDFSource(o) },
	".docx":     func(o Options) Source { return &DOCXSource{} },
	".md":       func(o Options) Source { return &MarkdownSource{} },
	".markdown": func(o Options) Source { return &MarkdownSource{} },
	".html":     func(o Options) Source { return &HTMLSource{} },
	".htm":      func(o Options) Source { return &HTMLSource{} },
	".txt":      func(o Options) Source { return &TextSource{} },
}

// ForFile returns the Source for a file name or document URL.
func ForFile(path string, opts Options) (Source, error) {
	ext := extension(path)
	newSource, ok := supported[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file extension %q", ext)
	}
	if IsURL(path) {
		return &RemoteSource{Fetcher: opts.Fetcher, Ext: ext, Local: newSource(opts)}, nil
	}
	return newSource(opts), nil
}

// IsSupported reports whether ForFile can handle path.
func IsSupported(path string) bool {
	_, ok := supported[extension(path)]
	return ok
}

// IsURL reports whether path names a document served over HTTP.
func IsURL(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// extension returns the lower-case extension of a file name, or of the path
// component of a URL so that query strings are ignored.
func extension(path string) string {
	if IsURL(path) {
		if u, err := url.Parse(path); err == nil {
			path = u.Path
		}
	}
	return strings.ToLower(filepath.Ext(path))
}

// Discover lists the supported files directly inside dir, sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading documents directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !IsSupported(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// ReadError reports a document or page that could not be read. Page is
// zero when the whole document failed.
type ReadError struct {
	Path  string
	Page  int
	Cause error
}

func (e *ReadError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("reading %s page %d: %v", e.Path, e.Page, e.Cause)
	}
	return fmt.Sprintf("reading %s: %v", e.Path, e.Cause)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

// splitFormFeed numbers form-feed separated pages from 1 and drops blank ones.
func splitFormFeed(text string) []types.Page {
	var pages []types.Page
	for i, p := range strings.Split(text, "\f") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		pages = append(pages, types.Page{Number: i + 1, Text: p})
	}
	return pages
}
