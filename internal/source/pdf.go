// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"log/slog"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/pdiddy/persona-engine/pkg/types"
)

const binPdftotext = "pdftotext"

// PDFSource reads PDFs page by page with the pure-Go PDF library and can
// fall back to pdftotext for files the library rejects.
type PDFSource struct {
	fallback bool
	exec     executor
	logger   *slog.Logger
}

// NewPDFSource returns a PDFSource configured from opts.
func NewPDFSource(opts Options) *PDFSource {
	return &PDFSource{
		fallback: opts.PdftotextFallback,
		exec:     defaultExec,
		logger:   opts.logger(),
	}
}

func (s *PDFSource) Pages(ctx context.Context, path string) ([]types.Page, error) {
	pages, err := s.readLibrary(ctx, path)
	if err != nil && s.fallback && ctx.Err() == nil {
		s.logger.Info("pdf library failed, trying pdftotext", "path", path, "error", err)
		pages, err = s.readPdftotext(ctx, path)
	}
	if err != nil {
		return nil, &ReadError{Path: path, Cause: err}
	}
	return pages, nil
}

func (s *PDFSource) readLibrary(ctx context.Context, path string) (pages []types.Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if f != nil {
		defer f.Close()
	}
	if err != nil {
		return nil, err
	}

	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := pageText(reader, i)
		if err != nil {
			s.logger.Warn("skipping unreadable page", "error", &ReadError{Path: path, Page: i, Cause: err})
			continue
		}
		if text == "" {
			continue
		}
		pages = append(pages, types.Page{Number: i, Text: text})
	}
	return pages, nil
}

// pageText extracts one page, turning library panics into errors.
func pageText(reader *pdflib.Reader, n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed page: %v", r)
		}
	}()
	page := reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

func (s *PDFSource) readPdftotext(ctx context.Context, path string) ([]types.Page, error) {
	if _, err := s.exec.LookPath(binPdftotext); err != nil {
		return nil, fmt.Errorf("%s not available: %w", binPdftotext, err)
	}
	out, err := s.exec.Output(ctx, binPdftotext, "-layout", path, "-")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", binPdftotext, err)
	}
	return splitFormFeed(string(out)), nil
}
