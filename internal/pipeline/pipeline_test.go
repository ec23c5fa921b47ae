// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/persona-engine/internal/lexicon"
	"github.com/pdiddy/persona-engine/internal/source"
	"github.com/pdiddy/persona-engine/pkg/types"
)

// fakeSource implements source.Source for testing.
type fakeSource struct {
	pages []types.Page
	err   error
}

func (f *fakeSource) Pages(ctx context.Context, path string) ([]types.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.pages, f.err
}

func fakeSources(m map[string]*fakeSource) SourceFunc {
	return func(path string) (source.Source, error) {
		src, ok := m[path]
		if !ok {
			return nil, fmt.Errorf("no source for %s", path)
		}
		return src, nil
	}
}

var (
	cuisinePage = strings.Join([]string{
		"CULINARY EXPERIENCES IN PROVENCE",
		"Try the bouillabaisse in Marseille.",
		"Nightlife and Entertainment",
		"Bars stay open late near the port.",
	}, "\n")
	surveyPage = strings.Join([]string{
		"METHODS AND MATERIALS USED",
		"We sampled forty sites across the region.",
	}, "\n")
)

func testRequest() Request {
	return Request{
		Input: types.Input{
			Documents: []types.Document{
				{Name: "cuisine", Path: "docs/cuisine.pdf"},
				{Name: "broken", Path: "docs/broken.pdf"},
				{Name: "survey", Path: "docs/survey.pdf"},
				{Name: "blank", Path: "docs/blank.pdf"},
			},
			Persona: "PhD Researcher in ecology",
			Job:     "Summarize the methodology",
		},
		Segment: types.DefaultPipelineConfig().Segment,
		Sources: fakeSources(map[string]*fakeSource{
			"docs/cuisine.pdf": {pages: []types.Page{{Number: 2, Text: cuisinePage}}},
			"docs/broken.pdf":  {err: errors.New("boom")},
			"docs/survey.pdf":  {pages: []types.Page{{Number: 1, Text: surveyPage}}},
			"docs/blank.pdf":   {pages: []types.Page{{Number: 1, Text: "   "}}},
		}),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	cfg := types.DefaultPipelineConfig().Analysis

	got, err := Run(context.Background(), testRequest(), cfg, &out)
	require.NoError(t, err)

	assert.Equal(t, BatchSummary{Segmented: 2, Empty: 1, Failed: 1}, got.Summary)
	assert.Equal(t, 4, got.Summary.Total())
	assert.True(t, got.Summary.HasFailures())

	res := got.Result
	assert.Equal(t, types.PersonaResearcher, res.Metadata.Profile)
	assert.Equal(t, []string{"summarize", "methodology"}, res.Metadata.Keywords)
	assert.Len(t, res.Metadata.Documents, 4)

	require.Len(t, res.Sections, 3)
	assert.Equal(t, "METHODS AND MATERIALS USED", res.Sections[0].Title)
	assert.Equal(t, "survey", res.Sections[0].Document)
	for i, sec := range res.Sections {
		assert.Equal(t, i+1, sec.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, res.Sections[i-1].Score, sec.Score)
		}
	}

	require.Len(t, res.Subsections, 3)
	assert.Equal(t, "survey", res.Subsections[0].Document)

	lines := out.String()
	assert.Contains(t, lines, "segmented cuisine (2 sections)\n")
	assert.Contains(t, lines, "failed  broken: boom\n")
	assert.Contains(t, lines, "empty   blank\n")
	assert.Contains(t, lines, "4 documents: 2 segmented, 1 empty, 1 failed; 3 sections ranked")
	assert.Less(t, strings.Index(lines, "cuisine"), strings.Index(lines, "broken"))
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := types.DefaultPipelineConfig().Analysis

	cfg.Workers = 1
	serial, err := Run(context.Background(), testRequest(), cfg, io.Discard)
	require.NoError(t, err)

	cfg.Workers = 8
	for range 5 {
		parallel, err := Run(context.Background(), testRequest(), cfg, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, serial.Result, parallel.Result)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, testRequest(), types.DefaultPipelineConfig().Analysis, io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunUnsupportedDocument(t *testing.T) {
	req := testRequest()
	req.Input.Documents = append(req.Input.Documents, types.Document{Path: "docs/missing.pdf"})

	var out bytes.Buffer
	got, err := Run(context.Background(), req, types.DefaultPipelineConfig().Analysis, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Summary.Failed)
	assert.Contains(t, out.String(), "failed  missing: no source for docs/missing.pdf")
}

func TestAnalyzeWindows(t *testing.T) {
	req := testRequest()
	cfg := types.DefaultPipelineConfig().Analysis

	tests := []struct {
		name         string
		topK, window int
		want         int
	}{
		{name: "top k inside window", topK: 2, window: 10, want: 2},
		{name: "window smaller than top k", topK: 5, window: 1, want: 1},
		{name: "both larger than sections", topK: 5, window: 10, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg.TopK, cfg.RefineWindow = tt.topK, tt.window
			got, err := Run(context.Background(), req, cfg, io.Discard)
			require.NoError(t, err)
			assert.Len(t, got.Result.Sections, 3)
			assert.Len(t, got.Result.Subsections, tt.want)
		})
	}
}

func TestRunZeroConfigUsesDefaults(t *testing.T) {
	notesPage := "Short note here.\n\n" +
		"The morning survey covered every plot along the river and recorded soil data for the methodology review."

	request := func(seg types.SegmentConfig) Request {
		req := testRequest()
		req.Segment = seg
		req.Input.Documents = append(req.Input.Documents, types.Document{Name: "notes", Path: "docs/notes.txt"})
		req.Sources = fakeSources(map[string]*fakeSource{
			"docs/cuisine.pdf": {pages: []types.Page{{Number: 2, Text: cuisinePage}}},
			"docs/broken.pdf":  {err: errors.New("boom")},
			"docs/survey.pdf":  {pages: []types.Page{{Number: 1, Text: surveyPage}}},
			"docs/blank.pdf":   {pages: []types.Page{{Number: 1, Text: "   "}}},
			"docs/notes.txt":   {pages: []types.Page{{Number: 1, Text: notesPage}}},
		})
		return req
	}

	want, err := Run(context.Background(), request(types.DefaultPipelineConfig().Segment), types.DefaultPipelineConfig().Analysis, io.Discard)
	require.NoError(t, err)

	got, err := Run(context.Background(), request(types.SegmentConfig{}), types.AnalysisConfig{}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, want.Result, got.Result)
	assert.NotEmpty(t, got.Result.Subsections)
}

func testLexicon(t *testing.T) *lexicon.Lexicon {
	t.Helper()
	lex, err := lexicon.Default()
	require.NoError(t, err)
	return lex
}

func TestAnalyzeZeroConfigRefines(t *testing.T) {
	sections := []types.Section{
		{Document: "survey", Page: 1, Title: "Methods", Type: types.SectionMethodology,
			Content: "We sampled forty sites to test the hypothesis with field data."},
	}
	lex := testLexicon(t)

	got := Analyze(lex, sections, types.Input{Persona: "PhD Researcher", Job: "Summarize the methodology"}, types.AnalysisConfig{})

	require.Len(t, got.Sections, 1)
	assert.Len(t, got.Subsections, 1)
}

func TestDocumentName(t *testing.T) {
	assert.Equal(t, "given", DocumentName(types.Document{Name: "given", Path: "x/y.pdf"}))
	assert.Equal(t, "South of France - Cities", DocumentName(types.Document{Path: "in/South of France - Cities.pdf"}))
}

func TestDocumentError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&DocumentError{Document: "a", Cause: cause})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "document a: boom", err.Error())
}
