// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs a full analysis: it reads every document, segments
// its pages, ranks the sections for the persona and job, and refines the
// best of them. Documents are read in parallel but merged by input order,
// so the result never depends on scheduling.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/persona-engine/internal/lexicon"
	"github.com/pdiddy/persona-engine/internal/relevance"
	"github.com/pdiddy/persona-engine/internal/segment"
	"github.com/pdiddy/persona-engine/internal/source"
	"github.com/pdiddy/persona-engine/pkg/types"
)

// SourceFunc returns the Source that reads path.
type SourceFunc func(path string) (source.Source, error)

// FileSources picks a Source by file extension.
func FileSources(opts source.Options) SourceFunc {
	return func(path string) (source.Source, error) {
		return source.ForFile(path, opts)
	}
}

// Request is one analysis run.
type Request struct {
	Input types.Input

	// Lexicon defaults to the embedded lexicon.
	Lexicon *lexicon.Lexicon

	// Segment defaults to the segmentation limits of DefaultPipelineConfig
	// when left zero.
	Segment types.SegmentConfig

	// Sources defaults to FileSources.
	Sources SourceFunc

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// BatchSummary holds per-document counts from a run.
type BatchSummary struct {
	Segmented int
	Empty     int
	Failed    int
}

// Total returns the number of documents processed.
func (s BatchSummary) Total() int {
	return s.Segmented + s.Empty + s.Failed
}

// HasFailures reports whether any document could not be read.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// Outcome is the result of Run together with its batch counts.
type Outcome struct {
	Result  types.Result
	Summary BatchSummary
}

// slot holds what one document produced.
type slot struct {
	sections []types.Section
	err      error
}

// Run analyzes req.Input. A document that cannot be read is reported on w
// and counted, and the run continues. Only cancellation of ctx stops it.
func Run(ctx context.Context, req Request, cfg types.AnalysisConfig, w io.Writer) (*Outcome, error) {
	logger := req.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lex := req.Lexicon
	if lex == nil {
		var err error
		if lex, err = lexicon.Default(); err != nil {
			return nil, fmt.Errorf("loading lexicon: %w", err)
		}
	}
	sources := req.Sources
	if sources == nil {
		sources = FileSources(source.Options{PdftotextFallback: cfg.PdftotextFallback, Logger: logger})
	}

	defaults := types.DefaultPipelineConfig()
	segCfg := req.Segment
	if segCfg == (types.SegmentConfig{}) {
		segCfg = defaults.Segment
	}
	cfg = withDefaults(cfg)

	seg := segment.New(lex, segCfg)
	docs := req.Input.Documents
	slots := make([]slot, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, doc := range docs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			log := logger.With("document", DocumentName(doc))
			sections, err := SegmentDocument(gctx, sources, seg, doc)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn("document skipped", "error", &DocumentError{Document: DocumentName(doc), Cause: err})
				slots[i].err = err
				return nil
			}
			log.Debug("document segmented", "sections", len(sections))
			slots[i].sections = sections
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		summary  BatchSummary
		sections []types.Section
	)
	for i, s := range slots {
		name := DocumentName(docs[i])
		switch {
		case s.err != nil:
			fmt.Fprintf(w, "failed  %s: %v\n", name, s.err)
			summary.Failed++
		case len(s.sections) == 0:
			fmt.Fprintf(w, "empty   %s\n", name)
			summary.Empty++
		default:
			fmt.Fprintf(w, "segmented %s (%d sections)\n", name, len(s.sections))
			summary.Segmented++
		}
		sections = append(sections, s.sections...)
	}

	result := Analyze(lex, sections, req.Input, cfg)
	fmt.Fprintf(w, "\n%d documents: %d segmented, %d empty, %d failed; %d sections ranked\n",
		summary.Total(), summary.Segmented, summary.Empty, summary.Failed, len(result.Sections))
	logger.Info("analysis complete",
		"persona_type", result.Metadata.Profile,
		"sections", len(result.Sections),
		"subsections", len(result.Subsections))

	return &Outcome{Result: result, Summary: summary}, nil
}

// Analyze ranks already segmented sections for in.Persona and in.Job and
// refines the leading ones. Sections must be in document, page and in-page
// order; ties in score keep that order.
func Analyze(lex *lexicon.Lexicon, sections []types.Section, in types.Input, cfg types.AnalysisConfig) types.Result {
	cfg = withDefaults(cfg)
	profile := relevance.NewResolver(lex).Resolve(in.Persona)
	keywords := relevance.JobKeywords(lex, in.Job)
	scorer := relevance.NewScorer(lex, profile, keywords)

	ranked := relevance.Rank(sections, scorer)
	window := ranked[:min(cfg.RefineWindow, len(ranked))]
	subsections := relevance.NewRefiner(scorer, cfg.TopK).Refine(window)

	return types.Result{
		Metadata: types.Metadata{
			Documents: in.Documents,
			Persona:   in.Persona,
			Job:       in.Job,
			Profile:   profile.Type,
			Keywords:  keywords,
		},
		Sections:    ranked,
		Subsections: subsections,
	}
}

// withDefaults fills unset analysis limits from DefaultPipelineConfig.
func withDefaults(cfg types.AnalysisConfig) types.AnalysisConfig {
	def := types.DefaultPipelineConfig().Analysis
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	if cfg.RefineWindow <= 0 {
		cfg.RefineWindow = def.RefineWindow
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	return cfg
}

// SegmentDocument reads doc and segments each of its pages in order.
func SegmentDocument(ctx context.Context, sources SourceFunc, seg *segment.Segmenter, doc types.Document) ([]types.Section, error) {
	src, err := sources(doc.Path)
	if err != nil {
		return nil, err
	}
	pages, err := src.Pages(ctx, doc.Path)
	if err != nil {
		return nil, err
	}
	name := DocumentName(doc)
	var sections []types.Section
	for _, p := range pages {
		sections = append(sections, seg.Segment(name, p.Number, p.Text)...)
	}
	return sections, nil
}

// DocumentName returns doc.Name, or the base file name without extension
// when Name is unset.
func DocumentName(doc types.Document) string {
	if doc.Name != "" {
		return doc.Name
	}
	base := filepath.Base(doc.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
