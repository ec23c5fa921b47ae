// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/persona-engine/internal/lexicon"
	"github.com/pdiddy/persona-engine/pkg/types"
)

// setDefaults registers the built-in configuration with viper so config
// files and PERSONA_ENGINE_* variables only need to name what they change.
func setDefaults() {
	d := types.DefaultPipelineConfig()
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("segment.min_title_length", d.Segment.MinTitleLength)
	viper.SetDefault("segment.min_paragraph_length", d.Segment.MinParagraphLength)
	viper.SetDefault("analysis.top_k", d.Analysis.TopK)
	viper.SetDefault("analysis.refine_window", d.Analysis.RefineWindow)
	viper.SetDefault("analysis.workers", d.Analysis.Workers)
	viper.SetDefault("analysis.pdftotext_fallback", d.Analysis.PdftotextFallback)
	viper.SetDefault("output.max_sections", d.Output.MaxSections)
	viper.SetDefault("output.format", string(d.Output.Format))
	viper.SetDefault("archive.path", d.Archive.Path)
	viper.SetDefault("archive.max_results", d.Archive.MaxResults)
}

// loadConfig assembles the pipeline configuration from viper and validates it.
func loadConfig() (types.PipelineConfig, error) {
	cfg := types.PipelineConfig{
		Segment: types.SegmentConfig{
			MinTitleLength:     viper.GetInt("segment.min_title_length"),
			MinParagraphLength: viper.GetInt("segment.min_paragraph_length"),
		},
		Analysis: types.AnalysisConfig{
			TopK:              viper.GetInt("analysis.top_k"),
			RefineWindow:      viper.GetInt("analysis.refine_window"),
			Workers:           viper.GetInt("analysis.workers"),
			LexiconPath:       viper.GetString("lexicon"),
			PdftotextFallback: viper.GetBool("analysis.pdftotext_fallback"),
		},
		Output: types.OutputConfig{
			MaxSections: viper.GetInt("output.max_sections"),
			Format:      types.OutputFormat(viper.GetString("output.format")),
		},
		Archive: types.ArchiveConfig{
			Path:       viper.GetString("archive.path"),
			MaxResults: viper.GetInt("archive.max_results"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadLexicon returns the lexicon named by --lexicon, or the built-in one.
func loadLexicon(cfg types.PipelineConfig) (*lexicon.Lexicon, error) {
	lex, err := lexicon.Load(cfg.Analysis.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("loading lexicon: %w", err)
	}
	return lex, nil
}

// pipelineFlags maps flag names shared by analyze and run to config keys.
var pipelineFlags = map[string]string{
	"top-k":        "analysis.top_k",
	"workers":      "analysis.workers",
	"pdftotext":    "analysis.pdftotext_fallback",
	"max-sections": "output.max_sections",
	"format":       "output.format",
	"archive-path": "archive.path",
}

func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().Int("top-k", 5, "number of top sections refined into excerpts")
	cmd.Flags().Int("workers", 4, "documents read in parallel")
	cmd.Flags().Bool("pdftotext", false, "fall back to the pdftotext binary for unreadable PDFs")
	cmd.Flags().Int("max-sections", 15, "ranked sections written to the output file")
	cmd.Flags().String("format", "json", "output format: json or yaml")
	cmd.Flags().String("archive-path", "archive/results.db", "SQLite archive used with --archive")
}

// bindPipelineFlags binds cmd's pipeline flags to viper. Bindings are made
// when the command runs, since several commands share the same keys.
func bindPipelineFlags(cmd *cobra.Command, args []string) error {
	for flag, key := range pipelineFlags {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}
