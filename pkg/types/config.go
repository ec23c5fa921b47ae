// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "github.com/go-playground/validator/v10"

// SegmentConfig holds settings for section segmentation.
type SegmentConfig struct {
	// MinTitleLength is the length a detected header must exceed (default 10).
	MinTitleLength int `json:"min_title_length" yaml:"min_title_length" validate:"gte=0"`

	// MinParagraphLength is the length a paragraph must exceed to take part
	// in fallback segmentation (default 50).
	MinParagraphLength int `json:"min_paragraph_length" yaml:"min_paragraph_length" validate:"gte=0"`
}

// AnalysisConfig holds settings for ranking and refinement.
type AnalysisConfig struct {
	// TopK is the number of ranked sections refined into subsections (default 5).
	TopK int `json:"top_k" yaml:"top_k" validate:"gte=1"`

	// RefineWindow is how many ranked sections are offered to the refiner
	// before TopK applies (default 10).
	RefineWindow int `json:"refine_window" yaml:"refine_window" validate:"gte=1"`

	// Workers bounds concurrent document extraction (default 4).
	Workers int `json:"workers" yaml:"workers" validate:"gte=1"`

	// LexiconPath optionally replaces the embedded lexicon.
	LexiconPath string `json:"lexicon_path,omitempty" yaml:"lexicon_path,omitempty"`

	// PdftotextFallback enables the pdftotext binary when the PDF library
	// cannot open a file.
	PdftotextFallback bool `json:"pdftotext_fallback" yaml:"pdftotext_fallback"`
}

// OutputFormat selects the serialization for result files.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// OutputConfig holds settings for writing results.
type OutputConfig struct {
	// MaxSections caps extracted_sections in the written result (default 15).
	MaxSections int `json:"max_sections" yaml:"max_sections" validate:"gte=1"`

	Format OutputFormat `json:"format" yaml:"format" validate:"oneof=json yaml"`
}

// ArchiveConfig holds settings for the SQLite result archive.
type ArchiveConfig struct {
	// Path is the database file (default "archive/results.db").
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default retrieve limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Segment  SegmentConfig  `json:"segment" yaml:"segment"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
	Output   OutputConfig   `json:"output" yaml:"output"`
	Archive  ArchiveConfig  `json:"archive" yaml:"archive"`
}

// DefaultPipelineConfig returns the configuration used when nothing is overridden.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Segment: SegmentConfig{
			MinTitleLength:     10,
			MinParagraphLength: 50,
		},
		Analysis: AnalysisConfig{
			TopK:         5,
			RefineWindow: 10,
			Workers:      4,
		},
		Output: OutputConfig{
			MaxSections: 15,
			Format:      FormatJSON,
		},
		Archive: ArchiveConfig{
			Path:       "archive/results.db",
			MaxResults: 20,
		},
	}
}

// Validate checks the configured limits and formats.
func (c *PipelineConfig) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}
