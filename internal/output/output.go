// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output turns an analysis result into the document written to
// disk and into human-readable tables.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/persona-engine/pkg/types"
)

// timestampLayout matches ISO 8601 with microseconds and no zone.
const timestampLayout = "2006-01-02T15:04:05.999999"

// Document is the serialized form of a result.
type Document struct {
	Metadata           Metadata             `json:"metadata" yaml:"metadata"`
	ExtractedSections  []ExtractedSection   `json:"extracted_sections" yaml:"extracted_sections"`
	SubsectionAnalysis []SubsectionAnalysis `json:"subsection_analysis" yaml:"subsection_analysis"`
}

type Metadata struct {
	InputDocuments      []string `json:"input_documents" yaml:"input_documents"`
	Persona             string   `json:"persona" yaml:"persona"`
	JobToBeDone         string   `json:"job_to_be_done" yaml:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp" yaml:"processing_timestamp"`
}

type ExtractedSection struct {
	Document       string `json:"document" yaml:"document"`
	SectionTitle   string `json:"section_title" yaml:"section_title"`
	ImportanceRank int    `json:"importance_rank" yaml:"importance_rank"`
	PageNumber     int    `json:"page_number" yaml:"page_number"`
}

type SubsectionAnalysis struct {
	Document    string `json:"document" yaml:"document"`
	RefinedText string `json:"refined_text" yaml:"refined_text"`
	PageNumber  int    `json:"page_number" yaml:"page_number"`
}

// Formatter builds Documents. Now supplies the processing timestamp and
// defaults to time.Now.
type Formatter struct {
	Now func() time.Time
}

// Format builds a Document using the current time.
func Format(result types.Result, cfg types.OutputConfig) Document {
	return Formatter{}.Format(result, cfg)
}

// Format builds a Document from result. At most cfg.MaxSections ranked
// sections are included. Document fields carry the source file name.
func (f Formatter) Format(result types.Result, cfg types.OutputConfig) Document {
	now := f.Now
	if now == nil {
		now = time.Now
	}

	filenames := make(map[string]string, len(result.Metadata.Documents))
	inputs := make([]string, 0, len(result.Metadata.Documents))
	for _, d := range result.Metadata.Documents {
		filenames[d.Name] = d.Filename()
		inputs = append(inputs, d.Filename())
	}
	filename := func(name string) string {
		if fn, ok := filenames[name]; ok {
			return fn
		}
		return name
	}

	doc := Document{
		Metadata: Metadata{
			InputDocuments:      inputs,
			Persona:             result.Metadata.Persona,
			JobToBeDone:         result.Metadata.Job,
			ProcessingTimestamp: now().Format(timestampLayout),
		},
		ExtractedSections:  []ExtractedSection{},
		SubsectionAnalysis: []SubsectionAnalysis{},
	}

	limit := len(result.Sections)
	if cfg.MaxSections > 0 {
		limit = min(limit, cfg.MaxSections)
	}
	for _, sec := range result.Sections[:limit] {
		doc.ExtractedSections = append(doc.ExtractedSections, ExtractedSection{
			Document:       filename(sec.Document),
			SectionTitle:   sec.Title,
			ImportanceRank: sec.Rank,
			PageNumber:     sec.Page,
		})
	}
	for _, sub := range result.Subsections {
		doc.SubsectionAnalysis = append(doc.SubsectionAnalysis, SubsectionAnalysis{
			Document:    filename(sub.Document),
			RefinedText: sub.RefinedText,
			PageNumber:  sub.Page,
		})
	}
	return doc
}

// Write serializes doc to path in the given format, creating parent
// directories as needed.
func Write(path string, doc Document, format types.OutputFormat) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		return Encode(w, doc, format)
	})
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(path string, doc Document) error {
	return Write(path, doc, types.FormatJSON)
}

// WriteYAML writes doc as YAML.
func WriteYAML(path string, doc Document) error {
	return Write(path, doc, types.FormatYAML)
}

// Encode writes doc to w in the given format. An empty format means JSON.
func Encode(w io.Writer, doc Document, format types.OutputFormat) error {
	switch format {
	case types.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case types.FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		enc.SetEscapeHTML(false)
		return enc.Encode(doc)
	default:
		return checkFormat(format)
	}
}

func checkFormat(format types.OutputFormat) error {
	switch format {
	case types.FormatJSON, types.FormatYAML, "":
		return nil
	}
	return fmt.Errorf("unsupported output format %q", format)
}

func writeFile(path string, encode func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// FormatTable writes the ranking as a table to w. limit caps the number of
// rows; zero or less shows all of them.
func FormatTable(result types.Result, limit int, w io.Writer) {
	if len(result.Sections) == 0 {
		fmt.Fprintln(w, "No sections found.")
		return
	}

	fmt.Fprintf(w, "Persona: %s (%s)\n", result.Metadata.Persona, result.Metadata.Profile)
	fmt.Fprintf(w, "Job:     %s\n\n", result.Metadata.Job)

	fmt.Fprintf(w, "%-4s  %-6s  %-12s  %-50s  %-25s  %s\n",
		"Rank", "Score", "Type", "Title", "Document", "Page")
	fmt.Fprintln(w, strings.Repeat("-", 112))

	shown := result.Sections
	if limit > 0 && limit < len(shown) {
		shown = shown[:limit]
	}
	for _, sec := range shown {
		fmt.Fprintf(w, "%-4d  %-6.2f  %-12s  %-50s  %-25s  %d\n",
			sec.Rank, sec.Score, sec.Type, clip(sec.Title, 50), clip(sec.Document, 25), sec.Page)
	}

	fmt.Fprintf(w, "\n%d sections", len(result.Sections))
	if len(shown) < len(result.Sections) {
		fmt.Fprintf(w, " (showing %d)", len(shown))
	}
	fmt.Fprintln(w)
}

// FormatSubsections writes each refined excerpt with its explanation.
func FormatSubsections(result types.Result, w io.Writer) {
	for i, sub := range result.Subsections {
		fmt.Fprintf(w, "\n[%d] %s, page %d\n", i+1, sub.Document, sub.Page)
		fmt.Fprintf(w, "    %s\n", sub.RefinedText)
		fmt.Fprintf(w, "    (%s)\n", sub.Explanation)
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
