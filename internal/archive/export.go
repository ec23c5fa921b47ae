// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one archived section in an export file.
type ExportEntry struct {
	RunID    string  `json:"run_id" yaml:"run_id"`
	Persona  string  `json:"persona" yaml:"persona"`
	Job      string  `json:"job_to_be_done" yaml:"job_to_be_done"`
	Rank     int     `json:"rank" yaml:"rank"`
	Score    float64 `json:"score" yaml:"score"`
	Document string  `json:"document" yaml:"document"`
	Page     int     `json:"page" yaml:"page"`
	Title    string  `json:"title" yaml:"title"`
	Type     string  `json:"type" yaml:"type"`
	Content  string  `json:"content" yaml:"content"`
}

const exportLimit = 100000

// ExportYAML writes the sections matching opts to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions, path string) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeExport(path, data)
}

// ExportJSON writes the sections matching opts to path as JSON.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions, path string) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeExport(path, data)
}

func writeExport(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	opts.MaxResults = exportLimit
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(results))
	for i, r := range results {
		entries[i] = ExportEntry{
			RunID:    r.RunID,
			Persona:  r.Persona,
			Job:      r.Job,
			Rank:     r.Rank,
			Score:    r.Score,
			Document: r.Document,
			Page:     r.Page,
			Title:    r.Title,
			Type:     string(r.Type),
			Content:  r.Content,
		}
	}
	return entries, nil
}
