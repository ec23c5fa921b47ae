// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/persona-engine/internal/input"
	"github.com/pdiddy/persona-engine/internal/pipeline"
	"github.com/pdiddy/persona-engine/internal/segment"
	"github.com/pdiddy/persona-engine/internal/source"
	"github.com/pdiddy/persona-engine/pkg/types"
)

var segmentCmd = &cobra.Command{
	Use:   "segment [files...]",
	Short: "Print the sections detected in documents",
	Long: `Segment reads each document and prints the sections found on every
page, without ranking. Use it to check how headers are detected and which
titles are synthesized for pages without headers.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSegment,
}

func runSegment(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	fallback, _ := cmd.Flags().GetBool("pdftotext")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lex, err := loadLexicon(cfg)
	if err != nil {
		return err
	}

	seg := segment.New(lex, cfg.Segment)
	sources := pipeline.FileSources(source.Options{PdftotextFallback: fallback, Logger: logger})

	var all []types.Section
	failed := 0
	for _, doc := range input.Documents(args) {
		sections, err := pipeline.SegmentDocument(cmd.Context(), sources, seg, doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed  %s: %v\n", doc.Name, err)
			failed++
			continue
		}
		all = append(all, sections...)
		if !jsonOutput {
			printSections(doc.Name, sections)
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(all); err != nil {
			return err
		}
	}

	if failed == len(args) {
		return fmt.Errorf("no document could be read")
	}
	return nil
}

func printSections(doc string, sections []types.Section) {
	fmt.Printf("%s: %d sections\n", doc, len(sections))
	for _, sec := range sections {
		fmt.Printf("  p%-3d  %-12s  %s (%d chars)\n", sec.Page, sec.Type, sec.Title, len(sec.Content))
	}
}

func init() {
	segmentCmd.Flags().Bool("json", false, "output sections as JSON")
	segmentCmd.Flags().Bool("pdftotext", false, "fall back to the pdftotext binary for unreadable PDFs")

	rootCmd.AddCommand(segmentCmd)
}
