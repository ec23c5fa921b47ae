// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/persona-engine/internal/archive"
	"github.com/pdiddy/persona-engine/internal/input"
	"github.com/pdiddy/persona-engine/internal/output"
	"github.com/pdiddy/persona-engine/internal/pipeline"
	"github.com/pdiddy/persona-engine/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [documents...]",
	Short: "Rank the sections of documents for a persona and a job",
	Long: `Analyze segments every page of the given documents, ranks the sections
for the persona and job to be done, and condenses the top sections into
excerpts.

Documents, persona and job come from flags or from an input JSON file
(--input). A job given as {"task": "..."} or a persona given as
{"role": "..."} is reduced to its text.

The result is written to --output, or printed as JSON when no output file
and no --table are given. Progress goes to stderr.`,
	PreRunE: bindPipelineFlags,
	RunE:    runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	in, err := analyzeInput(cmd, args)
	if err != nil {
		return err
	}
	outPath, _ := cmd.Flags().GetString("output")
	table, _ := cmd.Flags().GetBool("table")
	limit, _ := cmd.Flags().GetInt("limit")
	save, _ := cmd.Flags().GetBool("archive")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outcome, err := analyze(cmd.Context(), *in, cfg)
	if err != nil {
		return err
	}

	if table {
		output.FormatTable(outcome.Result, limit, os.Stdout)
		output.FormatSubsections(outcome.Result, os.Stdout)
	}

	if outPath != "" || !table {
		if err := writeResult(outcome.Result, cfg.Output, outPath); err != nil {
			return err
		}
	}

	if save {
		if err := archiveResult(cmd.Context(), outcome.Result, cfg.Archive); err != nil {
			return err
		}
	}

	return checkSummary(outcome.Summary)
}

// analyzeInput builds the run input from --input or from flags.
func analyzeInput(cmd *cobra.Command, args []string) (*types.Input, error) {
	inputFile, _ := cmd.Flags().GetString("input")
	docsDir, _ := cmd.Flags().GetString("docs-dir")
	if inputFile != "" {
		return input.LoadFile(inputFile, docsDir)
	}

	paths, _ := cmd.Flags().GetStringSlice("documents")
	paths = append(paths, args...)
	persona, _ := cmd.Flags().GetString("persona")
	job, _ := cmd.Flags().GetString("job")

	in := &types.Input{
		Documents: input.Documents(paths),
		Persona:   input.NormalizePersona(persona),
		Job:       input.NormalizeTask(job),
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("documents, --persona and --job are required (or use --input): %w", err)
	}
	return in, nil
}

// analyze runs the pipeline with the current configuration, reporting
// progress on stderr.
func analyze(ctx context.Context, in types.Input, cfg types.PipelineConfig) (*pipeline.Outcome, error) {
	lex, err := loadLexicon(cfg)
	if err != nil {
		return nil, err
	}
	req := pipeline.Request{
		Input:   in,
		Lexicon: lex,
		Segment: cfg.Segment,
		Logger:  logger,
	}
	return pipeline.Run(ctx, req, cfg.Analysis, os.Stderr)
}

// writeResult writes the formatted result to path, or to stdout when path
// is empty.
func writeResult(result types.Result, cfg types.OutputConfig, path string) error {
	doc := output.Format(result, cfg)
	if path == "" {
		return output.Encode(os.Stdout, doc, cfg.Format)
	}
	if err := output.Write(path, doc, cfg.Format); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	return nil
}

func archiveResult(ctx context.Context, result types.Result, cfg types.ArchiveConfig) error {
	store, err := archive.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.Save(ctx, result)
	if err != nil {
		return fmt.Errorf("archiving result: %w", err)
	}
	fmt.Fprintf(os.Stderr, "archived run %s\n", runID)
	return nil
}

// checkSummary fails the command when no document could be read at all.
func checkSummary(s pipeline.BatchSummary) error {
	if s.Segmented == 0 && s.HasFailures() {
		return fmt.Errorf("%d document(s) failed and none could be segmented", s.Failed)
	}
	return nil
}

func init() {
	analyzeCmd.Flags().StringSlice("documents", nil, "document paths (may also be given as arguments)")
	analyzeCmd.Flags().String("persona", "", "reader persona, e.g. \"PhD Researcher in biology\"")
	analyzeCmd.Flags().String("job", "", "job to be done, plain text or {\"task\": \"...\"}")
	analyzeCmd.Flags().String("input", "", "input JSON file with documents, persona and job_to_be_done")
	analyzeCmd.Flags().String("docs-dir", "", "directory that relative document names in --input are resolved against")
	analyzeCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	analyzeCmd.Flags().Bool("table", false, "print the ranking as a table")
	analyzeCmd.Flags().Int("limit", 0, "rows shown with --table (0 = all)")
	analyzeCmd.Flags().Bool("archive", false, "save the result in the SQLite archive")
	addPipelineFlags(analyzeCmd)

	rootCmd.AddCommand(analyzeCmd)
}
