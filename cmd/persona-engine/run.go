// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/persona-engine/internal/input"
	"github.com/pdiddy/persona-engine/internal/source"
)

const (
	inputFileName  = "challenge1b_input.json"
	outputFileName = "challenge1b_output.json"
	docsDirName    = "PDFs"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze the Input/ folder and write Output/",
	Long: `Run processes a prepared folder: it reads the persona and job from
<input-dir>/challenge1b_input.json, the documents from <input-dir>/PDFs/,
and writes <output-dir>/challenge1b_output.json.

Documents listed in the input file are resolved against PDFs/. When the
file lists none, every supported file in PDFs/ is used in name order.`,
	PreRunE: bindPipelineFlags,
	RunE:    runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	inputDir, _ := cmd.Flags().GetString("input-dir")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	save, _ := cmd.Flags().GetBool("archive")

	docsDir := filepath.Join(inputDir, docsDirName)
	paths, err := source.Discover(docsDir)
	if err != nil {
		return fmt.Errorf("reading documents directory: %w", err)
	}
	logger.Debug("discovered documents", "dir", docsDir, "count", len(paths))

	in, err := input.LoadFile(filepath.Join(inputDir, inputFileName), docsDir, input.Documents(paths)...)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outcome, err := analyze(cmd.Context(), *in, cfg)
	if err != nil {
		return err
	}

	if err := writeResult(outcome.Result, cfg.Output, filepath.Join(outputDir, outputFileName)); err != nil {
		return err
	}

	if save {
		if err := archiveResult(cmd.Context(), outcome.Result, cfg.Archive); err != nil {
			return err
		}
	}

	return checkSummary(outcome.Summary)
}

func init() {
	runCmd.Flags().String("input-dir", "Input", "folder holding challenge1b_input.json and PDFs/")
	runCmd.Flags().String("output-dir", "Output", "folder the result is written to")
	runCmd.Flags().Bool("archive", false, "save the result in the SQLite archive")
	addPipelineFlags(runCmd)

	rootCmd.AddCommand(runCmd)
}
