// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/persona-engine/internal/archive"
	"github.com/pdiddy/persona-engine/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Search and export archived results (runs, show, retrieve, export)",
	Long: `Archive reads the SQLite database that analyze --archive and
run --archive write to. Use subcommands to list runs, show one run,
search sections across runs, or export them.`,
}

// --- runs subcommand ---

var archiveRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived runs, newest first",
	RunE:  runArchiveRuns,
}

func runArchiveRuns(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return printJSON(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs archived.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-12s  %-8s  %s\n",
		"Run", "Created", "Persona", "Sections", "Job")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-12s  %-8d  %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.PersonaType, r.Sections, clipText(r.Job, 30))
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

// --- show subcommand ---

var archiveShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the ranked sections and excerpts of one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveShow,
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")
	results, err := store.Retrieve(ctx, archive.QueryOptions{RunID: args[0], MaxResults: limit})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("run %s not found", args[0])
	}
	subs, err := store.Subsections(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Persona: %s\nJob:     %s\n\n", results[0].Persona, results[0].Job)
	if err := formatRetrieveOutput(results, false); err != nil {
		return err
	}
	for i, sub := range subs {
		fmt.Printf("\n[%d] %s, page %d\n    %s\n    (%s)\n", i+1, sub.Document, sub.Page, sub.RefinedText, sub.Explanation)
	}
	return nil
}

// --- retrieve subcommand ---

var archiveRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Search archived sections by terms and filters",
	Long: `Retrieve searches archived sections. Every query term must occur in a
section's title or content (ASCII case is ignored). Filters narrow the
search to one run, one document, or one section type.`,
	RunE: runArchiveRetrieve,
}

func runArchiveRetrieve(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search terms, --run, --document, or --type")
	}

	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(results, jsonOutput)
}

func formatRetrieveOutput(results []archive.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		return printJSON(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-6s  %-12s  %-40s  %-20s  %-4s  %s\n",
		"Rank", "Score", "Type", "Title", "Document", "Page", "Run")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %-6.2f  %-12s  %-40s  %-20s  %-4d  %s\n",
			r.Rank, r.Score, r.Type, clipText(r.Title, 40), clipText(r.Document, 20), r.Page, shortID(r.RunID))
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export archived sections to YAML or JSON",
	Long: `Export writes all archived sections (or a filtered subset) to a file.
Supports the same terms and filter flags as retrieve.`,
	RunE: runArchiveExport,
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	path, _ := cmd.Flags().GetString("out")

	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	if path == "" {
		path = "archive/export." + format
	}

	switch format {
	case "yaml":
		err = store.ExportYAML(cmd.Context(), opts, path)
	case "json":
		err = store.ExportJSON(cmd.Context(), opts, path)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

// --- shared helpers ---

func openArchive() (*archive.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return archive.NewStore(cfg.Archive)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) archive.QueryOptions {
	runID, _ := cmd.Flags().GetString("run")
	document, _ := cmd.Flags().GetString("document")
	sectionType, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")

	return archive.QueryOptions{
		Query:      strings.Join(args, " "),
		RunID:      runID,
		Document:   document,
		Type:       types.SectionType(sectionType),
		MaxResults: limit,
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// shortID returns the first block of a run ID.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func clipText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	archiveCmd.PersistentFlags().String("archive-path", "archive/results.db", "SQLite archive file")
	viper.BindPFlag("archive.path", archiveCmd.PersistentFlags().Lookup("archive-path"))

	archiveRunsCmd.Flags().Bool("json", false, "output runs as JSON")

	archiveShowCmd.Flags().Int("limit", 0, "maximum sections shown (0 = archive default)")

	for _, c := range []*cobra.Command{archiveRetrieveCmd, archiveExportCmd} {
		c.Flags().String("run", "", "filter by run ID")
		c.Flags().String("document", "", "filter by document name")
		c.Flags().String("type", "", "filter by section type: summary, introduction, methodology, results, analysis, conclusion, financial, general")
	}
	archiveRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = archive default)")
	archiveRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	archiveExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	archiveExportCmd.Flags().String("out", "", "export file (default: archive/export.<format>)")

	archiveCmd.AddCommand(archiveRunsCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	archiveCmd.AddCommand(archiveRetrieveCmd)
	archiveCmd.AddCommand(archiveExportCmd)

	rootCmd.AddCommand(archiveCmd)
}
