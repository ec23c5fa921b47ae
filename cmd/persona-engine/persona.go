// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/persona-engine/internal/input"
	"github.com/pdiddy/persona-engine/internal/relevance"
	"github.com/pdiddy/persona-engine/pkg/types"
)

var personaCmd = &cobra.Command{
	Use:   "persona [description]",
	Short: "Show the profile a persona description resolves to",
	Long: `Persona prints the canonical persona type, keywords and section
priorities chosen for a free-text persona description. With --job it also
prints the keywords extracted from the job to be done.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPersona,
}

// personaReport is the JSON form of the persona command output.
type personaReport struct {
	Description string               `json:"description"`
	Profile     types.PersonaProfile `json:"profile"`
	JobKeywords []string             `json:"job_keywords,omitempty"`
}

func runPersona(cmd *cobra.Command, args []string) error {
	job, _ := cmd.Flags().GetString("job")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lex, err := loadLexicon(cfg)
	if err != nil {
		return err
	}

	report := personaReport{Description: input.NormalizePersona(strings.Join(args, " "))}
	report.Profile = relevance.NewResolver(lex).Resolve(report.Description)
	if job != "" {
		report.JobKeywords = relevance.JobKeywords(lex, input.NormalizeTask(job))
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("Persona:  %s\n", report.Description)
	fmt.Printf("Type:     %s\n", report.Profile.Type)
	if len(report.Profile.Keywords) > 0 {
		fmt.Printf("Keywords: %s\n", strings.Join(report.Profile.Keywords, ", "))
	}
	if len(report.Profile.Priorities) > 0 {
		fmt.Println("Priorities:")
		for _, st := range sortedPriorities(report.Profile.Priorities) {
			fmt.Printf("  %-12s  %.2f\n", st, report.Profile.Priorities[st])
		}
	}
	if job != "" {
		fmt.Printf("Job keywords: %s\n", strings.Join(report.JobKeywords, ", "))
	}
	return nil
}

// sortedPriorities orders section types by descending weight, then name.
func sortedPriorities(p map[types.SectionType]float64) []types.SectionType {
	keys := make([]types.SectionType, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if p[keys[i]] != p[keys[j]] {
			return p[keys[i]] > p[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func init() {
	personaCmd.Flags().String("job", "", "job to be done whose keywords are shown")
	personaCmd.Flags().Bool("json", false, "output the profile as JSON")

	rootCmd.AddCommand(personaCmd)
}
