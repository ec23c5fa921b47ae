// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/persona-engine/pkg/types"
)

const (
	minSentenceLength = 20
	maxKeySentences   = 3
	fallbackExcerpt   = 200
	maxCitedKeywords  = 3

	sentenceJobWeight     = 1.0
	sentencePersonaWeight = 0.5

	noMatchExplanation = "Provides contextual information relevant to the specified task"
)

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

// Refiner condenses top-ranked sections into short excerpts.
type Refiner struct {
	scorer *Scorer
	topK   int
}

// NewRefiner returns a Refiner that handles the first topK ranked sections.
func NewRefiner(scorer *Scorer, topK int) *Refiner {
	return &Refiner{scorer: scorer, topK: topK}
}

// Refine returns one subsection for each of the first topK ranked sections,
// in rank order.
func (r *Refiner) Refine(ranked []types.RankedSection) []types.RefinedSubsection {
	n := min(r.topK, len(ranked))
	out := make([]types.RefinedSubsection, 0, n)
	for _, sec := range ranked[:n] {
		out = append(out, types.RefinedSubsection{
			Document:    sec.Document,
			Page:        sec.Page,
			RefinedText: r.keySentences(sec.Content),
			Explanation: r.explain(sec.Section),
		})
	}
	return out
}

type scoredSentence struct {
	text  string
	score float64
}

// keySentences keeps up to three of the best-scoring sentences. When no
// sentence mentions a job or persona keyword, the start of the content is
// used instead.
func (r *Refiner) keySentences(content string) string {
	var scored []scoredSentence
	for _, raw := range sentenceBreak.Split(content, -1) {
		sentence := strings.TrimSpace(raw)
		if len([]rune(sentence)) < minSentenceLength {
			continue
		}
		lower := strings.ToLower(sentence)
		score := sentenceJobWeight*float64(countPresent(lower, r.scorer.jobKeywords)) +
			sentencePersonaWeight*float64(countPresent(lower, r.scorer.profile.Keywords))
		scored = append(scored, scoredSentence{text: sentence, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	var top []string
	for _, s := range scored[:min(maxKeySentences, len(scored))] {
		if s.score > 0 {
			top = append(top, s.text)
		}
	}
	if len(top) == 0 {
		return excerpt(content, fallbackExcerpt) + "..."
	}
	return strings.Join(top, ". ") + "."
}

// explain states why a section was selected.
func (r *Refiner) explain(sec types.Section) string {
	var reasons []string

	if r.scorer.lex.IsExplained(sec.Type) {
		reasons = append(reasons, fmt.Sprintf("Contains %s content relevant to %s work", sec.Type, r.scorer.profile.Type))
	}

	content := strings.ToLower(sec.Content)
	var matched []string
	for _, kw := range r.scorer.jobKeywords {
		if strings.Contains(content, kw) {
			matched = append(matched, kw)
			if len(matched) == maxCitedKeywords {
				break
			}
		}
	}
	if len(matched) > 0 {
		reasons = append(reasons, "Addresses key job requirements: "+strings.Join(matched, ", "))
	}

	if len(reasons) == 0 {
		return noMatchExplanation
	}
	return strings.Join(reasons, "; ")
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
