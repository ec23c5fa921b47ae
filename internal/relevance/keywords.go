// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"regexp"
	"strings"

	"github.com/pdiddy/persona-engine/internal/lexicon"
)

var wordPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// JobKeywords extracts the alphabetic words of three or more letters from
// a job description, lower-cased and without stopwords, in job order. A
// word repeated in the job is kept once per occurrence, so it weighs more
// in scoring.
func JobKeywords(lex *lexicon.Lexicon, job string) []string {
	var keywords []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(job), -1) {
		if lex.IsStopword(w) {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}

// countPresent returns how many entries of keywords occur in lower-cased
// text. Repeated entries count once each.
func countPresent(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}
