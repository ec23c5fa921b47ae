// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// HeaderMatcher recognizes a header line and returns the title it names.
// Matchers are tried in order; the first match wins.
type HeaderMatcher interface {
	Match(line string) (title string, ok bool)
}

// headerPatterns are tried in order against each trimmed line. Group 1 is
// the title. Matching is case-sensitive: capitalization is the signal.
var headerPatterns = []string{
	`^([A-Z][A-Z\s]{10,60})\s*$`,
	`^(\d+\.?\s+[A-Z][a-zA-Z\s]{10,80})\s*$`,
	`^([A-Z][a-z]+(?:\s+[A-Z][a-z]+){2,8})\s*$`,
	`^(Comprehensive Guide to [A-Za-z\s]{5,50})`,
	`^(Guide to [A-Za-z\s]{5,50})`,
	`^([A-Z][a-z]+\s+in\s+[A-Z][a-z\s]{5,30})`,
	`^([A-Z][a-z]+\s+and\s+[A-Z][a-z\s]{5,30})`,
	`^(Top\s+\d+\s+[A-Za-z\s]{5,40})`,
	`^(Best\s+[A-Za-z\s]{5,40})`,
	`^([A-Z][a-z]+\s+Tips\s+and\s+Tricks)`,
	`^([A-Z][a-z]+\s+Activities)`,
	`^([A-Z][a-z]+\s+Experiences)`,
	`^([A-Z][a-z]+\s+Adventures)`,
	`^(Nightlife\s+and\s+Entertainment)`,
	`^(Coastal\s+Adventures)`,
}

var compiledPatterns = compilePatterns(headerPatterns)

func compilePatterns(patterns []string) []HeaderMatcher {
	matchers := make([]HeaderMatcher, len(patterns))
	for i, p := range patterns {
		matchers[i] = PatternMatcher{re: regexp.MustCompile(p)}
	}
	return matchers
}

// PatternMatcher matches a line against a regular expression whose first
// capture group is the title.
type PatternMatcher struct {
	re *regexp.Regexp
}

func (m PatternMatcher) Match(line string) (string, bool) {
	sub := m.re.FindStringSubmatch(line)
	if sub == nil {
		return "", false
	}
	return strings.TrimSpace(sub[1]), true
}

// PhraseMatcher accepts a whole line as a title when it contains one of
// the phrases and its length lies strictly between MinLen and MaxLen.
type PhraseMatcher struct {
	Phrases []string
	MinLen  int
	MaxLen  int
}

func (m PhraseMatcher) Match(line string) (string, bool) {
	n := utf8.RuneCountInString(line)
	if n <= m.MinLen || n >= m.MaxLen {
		return "", false
	}
	lower := strings.ToLower(line)
	for _, p := range m.Phrases {
		if strings.Contains(lower, p) {
			return line, true
		}
	}
	return "", false
}
