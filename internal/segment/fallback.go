// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"strings"
	"unicode"

	"github.com/pdiddy/persona-engine/internal/lexicon"
	"github.com/pdiddy/persona-engine/pkg/types"
)

const (
	// indicatorWindow is how many leading characters of a paragraph are
	// searched for topic indicators.
	indicatorWindow = 100

	// A paragraph with this many bullets or dashes reads as a list and
	// starts a new section.
	minBullets = 2
	minDashes  = 3
)

// segmentByContent builds sections from paragraphs when a page has no
// recognizable headers.
func (s *Segmenter) segmentByContent(doc string, page int, text string) []types.Section {
	var (
		sections []types.Section
		title    string
		parts    []string
	)

	flush := func() {
		if len(parts) > 0 {
			sections = s.emit(sections, doc, page, title, strings.Join(parts, " "))
		}
		parts = nil
	}

	for _, para := range s.paragraphs(text) {
		first := firstSentence(para)
		if parts == nil || s.startsSection(first, para) {
			flush()
			title = s.synthesizeTitle(first, para, doc)
		}
		parts = append(parts, para)
	}
	flush()

	return sections
}

// paragraphs splits text on blank lines, collapses whitespace, and drops
// paragraphs too short to stand alone.
func (s *Segmenter) paragraphs(text string) []string {
	var out []string
	for _, raw := range strings.Split(text, "\n\n") {
		para := strings.Join(strings.Fields(raw), " ")
		if len([]rune(para)) > s.cfg.MinParagraphLength {
			out = append(out, para)
		}
	}
	return out
}

// firstSentence returns the text before the first period, or the first
// indicatorWindow characters when there is none.
func firstSentence(para string) string {
	if i := strings.IndexByte(para, '.'); i >= 0 {
		return para[:i]
	}
	return truncate(para, indicatorWindow)
}

func (s *Segmenter) startsSection(first, para string) bool {
	firstLower := strings.ToLower(first)
	head := strings.ToLower(truncate(para, indicatorWindow))
	for _, indicator := range s.lex.TopicIndicators {
		if strings.Contains(firstLower, indicator) || strings.Contains(head, indicator) {
			return true
		}
	}
	return strings.Count(para, "•") >= minBullets || strings.Count(para, "-") >= minDashes
}

// synthesizeTitle picks a title for a paragraph that opens a section. Rules
// are tried in order: document-specific content rules, a mentioned
// location, a descriptive opening sentence, then a prefix of the first
// sentence.
func (s *Segmenter) synthesizeTitle(first, para, doc string) string {
	content := strings.ToLower(para)
	docLower := strings.ToLower(doc)

	for _, group := range s.lex.TitleRules {
		if !lexicon.ContainsAny(docLower, group.Document) {
			continue
		}
		for _, rule := range group.Content {
			if rule.Matches(content) {
				return rule.Title
			}
		}
		break
	}

	for _, loc := range s.lex.Locations {
		if strings.Contains(content, loc) {
			return "Guide to " + titleCase(loc)
		}
	}

	sentences := strings.Split(para, ".")
	for i := 0; i < len(sentences) && i < 2; i++ {
		sentence := strings.TrimSpace(sentences[i])
		n := len([]rune(sentence))
		if n > 20 && n < 80 && lexicon.ContainsAny(strings.ToLower(sentence), s.lex.TitleMarkers) {
			return sentence
		}
	}

	words := strings.Fields(first)
	if len(words) > 3 {
		title := titleCase(strings.Join(words[:min(8, len(words))], " "))
		if len([]rune(title)) < 80 {
			return title
		}
		return titleCase(strings.Join(words[:min(5, len(words))], " "))
	}
	return truncate(titleCase(strings.TrimSpace(first)), 50)
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest, so "aix-en-provence" becomes "Aix-En-Provence".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWord := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if inWord {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			inWord = true
			continue
		}
		inWord = false
		b.WriteRune(r)
	}
	return b.String()
}

// truncate returns at most n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
