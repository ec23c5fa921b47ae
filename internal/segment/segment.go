// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits one page of raw text into titled sections.
//
// A page is first scanned for header lines. When any are found, each header
// owns the lines up to the next header. When none are found, the page is cut
// into paragraphs and sections are opened on topic changes, with titles
// synthesized from the document name and the paragraph content.
package segment

import (
	"strings"

	"github.com/pdiddy/persona-engine/internal/lexicon"
	"github.com/pdiddy/persona-engine/pkg/types"
)

const (
	// phraseMinLen and phraseMaxLen bound lines accepted by the header
	// phrase matcher (exclusive).
	phraseMinLen = 15
	phraseMaxLen = 120
)

// Segmenter turns page text into sections. It holds no mutable state and
// is safe for concurrent use.
type Segmenter struct {
	lex      *lexicon.Lexicon
	cfg      types.SegmentConfig
	matchers []HeaderMatcher
}

// New returns a Segmenter using the built-in header patterns followed by a
// phrase matcher over the lexicon's header phrases. Extra matchers, if
// given, are tried after those.
func New(lex *lexicon.Lexicon, cfg types.SegmentConfig, extra ...HeaderMatcher) *Segmenter {
	matchers := make([]HeaderMatcher, 0, len(compiledPatterns)+1+len(extra))
	matchers = append(matchers, compiledPatterns...)
	matchers = append(matchers, PhraseMatcher{
		Phrases: lex.HeaderPhrases,
		MinLen:  phraseMinLen,
		MaxLen:  phraseMaxLen,
	})
	matchers = append(matchers, extra...)
	return &Segmenter{lex: lex, cfg: cfg, matchers: matchers}
}

// header is a detected header line.
type header struct {
	line  int
	title string
}

// Segment returns the sections found on one page, in page order.
func (s *Segmenter) Segment(doc string, page int, text string) []types.Section {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	headers := s.findHeaders(lines)
	if len(headers) == 0 {
		return s.segmentByContent(doc, page, text)
	}

	var sections []types.Section
	for i, h := range headers {
		end := len(lines)
		if i+1 < len(headers) {
			end = headers[i+1].line
		}
		var body []string
		for _, line := range lines[h.line+1 : end] {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				body = append(body, trimmed)
			}
		}
		sections = s.emit(sections, doc, page, h.title, strings.Join(body, " "))
	}
	return sections
}

// DetectHeader reports the title a single line would open, if any.
func (s *Segmenter) DetectHeader(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || s.lex.IsSkipTitle(line) {
		return "", false
	}
	for _, m := range s.matchers {
		title, ok := m.Match(line)
		if !ok {
			continue
		}
		if s.lex.IsSkipTitle(title) || len([]rune(title)) <= s.cfg.MinTitleLength {
			continue
		}
		return title, true
	}
	return "", false
}

func (s *Segmenter) findHeaders(lines []string) []header {
	var headers []header
	for i, line := range lines {
		if title, ok := s.DetectHeader(line); ok {
			headers = append(headers, header{line: i, title: title})
		}
	}
	return headers
}

// emit appends a section unless it has no content or a generic title.
func (s *Segmenter) emit(sections []types.Section, doc string, page int, title, content string) []types.Section {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" || s.lex.IsSkipTitle(title) {
		return sections
	}
	return append(sections, types.Section{
		Document: doc,
		Page:     page,
		Title:    title,
		Content:  content,
		Type:     s.lex.Classify(title),
	})
}
