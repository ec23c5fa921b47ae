// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lexicon holds the keyword tables that drive segmentation and
// relevance scoring. A default lexicon is embedded in the binary; a file of
// the same shape can replace it. A loaded Lexicon is never modified, so one
// value may be shared by any number of goroutines.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/persona-engine/pkg/types"
)

//go:embed default.yaml
var defaultYAML []byte

// Persona describes one canonical persona: how it is recognized and what it
// cares about.
type Persona struct {
	Type       types.PersonaType             `yaml:"type" validate:"required"`
	Triggers   []string                      `yaml:"triggers" validate:"required,min=1,dive,required"`
	Keywords   []string                      `yaml:"keywords" validate:"required,min=1,dive,required"`
	Priorities map[types.SectionType]float64 `yaml:"priorities"`
}

// SectionBucket maps title keywords to a section type.
type SectionBucket struct {
	Type     types.SectionType `yaml:"type" validate:"required"`
	Keywords []string          `yaml:"keywords" validate:"required,min=1"`
}

// TitleRule is a group of content rules applied when the document name
// contains one of Document.
type TitleRule struct {
	Document []string      `yaml:"document" validate:"required,min=1"`
	Content  []ContentRule `yaml:"content" validate:"required,min=1,dive"`
}

// ContentRule yields Title when the content contains one of Any and, if
// Also is set, one of Also as well.
type ContentRule struct {
	Any   []string `yaml:"any" validate:"required,min=1"`
	Also  []string `yaml:"also,omitempty"`
	Title string   `yaml:"title" validate:"required"`
}

// Matches reports whether the rule applies to lower-cased content.
func (r ContentRule) Matches(content string) bool {
	if !ContainsAny(content, r.Any) {
		return false
	}
	return len(r.Also) == 0 || ContainsAny(content, r.Also)
}

// Lexicon is the full set of domain tables.
type Lexicon struct {
	DefaultPriority float64             `yaml:"default_priority" validate:"gte=0"`
	Personas        []Persona           `yaml:"personas" validate:"required,min=1,dive"`
	SkipTitles      []string            `yaml:"skip_titles"`
	HeaderPhrases   []string            `yaml:"header_phrases"`
	TopicIndicators []string            `yaml:"topic_indicators"`
	TitleRules      []TitleRule         `yaml:"title_rules" validate:"dive"`
	Locations       []string            `yaml:"locations"`
	TitleMarkers    []string            `yaml:"title_markers"`
	SectionTypes    []SectionBucket     `yaml:"section_types" validate:"dive"`
	Stopwords       []string            `yaml:"stopwords"`
	TechnicalTerms  []string            `yaml:"technical_terms"`
	ExplainedTypes  []types.SectionType `yaml:"explained_types"`

	skip      map[string]bool
	stop      map[string]bool
	explained map[types.SectionType]bool
}

// Default returns the embedded lexicon.
func Default() (*Lexicon, error) {
	return Parse(defaultYAML)
}

// Load reads a lexicon file. An empty path returns the embedded default.
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon %s: %w", path, err)
	}
	lex, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}
	return lex, nil
}

// Parse decodes and validates lexicon YAML.
func Parse(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parsing lexicon: %w", err)
	}
	if err := validator.New().Struct(&lex); err != nil {
		return nil, fmt.Errorf("validating lexicon: %w", err)
	}
	lex.index()
	return &lex, nil
}

func (l *Lexicon) index() {
	l.skip = toSet(l.SkipTitles)
	l.stop = toSet(l.Stopwords)
	l.explained = make(map[types.SectionType]bool, len(l.ExplainedTypes))
	for _, t := range l.ExplainedTypes {
		l.explained[t] = true
	}
}

// IsSkipTitle reports whether title is a generic heading that never names a section.
func (l *Lexicon) IsSkipTitle(title string) bool {
	return l.skip[strings.ToLower(strings.TrimSpace(title))]
}

// IsStopword reports whether a lower-cased word is ignored in job text.
func (l *Lexicon) IsStopword(word string) bool {
	return l.stop[word]
}

// IsExplained reports whether sections of type t get a type-specific rationale.
func (l *Lexicon) IsExplained(t types.SectionType) bool {
	return l.explained[t]
}

// Profile builds the read-only profile for a persona type. Unknown types,
// including general, get an empty profile.
func (l *Lexicon) Profile(t types.PersonaType) types.PersonaProfile {
	for _, p := range l.Personas {
		if p.Type == t {
			return types.PersonaProfile{
				Type:       p.Type,
				Keywords:   p.Keywords,
				Priorities: p.Priorities,
			}
		}
	}
	return types.PersonaProfile{Type: types.PersonaGeneral}
}

// Classify returns the section type for a title: the first bucket with a
// keyword contained in the lower-cased title, or general.
func (l *Lexicon) Classify(title string) types.SectionType {
	lower := strings.ToLower(title)
	for _, b := range l.SectionTypes {
		if ContainsAny(lower, b.Keywords) {
			return b.Type
		}
	}
	return types.SectionGeneral
}

// ContainsAny reports whether s contains any of the substrings.
func ContainsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func toSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[strings.ToLower(strings.TrimSpace(w))] = true
	}
	return m
}
