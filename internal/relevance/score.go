// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"strings"

	"github.com/pdiddy/persona-engine/internal/lexicon"
	"github.com/pdiddy/persona-engine/pkg/types"
)

// Score weights. The components are summed without normalization.
const (
	personaKeywordWeight = 0.1
	jobKeywordWeight     = 0.15

	qualityIdealBonus  = 0.1
	qualityAcceptBonus = 0.05
	technicalTermBonus = 0.02
	technicalTermCap   = 0.1
)

// Word-count bands for the content quality bonus, inclusive.
const (
	idealMinWords  = 50
	idealMaxWords  = 500
	acceptMinWords = 20
	acceptMaxWords = 1000
)

// Scorer computes relevance for one persona and one job. A Scorer is
// read-only once built.
type Scorer struct {
	lex         *lexicon.Lexicon
	profile     types.PersonaProfile
	jobKeywords []string
}

// NewScorer builds a Scorer for a resolved profile and the job keywords.
func NewScorer(lex *lexicon.Lexicon, profile types.PersonaProfile, jobKeywords []string) *Scorer {
	return &Scorer{lex: lex, profile: profile, jobKeywords: jobKeywords}
}

// Profile returns the persona profile the scorer was built for.
func (s *Scorer) Profile() types.PersonaProfile { return s.profile }

// JobKeywords returns the job keywords the scorer matches.
func (s *Scorer) JobKeywords() []string { return s.jobKeywords }

// Score returns 0.1 per persona keyword present, the section-type priority,
// 0.15 per job keyword present, and a content quality bonus.
func (s *Scorer) Score(sec types.Section) float64 {
	content := strings.ToLower(sec.Content)

	score := personaKeywordWeight * float64(countPresent(content, s.profile.Keywords))
	score += s.priority(sec.Type)
	score += jobKeywordWeight * float64(countPresent(content, s.jobKeywords))
	score += s.contentQuality(content)
	return score
}

// priority returns the profile's weight for a section type. The general
// persona has no priorities at all and contributes nothing.
func (s *Scorer) priority(t types.SectionType) float64 {
	if s.profile.Type == types.PersonaGeneral {
		return 0
	}
	if p, ok := s.profile.Priorities[t]; ok {
		return p
	}
	return s.lex.DefaultPriority
}

// contentQuality rewards moderate length and technical vocabulary.
func (s *Scorer) contentQuality(content string) float64 {
	var q float64
	words := len(strings.Fields(content))
	switch {
	case words >= idealMinWords && words <= idealMaxWords:
		q += qualityIdealBonus
	case words >= acceptMinWords && words <= acceptMaxWords:
		q += qualityAcceptBonus
	}
	q += min(technicalTermBonus*float64(countPresent(content, s.lex.TechnicalTerms)), technicalTermCap)
	return q
}
