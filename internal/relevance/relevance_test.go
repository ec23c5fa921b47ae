// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/persona-engine/internal/lexicon"
	"github.com/pdiddy/persona-engine/pkg/types"
)

func testLexicon(t *testing.T) *lexicon.Lexicon {
	t.Helper()
	lex, err := lexicon.Default()
	require.NoError(t, err)
	return lex
}

func newTestScorer(t *testing.T, persona, job string) *Scorer {
	t.Helper()
	lex := testLexicon(t)
	return NewScorer(lex, NewResolver(lex).Resolve(persona), JobKeywords(lex, job))
}

func TestResolve(t *testing.T) {
	r := NewResolver(testLexicon(t))

	tests := []struct {
		description string
		want        types.PersonaType
	}{
		{"PhD Researcher in biology", types.PersonaResearcher},
		{"PhD student", types.PersonaResearcher},
		{"Undergraduate chemistry student", types.PersonaStudent},
		{"Investment Analyst", types.PersonaAnalyst},
		{"Startup founder", types.PersonaEntrepreneur},
		{"Freelance writer", types.PersonaJournalist},
		{"Travel Planner", types.PersonaTravel},
		{"Chef", types.PersonaGeneral},
		{"", types.PersonaGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got := r.Resolve(tt.description)
			assert.Equal(t, tt.want, got.Type)
		})
	}
}

func TestJobKeywords(t *testing.T) {
	lex := testLexicon(t)

	tests := []struct {
		job  string
		want []string
	}{
		{"Summarize the methodology and results", []string{"summarize", "methodology", "results"}},
		{"Plan a trip for 4 friends, plan the trip!", []string{"plan", "trip", "friends", "plan", "trip"}},
		{"it is on", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.job, func(t *testing.T) {
			assert.Equal(t, tt.want, JobKeywords(lex, tt.job))
		})
	}
}

func TestScorePrefersPersonaAlignedSection(t *testing.T) {
	s := newTestScorer(t, "PhD Researcher in biology", "Summarize the methodology and results")

	methods := types.Section{
		Title:   "Experimental Methods",
		Type:    types.SectionMethodology,
		Content: "We tested the hypothesis against field data and report results.",
	}
	general := types.Section{
		Title:   "Town Notes",
		Type:    types.SectionGeneral,
		Content: "Final results were shared with the town council.",
	}

	// persona: hypothesis, data; job: results; technical: data, result
	assert.InDelta(t, 0.2+0.9+0.15+0.04, s.Score(methods), 1e-9)
	// job: results; technical: result; unlisted type priority
	assert.InDelta(t, 0.3+0.15+0.02, s.Score(general), 1e-9)
	assert.Greater(t, s.Score(methods), s.Score(general))
}

func TestScoreGeneralPersonaHasNoPriority(t *testing.T) {
	s := newTestScorer(t, "Chef", "")
	sec := types.Section{Type: types.SectionMethodology, Content: "Plain words only here."}
	assert.Zero(t, s.Score(sec))
}

func TestScoreCountsRepeatedJobWords(t *testing.T) {
	s := newTestScorer(t, "Chef", "Plan a trip, then plan the trip budget")
	require.Equal(t, []string{"plan", "trip", "then", "plan", "trip", "budget"}, s.JobKeywords())

	sec := types.Section{Type: types.SectionGeneral, Content: "A short trip plan note."}

	// plan and trip each appear twice in the job
	assert.InDelta(t, 4*0.15, s.Score(sec), 1e-9)
}

func TestContentQuality(t *testing.T) {
	s := newTestScorer(t, "Chef", "")

	words := func(n int) string { return strings.TrimSpace(strings.Repeat("word ", n)) }

	tests := []struct {
		name    string
		content string
		want    float64
	}{
		{name: "ideal length", content: words(50), want: 0.1},
		{name: "upper ideal bound", content: words(500), want: 0.1},
		{name: "acceptable length", content: words(20), want: 0.05},
		{name: "too long", content: words(1001), want: 0},
		{name: "too short", content: words(5), want: 0},
		{name: "technical terms capped", content: "analysis research study method result data", want: 0.1},
		{name: "two technical terms", content: "data and method", want: 0.04},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, s.contentQuality(strings.ToLower(tt.content)), 1e-9)
		})
	}
}

func TestRank(t *testing.T) {
	s := newTestScorer(t, "researcher", "")

	sections := []types.Section{
		{Title: "first general", Type: types.SectionGeneral, Content: "Plain words only here."},
		{Title: "methods", Type: types.SectionMethodology, Content: "Plain words only here."},
		{Title: "second general", Type: types.SectionGeneral, Content: "Other plain words here."},
		{Title: "results", Type: types.SectionResults, Content: "Plain words only here."},
	}

	ranked := Rank(sections, s)

	require.Len(t, ranked, len(sections))
	var titles []string
	for i, r := range ranked {
		assert.Equal(t, i+1, r.Rank)
		titles = append(titles, r.Title)
		if i > 0 {
			assert.GreaterOrEqual(t, ranked[i-1].Score, r.Score)
		}
	}
	assert.Equal(t, []string{"methods", "results", "first general", "second general"}, titles)

	assert.Equal(t, ranked, Rank(sections, s), "ranking must be deterministic")
}

func TestRankEmpty(t *testing.T) {
	s := newTestScorer(t, "researcher", "")
	assert.Empty(t, Rank(nil, s))
}

func TestRefineKeySentences(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "short sentences are ignored",
			content: "Intro sentence. Good sentence mentioning biology research. Other filler.",
			want:    "Good sentence mentioning biology research.",
		},
		{
			name: "best sentences first",
			content: "The weather was pleasant for most of the trip. " +
				"We collected biology samples every morning at dawn. " +
				"Our biology study measured soil data across sites.",
			want: "Our biology study measured soil data across sites. We collected biology samples every morning at dawn.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRefiner(newTestScorer(t, "researcher", "biology study"), 5)
			assert.Equal(t, tt.want, r.keySentences(tt.content))
		})
	}
}

func TestRefineRepeatedJobWordsOutweighPersona(t *testing.T) {
	// "soil" twice in the job scores 2 per sentence; two persona keywords
	// score 0.5 each.
	r := NewRefiner(newTestScorer(t, "researcher", "soil survey of soil"), 5)
	content := "The hypothesis was checked against field data. " +
		"Every soil core was logged by hand."

	assert.Equal(t, "Every soil core was logged by hand. The hypothesis was checked against field data.", r.keySentences(content))
}

func TestRefineFallbackExcerpt(t *testing.T) {
	r := NewRefiner(newTestScorer(t, "researcher", "biology study"), 5)
	content := strings.Repeat("lorem ipsum ", 30)

	got := r.keySentences(content)

	assert.Equal(t, content[:200]+"...", got)
}

func TestRefineExplanation(t *testing.T) {
	tests := []struct {
		name    string
		persona string
		job     string
		section types.Section
		want    string
	}{
		{
			name:    "typed section with job keywords",
			persona: "PhD researcher",
			job:     "biology study",
			section: types.Section{Type: types.SectionMethodology, Content: "A biology study of soils."},
			want:    "Contains methodology content relevant to researcher work; Addresses key job requirements: biology, study",
		},
		{
			name:    "at most three keywords",
			persona: "Chef",
			job:     "alpha beta gamma delta",
			section: types.Section{Type: types.SectionGeneral, Content: "delta gamma beta alpha"},
			want:    "Addresses key job requirements: alpha, beta, gamma",
		},
		{
			name:    "repeated job words are cited again",
			persona: "Chef",
			job:     "plan the trip, plan it well",
			section: types.Section{Type: types.SectionGeneral, Content: "Plan each trip day."},
			want:    "Addresses key job requirements: plan, trip, plan",
		},
		{
			name:    "nothing matched",
			persona: "Chef",
			job:     "biology",
			section: types.Section{Type: types.SectionGeneral, Content: "Nothing relevant."},
			want:    noMatchExplanation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRefiner(newTestScorer(t, tt.persona, tt.job), 5)
			assert.Equal(t, tt.want, r.explain(tt.section))
		})
	}
}

func TestRefineTopK(t *testing.T) {
	s := newTestScorer(t, "researcher", "soil")
	var sections []types.Section
	for i := 0; i < 7; i++ {
		sections = append(sections, types.Section{
			Document: "field-notes",
			Page:     i + 1,
			Title:    "Soil Sampling Notes",
			Content:  "Soil cores were taken from every plot in the valley.",
			Type:     types.SectionGeneral,
		})
	}

	got := NewRefiner(s, 5).Refine(Rank(sections, s))

	require.Len(t, got, 5)
	for i, sub := range got {
		assert.Equal(t, i+1, sub.Page)
		assert.Equal(t, "field-notes", sub.Document)
		assert.Equal(t, "Soil cores were taken from every plot in the valley.", sub.RefinedText)
	}

	assert.Len(t, NewRefiner(s, 5).Refine(nil), 0)
}
