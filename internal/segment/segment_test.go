// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/persona-engine/internal/lexicon"
	"github.com/pdiddy/persona-engine/pkg/types"
)

func newTestSegmenter(t *testing.T, extra ...HeaderMatcher) *Segmenter {
	t.Helper()
	lex, err := lexicon.Default()
	require.NoError(t, err)
	return New(lex, types.DefaultPipelineConfig().Segment, extra...)
}

// fixedMatcher matches one exact line and returns a canned title.
type fixedMatcher struct {
	line  string
	title string
}

func (m fixedMatcher) Match(line string) (string, bool) {
	if line == m.line {
		return m.title, true
	}
	return "", false
}

func TestSegmentHeaders(t *testing.T) {
	s := newTestSegmenter(t)

	text := strings.Join([]string{
		"CULINARY EXPERIENCES IN PROVENCE",
		"Try the bouillabaisse in Marseille.",
		"",
		"  Visit local markets every morning.  ",
		"Nightlife and Entertainment",
		"Bars stay open late near the port.",
	}, "\n")

	got := s.Segment("France Cuisine", 3, text)

	require.Len(t, got, 2)
	assert.Equal(t, types.Section{
		Document: "France Cuisine",
		Page:     3,
		Title:    "CULINARY EXPERIENCES IN PROVENCE",
		Content:  "Try the bouillabaisse in Marseille. Visit local markets every morning.",
		Type:     types.SectionGeneral,
	}, got[0])
	assert.Equal(t, "Nightlife and Entertainment", got[1].Title)
	assert.Equal(t, "Bars stay open late near the port.", got[1].Content)
}

func TestSegmentSkipsGenericTitles(t *testing.T) {
	s := newTestSegmenter(t)

	text := strings.Join([]string{
		"Table Of Contents",
		"Chapter listing goes here.",
		"KEY ATTRACTIONS",
		"Some places worth a look.",
		"METHODS AND MATERIALS USED",
		"We sampled forty sites across the region.",
	}, "\n")

	got := s.Segment("survey", 1, text)

	require.Len(t, got, 1)
	assert.Equal(t, "METHODS AND MATERIALS USED", got[0].Title)
	assert.Equal(t, types.SectionMethodology, got[0].Type)
	assert.Equal(t, "We sampled forty sites across the region.", got[0].Content)
	for _, sec := range got {
		assert.False(t, s.lex.IsSkipTitle(sec.Title), sec.Title)
	}
}

func TestSegmentDropsHeaderWithoutContent(t *testing.T) {
	s := newTestSegmenter(t)

	text := "COASTAL ADVENTURES GUIDE\n\n   \nHISTORICAL LANDMARKS TOUR\nThe old fort dates from 1650."

	got := s.Segment("history", 2, text)

	require.Len(t, got, 1)
	assert.Equal(t, "HISTORICAL LANDMARKS TOUR", got[0].Title)
}

func TestSegmentContentExcludesHeaderLine(t *testing.T) {
	s := newTestSegmenter(t)

	text := "RESULTS OF THE FIELD STUDY\nYields rose by a third.\nDISCUSSION OF THE FINDINGS\nWeather explains most of it."
	got := s.Segment("report", 1, text)

	headers := s.findHeaders(strings.Split(text, "\n"))
	assert.LessOrEqual(t, len(got), len(headers))
	for _, sec := range got {
		assert.NotContains(t, sec.Content, sec.Title)
	}
}

func TestDetectHeaderMinLength(t *testing.T) {
	s := newTestSegmenter(t, fixedMatcher{line: "xx short header xx", title: "Short"})

	_, ok := s.DetectHeader("xx short header xx")
	assert.False(t, ok)

	s = newTestSegmenter(t, fixedMatcher{line: "xx long header xx", title: "A Long Enough Title"})
	title, ok := s.DetectHeader("xx long header xx")
	assert.True(t, ok)
	assert.Equal(t, "A Long Enough Title", title)
}

func TestDetectHeaderPatterns(t *testing.T) {
	s := newTestSegmenter(t)

	tests := []struct {
		name  string
		line  string
		want  string
		match bool
	}{
		{name: "numbered heading", line: "2. Data Collection Procedure", want: "2. Data Collection Procedure", match: true},
		{name: "title case phrase", line: "Famous Regional Dishes Explained", want: "Famous Regional Dishes Explained", match: true},
		{name: "guide prefix", line: "Comprehensive Guide to Major Cities", want: "Comprehensive Guide to Major Cities", match: true},
		{name: "phrase inside sentence", line: "Our packing guide covers layers and shoes.", want: "Our packing guide covers layers and shoes.", match: true},
		{name: "lower case prose", line: "the weather was mild all week", match: false},
		{name: "skip title", line: "Things To Do", match: false},
		{name: "blank", line: "   ", match: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.DetectHeader(tt.line)
			assert.Equal(t, tt.match, ok)
			if tt.match {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSegmentFallback(t *testing.T) {
	s := newTestSegmenter(t)

	para1 := "The coast offers beaches where you can swim, sail and relax under the sun all afternoon."
	para2 := "Evenings are lively and the old town bars stay open until late for visitors."
	para3 := "Nightlife and entertainment options range from intimate jazz clubs in the old quarter to lively dance halls that stay open near the harbor until dawn."
	text := strings.Join([]string{para1, "Short note.", para2, para3}, "\n\n")

	got := s.Segment("South of France - Things to Do", 4, text)

	require.Len(t, got, 2)
	assert.Equal(t, "Coastal Adventures and Beach Activities", got[0].Title)
	assert.Equal(t, para1+" "+para2, got[0].Content)
	assert.Equal(t, 4, got[0].Page)
	assert.Equal(t, "Nightlife and Entertainment Options", got[1].Title)
	assert.Equal(t, para3, got[1].Content)
}

func TestSegmentEmptyPage(t *testing.T) {
	s := newTestSegmenter(t)
	assert.Empty(t, s.Segment("doc", 1, ""))
	assert.Empty(t, s.Segment("doc", 1, "too short\n\nalso short"))
}

func TestStartsSection(t *testing.T) {
	s := newTestSegmenter(t)

	tests := []struct {
		name string
		para string
		want bool
	}{
		{name: "topic indicator", para: "Famous dishes include ratatouille and socca from the markets.", want: true},
		{name: "bullets", para: "Bring • sunscreen • a hat and comfortable walking shoes.", want: true},
		{name: "dashes", para: "Day one - markets - museums - a long dinner by the water.", want: true},
		{name: "plain prose", para: "The afternoon light over the valley is worth waiting for.", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.startsSection(firstSentence(tt.para), tt.para))
		})
	}
}

func TestSynthesizeTitle(t *testing.T) {
	s := newTestSegmenter(t)

	tests := []struct {
		name string
		doc  string
		para string
		want string
	}{
		{
			name: "document rule",
			doc:  "South of France - Cuisine",
			para: "A cooking class and market tour is the best way to learn the basics here.",
			want: "Culinary Experiences and Food Tours",
		},
		{
			name: "only first matching document group applies",
			doc:  "Tips and Tricks for Cities",
			para: "Pack light because you will walk a lot between attraction after attraction.",
			want: "Comprehensive Packing Guide and Travel Tips",
		},
		{
			name: "location",
			doc:  "notes",
			para: "We spent three days wandering the old streets of avignon and its bridge.",
			want: "Guide to Avignon",
		},
		{
			name: "hyphenated location",
			doc:  "notes",
			para: "Mornings in aix-en-provence start with coffee under the plane trees.",
			want: "Guide to Aix-En-Provence",
		},
		{
			name: "descriptive sentence",
			doc:  "notes",
			para: "This is the ultimate guide to slow travel. It covers everything you need.",
			want: "This is the ultimate guide to slow travel",
		},
		{
			name: "first sentence prefix",
			doc:  "notes",
			para: "walking along the river at dawn gives a calm view of the whole valley and hills.",
			want: "Walking Along The River At Dawn Gives A",
		},
		{
			name: "short first sentence",
			doc:  "notes",
			para: "bonjour. The rest of this paragraph is long enough to be kept around.",
			want: "Bonjour",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.synthesizeTitle(firstSentence(tt.para), tt.para, tt.doc)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Saint-Tropez", titleCase("saint-tropez"))
	assert.Equal(t, "Hello World", titleCase("hELLO wORLD"))
	assert.Equal(t, "", titleCase(""))
}
