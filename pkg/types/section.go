// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SectionType is the coarse category a section is classified into from its title.
type SectionType string

const (
	SectionSummary      SectionType = "summary"
	SectionIntroduction SectionType = "introduction"
	SectionMethodology  SectionType = "methodology"
	SectionResults      SectionType = "results"
	SectionAnalysis     SectionType = "analysis"
	SectionConclusion   SectionType = "conclusion"
	SectionFinancial    SectionType = "financial"
	SectionGeneral      SectionType = "general"
)

// Section is a titled unit of text detected on a single page. Sections are
// created once during segmentation and never modified afterwards.
type Section struct {
	// Document is the canonical name of the source document.
	Document string `json:"document" yaml:"document"`

	// Page is the 1-based page the section was found on.
	Page int `json:"page" yaml:"page"`

	// Title is the detected header line or a synthesized title.
	Title string `json:"title" yaml:"title"`

	// Content is the section body, whitespace-normalized. Never empty.
	Content string `json:"content" yaml:"content"`

	// Type is the classification derived from Title.
	Type SectionType `json:"type" yaml:"type"`
}

// RankedSection is a Section with its relevance score and 1-based rank.
type RankedSection struct {
	Section `yaml:",inline"`

	Rank  int     `json:"rank" yaml:"rank"`
	Score float64 `json:"score" yaml:"score"`
}

// RefinedSubsection is the condensed excerpt produced for one top-ranked section.
type RefinedSubsection struct {
	Document    string `json:"document" yaml:"document"`
	Page        int    `json:"page" yaml:"page"`
	RefinedText string `json:"refined_text" yaml:"refined_text"`
	Explanation string `json:"explanation" yaml:"explanation"`
}
