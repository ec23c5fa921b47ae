// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PersonaType is one of the canonical reader personas.
type PersonaType string

const (
	PersonaResearcher   PersonaType = "researcher"
	PersonaStudent      PersonaType = "student"
	PersonaAnalyst      PersonaType = "analyst"
	PersonaEntrepreneur PersonaType = "entrepreneur"
	PersonaJournalist   PersonaType = "journalist"
	PersonaTravel       PersonaType = "travel"
	PersonaGeneral      PersonaType = "general"
)

// PersonaProfile carries the keyword list and section priorities for one
// persona type. Profiles are built once from the lexicon and shared read-only.
type PersonaProfile struct {
	Type PersonaType `json:"type" yaml:"type"`

	// Keywords are matched as substrings of lower-cased section content.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Priorities maps a section type to its weight. Types not listed fall
	// back to the lexicon's default priority.
	Priorities map[SectionType]float64 `json:"priorities" yaml:"priorities"`
}
