// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance scores, ranks and condenses sections for a reader
// persona and a stated task. Everything here is a pure function of its
// inputs and the lexicon: the same sections, persona and job always
// produce the same ranking and the same excerpts.
package relevance

import (
	"strings"

	"github.com/pdiddy/persona-engine/internal/lexicon"
	"github.com/pdiddy/persona-engine/pkg/types"
)

// Resolver classifies free-text persona descriptions into canonical profiles.
type Resolver struct {
	lex *lexicon.Lexicon
}

// NewResolver returns a Resolver backed by lex.
func NewResolver(lex *lexicon.Lexicon) *Resolver {
	return &Resolver{lex: lex}
}

// Resolve returns the profile of the first persona whose trigger occurs in
// the lower-cased description, or the empty general profile.
func (r *Resolver) Resolve(description string) types.PersonaProfile {
	lower := strings.ToLower(description)
	for _, p := range r.lex.Personas {
		if lexicon.ContainsAny(lower, p.Triggers) {
			return r.lex.Profile(p.Type)
		}
	}
	return types.PersonaProfile{Type: types.PersonaGeneral}
}
