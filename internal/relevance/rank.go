// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"sort"

	"github.com/pdiddy/persona-engine/pkg/types"
)

// Rank scores every section and returns them by descending score with
// ranks 1..N. Equal scores keep their input order.
func Rank(sections []types.Section, scorer *Scorer) []types.RankedSection {
	ranked := make([]types.RankedSection, len(sections))
	for i, sec := range sections {
		ranked[i] = types.RankedSection{Section: sec, Score: scorer.Score(sec)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
