package usecase

import (
	"strings"

	"github.com/regiaodoslagos/concierge/internal/core/domain"
	"github.com/regiaodoslagos/concierge/internal/core/taxonomy"
)

// Affinity weights. The affinity bonus is only used to gate the ranked
// list (see relevanceGateThreshold); it never feeds the primary score.
const (
	categoryAffinityWeight = 0.20
	termAffinityWeight     = 0.06
	termAffinityCap        = 0.30

	// relevanceGateThreshold is the minimum affinity bonus for a
	// candidate to survive the relevance gate. When no candidate
	// reaches it the gate fails open.
	relevanceGateThreshold = 0.18
)

// computeAffinity scores how well a candidate matches the extracted
// signals: a fixed weight for a wanted-category match plus a capped
// per-term bonus for every signal term found in name or description.
func computeAffinity(candidate domain.PartnerCandidate, signals domain.SearchSignals) (bonus float64, hits int) {
	if len(signals.WantedCategories) > 0 {
		if _, ok := signals.WantedCategories[taxonomy.Normalize(candidate.Categoria)]; ok {
			bonus += categoryAffinityWeight
		}
	}

	if len(signals.Terms) > 0 {
		haystack := taxonomy.Normalize(candidate.Nome) + " " + taxonomy.Normalize(candidate.Descricao)
		for term := range signals.Terms {
			if term != "" && strings.Contains(haystack, term) {
				hits++
			}
		}
		termBonus := float64(hits) * termAffinityWeight
		if termBonus > termAffinityCap {
			termBonus = termAffinityCap
		}
		bonus += termBonus
	}

	return bonus, hits
}
