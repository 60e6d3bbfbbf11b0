package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/regiaodoslagos/concierge/internal/core/domain"
	"github.com/regiaodoslagos/concierge/internal/core/taxonomy"
)

// Primary score weights. Vector similarity dominates lexical overlap
// because embeddings capture conversational intent better in this
// domain; the lexical score mostly breaks semantic near-ties.
const (
	vectorWeight = 0.85
	textWeight   = 0.15

	cityMatchBonus     = 0.10
	categoryMatchBonus = 0.10

	pizzaCategoryBonus = 0.25
	pizzaKeywordBonus  = 0.20
	sushiCategoryBonus = 0.25
	sushiKeywordBonus  = 0.20
	meatCategoryBonus  = 0.20
	meatKeywordBonus   = 0.15
)

var (
	pizzaPattern = regexp.MustCompile(`(?i)pizza|pizzaria`)
	sushiPattern = regexp.MustCompile(`(?i)sushi|japon`)
	meatPattern  = regexp.MustCompile(`(?i)churras|picanha|carne`)
)

var sushiCategories = map[string]struct{}{
	"sushi":    {},
	"japonesa": {},
	"japones":  {},
}

var meatCategories = map[string]struct{}{
	"churrascaria": {},
	"carne":        {},
}

// mergeByIdentity folds vector and text rows into one candidate per
// id, preserving vector-then-text insertion order so later stable
// sorting breaks score ties deterministically. Rows without an id are
// dropped; the same id in both sets keeps the vector score and the
// maximum text score observed.
func mergeByIdentity(vectorRows, textRows []domain.PartnerCandidate) []domain.PartnerCandidate {
	byID := make(map[string]int, len(vectorRows)+len(textRows))
	merged := make([]domain.PartnerCandidate, 0, len(vectorRows)+len(textRows))

	for _, row := range vectorRows {
		if row.ID == "" {
			continue
		}
		if _, ok := byID[row.ID]; ok {
			continue
		}
		candidate := row
		candidate.ScoreText = 0
		byID[row.ID] = len(merged)
		merged = append(merged, candidate)
	}

	for _, row := range textRows {
		if row.ID == "" {
			continue
		}
		if idx, ok := byID[row.ID]; ok {
			if row.ScoreText > merged[idx].ScoreText {
				merged[idx].ScoreText = row.ScoreText
			}
			continue
		}
		candidate := row
		candidate.ScoreVector = 0
		byID[row.ID] = len(merged)
		merged = append(merged, candidate)
	}

	return merged
}

// scoreCandidates computes the weighted final score plus contextual
// bonuses in place. cityFilter/categoryFilter are the filter values as
// left by the backoff stages.
func scoreCandidates(candidates []domain.PartnerCandidate, rawQuery, cityFilter, categoryFilter string) {
	queryPizza := pizzaPattern.MatchString(rawQuery)
	querySushi := sushiPattern.MatchString(rawQuery)
	queryMeat := meatPattern.MatchString(rawQuery)

	for i := range candidates {
		c := &candidates[i]
		score := vectorWeight*c.ScoreVector + textWeight*c.ScoreText

		if cityFilter != "" && c.CidadeID == cityFilter {
			score += cityMatchBonus
		}

		category := taxonomy.Normalize(c.Categoria)
		if categoryFilter != "" && category == categoryFilter {
			score += categoryMatchBonus
		}

		text := taxonomy.Normalize(c.Nome) + " " + taxonomy.Normalize(c.Descricao)

		if queryPizza {
			if category == "pizzaria" {
				score += pizzaCategoryBonus
			}
			if strings.Contains(text, "pizza") {
				score += pizzaKeywordBonus
			}
		}
		if querySushi {
			if _, ok := sushiCategories[category]; ok {
				score += sushiCategoryBonus
			}
			if strings.Contains(text, "sushi") || strings.Contains(text, "japon") {
				score += sushiKeywordBonus
			}
		}
		if queryMeat {
			if _, ok := meatCategories[category]; ok {
				score += meatCategoryBonus
			}
			if strings.Contains(text, "picanha") || strings.Contains(text, "churras") {
				score += meatKeywordBonus
			}
		}

		c.ScoreFinal = score
	}
}

// orderByFinalScore sorts candidates by final score descending. The
// sort is stable, so ties keep the merge insertion order.
func orderByFinalScore(candidates []domain.PartnerCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ScoreFinal > candidates[j].ScoreFinal
	})
}

// orderRawTextRows is the fallback ordering when the merge produced no
// candidates: raw text score descending, tie-broken by name.
func orderRawTextRows(rows []domain.PartnerCandidate) []domain.PartnerCandidate {
	out := make([]domain.PartnerCandidate, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ScoreText != out[j].ScoreText {
			return out[i].ScoreText > out[j].ScoreText
		}
		return strings.ToLower(out[i].Nome) < strings.ToLower(out[j].Nome)
	})
	for i := range out {
		out[i].ScoreFinal = out[i].ScoreText
	}
	return out
}
