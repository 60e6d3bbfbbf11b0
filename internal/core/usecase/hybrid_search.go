package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/regiaodoslagos/concierge/internal/core/domain"
	"github.com/regiaodoslagos/concierge/internal/core/ports"
	"github.com/regiaodoslagos/concierge/internal/core/taxonomy"
)

const (
	defaultLimit = 10
	maxLimit     = 30

	// Queries longer than this are candidates for exact-name gating:
	// short fragments gate too aggressively.
	exactNameMinQueryLen = 5
)

// Gate names, recorded in SearchMeta.GatesApplied.
const (
	gateExactName      = "exact_name"
	gatePizzaExclusive = "pizza_exclusive"
	gateRelevance      = "relevance"
)

// HybridSearchUseCase fuses vector similarity and lexical search into
// one ranked partner list with deterministic tie-breaking, exact-name
// and category gating, and a fail-open relevance gate.
type HybridSearchUseCase struct {
	retriever *retriever
}

func NewHybridSearchUseCase(
	embedder ports.Embedder,
	vectorIndex ports.VectorIndex,
	textIndex ports.TextIndex,
	stageTimeout time.Duration,
) *HybridSearchUseCase {
	return &HybridSearchUseCase{
		retriever: newRetriever(embedder, vectorIndex, textIndex, stageTimeout),
	}
}

// Search never fails because one retrieval path errored; the worst
// outcome is an empty, valid result list. The query may be empty,
// meaning "browse all".
func (uc *HybridSearchUseCase) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	categoryFilter := taxonomy.MapAliasCategory(req.Categoria)

	meta := &domain.SearchMeta{}
	// Umbrella hints annotate metadata only; the resolved filter is
	// kept as-is. Clearing it here once broke specific alias-resolved
	// filters and was patched out.
	meta.UmbrellaHint = categoryFilter != "" && taxonomy.IsUmbrella(categoryFilter)

	signals := ExtractSignals(req.Query, categoryFilter)
	meta.Terms = signals.TermList()
	meta.WantedCategories = signals.CategoryList()

	state := uc.retriever.retrieve(ctx, req.Query, domain.SearchFilter{
		CidadeID:  req.CidadeID,
		Categoria: categoryFilter,
	}, limit, meta)

	merged := mergeByIdentity(state.vectorRows, state.textRows)

	var ranked []domain.PartnerCandidate
	if len(merged) == 0 {
		// Text rows without ids cannot be merged; fall back to raw
		// text-score ordering.
		ranked = orderRawTextRows(state.textRows)
	} else {
		scoreCandidates(merged, req.Query, state.cityFilter, state.categoryFilter)
		orderByFinalScore(merged)
		ranked = merged
	}

	ranked = uc.applyExactNameGate(req.Query, ranked, meta)
	ranked = uc.applyPizzaExclusivity(req.Query, ranked, meta)
	ranked = uc.applyRelevanceGate(ranked, signals, meta)

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if ranked == nil {
		ranked = []domain.PartnerCandidate{}
	}

	return &domain.SearchResponse{Items: ranked, Meta: meta}, nil
}

// applyExactNameGate short-circuits thematic ranking when the query is
// itself a venue name: if any candidate's normalized name contains, or
// is contained in, the normalized query, only those candidates remain.
func (uc *HybridSearchUseCase) applyExactNameGate(rawQuery string, ranked []domain.PartnerCandidate, meta *domain.SearchMeta) []domain.PartnerCandidate {
	query := strings.TrimSpace(rawQuery)
	if utf8.RuneCountInString(query) <= exactNameMinQueryLen {
		return ranked
	}

	normalizedQuery := taxonomy.Normalize(query)
	var matches []domain.PartnerCandidate
	for _, c := range ranked {
		name := taxonomy.Normalize(c.Nome)
		if name == "" {
			continue
		}
		if strings.Contains(normalizedQuery, name) || strings.Contains(name, normalizedQuery) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return ranked
	}

	meta.GatesApplied = append(meta.GatesApplied, gateExactName)
	return matches
}

// applyPizzaExclusivity keeps only pizzeria-category or pizza-keyword
// candidates for pizza queries, so a strong single-category query does
// not bleed into unrelated business types.
func (uc *HybridSearchUseCase) applyPizzaExclusivity(rawQuery string, ranked []domain.PartnerCandidate, meta *domain.SearchMeta) []domain.PartnerCandidate {
	if !pizzaPattern.MatchString(rawQuery) {
		return ranked
	}

	var matches []domain.PartnerCandidate
	for _, c := range ranked {
		text := taxonomy.Normalize(c.Nome) + " " + taxonomy.Normalize(c.Descricao)
		if taxonomy.Normalize(c.Categoria) == "pizzaria" || strings.Contains(text, "pizza") {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return ranked
	}

	meta.GatesApplied = append(meta.GatesApplied, gatePizzaExclusive)
	return matches
}

// applyRelevanceGate drops candidates below the affinity threshold,
// but fails open when nothing reaches it so broad or unmatched queries
// still return results.
func (uc *HybridSearchUseCase) applyRelevanceGate(ranked []domain.PartnerCandidate, signals domain.SearchSignals, meta *domain.SearchMeta) []domain.PartnerCandidate {
	var matches []domain.PartnerCandidate
	for _, c := range ranked {
		if bonus, _ := computeAffinity(c, signals); bonus >= relevanceGateThreshold {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return ranked
	}

	meta.GatesApplied = append(meta.GatesApplied, gateRelevance)
	return matches
}
