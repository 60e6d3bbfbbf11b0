package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/regiaodoslagos/concierge/internal/core/domain"
	"github.com/regiaodoslagos/concierge/internal/core/ports"
	"github.com/regiaodoslagos/concierge/internal/core/taxonomy"
)

// Stage names, recorded in SearchMeta.
const (
	stageEmbedding    = "embedding"
	stagePrimary      = "primary"
	stageDropCategory = "drop_category"
	stageDropCity     = "drop_city"
	stageLegacyText   = "legacy_text"
	stageTableScan    = "table_scan"
)

const defaultStageTimeout = 3 * time.Second

// searchState carries the filter state and accumulated rows across the
// staged backoff sequence. Later stages relax the filters left by
// earlier ones; the final filter values also drive the city/category
// score bonuses.
type searchState struct {
	cityFilter     string
	categoryFilter string
	vectorRows     []domain.PartnerCandidate
	textRows       []domain.PartnerCandidate
}

func (s *searchState) total() int {
	return len(s.vectorRows) + len(s.textRows)
}

// retriever executes the staged retrieval strategy. Every underlying
// call error is caught into the stage report and treated as zero rows;
// retrieval as a whole never fails.
type retriever struct {
	embedder     ports.Embedder
	vectorIndex  ports.VectorIndex
	textIndex    ports.TextIndex
	stageTimeout time.Duration
}

func newRetriever(embedder ports.Embedder, vectorIndex ports.VectorIndex, textIndex ports.TextIndex, stageTimeout time.Duration) *retriever {
	if stageTimeout <= 0 {
		stageTimeout = defaultStageTimeout
	}
	return &retriever{
		embedder:     embedder,
		vectorIndex:  vectorIndex,
		textIndex:    textIndex,
		stageTimeout: stageTimeout,
	}
}

func (r *retriever) retrieve(ctx context.Context, query string, filter domain.SearchFilter, count int, meta *domain.SearchMeta) *searchState {
	state := &searchState{
		cityFilter:     filter.CidadeID,
		categoryFilter: filter.Categoria,
	}

	embedding := r.embedQuery(ctx, query, meta)

	r.runStage(ctx, stagePrimary, state, embedding, query, count, meta)

	if state.total() == 0 && state.categoryFilter != "" {
		state.categoryFilter = ""
		r.runStage(ctx, stageDropCategory, state, embedding, query, count, meta)
	}

	if state.total() == 0 && state.cityFilter != "" {
		state.cityFilter = ""
		r.runStage(ctx, stageDropCity, state, embedding, query, count, meta)
	}

	if len(state.textRows) == 0 && strings.TrimSpace(query) != "" {
		r.runLegacyText(ctx, state, query, count, meta)
	}

	if len(state.textRows) == 0 && strings.TrimSpace(query) != "" {
		r.runTableScan(ctx, state, query, meta)
	}

	meta.VectorCount = len(state.vectorRows)
	meta.TextCount = len(state.textRows)
	meta.FiltroCidade = state.cityFilter
	meta.FiltroCategoria = state.categoryFilter
	return state
}

// embedQuery computes the query embedding once for all stages. A
// missing provider or empty query is a soft skip, not an error; a
// per-call failure is recorded and likewise yields no vector.
func (r *retriever) embedQuery(ctx context.Context, query string, meta *domain.SearchMeta) []float32 {
	if r.embedder == nil || strings.TrimSpace(query) == "" {
		return nil
	}

	embedCtx, cancel := context.WithTimeout(ctx, r.stageTimeout)
	defer cancel()

	vector, err := r.embedder.EmbedQuery(embedCtx, query)
	if err != nil {
		report := domain.StageReport{Stage: stageEmbedding, Attempted: true}
		if !domain.IsKind(err, domain.ErrEmbeddingUnavailable) {
			report.Error = err.Error()
		}
		meta.Stages = append(meta.Stages, report)
		return nil
	}
	return vector
}

// runStage issues vector search (when an embedding exists) and text
// search in parallel under the current filter state. The two results
// are merged later without ordering dependency, so neither waits on
// the other.
func (r *retriever) runStage(ctx context.Context, stage string, state *searchState, embedding []float32, query string, count int, meta *domain.SearchMeta) {
	stageCtx, cancel := context.WithTimeout(ctx, r.stageTimeout)
	defer cancel()

	filter := domain.SearchFilter{CidadeID: state.cityFilter, Categoria: state.categoryFilter}

	var (
		wg         sync.WaitGroup
		vectorRows []domain.PartnerCandidate
		textRows   []domain.PartnerCandidate
		vectorErr  error
		textErr    error
	)

	if len(embedding) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vectorRows, vectorErr = r.vectorIndex.SearchVector(stageCtx, embedding, filter, count)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		textRows, textErr = r.textIndex.SearchText(stageCtx, query, filter, count)
	}()

	wg.Wait()

	if vectorErr != nil {
		vectorRows = nil
	}
	if textErr != nil {
		textRows = nil
	}
	state.vectorRows = vectorRows
	state.textRows = textRows

	meta.Stages = append(meta.Stages, domain.StageReport{
		Stage:     stage,
		Attempted: true,
		Count:     len(vectorRows) + len(textRows),
		Error:     joinErrors(vectorErr, textErr),
	})
}

func (r *retriever) runLegacyText(ctx context.Context, state *searchState, query string, count int, meta *domain.SearchMeta) {
	stageCtx, cancel := context.WithTimeout(ctx, r.stageTimeout)
	defer cancel()

	filter := domain.SearchFilter{CidadeID: state.cityFilter, Categoria: state.categoryFilter}
	rows, err := r.textIndex.KeywordSearch(stageCtx, filter, taxonomy.Normalize(query), count)
	if err != nil {
		rows = nil
	}
	state.textRows = rows

	meta.Stages = append(meta.Stages, domain.StageReport{
		Stage:     stageLegacyText,
		Attempted: true,
		Count:     len(rows),
		Error:     joinErrors(err),
	})
}

func (r *retriever) runTableScan(ctx context.Context, state *searchState, query string, meta *domain.SearchMeta) {
	stageCtx, cancel := context.WithTimeout(ctx, r.stageTimeout)
	defer cancel()

	// The table scan must honor whatever category/city filters are
	// still active; ignoring them here used to leak cross-category
	// matches into otherwise filtered searches.
	filter := domain.SearchFilter{CidadeID: state.cityFilter, Categoria: state.categoryFilter}
	rows, err := r.textIndex.SubstringScan(stageCtx, taxonomy.Normalize(query), filter)
	if err != nil {
		rows = nil
	}
	state.textRows = rows

	meta.Stages = append(meta.Stages, domain.StageReport{
		Stage:     stageTableScan,
		Attempted: true,
		Count:     len(rows),
		Error:     joinErrors(err),
	})
}

func joinErrors(errs ...error) string {
	var parts []string
	for _, err := range errs {
		if err != nil {
			parts = append(parts, err.Error())
		}
	}
	return strings.Join(parts, "; ")
}
