package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/regiaodoslagos/concierge/internal/core/domain"
	"github.com/regiaodoslagos/concierge/internal/core/taxonomy"
)

// Fixed scores assigned at this boundary for text fallbacks that carry
// no intrinsic similarity measure.
const (
	legacyDefaultTextScore = 0.5
	substringScanTextScore = 0.4
	tableScanMaxRows       = 500
)

// PartnerIndex serves the vector and lexical retrieval paths over the
// parceiros table. Rows are normalized into PartnerCandidate here;
// upper layers never see SQL shapes.
type PartnerIndex struct {
	db *sql.DB
}

func NewPartnerIndex(db *sql.DB) *PartnerIndex {
	return &PartnerIndex{db: db}
}

func (x *PartnerIndex) SearchVector(ctx context.Context, embedding []float32, filter domain.SearchFilter, count int) ([]domain.PartnerCandidate, error) {
	where := []string{"ativo", "embedding IS NOT NULL"}
	args := []any{encodeVector(embedding)}
	where, args = appendFilterClauses(where, args, filter)

	args = append(args, count)
	query := fmt.Sprintf(`
SELECT id, nome, categoria, descricao, COALESCE(cidade_id, ''), 1 - (embedding <=> $1::vector) AS score
FROM parceiros
WHERE %s
ORDER BY embedding <=> $1::vector
LIMIT $%d
`, strings.Join(where, " AND "), len(args))

	rows, err := x.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	return scanCandidates(rows, func(c *domain.PartnerCandidate, score float64) {
		c.ScoreVector = score
	})
}

func (x *PartnerIndex) SearchText(ctx context.Context, term string, filter domain.SearchFilter, count int) ([]domain.PartnerCandidate, error) {
	term = strings.TrimSpace(term)
	pattern := "%" + term + "%"

	where := []string{"ativo", "(unaccent(nome) ILIKE unaccent($2) OR unaccent(descricao) ILIKE unaccent($2))"}
	args := []any{term, pattern}
	where, args = appendFilterClauses(where, args, filter)

	args = append(args, count)
	query := fmt.Sprintf(`
SELECT id, nome, categoria, descricao, COALESCE(cidade_id, ''),
	GREATEST(similarity(nome, $1), similarity(descricao, $1)) AS score
FROM parceiros
WHERE %s
ORDER BY score DESC, nome ASC
LIMIT $%d
`, strings.Join(where, " AND "), len(args))

	rows, err := x.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}
	defer rows.Close()

	return scanCandidates(rows, func(c *domain.PartnerCandidate, score float64) {
		c.ScoreText = score
	})
}

func (x *PartnerIndex) KeywordSearch(ctx context.Context, filter domain.SearchFilter, term string, count int) ([]domain.PartnerCandidate, error) {
	tokens := taxonomy.Tokenize(term)
	if len(tokens) == 0 {
		tokens = []string{strings.TrimSpace(term)}
	}

	where := []string{"ativo"}
	args := []any{}
	where, args = appendFilterClauses(where, args, filter)

	matches := make([]string, 0, len(tokens))
	for _, token := range tokens {
		args = append(args, "%"+token+"%")
		matches = append(matches, fmt.Sprintf("(unaccent(nome) ILIKE unaccent($%d) OR unaccent(descricao) ILIKE unaccent($%d))", len(args), len(args)))
	}
	where = append(where, "("+strings.Join(matches, " OR ")+")")

	args = append(args, count)
	query := fmt.Sprintf(`
SELECT id, nome, categoria, descricao, COALESCE(cidade_id, '')
FROM parceiros
WHERE %s
ORDER BY nome ASC
LIMIT $%d
`, strings.Join(where, " AND "), len(args))

	rows, err := x.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	defer rows.Close()

	out, err := scanScorelessCandidates(rows)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].ScoreText = legacyDefaultTextScore
	}
	return out, nil
}

// SubstringScan reads the (filtered) table and matches the term against
// accent-folded name and description client-side. It is the retrieval
// path of last resort and stays bounded by tableScanMaxRows.
func (x *PartnerIndex) SubstringScan(ctx context.Context, term string, filter domain.SearchFilter) ([]domain.PartnerCandidate, error) {
	where := []string{"ativo"}
	args := []any{}
	where, args = appendFilterClauses(where, args, filter)

	args = append(args, tableScanMaxRows)
	query := fmt.Sprintf(`
SELECT id, nome, categoria, descricao, COALESCE(cidade_id, '')
FROM parceiros
WHERE %s
ORDER BY nome ASC
LIMIT $%d
`, strings.Join(where, " AND "), len(args))

	rows, err := x.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("substring scan: %w", err)
	}
	defer rows.Close()

	all, err := scanScorelessCandidates(rows)
	if err != nil {
		return nil, err
	}

	needle := taxonomy.Normalize(term)
	if needle == "" {
		return nil, nil
	}

	var out []domain.PartnerCandidate
	for _, c := range all {
		if strings.Contains(taxonomy.Normalize(c.Nome), needle) || strings.Contains(taxonomy.Normalize(c.Descricao), needle) {
			c.ScoreText = substringScanTextScore
			out = append(out, c)
		}
	}
	return out, nil
}

func scanCandidates(rows *sql.Rows, assign func(*domain.PartnerCandidate, float64)) ([]domain.PartnerCandidate, error) {
	var out []domain.PartnerCandidate
	for rows.Next() {
		var c domain.PartnerCandidate
		var score float64
		if err := rows.Scan(&c.ID, &c.Nome, &c.Categoria, &c.Descricao, &c.CidadeID, &score); err != nil {
			return nil, fmt.Errorf("scan candidate row: %w", err)
		}
		assign(&c, score)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidate rows: %w", err)
	}
	return out, nil
}

func scanScorelessCandidates(rows *sql.Rows) ([]domain.PartnerCandidate, error) {
	var out []domain.PartnerCandidate
	for rows.Next() {
		var c domain.PartnerCandidate
		if err := rows.Scan(&c.ID, &c.Nome, &c.Categoria, &c.Descricao, &c.CidadeID); err != nil {
			return nil, fmt.Errorf("scan candidate row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidate rows: %w", err)
	}
	return out, nil
}
