package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/regiaodoslagos/concierge/internal/core/domain"
)

// embeddingDims matches the OpenAI text-embedding-3-small output size.
const embeddingDims = 1536

type PartnerRepository struct {
	db *sql.DB
}

func NewPartnerRepository(db *sql.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *PartnerRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026053101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	query := fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;
CREATE EXTENSION IF NOT EXISTS pg_trgm;
CREATE EXTENSION IF NOT EXISTS unaccent;

CREATE TABLE IF NOT EXISTS parceiros (
	id TEXT PRIMARY KEY,
	nome TEXT NOT NULL,
	categoria TEXT NOT NULL,
	descricao TEXT NOT NULL DEFAULT '',
	cidade_id TEXT,
	ativo BOOLEAN NOT NULL DEFAULT TRUE,
	embedding vector(%d),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_parceiros_categoria ON parceiros(categoria);
CREATE INDEX IF NOT EXISTS idx_parceiros_cidade ON parceiros(cidade_id);
CREATE INDEX IF NOT EXISTS idx_parceiros_nome_trgm ON parceiros USING gin (nome gin_trgm_ops);
CREATE INDEX IF NOT EXISTS idx_parceiros_descricao_trgm ON parceiros USING gin (descricao gin_trgm_ops);
CREATE INDEX IF NOT EXISTS idx_parceiros_embedding ON parceiros USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);
`, embeddingDims)
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *PartnerRepository) Create(ctx context.Context, partner *domain.Partner) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO parceiros (
	id, nome, categoria, descricao, cidade_id, ativo, created_at, updated_at
) VALUES ($1,$2,$3,$4,NULLIF($5,''),$6,$7,$8)
`,
		partner.ID, partner.Nome, partner.Categoria, partner.Descricao,
		partner.CidadeID, partner.Ativo, partner.CreatedAt, partner.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert partner: %w", err)
	}
	return nil
}

func (r *PartnerRepository) GetByID(ctx context.Context, id string) (*domain.Partner, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, nome, categoria, descricao, COALESCE(cidade_id, ''), ativo, created_at, updated_at
FROM parceiros
WHERE id = $1
`, id)

	var p domain.Partner
	err := row.Scan(&p.ID, &p.Nome, &p.Categoria, &p.Descricao, &p.CidadeID, &p.Ativo, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrPartnerNotFound, "get partner", err)
		}
		return nil, fmt.Errorf("scan partner: %w", err)
	}
	return &p, nil
}

func (r *PartnerRepository) List(ctx context.Context, filter domain.SearchFilter, limit int) ([]domain.Partner, error) {
	where := []string{"ativo"}
	args := []any{}
	where, args = appendFilterClauses(where, args, filter)

	args = append(args, limit)
	query := fmt.Sprintf(`
SELECT id, nome, categoria, descricao, COALESCE(cidade_id, ''), ativo, created_at, updated_at
FROM parceiros
WHERE %s
ORDER BY nome ASC
LIMIT $%d
`, strings.Join(where, " AND "), len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	defer rows.Close()

	var out []domain.Partner
	for rows.Next() {
		var p domain.Partner
		if err := rows.Scan(&p.ID, &p.Nome, &p.Categoria, &p.Descricao, &p.CidadeID, &p.Ativo, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan partner row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partner rows: %w", err)
	}
	return out, nil
}

func (r *PartnerRepository) Update(ctx context.Context, partner *domain.Partner) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE parceiros
SET nome = $2, categoria = $3, descricao = $4, cidade_id = NULLIF($5,''), ativo = $6, updated_at = $7
WHERE id = $1
`,
		partner.ID, partner.Nome, partner.Categoria, partner.Descricao,
		partner.CidadeID, partner.Ativo, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update partner: %w", err)
	}
	return requireRowAffected(res, "update partner", partner.ID)
}

func (r *PartnerRepository) UpdateEmbedding(ctx context.Context, id string, vector []float32) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE parceiros
SET embedding = $2::vector, updated_at = $3
WHERE id = $1
`, id, encodeVector(vector), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update partner embedding: %w", err)
	}
	return requireRowAffected(res, "update partner embedding", id)
}

func requireRowAffected(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrPartnerNotFound, operation, fmt.Errorf("id %s", id))
	}
	return nil
}

// appendFilterClauses translates a SearchFilter into WHERE fragments,
// numbering the placeholders after whatever args already exist.
func appendFilterClauses(where []string, args []any, filter domain.SearchFilter) ([]string, []any) {
	if filter.CidadeID != "" {
		args = append(args, filter.CidadeID)
		where = append(where, fmt.Sprintf("cidade_id = $%d", len(args)))
	}
	if filter.Categoria != "" {
		args = append(args, filter.Categoria)
		where = append(where, fmt.Sprintf("categoria = $%d", len(args)))
	}
	return where, args
}

// encodeVector renders a float32 slice in the pgvector text format,
// e.g. [0.1,0.2,0.3].
func encodeVector(vector []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vector {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
