package ports

import (
	"context"

	"github.com/regiaodoslagos/concierge/internal/core/domain"
)

// PartnerRepository persists and reads partner records.
type PartnerRepository interface {
	Create(ctx context.Context, partner *domain.Partner) error
	GetByID(ctx context.Context, id string) (*domain.Partner, error)
	List(ctx context.Context, filter domain.SearchFilter, limit int) ([]domain.Partner, error)
	Update(ctx context.Context, partner *domain.Partner) error
	UpdateEmbedding(ctx context.Context, id string, vector []float32) error
}

// VectorIndex performs approximate-nearest-neighbor search over partner
// embeddings. Rows come back already normalized into PartnerCandidate
// with ScoreVector set and ScoreText zero.
type VectorIndex interface {
	SearchVector(ctx context.Context, embedding []float32, filter domain.SearchFilter, count int) ([]domain.PartnerCandidate, error)
}

// TextIndex performs lexical search over partner name/description.
// All three operations normalize rows into PartnerCandidate with
// ScoreText set and ScoreVector zero; KeywordSearch and SubstringScan
// assign their fixed fallback scores at this boundary.
type TextIndex interface {
	SearchText(ctx context.Context, term string, filter domain.SearchFilter, count int) ([]domain.PartnerCandidate, error)
	KeywordSearch(ctx context.Context, filter domain.SearchFilter, term string, count int) ([]domain.PartnerCandidate, error)
	SubstringScan(ctx context.Context, term string, filter domain.SearchFilter) ([]domain.PartnerCandidate, error)
}

// Embedder converts free text into a fixed-dimension vector. A provider
// without credentials returns domain.ErrEmbeddingUnavailable; every
// caller must tolerate that as a soft skip.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// MessageQueue publishes/consumes partner reindex events.
type MessageQueue interface {
	PublishPartnerUpserted(ctx context.Context, partnerID string) error
	SubscribePartnerUpserted(ctx context.Context, handler func(context.Context, string) error) error
}
