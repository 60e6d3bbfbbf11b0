package ports

import (
	"context"

	"github.com/regiaodoslagos/concierge/internal/core/domain"
)

// PartnerSearcher is the inbound contract for hybrid partner search.
type PartnerSearcher interface {
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error)
}

// PartnerReindexer recomputes and stores the embedding of one partner.
type PartnerReindexer interface {
	ReindexByID(ctx context.Context, partnerID string) error
}
