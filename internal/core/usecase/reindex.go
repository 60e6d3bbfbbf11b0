package usecase

import (
	"context"
	"fmt"

	"github.com/regiaodoslagos/concierge/internal/core/domain"
	"github.com/regiaodoslagos/concierge/internal/core/ports"
)

// ReindexPartnerUseCase recomputes the embedding of one partner after
// it was created or updated. The worker drives it from queue events.
type ReindexPartnerUseCase struct {
	repo     ports.PartnerRepository
	embedder ports.Embedder
}

func NewReindexPartnerUseCase(repo ports.PartnerRepository, embedder ports.Embedder) *ReindexPartnerUseCase {
	return &ReindexPartnerUseCase{repo: repo, embedder: embedder}
}

func (uc *ReindexPartnerUseCase) ReindexByID(ctx context.Context, partnerID string) error {
	partner, err := uc.repo.GetByID(ctx, partnerID)
	if err != nil {
		return fmt.Errorf("fetch partner by id: %w", err)
	}

	vector, err := uc.embedder.EmbedQuery(ctx, embeddingText(partner))
	if err != nil {
		if domain.IsKind(err, domain.ErrEmbeddingUnavailable) {
			return domain.WrapError(domain.ErrTemporary, "embed partner", err)
		}
		return fmt.Errorf("embed partner: %w", err)
	}

	if err := uc.repo.UpdateEmbedding(ctx, partnerID, vector); err != nil {
		return fmt.Errorf("store partner embedding: %w", err)
	}
	return nil
}

func embeddingText(p *domain.Partner) string {
	return p.Nome + "\n" + p.Categoria + "\n" + p.Descricao
}
