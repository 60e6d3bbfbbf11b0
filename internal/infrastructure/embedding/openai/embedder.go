// Package openai implements the query embedder on top of the
// OpenAI-compatible embeddings API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/regiaodoslagos/concierge/internal/core/domain"
	"github.com/regiaodoslagos/concierge/internal/infrastructure/resilience"
)

const defaultEmbedModel = "text-embedding-3-small"

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

type Embedder struct {
	client   *openai.Client
	model    openai.EmbeddingModel
	executor *resilience.Executor
}

// NewEmbedder builds the provider client. An empty API key is allowed;
// the embedder then reports domain.ErrEmbeddingUnavailable on every
// call and the search pipeline degrades to text-only retrieval.
func NewEmbedder(cfg Config, executor *resilience.Executor) *Embedder {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return &Embedder{executor: executor}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultEmbedModel
	}

	return &Embedder{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    openai.EmbeddingModel(model),
		executor: executor,
	}
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if e.client == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	var vector []float32
	call := func(ctx context.Context) error {
		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input:          []string{text},
			Model:          e.model,
			EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		})
		if err != nil {
			return parseAPIError(err)
		}
		if len(resp.Data) == 0 {
			return domain.WrapError(domain.ErrTemporary, "create embeddings", errors.New("empty response"))
		}
		vector = resp.Data[0].Embedding
		return nil
	}

	if e.executor == nil {
		if err := call(ctx); err != nil {
			return nil, err
		}
		return vector, nil
	}

	err := e.executor.Execute(ctx, "openai_embed", call, classifyEmbedError)
	if err != nil {
		if resilience.IsCircuitOpen(err) {
			return nil, domain.WrapError(domain.ErrEmbeddingUnavailable, "create embeddings", err)
		}
		return nil, err
	}
	return vector, nil
}

// parseAPIError keeps provider status codes in the message and tags
// retryable failures with domain.ErrTemporary.
func parseAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		wrapped := fmt.Errorf("embedding API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		if apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500 {
			return domain.WrapError(domain.ErrTemporary, "create embeddings", wrapped)
		}
		return wrapped
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		wrapped := fmt.Errorf("embedding request error %d: %s", reqErr.HTTPStatusCode, string(reqErr.Body))
		if reqErr.HTTPStatusCode == 429 || reqErr.HTTPStatusCode >= 500 {
			return domain.WrapError(domain.ErrTemporary, "create embeddings", wrapped)
		}
		return wrapped
	}

	// Transport failures (timeouts, connection resets) have no status
	// code and are worth a retry.
	return domain.WrapError(domain.ErrTemporary, "create embeddings", err)
}

func classifyEmbedError(err error) resilience.ErrorClassification {
	return resilience.ErrorClassification{
		Retryable:     domain.IsKind(err, domain.ErrTemporary),
		RecordFailure: true,
	}
}
