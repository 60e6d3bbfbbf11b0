package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/regiaodoslagos/concierge/internal/config"
	"github.com/regiaodoslagos/concierge/internal/core/domain"
	"github.com/regiaodoslagos/concierge/internal/core/ports"
	"github.com/regiaodoslagos/concierge/internal/core/taxonomy"
	"github.com/regiaodoslagos/concierge/internal/observability/metrics"
)

const (
	serviceName      = "api"
	defaultListLimit = 50
	maxListLimit     = 200
)

type Router struct {
	searchUC ports.PartnerSearcher
	repo     ports.PartnerRepository
	queue    ports.MessageQueue
	metrics  *metrics.HTTPServerMetrics
	cfg      config.Config
}

func NewRouter(
	searchUC ports.PartnerSearcher,
	repo ports.PartnerRepository,
	queue ports.MessageQueue,
	httpMetrics *metrics.HTTPServerMetrics,
	cfg config.Config,
) *Router {
	return &Router{
		searchUC: searchUC,
		repo:     repo,
		queue:    queue,
		metrics:  httpMetrics,
		cfg:      cfg,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}
	mux.HandleFunc("/v1/search", rt.search)
	mux.HandleFunc("/v1/partners", rt.partners)
	mux.HandleFunc("/v1/partners/", rt.partnerByID)

	var handler http.Handler = mux
	handler = rt.metricsMiddleware(handler)
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, rt.cfg.APIBackpressureWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}
	debug := query.Get("debug") == "true" || query.Get("debug") == "1"

	resp, err := rt.searchUC.Search(r.Context(), domain.SearchRequest{
		Query:     query.Get("q"),
		CidadeID:  query.Get("cidade_id"),
		Categoria: query.Get("categoria"),
		Limit:     limit,
		Debug:     debug,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil && resp.Meta != nil {
		stages := make([]string, 0, len(resp.Meta.Stages))
		for _, stage := range resp.Meta.Stages {
			stages = append(stages, stage.Stage)
		}
		rt.metrics.ObserveSearch(serviceName, len(resp.Items), stages, resp.Meta.GatesApplied)
	}

	// Retrieval metadata is a debugging surface, not part of the
	// public contract.
	if !debug {
		resp.Meta = nil
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) partners(w http.ResponseWriter, r *http.Request) {
	if !rt.requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodPost:
		rt.createPartner(w, r)
	case http.MethodGet:
		rt.listPartners(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) partnerByID(w http.ResponseWriter, r *http.Request) {
	if !rt.requireAdmin(w, r) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/partners/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "partner id is required"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		rt.getPartner(w, r, id)
	case http.MethodPut:
		rt.updatePartner(w, r, id)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

type partnerPayload struct {
	Nome      string `json:"nome"`
	Categoria string `json:"categoria"`
	Descricao string `json:"descricao"`
	CidadeID  string `json:"cidade_id"`
	Ativo     *bool  `json:"ativo"`
}

func (p partnerPayload) validate() string {
	if strings.TrimSpace(p.Nome) == "" {
		return "nome is required"
	}
	if strings.TrimSpace(p.Categoria) == "" {
		return "categoria is required"
	}
	return ""
}

func (rt *Router) createPartner(w http.ResponseWriter, r *http.Request) {
	var req partnerPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	now := time.Now().UTC()
	partner := &domain.Partner{
		ID:        uuid.NewString(),
		Nome:      strings.TrimSpace(req.Nome),
		Categoria: taxonomy.MapAliasCategory(req.Categoria),
		Descricao: strings.TrimSpace(req.Descricao),
		CidadeID:  strings.TrimSpace(req.CidadeID),
		Ativo:     true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Ativo != nil {
		partner.Ativo = *req.Ativo
	}

	if err := rt.repo.Create(r.Context(), partner); err != nil {
		writeError(w, err)
		return
	}
	rt.publishUpserted(r, partner.ID)
	writeJSON(w, http.StatusCreated, partner)
}

func (rt *Router) listPartners(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := defaultListLimit
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	partners, err := rt.repo.List(r.Context(), domain.SearchFilter{
		CidadeID:  query.Get("cidade_id"),
		Categoria: taxonomy.MapAliasCategory(query.Get("categoria")),
	}, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if partners == nil {
		partners = []domain.Partner{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": partners})
}

func (rt *Router) getPartner(w http.ResponseWriter, r *http.Request, id string) {
	partner, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, partner)
}

func (rt *Router) updatePartner(w http.ResponseWriter, r *http.Request, id string) {
	var req partnerPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	existing, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	existing.Nome = strings.TrimSpace(req.Nome)
	existing.Categoria = taxonomy.MapAliasCategory(req.Categoria)
	existing.Descricao = strings.TrimSpace(req.Descricao)
	existing.CidadeID = strings.TrimSpace(req.CidadeID)
	if req.Ativo != nil {
		existing.Ativo = *req.Ativo
	}

	if err := rt.repo.Update(r.Context(), existing); err != nil {
		writeError(w, err)
		return
	}
	rt.publishUpserted(r, id)
	writeJSON(w, http.StatusOK, existing)
}

// publishUpserted is best effort: the partner row is already durable
// and the worker can catch up from a later event or manual reindex.
func (rt *Router) publishUpserted(r *http.Request, partnerID string) {
	if rt.queue == nil {
		return
	}
	if err := rt.queue.PublishPartnerUpserted(r.Context(), partnerID); err != nil {
		logPublishFailure(r.Context(), partnerID, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
