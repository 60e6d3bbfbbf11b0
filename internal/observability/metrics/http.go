package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServerMetrics instruments the API process: generic HTTP request
// metrics plus the search-specific counters fed from SearchMeta.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	searchTotal       *prometheus.CounterVec
	searchStageTotal  *prometheus.CounterVec
	searchGateTotal   *prometheus.CounterVec
	searchResultCount *prometheus.HistogramVec
	embedCacheTotal   *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "concierge",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "concierge",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	searchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Total hybrid searches by outcome (hit/empty).",
		},
		[]string{"service", "outcome"},
	)
	searchStageTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "search",
			Name:      "retrieval_stage_total",
			Help:      "Retrieval stages attempted, by stage name.",
		},
		[]string{"service", "stage"},
	)
	searchGateTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "search",
			Name:      "gate_applied_total",
			Help:      "Post-ranking gates that replaced the candidate list.",
		},
		[]string{"service", "gate"},
	)
	searchResultCount := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "concierge",
			Subsystem: "search",
			Name:      "result_count",
			Help:      "Number of candidates returned per search.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 30},
		},
		[]string{"service"},
	)
	embedCacheTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "search",
			Name:      "embed_cache_total",
			Help:      "Query embedding cache lookups by result (hit/miss).",
		},
		[]string{"result"},
	)

	registry.MustRegister(
		requestTotal, requestDuration, requestInFlight,
		searchTotal, searchStageTotal, searchGateTotal, searchResultCount,
		embedCacheTotal,
	)

	return &HTTPServerMetrics{
		registry:          registry,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestInFlight:   requestInFlight,
		searchTotal:       searchTotal,
		searchStageTotal:  searchStageTotal,
		searchGateTotal:   searchGateTotal,
		searchResultCount: searchResultCount,
		embedCacheTotal:   embedCacheTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// EmbedCacheCounter is handed to the embedding cache decorator.
func (m *HTTPServerMetrics) EmbedCacheCounter() *prometheus.CounterVec {
	return m.embedCacheTotal
}

func (m *HTTPServerMetrics) ObserveRequest(service, method, path string, status int, duration time.Duration) {
	m.requestTotal.WithLabelValues(service, method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(service, method, path).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) StartRequest()  { m.requestInFlight.Inc() }
func (m *HTTPServerMetrics) FinishRequest() { m.requestInFlight.Dec() }

// ObserveSearch translates one search's metadata into counters.
func (m *HTTPServerMetrics) ObserveSearch(service string, resultCount int, stages []string, gates []string) {
	outcome := "hit"
	if resultCount == 0 {
		outcome = "empty"
	}
	m.searchTotal.WithLabelValues(service, outcome).Inc()
	m.searchResultCount.WithLabelValues(service).Observe(float64(resultCount))
	for _, stage := range stages {
		m.searchStageTotal.WithLabelValues(service, stage).Inc()
	}
	for _, gate := range gates {
		m.searchGateTotal.WithLabelValues(service, gate).Inc()
	}
}
