package search

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the search pipeline.
type Metrics struct {
	Registry             *prometheus.Registry
	ProviderFetchesTotal *prometheus.CounterVec
	FetchDuration        prometheus.Histogram
	BooksExtractedTotal  prometheus.Counter
	ErrorsTotal          *prometheus.CounterVec
	CacheLookupsTotal    *prometheus.CounterVec
	RateLimitedTotal     prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_provider_fetches_total",
			Help: "Provider fetches issued per aggregate search.",
		},
		[]string{"provider", "outcome"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_provider_fetch_duration_seconds",
			Help:    "Latency of individual provider fetches.",
			Buckets: prometheus.DefBuckets,
		},
	)
	booksExtracted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "search_books_extracted_total",
			Help: "Book records surviving extraction and ranking.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_provider_errors_total",
			Help: "Provider fetch failures by type.",
		},
		[]string{"error_type"},
	)
	cacheLookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_cache_lookups_total",
			Help: "Result cache lookups by outcome.",
		},
		[]string{"result"},
	)
	rateLimited := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "search_rate_limited_total",
			Help: "Requests denied by the rate limiter.",
		},
	)

	registry.MustRegister(fetches, fetchDuration, booksExtracted, errorsTotal, cacheLookups, rateLimited)

	return &Metrics{
		Registry:             registry,
		ProviderFetchesTotal: fetches,
		FetchDuration:        fetchDuration,
		BooksExtractedTotal:  booksExtracted,
		ErrorsTotal:          errorsTotal,
		CacheLookupsTotal:    cacheLookups,
		RateLimitedTotal:     rateLimited,
	}
}

// IncFetch increments the provider fetch counter.
func (m *Metrics) IncFetch(provider, outcome string) {
	if m == nil {
		return
	}
	m.ProviderFetchesTotal.WithLabelValues(provider, outcome).Inc()
}

// ObserveFetchDuration records one provider fetch latency.
func (m *Metrics) ObserveFetchDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// AddBooks adds to the extracted books counter.
func (m *Metrics) AddBooks(n int) {
	if m == nil {
		return
	}
	m.BooksExtractedTotal.Add(float64(n))
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// IncCache increments the cache lookup counter ("hit" or "miss").
func (m *Metrics) IncCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// IncRateLimited increments the rate-limited counter.
func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}
