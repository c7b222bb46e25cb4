// Package server exposes the search operation and the provider
// configuration listing over HTTP.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"

	"github.com/hanbitlee/ebookscout/cache"
	"github.com/hanbitlee/ebookscout/config"
	"github.com/hanbitlee/ebookscout/extract"
	"github.com/hanbitlee/ebookscout/models"
	"github.com/hanbitlee/ebookscout/ratelimit"
	"github.com/hanbitlee/ebookscout/registry"
	"github.com/hanbitlee/ebookscout/search"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Searcher runs one aggregate search. *search.Searcher implements it; tests
// substitute stubs.
type Searcher interface {
	Search(ctx context.Context, query string) *models.SearchResponse
}

// Server wires validation, rate limiting, and caching around the searcher.
type Server struct {
	cfg      *config.Config
	searcher Searcher
	cache    *cache.ResultCache
	limiter  *ratelimit.Limiter
	metrics  *search.Metrics
}

// New builds a server from explicitly constructed collaborators, so tests
// can instantiate isolated cache and limiter instances.
func New(cfg *config.Config, searcher Searcher, resultCache *cache.ResultCache, limiter *ratelimit.Limiter, metrics *search.Metrics) *Server {
	return &Server{
		cfg:      cfg,
		searcher: searcher,
		cache:    resultCache,
		limiter:  limiter,
		metrics:  metrics,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/config/providers", s.handleProviders)
	return mux
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if msg := validateQuery(query, s.cfg.MaxQueryLength); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if !s.limiter.Allow(clientKey(r)) {
		s.metrics.IncRateLimited()
		writeError(w, http.StatusTooManyRequests, "요청이 너무 많습니다. 잠시 후 다시 시도해 주세요.")
		return
	}

	key := extract.Normalize(query)
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.IncCache("hit")
		response := *cached
		response.CacheHit = true
		writeJSON(w, http.StatusOK, &response)
		return
	}
	s.metrics.IncCache("miss")

	// The fan-out is detached from the client's lifetime: an abort must not
	// cancel in-flight provider fetches or cache a half-cancelled aggregate.
	response := s.searcher.Search(context.WithoutCancel(r.Context()), query)
	s.cache.Set(key, response)

	slog.Info("search completed",
		slog.String("query", query),
		slog.Int("providers", len(response.LibraryResults)),
		slog.Bool("has_borrowable", response.Flow.Phase1.HasBorrowable),
	)
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	listing := registry.Listing()
	writeJSON(w, http.StatusOK, &listing)
}

// validateQuery returns a user-facing message for rejected queries, or ""
// when the query is acceptable.
func validateQuery(query string, maxLength int) string {
	if query == "" {
		return "검색어(q)가 필요합니다."
	}
	if utf8.RuneCountInString(query) > maxLength {
		return "검색어가 너무 깁니다."
	}
	for _, r := range query {
		if unicode.IsControl(r) {
			return "검색어에 사용할 수 없는 문자가 있습니다."
		}
	}
	return ""
}

// clientKey identifies the caller for rate limiting: the first forwarded
// address when running behind a proxy, else the peer address.
func clientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
