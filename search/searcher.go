// Package search implements the provider fan-out, per-provider fetch with
// isolation and timeouts, and the aggregate result assembly.
package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hanbitlee/ebookscout/config"
	"github.com/hanbitlee/ebookscout/decision"
	"github.com/hanbitlee/ebookscout/decode"
	"github.com/hanbitlee/ebookscout/extract"
	"github.com/hanbitlee/ebookscout/models"
)

const (
	// recordCap bounds the ranked record list produced per extraction.
	recordCap = 12
	// providerBookCap bounds the book list carried on each ProviderResult.
	providerBookCap = 8
	// maxBodyBytes bounds how much of a provider response is read.
	maxBodyBytes = 4 << 20
)

// Searcher fans a query out to every provider and assembles the aggregate
// response. One instance serves all requests; it holds no per-search state.
type Searcher struct {
	cfg        *config.Config
	client     *http.Client
	metrics    *Metrics
	providers  []models.Provider
	extractors map[string]extract.Extractor
	unified    models.Provider
	store      models.Provider
}

// New builds a searcher over the given provider list. The fallback
// descriptors feed the flow-state URLs. metrics may be nil.
func New(cfg *config.Config, providers []models.Provider, unified, store models.Provider, metrics *Metrics) *Searcher {
	extractors := make(map[string]extract.Extractor, len(providers))
	for _, p := range providers {
		extractors[p.ID] = extract.ForProvider(p.ID)
	}
	return &Searcher{
		cfg:        cfg,
		client:     newHTTPClient(cfg.FetchTimeout),
		metrics:    metrics,
		providers:  providers,
		extractors: extractors,
		unified:    unified,
		store:      store,
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	// No Timeout on the client itself: each fetch carries its own deadline
	// via context so cancelling one never touches siblings.
	return &http.Client{Transport: transport}
}

// Search runs one aggregate search: concurrent per-provider fetches, a
// fan-in barrier, then flow-state derivation. Individual provider failures
// never fail the aggregate.
func (s *Searcher) Search(ctx context.Context, query string) *models.SearchResponse {
	results := make([]models.ProviderResult, len(s.providers))

	var wg sync.WaitGroup
	for i, provider := range s.providers {
		wg.Add(1)
		go func(i int, provider models.Provider) {
			defer wg.Done()
			results[i] = s.searchProvider(ctx, provider, query)
		}(i, provider)
	}
	wg.Wait()

	return &models.SearchResponse{
		Query:          query,
		SearchedAt:     time.Now().UTC(),
		LibraryResults: results,
		Flow:           s.buildFlow(results, query),
	}
}

// searchProvider issues the single bounded request for one provider. Every
// failure mode collapses into a searchable=false result; nothing raises.
func (s *Searcher) searchProvider(ctx context.Context, provider models.Provider, query string) models.ProviderResult {
	searchURL := buildSearchURL(provider, query)

	result := models.ProviderResult{
		ProviderID:             provider.ID,
		ProviderName:           provider.Name,
		SearchURL:              searchURL,
		LoginURL:               provider.LoginURL,
		IsSubscriptionProvider: provider.SubscriptionListAvailable,
		Books:                  []models.BookResult{},
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	start := time.Now()
	body, contentType, statusCode, err := s.fetch(fetchCtx, searchURL)
	s.metrics.ObserveFetchDuration(time.Since(start))
	result.StatusCode = statusCode

	if err != nil {
		label := errorTypeLabel(err)
		result.Error = err.Error()
		s.metrics.IncFetch(provider.ID, "error")
		s.metrics.IncError(label)
		slog.Warn("provider fetch failed",
			slog.String("provider", provider.ID),
			slog.String("category", label),
			slog.Any("error", err),
		)
		return result
	}

	result.Searchable = true
	s.metrics.IncFetch(provider.ID, "ok")

	text := decode.Body(body, contentType, provider.IsEucKR)
	records := s.extractors[provider.ID].Extract(text, query)

	books := make([]models.BookResult, 0, len(records))
	for _, record := range records {
		books = append(books, models.BookResult{
			BookRecord:   record,
			ProviderID:   provider.ID,
			ProviderName: provider.Name,
			Decision: decision.Decide(decision.Signals{
				Text:        record.RawStatusText,
				Holdings:    record.HoldingsCount,
				Available:   record.AvailableCount,
				Reservation: record.ReservationCount,
			}),
		})
	}

	books = dedupeRank(books, recordCap)
	if len(books) > providerBookCap {
		books = books[:providerBookCap]
	}

	// For subscription-model providers a listing alone implies access, so
	// the heuristic decision is overridden for every titled record.
	if provider.SubscriptionListAvailable {
		for i := range books {
			if books[i].Title != "" {
				books[i].Decision = decision.SubscriptionOverride()
			}
		}
	}

	result.Books = books
	s.metrics.AddBooks(len(books))
	slog.Debug("provider searched",
		slog.String("provider", provider.ID),
		slog.Int("status", statusCode),
		slog.Int("books", len(books)),
	)
	return result
}

// fetch performs the single HTTP attempt for one provider. No retries.
func (s *Searcher) fetch(ctx context.Context, searchURL string) (body []byte, contentType string, statusCode int, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, "", 0, err
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", 0, classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", resp.StatusCode, ErrBadStatus{StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "", resp.StatusCode, classifyError(err)
	}
	return raw, resp.Header.Get("Content-Type"), resp.StatusCode, nil
}

func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnection{Err: err}
	}
	return err
}

// buildSearchURL substitutes the encoded query into the provider template.
func buildSearchURL(provider models.Provider, query string) string {
	return strings.Replace(provider.BaseURL, "{searchTerm}", decode.QueryTerm(query, provider.IsEucKR), 1)
}
