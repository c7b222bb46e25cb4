// Package models defines the data types exchanged between the search
// pipeline and its HTTP surface.
package models

import "time"

// Provider describes one catalog source. The registry owns these; the
// search pipeline only reads them.
type Provider struct {
	ID string `json:"id"`
	// Name is the human-readable display name.
	Name string `json:"name"`
	// BaseURL is a search URL template containing the {searchTerm} slot.
	BaseURL string `json:"baseURL"`
	// IsEucKR marks legacy sites whose query string must be EUC-KR
	// percent-encoded instead of UTF-8 percent-encoded.
	IsEucKR  bool   `json:"isEucKR"`
	LoginURL string `json:"loginURL"`
	// SubscriptionListAvailable marks providers whose catalog listing alone
	// implies access (no per-copy loan limit).
	SubscriptionListAvailable bool `json:"subscriptionListAvailable,omitempty"`
}

// DecisionState is the normalized availability verdict for one title.
type DecisionState string

const (
	StateBorrowNow   DecisionState = "borrow_now"
	StateReserve     DecisionState = "reserve"
	StateUnavailable DecisionState = "unavailable"
	StateUnknown     DecisionState = "unknown"
)

// Confidence grades how strong the signals behind a decision were.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Decision is the classifier output for one record. Immutable once computed.
type Decision struct {
	State      DecisionState `json:"state"`
	Confidence Confidence    `json:"confidence"`
	// Reason identifies which rule fired, e.g. "available_count_positive".
	Reason string `json:"reason"`
}

// BookRecord is what an extractor produces for one catalog hit. Count fields
// are nil when the source gave no reliable signal; they are never defaulted
// to zero.
type BookRecord struct {
	Title            string `json:"title"`
	StoreName        string `json:"storeName,omitempty"`
	DetailURL        string `json:"detailURL,omitempty"`
	PreviewURL       string `json:"previewURL,omitempty"`
	CoverURL         string `json:"coverURL,omitempty"`
	HoldingsCount    *int   `json:"holdingsCount"`
	AvailableCount   *int   `json:"availableCount"`
	LoanedCount      *int   `json:"loanedCount"`
	ReservationCount *int   `json:"reservationCount"`
	// RawStatusText is the compacted snippet the counts and tokens were
	// derived from, capped at 300 characters.
	RawStatusText string `json:"rawStatusText"`
}

// BookResult is a BookRecord with its computed decision and the provider it
// came from.
type BookResult struct {
	BookRecord
	ProviderID   string   `json:"providerId"`
	ProviderName string   `json:"providerName"`
	Decision     Decision `json:"decision"`
}

// ProviderResult is the per-provider outcome of one aggregate search.
// Assembled once, never mutated afterwards.
type ProviderResult struct {
	ProviderID             string `json:"providerId"`
	ProviderName           string `json:"providerName"`
	SearchURL              string `json:"searchURL"`
	LoginURL               string `json:"loginURL"`
	IsSubscriptionProvider bool   `json:"isSubscriptionProvider"`
	// Searchable is false when the fetch failed at the network, HTTP, or
	// decode level; Error then carries a human-readable cause.
	Searchable bool         `json:"searchable"`
	StatusCode int          `json:"statusCode"`
	Error      string       `json:"error,omitempty"`
	Books      []BookResult `json:"books"`
}

// FlowPhase is one step of the three-phase search escalation.
type FlowPhase struct {
	Label string `json:"label"`
	// Completed is set on phase 1 only; it always ran.
	Completed bool `json:"completed,omitempty"`
	// HasBorrowable is set on phase 1: whether any provider yielded an
	// immediate-borrow candidate (subscription listings excluded).
	HasBorrowable bool `json:"hasBorrowable"`
	// Enabled gates phases 2 and 3; they activate only when phase 1 found
	// no immediate-borrow candidate.
	Enabled   bool   `json:"enabled,omitempty"`
	SearchURL string `json:"searchURL,omitempty"`
}

// FlowState is the three-phase recommendation derived once per search.
type FlowState struct {
	Phase1 FlowPhase `json:"phase1"`
	Phase2 FlowPhase `json:"phase2"`
	Phase3 FlowPhase `json:"phase3"`
}

// SearchResponse is the aggregate payload of one search operation.
type SearchResponse struct {
	Query          string           `json:"query"`
	SearchedAt     time.Time        `json:"searchedAt"`
	LibraryResults []ProviderResult `json:"libraryResults"`
	Flow           FlowState        `json:"flow"`
	CacheHit       bool             `json:"cacheHit,omitempty"`
}

// ProviderInfo is a registry entry enriched with its derived library model
// for the configuration listing.
type ProviderInfo struct {
	Provider
	// LibraryModel is "subscription" for listing-implies-access providers,
	// "owned" for copy-limited ones.
	LibraryModel string `json:"libraryModel"`
}

// ProvidersResponse is the payload of the provider configuration listing.
type ProvidersResponse struct {
	LibraryProviders []ProviderInfo `json:"libraryProviders"`
	EunpyeongUnified Provider       `json:"eunpyeongUnified"`
	SamStore         Provider       `json:"samStore"`
}

// IntPtr is a convenience for building optional counts.
func IntPtr(v int) *int {
	return &v
}
