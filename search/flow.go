package search

import (
	"github.com/samber/lo"

	"github.com/hanbitlee/ebookscout/decision"
	"github.com/hanbitlee/ebookscout/models"
)

// buildFlow derives the three-phase search recommendation. Phase 1 always
// ran; phases 2 and 3 only activate when no provider yielded an
// immediate-borrow candidate. Subscription-override decisions do not count
// as immediate-borrow: a subscription listing alone says nothing about the
// copy-limited catalogs.
func (s *Searcher) buildFlow(results []models.ProviderResult, query string) models.FlowState {
	hasBorrowable := lo.SomeBy(results, func(result models.ProviderResult) bool {
		return lo.SomeBy(result.Books, func(book models.BookResult) bool {
			return book.Decision.State == models.StateBorrowNow &&
				book.Decision.Reason != decision.SubscriptionReason
		})
	})

	return models.FlowState{
		Phase1: models.FlowPhase{
			Label:         "서울 전역 전자도서관 검색",
			Completed:     true,
			HasBorrowable: hasBorrowable,
		},
		Phase2: models.FlowPhase{
			Label:     "은평구립도서관 통합검색",
			Enabled:   !hasBorrowable,
			SearchURL: buildSearchURL(s.unified, query),
		},
		Phase3: models.FlowPhase{
			Label:     "교보 SAM 구매 대안",
			Enabled:   !hasBorrowable,
			SearchURL: buildSearchURL(s.store, query),
		},
	}
}
