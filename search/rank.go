package search

import (
	"sort"

	"github.com/hanbitlee/ebookscout/decision"
	"github.com/hanbitlee/ebookscout/extract"
	"github.com/hanbitlee/ebookscout/models"
)

// dedupeRank collapses near-duplicate records keyed by (normalized title,
// normalized store), keeping the higher-scoring one, then returns the
// survivors sorted by score descending and capped at limit.
func dedupeRank(books []models.BookResult, limit int) []models.BookResult {
	type keyed struct {
		book  models.BookResult
		score int
	}

	order := make([]string, 0, len(books))
	best := make(map[string]keyed, len(books))
	for _, book := range books {
		key := extract.Normalize(book.Title) + "\x00" + extract.Normalize(book.StoreName)
		score := decision.Score(book.Decision, book.AvailableCount, book.ReservationCount)
		current, seen := best[key]
		if !seen {
			order = append(order, key)
			best[key] = keyed{book: book, score: score}
			continue
		}
		if score > current.score {
			best[key] = keyed{book: book, score: score}
		}
	}

	out := make([]models.BookResult, 0, len(order))
	for _, key := range order {
		out = append(out, best[key].book)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ki := extract.Normalize(out[i].Title) + "\x00" + extract.Normalize(out[i].StoreName)
		kj := extract.Normalize(out[j].Title) + "\x00" + extract.Normalize(out[j].StoreName)
		return best[ki].score > best[kj].score
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
