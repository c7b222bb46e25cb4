package extract

import (
	"strings"

	"github.com/hanbitlee/ebookscout/models"
)

// seoulExtractor consumes the Seoul metropolitan library's content-search
// JSON. The endpoint filters by the query itself, so no local re-filtering
// is applied.
type seoulExtractor struct{}

type seoulPayload struct {
	Contents []seoulItem `json:"contents"`
}

type seoulItem struct {
	ContentKey string `json:"contentKey"`
	Title      string `json:"title"`
	AuthorName string `json:"authorName"`
	Publisher  string `json:"publisher"`
	OwnCount   any    `json:"ownCount"`
	LoanCount  any    `json:"loanCount"`
	ResvCount  any    `json:"reserveCount"`
	CoverM     string `json:"coverUrlM"`
	CoverL     string `json:"coverUrlL"`
	CoverS     string `json:"coverUrlS"`
}

const seoulDetailURL = "https://elib.seoul.go.kr/contents/detail?c="

func (seoulExtractor) Extract(body, _ string) []models.BookRecord {
	var payload seoulPayload
	if err := json.UnmarshalFromString(body, &payload); err != nil {
		return nil
	}

	records := make([]models.BookRecord, 0, len(payload.Contents))
	for _, item := range payload.Contents {
		title := CompactText(item.Title)
		if title == "" {
			continue
		}

		holdings := coerceCount(item.OwnCount)
		loaned := coerceCount(item.LoanCount)

		detail := ""
		if key := strings.TrimSpace(item.ContentKey); key != "" {
			detail = seoulDetailURL + key
		}

		records = append(records, models.BookRecord{
			Title:            title,
			DetailURL:        detail,
			CoverURL:         firstNonEmpty(item.CoverM, item.CoverL, item.CoverS),
			HoldingsCount:    holdings,
			AvailableCount:   derivedAvailable(holdings, loaned),
			LoanedCount:      loaned,
			ReservationCount: coerceCount(item.ResvCount),
			RawStatusText:    truncateRunes(statusFallback(item.AuthorName, item.Publisher), statusTextCap),
		})
	}
	return records
}
