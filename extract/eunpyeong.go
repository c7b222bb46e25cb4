package extract

import (
	"strings"

	"github.com/hanbitlee/ebookscout/models"
)

// eunpyeongExtractor consumes the Eunpyeong ebook platform's search JSON.
// That endpoint returns its whole result page regardless of the query, so
// records are filtered locally against the normalized query.
type eunpyeongExtractor struct{}

type eunpyeongPayload struct {
	ResultList []eunpyeongItem `json:"resultList"`
}

type eunpyeongItem struct {
	ContentsID string `json:"cntntsId"`
	Title      string `json:"cntntsNm"`
	Author     string `json:"authrNm"`
	Publisher  string `json:"pblshrNm"`
	HoldCnt    any    `json:"holdCnt"`
	LoanCnt    any    `json:"loanCnt"`
	RsvCnt     any    `json:"rsvCnt"`
	ImgM       string `json:"imgUrlM"`
	ImgL       string `json:"imgUrlL"`
	ImgS       string `json:"imgUrlS"`
}

const eunpyeongDetailURL = "https://epbook.eplib.or.kr/ebookPlatform/content/contentView.do?cntntsId="

func (eunpyeongExtractor) Extract(body, query string) []models.BookRecord {
	var payload eunpyeongPayload
	if err := json.UnmarshalFromString(body, &payload); err != nil {
		return nil
	}

	normalizedQuery := Normalize(query)
	var records []models.BookRecord
	for _, item := range payload.ResultList {
		title := CompactText(item.Title)
		if title == "" {
			continue
		}
		if !strings.Contains(Normalize(title), normalizedQuery) {
			continue
		}

		holdings := coerceCount(item.HoldCnt)
		loaned := coerceCount(item.LoanCnt)

		detail := ""
		if id := strings.TrimSpace(item.ContentsID); id != "" {
			detail = eunpyeongDetailURL + id
		}

		records = append(records, models.BookRecord{
			Title:            title,
			DetailURL:        detail,
			CoverURL:         firstNonEmpty(item.ImgM, item.ImgL, item.ImgS),
			HoldingsCount:    holdings,
			AvailableCount:   derivedAvailable(holdings, loaned),
			LoanedCount:      loaned,
			ReservationCount: coerceCount(item.RsvCnt),
			RawStatusText:    truncateRunes(statusFallback(item.Author, item.Publisher), statusTextCap),
		})
	}
	return records
}
