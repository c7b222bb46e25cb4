package extract

import (
	"strings"
	"testing"
)

func TestSeoulExtractor(t *testing.T) {
	body := `{"contents": [
		{"contentKey": "EB001", "title": "해리포터와 마법사의 돌", "authorName": "조앤 K. 롤링",
		 "publisher": "문학수첩", "ownCount": 3, "loanCount": "1", "reserveCount": 0,
		 "coverUrlM": "https://img/m.jpg", "coverUrlL": "https://img/l.jpg"},
		{"contentKey": "EB002", "title": "", "ownCount": 1},
		{"contentKey": "EB003", "title": "코스모스", "ownCount": "many", "loanCount": 1}
	]}`

	records := seoulExtractor{}.Extract(body, "해리포터")
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2 (empty title skipped)", len(records))
	}

	r := records[0]
	if r.HoldingsCount == nil || *r.HoldingsCount != 3 {
		t.Fatalf("holdings = %v, want 3", r.HoldingsCount)
	}
	if r.LoanedCount == nil || *r.LoanedCount != 1 {
		t.Fatalf("loaned = %v, want 1 (string coerced)", r.LoanedCount)
	}
	if r.AvailableCount == nil || *r.AvailableCount != 2 {
		t.Fatalf("available = %v, want 2 (holdings-loaned)", r.AvailableCount)
	}
	if r.DetailURL != "https://elib.seoul.go.kr/contents/detail?c=EB001" {
		t.Fatalf("detail url = %q", r.DetailURL)
	}
	if r.CoverURL != "https://img/m.jpg" {
		t.Fatalf("cover = %q, want medium variant first", r.CoverURL)
	}
	if !strings.Contains(r.RawStatusText, "조앤 K. 롤링") || !strings.Contains(r.RawStatusText, "문학수첩") {
		t.Fatalf("status fallback = %q", r.RawStatusText)
	}

	// Non-numeric holdings stays unknown, so available is unknown too.
	r = records[1]
	if r.HoldingsCount != nil {
		t.Fatalf("holdings = %v, want nil for non-numeric", r.HoldingsCount)
	}
	if r.AvailableCount != nil {
		t.Fatalf("available = %v, want nil when holdings unknown", r.AvailableCount)
	}
	if r.LoanedCount == nil || *r.LoanedCount != 1 {
		t.Fatalf("loaned = %v, want 1", r.LoanedCount)
	}
}

func TestSeoulExtractorDoesNotRefilter(t *testing.T) {
	// The Seoul endpoint already filtered by query; unrelated titles pass
	// through.
	body := `{"contents": [{"contentKey": "EB9", "title": "코스모스", "ownCount": 1, "loanCount": 0}]}`
	records := seoulExtractor{}.Extract(body, "해리포터")
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
}

func TestSeoulExtractorMalformedPayload(t *testing.T) {
	records := seoulExtractor{}.Extract("<html>not json</html>", "q")
	if records != nil {
		t.Fatalf("malformed payload should yield no records, got %v", records)
	}
}

func TestEunpyeongExtractorFiltersByQuery(t *testing.T) {
	body := `{"resultList": [
		{"cntntsId": "C100", "cntntsNm": "해리포터와 비밀의 방", "authrNm": "조앤 K. 롤링",
		 "pblshrNm": "문학수첩", "holdCnt": "2", "loanCnt": "2", "rsvCnt": "1",
		 "imgUrlL": "https://img/el.jpg", "imgUrlS": "https://img/es.jpg"},
		{"cntntsId": "C200", "cntntsNm": "코스모스", "holdCnt": 1, "loanCnt": 0}
	]}`

	records := eunpyeongExtractor{}.Extract(body, "해리 포터")
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1 (payload is not pre-filtered)", len(records))
	}

	r := records[0]
	if r.Title != "해리포터와 비밀의 방" {
		t.Fatalf("title = %q", r.Title)
	}
	if r.AvailableCount == nil || *r.AvailableCount != 0 {
		t.Fatalf("available = %v, want 0 (2 held, 2 loaned)", r.AvailableCount)
	}
	if r.ReservationCount == nil || *r.ReservationCount != 1 {
		t.Fatalf("reservation = %v, want 1", r.ReservationCount)
	}
	if r.DetailURL != "https://epbook.eplib.or.kr/ebookPlatform/content/contentView.do?cntntsId=C100" {
		t.Fatalf("detail url = %q", r.DetailURL)
	}
	// Medium variant missing: falls through the priority list.
	if r.CoverURL != "https://img/el.jpg" {
		t.Fatalf("cover = %q", r.CoverURL)
	}
}

func TestCoerceCount(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  *int
	}{
		{name: "float", input: float64(7), want: intPtr(7)},
		{name: "numeric string", input: "12", want: intPtr(12)},
		{name: "padded string", input: " 3 ", want: intPtr(3)},
		{name: "junk string", input: "many", want: nil},
		{name: "nil", input: nil, want: nil},
		{name: "bool", input: true, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceCount(tt.input)
			switch {
			case tt.want == nil && got != nil:
				t.Fatalf("coerceCount(%v) = %d, want nil", tt.input, *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Fatalf("coerceCount(%v) = %v, want %d", tt.input, got, *tt.want)
			}
		})
	}
}

func intPtr(v int) *int {
	return &v
}
