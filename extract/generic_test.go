package extract

import (
	"testing"

	"github.com/hanbitlee/ebookscout/models"
)

func extractGeneric(t *testing.T, html, query string) []models.BookRecord {
	t.Helper()
	return genericExtractor{}.Extract(html, query)
}

func TestGenericExtractorCountsAndLinks(t *testing.T) {
	html := `<html><body><ul>
		<li class="book_item">
			<strong>해리포터와 마법사의 돌</strong>
			<span>소장: 3 대출가능: 2 대출중: 1 예약: 0</span>
			<a href="/content/detail?id=77">상세보기</a>
			<a href="/preview/77">미리보기</a>
			<img src="/covers/77.jpg" />
		</li>
	</ul></body></html>`

	records := extractGeneric(t, html, "해리포터")
	if len(records) == 0 {
		t.Fatalf("expected at least one record")
	}

	r := records[0]
	if r.Title != "해리포터와 마법사의 돌" {
		t.Fatalf("title = %q", r.Title)
	}
	if r.HoldingsCount == nil || *r.HoldingsCount != 3 {
		t.Fatalf("holdings = %v, want 3", r.HoldingsCount)
	}
	if r.AvailableCount == nil || *r.AvailableCount != 2 {
		t.Fatalf("available = %v, want 2", r.AvailableCount)
	}
	if r.LoanedCount == nil || *r.LoanedCount != 1 {
		t.Fatalf("loaned = %v, want 1", r.LoanedCount)
	}
	if r.ReservationCount == nil || *r.ReservationCount != 0 {
		t.Fatalf("reservation = %v, want 0", r.ReservationCount)
	}
	if r.DetailURL != "/content/detail?id=77" {
		t.Fatalf("detail url = %q", r.DetailURL)
	}
	if r.PreviewURL != "/preview/77" {
		t.Fatalf("preview url = %q", r.PreviewURL)
	}
	if r.CoverURL != "/covers/77.jpg" {
		t.Fatalf("cover url = %q", r.CoverURL)
	}
}

func TestGenericExtractorLoanSlashOverride(t *testing.T) {
	// The combined "대출: loaned/holdings" form overrides individual
	// matches and recomputes availability.
	html := `<li><h3>해리포터와 비밀의 방</h3>
		<span>대출: 2/5 예약: 1 도서 정보 안내</span>
		<a href="/d/1">상세</a></li>`

	records := extractGeneric(t, html, "해리포터")
	if len(records) == 0 {
		t.Fatalf("expected a record")
	}
	r := records[0]
	if r.LoanedCount == nil || *r.LoanedCount != 2 {
		t.Fatalf("loaned = %v, want 2", r.LoanedCount)
	}
	if r.HoldingsCount == nil || *r.HoldingsCount != 5 {
		t.Fatalf("holdings = %v, want 5", r.HoldingsCount)
	}
	if r.AvailableCount == nil || *r.AvailableCount != 3 {
		t.Fatalf("available = %v, want 3 (holdings-loaned)", r.AvailableCount)
	}
}

func TestGenericExtractorLoanSlashFloorsAtZero(t *testing.T) {
	html := `<li><h3>해리포터와 아즈카반의 죄수</h3>
		<span>대출: 7/5 전자책 대출 안내 문구</span></li>`

	records := extractGeneric(t, html, "해리포터")
	if len(records) == 0 {
		t.Fatalf("expected a record")
	}
	if r := records[0]; r.AvailableCount == nil || *r.AvailableCount != 0 {
		t.Fatalf("available = %v, want 0", r.AvailableCount)
	}
}

func TestGenericExtractorRejectsShortRegions(t *testing.T) {
	html := `<li>해리포터</li>`
	if records := extractGeneric(t, html, "해리포터"); len(records) != 0 {
		t.Fatalf("short region should be rejected, got %d records", len(records))
	}
}

func TestGenericExtractorRejectsNonMatchingQuery(t *testing.T) {
	html := `<li><h3>코스모스</h3><span>소장: 2 대출가능: 1 과학 교양서</span></li>`
	if records := extractGeneric(t, html, "해리포터"); len(records) != 0 {
		t.Fatalf("non-matching region should be rejected, got %d records", len(records))
	}
}

func TestGenericExtractorQueryMatchIgnoresSpacing(t *testing.T) {
	html := `<li><h3>해리 포터와 불의 잔</h3><span>소장: 1 대출가능: 1 전자책</span></li>`
	records := extractGeneric(t, html, "해리포터")
	if len(records) == 0 {
		t.Fatalf("spacing differences should not prevent a match")
	}
}

func TestGenericExtractorTitleFallback(t *testing.T) {
	// No title-bearing sub-element: first slash-delimited segment wins.
	html := `<li>해리포터와 혼혈왕자 / 조앤 K. 롤링 / 문학수첩 소장: 1</li>`
	records := extractGeneric(t, html, "해리포터")
	if len(records) == 0 {
		t.Fatalf("expected a record")
	}
	if got := records[0].Title; got != "해리포터와 혼혈왕자" {
		t.Fatalf("fallback title = %q", got)
	}
}

func TestGenericExtractorHandlerLinks(t *testing.T) {
	html := `<li><h3>해리포터와 죽음의 성물</h3>
		<span>소장: 2 대출가능: 1 전자책 안내</span>
		<a href="/plain">목록</a>
		<a href="/detail/999" onclick="fnContentClick('999'); return false;">상세</a>
		<a href="/pv/999" onclick="fnContentPreview('999')">보기</a></li>`

	records := extractGeneric(t, html, "해리포터")
	if len(records) == 0 {
		t.Fatalf("expected a record")
	}
	r := records[0]
	if r.DetailURL != "/detail/999" {
		t.Fatalf("detail url = %q, want handler link", r.DetailURL)
	}
	if r.PreviewURL != "/pv/999" {
		t.Fatalf("preview url = %q, want handler link", r.PreviewURL)
	}
}

func TestGenericExtractorStoreBadge(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "kyobo badge",
			html: `<li><h3>해리포터 전집</h3><span class="badge">교보</span><span>소장: 1 전자책 대출 안내</span></li>`,
			want: "교보문고",
		},
		{
			name: "yes24 in text",
			html: `<li><h3>해리포터 전집</h3><span>yes24 제공 전자책 소장: 1 안내</span></li>`,
			want: "예스24",
		},
		{
			name: "no store hint",
			html: `<li><h3>해리포터 전집</h3><span>소장: 1 전자책 대출 안내 문구</span></li>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := extractGeneric(t, tt.html, "해리포터")
			if len(records) == 0 {
				t.Fatalf("expected a record")
			}
			if got := records[0].StoreName; got != tt.want {
				t.Fatalf("store = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "해리 포터", want: "해리포터"},
		{input: "Harry Potter", want: "harrypotter"},
		{input: "  한 글  ", want: "한글"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
