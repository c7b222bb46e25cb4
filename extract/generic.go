package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/hanbitlee/ebookscout/models"
)

// genericExtractor scrapes availability signals out of arbitrary catalog
// markup. It scans broad-to-narrow structural regions, keeps the ones that
// look like book entries for the query, and pulls counts out of their text.
type genericExtractor struct{}

// regionSelectors are tried in order, broad to narrow. The same element may
// match several; downstream dedup collapses the repeats.
var regionSelectors = []string{
	"li",
	".book_item",
	".book-list li",
	".search-result li",
	".bookList li",
	".cont_list li",
	".listType li",
	"article",
}

// titleSelectors are the title-bearing sub-elements, most specific first.
var titleSelectors = []string{
	".title",
	".book_tit",
	".tit",
	"h3",
	"h4",
	"strong",
	"a[title]",
}

// minRegionTextLen rejects navigation chrome and other short regions.
const minRegionTextLen = 18

var (
	holdingsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:소장|보유)\s*[:：]?\s*(\d+)`),
		regexp.MustCompile(`(\d+)\s*권\s*(?:소장|보유)`),
	}
	availablePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:대출\s*가능|대출가능)\s*[:：]?\s*(\d+)`),
		regexp.MustCompile(`(?:대출\s*가능|대출가능)\s*(\d+)\s*권`),
	}
	loanedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:대출\s*중|대출중)\s*[:：]?\s*(\d+)`),
	}
	reservationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:예약|대기)\s*[:：]?\s*(\d+)`),
		regexp.MustCompile(`예약\s*(\d+)\s*명`),
	}
	// loanSlashPattern is the combined "대출: loaned/holdings" form some
	// platforms render; when present it overrides the individual matches.
	loanSlashPattern = regexp.MustCompile(`대출\s*[:：]\s*(\d+)\s*/\s*(\d+)`)

	contentClickPattern   = regexp.MustCompile(`(?i)fn?_?content(?:click|detail|view)`)
	contentPreviewPattern = regexp.MustCompile(`(?i)fn?_?(?:content)?preview`)
)

// detailPathMarkers identify hrefs that point at a detail view.
var detailPathMarkers = []string{"contentDetail", "content/detail", "book_info", "searchDetail"}

// storeAliases normalizes store badges to the two commercial ebook stores
// the platforms resell from.
var storeAliases = []struct {
	marker string
	name   string
}{
	{"교보", "교보문고"},
	{"kyobo", "교보문고"},
	{"예스24", "예스24"},
	{"yes24", "예스24"},
}

func (genericExtractor) Extract(body, query string) []models.BookRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	normalizedQuery := Normalize(query)
	var records []models.BookRecord

	for _, selector := range regionSelectors {
		doc.Find(selector).Each(func(_ int, node *goquery.Selection) {
			text := CompactText(node.Text())
			if utf8.RuneCountInString(text) < minRegionTextLen {
				return
			}

			title := extractTitle(node, text)
			if title == "" {
				return
			}

			if !strings.Contains(Normalize(title), normalizedQuery) &&
				!strings.Contains(Normalize(text), normalizedQuery) {
				return
			}

			holdings := pickNumber(text, holdingsPatterns)
			available := pickNumber(text, availablePatterns)
			loaned := pickNumber(text, loanedPatterns)
			reservation := pickNumber(text, reservationPatterns)

			if m := loanSlashPattern.FindStringSubmatch(text); m != nil {
				loaned = parseCount(m[1])
				holdings = parseCount(m[2])
				if loaned != nil && holdings != nil {
					available = models.IntPtr(max(*holdings-*loaned, 0))
				}
			}

			records = append(records, models.BookRecord{
				Title:            title,
				StoreName:        extractStore(node, text),
				DetailURL:        extractDetailURL(node),
				PreviewURL:       extractPreviewURL(node),
				CoverURL:         node.Find("img").First().AttrOr("src", ""),
				HoldingsCount:    holdings,
				AvailableCount:   available,
				LoanedCount:      loaned,
				ReservationCount: reservation,
				RawStatusText:    truncateRunes(text, statusTextCap),
			})
		})
	}

	return records
}

func extractTitle(node *goquery.Selection, fallbackText string) string {
	for _, selector := range titleSelectors {
		el := node.Find(selector).First()
		value := CompactText(el.Text())
		if value == "" {
			value = CompactText(el.AttrOr("title", ""))
		}
		if utf8.RuneCountInString(value) >= 2 {
			return value
		}
	}
	// Catalog rows commonly read "title / author / publisher".
	head, _, _ := strings.Cut(fallbackText, "/")
	return truncateRunes(strings.TrimSpace(head), 80)
}

func extractDetailURL(node *goquery.Selection) string {
	if href, ok := findByHandler(node, contentClickPattern); ok {
		return href
	}
	var detail string
	node.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := a.AttrOr("href", "")
		for _, marker := range detailPathMarkers {
			if strings.Contains(href, marker) {
				detail = href
				return false
			}
		}
		return true
	})
	if detail != "" {
		return detail
	}
	return node.Find("a[href]").First().AttrOr("href", "")
}

func extractPreviewURL(node *goquery.Selection) string {
	if href, ok := findByHandler(node, contentPreviewPattern); ok {
		return href
	}
	var preview string
	node.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if strings.Contains(a.Text(), "미리보기") {
			preview = a.AttrOr("href", "")
			return false
		}
		return true
	})
	return preview
}

// findByHandler returns the href of the first anchor whose inline onclick
// handler matches the pattern.
func findByHandler(node *goquery.Selection, pattern *regexp.Regexp) (string, bool) {
	var href string
	var found bool
	node.Find("a[onclick]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if pattern.MatchString(a.AttrOr("onclick", "")) {
			href = a.AttrOr("href", "")
			found = true
			return false
		}
		return true
	})
	return href, found
}

func extractStore(node *goquery.Selection, text string) string {
	badge := CompactText(node.Find(".store, .store_name, .badge, .company").First().Text())
	for _, alias := range storeAliases {
		if strings.Contains(strings.ToLower(badge), alias.marker) {
			return alias.name
		}
	}
	lowered := strings.ToLower(text)
	for _, alias := range storeAliases {
		if strings.Contains(lowered, alias.marker) {
			return alias.name
		}
	}
	return ""
}

func pickNumber(text string, patterns []*regexp.Regexp) *int {
	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			if v := parseCount(m[1]); v != nil {
				return v
			}
		}
	}
	return nil
}

func parseCount(raw string) *int {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}
