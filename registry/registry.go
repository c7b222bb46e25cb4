// Package registry carries the static catalog source descriptors. The
// search pipeline consumes this list read-only; ids are unique and stable.
package registry

import (
	"github.com/samber/lo"

	"github.com/hanbitlee/ebookscout/models"
)

// Extractor ids referenced by the search pipeline when selecting a
// structured payload extractor instead of the generic markup one.
const (
	SeoulID     = "seoul"
	EunpyeongID = "eunpyeong-ebook"
)

var libraryProviders = []models.Provider{
	{ID: SeoulID, Name: "서울도서관", BaseURL: "https://elib.seoul.go.kr/contents/search/content?t=EB&k={searchTerm}", LoginURL: "https://elib.seoul.go.kr/login"},
	{ID: EunpyeongID, Name: "은평구립도서관", BaseURL: "https://epbook.eplib.or.kr/ebookPlatform/home/search.do?k={searchTerm}", LoginURL: "https://epbook.eplib.or.kr/ebookPlatform/login/loginForm.do"},
	{ID: "nanet", Name: "국회도서관", BaseURL: "https://nanet.dkyobobook.co.kr/search/searchList.ink?schClst=all&schDvsn=000&orderByKey=&schTxt={searchTerm}", LoginURL: "https://nanet.dkyobobook.co.kr/member/login.ink", SubscriptionListAvailable: true},
	{ID: "junggu", Name: "중구도서관", BaseURL: "https://ebook.junggulib.or.kr/elibrary-front/search/searchList.ink?schDvsn=000&orderByKey=&schTxt={searchTerm}", LoginURL: "https://ebook.junggulib.or.kr/elibrary-front/member/login.ink"},
	{ID: "yongsan", Name: "용산도서관", BaseURL: "https://ebook.yslibrary.or.kr/elibrary-front/search/searchList.ink?schDvsn=000&orderByKey=&schTxt={searchTerm}", LoginURL: "https://ebook.yslibrary.or.kr/elibrary-front/member/login.ink"},
	{ID: "jungnang", Name: "중랑도서관", BaseURL: "https://ebook.jungnanglib.seoul.kr/elibrary-front/search/searchList.ink?schClst=all&schDvsn=000&orderByKey=&schTxt={searchTerm}", LoginURL: "https://ebook.jungnanglib.seoul.kr/elibrary-front/member/login.ink"},
	{ID: "ydp", Name: "영등포도서관", BaseURL: "https://ydplib.dkyobobook.co.kr/search/searchList.ink?schClst=all&schDvsn=000&orderByKey=&schTxt={searchTerm}", LoginURL: "https://ydplib.dkyobobook.co.kr/member/login.ink", SubscriptionListAvailable: true},
	{ID: "gangnam", Name: "강남도서관", BaseURL: "https://ebook.gangnam.go.kr/elibbook/book_info.asp?search=title&strSearch={searchTerm}", IsEucKR: true, LoginURL: "https://ebook.gangnam.go.kr/elibbook/login.asp"},
	{ID: "songpa", Name: "송파도서관", BaseURL: "https://ebook.splib.or.kr/search/?srch_order=total&src_key={searchTerm}", LoginURL: "https://ebook.splib.or.kr/member/login"},
	{ID: "dongdaemun", Name: "동대문도서관", BaseURL: "https://e-book.l4d.or.kr/elibrary-front/search/searchList.ink?schClst=all&schDvsn=000&orderByKey=&schTxt={searchTerm}", LoginURL: "https://e-book.l4d.or.kr/elibrary-front/main.ink"},
	{ID: "jongno", Name: "종로구도서관", BaseURL: "https://elib.jongno.go.kr/search/?srch_order=total&src_key={searchTerm}", LoginURL: "https://elib.jongno.go.kr/member/login"},
	{ID: "mapo", Name: "마포구도서관", BaseURL: "https://ebook.mapo.go.kr/elibrary-front/search/searchList.ink?schClst=all&schDvsn=000&orderByKey=&schTxt={searchTerm}", LoginURL: "https://ebook.mapo.go.kr/elibrary-front/main.ink"},
	{ID: "seongdong", Name: "성동구도서관", BaseURL: "https://ebook.sdlib.or.kr:444/elibrary-front/search/searchList.ink?schDvsn=000&orderByKey=&schTxt={searchTerm}", LoginURL: "https://ebook.sdlib.or.kr:444/elibrary-front/member/login.ink"},
}

// eunpyeongUnified is the broader regional union catalog used as the
// phase 2 fallback.
var eunpyeongUnified = models.Provider{
	ID:       "eunpyeong-unified",
	Name:     "은평구립도서관 통합검색",
	BaseURL:  "https://lib.eplib.or.kr/unified/search.asp?search_word={searchTerm}",
	LoginURL: "https://lib.eplib.or.kr/login.asp",
}

// samStore is the external commercial-purchase search used as the phase 3
// fallback.
var samStore = models.Provider{
	ID:       "kyobo-sam",
	Name:     "교보 SAM",
	BaseURL:  "https://search.kyobobook.co.kr/search?keyword={searchTerm}&gbCode=SAM&target=sam",
	LoginURL: "https://order.kyobobook.co.kr/login",
}

// Libraries returns the searchable provider list in its stable order.
func Libraries() []models.Provider {
	out := make([]models.Provider, len(libraryProviders))
	copy(out, libraryProviders)
	return out
}

// EunpyeongUnified returns the phase 2 fallback descriptor.
func EunpyeongUnified() models.Provider {
	return eunpyeongUnified
}

// SamStore returns the phase 3 fallback descriptor.
func SamStore() models.Provider {
	return samStore
}

// Listing builds the configuration payload served to the presentation
// layer, enriching each provider with its derived library model.
func Listing() models.ProvidersResponse {
	return models.ProvidersResponse{
		LibraryProviders: lo.Map(libraryProviders, func(p models.Provider, _ int) models.ProviderInfo {
			model := "owned"
			if p.SubscriptionListAvailable {
				model = "subscription"
			}
			return models.ProviderInfo{Provider: p, LibraryModel: model}
		}),
		EunpyeongUnified: eunpyeongUnified,
		SamStore:         samStore,
	}
}
