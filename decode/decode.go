// Package decode turns raw provider response bytes into text, resolving the
// character encoding from the response headers and the provider's static
// encoding flag.
package decode

import (
	"mime"
	"strings"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// eucKRAliases are the charset spellings that all mean EUC-KR in the wild.
// Korean library platforms declare the same byte encoding under several
// names.
var eucKRAliases = map[string]struct{}{
	"euc-kr":         {},
	"euckr":          {},
	"ks_c_5601-1987": {},
	"ksc5601":        {},
	"cp949":          {},
	"x-windows-949":  {},
	"windows-949":    {},
}

// Body decodes raw response bytes. A charset declared in the Content-Type
// header overrides the provider's static flag; unrecognized charsets fall
// back to that flag. Decoding failure degrades to reading the bytes under
// the fallback encoding instead of failing the request.
func Body(raw []byte, contentType string, providerIsEucKR bool) string {
	if isEucKR(contentType, providerIsEucKR) {
		if text, err := fromEucKR(raw); err == nil {
			return text
		}
	}
	return string(raw)
}

// isEucKR resolves the effective encoding. Header charset wins when it is
// recognized; otherwise the provider flag decides.
func isEucKR(contentType string, providerFlag bool) bool {
	if charset := headerCharset(contentType); charset != "" {
		if _, ok := eucKRAliases[charset]; ok {
			return true
		}
		if charset == "utf-8" || charset == "utf8" {
			return false
		}
	}
	return providerFlag
}

func headerCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(params["charset"]))
}

func fromEucKR(raw []byte) (string, error) {
	decoded, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// QueryTerm percent-encodes a search term for URL template substitution.
// Legacy providers get each EUC-KR byte percent-encoded; everything else
// gets standard UTF-8 percent encoding.
func QueryTerm(term string, isEucKR bool) string {
	if !isEucKR {
		return urlEscape(term)
	}
	encoded, _, err := transform.Bytes(korean.EUCKR.NewEncoder(), []byte(term))
	if err != nil {
		// Characters outside the legacy repertoire degrade to UTF-8
		// percent encoding rather than failing the provider.
		return urlEscape(term)
	}
	var b strings.Builder
	for _, c := range encoded {
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

const upperHex = "0123456789ABCDEF"

func urlEscape(term string) string {
	// url.QueryEscape encodes spaces as '+', which the legacy search forms
	// reject; encode them as %20 instead.
	var b strings.Builder
	for i := 0; i < len(term); i++ {
		c := term[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == '.' || c == '~'
}
