// Package extract turns decoded provider responses into book records. Each
// provider maps to exactly one extractor: two sources expose bespoke JSON
// payloads, everything else goes through the generic markup extractor.
package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/hanbitlee/ebookscout/models"
	"github.com/hanbitlee/ebookscout/registry"
)

// Extractor produces raw book records from one provider's decoded response
// body. Implementations are pure and safe for concurrent use.
type Extractor interface {
	Extract(body, query string) []models.BookRecord
}

// ForProvider selects the extractor for a provider id, chosen once per
// provider at orchestration time.
func ForProvider(id string) Extractor {
	switch id {
	case registry.SeoulID:
		return seoulExtractor{}
	case registry.EunpyeongID:
		return eunpyeongExtractor{}
	default:
		return genericExtractor{}
	}
}

// Normalize folds text for comparisons: lower-cased, whitespace removed,
// NFKC-normalized. Query matching and dedup keys both use it.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFKC.String(b.String())
}

// CompactText collapses runs of whitespace into single spaces.
func CompactText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// statusTextCap bounds the raw snippet carried on each record.
const statusTextCap = 300
