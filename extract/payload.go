package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/hanbitlee/ebookscout/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// coerceCount turns a loosely typed JSON count into an int. The platforms
// emit counts as numbers or numeric strings interchangeably; anything
// non-finite or non-numeric is treated as no signal.
func coerceCount(v any) *int {
	switch value := v.(type) {
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil
		}
		return models.IntPtr(int(value))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil
		}
		return models.IntPtr(n)
	default:
		return nil
	}
}

// derivedAvailable computes spare copies from holdings minus loans, floored
// at zero. Unknown inputs stay unknown rather than defaulting to zero.
func derivedAvailable(holdings, loaned *int) *int {
	if holdings == nil || loaned == nil {
		return nil
	}
	return models.IntPtr(max(*holdings-*loaned, 0))
}

// statusFallback assembles a human-readable snippet from bibliographic
// fields. JSON payloads carry no status markup, so this is what the
// decision classifier gets to scan for tokens.
func statusFallback(author, publisher string) string {
	var parts []string
	if author = strings.TrimSpace(author); author != "" {
		parts = append(parts, fmt.Sprintf("저자: %s", author))
	}
	if publisher = strings.TrimSpace(publisher); publisher != "" {
		parts = append(parts, fmt.Sprintf("출판사: %s", publisher))
	}
	return strings.Join(parts, " / ")
}

// firstNonEmpty picks a cover image from size-variant fields in priority
// order.
func firstNonEmpty(urls ...string) string {
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			return u
		}
	}
	return ""
}
