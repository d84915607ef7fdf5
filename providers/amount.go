package providers

import (
	"fmt"
	"strconv"
	"strings"
)

// parseDecimalMinor converts a decimal amount string ("499", "499.5",
// "499.00") to minor units, assuming a two-decimal currency. Gateways are
// inconsistent about amount formats, so callers treat a parse failure as
// "amount unknown" rather than rejecting the whole webhook.
func parseDecimalMinor(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	whole, frac, _ := strings.Cut(s, ".")
	major, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}
	switch len(frac) {
	case 0:
		frac = "00"
	case 1:
		frac += "0"
	case 2:
	default:
		frac = frac[:2]
	}
	minor, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}
	if major < 0 || strings.HasPrefix(whole, "-") {
		return 0, fmt.Errorf("amount %q: negative", s)
	}
	return major*100 + minor, nil
}
