package scrape

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/brushtyler/pricesdropbot/pkg/browser"
)

// ErrPriceUnreadable marks an offer whose price fragments could not be
// located or parsed. The offer is still evaluated, as unreadable.
var ErrPriceUnreadable = errors.New("scrape: price unreadable")

// priceOf assembles the numeric price of an offer block. Listing pages
// render the whole and fraction parts as separate text fragments; the whole
// part carries thousands separators that must be stripped before parsing,
// and the fraction fragment is absent for integer prices.
func priceOf(el browser.Element) (float64, error) {
	wholeEl, _, err := el.FindFirst(priceWholeLocators)
	if err != nil {
		return 0, fmt.Errorf("%w: whole part not found", ErrPriceUnreadable)
	}
	wholeText, err := wholeEl.Text()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPriceUnreadable, err)
	}
	whole := cleanWhole(wholeText)
	if whole == "" {
		return 0, fmt.Errorf("%w: empty whole part %q", ErrPriceUnreadable, wholeText)
	}

	fraction := ""
	if fracEl, _, err := el.FindFirst(priceFractionLocators); err == nil {
		if t, err := fracEl.Text(); err == nil {
			fraction = strings.TrimSpace(t)
		}
	}

	raw := whole
	if fraction != "" {
		raw = whole + "." + fraction
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse %q: %v", ErrPriceUnreadable, raw, err)
	}
	return price, nil
}

// cleanWhole strips thousands separators, currency glyphs and whitespace
// from the whole fragment, keeping digits only.
func cleanWhole(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseMoney extracts a decimal amount from locale-formatted money text
// such as "3,99 €" or "EUR 12.50". Returns 0 for free/unparseable text.
func parseMoney(s string) float64 {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return 0
	}
	start := strings.IndexFunc(cleaned, func(r rune) bool { return r >= '0' && r <= '9' })
	if start < 0 {
		return 0
	}
	end := start
	for end < len(cleaned) {
		c := cleaned[end]
		if (c >= '0' && c <= '9') || c == ',' || c == '.' {
			end++
			continue
		}
		break
	}
	num := strings.ReplaceAll(cleaned[start:end], ",", ".")
	// Keep only the last dot as decimal separator.
	if parts := strings.Split(num, "."); len(parts) > 2 {
		num = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return v
}
