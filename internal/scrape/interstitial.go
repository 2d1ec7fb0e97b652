package scrape

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brushtyler/pricesdropbot/pkg/browser"
)

const interstitialSettle = 3 * time.Second

// BypassInterstitial checks the page for a known interstitial/robot banner
// and, when present, tries to click through it: a randomized short delay
// (so the click does not land instantly), the continue control, then a
// settle wait. This is best effort — when the control cannot be found the
// check is skipped and extraction proceeds, most likely ending in an
// unreadable price, which is a tolerated outcome.
//
// Returns true when a banner was detected, whether or not the bypass
// worked.
func BypassInterstitial(ctx context.Context, page browser.Page, asin string) bool {
	if _, _, err := page.FindFirst(interstitialLocators); err != nil {
		return false
	}

	delay := time.Duration(rand.Float64() * 3 * float64(time.Second))
	log.Warn().
		Str("asin", asin).
		Dur("delay", delay).
		Msg("Interstitial detected, attempting continue-shopping bypass")

	select {
	case <-ctx.Done():
		return true
	case <-time.After(delay):
	}

	btn, _, err := page.FindFirst(interstitialContinueLocators)
	if err != nil {
		log.Warn().Str("asin", asin).Msg("Interstitial continue control not found, proceeding anyway")
		return true
	}
	if err := btn.Click(); err != nil {
		log.Warn().Err(err).Str("asin", asin).Msg("Interstitial continue click failed")
		return true
	}

	select {
	case <-ctx.Done():
	case <-time.After(interstitialSettle + time.Duration(rand.Float64()*3*float64(time.Second))):
	}
	return true
}
