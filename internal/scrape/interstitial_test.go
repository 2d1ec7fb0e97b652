package scrape

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBypassInterstitialAbsent(t *testing.T) {
	t.Parallel()

	page := &fakePage{}
	assert.False(t, BypassInterstitial(context.Background(), page, "B000TEST00"))
}

func TestBypassInterstitialCancelledBeforeClick(t *testing.T) {
	t.Parallel()

	btn := &fakeEl{}
	page := &fakePage{}
	page.child(interstitialLocators[2], &fakeEl{text: "Click the button below to continue shopping"})
	page.child(interstitialContinueLocators[1], btn)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.True(t, BypassInterstitial(ctx, page, "B000TEST00"))
	assert.Zero(t, btn.clicked, "cancelled context must not reach the click")
}
