package actions

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/brushtyler/pricesdropbot/internal/models"
	"github.com/brushtyler/pricesdropbot/internal/notify"
	"github.com/brushtyler/pricesdropbot/pkg/browser"
)

// Cart and checkout controls. The add-to-cart control is searched inside
// the accepted offer's own block first so the click lands on the evaluated
// offer, not whatever the buybox currently pins.
var addToCartLocators = []browser.Locator{
	browser.XPath(".//input[@name='submit.addToCart']"),
	browser.XPath(".//input[@id='add-to-cart-button']"),
	browser.CSS("#add-to-cart-button"),
}

var proceedToCheckoutLocators = []browser.Locator{
	browser.XPath("//input[@name='proceedToRetailCheckout']"),
	browser.CSS("#sc-buy-box-ptc-button input"),
	browser.CSS("#hlb-ptc-btn-native"),
}

var placeOrderLocators = []browser.Locator{
	browser.XPath("//input[@name='placeYourOrder1']"),
	browser.CSS("#submitOrderButtonId input"),
	browser.CSS("#placeYourOrder input"),
}

// Executor performs the configured subset of actions for an accepted offer:
// notify always, add to cart and checkout per the product flags. Every
// failure here is absorbed and logged; an executor problem must never take
// the monitor down.
type Executor struct {
	notifier notify.Notifier
}

// NewExecutor creates an executor delivering through notifier.
func NewExecutor(notifier notify.Notifier) *Executor {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Executor{notifier: notifier}
}

// Execute handles one accepted offer. offerEl is the offer's own block when
// available, nil otherwise. Returns true when a fully successful checkout
// fulfilled the product's objective and its monitor should stop.
func (e *Executor) Execute(ctx context.Context, page browser.Page, spec models.ProductSpec, snap models.ScrapeSnapshot, offer models.Offer, offerEl browser.Element, productURL string) bool {
	name := snap.ProductName
	if name == "" {
		name = spec.Name
	}

	msg := notify.Message{
		Text:     notify.FormatDrop(name, offer, snap.ItemsCount, productURL),
		ImageURL: snap.ImageURL,
	}
	if err := e.notifier.Send(ctx, msg); err != nil {
		log.Warn().Err(err).Str("asin", spec.ASIN).Msg("Notification delivery failed")
	}

	if !spec.WantsCart() || ctx.Err() != nil {
		return false
	}

	if !e.addToCart(spec, page, offerEl) {
		// Without the item in the cart there is nothing to check out.
		return false
	}

	if !spec.AutoCheckout || ctx.Err() != nil {
		return false
	}
	return e.checkout(ctx, page, spec)
}

// addToCart clicks the offer's cart control. A missing control is a
// non-fatal condition: the step is skipped and reported.
func (e *Executor) addToCart(spec models.ProductSpec, page browser.Page, offerEl browser.Element) bool {
	var btn browser.Element
	var err error
	if offerEl != nil {
		btn, _, err = offerEl.FindFirst(addToCartLocators)
	} else {
		btn, _, err = page.FindFirst(addToCartLocators)
	}
	if err != nil {
		log.Warn().Str("asin", spec.ASIN).Msg("Add-to-cart control not found, skipping cart step")
		return false
	}
	if err := btn.Click(); err != nil {
		log.Warn().Err(err).Str("asin", spec.ASIN).Msg("Add-to-cart click failed")
		return false
	}
	log.Info().Str("asin", spec.ASIN).Msg("Offer added to cart")
	return true
}

// checkout drives the proceed/confirm steps. The first failing step aborts
// the rest without retry: checkout clicks are not safe to repeat blindly.
func (e *Executor) checkout(ctx context.Context, page browser.Page, spec models.ProductSpec) bool {
	steps := []struct {
		name     string
		locators []browser.Locator
	}{
		{"proceed_to_checkout", proceedToCheckoutLocators},
		{"place_order", placeOrderLocators},
	}

	for _, step := range steps {
		if ctx.Err() != nil {
			return false
		}
		btn, _, err := page.FindFirst(step.locators)
		if err != nil {
			log.Error().Str("asin", spec.ASIN).Str("step", step.name).Msg("Checkout control not found, aborting checkout")
			return false
		}
		if err := btn.Click(); err != nil {
			log.Error().Err(err).Str("asin", spec.ASIN).Str("step", step.name).Msg("Checkout step failed, aborting checkout")
			return false
		}
	}

	log.Info().Str("asin", spec.ASIN).Msg("Checkout completed, monitoring objective fulfilled")
	return true
}
