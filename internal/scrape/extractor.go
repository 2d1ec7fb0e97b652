package scrape

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/brushtyler/pricesdropbot/internal/models"
	"github.com/brushtyler/pricesdropbot/pkg/browser"
)

// Result is one cycle's extraction output. Element handles are kept next to
// the parsed offers so the action executor can click the exact offer block
// that was evaluated; OtherEls is positionally parallel to
// Snapshot.OtherOffers.
type Result struct {
	Snapshot models.ScrapeSnapshot
	MainEl   browser.Element
	OtherEls []browser.Element

	// LocatorHint is the main-offer locator index that resolved this cycle,
	// fed back on the next one so already-failed candidates are tried last.
	// -1 when no locator resolved.
	LocatorHint int
}

// Extractor turns a rendered product page into a ScrapeSnapshot. Missing
// optional fields never fail a cycle; they degrade to defaults and, where
// unexpected, leave an HTML capture behind.
type Extractor struct {
	diag Diagnostics
}

// NewExtractor creates an extractor reporting parse failures to diag.
func NewExtractor(diag Diagnostics) *Extractor {
	if diag == nil {
		diag = NopDiagnostics{}
	}
	return &Extractor{diag: diag}
}

// Snapshot extracts the current observation for spec from page. hint is the
// main-offer locator index that succeeded last cycle (-1 for none).
func (e *Extractor) Snapshot(page browser.Page, spec models.ProductSpec, hint int) Result {
	res := Result{LocatorHint: hint}
	res.Snapshot.ItemsCount = 1

	// Unavailability wins over everything else: no offer extraction is
	// attempted for a page that says so.
	if _, _, err := page.FindFirst(unavailableLocators); err == nil {
		res.Snapshot.Unavailable = true
		return res
	}

	if el, _, err := page.FindFirst(productTitleLocators); err == nil {
		if t, err := el.Text(); err == nil {
			res.Snapshot.ProductName = strings.TrimSpace(t)
		}
	}
	res.Snapshot.ItemsCount = e.itemsCount(page)
	res.Snapshot.ImageURL = e.imageURL(page)

	e.extractMainOffer(page, spec, &res)
	e.extractOtherOffers(page, spec, &res)
	return res
}

func (e *Extractor) extractMainOffer(page browser.Page, spec models.ProductSpec, res *Result) {
	container, idx, err := page.FindFirst(withHint(mainOfferLocators, res.LocatorHint))
	if err != nil {
		res.LocatorHint = -1
		e.captureErr(page, "main_offer", spec.ASIN, err)
		return
	}
	res.LocatorHint = unhint(mainOfferLocators, res.LocatorHint, idx)

	offer := models.Offer{
		Price:            models.PriceUnknown,
		RawConditionText: "New",
		State:            models.ConditionNew,
		Pinned:           true,
	}

	price, err := priceOf(container)
	if err != nil {
		// The container resolved but its price did not: keep the offer as
		// unreadable so the decision engine can report it, and capture the
		// page for locator maintenance.
		e.captureErr(page, "main_offer", spec.ASIN, err)
	} else {
		offer.Price = price
	}

	if used, _, err := container.FindFirst(usedOverrideLocators); err == nil {
		if t, err := used.Text(); err == nil && strings.TrimSpace(t) != "" {
			offer.RawConditionText = strings.TrimSpace(t)
			offer.State = models.NormalizeCondition(offer.RawConditionText)
		}
	}

	res.Snapshot.MainOffer = &offer
	res.MainEl = container
}

func (e *Extractor) extractOtherOffers(page browser.Page, spec models.ProductSpec, res *Result) {
	blocks, err := page.All(otherOffersLocator)
	if err != nil {
		e.captureErr(page, "other_offer", spec.ASIN, err)
		return
	}

	for i, block := range blocks {
		offer, err := e.parseOfferBlock(block)
		if err != nil {
			// One malformed block must not abort the rest.
			e.captureErr(page, "other_offer", spec.ASIN,
				fmt.Errorf("offer %d of %d: %w", i, len(blocks), err))
			continue
		}
		res.Snapshot.OtherOffers = append(res.Snapshot.OtherOffers, offer)
		res.OtherEls = append(res.OtherEls, block)
	}
}

func (e *Extractor) parseOfferBlock(block browser.Element) (models.Offer, error) {
	condEl, _, err := block.FindFirst(offerConditionLocators)
	if err != nil {
		return models.Offer{}, errors.New("condition heading not found")
	}
	condText, err := condEl.Text()
	if err != nil {
		return models.Offer{}, fmt.Errorf("condition text: %w", err)
	}
	condText = strings.TrimSpace(condText)

	offer := models.Offer{
		RawConditionText: condText,
		State:            models.NormalizeCondition(condText),
	}

	price, err := priceOf(block)
	if err != nil {
		return models.Offer{}, err
	}
	offer.Price = price

	if el, _, err := block.FindFirst(offerSoldByLocators); err == nil {
		if t, err := el.Text(); err == nil {
			offer.SoldBy = strings.TrimSpace(t)
		}
	}
	if el, _, err := block.FindFirst(offerShipsFromLocators); err == nil {
		if t, err := el.Text(); err == nil {
			offer.ShipsFrom = strings.TrimSpace(t)
		}
	}
	if el, _, err := block.FindFirst(offerDeliveryLocators); err == nil {
		if t, err := el.Text(); err == nil {
			offer.DeliveryCost = parseMoney(t)
		}
	}
	return offer, nil
}

func (e *Extractor) itemsCount(page browser.Page) int {
	for _, loc := range itemCountLocators {
		el, _, err := page.FindFirst([]browser.Locator{loc})
		if err != nil {
			continue
		}
		t, err := el.Text()
		if err != nil {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil && n >= 1 {
			return n
		}
	}
	return 1
}

func (e *Extractor) imageURL(page browser.Page) string {
	el, _, err := page.FindFirst(productImageLocators)
	if err != nil {
		return ""
	}
	src, err := el.Attribute("src")
	if err != nil {
		return ""
	}
	return src
}

func (e *Extractor) captureErr(page browser.Page, context, asin string, cause error) {
	html, err := page.HTML()
	if err != nil {
		log.Warn().Err(err).Str("asin", asin).Msg("Diagnostics HTML fetch failed")
		html = ""
	}
	detail := fmt.Sprintf("URL: %s, Error: %v", page.CurrentURL(), cause)
	e.diag.Capture(context, asin, html, detail)
}

// withHint reorders locators so the index that succeeded last cycle is
// tried first. Purely an optimization: the scan still covers every
// candidate.
func withHint(locators []browser.Locator, hint int) []browser.Locator {
	if hint <= 0 || hint >= len(locators) {
		return locators
	}
	out := make([]browser.Locator, 0, len(locators))
	out = append(out, locators[hint])
	for i, loc := range locators {
		if i != hint {
			out = append(out, loc)
		}
	}
	return out
}

// unhint maps an index into the withHint ordering back to the original
// table index.
func unhint(locators []browser.Locator, hint, idx int) int {
	if hint <= 0 || hint >= len(locators) {
		return idx
	}
	if idx == 0 {
		return hint
	}
	orig := idx - 1
	if orig >= hint {
		orig++
	}
	return orig
}
