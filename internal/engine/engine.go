package engine

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brushtyler/pricesdropbot/internal/models"
)

// Outcome classifies one offer slot for one polling cycle.
type Outcome int

const (
	OutcomeUnavailable Outcome = iota
	OutcomePriceUnreadable
	OutcomeFilteredOut
	OutcomePriceTooHigh
	OutcomeAccepted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomePriceUnreadable:
		return "price_unreadable"
	case OutcomeFilteredOut:
		return "filtered_out"
	case OutcomePriceTooHigh:
		return "price_too_high"
	case OutcomeAccepted:
		return "accepted"
	default:
		return "unknown"
	}
}

// neverObserved is the previous-price sentinel for a slot that has no prior
// cycle. Distinct from models.PriceUnknown so that the very first
// unavailable/unreadable observation still counts as a change and gets its
// one log line.
const neverObserved float64 = 0

// State is the mutable per-monitor memory the change gate compares against.
// Owned exclusively by one monitor loop, never shared.
type State struct {
	// PrevMainPrice is the main-offer price observed last cycle;
	// neverObserved until the first cycle completes.
	PrevMainPrice float64
	// PrevOtherPrices corresponds positionally to last cycle's secondary
	// offers. Positional matching is best effort: a reordered page yields
	// spurious "changed" slots, which is tolerated.
	PrevOtherPrices []float64
	LastCheck       time.Time
}

// NewState creates the blank state for a freshly started monitor.
func NewState() *State {
	return &State{}
}

// SlotResult is the classification of one offer slot.
type SlotResult struct {
	Outcome Outcome
	// Price observed for the slot this cycle; models.PriceUnknown when the
	// slot had no readable price.
	Price float64
	// Changed reports whether Price differs from the previous cycle's
	// observation for the same slot. Logs for every outcome except
	// Accepted are gated on it.
	Changed bool
	Offer   *models.Offer
}

// CycleResult is one full cycle's worth of slot classifications.
type CycleResult struct {
	Main   SlotResult
	Others []SlotResult
}

// Accepted returns every accepted slot of the cycle, main offer first.
func (c CycleResult) Accepted() []SlotResult {
	var out []SlotResult
	if c.Main.Outcome == OutcomeAccepted {
		out = append(out, c.Main)
	}
	for _, s := range c.Others {
		if s.Outcome == OutcomeAccepted {
			out = append(out, s)
		}
	}
	return out
}

// EvaluateCycle classifies the main offer and every secondary offer of snap
// against spec, consuming and updating st. Pure apart from logging: no
// sleeping, no I/O, so the whole ladder is testable as a function of
// snapshot plus state.
func EvaluateCycle(spec models.ProductSpec, snap models.ScrapeSnapshot, st *State) CycleResult {
	var res CycleResult

	res.Main = evaluateSlot(spec, snap.MainOffer, snap.Unavailable, st.PrevMainPrice)
	logSlot(spec, snap, res.Main, true)
	st.PrevMainPrice = res.Main.Price

	prices := make([]float64, len(snap.OtherOffers))
	for i := range snap.OtherOffers {
		prev := neverObserved
		if i < len(st.PrevOtherPrices) {
			prev = st.PrevOtherPrices[i]
		}
		slot := evaluateSlot(spec, &snap.OtherOffers[i], false, prev)
		logSlot(spec, snap, slot, false)
		prices[i] = slot.Price
		res.Others = append(res.Others, slot)
	}
	st.PrevOtherPrices = prices
	st.LastCheck = time.Now()

	return res
}

// evaluateSlot runs the classification ladder for one offer slot, in strict
// priority order: unavailable, unreadable, filtered, then the price
// threshold.
func evaluateSlot(spec models.ProductSpec, offer *models.Offer, unavailable bool, prev float64) SlotResult {
	res := SlotResult{Price: models.PriceUnknown, Offer: offer}

	switch {
	case unavailable:
		res.Outcome = OutcomeUnavailable
	case offer == nil || !offer.PriceReadable():
		res.Outcome = OutcomePriceUnreadable
	default:
		res.Price = offer.Price
		filter := spec.FilterSet()
		switch {
		case filter != nil && (offer.State == models.ConditionUnknown || !filter[offer.State]):
			res.Outcome = OutcomeFilteredOut
		case spec.SellerID != "" && offer.SoldBy != "" && offer.SoldBy != spec.SellerID:
			res.Outcome = OutcomeFilteredOut
		case offer.Price <= spec.CutPrice:
			res.Outcome = OutcomeAccepted
		default:
			res.Outcome = OutcomePriceTooHigh
		}
	}

	res.Changed = res.Price != prev
	return res
}

// logSlot emits the one human-readable classification line per slot.
// Everything but Accepted is gated on the change flag, so an unchanged
// observation stays silent across cycles.
func logSlot(spec models.ProductSpec, snap models.ScrapeSnapshot, slot SlotResult, main bool) {
	if slot.Outcome != OutcomeAccepted && !slot.Changed {
		return
	}

	ev := log.Info().
		Str("asin", spec.ASIN).
		Str("product", snap.ProductName).
		Bool("main_offer", main).
		Str("outcome", slot.Outcome.String())

	switch slot.Outcome {
	case OutcomeUnavailable:
		ev.Msg("Product currently unavailable")
	case OutcomePriceUnreadable:
		ev.Msg("Offer price could not be read")
	case OutcomeFilteredOut:
		ev.Float64("price", slot.Price).
			Str("condition", string(slot.Offer.State)).
			Msg("Offer filtered out")
	case OutcomePriceTooHigh:
		ev.Float64("price", slot.Price).
			Float64("cut_price", spec.CutPrice).
			Msg("Price above threshold")
	case OutcomeAccepted:
		ev.Float64("price", slot.Price).
			Float64("cut_price", spec.CutPrice).
			Msg("Qualifying price found")
	}
}
