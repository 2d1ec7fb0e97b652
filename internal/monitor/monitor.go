package monitor

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brushtyler/pricesdropbot/internal/actions"
	"github.com/brushtyler/pricesdropbot/internal/engine"
	"github.com/brushtyler/pricesdropbot/internal/history"
	"github.com/brushtyler/pricesdropbot/internal/models"
	"github.com/brushtyler/pricesdropbot/internal/scrape"
	"github.com/brushtyler/pricesdropbot/pkg/browser"
	"github.com/brushtyler/pricesdropbot/pkg/ratelimit"
)

// PageFactory opens a fresh page for one monitor. Pages are stateful (they
// hold navigation history and session cookies) and are never shared across
// monitors.
type PageFactory func(ctx context.Context) (browser.Page, error)

// Deps bundles the collaborators every monitor shares. The per-product
// state stays inside each Monitor.
type Deps struct {
	Pages      PageFactory
	Extractor  *scrape.Extractor
	Executor   *actions.Executor
	Tracker    *history.Tracker
	Limiter    *ratelimit.Limiter
	ProductURL func(asin string) string

	// Jitter is the upper bound of the random extra sleep added to each
	// poll interval; Backoff bounds the randomized sleep after a failed
	// cycle.
	Jitter  time.Duration
	Backoff time.Duration
}

// Monitor polls one product page. It owns its engine state and its page
// exclusively; cycles are strictly sequential.
type Monitor struct {
	spec  models.ProductSpec
	deps  Deps
	state *engine.State
	hint  int
	page  browser.Page
}

// New creates a monitor for spec with fresh state.
func New(spec models.ProductSpec, deps Deps) *Monitor {
	return &Monitor{spec: spec, deps: deps, state: engine.NewState(), hint: -1}
}

// Run polls until ctx is cancelled or a successful checkout fulfills the
// objective. Every failure is recoverable: the page is reloaded and the
// cycle retried after a randomized backoff, indefinitely.
func (m *Monitor) Run(ctx context.Context) {
	defer func() {
		if m.page != nil {
			m.page.Close()
		}
	}()

	log.Info().
		Str("asin", m.spec.ASIN).
		Str("product", m.spec.Name).
		Dur("interval", m.spec.PollInterval).
		Msg("Monitor started")

	for ctx.Err() == nil {
		stop, err := m.cycle(ctx)
		if stop {
			log.Info().Str("asin", m.spec.ASIN).Msg("Monitor objective fulfilled, stopping")
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Warn().Err(err).Str("asin", m.spec.ASIN).Msg("Cycle failed, reloading and backing off")
			if m.page != nil {
				if rerr := m.page.Refresh(ctx); rerr != nil {
					log.Warn().Err(rerr).Str("asin", m.spec.ASIN).Msg("Page reload failed")
				}
			}
			if !m.sleep(ctx, randomized(m.deps.Backoff)) {
				break
			}
			continue
		}
		if !m.sleep(ctx, m.spec.PollInterval+randomized(m.deps.Jitter)) {
			break
		}
	}
	log.Info().Str("asin", m.spec.ASIN).Msg("Monitor stopped")
}

// cycle runs one navigate-extract-decide-act pass. stop means a terminal
// purchase succeeded.
func (m *Monitor) cycle(ctx context.Context) (stop bool, err error) {
	if m.page == nil {
		page, err := m.deps.Pages(ctx)
		if err != nil {
			return false, err
		}
		m.page = page
	}

	if err := m.deps.Limiter.Wait(ctx); err != nil {
		return false, err
	}
	url := m.deps.ProductURL(m.spec.ASIN)
	if err := m.page.Navigate(ctx, url); err != nil {
		return false, err
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	scrape.BypassInterstitial(ctx, m.page, m.spec.ASIN)
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	res := m.deps.Extractor.Snapshot(m.page, m.spec, m.hint)
	m.hint = res.LocatorHint

	cycle := engine.EvaluateCycle(m.spec, res.Snapshot, m.state)

	if _, err := m.deps.Tracker.Record(ctx, m.spec.ASIN, cycle.Main.Price, time.Now()); err != nil {
		log.Warn().Err(err).Str("asin", m.spec.ASIN).Msg("Failed to record price history")
	}

	if cycle.Main.Outcome == engine.OutcomeAccepted {
		if m.deps.Executor.Execute(ctx, m.page, m.spec, res.Snapshot, *cycle.Main.Offer, res.MainEl, url) {
			return true, nil
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
	}

	for i, slot := range cycle.Others {
		if slot.Outcome != engine.OutcomeAccepted {
			continue
		}
		var el browser.Element
		if i < len(res.OtherEls) {
			el = res.OtherEls[i]
		}
		if m.deps.Executor.Execute(ctx, m.page, m.spec, res.Snapshot, *slot.Offer, el, url) {
			return true, nil
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
	}

	return false, nil
}

// sleep waits for d or cancellation; false means cancelled.
func (m *Monitor) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func randomized(bound time.Duration) time.Duration {
	if bound <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(bound)))
}
