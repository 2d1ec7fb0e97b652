package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brushtyler/pricesdropbot/internal/actions"
	"github.com/brushtyler/pricesdropbot/internal/handlers"
	"github.com/brushtyler/pricesdropbot/internal/history"
	"github.com/brushtyler/pricesdropbot/internal/models"
	"github.com/brushtyler/pricesdropbot/internal/notify"
	"github.com/brushtyler/pricesdropbot/internal/scrape"
	"github.com/brushtyler/pricesdropbot/pkg/browser"
	"github.com/brushtyler/pricesdropbot/pkg/ratelimit"
)

// fakeNode is an in-memory DOM node; lookups match locator expressions
// literally against the child map.
type fakeNode struct {
	text     string
	children map[string]*fakeNode
	clicks   int
}

func (f *fakeNode) Text() (string, error)            { return f.text, nil }
func (f *fakeNode) Attribute(string) (string, error) { return "", browser.ErrNotFound }
func (f *fakeNode) Click() error                     { f.clicks++; return nil }

func (f *fakeNode) FindFirst(locators []browser.Locator) (browser.Element, int, error) {
	for i, loc := range locators {
		if el, ok := f.children[loc.Expr]; ok {
			return el, i, nil
		}
	}
	return nil, -1, browser.ErrNotFound
}

func (f *fakeNode) All(browser.Locator) ([]browser.Element, error) { return nil, nil }

type fakePage struct {
	fakeNode
	mu     sync.Mutex
	navs   int
	closed bool
}

func (p *fakePage) Navigate(_ context.Context, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navs++
	return nil
}

func (p *fakePage) Refresh(context.Context) error { return nil }
func (p *fakePage) CurrentURL() string            { return "" }
func (p *fakePage) HTML() (string, error)         { return "", nil }

func (p *fakePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePage) navCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.navs
}

// fakeFactory builds one fresh empty page per monitor start and counts
// creations per ASIN-agnostic order.
type fakeFactory struct {
	mu    sync.Mutex
	pages []*fakePage
	build func() *fakePage
}

func newFakeFactory(build func() *fakePage) *fakeFactory {
	if build == nil {
		build = func() *fakePage { return &fakePage{} }
	}
	return &fakeFactory{build: build}
}

func (f *fakeFactory) NewPage(context.Context) (browser.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.build()
	f.pages = append(f.pages, p)
	return p, nil
}

func (f *fakeFactory) created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pages)
}

func testDeps(factory *fakeFactory, notifier notify.Notifier) Deps {
	return Deps{
		Pages:      factory.NewPage,
		Extractor:  scrape.NewExtractor(nil),
		Executor:   actions.NewExecutor(notifier),
		Tracker:    history.NewTracker(history.NewMemoryStore()),
		Limiter:    ratelimit.New(time.Millisecond),
		ProductURL: func(asin string) string { return "https://example.test/dp/" + asin },
		Jitter:     time.Millisecond,
		Backoff:    time.Millisecond,
	}
}

func testSpec(asin string) models.ProductSpec {
	return models.ProductSpec{ASIN: asin, CutPrice: 100, PollInterval: 5 * time.Millisecond}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestControllerStartStop(t *testing.T) {
	t.Parallel()

	factory := newFakeFactory(nil)
	c := NewController(context.Background(), testDeps(factory, nil))

	require.NoError(t, c.Start(testSpec("B000AAAA00")))
	waitFor(t, func() bool {
		return factory.created() == 1 && factory.pages[0].navCount() >= 2
	}, "monitor never completed a cycle")

	c.Stop("B000AAAA00")
	assert.Empty(t, c.List())
	assert.True(t, factory.pages[0].closed, "stopped monitor must release its page")

	// Stopping again is a no-op.
	c.Stop("B000AAAA00")
}

func TestControllerRejectsDuplicateStart(t *testing.T) {
	t.Parallel()

	factory := newFakeFactory(nil)
	c := NewController(context.Background(), testDeps(factory, nil))
	t.Cleanup(c.StopAll)

	require.NoError(t, c.Start(testSpec("B000AAAA00")))
	err := c.Start(testSpec("B000AAAA00"))
	assert.ErrorContains(t, err, "already active")
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	factory := newFakeFactory(nil)
	c := NewController(context.Background(), testDeps(factory, nil))
	t.Cleanup(c.StopAll)

	a := testSpec("B000AAAA00")
	b := testSpec("B000BBBB00")
	cSpec := testSpec("B000CCCC00")

	c.Reconcile([]models.ProductSpec{a, cSpec})
	require.Len(t, c.List(), 2)
	createdAfterFirst := factory.created()

	// Desired {A, B} against active {A, C}: C stops, B starts, A untouched.
	c.Reconcile([]models.ProductSpec{a, b})
	specs := c.List()
	require.Len(t, specs, 2)
	assert.Equal(t, "B000AAAA00", specs[0].ASIN)
	assert.Equal(t, "B000BBBB00", specs[1].ASIN)
	assert.Equal(t, createdAfterFirst+1, factory.created(), "only B gets a fresh page; A keeps running")

	// Changed cut price restarts A (stop-then-start, fresh page).
	changed := a
	changed.CutPrice = 80
	c.Reconcile([]models.ProductSpec{changed, b})
	specs = c.List()
	require.Len(t, specs, 2)
	assert.InDelta(t, 80.0, specs[0].CutPrice, 0.001)
	assert.Equal(t, createdAfterFirst+2, factory.created(), "A restarted with a new page")

	// Empty desired set stops everything.
	c.Reconcile(nil)
	assert.Empty(t, c.List())
}

func TestMonitorSelfStopsAfterCheckout(t *testing.T) {
	t.Parallel()

	// Page with a qualifying buybox offer and working cart/checkout
	// controls; the monitor should buy once and deregister itself.
	factory := newFakeFactory(func() *fakePage {
		buybox := &fakeNode{children: map[string]*fakeNode{
			".//span[contains(@class, 'a-price-whole')]":    {text: "79"},
			".//span[contains(@class, 'a-price-fraction')]": {text: "99"},
			".//input[@name='submit.addToCart']":            {},
		}}
		p := &fakePage{}
		p.children = map[string]*fakeNode{
			"#productTitle":                            {text: "Widget"},
			"//div[@id='qualifiedBuybox']":             buybox,
			"//input[@name='proceedToRetailCheckout']": {},
			"//input[@name='placeYourOrder1']":         {},
		}
		return p
	})

	rec := &recNotifier{}
	c := NewController(context.Background(), testDeps(factory, rec))

	spec := testSpec("B000AAAA00")
	spec.AutoCheckout = true
	require.NoError(t, c.Start(spec))

	waitFor(t, func() bool { return len(c.List()) == 0 }, "monitor never self-stopped after checkout")
	assert.GreaterOrEqual(t, rec.count(), 1, "the qualifying price must be notified")
	assert.True(t, factory.pages[0].closed)
}

type staticLoader struct {
	specs []models.ProductSpec
}

func (l *staticLoader) LoadAll() ([]models.ProductSpec, error) { return l.specs, nil }

// Monitors started through the reload endpoint must outlive the request:
// their contexts derive from the controller's base context, not from the
// HTTP request context the router cancels as soon as the handler returns.
func TestReloadedMonitorOutlivesRequest(t *testing.T) {
	t.Parallel()

	factory := newFakeFactory(nil)
	c := NewController(context.Background(), testDeps(factory, nil))
	t.Cleanup(c.StopAll)

	store := history.NewMemoryStore()
	loader := &staticLoader{specs: []models.ProductSpec{testSpec("B000AAAA00")}}
	router := handlers.NewRouter(handlers.NewAdminHandler(c, loader, store))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/reload", nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, c.List(), 1, "monitor must be registered after reload")

	// The request context is long gone; the monitor keeps polling.
	waitFor(t, func() bool {
		return factory.created() == 1 && factory.pages[0].navCount() >= 2
	}, "monitor died with the reload request")
	assert.Len(t, c.List(), 1)
}

type recNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (r *recNotifier) Send(_ context.Context, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}
