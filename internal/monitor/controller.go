package monitor

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/brushtyler/pricesdropbot/internal/models"
)

// handle is a running monitor's registry entry: the cancellation signal and
// the join channel. MonitorState itself stays inside the monitor goroutine;
// the registry never touches it.
type handle struct {
	spec   models.ProductSpec
	cancel context.CancelFunc
	done   chan struct{}
}

// Controller owns the registry of active monitors and reconciles it against
// the desired product set. All registry access goes through its mutex.
type Controller struct {
	deps Deps

	// baseCtx parents every monitor's context. Monitor lifetimes are tied
	// to the process, never to whatever short-lived context (an HTTP
	// request, say) happened to trigger their start.
	baseCtx context.Context

	mu     sync.Mutex
	active map[string]*handle
}

// NewController creates a controller with no active monitors. Monitors
// started later live until baseCtx is cancelled or they are stopped.
func NewController(baseCtx context.Context, deps Deps) *Controller {
	return &Controller{baseCtx: baseCtx, deps: deps, active: make(map[string]*handle)}
}

// Start launches a monitor for spec. Fails if one is already active for the
// same ASIN: two monitors must never run for one product.
func (c *Controller) Start(spec models.ProductSpec) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked(spec)
}

func (c *Controller) startLocked(spec models.ProductSpec) error {
	if _, ok := c.active[spec.ASIN]; ok {
		return fmt.Errorf("monitor for %s already active", spec.ASIN)
	}

	mctx, cancel := context.WithCancel(c.baseCtx)
	h := &handle{spec: spec, cancel: cancel, done: make(chan struct{})}
	c.active[spec.ASIN] = h

	m := New(spec, c.deps)
	go func() {
		m.Run(mctx)
		cancel()
		close(h.done)
		// Self-stop (fulfilled objective) must leave the registry clean.
		// done is already closed, so a concurrent reconcile join cannot
		// deadlock against this lock.
		c.mu.Lock()
		if c.active[spec.ASIN] == h {
			delete(c.active, spec.ASIN)
		}
		c.mu.Unlock()
	}()
	return nil
}

// Stop cancels the monitor for asin and waits for its goroutine to exit.
// Stopping an unknown asin is a no-op.
func (c *Controller) Stop(asin string) {
	c.mu.Lock()
	h, ok := c.active[asin]
	if ok {
		delete(c.active, asin)
	}
	c.mu.Unlock()
	if !ok {
		return
	}
	c.stopHandle(h)
}

func (c *Controller) stopHandle(h *handle) {
	h.cancel()
	<-h.done
}

// StopAll stops every active monitor and joins them. Used on shutdown.
func (c *Controller) StopAll() {
	c.mu.Lock()
	handles := make([]*handle, 0, len(c.active))
	for asin, h := range c.active {
		handles = append(handles, h)
		delete(c.active, asin)
	}
	c.mu.Unlock()

	for _, h := range handles {
		c.stopHandle(h)
	}
}

// List returns the specs of the active monitors, ordered by ASIN.
func (c *Controller) List() []models.ProductSpec {
	c.mu.Lock()
	specs := make([]models.ProductSpec, 0, len(c.active))
	for _, h := range c.active {
		specs = append(specs, h.spec)
	}
	c.mu.Unlock()

	sort.Slice(specs, func(i, j int) bool { return specs[i].ASIN < specs[j].ASIN })
	return specs
}

// Reconcile drives the active set towards desired: monitors for removed
// products are stopped, new products started, and changed specs restarted
// (stop-then-start, so constructor-derived state is rebuilt). Stops are
// joined synchronously before any replacement starts.
func (c *Controller) Reconcile(desired []models.ProductSpec) {
	want := make(map[string]models.ProductSpec, len(desired))
	for _, spec := range desired {
		want[spec.ASIN] = spec
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var stopped, started, kept int

	for asin, h := range c.active {
		spec, stillWanted := want[asin]
		if stillWanted && h.spec.Equal(spec) {
			kept++
			delete(want, asin)
			continue
		}
		delete(c.active, asin)
		c.stopHandle(h)
		stopped++
		// Changed specs stay in want and restart below.
	}

	for _, spec := range want {
		if err := c.startLocked(spec); err != nil {
			log.Error().Err(err).Str("asin", spec.ASIN).Msg("Failed to start monitor")
			continue
		}
		started++
	}

	log.Info().
		Int("kept", kept).
		Int("stopped", stopped).
		Int("started", started).
		Msg("Reconciliation complete")
}
