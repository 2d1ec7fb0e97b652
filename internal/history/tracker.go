package history

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brushtyler/pricesdropbot/internal/models"
)

// Tracker sits in front of a Store and appends only actual price changes:
// a run of identical observations produces a single point. The last known
// price per product is seeded from the store on first use, so a restart
// does not duplicate the tail of the series.
type Tracker struct {
	store Store

	mu   sync.Mutex
	last map[string]float64
}

// NewTracker creates a change-deduplicating tracker over store.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store, last: make(map[string]float64)}
}

// Record stores price for asin if it differs from the last recorded one.
// Unreadable prices are never recorded. Returns true when a point was
// appended.
func (t *Tracker) Record(ctx context.Context, asin string, price float64, at time.Time) (bool, error) {
	if price < 0 {
		return false, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	last, seeded := t.last[asin]
	if !seeded {
		points, err := t.store.LoadAll(ctx, asin)
		if err != nil {
			return false, err
		}
		if len(points) > 0 {
			last = points[len(points)-1].Price
			seeded = true
		}
	}
	if seeded && last == price {
		t.last[asin] = price
		return false, nil
	}

	if err := t.store.Append(ctx, asin, models.PricePoint{Price: price, Time: at}); err != nil {
		return false, err
	}
	t.last[asin] = price
	log.Debug().Str("asin", asin).Float64("price", price).Msg("Price point recorded")
	return true, nil
}
