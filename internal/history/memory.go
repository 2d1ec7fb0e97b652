package history

import (
	"context"
	"sync"

	"github.com/brushtyler/pricesdropbot/internal/models"
)

// MemoryStore keeps price history in memory. Used when no database is
// configured; history then lives only for the process lifetime.
type MemoryStore struct {
	mu     sync.Mutex
	points map[string][]models.PricePoint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{points: make(map[string][]models.PricePoint)}
}

func (s *MemoryStore) Append(_ context.Context, asin string, point models.PricePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points[asin] = append(s.points[asin], point)
	return nil
}

func (s *MemoryStore) LoadAll(_ context.Context, asin string) ([]models.PricePoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PricePoint, len(s.points[asin]))
	copy(out, s.points[asin])
	return out, nil
}
