package history

import (
	"context"

	"github.com/brushtyler/pricesdropbot/internal/models"
)

// Store persists observed main-offer prices per product.
type Store interface {
	// Append records one price observation for asin.
	Append(ctx context.Context, asin string, point models.PricePoint) error
	// LoadAll returns every recorded point for asin in chronological order.
	LoadAll(ctx context.Context, asin string) ([]models.PricePoint, error)
}
