package history

import (
	"context"
	"fmt"

	"github.com/brushtyler/pricesdropbot/internal/models"
	"github.com/brushtyler/pricesdropbot/pkg/database"
)

// PostgresStore keeps price history in the price_history table.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a store backed by db.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, asin string, point models.PricePoint) error {
	_, err := s.db.Pool.Exec(ctx,
		`INSERT INTO price_history (time, asin, price) VALUES ($1, $2, $3)`,
		point.Time, asin, point.Price)
	if err != nil {
		return fmt.Errorf("failed to append price point for %s: %w", asin, err)
	}
	return nil
}

func (s *PostgresStore) LoadAll(ctx context.Context, asin string) ([]models.PricePoint, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT price, time FROM price_history WHERE asin = $1 ORDER BY time ASC`,
		asin)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history for %s: %w", asin, err)
	}
	defer rows.Close()

	var points []models.PricePoint
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Price, &p.Time); err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read price history rows: %w", err)
	}
	return points, nil
}
