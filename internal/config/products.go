package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/brushtyler/pricesdropbot/internal/models"
)

// ProductSource loads the desired monitoring set from a TOML file. The file
// is re-read on every LoadAll so a reconcile picks up edits without a
// restart.
//
//	[[products]]
//	asin = "B000TEST00"
//	name = "LEGO 75192"
//	cut_price = 150.0
//	object_state = ["new", "used - like new"]
//	auto_add_to_cart = false
//	autocheckout = false
//	poll_interval = "90s"
//	seller_id = "Amazon"
type ProductSource struct {
	path            string
	defaultInterval time.Duration
}

// NewProductSource creates a source reading path. Products without their own
// poll_interval get defaultInterval.
func NewProductSource(path string, defaultInterval time.Duration) *ProductSource {
	return &ProductSource{path: path, defaultInterval: defaultInterval}
}

// LoadAll parses the file and validates every entry. Any invalid or
// duplicated product fails the whole load: reconciliation must never run on
// a half-read set.
func (s *ProductSource) LoadAll() ([]models.ProductSpec, error) {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read products file %s: %w", s.path, err)
	}

	var file struct {
		Products []models.ProductSpec `mapstructure:"products"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to parse products file %s: %w", s.path, err)
	}

	seen := make(map[string]bool, len(file.Products))
	for i := range file.Products {
		p := &file.Products[i]
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("products file %s: %w", s.path, err)
		}
		if seen[p.ASIN] {
			return nil, fmt.Errorf("products file %s: duplicate asin %s", s.path, p.ASIN)
		}
		seen[p.ASIN] = true
		if p.PollInterval <= 0 {
			p.PollInterval = s.defaultInterval
		}
	}
	return file.Products, nil
}
