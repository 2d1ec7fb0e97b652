package models

import (
	"fmt"
	"time"
)

// PriceUnknown is the sentinel for "no price observed yet" in monitor state
// and for "price could not be read" in snapshots.
const PriceUnknown float64 = -1.0

// ProductSpec is one entry of the desired monitoring set. It is immutable
// for the lifetime of a monitor; reconciliation compares specs by value and
// restarts the monitor when anything changed.
type ProductSpec struct {
	ASIN            string        `json:"asin" mapstructure:"asin"`
	Name            string        `json:"name" mapstructure:"name"`
	CutPrice        float64       `json:"cut_price" mapstructure:"cut_price"`
	ConditionFilter []string      `json:"object_state,omitempty" mapstructure:"object_state"`
	AutoAddToCart   bool          `json:"auto_add_to_cart" mapstructure:"auto_add_to_cart"`
	AutoCheckout    bool          `json:"autocheckout" mapstructure:"autocheckout"`
	PollInterval    time.Duration `json:"poll_interval" mapstructure:"poll_interval"`
	SellerID        string        `json:"seller_id,omitempty" mapstructure:"seller_id"`
}

// Validate reports the first problem with the spec, if any.
func (p ProductSpec) Validate() error {
	if p.ASIN == "" {
		return fmt.Errorf("product %q: asin is required", p.Name)
	}
	if p.CutPrice <= 0 {
		return fmt.Errorf("product %s: cut_price must be positive, got %.2f", p.ASIN, p.CutPrice)
	}
	return nil
}

// WantsCart reports whether an accepted offer should be added to the cart.
// Checkout implies add-to-cart.
func (p ProductSpec) WantsCart() bool {
	return p.AutoAddToCart || p.AutoCheckout
}

// FilterSet returns the normalized condition filter. Empty means any state
// is acceptable.
func (p ProductSpec) FilterSet() map[Condition]bool {
	if len(p.ConditionFilter) == 0 {
		return nil
	}
	set := make(map[Condition]bool, len(p.ConditionFilter))
	for _, s := range p.ConditionFilter {
		set[NormalizeCondition(s)] = true
	}
	return set
}

// Equal compares two specs field by field. Used by reconciliation to decide
// whether a running monitor must be restarted.
func (p ProductSpec) Equal(o ProductSpec) bool {
	if p.ASIN != o.ASIN || p.Name != o.Name || p.CutPrice != o.CutPrice ||
		p.AutoAddToCart != o.AutoAddToCart || p.AutoCheckout != o.AutoCheckout ||
		p.PollInterval != o.PollInterval || p.SellerID != o.SellerID {
		return false
	}
	if len(p.ConditionFilter) != len(o.ConditionFilter) {
		return false
	}
	for i := range p.ConditionFilter {
		if p.ConditionFilter[i] != o.ConditionFilter[i] {
			return false
		}
	}
	return true
}

// Offer is one purchasable row of the listing page.
type Offer struct {
	Price            float64   `json:"price"` // PriceUnknown when the price could not be parsed
	RawConditionText string    `json:"condition_text"`
	State            Condition `json:"normalized_state"`
	SoldBy           string    `json:"sold_by,omitempty"`
	ShipsFrom        string    `json:"ships_from,omitempty"`
	Pinned           bool      `json:"pinned"`
	DeliveryCost     float64   `json:"delivery_cost,omitempty"` // 0 = free or unknown
}

// PriceReadable reports whether the offer carries a parseable price.
func (o Offer) PriceReadable() bool {
	return o.Price >= 0
}

// ScrapeSnapshot is everything one polling cycle observed on the page.
type ScrapeSnapshot struct {
	ProductName string  `json:"product_name"`
	ImageURL    string  `json:"image_url,omitempty"`
	ItemsCount  int     `json:"items_count"`
	Unavailable bool    `json:"unavailable"`
	MainOffer   *Offer  `json:"main_offer,omitempty"`
	OtherOffers []Offer `json:"other_offers,omitempty"`
}

// PricePoint is one entry of a product's price history.
type PricePoint struct {
	Price float64   `json:"price"`
	Time  time.Time `json:"time"`
}
