package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		whole    string
		fraction string
		want     float64
	}{
		{name: "whole and fraction", whole: "120", fraction: "99", want: 120.99},
		{name: "whole only", whole: "39", want: 39},
		{name: "thousands separator stripped", whole: "1.234", fraction: "56", want: 1234.56},
		{name: "trailing separator on whole", whole: "120,", fraction: "99", want: 120.99},
		{name: "whitespace around fragments", whole: " 15 ", fraction: " 50 ", want: 15.50},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			el := &fakeEl{}
			el.child(priceWholeLocators[0], &fakeEl{text: tt.whole})
			if tt.fraction != "" {
				el.child(priceFractionLocators[0], &fakeEl{text: tt.fraction})
			}
			got, err := priceOf(el)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestPriceOfUnreadable(t *testing.T) {
	t.Parallel()

	t.Run("whole fragment missing", func(t *testing.T) {
		t.Parallel()
		_, err := priceOf(&fakeEl{})
		assert.ErrorIs(t, err, ErrPriceUnreadable)
	})

	t.Run("whole fragment without digits", func(t *testing.T) {
		t.Parallel()
		el := &fakeEl{}
		el.child(priceWholeLocators[0], &fakeEl{text: "—"})
		_, err := priceOf(el)
		assert.ErrorIs(t, err, ErrPriceUnreadable)
	})
}

func TestParseMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
	}{
		{"3,99 €", 3.99},
		{"EUR 12.50", 12.50},
		{"1.234,56 €", 1234.56},
		{"GRATIS", 0},
		{"", 0},
		{"Consegna GRATUITA", 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, parseMoney(tt.in), 0.001)
		})
	}
}
