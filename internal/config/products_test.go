package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProducts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProductSourceLoadAll(t *testing.T) {
	t.Parallel()

	path := writeProducts(t, `
[[products]]
asin = "B000TEST00"
name = "LEGO 75192"
cut_price = 150.0
object_state = ["new", "used - like new"]
auto_add_to_cart = true
poll_interval = "90s"

[[products]]
asin = "B000TEST01"
cut_price = 19.99
autocheckout = true
seller_id = "Amazon"
`)

	specs, err := NewProductSource(path, time.Minute).LoadAll()
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, "B000TEST00", specs[0].ASIN)
	assert.Equal(t, "LEGO 75192", specs[0].Name)
	assert.InDelta(t, 150.0, specs[0].CutPrice, 0.001)
	assert.Equal(t, []string{"new", "used - like new"}, specs[0].ConditionFilter)
	assert.True(t, specs[0].AutoAddToCart)
	assert.Equal(t, 90*time.Second, specs[0].PollInterval)

	assert.Equal(t, "B000TEST01", specs[1].ASIN)
	assert.True(t, specs[1].AutoCheckout)
	assert.True(t, specs[1].WantsCart(), "checkout implies cart")
	assert.Equal(t, "Amazon", specs[1].SellerID)
	assert.Equal(t, time.Minute, specs[1].PollInterval, "default interval applied")
}

func TestProductSourceRejectsInvalidEntries(t *testing.T) {
	t.Parallel()

	t.Run("missing asin", func(t *testing.T) {
		t.Parallel()
		path := writeProducts(t, `
[[products]]
name = "no asin"
cut_price = 10.0
`)
		_, err := NewProductSource(path, time.Minute).LoadAll()
		assert.ErrorContains(t, err, "asin is required")
	})

	t.Run("non-positive cut price", func(t *testing.T) {
		t.Parallel()
		path := writeProducts(t, `
[[products]]
asin = "B000TEST00"
cut_price = 0.0
`)
		_, err := NewProductSource(path, time.Minute).LoadAll()
		assert.ErrorContains(t, err, "cut_price must be positive")
	})

	t.Run("duplicate asin", func(t *testing.T) {
		t.Parallel()
		path := writeProducts(t, `
[[products]]
asin = "B000TEST00"
cut_price = 10.0

[[products]]
asin = "B000TEST00"
cut_price = 20.0
`)
		_, err := NewProductSource(path, time.Minute).LoadAll()
		assert.ErrorContains(t, err, "duplicate asin")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := NewProductSource(filepath.Join(t.TempDir(), "absent.toml"), time.Minute).LoadAll()
		assert.Error(t, err)
	})
}

func TestConfigProductURL(t *testing.T) {
	t.Parallel()

	cfg := &Config{AmazonHost: "www.amazon.it"}
	assert.Equal(t, "https://www.amazon.it/dp/B000TEST00", cfg.ProductURL("B000TEST00"))

	cfg.AffiliateTag = "mytag-21"
	assert.Equal(t, "https://www.amazon.it/dp/B000TEST00?tag=mytag-21", cfg.ProductURL("B000TEST00"))
}
