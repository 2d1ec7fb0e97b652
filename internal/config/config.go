package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Database (optional; empty = in-memory price history)
	DatabaseURL string

	// Storefront
	AmazonHost   string
	AffiliateTag string

	// Telegram
	TelegramToken  string
	TelegramChatID string

	// Browser
	Headless      bool
	BrowserBin    string
	UserAgent     string
	PageWait      time.Duration
	CookiesFile   string
	DiagnosticDir string

	// Monitoring
	ProductsFile        string
	DefaultPollInterval time.Duration
	PollJitter          time.Duration
	MinNavigationGap    time.Duration
}

func Load() (*Config, error) {
	// Try loading from current directory first, then parent.
	// We ignore errors here as we might be running in an environment
	// where env vars are set directly (e.g. docker/k8s).
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		AmazonHost:   getEnv("AMAZON_HOST", "www.amazon.it"),
		AffiliateTag: getEnv("AFFILIATE_TAG", ""),

		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID: getEnv("TELEGRAM_CHAT_ID", ""),

		Headless:      getBoolEnv("BROWSER_HEADLESS", true),
		BrowserBin:    getEnv("BROWSER_BIN", ""),
		UserAgent:     getEnv("BROWSER_USER_AGENT", ""),
		PageWait:      getDurationEnv("PAGE_WAIT", 20*time.Second),
		CookiesFile:   getEnv("COOKIES_FILE", "cookies.json"),
		DiagnosticDir: getEnv("DIAGNOSTIC_DIR", "logs"),

		ProductsFile:        getEnv("PRODUCTS_FILE", "products.toml"),
		DefaultPollInterval: getDurationEnv("DEFAULT_POLL_INTERVAL", 60*time.Second),
		PollJitter:          getDurationEnv("POLL_JITTER", 15*time.Second),
		MinNavigationGap:    getDurationEnv("MIN_NAVIGATION_GAP", 2*time.Second),
	}

	return cfg, nil
}

// ProductURL builds the canonical product page URL, with the affiliate tag
// attached when configured.
func (c *Config) ProductURL(asin string) string {
	url := "https://" + c.AmazonHost + "/dp/" + asin
	if c.AffiliateTag != "" {
		url += "?tag=" + c.AffiliateTag
	}
	return url
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
