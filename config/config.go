// Package config loads application settings from environment variables,
// with an optional .env file for development.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Settings holds everything the register needs from external
// configuration: billing knobs, invoice numbering, and server wiring.
type Settings struct {
	DiscountMaxPercent decimal.Decimal
	TaxEnabled         bool
	CGSTRate           decimal.Decimal
	SGSTRate           decimal.Decimal
	RoundOffEnabled    bool

	InvoicePrefix string
	InvoiceStart  int64

	HTTPPort string
	DBPath   string
}

// Load reads settings from environment variables with reasonable defaults.
// A .env file in the working directory is honored when present.
func Load() Settings {
	_ = godotenv.Load()

	s := Settings{
		DiscountMaxPercent: envDecimal("DISCOUNT_MAX_PERCENT", "20"),
		TaxEnabled:         envBool("TAX_ENABLED", true),
		CGSTRate:           envDecimal("CGST_RATE", "2.5"),
		SGSTRate:           envDecimal("SGST_RATE", "2.5"),
		RoundOffEnabled:    envBool("ROUND_OFF_ENABLED", true),
		InvoicePrefix:      envString("INVOICE_PREFIX", "INV-"),
		InvoiceStart:       envInt64("INVOICE_START", 1),
		HTTPPort:           envString("HTTP_PORT", "8080"),
		DBPath:             envString("DB_PATH", "pharmacy.db"),
	}

	if s.DiscountMaxPercent.IsNegative() || s.DiscountMaxPercent.GreaterThan(decimal.NewFromInt(100)) {
		log.Printf("invalid DISCOUNT_MAX_PERCENT %s, defaulting to 20", s.DiscountMaxPercent)
		s.DiscountMaxPercent = decimal.NewFromInt(20)
	}
	if s.CGSTRate.IsNegative() || s.SGSTRate.IsNegative() {
		log.Printf("negative tax rate, disabling tax")
		s.TaxEnabled = false
	}
	if s.InvoiceStart < 1 {
		s.InvoiceStart = 1
	}
	if _, err := strconv.Atoi(s.HTTPPort); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", s.HTTPPort)
		s.HTTPPort = "8080"
	}

	return s
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid %s value %q, defaulting to %v", key, v, fallback)
		return fallback
	}
	return b
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("invalid %s value %q, defaulting to %d", key, v, fallback)
		return fallback
	}
	return n
}

func envDecimal(key, fallback string) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		log.Printf("invalid %s value %q, defaulting to %s", key, v, fallback)
		d, _ = decimal.NewFromString(fallback)
	}
	return d
}
