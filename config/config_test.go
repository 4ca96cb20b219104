package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medicart/pos-engine/config"
	"github.com/medicart/pos-engine/engine"
)

func TestLoad_Defaults(t *testing.T) {
	// Blank out every key so values leaking in from the environment or a
	// stray .env file cannot mask the defaults. Load treats empty as unset,
	// and godotenv never overrides a key already present in the environment.
	for _, key := range []string{
		"DISCOUNT_MAX_PERCENT", "TAX_ENABLED", "CGST_RATE", "SGST_RATE",
		"ROUND_OFF_ENABLED", "INVOICE_PREFIX", "INVOICE_START",
		"HTTP_PORT", "DB_PATH",
	} {
		t.Setenv(key, "")
	}

	s := config.Load()

	assert.True(t, s.DiscountMaxPercent.Equal(engine.MustParseDecimal("20")))
	assert.True(t, s.TaxEnabled)
	assert.True(t, s.CGSTRate.Equal(engine.MustParseDecimal("2.5")))
	assert.True(t, s.SGSTRate.Equal(engine.MustParseDecimal("2.5")))
	assert.True(t, s.RoundOffEnabled)
	assert.Equal(t, "INV-", s.InvoicePrefix)
	assert.Equal(t, int64(1), s.InvoiceStart)
	assert.Equal(t, "8080", s.HTTPPort)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DISCOUNT_MAX_PERCENT", "15")
	t.Setenv("TAX_ENABLED", "false")
	t.Setenv("CGST_RATE", "9")
	t.Setenv("SGST_RATE", "9")
	t.Setenv("ROUND_OFF_ENABLED", "false")
	t.Setenv("INVOICE_PREFIX", "PH-")
	t.Setenv("INVOICE_START", "5000")
	t.Setenv("HTTP_PORT", "9090")

	s := config.Load()

	assert.True(t, s.DiscountMaxPercent.Equal(engine.MustParseDecimal("15")))
	assert.False(t, s.TaxEnabled)
	assert.True(t, s.CGSTRate.Equal(engine.MustParseDecimal("9")))
	assert.False(t, s.RoundOffEnabled)
	assert.Equal(t, "PH-", s.InvoicePrefix)
	assert.Equal(t, int64(5000), s.InvoiceStart)
	assert.Equal(t, "9090", s.HTTPPort)
}

func TestLoad_InvalidValues_FallBack(t *testing.T) {
	t.Setenv("DISCOUNT_MAX_PERCENT", "150")
	t.Setenv("HTTP_PORT", "not-a-port")
	t.Setenv("INVOICE_START", "-3")
	t.Setenv("TAX_ENABLED", "maybe")

	s := config.Load()

	assert.True(t, s.DiscountMaxPercent.Equal(engine.MustParseDecimal("20")))
	assert.Equal(t, "8080", s.HTTPPort)
	assert.Equal(t, int64(1), s.InvoiceStart)
	assert.True(t, s.TaxEnabled)
}
