package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicart/pos-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// stripMedicine is the reference medicine from the billing scenarios:
// 100 tablets, 10 per strip, strip at 50, loose tablets allowed at 6.
func stripMedicine() engine.StockRecord {
	return engine.StockRecord{
		ID:               "med-1",
		Name:             "Paracetamol 500mg",
		Stock:            100,
		SaleUnit:         engine.UnitTablet,
		TabletsPerStrip:  10,
		StripPrice:       engine.Price("50"),
		AllowLooseSale:   true,
		LooseTabletPrice: engine.Price("6"),
	}
}

func syrupMedicine() engine.StockRecord {
	return engine.StockRecord{
		ID:              "med-2",
		Name:            "Cough Syrup",
		Stock:           40,
		SaleUnit:        engine.UnitNonTablet,
		TabletsPerStrip: 1,
		StripPrice:      engine.Price("85"),
	}
}

// =============================================================================
// TABLETS FOR SALE
// =============================================================================

func TestTabletsForSale_Strip_MultipliesByStripSize(t *testing.T) {
	tablets, err := engine.TabletsForSale(stripMedicine(), engine.SaleStrip, 3)
	require.NoError(t, err)
	assert.Equal(t, 30, tablets)
}

func TestTabletsForSale_LooseAndUnit_PassQuantityThrough(t *testing.T) {
	tablets, err := engine.TabletsForSale(stripMedicine(), engine.SaleLoose, 15)
	require.NoError(t, err)
	assert.Equal(t, 15, tablets)

	tablets, err = engine.TabletsForSale(syrupMedicine(), engine.SaleGenericUnit, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, tablets)
}

func TestTabletsForSale_StripOnNonTablet_Rejected(t *testing.T) {
	// GIVEN: A non-tablet medicine (syrup)
	// WHEN: Requesting a strip sale
	// THEN: Rejected with ErrInvalidSaleType

	_, err := engine.TabletsForSale(syrupMedicine(), engine.SaleStrip, 1)
	assert.ErrorIs(t, err, engine.ErrInvalidSaleType)

	_, err = engine.TabletsForSale(syrupMedicine(), engine.SaleLoose, 1)
	assert.ErrorIs(t, err, engine.ErrInvalidSaleType)
}

func TestTabletsForSale_LooseDisallowed_Rejected(t *testing.T) {
	rec := stripMedicine()
	rec.AllowLooseSale = false

	_, err := engine.TabletsForSale(rec, engine.SaleLoose, 5)
	assert.ErrorIs(t, err, engine.ErrInvalidSaleType)
}

func TestTabletsForSale_UnknownSaleType_Rejected(t *testing.T) {
	_, err := engine.TabletsForSale(stripMedicine(), engine.SaleType("bulk"), 1)
	assert.ErrorIs(t, err, engine.ErrInvalidSaleType)
}

// =============================================================================
// PRICE FOR SALE
// =============================================================================

func TestPriceForSale_ResolvesPerSaleType(t *testing.T) {
	rec := stripMedicine()

	price, err := engine.PriceForSale(rec, engine.SaleStrip)
	require.NoError(t, err)
	assert.True(t, price.Equal(engine.MustParseDecimal("50")))

	price, err = engine.PriceForSale(rec, engine.SaleLoose)
	require.NoError(t, err)
	assert.True(t, price.Equal(engine.MustParseDecimal("6")))

	price, err = engine.PriceForSale(syrupMedicine(), engine.SaleGenericUnit)
	require.NoError(t, err)
	assert.True(t, price.Equal(engine.MustParseDecimal("85")))
}

func TestPriceForSale_UndefinedPrice_Rejected(t *testing.T) {
	rec := stripMedicine()
	rec.LooseTabletPrice = engine.NoPrice()

	_, err := engine.PriceForSale(rec, engine.SaleLoose)
	assert.ErrorIs(t, err, engine.ErrMissingPrice)

	rec.StripPrice = engine.NoPrice()
	_, err = engine.PriceForSale(rec, engine.SaleStrip)
	assert.ErrorIs(t, err, engine.ErrMissingPrice)
}

func TestPriceForSale_NegativePrice_Rejected(t *testing.T) {
	// A defined but negative price would bill a negative line total.

	rec := stripMedicine()
	rec.LooseTabletPrice = engine.Price("-6")
	_, err := engine.PriceForSale(rec, engine.SaleLoose)
	assert.ErrorIs(t, err, engine.ErrNegativePrice)

	rec = stripMedicine()
	rec.StripPrice = engine.Price("-50")
	_, err = engine.PriceForSale(rec, engine.SaleStrip)
	assert.ErrorIs(t, err, engine.ErrNegativePrice)
	_, err = engine.PriceForSale(rec, engine.SaleGenericUnit)
	assert.ErrorIs(t, err, engine.ErrNegativePrice)
}

// =============================================================================
// BREAKDOWN
// =============================================================================

func TestBreakdown_SplitsStripsAndLoose(t *testing.T) {
	b := engine.Breakdown(23, 10)
	assert.Equal(t, engine.StripBreakdown{Strips: 2, LooseTablets: 3}, b)

	b = engine.Breakdown(0, 10)
	assert.Equal(t, engine.StripBreakdown{Strips: 0, LooseTablets: 0}, b)
}

func TestBreakdown_RoundTrip(t *testing.T) {
	// Property: strips*perStrip + loose == count and 0 <= loose < perStrip,
	// for every count and strip size.
	for perStrip := 1; perStrip <= 17; perStrip++ {
		for count := 0; count <= 250; count++ {
			b := engine.Breakdown(count, perStrip)
			assert.Equal(t, count, b.Strips*perStrip+b.LooseTablets,
				"count=%d perStrip=%d", count, perStrip)
			assert.GreaterOrEqual(t, b.LooseTablets, 0)
			assert.Less(t, b.LooseTablets, perStrip)
		}
	}
}

func TestDisplayLabel(t *testing.T) {
	assert.Equal(t, "3 strips (30 tablets)", engine.DisplayLabel(engine.SaleStrip, 3, 10))
	assert.Equal(t, "1 strip (10 tablets)", engine.DisplayLabel(engine.SaleStrip, 1, 10))
	assert.Equal(t, "15 tablets", engine.DisplayLabel(engine.SaleLoose, 15, 10))
	assert.Equal(t, "1 tablet", engine.DisplayLabel(engine.SaleLoose, 1, 10))
	assert.Equal(t, "2 units", engine.DisplayLabel(engine.SaleGenericUnit, 2, 1))
}
