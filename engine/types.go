/*
Package engine provides the core tablet-unit sales engine.

PURPOSE:
  This package contains the types and algorithms for selling medicine stock
  that is tracked as an atomic count of tablets while being retailed at two
  granularities: whole strips and loose tablets. It covers unit conversion,
  reservation-based admission control, cart management, invoice billing, and
  invoice numbering.

KEY CONCEPTS IN THIS FILE (types.go):
  - StockRecord: Per-medicine stock count and sale configuration
  - SaleType: How a line is sold (strip, loose tablet, generic unit)
  - MedicineID/LineID: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Atomic unit: All stock is counted in tablets, regardless of packaging
  2. Precision: Uses decimal.Decimal for money to avoid floating-point drift
  3. Immutability: Cart lines and invoices are never modified after creation
  4. Injection: Stock is read through the Inventory interface, never from
     ambient global state

USAGE:
  rec := engine.StockRecord{
      ID:              "med-1",
      Stock:           100,
      SaleUnit:        engine.UnitTablet,
      TabletsPerStrip: 10,
      StripPrice:      engine.Price("50"),
  }
  tablets, err := engine.TabletsForSale(rec, engine.SaleStrip, 3) // 30

SEE ALSO:
  - units.go: Conversion between sale granularities and tablet counts
  - reservation.go: Admission control for open carts
  - billing.go: Invoice total computation
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type MedicineID string
type LineID string

// =============================================================================
// SALE CONFIGURATION
// =============================================================================

// SaleType identifies the granularity a cart line is sold at.
type SaleType string

const (
	// SaleStrip sells whole strips of TabletsPerStrip tablets each.
	SaleStrip SaleType = "strip"
	// SaleLoose sells individual tablets below one full strip.
	SaleLoose SaleType = "loose"
	// SaleGenericUnit sells one generic unit (syrup bottle, tube, ...)
	// where one unit counts as one tablet for stock purposes.
	SaleGenericUnit SaleType = "unit"
)

// SaleUnit identifies how a medicine is packaged.
type SaleUnit string

const (
	UnitTablet    SaleUnit = "tablet"
	UnitNonTablet SaleUnit = "non_tablet"
)

// =============================================================================
// STOCK RECORD - Per-medicine stock count and sale configuration
// =============================================================================

// StockRecord holds the authoritative stock count for one medicine.
//
// INVARIANTS:
//   - Stock >= 0 after every committed operation
//   - TabletsPerStrip >= 1 whenever SaleUnit is UnitTablet
//   - Defined prices are non-negative
//   - LooseTabletPrice must be set before a loose sale is admitted
//
// Stock is always a tablet count, even for non-tablet forms where one
// unit counts as one "tablet".
type StockRecord struct {
	ID                MedicineID
	Name              string
	Stock             int
	SaleUnit          SaleUnit
	TabletsPerStrip   int
	StripPrice        decimal.NullDecimal
	AllowLooseSale    bool
	LooseTabletPrice  decimal.NullDecimal
	LowStockThreshold int
}

// Validate checks the configuration invariants of the record.
// It does not check Stock against reservations; that is the
// ReservationLedger's job.
func (r StockRecord) Validate() error {
	if r.ID == "" {
		return ErrMissingMedicineID
	}
	if r.Stock < 0 {
		return ErrNegativeStock
	}
	if r.SaleUnit == UnitTablet && r.TabletsPerStrip < 1 {
		return ErrInvalidStripSize
	}
	if r.StripPrice.Valid && r.StripPrice.Decimal.IsNegative() {
		return ErrNegativePrice
	}
	if r.LooseTabletPrice.Valid && r.LooseTabletPrice.Decimal.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// LowOnStock reports whether the record is at or below its alert threshold.
// Informational only; it is never an enforcement boundary.
func (r StockRecord) LowOnStock() bool {
	return r.LowStockThreshold > 0 && r.Stock <= r.LowStockThreshold
}

// =============================================================================
// MONEY HELPERS
// =============================================================================

// Price builds a defined price from its decimal string form.
// Returns an undefined price if the string does not parse.
func Price(s string) decimal.NullDecimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// NoPrice is the undefined price. PriceForSale fails with ErrMissingPrice
// when the sale type requires a price that is undefined.
func NoPrice() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

// MustParseDecimal parses s, returning zero on malformed input.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
