/*
billing.go - Invoice total computation

PURPOSE:
  Compute turns a snapshot of cart lines plus a tax/discount configuration
  into the final invoice amounts. It is the single authoritative definition
  of the total: the checkout commit and the UI preview both call it, so the
  two can never drift apart.

ALGORITHM (order matters for reproducibility and audit):
  1. subtotal      = sum(unitPrice * quantity)
  2. discount      = subtotal * discountPercent / 100
  3. afterDiscount = subtotal - discount
  4. cgst/sgst     = afterDiscount * rate / 100 when tax is enabled, else 0
  5. rawTotal      = afterDiscount + cgst + sgst
  6. grandTotal    = round half away from zero, only when enabled
  7. roundOff      = grandTotal - rawTotal (signed, display/audit only)

  Intermediate values are never pre-rounded; only the grand total is
  rounded, and only when RoundOffEnabled. All arithmetic is on
  decimal.Decimal, never binary floats.

SEE ALSO:
  - cart.go: Source of the line snapshot
  - invoice.go: Carrier of the computed amounts plus the minted id
*/
package engine

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// =============================================================================
// BILLING CONFIGURATION
// =============================================================================

// BillingConfig is the tax/discount configuration for one computation.
// Rates and the discount are percentages.
type BillingConfig struct {
	DiscountPercent decimal.Decimal
	TaxEnabled      bool
	CGSTRate        decimal.Decimal
	SGSTRate        decimal.Decimal
	RoundOffEnabled bool
}

// Bill holds the computed invoice amounts.
// Invariant: GrandTotal - RoundOff == AfterDiscount + CGSTAmount + SGSTAmount
// exactly, whether or not rounding is enabled.
type Bill struct {
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	AfterDiscount   decimal.Decimal
	CGSTAmount      decimal.Decimal
	SGSTAmount      decimal.Decimal
	RawTotal        decimal.Decimal
	RoundOff        decimal.Decimal
	GrandTotal      decimal.Decimal
}

// =============================================================================
// COMPUTATION
// =============================================================================

// Compute derives the invoice amounts from a line snapshot. It has no side
// effects and is idempotent: the same lines and config always produce the
// same Bill. The only failure mode is a discount percent outside [0, 100];
// the external settings cap below 100 is enforced by the checkout service.
func Compute(lines []CartLine, cfg BillingConfig) (Bill, error) {
	d := cfg.DiscountPercent
	if d.IsNegative() || d.GreaterThan(hundred) {
		return Bill{}, ErrDiscountOutOfRange
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Total())
	}

	discount := subtotal.Mul(d).Div(hundred)
	afterDiscount := subtotal.Sub(discount)

	cgst := decimal.Zero
	sgst := decimal.Zero
	if cfg.TaxEnabled {
		cgst = afterDiscount.Mul(cfg.CGSTRate).Div(hundred)
		sgst = afterDiscount.Mul(cfg.SGSTRate).Div(hundred)
	}

	rawTotal := afterDiscount.Add(cgst).Add(sgst)

	grandTotal := rawTotal
	if cfg.RoundOffEnabled {
		// decimal.Round rounds half away from zero.
		grandTotal = rawTotal.Round(0)
	}

	return Bill{
		Subtotal:        subtotal,
		DiscountPercent: d,
		DiscountAmount:  discount,
		AfterDiscount:   afterDiscount,
		CGSTAmount:      cgst,
		SGSTAmount:      sgst,
		RawTotal:        rawTotal,
		RoundOff:        grandTotal.Sub(rawTotal),
		GrandTotal:      grandTotal,
	}, nil
}
