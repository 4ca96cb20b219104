package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// UNIT CONVERSION - Sale intent <-> tablet counts
// =============================================================================
// Pure functions. Calling twice with identical inputs yields identical
// outputs; nothing here touches the ledger or the inventory.

// TabletsForSale resolves a sale intent into the tablet count it draws from
// stock: quantity*TabletsPerStrip for strips, quantity otherwise.
//
// Fails with ErrInvalidSaleType when a strip or loose sale is requested on a
// non-tablet medicine, or a loose sale while AllowLooseSale is false.
func TabletsForSale(rec StockRecord, sale SaleType, quantity int) (int, error) {
	switch sale {
	case SaleStrip:
		if rec.SaleUnit != UnitTablet {
			return 0, fmt.Errorf("strip sale on %s: %w", rec.ID, ErrInvalidSaleType)
		}
		return quantity * rec.TabletsPerStrip, nil
	case SaleLoose:
		if rec.SaleUnit != UnitTablet || !rec.AllowLooseSale {
			return 0, fmt.Errorf("loose sale on %s: %w", rec.ID, ErrInvalidSaleType)
		}
		return quantity, nil
	case SaleGenericUnit:
		return quantity, nil
	default:
		return 0, fmt.Errorf("unknown sale type %q: %w", sale, ErrInvalidSaleType)
	}
}

// PriceForSale resolves the unit price charged per quantity unit: the strip
// price for strip and generic-unit sales, the loose tablet price for loose
// sales. The price must be defined and non-negative before the sale is
// admitted. It is snapshotted onto the cart line at add time and never
// recomputed later.
func PriceForSale(rec StockRecord, sale SaleType) (decimal.Decimal, error) {
	switch sale {
	case SaleStrip, SaleGenericUnit:
		if !rec.StripPrice.Valid {
			return decimal.Zero, fmt.Errorf("strip price for %s: %w", rec.ID, ErrMissingPrice)
		}
		if rec.StripPrice.Decimal.IsNegative() {
			return decimal.Zero, fmt.Errorf("strip price for %s: %w", rec.ID, ErrNegativePrice)
		}
		return rec.StripPrice.Decimal, nil
	case SaleLoose:
		if !rec.LooseTabletPrice.Valid {
			return decimal.Zero, fmt.Errorf("loose price for %s: %w", rec.ID, ErrMissingPrice)
		}
		if rec.LooseTabletPrice.Decimal.IsNegative() {
			return decimal.Zero, fmt.Errorf("loose price for %s: %w", rec.ID, ErrNegativePrice)
		}
		return rec.LooseTabletPrice.Decimal, nil
	default:
		return decimal.Zero, fmt.Errorf("unknown sale type %q: %w", sale, ErrInvalidSaleType)
	}
}

// StripBreakdown is a tablet count expressed as full strips plus a loose
// remainder, for display.
type StripBreakdown struct {
	Strips       int
	LooseTablets int
}

// Breakdown splits tabletCount into full strips and loose tablets.
// Defined only for tabletsPerStrip >= 1; tabletCount may be zero.
// Round-trip invariant: Strips*tabletsPerStrip + LooseTablets == tabletCount.
func Breakdown(tabletCount, tabletsPerStrip int) StripBreakdown {
	return StripBreakdown{
		Strips:       tabletCount / tabletsPerStrip,
		LooseTablets: tabletCount % tabletsPerStrip,
	}
}

// DisplayLabel derives the human-readable invoice label for a sale.
func DisplayLabel(sale SaleType, quantity, tabletsPerStrip int) string {
	switch sale {
	case SaleStrip:
		if quantity == 1 {
			return fmt.Sprintf("1 strip (%d tablets)", tabletsPerStrip)
		}
		return fmt.Sprintf("%d strips (%d tablets)", quantity, quantity*tabletsPerStrip)
	case SaleLoose:
		if quantity == 1 {
			return "1 tablet"
		}
		return fmt.Sprintf("%d tablets", quantity)
	default:
		if quantity == 1 {
			return "1 unit"
		}
		return fmt.Sprintf("%d units", quantity)
	}
}
