package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// INVOICE - Immutable result of a successful checkout
// =============================================================================

// InvoiceLine is a copy of a cart line at checkout time, with its derived
// display label and line total.
type InvoiceLine struct {
	LineID       LineID
	MedicineID   MedicineID
	MedicineName string
	SaleType     SaleType
	Quantity     int
	UnitPrice    decimal.Decimal
	Tablets      int
	Label        string
	Total        decimal.Decimal
}

// Invoice is created once per successful checkout and never mutated. The
// cart it was built from is cleared immediately after.
type Invoice struct {
	ID              string
	Number          int64
	Lines           []InvoiceLine
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	CGSTAmount      decimal.Decimal
	SGSTAmount      decimal.Decimal
	RoundOff        decimal.Decimal
	GrandTotal      decimal.Decimal
	IssuedAt        time.Time
}

// NewInvoice assembles an invoice from a minted id, the cart line snapshot
// the bill was computed from, and the bill itself.
func NewInvoice(id string, number int64, lines []CartLine, bill Bill, issuedAt time.Time) Invoice {
	invLines := make([]InvoiceLine, len(lines))
	for i, line := range lines {
		invLines[i] = InvoiceLine{
			LineID:       line.ID,
			MedicineID:   line.MedicineID,
			MedicineName: line.MedicineName,
			SaleType:     line.SaleType,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			Tablets:      line.TabletsReserved,
			Label:        line.Label,
			Total:        line.Total(),
		}
	}
	return Invoice{
		ID:              id,
		Number:          number,
		Lines:           invLines,
		Subtotal:        bill.Subtotal,
		DiscountPercent: bill.DiscountPercent,
		DiscountAmount:  bill.DiscountAmount,
		CGSTAmount:      bill.CGSTAmount,
		SGSTAmount:      bill.SGSTAmount,
		RoundOff:        bill.RoundOff,
		GrandTotal:      bill.GrandTotal,
		IssuedAt:        issuedAt,
	}
}

// TabletsByMedicine sums the tablets each medicine on the invoice draws from
// stock. The checkout service decrements authoritative stock from this map,
// exactly once per medicine.
func (inv Invoice) TabletsByMedicine() map[MedicineID]int {
	byMed := make(map[MedicineID]int)
	for _, line := range inv.Lines {
		byMed[line.MedicineID] += line.Tablets
	}
	return byMed
}
