// dto.go - Data transfer objects for API requests and responses.
//
// DTOs decouple the engine's domain types from the JSON contract. Money is
// serialized as decimal strings so clients never see binary floats.
package api

import (
	"time"

	"github.com/medicart/pos-engine/engine"
)

// =============================================================================
// MEDICINES
// =============================================================================

// MedicineDTO represents a stock record in API responses.
type MedicineDTO struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Stock             int    `json:"stock"`
	SaleUnit          string `json:"sale_unit"`
	TabletsPerStrip   int    `json:"tablets_per_strip,omitempty"`
	StripPrice        string `json:"strip_price,omitempty"`
	AllowLooseSale    bool   `json:"allow_loose_sale"`
	LooseTabletPrice  string `json:"loose_tablet_price,omitempty"`
	LowStockThreshold int    `json:"low_stock_threshold,omitempty"`
	LowOnStock        bool   `json:"low_on_stock"`
}

// PutMedicineRequest creates or replaces a stock record.
type PutMedicineRequest struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Stock             int    `json:"stock"`
	SaleUnit          string `json:"sale_unit"`
	TabletsPerStrip   int    `json:"tablets_per_strip"`
	StripPrice        string `json:"strip_price"`
	AllowLooseSale    bool   `json:"allow_loose_sale"`
	LooseTabletPrice  string `json:"loose_tablet_price"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

// AddStockRequest is a stock entry for an existing medicine.
type AddStockRequest struct {
	Tablets int `json:"tablets"`
}

// =============================================================================
// SESSIONS AND CART LINES
// =============================================================================

// SessionDTO represents an open cart session.
type SessionDTO struct {
	ID       string        `json:"id"`
	Lines    []CartLineDTO `json:"lines"`
	Subtotal string        `json:"subtotal"`
}

// CartLineDTO represents one sale line in an open cart.
type CartLineDTO struct {
	ID              string `json:"id"`
	MedicineID      string `json:"medicine_id"`
	MedicineName    string `json:"medicine_name"`
	SaleType        string `json:"sale_type"`
	Quantity        int    `json:"quantity"`
	UnitPrice       string `json:"unit_price"`
	TabletsReserved int    `json:"tablets_reserved"`
	Label           string `json:"label"`
	Total           string `json:"total"`
}

// AddLineRequest adds a sale line to an open session.
type AddLineRequest struct {
	MedicineID string `json:"medicine_id"`
	SaleType   string `json:"sale_type"`
	Quantity   int    `json:"quantity"`
}

// AvailabilityDTO reports remaining stock while a cart is open.
type AvailabilityDTO struct {
	MedicineID string `json:"medicine_id"`
	Available  int    `json:"available"`
}

// =============================================================================
// BILLING AND INVOICES
// =============================================================================

// CheckoutRequest finalizes a session. DiscountPercent is a decimal string;
// empty means zero.
type CheckoutRequest struct {
	DiscountPercent string `json:"discount_percent"`
}

// BillDTO represents a computed bill (preview or final amounts).
type BillDTO struct {
	Subtotal        string `json:"subtotal"`
	DiscountPercent string `json:"discount_percent"`
	DiscountAmount  string `json:"discount_amount"`
	CGSTAmount      string `json:"cgst_amount"`
	SGSTAmount      string `json:"sgst_amount"`
	RoundOff        string `json:"round_off"`
	GrandTotal      string `json:"grand_total"`
}

// InvoiceDTO represents a finalized invoice.
type InvoiceDTO struct {
	ID              string           `json:"id"`
	Number          int64            `json:"number"`
	Lines           []InvoiceLineDTO `json:"lines"`
	Subtotal        string           `json:"subtotal"`
	DiscountPercent string           `json:"discount_percent"`
	DiscountAmount  string           `json:"discount_amount"`
	CGSTAmount      string           `json:"cgst_amount"`
	SGSTAmount      string           `json:"sgst_amount"`
	RoundOff        string           `json:"round_off"`
	GrandTotal      string           `json:"grand_total"`
	IssuedAt        string           `json:"issued_at"`
}

// InvoiceLineDTO represents one invoice line with its display label.
type InvoiceLineDTO struct {
	MedicineID   string `json:"medicine_id"`
	MedicineName string `json:"medicine_name"`
	SaleType     string `json:"sale_type"`
	Quantity     int    `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	Tablets      int    `json:"tablets"`
	Label        string `json:"label"`
	Total        string `json:"total"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toMedicineDTO(rec engine.StockRecord) MedicineDTO {
	dto := MedicineDTO{
		ID:                string(rec.ID),
		Name:              rec.Name,
		Stock:             rec.Stock,
		SaleUnit:          string(rec.SaleUnit),
		TabletsPerStrip:   rec.TabletsPerStrip,
		AllowLooseSale:    rec.AllowLooseSale,
		LowStockThreshold: rec.LowStockThreshold,
		LowOnStock:        rec.LowOnStock(),
	}
	if rec.StripPrice.Valid {
		dto.StripPrice = rec.StripPrice.Decimal.String()
	}
	if rec.LooseTabletPrice.Valid {
		dto.LooseTabletPrice = rec.LooseTabletPrice.Decimal.String()
	}
	return dto
}

func toCartLineDTO(line engine.CartLine) CartLineDTO {
	return CartLineDTO{
		ID:              string(line.ID),
		MedicineID:      string(line.MedicineID),
		MedicineName:    line.MedicineName,
		SaleType:        string(line.SaleType),
		Quantity:        line.Quantity,
		UnitPrice:       line.UnitPrice.String(),
		TabletsReserved: line.TabletsReserved,
		Label:           line.Label,
		Total:           line.Total().String(),
	}
}

func toBillDTO(bill engine.Bill) BillDTO {
	return BillDTO{
		Subtotal:        bill.Subtotal.String(),
		DiscountPercent: bill.DiscountPercent.String(),
		DiscountAmount:  bill.DiscountAmount.String(),
		CGSTAmount:      bill.CGSTAmount.String(),
		SGSTAmount:      bill.SGSTAmount.String(),
		RoundOff:        bill.RoundOff.String(),
		GrandTotal:      bill.GrandTotal.String(),
	}
}

func toInvoiceDTO(inv engine.Invoice) InvoiceDTO {
	lines := make([]InvoiceLineDTO, len(inv.Lines))
	for i, line := range inv.Lines {
		lines[i] = InvoiceLineDTO{
			MedicineID:   string(line.MedicineID),
			MedicineName: line.MedicineName,
			SaleType:     string(line.SaleType),
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice.String(),
			Tablets:      line.Tablets,
			Label:        line.Label,
			Total:        line.Total.String(),
		}
	}
	return InvoiceDTO{
		ID:              inv.ID,
		Number:          inv.Number,
		Lines:           lines,
		Subtotal:        inv.Subtotal.String(),
		DiscountPercent: inv.DiscountPercent.String(),
		DiscountAmount:  inv.DiscountAmount.String(),
		CGSTAmount:      inv.CGSTAmount.String(),
		SGSTAmount:      inv.SGSTAmount.String(),
		RoundOff:        inv.RoundOff.String(),
		GrandTotal:      inv.GrandTotal.String(),
		IssuedAt:        inv.IssuedAt.UTC().Format(time.RFC3339),
	}
}
