/*
cart.go - Ordered sale lines with reservation-coordinated admission

PURPOSE:
  The Cart is the ordered collection of sale lines for one checkout session.
  Every add goes through the ReservationLedger first, so a line only exists
  if its tablets were successfully reserved. Lines are immutable once added;
  an edit is modeled as remove + re-add.

PRICE SNAPSHOT:
  The unit price is resolved from the StockRecord at add time and stored on
  the line. Later price changes on the record do not affect lines already
  in the cart.

SEE ALSO:
  - reservation.go: Admission control
  - billing.go: Reads the lines, never mutates them
*/
package engine

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CART LINE
// =============================================================================

// CartLine is one immutable sale line. Quantity counts strips, tablets, or
// generic units depending on SaleType; TabletsReserved is the tablet count
// the line holds against stock.
type CartLine struct {
	ID              LineID
	MedicineID      MedicineID
	MedicineName    string
	SaleType        SaleType
	Quantity        int
	UnitPrice       decimal.Decimal
	TabletsReserved int
	Label           string
}

// Total returns UnitPrice * Quantity.
func (cl CartLine) Total() decimal.Decimal {
	return cl.UnitPrice.Mul(decimal.NewFromInt(int64(cl.Quantity)))
}

// =============================================================================
// CART
// =============================================================================

// Cart is an ordered sequence of lines (insertion order = invoice order),
// not deduplicated by medicine. It owns its ReservationLedger.
type Cart struct {
	mu     sync.Mutex
	lines  []CartLine
	ledger *ReservationLedger
}

func NewCart() *Cart {
	return &Cart{ledger: NewReservationLedger()}
}

// Ledger exposes the cart's reservation ledger for read-only availability
// queries while the cart is open.
func (c *Cart) Ledger() *ReservationLedger {
	return c.ledger
}

// AddLine validates the quantity, resolves tablets and price from rec, and
// appends a new line iff the tablets could be reserved. On any failure the
// cart and ledger are unchanged and the caller receives the underlying
// error (ErrInvalidQuantity, ErrInvalidSaleType, ErrMissingPrice, or
// *InsufficientStockError).
func (c *Cart) AddLine(rec StockRecord, sale SaleType, quantity int) (CartLine, error) {
	if quantity < 1 {
		return CartLine{}, ErrInvalidQuantity
	}

	tablets, err := TabletsForSale(rec, sale, quantity)
	if err != nil {
		return CartLine{}, err
	}
	price, err := PriceForSale(rec, sale)
	if err != nil {
		return CartLine{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ledger.TryReserve(rec, tablets); err != nil {
		return CartLine{}, err
	}

	line := CartLine{
		ID:              LineID(uuid.NewString()),
		MedicineID:      rec.ID,
		MedicineName:    rec.Name,
		SaleType:        sale,
		Quantity:        quantity,
		UnitPrice:       price,
		TabletsReserved: tablets,
		Label:           DisplayLabel(sale, quantity, rec.TabletsPerStrip),
	}
	c.lines = append(c.lines, line)
	return line, nil
}

// RemoveLine removes the line and releases its reserved tablets.
// Fails with ErrLineNotFound for an unknown id.
func (c *Cart) RemoveLine(id LineID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, line := range c.lines {
		if line.ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.ledger.Release(line.MedicineID, line.TabletsReserved)
			return nil
		}
	}
	return ErrLineNotFound
}

// Clear removes all lines and zeroes all reservations in one atomic step.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.ledger.Clear()
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Subtotal sums UnitPrice*Quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Total())
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}
