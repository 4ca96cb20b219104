/*
Package checkout orchestrates the sale flow on top of the engine package:
one open cart session per terminal, and the commit protocol that turns a
cart into an invoice while decrementing authoritative stock exactly once.

FLOW:
  1. StartSession          -> empty cart + empty reservation ledger
  2. Session.AddLine       -> resolve tablets, reserve, append line
  3. Service.Checkout      -> compute bill, mint invoice id, decrement
                              stock per medicine, persist, clear cart
  4. Session.Cancel        -> drop all lines and reservations

CONCURRENCY:
  Each terminal runs one session. When several sessions share one
  inventory, the Service serializes reserve/decrement per medicine id, so
  the check-then-act window between "read available" and "decrement stock"
  cannot oversell. Sessions touching different medicines never block each
  other.

SEE ALSO:
  - engine/reservation.go: The per-cart admission control
  - engine/billing.go: The single authoritative total computation
*/
package checkout

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/medicart/pos-engine/engine"
)

var (
	// ErrSessionNotFound is returned for an unknown or already-closed session.
	ErrSessionNotFound = errors.New("checkout session not found")

	// ErrEmptyCart is returned when checking out a cart with no lines.
	ErrEmptyCart = errors.New("cart has no lines")
)

type SessionID string

// =============================================================================
// SESSION - One open cart
// =============================================================================

// Session binds a cart and its reservation ledger to the shared inventory
// for the duration of one checkout. Create via Service.StartSession.
type Session struct {
	ID   SessionID
	cart *engine.Cart
	svc  *Service
}

// AddLine looks up the medicine and admits a new cart line through the
// reservation ledger. The per-medicine lock keeps the stock read and the
// reservation from interleaving with another session's commit.
func (s *Session) AddLine(ctx context.Context, id engine.MedicineID, sale engine.SaleType, quantity int) (engine.CartLine, error) {
	unlock := s.svc.lockMedicine(id)
	defer unlock()

	rec, err := s.svc.inventory.Medicine(ctx, id)
	if err != nil {
		return engine.CartLine{}, err
	}
	return s.cart.AddLine(rec, sale, quantity)
}

// RemoveLine removes a line and releases its tablets.
func (s *Session) RemoveLine(id engine.LineID) error {
	return s.cart.RemoveLine(id)
}

// AvailableFor returns the tablets of a medicine still available to this
// session: authoritative stock minus this cart's reservation. Exposed for
// display of remaining stock while the cart is open.
func (s *Session) AvailableFor(ctx context.Context, id engine.MedicineID) (int, error) {
	rec, err := s.svc.inventory.Medicine(ctx, id)
	if err != nil {
		return 0, err
	}
	return s.cart.Ledger().AvailableFor(rec), nil
}

// Lines returns a snapshot of the cart lines in insertion order.
func (s *Session) Lines() []engine.CartLine {
	return s.cart.Lines()
}

// Subtotal returns the running subtotal of the open cart.
func (s *Session) Subtotal() decimal.Decimal {
	return s.cart.Subtotal()
}

// Preview computes the bill the cart would produce at the given discount,
// without minting an invoice or touching stock. It calls the same
// calculator as Checkout, so preview and final totals cannot drift.
func (s *Session) Preview(discountPercent decimal.Decimal) (engine.Bill, error) {
	if err := s.svc.checkDiscount(discountPercent); err != nil {
		return engine.Bill{}, err
	}
	return engine.Compute(s.cart.Lines(), s.svc.billingConfig(discountPercent))
}

// Cancel abandons the session: all lines and reservations are dropped.
func (s *Session) Cancel() {
	s.cart.Clear()
	s.svc.dropSession(s.ID)
}
