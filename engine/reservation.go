/*
reservation.go - Admission control for open carts

PURPOSE:
  The ReservationLedger tracks tablets already committed to an open cart,
  per medicine, so availability checks account for lines that have not been
  finalized yet. A strip sale and a loose sale of the same medicine draw
  from the same tablet pool, so admission is evaluated on total tablets,
  never on per-sale-type counters.

CRITICAL INVARIANTS:
  1. ALL-OR-NOTHING: TryReserve either records the full request or nothing
  2. NO OVERSELL: reserved(medicine) never exceeds StockRecord.Stock
  3. NO UNDERFLOW: Release below zero is a bug, not a condition - it panics

LIFECYCLE:
  Created empty when a cart session starts. Discarded when the cart is
  checked out or abandoned. Never persisted.

CONCURRENCY:
  Safe for concurrent use within a session. When multiple sessions share a
  StockRecord pool, the checkout service additionally serializes
  reserve/decrement per medicine (see checkout package).

SEE ALSO:
  - cart.go: The only writer of reservations in normal operation
  - checkout/service.go: Per-medicine critical section at commit time
*/
package engine

import (
	"fmt"
	"sync"
)

// =============================================================================
// RESERVATION LEDGER
// =============================================================================

// ReservationLedger holds the tablets reserved by one open cart, keyed by
// medicine. The zero value is not usable; call NewReservationLedger.
type ReservationLedger struct {
	mu       sync.Mutex
	reserved map[MedicineID]int
}

func NewReservationLedger() *ReservationLedger {
	return &ReservationLedger{reserved: make(map[MedicineID]int)}
}

// Reserved returns the tablets currently reserved for a medicine across all
// cart lines, regardless of sale type.
func (l *ReservationLedger) Reserved(id MedicineID) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reserved[id]
}

// AvailableFor returns the tablets of rec still open to reservation:
// authoritative stock minus this cart's outstanding reservation.
func (l *ReservationLedger) AvailableFor(rec StockRecord) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return rec.Stock - l.reserved[rec.ID]
}

// TryReserve records an additional reservation of tablets against rec iff
// the full amount is still available. On failure nothing is recorded and an
// *InsufficientStockError reports requested vs available.
func (l *ReservationLedger) TryReserve(rec StockRecord, tablets int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	available := rec.Stock - l.reserved[rec.ID]
	if tablets > available {
		return &InsufficientStockError{
			MedicineID: rec.ID,
			Requested:  tablets,
			Available:  available,
		}
	}
	l.reserved[rec.ID] += tablets
	return nil
}

// Release returns tablets to availability when a line is removed.
//
// Releasing more than is reserved means the ledger and the cart disagree
// about reservations (a double-release or similar accounting bug). That
// must never be clamped to zero; it panics so the bug cannot masquerade as
// a recoverable condition.
func (l *ReservationLedger) Release(id MedicineID, tablets int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := l.reserved[id] - tablets
	if remaining < 0 {
		panic(fmt.Sprintf("reservation underflow: released %d tablets of %s with only %d reserved",
			tablets, id, l.reserved[id]))
	}
	if remaining == 0 {
		delete(l.reserved, id)
		return
	}
	l.reserved[id] = remaining
}

// Clear zeroes every reservation in one step. Used by Cart.Clear after
// checkout or cancellation.
func (l *ReservationLedger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reserved = make(map[MedicineID]int)
}
