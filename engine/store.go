/*
store.go - Persistence interfaces for stock records and invoice history

PURPOSE:
  Defines the boundary between the sales engine and whatever stores the
  medicine catalog. The engine reads stock through Inventory and commits the
  final decrement through it; it never touches storage directly and never
  reads ambient global state.

STOCK DISCIPLINE:
  Stock is decremented exactly once per checkout per medicine, after the
  bill has been computed, and DecrementStock refuses to drive a count
  negative. Together with the ReservationLedger this closes the oversell
  race: reserve -> bill -> decrement, with the decrement re-checked at the
  store.

IMPLEMENTATIONS:
  - engine/store (Memory): in-memory, for tests and single-terminal dev
  - store/sqlite:           sqlx + sqlite, for a real terminal

SEE ALSO:
  - reservation.go: Pre-commit admission control
  - checkout/service.go: The one caller of DecrementStock
*/
package engine

import "context"

// =============================================================================
// INVENTORY - Stock record lookup and the final commit
// =============================================================================

// Inventory stores StockRecords. Lookups return ErrMedicineNotFound for
// unknown ids; DecrementStock returns an *InsufficientStockError rather
// than letting stock go negative.
type Inventory interface {
	// Medicine returns the stock record for one medicine.
	Medicine(ctx context.Context, id MedicineID) (StockRecord, error)

	// Medicines returns all stock records.
	Medicines(ctx context.Context) ([]StockRecord, error)

	// Put inserts or replaces a stock record after validating it.
	Put(ctx context.Context, rec StockRecord) error

	// AddStock increases a medicine's tablet count (stock entry).
	AddStock(ctx context.Context, id MedicineID, tablets int) error

	// DecrementStock removes tablets from authoritative stock. Called
	// exactly once per checkout per medicine, after billing succeeds.
	DecrementStock(ctx context.Context, id MedicineID, tablets int) error
}

// =============================================================================
// INVOICE STORE - Checkout history
// =============================================================================

// InvoiceStore persists finalized invoices. Append-only: invoices are
// immutable, so there is no update or delete.
type InvoiceStore interface {
	// SaveInvoice persists a finalized invoice.
	SaveInvoice(ctx context.Context, inv Invoice) error

	// Invoices returns all invoices, most recent first.
	Invoices(ctx context.Context) ([]Invoice, error)

	// LastInvoiceNumber returns the highest issued invoice number, or 0
	// when none exist. Used to re-seed the sequencer at startup.
	LastInvoiceNumber(ctx context.Context) (int64, error)
}
