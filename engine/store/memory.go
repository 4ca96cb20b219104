// Package store provides in-memory implementations of the engine's
// persistence interfaces, for tests and single-terminal development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/medicart/pos-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory Inventory + InvoiceStore
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	medicines map[engine.MedicineID]engine.StockRecord
	invoices  []engine.Invoice
}

func NewMemory() *Memory {
	return &Memory{medicines: make(map[engine.MedicineID]engine.StockRecord)}
}

func (m *Memory) Medicine(_ context.Context, id engine.MedicineID) (engine.StockRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.medicines[id]
	if !ok {
		return engine.StockRecord{}, engine.ErrMedicineNotFound
	}
	return rec, nil
}

func (m *Memory) Medicines(_ context.Context) ([]engine.StockRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := make([]engine.StockRecord, 0, len(m.medicines))
	for _, rec := range m.medicines {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return recs, nil
}

func (m *Memory) Put(_ context.Context, rec engine.StockRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.medicines[rec.ID] = rec
	return nil
}

func (m *Memory) AddStock(_ context.Context, id engine.MedicineID, tablets int) error {
	if tablets < 1 {
		return engine.ErrInvalidQuantity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.medicines[id]
	if !ok {
		return engine.ErrMedicineNotFound
	}
	rec.Stock += tablets
	m.medicines[id] = rec
	return nil
}

// DecrementStock re-checks availability under the store lock so stock can
// never go negative, even if two sessions raced past their reservations.
func (m *Memory) DecrementStock(_ context.Context, id engine.MedicineID, tablets int) error {
	if tablets < 1 {
		return engine.ErrInvalidQuantity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.medicines[id]
	if !ok {
		return engine.ErrMedicineNotFound
	}
	if tablets > rec.Stock {
		return &engine.InsufficientStockError{
			MedicineID: id,
			Requested:  tablets,
			Available:  rec.Stock,
		}
	}
	rec.Stock -= tablets
	m.medicines[id] = rec
	return nil
}

// =============================================================================
// INVOICE HISTORY
// =============================================================================

func (m *Memory) SaveInvoice(_ context.Context, inv engine.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices = append(m.invoices, inv)
	return nil
}

func (m *Memory) Invoices(_ context.Context) ([]engine.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]engine.Invoice, len(m.invoices))
	copy(out, m.invoices)
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return out, nil
}

func (m *Memory) LastInvoiceNumber(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var last int64
	for _, inv := range m.invoices {
		if inv.Number > last {
			last = inv.Number
		}
	}
	return last, nil
}
