package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicart/pos-engine/engine"
	"github.com/medicart/pos-engine/engine/store"
)

func testRecord(id engine.MedicineID, stock int) engine.StockRecord {
	return engine.StockRecord{
		ID:               id,
		Name:             "Test Medicine",
		Stock:            stock,
		SaleUnit:         engine.UnitTablet,
		TabletsPerStrip:  10,
		StripPrice:       engine.Price("50"),
		AllowLooseSale:   true,
		LooseTabletPrice: engine.Price("6"),
	}
}

func TestMemory_PutAndLookup(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, testRecord("med-1", 100)))

	rec, err := m.Medicine(ctx, "med-1")
	require.NoError(t, err)
	assert.Equal(t, 100, rec.Stock)

	_, err = m.Medicine(ctx, "no-such")
	assert.ErrorIs(t, err, engine.ErrMedicineNotFound)
}

func TestMemory_Put_RejectsInvalidRecord(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	bad := testRecord("med-1", -5)
	assert.ErrorIs(t, m.Put(ctx, bad), engine.ErrNegativeStock)

	bad = testRecord("med-1", 10)
	bad.TabletsPerStrip = 0
	assert.ErrorIs(t, m.Put(ctx, bad), engine.ErrInvalidStripSize)

	bad = testRecord("med-1", 10)
	bad.StripPrice = engine.Price("-50")
	assert.ErrorIs(t, m.Put(ctx, bad), engine.ErrNegativePrice)
}

func TestMemory_Medicines_SortedByID(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Put(ctx, testRecord("med-b", 10)))
	require.NoError(t, m.Put(ctx, testRecord("med-a", 20)))

	recs, err := m.Medicines(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, engine.MedicineID("med-a"), recs[0].ID)
	assert.Equal(t, engine.MedicineID("med-b"), recs[1].ID)
}

func TestMemory_AddStock(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Put(ctx, testRecord("med-1", 100)))

	require.NoError(t, m.AddStock(ctx, "med-1", 50))
	rec, err := m.Medicine(ctx, "med-1")
	require.NoError(t, err)
	assert.Equal(t, 150, rec.Stock)

	assert.ErrorIs(t, m.AddStock(ctx, "med-1", 0), engine.ErrInvalidQuantity)
	assert.ErrorIs(t, m.AddStock(ctx, "no-such", 5), engine.ErrMedicineNotFound)
}

func TestMemory_DecrementStock_NeverGoesNegative(t *testing.T) {
	// GIVEN: 100 tablets
	// WHEN: Decrementing 45 then attempting 60
	// THEN: Second decrement fails with available=55 and stock unchanged

	m := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Put(ctx, testRecord("med-1", 100)))

	require.NoError(t, m.DecrementStock(ctx, "med-1", 45))

	err := m.DecrementStock(ctx, "med-1", 60)
	require.Error(t, err)

	var stockErr *engine.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 60, stockErr.Requested)
	assert.Equal(t, 55, stockErr.Available)

	rec, err := m.Medicine(ctx, "med-1")
	require.NoError(t, err)
	assert.Equal(t, 55, rec.Stock)
}

func TestMemory_InvoiceHistory(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	last, err := m.LastInvoiceNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), last)

	inv1 := engine.Invoice{ID: "INV-1", Number: 1, GrandTotal: engine.MustParseDecimal("945"), IssuedAt: time.Now()}
	inv2 := engine.Invoice{ID: "INV-2", Number: 2, GrandTotal: engine.MustParseDecimal("100"), IssuedAt: time.Now()}
	require.NoError(t, m.SaveInvoice(ctx, inv1))
	require.NoError(t, m.SaveInvoice(ctx, inv2))

	last, err = m.LastInvoiceNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), last)

	invs, err := m.Invoices(ctx)
	require.NoError(t, err)
	require.Len(t, invs, 2)
	// Most recent first.
	assert.Equal(t, "INV-2", invs[0].ID)
}
