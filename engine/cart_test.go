package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicart/pos-engine/engine"
)

// =============================================================================
// ADD LINE
// =============================================================================

func TestCart_AddLine_StripThenLoose(t *testing.T) {
	// GIVEN: stock=100, tabletsPerStrip=10, stripPrice=50, loosePrice=6
	// WHEN: addLine(Strip, 3) then addLine(Loose, 15)
	// THEN: 45 tablets reserved total, line prices 150 and 90, 55 available

	rec := stripMedicine()
	cart := engine.NewCart()

	strip, err := cart.AddLine(rec, engine.SaleStrip, 3)
	require.NoError(t, err)
	assert.Equal(t, 30, strip.TabletsReserved)
	assert.True(t, strip.Total().Equal(engine.MustParseDecimal("150")))

	loose, err := cart.AddLine(rec, engine.SaleLoose, 15)
	require.NoError(t, err)
	assert.Equal(t, 15, loose.TabletsReserved)
	assert.True(t, loose.Total().Equal(engine.MustParseDecimal("90")))

	assert.Equal(t, 45, cart.Ledger().Reserved(rec.ID))
	assert.Equal(t, 55, cart.Ledger().AvailableFor(rec))
	assert.True(t, cart.Subtotal().Equal(engine.MustParseDecimal("240")))
}

func TestCart_AddLine_InsufficientStock_CartUnchanged(t *testing.T) {
	// GIVEN: The cart from the previous scenario (45 of 100 reserved)
	// WHEN: addLine(Strip, 8) needing 80 tablets
	// THEN: Fails with requested=80 available=55; cart unchanged

	rec := stripMedicine()
	cart := engine.NewCart()
	_, err := cart.AddLine(rec, engine.SaleStrip, 3)
	require.NoError(t, err)
	_, err = cart.AddLine(rec, engine.SaleLoose, 15)
	require.NoError(t, err)

	_, err = cart.AddLine(rec, engine.SaleStrip, 8)
	require.Error(t, err)

	var stockErr *engine.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 80, stockErr.Requested)
	assert.Equal(t, 55, stockErr.Available)

	assert.Len(t, cart.Lines(), 2)
	assert.Equal(t, 45, cart.Ledger().Reserved(rec.ID))
}

func TestCart_AddLine_QuantityBelowOne_Rejected(t *testing.T) {
	cart := engine.NewCart()

	_, err := cart.AddLine(stripMedicine(), engine.SaleStrip, 0)
	assert.ErrorIs(t, err, engine.ErrInvalidQuantity)

	_, err = cart.AddLine(stripMedicine(), engine.SaleLoose, -3)
	assert.ErrorIs(t, err, engine.ErrInvalidQuantity)

	assert.True(t, cart.IsEmpty())
}

func TestCart_AddLine_InvalidConfig_NothingReserved(t *testing.T) {
	// Conversion and price failures must leave the ledger untouched.

	rec := stripMedicine()
	rec.AllowLooseSale = false
	cart := engine.NewCart()

	_, err := cart.AddLine(rec, engine.SaleLoose, 5)
	assert.ErrorIs(t, err, engine.ErrInvalidSaleType)

	rec = stripMedicine()
	rec.LooseTabletPrice = engine.NoPrice()
	_, err = cart.AddLine(rec, engine.SaleLoose, 5)
	assert.ErrorIs(t, err, engine.ErrMissingPrice)

	rec = stripMedicine()
	rec.LooseTabletPrice = engine.Price("-6")
	_, err = cart.AddLine(rec, engine.SaleLoose, 5)
	assert.ErrorIs(t, err, engine.ErrNegativePrice)

	assert.Equal(t, 0, cart.Ledger().Reserved(rec.ID))
	assert.True(t, cart.IsEmpty())
}

func TestCart_AddLine_PriceSnapshot(t *testing.T) {
	// The unit price is resolved at add time; later record changes do not
	// reprice existing lines.

	rec := stripMedicine()
	cart := engine.NewCart()
	line, err := cart.AddLine(rec, engine.SaleStrip, 1)
	require.NoError(t, err)

	rec.StripPrice = engine.Price("99")
	assert.True(t, line.UnitPrice.Equal(engine.MustParseDecimal("50")))
	assert.True(t, cart.Lines()[0].UnitPrice.Equal(engine.MustParseDecimal("50")))
}

// =============================================================================
// REMOVE LINE
// =============================================================================

func TestCart_RemoveLine_ReleasesExactly(t *testing.T) {
	// GIVEN: Strip line (30 tablets) and loose line (15 tablets)
	// WHEN: Removing the strip line
	// THEN: Exactly 30 tablets return; availability back to 85

	rec := stripMedicine()
	cart := engine.NewCart()
	strip, err := cart.AddLine(rec, engine.SaleStrip, 3)
	require.NoError(t, err)
	_, err = cart.AddLine(rec, engine.SaleLoose, 15)
	require.NoError(t, err)

	require.NoError(t, cart.RemoveLine(strip.ID))

	assert.Len(t, cart.Lines(), 1)
	assert.Equal(t, 15, cart.Ledger().Reserved(rec.ID))
	assert.Equal(t, 85, cart.Ledger().AvailableFor(rec))
}

func TestCart_RemoveLine_UnknownID_Rejected(t *testing.T) {
	cart := engine.NewCart()
	err := cart.RemoveLine("no-such-line")
	assert.ErrorIs(t, err, engine.ErrLineNotFound)
}

// =============================================================================
// CLEAR AND ORDERING
// =============================================================================

func TestCart_Clear_AtomicallyDropsLinesAndReservations(t *testing.T) {
	rec := stripMedicine()
	cart := engine.NewCart()
	_, err := cart.AddLine(rec, engine.SaleStrip, 2)
	require.NoError(t, err)
	_, err = cart.AddLine(rec, engine.SaleLoose, 5)
	require.NoError(t, err)

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.Ledger().Reserved(rec.ID))
	assert.True(t, cart.Subtotal().IsZero())
}

func TestCart_Lines_PreserveInsertionOrder(t *testing.T) {
	rec := stripMedicine()
	other := syrupMedicine()
	cart := engine.NewCart()

	l1, err := cart.AddLine(rec, engine.SaleLoose, 2)
	require.NoError(t, err)
	l2, err := cart.AddLine(other, engine.SaleGenericUnit, 1)
	require.NoError(t, err)
	l3, err := cart.AddLine(rec, engine.SaleStrip, 1)
	require.NoError(t, err)

	lines := cart.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, []engine.LineID{l1.ID, l2.ID, l3.ID},
		[]engine.LineID{lines[0].ID, lines[1].ID, lines[2].ID})
}
