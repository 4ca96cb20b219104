// demo.go - Demo inventory loader for development and manual testing.
package api

import (
	"net/http"

	"github.com/medicart/pos-engine/engine"
)

// demoInventory is a small catalog covering every sale configuration: strip
// with loose sales, strip-only, and a non-tablet form.
func demoInventory() []engine.StockRecord {
	return []engine.StockRecord{
		{
			ID:                "paracetamol-500",
			Name:              "Paracetamol 500mg",
			Stock:             200,
			SaleUnit:          engine.UnitTablet,
			TabletsPerStrip:   10,
			StripPrice:        engine.Price("20"),
			AllowLooseSale:    true,
			LooseTabletPrice:  engine.Price("2.50"),
			LowStockThreshold: 30,
		},
		{
			ID:                "amoxicillin-250",
			Name:              "Amoxicillin 250mg",
			Stock:             120,
			SaleUnit:          engine.UnitTablet,
			TabletsPerStrip:   6,
			StripPrice:        engine.Price("48"),
			AllowLooseSale:    false,
			LowStockThreshold: 24,
		},
		{
			ID:                "cetirizine-10",
			Name:              "Cetirizine 10mg",
			Stock:             150,
			SaleUnit:          engine.UnitTablet,
			TabletsPerStrip:   15,
			StripPrice:        engine.Price("36.75"),
			AllowLooseSale:    true,
			LooseTabletPrice:  engine.Price("3"),
			LowStockThreshold: 30,
		},
		{
			ID:                "cough-syrup-100ml",
			Name:              "Cough Syrup 100ml",
			Stock:             40,
			SaleUnit:          engine.UnitNonTablet,
			TabletsPerStrip:   1,
			StripPrice:        engine.Price("85"),
			LowStockThreshold: 10,
		},
	}
}

// LoadDemoInventory inserts the demo catalog into the inventory store.
// Existing records with the same ids are replaced.
func (h *Handler) LoadDemoInventory(w http.ResponseWriter, r *http.Request) {
	recs := demoInventory()
	dtos := make([]MedicineDTO, len(recs))
	for i, rec := range recs {
		if err := h.Inventory.Put(r.Context(), rec); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load demo inventory", err)
			return
		}
		dtos[i] = toMedicineDTO(rec)
	}
	writeJSON(w, http.StatusCreated, dtos)
}
