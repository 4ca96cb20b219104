/*
handlers.go - HTTP handlers for the pharmacy register

PURPOSE:
  Exposes the sales engine over REST. Handles HTTP request/response and
  JSON serialization, then delegates to the checkout service and stores.

ENDPOINTS:
  Medicines:
    GET    /api/medicines                 List stock records
    POST   /api/medicines                 Create/replace a stock record
    GET    /api/medicines/{id}            Get one stock record
    POST   /api/medicines/{id}/stock      Stock entry (add tablets)

  Sessions:
    POST   /api/sessions                          Open a cart session
    GET    /api/sessions/{id}                     Current lines + subtotal
    DELETE /api/sessions/{id}                     Cancel (drop reservations)
    POST   /api/sessions/{id}/lines               Add a sale line
    DELETE /api/sessions/{id}/lines/{lineID}      Remove a line
    GET    /api/sessions/{id}/available/{medID}   Remaining stock for display
    POST   /api/sessions/{id}/preview             Bill preview (no commit)
    POST   /api/sessions/{id}/checkout            Finalize into an invoice

  Invoices:
    GET    /api/invoices                  Invoice history

  Demo:
    POST   /api/demo                      Load demo inventory

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: malformed request body or parameters
  - 404: unknown medicine/session/line
  - 409: insufficient stock
  - 422: invalid sale type, missing price, invalid quantity, discount range
  - 500: internal errors

SECURITY NOTE:
  No authentication. Auth and role gating live outside this service.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/medicart/pos-engine/checkout"
	"github.com/medicart/pos-engine/engine"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service   *checkout.Service
	Inventory engine.Inventory
	Invoices  engine.InvoiceStore
}

// NewHandler creates a handler over the checkout service and stores.
func NewHandler(svc *checkout.Service, inv engine.Inventory, invoices engine.InvoiceStore) *Handler {
	return &Handler{Service: svc, Inventory: inv, Invoices: invoices}
}

// =============================================================================
// MEDICINE HANDLERS
// =============================================================================

// ListMedicines returns all stock records.
func (h *Handler) ListMedicines(w http.ResponseWriter, r *http.Request) {
	recs, err := h.Inventory.Medicines(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list medicines", err)
		return
	}

	dtos := make([]MedicineDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = toMedicineDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetMedicine returns a single stock record.
func (h *Handler) GetMedicine(w http.ResponseWriter, r *http.Request) {
	id := engine.MedicineID(chi.URLParam(r, "id"))

	rec, err := h.Inventory.Medicine(r.Context(), id)
	if err != nil {
		writeEngineError(w, "Failed to get medicine", err)
		return
	}
	writeJSON(w, http.StatusOK, toMedicineDTO(rec))
}

// PutMedicine creates or replaces a stock record.
func (h *Handler) PutMedicine(w http.ResponseWriter, r *http.Request) {
	var req PutMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec := engine.StockRecord{
		ID:                engine.MedicineID(req.ID),
		Name:              req.Name,
		Stock:             req.Stock,
		SaleUnit:          engine.SaleUnit(req.SaleUnit),
		TabletsPerStrip:   req.TabletsPerStrip,
		StripPrice:        engine.Price(req.StripPrice),
		AllowLooseSale:    req.AllowLooseSale,
		LooseTabletPrice:  engine.Price(req.LooseTabletPrice),
		LowStockThreshold: req.LowStockThreshold,
	}
	if err := h.Inventory.Put(r.Context(), rec); err != nil {
		writeEngineError(w, "Failed to store medicine", err)
		return
	}
	writeJSON(w, http.StatusCreated, toMedicineDTO(rec))
}

// AddStock performs a stock entry for an existing medicine.
func (h *Handler) AddStock(w http.ResponseWriter, r *http.Request) {
	id := engine.MedicineID(chi.URLParam(r, "id"))

	var req AddStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Inventory.AddStock(r.Context(), id, req.Tablets); err != nil {
		writeEngineError(w, "Failed to add stock", err)
		return
	}

	rec, err := h.Inventory.Medicine(r.Context(), id)
	if err != nil {
		writeEngineError(w, "Failed to reload medicine", err)
		return
	}
	writeJSON(w, http.StatusOK, toMedicineDTO(rec))
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

// CreateSession opens a new cart session.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.Service.StartSession()
	writeJSON(w, http.StatusCreated, h.sessionDTO(s))
}

// GetSession returns the current lines and subtotal of a session.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.sessionDTO(s))
}

// CancelSession abandons a session, dropping all reservations.
func (h *Handler) CancelSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// AddLine adds a sale line to a session.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req AddLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	line, err := s.AddLine(r.Context(), engine.MedicineID(req.MedicineID),
		engine.SaleType(req.SaleType), req.Quantity)
	if err != nil {
		writeEngineError(w, "Failed to add line", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCartLineDTO(line))
}

// RemoveLine removes one line, releasing its tablets.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := s.RemoveLine(engine.LineID(chi.URLParam(r, "lineID"))); err != nil {
		writeEngineError(w, "Failed to remove line", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Availability returns the tablets still available to this session.
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	medID := engine.MedicineID(chi.URLParam(r, "medicineID"))
	available, err := s.AvailableFor(r.Context(), medID)
	if err != nil {
		writeEngineError(w, "Failed to compute availability", err)
		return
	}
	writeJSON(w, http.StatusOK, AvailabilityDTO{MedicineID: string(medID), Available: available})
}

// =============================================================================
// BILLING HANDLERS
// =============================================================================

// PreviewBill computes the bill for the open cart without committing
// anything. Uses the same calculator as Checkout.
func (h *Handler) PreviewBill(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	discount, ok := h.discountFromBody(w, r)
	if !ok {
		return
	}

	bill, err := s.Preview(discount)
	if err != nil {
		writeEngineError(w, "Failed to compute bill", err)
		return
	}
	writeJSON(w, http.StatusOK, toBillDTO(bill))
}

// Checkout finalizes a session into an invoice.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	id := checkout.SessionID(chi.URLParam(r, "id"))

	discount, ok := h.discountFromBody(w, r)
	if !ok {
		return
	}

	inv, err := h.Service.Checkout(r.Context(), id, discount)
	if err != nil {
		writeEngineError(w, "Checkout failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvoiceDTO(inv))
}

// ListInvoices returns the invoice history, most recent first.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	if h.Invoices == nil {
		writeJSON(w, http.StatusOK, []InvoiceDTO{})
		return
	}

	invs, err := h.Invoices.Invoices(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list invoices", err)
		return
	}

	dtos := make([]InvoiceDTO, len(invs))
	for i, inv := range invs {
		dtos[i] = toInvoiceDTO(inv)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*checkout.Session, bool) {
	id := checkout.SessionID(chi.URLParam(r, "id"))
	s, err := h.Service.Session(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found", err)
		return nil, false
	}
	return s, true
}

func (h *Handler) sessionDTO(s *checkout.Session) SessionDTO {
	lines := s.Lines()
	dtos := make([]CartLineDTO, len(lines))
	for i, line := range lines {
		dtos[i] = toCartLineDTO(line)
	}
	return SessionDTO{
		ID:       string(s.ID),
		Lines:    dtos,
		Subtotal: s.Subtotal().String(),
	}
}

func (h *Handler) discountFromBody(w http.ResponseWriter, r *http.Request) (decimal.Decimal, bool) {
	var req CheckoutRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return decimal.Zero, false
		}
	}
	if req.DiscountPercent == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(req.DiscountPercent)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid discount_percent", err)
		return decimal.Zero, false
	}
	return d, true
}

// writeEngineError maps engine/checkout errors to HTTP statuses.
func writeEngineError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, engine.ErrInsufficientStock):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, engine.ErrMedicineNotFound),
		errors.Is(err, engine.ErrLineNotFound),
		errors.Is(err, checkout.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, http.StatusUnprocessableEntity, message, err)
	case engine.IsClientError(err):
		writeError(w, http.StatusUnprocessableEntity, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
