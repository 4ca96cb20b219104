package checkout

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medicart/pos-engine/engine"
)

// =============================================================================
// SETTINGS
// =============================================================================

// Settings carries the billing configuration the Service applies to every
// checkout. Loaded from external configuration (see package config).
type Settings struct {
	DiscountMaxPercent decimal.Decimal
	TaxEnabled         bool
	CGSTRate           decimal.Decimal
	SGSTRate           decimal.Decimal
	RoundOffEnabled    bool
}

// =============================================================================
// SERVICE
// =============================================================================

// Service owns the open sessions of one inventory pool and runs the commit
// protocol. Invoices is optional: with a nil store, checkout still works
// but history is not persisted.
type Service struct {
	inventory engine.Inventory
	invoices  engine.InvoiceStore
	sequencer *engine.InvoiceSequencer
	settings  Settings

	mu       sync.Mutex
	sessions map[SessionID]*Session

	// Per-medicine locks serializing reserve/decrement across sessions.
	lockMu sync.Mutex
	locks  map[engine.MedicineID]*sync.Mutex

	now func() time.Time
}

func NewService(inv engine.Inventory, invoices engine.InvoiceStore, seq *engine.InvoiceSequencer, settings Settings) *Service {
	return &Service{
		inventory: inv,
		invoices:  invoices,
		sequencer: seq,
		settings:  settings,
		sessions:  make(map[SessionID]*Session),
		locks:     make(map[engine.MedicineID]*sync.Mutex),
		now:       time.Now,
	}
}

// StartSession opens a new cart session with an empty reservation ledger.
func (svc *Service) StartSession() *Session {
	s := &Session{
		ID:   SessionID(uuid.NewString()),
		cart: engine.NewCart(),
		svc:  svc,
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.sessions[s.ID] = s
	return s
}

// Session returns an open session by id.
func (svc *Service) Session(id SessionID) (*Session, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	s, ok := svc.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (svc *Service) dropSession(id SessionID) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	delete(svc.sessions, id)
}

// lockMedicine acquires the mutex for one medicine id, creating it on first
// use. Locks for different medicines are independent, so sessions selling
// different medicines never block each other.
func (svc *Service) lockMedicine(id engine.MedicineID) func() {
	svc.lockMu.Lock()
	l, ok := svc.locks[id]
	if !ok {
		l = &sync.Mutex{}
		svc.locks[id] = l
	}
	svc.lockMu.Unlock()

	l.Lock()
	return l.Unlock
}

func (svc *Service) checkDiscount(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(svc.settings.DiscountMaxPercent) {
		return fmt.Errorf("discount %s exceeds configured maximum %s: %w",
			d, svc.settings.DiscountMaxPercent, engine.ErrDiscountOutOfRange)
	}
	return nil
}

func (svc *Service) billingConfig(discountPercent decimal.Decimal) engine.BillingConfig {
	return engine.BillingConfig{
		DiscountPercent: discountPercent,
		TaxEnabled:      svc.settings.TaxEnabled,
		CGSTRate:        svc.settings.CGSTRate,
		SGSTRate:        svc.settings.SGSTRate,
		RoundOffEnabled: svc.settings.RoundOffEnabled,
	}
}

// =============================================================================
// CHECKOUT - Bill, mint, decrement once, clear
// =============================================================================

// Checkout finalizes a session: computes the bill from the cart snapshot,
// mints the next invoice id, decrements authoritative stock exactly once
// per medicine (inside that medicine's critical section), persists the
// invoice, and clears the cart. On failure the cart is left untouched and
// any stock already decremented is credited back, so the cashier can
// correct the cart and retry without the retry deducting twice.
func (svc *Service) Checkout(ctx context.Context, sessionID SessionID, discountPercent decimal.Decimal) (engine.Invoice, error) {
	s, err := svc.Session(sessionID)
	if err != nil {
		return engine.Invoice{}, err
	}

	lines := s.cart.Lines()
	if len(lines) == 0 {
		return engine.Invoice{}, ErrEmptyCart
	}
	if err := svc.checkDiscount(discountPercent); err != nil {
		return engine.Invoice{}, err
	}

	bill, err := engine.Compute(lines, svc.billingConfig(discountPercent))
	if err != nil {
		return engine.Invoice{}, err
	}

	id, number := svc.sequencer.NextNumbered()
	inv := engine.NewInvoice(id, number, lines, bill, svc.now())

	if err := svc.commitStock(ctx, inv); err != nil {
		return engine.Invoice{}, err
	}

	if svc.invoices != nil {
		if err := svc.invoices.SaveInvoice(ctx, inv); err != nil {
			return engine.Invoice{}, fmt.Errorf("stock decremented for %s but invoice not persisted: %w", id, err)
		}
	}

	s.cart.Clear()
	svc.dropSession(s.ID)
	return inv, nil
}

// commitStock decrements stock per medicine, in sorted order for
// determinism, each under its medicine lock.
func (svc *Service) commitStock(ctx context.Context, inv engine.Invoice) error {
	byMed := inv.TabletsByMedicine()

	ids := make([]engine.MedicineID, 0, len(byMed))
	for id := range byMed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for i, id := range ids {
		if err := svc.decrementOne(ctx, id, byMed[id]); err != nil {
			if restoreErr := svc.restoreStock(ctx, ids[:i], byMed); restoreErr != nil {
				return fmt.Errorf("restoring stock after failed commit: %v: %w", restoreErr, err)
			}
			return err
		}
	}
	return nil
}

// restoreStock credits back medicines already decremented by a commit that
// failed partway. Without this, the still-open session would deduct them a
// second time on retry.
func (svc *Service) restoreStock(ctx context.Context, ids []engine.MedicineID, byMed map[engine.MedicineID]int) error {
	for _, id := range ids {
		unlock := svc.lockMedicine(id)
		err := svc.inventory.AddStock(ctx, id, byMed[id])
		unlock()
		if err != nil {
			return err
		}
	}
	return nil
}

func (svc *Service) decrementOne(ctx context.Context, id engine.MedicineID, tablets int) error {
	unlock := svc.lockMedicine(id)
	defer unlock()
	return svc.inventory.DecrementStock(ctx, id, tablets)
}
