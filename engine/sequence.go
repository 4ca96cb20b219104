package engine

import (
	"fmt"
	"sync"
)

// =============================================================================
// INVOICE SEQUENCER - Monotonic invoice identifiers
// =============================================================================

// InvoiceSequencer mints unique, strictly increasing invoice identifiers of
// the form {prefix}{counter}. Within one process lifetime an identifier is
// never repeated and never goes backward. Persistence of the counter across
// restarts is an external concern; callers may re-seed at startup with
// SeedAfter.
type InvoiceSequencer struct {
	mu     sync.Mutex
	prefix string
	next   int64
}

// NewInvoiceSequencer starts the counter at start (the first Next call
// returns {prefix}{start}).
func NewInvoiceSequencer(prefix string, start int64) *InvoiceSequencer {
	if start < 1 {
		start = 1
	}
	return &InvoiceSequencer{prefix: prefix, next: start}
}

// Next returns the next invoice identifier and advances the counter.
func (s *InvoiceSequencer) Next() string {
	id, _ := s.NextNumbered()
	return id
}

// NextNumbered returns the next identifier together with its numeric
// suffix, for callers that persist invoices by number.
func (s *InvoiceSequencer) NextNumbered() (string, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.next
	s.next++
	return fmt.Sprintf("%s%d", s.prefix, n), n
}

// Peek returns the identifier the next call to Next will produce, without
// advancing the counter. Used for display on the register screen.
func (s *InvoiceSequencer) Peek() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%s%d", s.prefix, s.next)
}

// SeedAfter raises the counter so the next identifier follows last. It
// never moves the counter backward.
func (s *InvoiceSequencer) SeedAfter(last int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if last+1 > s.next {
		s.next = last + 1
	}
}
