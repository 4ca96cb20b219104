/*
errors.go - Centralized error types for the sales engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers (checkout service, HTTP layer) match with errors.Is/errors.As.

ERROR CATEGORIES:
  1. Configuration/data errors - invalid sale type, missing price
  2. Business conditions - insufficient stock (recoverable by the user)
  3. Caller programming errors - invalid quantity, line not found

FATAL CONDITIONS:
  Reservation underflow (releasing more tablets than were reserved) is NOT
  an error value. It indicates a stock-accounting bug and panics; clamping
  it to zero would mask the bug.

USAGE:
    if errors.Is(err, engine.ErrInsufficientStock) {
        var stockErr *engine.InsufficientStockError
        errors.As(err, &stockErr)
        // show stockErr.Requested vs stockErr.Available
    }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidSaleType is returned when a strip or loose sale is requested
	// on a non-tablet medicine, or a loose sale on a medicine that does not
	// allow loose sales.
	ErrInvalidSaleType = errors.New("sale type not valid for this medicine")

	// ErrMissingPrice is returned when the price field required by the
	// requested sale type is undefined.
	ErrMissingPrice = errors.New("required price not configured")

	// ErrNegativePrice is returned when a configured price is below zero.
	// A negative price would produce a negative line total.
	ErrNegativePrice = errors.New("price must be non-negative")

	// ErrInsufficientStock is returned when a reservation or decrement would
	// exceed the tablets physically in stock. Expected, recoverable.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidQuantity is returned when a quantity below 1 is supplied.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrLineNotFound is returned by RemoveLine for an unknown line id.
	ErrLineNotFound = errors.New("cart line not found")

	// ErrMedicineNotFound is returned when a medicine id has no stock record.
	ErrMedicineNotFound = errors.New("medicine not found")

	// ErrMissingMedicineID is returned when a stock record has no id.
	ErrMissingMedicineID = errors.New("medicine id required")

	// ErrNegativeStock is returned when a stock record carries a negative count.
	ErrNegativeStock = errors.New("stock count must be non-negative")

	// ErrInvalidStripSize is returned when a tablet-form record has
	// TabletsPerStrip below 1.
	ErrInvalidStripSize = errors.New("tablets per strip must be at least 1")

	// ErrDiscountOutOfRange is returned when a discount percent falls
	// outside the permitted range.
	ErrDiscountOutOfRange = errors.New("discount percent out of range")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientStockError reports a reservation shortage in tablets.
type InsufficientStockError struct {
	MedicineID MedicineID
	Requested  int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("need %d tablets of %s but only %d available",
		e.Requested, e.MedicineID, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input or
// a recoverable business condition, as opposed to an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidSaleType) ||
		errors.Is(err, ErrMissingPrice) ||
		errors.Is(err, ErrNegativePrice) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrLineNotFound) ||
		errors.Is(err, ErrDiscountOutOfRange)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMedicineNotFound) ||
		errors.Is(err, ErrLineNotFound)
}
