package repositories

import (
	"errors"
	"fmt"
)

// Engine error taxonomy. Controllers map these onto HTTP statuses; only
// ErrConcurrentModification is retried internally, everything else surfaces
// to the caller untouched and with the ledger state unchanged.
var (
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrInsufficientAllocatable = errors.New("insufficient allocatable stock")
	ErrUnknownRecord           = errors.New("stock record not found")
	ErrAlreadyFinalized        = errors.New("document already finalized")
	ErrInvalidTransition       = errors.New("invalid order state transition")
	ErrConcurrentModification  = errors.New("stock record modified concurrently")
	ErrValidation              = errors.New("validation failed")
)

// StockError carries the quantity context needed to render a user-facing
// message (backorder screens want requested vs available).
type StockError struct {
	Err         error
	ItemID      uint
	WarehouseID uint
	Requested   int
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%v: item %d warehouse %d requested %d available %d",
		e.Err, e.ItemID, e.WarehouseID, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error {
	return e.Err
}

func insufficientStock(itemID, whsID uint, requested, available int) error {
	return &StockError{Err: ErrInsufficientStock, ItemID: itemID, WarehouseID: whsID,
		Requested: requested, Available: available}
}

func insufficientAllocatable(itemID, whsID uint, requested, available int) error {
	return &StockError{Err: ErrInsufficientAllocatable, ItemID: itemID, WarehouseID: whsID,
		Requested: requested, Available: available}
}

// TransitionError reports a transition outside the fulfillment state table.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
