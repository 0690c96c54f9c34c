package reservations

import (
	"errors"
	"fmt"

	"busbenin/internal/trajets"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrForbidden           = errors.New("not allowed to access this reservation")
	ErrNotPayable          = errors.New("reservation cannot be paid in its current state")
	ErrPaymentInProgress   = errors.New("a payment is already in progress for this reservation")
	ErrNoTransaction       = errors.New("no payment has been initiated for this reservation")
	ErrReceiptUnavailable  = errors.New("receipt is only available for confirmed reservations")
	ErrTrajetNotFound      = trajets.ErrTrajetNotFound
)

// ValidationError rejects a request before anything is stored
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// PersistenceError wraps a failed store operation
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PaymentInitiationError means the aggregator refused or failed to open a transaction
type PaymentInitiationError struct {
	Message string
	Err     error
}

func (e *PaymentInitiationError) Error() string {
	if e.Message == "" && e.Err != nil {
		return "payment initiation failed: " + e.Err.Error()
	}
	return "payment initiation failed: " + e.Message
}

func (e *PaymentInitiationError) Unwrap() error { return e.Err }

// ReconciliationError means the transaction status could not be established
type ReconciliationError struct {
	TransactionID string
	Err           error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation of transaction %s failed: %v", e.TransactionID, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}

func IsPaymentInitiation(err error) bool {
	var target *PaymentInitiationError
	return errors.As(err, &target)
}

func IsReconciliation(err error) bool {
	var target *ReconciliationError
	return errors.As(err, &target)
}
