// internal/errors/errors.go
package appErrors

import (
    "errors"
    "fmt"
)

// ErrInsufficientCredits means a reservation was declined; nothing was held.
type ErrInsufficientCredits struct {
    AccountID int
    Requested int
    Available int
}

func (e *ErrInsufficientCredits) Error() string {
    return fmt.Sprintf("account %d has %d credits available, %d requested", e.AccountID, e.Available, e.Requested)
}

// Helper constructor
func NewInsufficientCredits(accountID, requested, available int) error {
    return &ErrInsufficientCredits{AccountID: accountID, Requested: requested, Available: available}
}

func IsInsufficientCredits(err error) bool {
    var target *ErrInsufficientCredits
    return errors.As(err, &target)
}

// ErrAccountNotFound is a sentinel error
type ErrAccountNotFound struct {
    AccountID int
}

func (e *ErrAccountNotFound) Error() string {
    return fmt.Sprintf("account with ID %d not found", e.AccountID)
}

func NewAccountNotFound(id int) error {
    return &ErrAccountNotFound{AccountID: id}
}

// ErrUnknownVisitingType flags a visiting_type outside the configured cadence
// map. Treated as a configuration error, not a scoring outcome.
type ErrUnknownVisitingType struct {
    VisitingType string
}

func (e *ErrUnknownVisitingType) Error() string {
    return fmt.Sprintf("unknown visiting type %q", e.VisitingType)
}

func NewUnknownVisitingType(vt string) error {
    return &ErrUnknownVisitingType{VisitingType: vt}
}

// ErrValidation covers malformed caller input. Never retried.
type ErrValidation struct {
    Field  string
    Reason string
}

func (e *ErrValidation) Error() string {
    return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) error {
    return &ErrValidation{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
    var target *ErrValidation
    return errors.As(err, &target)
}
