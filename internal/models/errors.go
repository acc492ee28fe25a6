package models

import (
	"errors"
	"fmt"
)

// Common errors used throughout the application
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrCartNotFound        = errors.New("cart not found")
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized access")
)

// DuplicateReservationError is returned when a reservation already exists
// for a (cart item, user) pair. It aborts the whole checkout attempt.
type DuplicateReservationError struct {
	CartItemID int
	UserID     int
}

func (e *DuplicateReservationError) Error() string {
	return fmt.Sprintf("reservation already exists for cart item %d and user %d", e.CartItemID, e.UserID)
}

// InsufficientInventoryError is returned when a deduction would drive an
// event's available quantity negative.
type InsufficientInventoryError struct {
	EventID   int
	Requested int
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for event %d (requested: %d, available: %d)", e.EventID, e.Requested, e.Available)
}

// IsDuplicateReservation reports whether err is a duplicate-reservation error.
func IsDuplicateReservation(err error) bool {
	var dup *DuplicateReservationError
	return errors.As(err, &dup)
}

// IsInsufficientInventory reports whether err is an insufficient-inventory error.
func IsInsufficientInventory(err error) bool {
	var ins *InsufficientInventoryError
	return errors.As(err, &ins)
}
