package models

import (
	"errors"
	"time"
)

// PaymentStatus is the tri-state outcome of a payment attempt
type PaymentStatus string

const (
	PaymentApproved PaymentStatus = "approved"
	PaymentPending  PaymentStatus = "pending"
	PaymentRejected PaymentStatus = "rejected"
)

// IsValid reports whether the status is a known payment outcome
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentApproved, PaymentPending, PaymentRejected:
		return true
	default:
		return false
	}
}

// Transaction records one checkout attempt, stamped with the payment
// outcome. Created once per checkout and immutable afterwards.
type Transaction struct {
	ID            int           `json:"id" db:"id"`
	UserID        int           `json:"user_id" db:"user_id"`
	PaymentID     int64         `json:"payment_id" db:"payment_id"`
	TotalAmount   int           `json:"total_amount" db:"total_amount"` // in cents
	StatusPayment PaymentStatus `json:"status_payment" db:"status_payment"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// Validate validates the transaction data
func (t *Transaction) Validate() error {
	if t.UserID <= 0 {
		return errors.New("transaction user is required")
	}

	if t.TotalAmount < 0 {
		return errors.New("transaction total cannot be negative")
	}

	if !t.StatusPayment.IsValid() {
		return errors.New("invalid payment status")
	}

	return nil
}

// IsApproved returns true if the payment was approved
func (t *Transaction) IsApproved() bool {
	return t.StatusPayment == PaymentApproved
}

// TotalInCurrency returns the total in the main currency as a float
func (t *Transaction) TotalInCurrency() float64 {
	return float64(t.TotalAmount) / 100.0
}
