package services

import (
	"math/rand"
	"time"

	"event-checkout-backend/internal/models"
)

// PaymentResult is the outcome of a charge attempt
type PaymentResult struct {
	Status models.PaymentStatus `json:"status"`
	Detail string               `json:"detail"`
}

// PaymentProcessor is the single seam to the payment gateway. The
// simulator implements it; a real gateway adapter would substitute here.
type PaymentProcessor interface {
	Charge(amount int) PaymentResult
}

// RandSource produces the uniform draw deciding a simulated outcome.
// Injectable so tests can force approved/pending/rejected deterministically.
type RandSource interface {
	Float64() float64
}

// PaymentSimulator simulates a gateway: a zero amount is always rejected,
// otherwise a uniform draw r in [0,1) resolves to approved (r < approveBelow),
// pending (r < pendBelow) or rejected. No side effects.
type PaymentSimulator struct {
	approveBelow float64
	pendBelow    float64
	rand         RandSource
}

// NewPaymentSimulator creates a simulator with the given thresholds. A nil
// source falls back to a time-seeded generator.
func NewPaymentSimulator(approveBelow, pendBelow float64, src RandSource) *PaymentSimulator {
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &PaymentSimulator{
		approveBelow: approveBelow,
		pendBelow:    pendBelow,
		rand:         src,
	}
}

// Charge resolves a payment attempt for the given amount in cents
func (s *PaymentSimulator) Charge(amount int) PaymentResult {
	if amount == 0 {
		return PaymentResult{
			Status: models.PaymentRejected,
			Detail: "No items found in the cart to process.",
		}
	}

	r := s.rand.Float64()
	switch {
	case r < s.approveBelow:
		return PaymentResult{
			Status: models.PaymentApproved,
			Detail: "Payment approved.",
		}
	case r < s.pendBelow:
		return PaymentResult{
			Status: models.PaymentPending,
			Detail: "Payment pending confirmation.",
		}
	default:
		return PaymentResult{
			Status: models.PaymentRejected,
			Detail: "Payment rejected by the gateway.",
		}
	}
}
