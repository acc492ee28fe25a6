package services

import (
	"fmt"
	"math/rand"

	"event-checkout-backend/internal/models"
	"event-checkout-backend/internal/repositories"
)

// TransactionRepository interface for transaction data operations
type TransactionRepository interface {
	Create(q repositories.Querier, txn *models.Transaction) (*models.Transaction, error)
	GetByID(id int) (*models.Transaction, error)
	GetByUser(userID int) ([]*models.Transaction, error)
}

// TransactionRecorder persists one transaction per checkout attempt,
// stamped with the payment outcome and a synthetic gateway reference.
type TransactionRecorder struct {
	txnRepo TransactionRepository
}

// NewTransactionRecorder creates a new transaction recorder
func NewTransactionRecorder(txnRepo TransactionRepository) *TransactionRecorder {
	return &TransactionRecorder{txnRepo: txnRepo}
}

// Record creates the transaction row for a checkout attempt. A zero total
// is allowed through; the simulator has already rejected it upstream.
func (r *TransactionRecorder) Record(q repositories.Querier, user *models.User, total int, result PaymentResult) (*models.Transaction, error) {
	if total < 0 {
		return nil, fmt.Errorf("transaction total cannot be negative")
	}

	txn := &models.Transaction{
		UserID: user.ID,
		// Placeholder for a real gateway reference
		PaymentID:     rand.Int63(),
		TotalAmount:   total,
		StatusPayment: result.Status,
	}

	created, err := r.txnRepo.Create(q, txn)
	if err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	return created, nil
}
