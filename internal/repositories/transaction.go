package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"event-checkout-backend/internal/models"
)

// TransactionRepository handles checkout transaction records
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create persists one checkout attempt. Rows are immutable after creation.
func (r *TransactionRepository) Create(q Querier, txn *models.Transaction) (*models.Transaction, error) {
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO transactions (user_id, payment_id, total_amount, status_payment, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, payment_id, total_amount, status_payment, created_at`

	created := &models.Transaction{}
	err := q.QueryRow(
		query,
		txn.UserID,
		txn.PaymentID,
		txn.TotalAmount,
		txn.StatusPayment,
		time.Now(),
	).Scan(
		&created.ID,
		&created.UserID,
		&created.PaymentID,
		&created.TotalAmount,
		&created.StatusPayment,
		&created.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return created, nil
}

// GetByID retrieves a transaction by ID
func (r *TransactionRepository) GetByID(id int) (*models.Transaction, error) {
	query := `
		SELECT id, user_id, payment_id, total_amount, status_payment, created_at
		FROM transactions
		WHERE id = $1`

	txn := &models.Transaction{}
	err := r.db.QueryRow(query, id).Scan(
		&txn.ID,
		&txn.UserID,
		&txn.PaymentID,
		&txn.TotalAmount,
		&txn.StatusPayment,
		&txn.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("transaction with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return txn, nil
}

// GetByUser retrieves all transactions for a user, newest first
func (r *TransactionRepository) GetByUser(userID int) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, payment_id, total_amount, status_payment, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn := &models.Transaction{}
		err := rows.Scan(
			&txn.ID,
			&txn.UserID,
			&txn.PaymentID,
			&txn.TotalAmount,
			&txn.StatusPayment,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}
