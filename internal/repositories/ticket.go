package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"event-checkout-backend/internal/models"

	"github.com/lib/pq"
)

// TicketRepository handles ticket data operations
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create persists a ticket. A purchase-key collision violates the global
// uniqueness invariant and is surfaced as a hard error, never retried.
func (r *TicketRepository) Create(q Querier, ticket *models.Ticket) (*models.Ticket, error) {
	if err := ticket.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tickets (reservation_id, purchase_key, secure_key, qr_payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, reservation_id, purchase_key, secure_key, qr_payload, created_at`

	created := &models.Ticket{}
	err := q.QueryRow(
		query,
		ticket.ReservationID,
		ticket.PurchaseKey,
		ticket.SecureKey,
		ticket.QRPayload,
		time.Now(),
	).Scan(
		&created.ID,
		&created.ReservationID,
		&created.PurchaseKey,
		&created.SecureKey,
		&created.QRPayload,
		&created.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, fmt.Errorf("ticket integrity violation (%s): %w", pqErr.Constraint, err)
		}
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	return created, nil
}

// GetByPurchaseKey retrieves a ticket by its purchase key
func (r *TicketRepository) GetByPurchaseKey(purchaseKey string) (*models.Ticket, error) {
	query := `
		SELECT id, reservation_id, purchase_key, secure_key, qr_payload, created_at
		FROM tickets
		WHERE purchase_key = $1`

	ticket := &models.Ticket{}
	err := r.db.QueryRow(query, purchaseKey).Scan(
		&ticket.ID,
		&ticket.ReservationID,
		&ticket.PurchaseKey,
		&ticket.SecureKey,
		&ticket.QRPayload,
		&ticket.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return ticket, nil
}

// GetByReservation retrieves the ticket issued for a reservation
func (r *TicketRepository) GetByReservation(reservationID int) (*models.Ticket, error) {
	query := `
		SELECT id, reservation_id, purchase_key, secure_key, qr_payload, created_at
		FROM tickets
		WHERE reservation_id = $1`

	ticket := &models.Ticket{}
	err := r.db.QueryRow(query, reservationID).Scan(
		&ticket.ID,
		&ticket.ReservationID,
		&ticket.PurchaseKey,
		&ticket.SecureKey,
		&ticket.QRPayload,
		&ticket.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket for reservation: %w", err)
	}

	return ticket, nil
}
