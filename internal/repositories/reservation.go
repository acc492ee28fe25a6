package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"event-checkout-backend/internal/models"

	"github.com/lib/pq"
)

// ReservationRepository handles reservation data operations
type ReservationRepository struct {
	db *sql.DB
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// ExistsForCartItem reports whether a reservation already exists for the
// (cart item, user) pair. This is the fail-fast pre-check; the unique
// constraint on the table closes the remaining race window.
func (r *ReservationRepository) ExistsForCartItem(q Querier, cartItemID, userID int) (bool, error) {
	var exists bool
	err := q.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM reservations
			WHERE cart_item_id = $1 AND user_id = $2
		)`, cartItemID, userID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("failed to check for existing reservation: %w", err)
	}

	return exists, nil
}

// Create persists one formula-unit reservation. One checkout inserts a
// row per unit index of a cart line; a unique-constraint violation on
// (cart_item_id, user_id, unit_index) therefore means another checkout
// already converted the line, and is mapped to DuplicateReservationError.
func (r *ReservationRepository) Create(q Querier, res *models.Reservation) (*models.Reservation, error) {
	query := `
		INSERT INTO reservations (user_id, cart_item_id, transaction_id, status, unit_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, cart_item_id, transaction_id, status, ticket_id, unit_index, created_at`

	created := &models.Reservation{}
	err := q.QueryRow(
		query,
		res.UserID,
		res.CartItemID,
		res.TransactionID,
		res.Status,
		res.UnitIndex,
		time.Now(),
	).Scan(
		&created.ID,
		&created.UserID,
		&created.CartItemID,
		&created.TransactionID,
		&created.Status,
		&created.TicketID,
		&created.UnitIndex,
		&created.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" && pqErr.Constraint == "uq_reservations_cart_item_user_unit" {
			return nil, &models.DuplicateReservationError{
				CartItemID: res.CartItemID,
				UserID:     res.UserID,
			}
		}
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	return created, nil
}

// CreateDetails persists the booking-time event snapshot for a reservation
func (r *ReservationRepository) CreateDetails(q Querier, details *models.ReservationDetails) (*models.ReservationDetails, error) {
	query := `
		INSERT INTO reservation_details (reservation_id, event_id, title, description, unit_price, price_formula)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, reservation_id, event_id, title, description, unit_price, price_formula`

	created := &models.ReservationDetails{}
	err := q.QueryRow(
		query,
		details.ReservationID,
		details.EventID,
		details.Title,
		details.Description,
		details.UnitPrice,
		details.PriceFormula,
	).Scan(
		&created.ID,
		&created.ReservationID,
		&created.EventID,
		&created.Title,
		&created.Description,
		&created.UnitPrice,
		&created.PriceFormula,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create reservation details: %w", err)
	}

	return created, nil
}

// MarkTicketed links a reservation to its ticket and moves it to ticketed
func (r *ReservationRepository) MarkTicketed(q Querier, reservationID, ticketID int) error {
	result, err := q.Exec(`
		UPDATE reservations
		SET status = $2, ticket_id = $3
		WHERE id = $1 AND status = $4`,
		reservationID, models.ReservationTicketed, ticketID, models.ReservationApproved)

	if err != nil {
		return fmt.Errorf("failed to mark reservation ticketed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("reservation %d is not in approved status", reservationID)
	}

	return nil
}

// GetByID retrieves a reservation by ID
func (r *ReservationRepository) GetByID(id int) (*models.Reservation, error) {
	query := `
		SELECT id, user_id, cart_item_id, transaction_id, status, ticket_id, unit_index, created_at
		FROM reservations
		WHERE id = $1`

	res := &models.Reservation{}
	err := r.db.QueryRow(query, id).Scan(
		&res.ID,
		&res.UserID,
		&res.CartItemID,
		&res.TransactionID,
		&res.Status,
		&res.TicketID,
		&res.UnitIndex,
		&res.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	return res, nil
}

// GetByUser retrieves all reservations for a user, newest first
func (r *ReservationRepository) GetByUser(userID int) ([]*models.Reservation, error) {
	query := `
		SELECT id, user_id, cart_item_id, transaction_id, status, ticket_id, unit_index, created_at
		FROM reservations
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*models.Reservation
	for rows.Next() {
		res := &models.Reservation{}
		err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.CartItemID,
			&res.TransactionID,
			&res.Status,
			&res.TicketID,
			&res.UnitIndex,
			&res.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}

	return reservations, rows.Err()
}
