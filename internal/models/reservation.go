package models

import (
	"database/sql"
	"time"
)

// ReservationStatus represents the status of a reservation.
// It is set at creation from the owning transaction's payment outcome;
// approved reservations transition to "ticketed" once a ticket is issued.
// No other transitions exist.
type ReservationStatus string

const (
	ReservationApproved ReservationStatus = "approved"
	ReservationPending  ReservationStatus = "pending"
	ReservationRejected ReservationStatus = "rejected"
	ReservationTicketed ReservationStatus = "ticketed"
)

// StatusForPayment maps a payment outcome onto the reservation status
// stamped at creation time.
func StatusForPayment(status PaymentStatus) ReservationStatus {
	switch status {
	case PaymentApproved:
		return ReservationApproved
	case PaymentPending:
		return ReservationPending
	default:
		return ReservationRejected
	}
}

// Reservation represents one formula-unit purchase: a DUO line with
// quantity 2 yields two reservations, each standing for one DUO bundle
// and numbered by UnitIndex within its cart line. A cart line may only
// ever be converted once: a second checkout attempt touching the same
// (cart item, user) pair fails loudly on the repeated unit indexes.
type Reservation struct {
	ID            int               `json:"id" db:"id"`
	UserID        int               `json:"user_id" db:"user_id"`
	CartItemID    int               `json:"cart_item_id" db:"cart_item_id"`
	TransactionID int               `json:"transaction_id" db:"transaction_id"`
	Status        ReservationStatus `json:"status" db:"status"`
	TicketID      sql.NullInt64     `json:"ticket_id,omitempty" db:"ticket_id"`
	UnitIndex     int               `json:"unit_index" db:"unit_index"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
}

// CanBeTicketed returns true if a ticket may be issued for the reservation
func (r *Reservation) CanBeTicketed() bool {
	return r.Status == ReservationApproved
}

// IsTicketed returns true once a ticket has been issued
func (r *Reservation) IsTicketed() bool {
	return r.Status == ReservationTicketed
}

// ReservationDetails is the booking-time snapshot of the event a
// reservation was made against. Later event edits never change it.
type ReservationDetails struct {
	ID            int          `json:"id" db:"id"`
	ReservationID int          `json:"reservation_id" db:"reservation_id"`
	EventID       int          `json:"event_id" db:"event_id"`
	Title         string       `json:"title" db:"title"`
	Description   string       `json:"description" db:"description"`
	UnitPrice     int          `json:"unit_price" db:"unit_price"` // in cents
	PriceFormula  PriceFormula `json:"price_formula" db:"price_formula"`
}
