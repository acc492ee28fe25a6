package services

import (
	"encoding/base64"
	"fmt"

	"event-checkout-backend/internal/models"
	"event-checkout-backend/internal/repositories"

	"github.com/google/uuid"
)

// TicketRepository interface for ticket data operations
type TicketRepository interface {
	Create(q repositories.Querier, ticket *models.Ticket) (*models.Ticket, error)
	GetByPurchaseKey(purchaseKey string) (*models.Ticket, error)
	GetByReservation(reservationID int) (*models.Ticket, error)
}

// ReservationRepository interface for reservation data operations
type ReservationRepository interface {
	ExistsForCartItem(q repositories.Querier, cartItemID, userID int) (bool, error)
	Create(q repositories.Querier, res *models.Reservation) (*models.Reservation, error)
	CreateDetails(q repositories.Querier, details *models.ReservationDetails) (*models.ReservationDetails, error)
	MarkTicketed(q repositories.Querier, reservationID, ticketID int) error
	GetByID(id int) (*models.Reservation, error)
	GetByUser(userID int) ([]*models.Reservation, error)
}

// TicketIssuer generates and persists the verifiable proof of purchase for
// approved reservations: a globally unique purchase key, a secure key
// derived from the owner's account key, and a QR payload encoding it.
type TicketIssuer struct {
	ticketRepo      TicketRepository
	reservationRepo ReservationRepository
}

// NewTicketIssuer creates a new ticket issuer
func NewTicketIssuer(ticketRepo TicketRepository, reservationRepo ReservationRepository) *TicketIssuer {
	return &TicketIssuer{
		ticketRepo:      ticketRepo,
		reservationRepo: reservationRepo,
	}
}

// Issue creates the ticket for an approved reservation and moves the
// reservation to ticketed. Calling it for a non-approved reservation is a
// programmer error, not a recoverable path.
func (s *TicketIssuer) Issue(q repositories.Querier, user *models.User, reservation *models.Reservation) (*models.Ticket, error) {
	if !reservation.CanBeTicketed() {
		return nil, fmt.Errorf("reservation %d cannot be ticketed in status %s", reservation.ID, reservation.Status)
	}

	secureKey := fmt.Sprintf("%s-%s", user.AccountKey, uuid.NewString())

	ticket := &models.Ticket{
		ReservationID: reservation.ID,
		PurchaseKey:   uuid.NewString(),
		SecureKey:     secureKey,
		QRPayload:     EncodeQRPayload(secureKey),
	}

	created, err := s.ticketRepo.Create(q, ticket)
	if err != nil {
		return nil, fmt.Errorf("failed to issue ticket for reservation %d: %w", reservation.ID, err)
	}

	if err := s.reservationRepo.MarkTicketed(q, reservation.ID, created.ID); err != nil {
		return nil, err
	}

	return created, nil
}

// Verify resolves a ticket by purchase key and checks that its QR payload
// still decodes to the stored secure key.
func (s *TicketIssuer) Verify(purchaseKey string) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.GetByPurchaseKey(purchaseKey)
	if err != nil {
		return nil, err
	}

	decoded, err := DecodeQRPayload(ticket.QRPayload)
	if err != nil {
		return nil, fmt.Errorf("ticket %s has a corrupt QR payload: %w", purchaseKey, err)
	}

	if decoded != ticket.SecureKey {
		return nil, fmt.Errorf("ticket %s failed QR verification", purchaseKey)
	}

	return ticket, nil
}

// EncodeQRPayload encodes a secure key into the opaque payload embedded in
// the ticket's QR code
func EncodeQRPayload(secureKey string) string {
	return base64.StdEncoding.EncodeToString([]byte(secureKey))
}

// DecodeQRPayload decodes a QR payload back to the secure key
func DecodeQRPayload(payload string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode QR payload: %w", err)
	}
	return string(decoded), nil
}
