package services

import (
	"strings"
	"testing"

	"event-checkout-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketIssuer_IssueApprovedReservation(t *testing.T) {
	tickets := newMockTicketRepository()
	reservations := newMockReservationRepository()
	issuer := NewTicketIssuer(tickets, reservations)

	user := &models.User{ID: 1, AccountKey: "a1b2c3d4"}
	res, err := reservations.Create(nil, &models.Reservation{
		UserID:        user.ID,
		CartItemID:    100,
		TransactionID: 7,
		Status:        models.ReservationApproved,
	})
	require.NoError(t, err)

	ticket, err := issuer.Issue(nil, user, res)
	require.NoError(t, err)

	assert.NotEmpty(t, ticket.PurchaseKey)
	assert.True(t, strings.HasPrefix(ticket.SecureKey, user.AccountKey+"-"))

	decoded, err := DecodeQRPayload(ticket.QRPayload)
	require.NoError(t, err)
	assert.Equal(t, ticket.SecureKey, decoded)

	stored, err := reservations.GetByID(res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationTicketed, stored.Status)
}

func TestTicketIssuer_IssueGeneratesDistinctKeys(t *testing.T) {
	tickets := newMockTicketRepository()
	reservations := newMockReservationRepository()
	issuer := NewTicketIssuer(tickets, reservations)

	user := &models.User{ID: 1, AccountKey: "a1b2c3d4"}

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		res, err := reservations.Create(nil, &models.Reservation{
			UserID:        user.ID,
			CartItemID:    100 + i,
			TransactionID: 7,
			Status:        models.ReservationApproved,
		})
		require.NoError(t, err)

		ticket, err := issuer.Issue(nil, user, res)
		require.NoError(t, err)

		assert.False(t, seen[ticket.PurchaseKey], "purchase key collision")
		seen[ticket.PurchaseKey] = true
	}
}

func TestTicketIssuer_IssueRejectsNonApproved(t *testing.T) {
	issuer := NewTicketIssuer(newMockTicketRepository(), newMockReservationRepository())
	user := &models.User{ID: 1, AccountKey: "a1b2c3d4"}

	for _, status := range []models.ReservationStatus{
		models.ReservationPending,
		models.ReservationRejected,
		models.ReservationTicketed,
	} {
		_, err := issuer.Issue(nil, user, &models.Reservation{ID: 1, Status: status})
		assert.Error(t, err, "status %s must not be ticketable", status)
	}
}

func TestTicketIssuer_Verify(t *testing.T) {
	tickets := newMockTicketRepository()
	reservations := newMockReservationRepository()
	issuer := NewTicketIssuer(tickets, reservations)

	user := &models.User{ID: 1, AccountKey: "a1b2c3d4"}
	res, err := reservations.Create(nil, &models.Reservation{
		UserID:        user.ID,
		CartItemID:    100,
		TransactionID: 7,
		Status:        models.ReservationApproved,
	})
	require.NoError(t, err)

	issued, err := issuer.Issue(nil, user, res)
	require.NoError(t, err)

	verified, err := issuer.Verify(issued.PurchaseKey)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, verified.ID)

	_, err = issuer.Verify("no-such-key")
	assert.ErrorIs(t, err, models.ErrTicketNotFound)
}

func TestTicketIssuer_VerifyDetectsTampering(t *testing.T) {
	tickets := newMockTicketRepository()
	reservations := newMockReservationRepository()
	issuer := NewTicketIssuer(tickets, reservations)

	user := &models.User{ID: 1, AccountKey: "a1b2c3d4"}
	res, err := reservations.Create(nil, &models.Reservation{
		UserID:        user.ID,
		CartItemID:    100,
		TransactionID: 7,
		Status:        models.ReservationApproved,
	})
	require.NoError(t, err)

	issued, err := issuer.Issue(nil, user, res)
	require.NoError(t, err)

	// Swap in a payload that decodes cleanly but names a different key.
	stored, err := tickets.GetByPurchaseKey(issued.PurchaseKey)
	require.NoError(t, err)
	stored.QRPayload = EncodeQRPayload("someone-else-entirely")

	_, err = issuer.Verify(issued.PurchaseKey)
	assert.Error(t, err)
}

func TestQRPayloadRoundTrip(t *testing.T) {
	payload := EncodeQRPayload("a1b2c3d4-550e8400-e29b-41d4-a716-446655440000")

	decoded, err := DecodeQRPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4-550e8400-e29b-41d4-a716-446655440000", decoded)

	_, err = DecodeQRPayload("not*base64*")
	assert.Error(t, err)
}
