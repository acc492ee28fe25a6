package models

import (
	"errors"
	"strings"
	"time"
)

// Ticket is the verifiable proof of purchase issued for an approved
// reservation. PurchaseKey is globally unique; SecureKey is derived from
// the owner's account key; QRPayload is an opaque encoding of SecureKey.
type Ticket struct {
	ID            int       `json:"id" db:"id"`
	ReservationID int       `json:"reservation_id" db:"reservation_id"`
	PurchaseKey   string    `json:"purchase_key" db:"purchase_key"`
	SecureKey     string    `json:"secure_key" db:"secure_key"`
	QRPayload     string    `json:"qr_payload" db:"qr_payload"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Validate validates the ticket data
func (t *Ticket) Validate() error {
	if t.ReservationID <= 0 {
		return errors.New("ticket reservation is required")
	}

	if strings.TrimSpace(t.PurchaseKey) == "" {
		return errors.New("purchase key is required")
	}

	if strings.TrimSpace(t.SecureKey) == "" {
		return errors.New("secure key is required")
	}

	if t.QRPayload == "" {
		return errors.New("QR payload is required")
	}

	return nil
}
