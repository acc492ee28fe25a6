package models

import (
	"errors"
	"strings"
	"time"
)

// Event represents a ticketed event with its inventory counters.
// QuantityAvailable and QuantitySold are conserved across a deduction:
// one goes down by exactly as much as the other goes up.
type Event struct {
	ID                int       `json:"id" db:"id"`
	Title             string    `json:"title" db:"title"`
	Description       string    `json:"description" db:"description"`
	BasePrice         int       `json:"base_price" db:"base_price"` // in cents
	QuantityAvailable int       `json:"quantity_available" db:"quantity_available"`
	QuantitySold      int       `json:"quantity_sold" db:"quantity_sold"`
	RevenueGenerated  int       `json:"revenue_generated" db:"revenue_generated"` // in cents
	StartsAt          time.Time `json:"starts_at" db:"starts_at"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// EventCreateRequest represents the data needed to create an event
type EventCreateRequest struct {
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	BasePrice         int       `json:"base_price"`
	QuantityAvailable int       `json:"quantity_available"`
	StartsAt          time.Time `json:"starts_at"`
}

// Validate validates event creation data
func (req *EventCreateRequest) Validate() error {
	if strings.TrimSpace(req.Title) == "" {
		return errors.New("event title is required")
	}

	if len(req.Title) > 200 {
		return errors.New("event title must be less than 200 characters")
	}

	if req.BasePrice < 0 {
		return errors.New("base price cannot be negative")
	}

	if req.QuantityAvailable < 0 {
		return errors.New("available quantity cannot be negative")
	}

	if req.StartsAt.IsZero() {
		return errors.New("event start date is required")
	}

	return nil
}

// IsSoldOut returns true if no inventory units remain
func (e *Event) IsSoldOut() bool {
	return e.QuantityAvailable <= 0
}

// CanDeduct returns true if the event has at least units inventory left
func (e *Event) CanDeduct(units int) bool {
	return units <= e.QuantityAvailable
}

// BasePriceInCurrency returns the base price in the main currency as a float
func (e *Event) BasePriceInCurrency() float64 {
	return float64(e.BasePrice) / 100.0
}

// RevenueInCurrency returns the accrued revenue in the main currency as a float
func (e *Event) RevenueInCurrency() float64 {
	return float64(e.RevenueGenerated) / 100.0
}
