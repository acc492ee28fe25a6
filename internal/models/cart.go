package models

import (
	"errors"
	"time"
)

// PriceFormula is the bundle a cart line purchases. One formula-unit
// consumes a fixed number of raw inventory units when the checkout is
// approved.
type PriceFormula string

const (
	FormulaSolo   PriceFormula = "SOLO"
	FormulaDuo    PriceFormula = "DUO"
	FormulaFamily PriceFormula = "FAMILY"
)

// deductionFactors maps each price formula to the number of raw inventory
// units one formula-unit consumes. Fixed domain data, not configuration.
var deductionFactors = map[PriceFormula]int{
	FormulaSolo:   1,
	FormulaDuo:    2,
	FormulaFamily: 4,
}

// DeductionFactor returns the inventory units consumed by one unit of the
// given formula, or 0 for an unknown formula.
func DeductionFactor(formula PriceFormula) int {
	return deductionFactors[formula]
}

// IsValid reports whether the formula is one of the known bundles
func (f PriceFormula) IsValid() bool {
	_, ok := deductionFactors[f]
	return ok
}

// Cart is the ephemeral container for a user's pending line items. Each
// user has exactly one live cart at any time; it is deleted and recreated
// after every checkout.
type Cart struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CartItem represents one line of a cart: an (event, formula, quantity)
// tuple priced at the event's rate when the line was added.
type CartItem struct {
	ID           int          `json:"id" db:"id"`
	CartID       int          `json:"cart_id" db:"cart_id"`
	EventID      int          `json:"event_id" db:"event_id"`
	PriceFormula PriceFormula `json:"price_formula" db:"price_formula"`
	UnitPrice    int          `json:"unit_price" db:"unit_price"` // in cents
	Quantity     int          `json:"quantity" db:"quantity"`
}

// Subtotal returns the line total in cents
func (ci *CartItem) Subtotal() int {
	return ci.UnitPrice * ci.Quantity
}

// InventoryUnits returns the raw inventory units this line consumes
func (ci *CartItem) InventoryUnits() int {
	return ci.Quantity * DeductionFactor(ci.PriceFormula)
}

// CartItemCreateRequest represents the data needed to add a cart line
type CartItemCreateRequest struct {
	EventID      int          `json:"event_id"`
	PriceFormula PriceFormula `json:"price_formula"`
	Quantity     int          `json:"quantity"`
}

// Validate validates cart line creation data
func (req *CartItemCreateRequest) Validate() error {
	if req.EventID <= 0 {
		return errors.New("event id is required")
	}

	if !req.PriceFormula.IsValid() {
		return errors.New("price formula must be one of SOLO, DUO, FAMILY")
	}

	return validateCartQuantity(req.Quantity)
}

// CartItemUpdateRequest represents a quantity update on an existing line
type CartItemUpdateRequest struct {
	Quantity int `json:"quantity"`
}

// Validate validates cart line update data
func (req *CartItemUpdateRequest) Validate() error {
	return validateCartQuantity(req.Quantity)
}

func validateCartQuantity(quantity int) error {
	if quantity < 1 {
		return errors.New("quantity must be at least 1")
	}

	// Maximum of 50 formula-units per line
	if quantity > 50 {
		return errors.New("quantity cannot exceed 50")
	}

	return nil
}

// CartTotal returns the sum of all line subtotals in cents
func CartTotal(items []*CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}
