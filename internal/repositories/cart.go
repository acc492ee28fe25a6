package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"event-checkout-backend/internal/models"
)

// CartRepository handles cart and cart line data operations
type CartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// GetOrCreateByUser returns the user's live cart, creating it if missing.
// The UNIQUE(user_id) constraint makes this safe under concurrent calls.
func (r *CartRepository) GetOrCreateByUser(userID int) (*models.Cart, error) {
	return getOrCreateCart(r.db, userID)
}

func getOrCreateCart(q Querier, userID int) (*models.Cart, error) {
	_, err := q.Exec(`
		INSERT INTO carts (user_id, created_at)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`, userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	cart := &models.Cart{}
	err = q.QueryRow(`
		SELECT id, user_id, created_at
		FROM carts
		WHERE user_id = $1`, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return cart, nil
}

// GetByID retrieves a cart by ID
func (r *CartRepository) GetByID(id int) (*models.Cart, error) {
	cart := &models.Cart{}
	err := r.db.QueryRow(`
		SELECT id, user_id, created_at
		FROM carts
		WHERE id = $1`, id).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return cart, nil
}

// AddItem adds a line to a cart
func (r *CartRepository) AddItem(cartID, eventID int, formula models.PriceFormula, unitPrice, quantity int) (*models.CartItem, error) {
	query := `
		INSERT INTO cart_items (cart_id, event_id, price_formula, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, cart_id, event_id, price_formula, unit_price, quantity`

	item := &models.CartItem{}
	err := r.db.QueryRow(query, cartID, eventID, formula, unitPrice, quantity).Scan(
		&item.ID,
		&item.CartID,
		&item.EventID,
		&item.PriceFormula,
		&item.UnitPrice,
		&item.Quantity,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return item, nil
}

// GetItemByID retrieves a cart line by ID
func (r *CartRepository) GetItemByID(id int) (*models.CartItem, error) {
	query := `
		SELECT id, cart_id, event_id, price_formula, unit_price, quantity
		FROM cart_items
		WHERE id = $1`

	item := &models.CartItem{}
	err := r.db.QueryRow(query, id).Scan(
		&item.ID,
		&item.CartID,
		&item.EventID,
		&item.PriceFormula,
		&item.UnitPrice,
		&item.Quantity,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}

	return item, nil
}

// GetItems retrieves all lines of a cart
func (r *CartRepository) GetItems(q Querier, cartID int) ([]*models.CartItem, error) {
	query := `
		SELECT id, cart_id, event_id, price_formula, unit_price, quantity
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY id`

	rows, err := q.Query(query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	var items []*models.CartItem
	for rows.Next() {
		item := &models.CartItem{}
		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.EventID,
			&item.PriceFormula,
			&item.UnitPrice,
			&item.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// UpdateItemQuantity updates the quantity of a cart line
func (r *CartRepository) UpdateItemQuantity(id, quantity int) (*models.CartItem, error) {
	query := `
		UPDATE cart_items
		SET quantity = $2
		WHERE id = $1
		RETURNING id, cart_id, event_id, price_formula, unit_price, quantity`

	item := &models.CartItem{}
	err := r.db.QueryRow(query, id, quantity).Scan(
		&item.ID,
		&item.CartID,
		&item.EventID,
		&item.PriceFormula,
		&item.UnitPrice,
		&item.Quantity,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return item, nil
}

// DeleteItem removes a cart line
func (r *CartRepository) DeleteItem(id int) error {
	result, err := r.db.Exec("DELETE FROM cart_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrCartItemNotFound
	}

	return nil
}

// Reset deletes all lines of the cart, drops the cart row and creates a
// fresh empty cart for the user. Idempotent: a second call finds nothing to
// delete and leaves the fresh cart in place.
func (r *CartRepository) Reset(q Querier, userID, cartID int) error {
	if _, err := q.Exec("DELETE FROM cart_items WHERE cart_id = $1", cartID); err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	if _, err := q.Exec("DELETE FROM carts WHERE id = $1 AND user_id = $2", cartID, userID); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	if _, err := getOrCreateCart(q, userID); err != nil {
		return fmt.Errorf("failed to recreate cart: %w", err)
	}

	return nil
}
