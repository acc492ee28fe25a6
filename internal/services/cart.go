package services

import (
	"fmt"

	"event-checkout-backend/internal/models"
	"event-checkout-backend/internal/repositories"
)

// CartRepository interface for cart data operations
type CartRepository interface {
	GetOrCreateByUser(userID int) (*models.Cart, error)
	GetByID(id int) (*models.Cart, error)
	AddItem(cartID, eventID int, formula models.PriceFormula, unitPrice, quantity int) (*models.CartItem, error)
	GetItemByID(id int) (*models.CartItem, error)
	GetItems(q repositories.Querier, cartID int) ([]*models.CartItem, error)
	UpdateItemQuantity(id, quantity int) (*models.CartItem, error)
	DeleteItem(id int) error
	Reset(q repositories.Querier, userID, cartID int) error
}

// CartService handles the cart surface used before checkout: line item
// CRUD plus the post-checkout reset. The checkout pipeline only reads the
// final snapshot.
type CartService struct {
	cartRepo  CartRepository
	eventRepo EventRepository
	db        repositories.Querier
}

// NewCartService creates a new cart service. db is used for reads that do
// not need to join a checkout transaction.
func NewCartService(cartRepo CartRepository, eventRepo EventRepository, db repositories.Querier) *CartService {
	return &CartService{
		cartRepo:  cartRepo,
		eventRepo: eventRepo,
		db:        db,
	}
}

// CartView is a cart with its lines and running total
type CartView struct {
	Cart        *models.Cart       `json:"cart"`
	Items       []*models.CartItem `json:"items"`
	TotalAmount int                `json:"total_amount"`
}

// GetCart returns the user's live cart, creating it if missing
func (s *CartService) GetCart(userID int) (*CartView, error) {
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	items, err := s.cartRepo.GetItems(s.db, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	return &CartView{
		Cart:        cart,
		Items:       items,
		TotalAmount: models.CartTotal(items),
	}, nil
}

// AddItem adds a line to the user's cart. The unit price is resolved from
// the event's base price and the formula factor at add time and stays
// fixed on the line afterwards.
func (s *CartService) AddItem(userID int, req *models.CartItemCreateRequest) (*models.CartItem, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	event, err := s.eventRepo.GetByID(req.EventID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	unitPrice := event.BasePrice * models.DeductionFactor(req.PriceFormula)

	return s.cartRepo.AddItem(cart.ID, event.ID, req.PriceFormula, unitPrice, req.Quantity)
}

// UpdateItemQuantity changes the quantity of one of the user's cart lines
func (s *CartService) UpdateItemQuantity(userID, itemID int, req *models.CartItemUpdateRequest) (*models.CartItem, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.checkItemOwnership(userID, itemID); err != nil {
		return nil, err
	}

	return s.cartRepo.UpdateItemQuantity(itemID, req.Quantity)
}

// RemoveItem removes one of the user's cart lines
func (s *CartService) RemoveItem(userID, itemID int) error {
	if err := s.checkItemOwnership(userID, itemID); err != nil {
		return err
	}

	return s.cartRepo.DeleteItem(itemID)
}

func (s *CartService) checkItemOwnership(userID, itemID int) error {
	item, err := s.cartRepo.GetItemByID(itemID)
	if err != nil {
		return err
	}

	cart, err := s.cartRepo.GetByID(item.CartID)
	if err != nil {
		return err
	}

	if cart.UserID != userID {
		return models.ErrCartItemNotFound
	}

	return nil
}
