package handlers

import (
	"errors"
	"net/http"

	"event-checkout-backend/internal/middleware"
	"event-checkout-backend/internal/models"
	"event-checkout-backend/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckoutHandler exposes the checkout pipeline over HTTP
type CheckoutHandler struct {
	checkoutService *services.CheckoutService
	cartService     *services.CartService
	logger          *zap.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *services.CheckoutService, cartService *services.CartService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		cartService:     cartService,
		logger:          logger,
	}
}

// Checkout runs the reservation pipeline on the authenticated user's cart
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	view, err := h.cartService.GetCart(userID)
	if err != nil {
		h.logger.Error("failed to resolve cart for checkout", zap.Int("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve cart"})
		return
	}

	result, err := h.checkoutService.ProcessUserReservation(c.Request.Context(), userID, view.Cart.ID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUserNotFound), errors.Is(err, models.ErrCartNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case models.IsDuplicateReservation(err):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case models.IsInsufficientInventory(err):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.Error("checkout failed", zap.Int("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		}
		return
	}

	middleware.RecordCheckout(string(result.Transaction.StatusPayment))

	c.JSON(http.StatusOK, result)
}
