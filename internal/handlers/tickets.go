package handlers

import (
	"errors"
	"net/http"

	"event-checkout-backend/internal/models"
	"event-checkout-backend/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TicketHandler handles ticket verification
type TicketHandler struct {
	issuer *services.TicketIssuer
	logger *zap.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(issuer *services.TicketIssuer, logger *zap.Logger) *TicketHandler {
	return &TicketHandler{
		issuer: issuer,
		logger: logger,
	}
}

// Verify checks a ticket by purchase key, confirming its QR payload still
// decodes to the stored secure key
func (h *TicketHandler) Verify(c *gin.Context) {
	purchaseKey := c.Param("purchaseKey")

	ticket, err := h.issuer.Verify(purchaseKey)
	if err != nil {
		if errors.Is(err, models.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		h.logger.Warn("ticket verification failed", zap.String("purchase_key", purchaseKey), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "ticket failed verification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":          true,
		"ticket_id":      ticket.ID,
		"reservation_id": ticket.ReservationID,
		"purchase_key":   ticket.PurchaseKey,
	})
}
