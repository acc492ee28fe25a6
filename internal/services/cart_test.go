package services

import (
	"testing"

	"event-checkout-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartServiceFixture() (*CartService, *mockCartRepository, *mockEventRepository) {
	carts := newMockCartRepository()
	events := newMockEventRepository()
	return NewCartService(carts, events, nil), carts, events
}

func TestCartService_GetCartCreatesOnFirstAccess(t *testing.T) {
	service, _, _ := newCartServiceFixture()

	view, err := service.GetCart(1)
	require.NoError(t, err)

	assert.Equal(t, 1, view.Cart.UserID)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.TotalAmount)

	// A second call returns the same cart, not a new one.
	again, err := service.GetCart(1)
	require.NoError(t, err)
	assert.Equal(t, view.Cart.ID, again.Cart.ID)
}

func TestCartService_AddItemPricesByFormula(t *testing.T) {
	tests := []struct {
		name          string
		formula       models.PriceFormula
		wantUnitPrice int
	}{
		{name: "solo at base price", formula: models.FormulaSolo, wantUnitPrice: 1000},
		{name: "duo at twice base", formula: models.FormulaDuo, wantUnitPrice: 2000},
		{name: "family at four times base", formula: models.FormulaFamily, wantUnitPrice: 4000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, events := newCartServiceFixture()
			events.add(&models.Event{ID: 5, Title: "Summer Fest", BasePrice: 1000, QuantityAvailable: 100})

			item, err := service.AddItem(1, &models.CartItemCreateRequest{
				EventID:      5,
				PriceFormula: tt.formula,
				Quantity:     2,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantUnitPrice, item.UnitPrice)
			assert.Equal(t, tt.wantUnitPrice*2, item.Subtotal())
		})
	}
}

func TestCartService_AddItemValidation(t *testing.T) {
	service, _, events := newCartServiceFixture()
	events.add(&models.Event{ID: 5, BasePrice: 1000})

	_, err := service.AddItem(1, &models.CartItemCreateRequest{EventID: 5, PriceFormula: "TRIO", Quantity: 1})
	assert.Error(t, err)

	_, err = service.AddItem(1, &models.CartItemCreateRequest{EventID: 5, PriceFormula: models.FormulaSolo, Quantity: 0})
	assert.Error(t, err)

	_, err = service.AddItem(1, &models.CartItemCreateRequest{EventID: 5, PriceFormula: models.FormulaSolo, Quantity: 51})
	assert.Error(t, err)

	_, err = service.AddItem(1, &models.CartItemCreateRequest{EventID: 404, PriceFormula: models.FormulaSolo, Quantity: 1})
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestCartService_UpdateItemQuantity(t *testing.T) {
	service, _, events := newCartServiceFixture()
	events.add(&models.Event{ID: 5, BasePrice: 1000})

	item, err := service.AddItem(1, &models.CartItemCreateRequest{EventID: 5, PriceFormula: models.FormulaSolo, Quantity: 1})
	require.NoError(t, err)

	updated, err := service.UpdateItemQuantity(1, item.ID, &models.CartItemUpdateRequest{Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)
}

func TestCartService_OwnershipGuard(t *testing.T) {
	service, _, events := newCartServiceFixture()
	events.add(&models.Event{ID: 5, BasePrice: 1000})

	item, err := service.AddItem(1, &models.CartItemCreateRequest{EventID: 5, PriceFormula: models.FormulaSolo, Quantity: 1})
	require.NoError(t, err)

	// Another user probing the line gets not-found, never a hint it exists.
	_, err = service.UpdateItemQuantity(2, item.ID, &models.CartItemUpdateRequest{Quantity: 5})
	assert.ErrorIs(t, err, models.ErrCartItemNotFound)

	err = service.RemoveItem(2, item.ID)
	assert.ErrorIs(t, err, models.ErrCartItemNotFound)

	// The owner can still remove it.
	require.NoError(t, service.RemoveItem(1, item.ID))

	err = service.RemoveItem(1, item.ID)
	assert.ErrorIs(t, err, models.ErrCartItemNotFound)
}
