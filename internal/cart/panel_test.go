package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/kubukshop/storefront/internal/api"
	"github.com/kubukshop/storefront/internal/cart"
	apperrors "github.com/kubukshop/storefront/internal/errors"
	"github.com/kubukshop/storefront/internal/models"
	"github.com/kubukshop/storefront/internal/notify"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCartAPI struct {
	mock.Mock
}

func (m *mockCartAPI) Cart(ctx context.Context) (*models.Cart, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *mockCartAPI) UpdateCartItem(ctx context.Context, req *models.UpdateCartItemRequest) (*models.Cart, error) {
	args := m.Called(ctx, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *mockCartAPI) RemoveCartItem(ctx context.Context, req *models.RemoveCartItemRequest) (*models.Cart, error) {
	args := m.Called(ctx, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *mockCartAPI) ClearCart(ctx context.Context) (*models.Cart, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func newNotifier() *notify.Notifier {
	return notify.New(time.Minute, time.Minute)
}

func cartFixture(quantity, stock int) *models.Cart {
	price := decimal.NewFromInt(500)

	return &models.Cart{
		ID: 1,
		Items: []models.CartItem{
			{
				ID:         10,
				Product:    models.Product{ID: 5, Name: "Конструктор", Price: price, Stock: stock},
				Quantity:   quantity,
				TotalPrice: price.Mul(decimal.NewFromInt(int64(quantity))),
			},
		},
		TotalItems: quantity,
		TotalPrice: price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

func loadedPanel(t *testing.T, mockAPI *mockCartAPI, fixture *models.Cart) *cart.Panel {
	t.Helper()

	panel := cart.NewPanel(mockAPI, api.StaticToken("secret"), newNotifier(), nil)
	mockAPI.On("Cart", mock.Anything).Return(fixture, nil).Once()
	require.NoError(t, panel.Refresh(context.Background()))

	return panel
}

func TestQuantityClamp(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		stock    int
		canInc   bool
		canDec   bool
	}{
		{"Below stock and above one", 2, 5, true, true},
		{"At stock ceiling", 5, 5, false, true},
		{"At the floor of one", 1, 5, true, false},
		{"Single unit in stock", 1, 1, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.canInc, cart.CanIncrement(tc.quantity, tc.stock))
			assert.Equal(t, tc.canDec, cart.CanDecrement(tc.quantity))
		})
	}
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Failure - Logged Out Never Dispatches", func(t *testing.T) {
		mockAPI := new(mockCartAPI)
		panel := cart.NewPanel(mockAPI, api.StaticToken(""), newNotifier(), nil)

		err := panel.Refresh(ctx)

		require.Error(t, err)
		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeUnauthorized, appErr.Code)
		mockAPI.AssertNotCalled(t, "Cart", mock.Anything)
	})

	t.Run("Success - Replaces The Local Aggregate", func(t *testing.T) {
		mockAPI := new(mockCartAPI)
		panel := loadedPanel(t, mockAPI, cartFixture(2, 5))

		current := panel.Cart()
		require.NotNil(t, current)
		assert.NoError(t, current.CheckTotals())
		assert.Equal(t, 2, current.TotalItems)
		mockAPI.AssertExpectations(t)
	})
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Increment Sends The Next Quantity", func(t *testing.T) {
		mockAPI := new(mockCartAPI)
		panel := loadedPanel(t, mockAPI, cartFixture(2, 5))
		updated := cartFixture(3, 5)
		mockAPI.On("UpdateCartItem", ctx, &models.UpdateCartItemRequest{ItemID: 10, Quantity: 3}).
			Return(updated, nil).Once()

		require.NoError(t, panel.Increment(ctx, 10))

		assert.Equal(t, 3, panel.Cart().Items[0].Quantity)
		assert.NoError(t, panel.Cart().CheckTotals())
		mockAPI.AssertExpectations(t)
	})

	t.Run("Success - Increment At Stock Ceiling Is A No-op", func(t *testing.T) {
		mockAPI := new(mockCartAPI)
		panel := loadedPanel(t, mockAPI, cartFixture(5, 5))

		require.NoError(t, panel.Increment(ctx, 10))

		assert.Equal(t, 5, panel.Cart().Items[0].Quantity)
		mockAPI.AssertNotCalled(t, "UpdateCartItem", mock.Anything, mock.Anything)
	})

	t.Run("Success - Decrement At One Is A No-op", func(t *testing.T) {
		mockAPI := new(mockCartAPI)
		panel := loadedPanel(t, mockAPI, cartFixture(1, 5))

		require.NoError(t, panel.Decrement(ctx, 10))

		assert.Equal(t, 1, panel.Cart().Items[0].Quantity)
		mockAPI.AssertNotCalled(t, "UpdateCartItem", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Unknown Item", func(t *testing.T) {
		mockAPI := new(mockCartAPI)
		panel := loadedPanel(t, mockAPI, cartFixture(2, 5))

		err := panel.Increment(ctx, 999)

		require.Error(t, err)
		appErr, ok := apperrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
	})

	t.Run("Failure - Server Error Keeps The Old Aggregate", func(t *testing.T) {
		mockAPI := new(mockCartAPI)
		panel := loadedPanel(t, mockAPI, cartFixture(2, 5))
		mockAPI.On("UpdateCartItem", ctx, mock.Anything).Return(nil, assert.AnError).Once()

		err := panel.Increment(ctx, 10)

		require.Error(t, err)
		assert.Equal(t, 2, panel.Cart().Items[0].Quantity)
		assert.False(t, panel.Updating())
		mockAPI.AssertExpectations(t)
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Replaces With The Emptier Aggregate", func(t *testing.T) {
		mockAPI := new(mockCartAPI)
		panel := loadedPanel(t, mockAPI, cartFixture(2, 5))
		empty := &models.Cart{ID: 1}
		mockAPI.On("RemoveCartItem", ctx, &models.RemoveCartItemRequest{ItemID: 10}).
			Return(empty, nil).Once()

		require.NoError(t, panel.Remove(ctx, 10))

		assert.True(t, panel.Cart().IsEmpty())
		mockAPI.AssertExpectations(t)
	})
}

func TestClear(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Confirmed", func(t *testing.T) {
		mockAPI := new(mockCartAPI)
		panel := cart.NewPanel(mockAPI, api.StaticToken("secret"), newNotifier(), func(string) bool { return true })
		mockAPI.On("ClearCart", ctx).Return(&models.Cart{ID: 1}, nil).Once()

		require.NoError(t, panel.Clear(ctx))

		assert.True(t, panel.Cart().IsEmpty())
		mockAPI.AssertExpectations(t)
	})

	t.Run("Success - Declined Confirmation Never Dispatches", func(t *testing.T) {
		mockAPI := new(mockCartAPI)
		prompted := ""
		panel := cart.NewPanel(mockAPI, api.StaticToken("secret"), newNotifier(), func(prompt string) bool {
			prompted = prompt

			return false
		})

		require.NoError(t, panel.Clear(ctx))

		assert.Equal(t, "Вы уверены, что хотите очистить корзину?", prompted)
		mockAPI.AssertNotCalled(t, "ClearCart", mock.Anything)
	})
}

func TestCheckout(t *testing.T) {
	mockAPI := new(mockCartAPI)
	notifier := newNotifier()
	panel := cart.NewPanel(mockAPI, api.StaticToken("secret"), notifier, nil)

	panel.Checkout()

	active := notifier.Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.KindWarning, active[0].Kind)
	assert.Equal(t, "Функция оформления заказа будет добавлена позже", active[0].Message)
}
