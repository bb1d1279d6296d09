package models_test

import (
	"testing"

	"github.com/kubukshop/storefront/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullName(t *testing.T) {
	tests := []struct {
		name string
		user models.User
		want string
	}{
		{"Both names", models.User{Username: "ivan", FirstName: "Иван", LastName: "Петров"}, "Иван Петров"},
		{"First name only", models.User{Username: "ivan", FirstName: "Иван"}, "Иван"},
		{"Falls back to username", models.User{Username: "ivan"}, "ivan"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.user.FullName())
		})
	}
}

func TestOrderStatusIcon(t *testing.T) {
	assert.Equal(t, "📋", models.OrderStatusPlaced.Icon())
	assert.Equal(t, "💰", models.OrderStatusPaid.Icon())
	assert.Equal(t, "🚚", models.OrderStatusShipped.Icon())
	assert.Equal(t, "❓", models.OrderStatus("unknown").Icon())
}

func TestCheckTotals(t *testing.T) {
	price := decimal.NewFromInt(500)
	item := models.CartItem{
		ID:         10,
		Product:    models.Product{ID: 5, Price: price, Stock: 9},
		Quantity:   2,
		TotalPrice: decimal.NewFromInt(1000),
	}

	t.Run("Success - Consistent Aggregate", func(t *testing.T) {
		cart := &models.Cart{Items: []models.CartItem{item}, TotalItems: 2, TotalPrice: decimal.NewFromInt(1000)}

		assert.NoError(t, cart.CheckTotals())
	})

	t.Run("Failure - Price Drift", func(t *testing.T) {
		cart := &models.Cart{Items: []models.CartItem{item}, TotalItems: 2, TotalPrice: decimal.NewFromInt(999)}

		assert.Error(t, cart.CheckTotals())
	})

	t.Run("Failure - Quantity Drift", func(t *testing.T) {
		cart := &models.Cart{Items: []models.CartItem{item}, TotalItems: 3, TotalPrice: decimal.NewFromInt(1000)}

		assert.Error(t, cart.CheckTotals())
	})
}

func TestCartItemLookup(t *testing.T) {
	cart := &models.Cart{Items: []models.CartItem{{ID: 10, Quantity: 1}}}

	found, ok := cart.Item(10)
	require.True(t, ok)
	assert.Equal(t, int64(10), found.ID)

	_, ok = cart.Item(11)
	assert.False(t, ok)
}

func TestTotalProducts(t *testing.T) {
	categories := []models.Category{
		{ID: 1, ProductsCount: 4},
		{ID: 2, ProductsCount: 6},
	}

	assert.Equal(t, 10, models.TotalProducts(categories))
	assert.Zero(t, models.TotalProducts(nil))
}
