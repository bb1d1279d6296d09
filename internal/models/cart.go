package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID         int64           `json:"id"`
	Product    Product         `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Cart is the server-held aggregate. The client keeps a transient copy
// that is replaced wholesale by the response of every mutation.
type Cart struct {
	ID         int64           `json:"id"`
	Items      []CartItem      `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

func (c *Cart) Item(itemID int64) (*CartItem, bool) {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i], true
		}
	}

	return nil, false
}

// CheckTotals verifies the aggregate invariants: total_price equals the
// sum of line totals and total_items equals the sum of quantities.
func (c *Cart) CheckTotals() error {
	sumPrice := decimal.Zero
	sumItems := 0

	for _, item := range c.Items {
		sumPrice = sumPrice.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		sumItems += item.Quantity
	}

	if !c.TotalPrice.Equal(sumPrice) {
		return fmt.Errorf("cart total_price %s does not match line totals %s", c.TotalPrice, sumPrice)
	}

	if c.TotalItems != sumItems {
		return fmt.Errorf("cart total_items %d does not match quantity sum %d", c.TotalItems, sumItems)
	}

	return nil
}

type AddToCartRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	ItemID   int64 `json:"item_id" validate:"required"`
	Quantity int   `json:"quantity" validate:"required,min=1"`
}

type RemoveCartItemRequest struct {
	ItemID int64 `json:"item_id" validate:"required"`
}
