// Package cart drives the cart overlay. The server cart is authoritative:
// every mutation replaces the whole local aggregate with the response
// body, so the copy here can never drift.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/kubukshop/storefront/internal/api"
	apperrors "github.com/kubukshop/storefront/internal/errors"
	"github.com/kubukshop/storefront/internal/models"
	"github.com/kubukshop/storefront/internal/notify"
)

type API interface {
	Cart(ctx context.Context) (*models.Cart, error)
	UpdateCartItem(ctx context.Context, req *models.UpdateCartItemRequest) (*models.Cart, error)
	RemoveCartItem(ctx context.Context, req *models.RemoveCartItemRequest) (*models.Cart, error)
	ClearCart(ctx context.Context) (*models.Cart, error)
}

// ConfirmFunc asks the user to confirm a destructive action.
type ConfirmFunc func(prompt string) bool

type Panel struct {
	api      API
	tokens   api.TokenSource
	notifier *notify.Notifier
	confirm  ConfirmFunc

	mu       sync.Mutex
	cart     *models.Cart
	updating bool
	lastErr  error
}

func NewPanel(apiClient API, tokens api.TokenSource, notifier *notify.Notifier, confirm ConfirmFunc) *Panel {
	if confirm == nil {
		confirm = func(string) bool { return true }
	}

	return &Panel{
		api:      apiClient,
		tokens:   tokens,
		notifier: notifier,
		confirm:  confirm,
	}
}

// CanIncrement reports whether the "+" control is enabled: quantity is
// clamped client-side to the known stock, the server stays authoritative.
func CanIncrement(quantity, stock int) bool {
	return quantity < stock
}

// CanDecrement reports whether the "-" control is enabled; removal, not a
// zero quantity, deletes a line.
func CanDecrement(quantity int) bool {
	return quantity > 1
}

// Refresh fetches the authoritative aggregate. Opening the overlay calls
// this first.
func (p *Panel) Refresh(ctx context.Context) error {
	if p.tokens.Token() == "" {
		p.notifier.Warn("Для просмотра корзины необходимо войти в систему")

		return apperrors.UnauthorizedError("not logged in")
	}

	cart, err := p.api.Cart(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.lastErr = err

		return err
	}

	p.lastErr = nil
	p.cart = cart

	return nil
}

// Increment raises the line quantity by one, clamped to the product
// stock. A no-op while another update is in flight (the controls are
// disabled then) or when already at the clamp edge.
func (p *Panel) Increment(ctx context.Context, itemID int64) error {
	return p.updateQuantity(ctx, itemID, +1)
}

// Decrement lowers the line quantity by one, never below one.
func (p *Panel) Decrement(ctx context.Context, itemID int64) error {
	return p.updateQuantity(ctx, itemID, -1)
}

func (p *Panel) updateQuantity(ctx context.Context, itemID int64, delta int) error {
	p.mu.Lock()

	if p.updating || p.cart == nil {
		p.mu.Unlock()

		return nil
	}

	item, ok := p.cart.Item(itemID)
	if !ok {
		p.mu.Unlock()

		return apperrors.NotFoundError("cart item not found")
	}

	next := item.Quantity + delta
	if delta > 0 && !CanIncrement(item.Quantity, item.Product.Stock) {
		p.mu.Unlock()

		return nil
	}
	if delta < 0 && !CanDecrement(item.Quantity) {
		p.mu.Unlock()

		return nil
	}

	p.updating = true
	p.mu.Unlock()

	cart, err := p.api.UpdateCartItem(ctx, &models.UpdateCartItemRequest{ItemID: itemID, Quantity: next})

	p.mu.Lock()
	defer p.mu.Unlock()

	p.updating = false

	if err != nil {
		p.notifier.Error(fmt.Sprintf("Не удалось обновить количество товара: %s", err))

		return err
	}

	p.cart = cart

	return nil
}

func (p *Panel) Remove(ctx context.Context, itemID int64) error {
	p.mu.Lock()
	if p.updating {
		p.mu.Unlock()

		return nil
	}
	p.updating = true
	p.mu.Unlock()

	cart, err := p.api.RemoveCartItem(ctx, &models.RemoveCartItemRequest{ItemID: itemID})

	p.mu.Lock()
	defer p.mu.Unlock()

	p.updating = false

	if err != nil {
		p.notifier.Error(fmt.Sprintf("Не удалось удалить товар: %s", err))

		return err
	}

	p.cart = cart

	return nil
}

// Clear empties the cart after a destructive-action confirmation.
func (p *Panel) Clear(ctx context.Context) error {
	if !p.confirm("Вы уверены, что хотите очистить корзину?") {
		return nil
	}

	p.mu.Lock()
	if p.updating {
		p.mu.Unlock()

		return nil
	}
	p.updating = true
	p.mu.Unlock()

	cart, err := p.api.ClearCart(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.updating = false

	if err != nil {
		p.notifier.Error(fmt.Sprintf("Не удалось очистить корзину: %s", err))

		return err
	}

	p.cart = cart

	return nil
}

// Checkout is not implemented yet.
func (p *Panel) Checkout() {
	p.notifier.Warn("Функция оформления заказа будет добавлена позже")
}

func (p *Panel) Cart() *models.Cart {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cart
}

// Updating reports an in-flight mutation; the quantity controls are
// disabled while it is true.
func (p *Panel) Updating() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.updating
}

func (p *Panel) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.lastErr
}
