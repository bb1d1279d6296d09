// Package favorites drives the favorites page: the full list, the toggle
// flow and the badge count.
package favorites

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
	Favorites(ctx context.Context) ([]models.Favorite, error)
	ToggleFavorite(ctx context.Context, req *models.ToggleFavoriteRequest) (*models.ToggleFavoriteResult, error)
	FavoritesCount(ctx context.Context) (int, error)
	AddCartItem(ctx context.Context, req *models.AddToCartRequest) (*models.Cart, error)
}

type Panel struct {
	api      API
	tokens   api.TokenSource
	notifier *notify.Notifier

	mu      sync.Mutex
	entries []models.Favorite
	count   int
	lastErr error
}

func NewPanel(apiClient API, tokens api.TokenSource, notifier *notify.Notifier) *Panel {
	return &Panel{api: apiClient, tokens: tokens, notifier: notifier}
}

func (p *Panel) Load(ctx context.Context) error {
	if p.tokens.Token() == "" {
		p.notifier.Warn("Для просмотра избранного необходимо войти в систему")

		return apperrors.UnauthorizedError("not logged in")
	}

	entries, err := p.api.Favorites(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.lastErr = err

		return err
	}

	p.lastErr = nil
	p.entries = entries
	p.count = len(entries)

	return nil
}

// Toggle flips membership. On this page a successful "removed" answer
// also drops the entry locally, so the list updates without a refetch.
func (p *Panel) Toggle(ctx context.Context, product models.Product) {
	if p.tokens.Token() == "" {
		p.notifier.Warn("Для работы с избранным необходимо войти в систему")

		return
	}

	result, err := p.api.ToggleFavorite(ctx, &models.ToggleFavoriteRequest{ProductID: product.ID})
	if err != nil {
		p.notifier.Error(fmt.Sprintf("Не удалось обновить избранное: %s", err))

		return
	}

	p.mu.Lock()
	if result.IsFavorited {
		p.count++
	} else {
		kept := p.entries[:0]
		for _, entry := range p.entries {
			if entry.Product.ID != product.ID {
				kept = append(kept, entry)
			}
		}
		p.entries = kept

		if p.count > 0 {
			p.count--
		}
	}
	p.mu.Unlock()

	if result.IsFavorited {
		p.notifier.Success(fmt.Sprintf("Товар «%s» добавлен в избранное!", product.Name))
	} else {
		p.notifier.Success(fmt.Sprintf("Товар «%s» убран из избранного!", product.Name))
	}
}

func (p *Panel) AddToCart(ctx context.Context, product models.Product) {
	if p.tokens.Token() == "" {
		p.notifier.Warn("Для добавления товара в корзину необходимо войти в систему")

		return
	}

	_, err := p.api.AddCartItem(ctx, &models.AddToCartRequest{ProductID: product.ID, Quantity: 1})
	if err != nil {
		p.notifier.Error(fmt.Sprintf("Не удалось добавить товар в корзину: %s", err))

		return
	}

	p.notifier.Success(fmt.Sprintf("Товар «%s» успешно добавлен в корзину!", product.Name))
}

// RefreshCount re-reads the badge count from the dedicated endpoint.
func (p *Panel) RefreshCount(ctx context.Context) error {
	if p.tokens.Token() == "" {
		return nil
	}

	count, err := p.api.FavoritesCount(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.count = count
	p.mu.Unlock()

	return nil
}

// AdjustCount applies a badge delta pushed by another page, floored at 0.
func (p *Panel) AdjustCount(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.count += delta
	if p.count < 0 {
		p.count = 0
	}
}

func (p *Panel) Entries() []models.Favorite {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]models.Favorite, len(p.entries))
	copy(out, p.entries)

	return out
}

func (p *Panel) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.count
}

func (p *Panel) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.lastErr
}
