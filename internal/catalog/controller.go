// Package catalog implements the product listing flow: view-mode
// resolution, paginated fetches, the favorite-badge overlay and the
// add-to-cart / toggle-favorite mutations.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/kubukshop/storefront/internal/api"
	"github.com/kubukshop/storefront/internal/config"
	"github.com/kubukshop/storefront/internal/models"
	"github.com/kubukshop/storefront/internal/notify"
)

// API is the slice of the shop client the controller consumes.
type API interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Products(ctx context.Context, page int) (*models.ProductPage, error)
	CategoryProducts(ctx context.Context, categoryID int64, page int) (*models.ProductPage, error)
	SearchProducts(ctx context.Context, q string, page int) (*models.ProductPage, error)
	Product(ctx context.Context, id int64) (*models.Product, error)
	Favorites(ctx context.Context) ([]models.Favorite, error)
	ToggleFavorite(ctx context.Context, req *models.ToggleFavoriteRequest) (*models.ToggleFavoriteResult, error)
	AddCartItem(ctx context.Context, req *models.AddToCartRequest) (*models.Cart, error)
}

type Controller struct {
	api      API
	tokens   api.TokenSource
	notifier *notify.Notifier
	pageSize int
	debounce time.Duration

	onCartChanged      func()
	onFavoritesChanged func(delta int)

	mu          sync.Mutex
	query       Query
	page        int
	totalPages  int
	products    []models.Product
	favoriteIDs map[int64]struct{}
	categories  []models.Category
	loading     bool
	lastErr     error
	// seq grows on every dispatched load; a response whose seq is no
	// longer current is stale and must not overwrite newer state.
	seq         uint64
	searchTimer *time.Timer
}

func New(apiClient API, tokens api.TokenSource, notifier *notify.Notifier, cfg config.Catalog) *Controller {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	return &Controller{
		api:         apiClient,
		tokens:      tokens,
		notifier:    notifier,
		pageSize:    pageSize,
		debounce:    cfg.SearchDebounce,
		page:        1,
		totalPages:  1,
		favoriteIDs: make(map[int64]struct{}),
	}
}

// OnCartChanged registers the cart-badge refresh hook fired after a
// successful add-to-cart.
func (c *Controller) OnCartChanged(fn func()) {
	c.onCartChanged = fn
}

// OnFavoritesChanged registers the favorites-badge hook; delta is +1 or -1.
func (c *Controller) OnFavoritesChanged(fn func(delta int)) {
	c.onFavoritesChanged = fn
}

func (c *Controller) LoadCategories(ctx context.Context) error {
	categories, err := c.api.Categories(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.categories = categories
	c.mu.Unlock()

	return nil
}

// SetQuery replaces the route signals wholesale, resets pagination to the
// first page and re-enters precedence evaluation.
func (c *Controller) SetQuery(ctx context.Context, q Query) {
	c.mu.Lock()
	c.query = q
	c.page = 1
	c.mu.Unlock()

	c.Reload(ctx)
}

// SelectCategory reacts to the sidebar: category id 0 means "all
// products". Leaves any single-product or search signal behind.
func (c *Controller) SelectCategory(ctx context.Context, categoryID int64) {
	c.mu.Lock()
	c.query = Query{CategoryID: categoryID}
	c.page = 1
	c.mu.Unlock()

	c.Reload(ctx)
}

func (c *Controller) OpenProduct(ctx context.Context, productID int64) {
	c.mu.Lock()
	c.query.ProductID = productID
	c.page = 1
	c.mu.Unlock()

	c.Reload(ctx)
}

// Search issues an immediate search (a submitted query, not a keystroke).
func (c *Controller) Search(ctx context.Context, text string) {
	c.mu.Lock()
	c.query.Search = text
	c.query.ProductID = 0
	c.page = 1
	c.mu.Unlock()

	c.Reload(ctx)
}

// SearchInput handles one keystroke of the search box. The fetch is
// delayed by the debounce interval and re-armed on every call, so fast
// typing issues a single request after the last keystroke.
func (c *Controller) SearchInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query.Search = text
	c.query.ProductID = 0
	c.page = 1

	if c.searchTimer != nil {
		c.searchTimer.Stop()
	}

	c.searchTimer = time.AfterFunc(c.debounce, func() {
		c.Reload(context.Background())
	})
}

func (c *Controller) SetPage(ctx context.Context, page int) {
	c.mu.Lock()
	if page < 1 {
		page = 1
	}
	if page > c.totalPages {
		page = c.totalPages
	}
	c.page = page
	c.mu.Unlock()

	c.Reload(ctx)
}

func (c *Controller) NextPage(ctx context.Context) {
	c.mu.Lock()
	page := c.page + 1
	c.mu.Unlock()

	c.SetPage(ctx, page)
}

func (c *Controller) PrevPage(ctx context.Context) {
	c.mu.Lock()
	page := c.page - 1
	c.mu.Unlock()

	c.SetPage(ctx, page)
}

// Retry re-issues the last load after a failure.
func (c *Controller) Retry(ctx context.Context) {
	c.Reload(ctx)
}

// Reload dispatches the fetch for the active view mode, then overlays the
// favorite membership of the displayed products. Responses that lost the
// race to a newer dispatch are discarded.
func (c *Controller) Reload(ctx context.Context) {
	c.mu.Lock()
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}
	c.seq++
	seq := c.seq
	c.loading = true
	query, page := c.query, c.page
	c.mu.Unlock()

	pageData, err := c.fetch(ctx, query, page)

	var favoriteIDs map[int64]struct{}
	if err == nil {
		// Secondary enrichment fetch, badge rendering only; starts after
		// the primary fetch resolved.
		favoriteIDs = c.fetchFavoriteIDs(ctx, pageData.Products)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		slog.Debug("discarding stale catalog response", slog.Uint64("seq", seq), slog.Uint64("current", c.seq))

		return
	}

	c.loading = false

	if err != nil {
		c.lastErr = err

		return
	}

	c.lastErr = nil
	c.products = pageData.Products
	c.totalPages = totalPages(query, pageData.Count, c.pageSize)
	c.favoriteIDs = favoriteIDs
}

func (c *Controller) fetch(ctx context.Context, q Query, page int) (*models.ProductPage, error) {
	switch ResolveMode(q) {
	case ModeSingleProduct:
		product, err := c.api.Product(ctx, q.ProductID)
		if err != nil {
			return nil, err
		}

		return &models.ProductPage{Count: 1, Products: []models.Product{*product}}, nil
	case ModeSearch:
		return c.api.SearchProducts(ctx, strings.TrimSpace(q.Search), page)
	case ModeCategory:
		return c.api.CategoryProducts(ctx, q.CategoryID, page)
	default:
		return c.api.Products(ctx, page)
	}
}

func totalPages(q Query, count, pageSize int) int {
	if ResolveMode(q) == ModeSingleProduct {
		return 1
	}

	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}

	return pages
}

// fetchFavoriteIDs reduces the full favorites list to the membership set
// of the displayed products. Failures only cost the badges, never the
// listing, so they are logged and swallowed.
// The result is never nil: later toggles insert into it directly.
func (c *Controller) fetchFavoriteIDs(ctx context.Context, products []models.Product) map[int64]struct{} {
	ids := make(map[int64]struct{})

	if c.tokens.Token() == "" {
		return ids
	}

	favorites, err := c.api.Favorites(ctx)
	if err != nil {
		slog.Warn("failed to load favorites for badge overlay", slog.String("error", err.Error()))

		return ids
	}

	favorited := make(map[int64]struct{}, len(favorites))
	for _, favorite := range favorites {
		favorited[favorite.Product.ID] = struct{}{}
	}

	for _, product := range products {
		if _, ok := favorited[product.ID]; ok {
			ids[product.ID] = struct{}{}
		}
	}

	return ids
}

// AddToCart adds one unit of the product. Requires a token: the login
// prompt is the UI's responsibility, so the call is aborted before
// dispatch when logged out.
func (c *Controller) AddToCart(ctx context.Context, product models.Product) {
	if c.tokens.Token() == "" {
		c.notifier.Warn("Для добавления товара в корзину необходимо войти в систему")

		return
	}

	_, err := c.api.AddCartItem(ctx, &models.AddToCartRequest{ProductID: product.ID, Quantity: 1})
	if err != nil {
		c.notifier.Error(fmt.Sprintf("Не удалось добавить товар в корзину: %s", err))

		return
	}

	c.notifier.Success(fmt.Sprintf("Товар «%s» успешно добавлен в корзину!", product.Name))

	if c.onCartChanged != nil {
		c.onCartChanged()
	}
}

// ToggleFavorite flips the product's membership and updates the local
// badge set from the server's answer.
func (c *Controller) ToggleFavorite(ctx context.Context, product models.Product) {
	if c.tokens.Token() == "" {
		c.notifier.Warn("Для работы с избранным необходимо войти в систему")

		return
	}

	result, err := c.api.ToggleFavorite(ctx, &models.ToggleFavoriteRequest{ProductID: product.ID})
	if err != nil {
		c.notifier.Error(fmt.Sprintf("Не удалось обновить избранное: %s", err))

		return
	}

	delta := -1

	c.mu.Lock()
	if result.IsFavorited {
		c.favoriteIDs[product.ID] = struct{}{}
		delta = 1
	} else {
		delete(c.favoriteIDs, product.ID)
	}
	c.mu.Unlock()

	if result.IsFavorited {
		c.notifier.Success(fmt.Sprintf("Товар «%s» добавлен в избранное!", product.Name))
	} else {
		c.notifier.Success(fmt.Sprintf("Товар «%s» убран из избранного!", product.Name))
	}

	if c.onFavoritesChanged != nil {
		c.onFavoritesChanged(delta)
	}
}

// --- snapshot accessors ---

func (c *Controller) Products() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Product, len(c.products))
	copy(out, c.products)

	return out
}

func (c *Controller) Categories() []models.Category {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Category, len(c.categories))
	copy(out, c.categories)

	return out
}

func (c *Controller) Mode() ViewMode {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ResolveMode(c.query)
}

func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.page
}

func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.totalPages
}

func (c *Controller) Window() Window {
	c.mu.Lock()
	defer c.mu.Unlock()

	return PageWindow(c.page, c.totalPages)
}

func (c *Controller) IsFavorite(productID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.favoriteIDs[productID]

	return ok
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loading
}

func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastErr
}
