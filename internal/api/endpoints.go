package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	apperrors "github.com/kubukshop/storefront/internal/errors"
	"github.com/kubukshop/storefront/internal/models"
)

// --- catalog ---

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.get(ctx, "/api/categories/", nil, &categories); err != nil {
		return nil, err
	}

	return categories, nil
}

func (c *Client) Products(ctx context.Context, page int) (*models.ProductPage, error) {
	return c.productPage(ctx, "/api/products/", pageQuery(page))
}

func (c *Client) CategoryProducts(ctx context.Context, categoryID int64, page int) (*models.ProductPage, error) {
	path := fmt.Sprintf("/api/categories/%d/products/", categoryID)

	return c.productPage(ctx, path, pageQuery(page))
}

func (c *Client) SearchProducts(ctx context.Context, q string, page int) (*models.ProductPage, error) {
	query := pageQuery(page)
	query.Set("q", q)

	return c.productPage(ctx, "/api/products/search/", query)
}

func (c *Client) Product(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := c.get(ctx, fmt.Sprintf("/api/products/%d/", id), nil, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

func pageQuery(page int) url.Values {
	query := url.Values{}
	if page > 1 {
		query.Set("page", strconv.Itoa(page))
	}

	return query
}

// productPage fetches a listing and normalizes it: the server answers
// with a {count, results} envelope on paginated routes and a bare array
// on a few legacy ones. Both collapse to ProductPage here so nothing
// downstream branches on wire shape.
func (c *Client) productPage(ctx context.Context, path string, query url.Values) (*models.ProductPage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, path, query, &raw); err != nil {
		return nil, err
	}

	return decodeProductPage(raw)
}

type productEnvelope struct {
	Count   int             `json:"count"`
	Results []models.Product `json:"results"`
}

func decodeProductPage(raw []byte) (*models.ProductPage, error) {
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var products []models.Product
		if err := json.Unmarshal(trimmed, &products); err != nil {
			return nil, apperrors.ServerError("unexpected response body", http.StatusOK).WithError(err)
		}

		return &models.ProductPage{Count: len(products), Products: products}, nil
	}

	var envelope productEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, apperrors.ServerError("unexpected response body", http.StatusOK).WithError(err)
	}

	return &models.ProductPage{Count: envelope.Count, Products: envelope.Results}, nil
}

// --- cart ---

func (c *Client) Cart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.get(ctx, "/api/cart/", nil, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

func (c *Client) AddCartItem(ctx context.Context, req *models.AddToCartRequest) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, http.MethodPost, "/api/cart/add_item/", nil, req, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, req *models.UpdateCartItemRequest) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, http.MethodPut, "/api/cart/update_item/", nil, req, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, req *models.RemoveCartItemRequest) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, http.MethodDelete, "/api/cart/remove_item/", nil, req, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

func (c *Client) ClearCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, http.MethodDelete, "/api/cart/clear_cart/", nil, nil, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

// --- favorites ---

func (c *Client) Favorites(ctx context.Context) ([]models.Favorite, error) {
	var favorites []models.Favorite
	if err := c.get(ctx, "/api/favorites/", nil, &favorites); err != nil {
		return nil, err
	}

	return favorites, nil
}

func (c *Client) ToggleFavorite(ctx context.Context, req *models.ToggleFavoriteRequest) (*models.ToggleFavoriteResult, error) {
	var result models.ToggleFavoriteResult
	if err := c.do(ctx, http.MethodPost, "/api/favorites/toggle/", nil, req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) FavoritesCount(ctx context.Context) (int, error) {
	var count models.FavoritesCount
	if err := c.get(ctx, "/api/favorites/count/", nil, &count); err != nil {
		return 0, err
	}

	return count.Count, nil
}

// --- auth, profile, orders ---

func (c *Client) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/auth/users/", nil, req, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/token/login/", nil, req, &resp); err != nil {
		return "", err
	}

	return resp.AuthToken, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "/auth/users/me/", nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPatch, "/auth/users/me/", nil, req, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.get(ctx, "/api/orders/", nil, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}
