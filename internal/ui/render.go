// Package ui renders the page shell to the terminal. Pure presentation:
// every function writes text derived from models and controller
// snapshots, no business logic and no I/O beyond the writer.
package ui

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"

	"github.com/kubukshop/storefront/internal/catalog"
	"github.com/kubukshop/storefront/internal/models"
	"github.com/kubukshop/storefront/internal/notify"
)

// sanitizer strips any HTML the server put into description fields before
// the text reaches the terminal.
var sanitizer = bluemonday.StrictPolicy()

func CleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(s)))
}

// FormatPrice renders a price in whole currency units, matching the shop
// UI ("15 ₽", not "15.00 ₽").
func FormatPrice(price decimal.Decimal) string {
	return price.StringFixed(0) + " ₽"
}

func RenderCategories(w io.Writer, categories []models.Category, selected int64) {
	fmt.Fprintln(w, "Категории товаров")

	marker := " "
	if selected == 0 {
		marker = ">"
	}
	fmt.Fprintf(w, "%s [0] Все товары (%d)\n", marker, models.TotalProducts(categories))

	for _, category := range categories {
		marker = " "
		if category.ID == selected {
			marker = ">"
		}

		fmt.Fprintf(w, "%s [%d] %s (%d)\n", marker, category.ID, category.Name, category.ProductsCount)

		if description := CleanText(category.Description); description != "" {
			fmt.Fprintf(w, "      %s\n", description)
		}
	}
}

func RenderProducts(w io.Writer, products []models.Product, isFavorite func(int64) bool) {
	if len(products) == 0 {
		fmt.Fprintln(w, "Товары не найдены")
		fmt.Fprintln(w, "Попробуйте выбрать другую категорию или изменить параметры поиска")

		return
	}

	for _, product := range products {
		badge := " "
		if isFavorite != nil && isFavorite(product.ID) {
			badge = "♥"
		}

		stock := "Нет в наличии"
		if product.InStock() {
			stock = fmt.Sprintf("В наличии: %d шт.", product.Stock)
		}

		fmt.Fprintf(w, "%s [%d] %s — %s (%s)\n", badge, product.ID, product.Name, FormatPrice(product.Price), stock)

		if description := CleanText(product.Description); description != "" {
			fmt.Fprintf(w, "      %s\n", description)
		}
	}
}

// RenderPagination draws the control strip computed by catalog.PageWindow.
// An empty window renders nothing at all.
func RenderPagination(w io.Writer, window catalog.Window, current int, total int) {
	if window.Empty() {
		return
	}

	var parts []string

	if window.HasPrev {
		parts = append(parts, "« Назад")
	}

	if window.ShowFirst {
		parts = append(parts, "1")
	}
	if window.LeadingGap {
		parts = append(parts, "…")
	}

	for _, page := range window.Pages {
		if page == current {
			parts = append(parts, "["+strconv.Itoa(page)+"]")
		} else {
			parts = append(parts, strconv.Itoa(page))
		}
	}

	if window.TrailingGap {
		parts = append(parts, "…")
	}
	if window.ShowLast {
		parts = append(parts, strconv.Itoa(total))
	}

	if window.HasNext {
		parts = append(parts, "Вперед »")
	}

	fmt.Fprintln(w, strings.Join(parts, "  "))
}

func RenderCart(w io.Writer, cart *models.Cart) {
	fmt.Fprintln(w, "Корзина покупок")

	if cart.IsEmpty() {
		fmt.Fprintln(w, "Корзина пуста")
		fmt.Fprintln(w, "Добавьте товары в корзину для оформления заказа")

		return
	}

	for _, item := range cart.Items {
		fmt.Fprintf(w, "  [%d] %s — %s за шт. × %d = %s\n",
			item.ID, item.Product.Name, FormatPrice(item.Product.Price), item.Quantity, FormatPrice(item.TotalPrice))
	}

	fmt.Fprintf(w, "Товаров в корзине: %d\n", cart.TotalItems)
	fmt.Fprintf(w, "Итого: %s\n", FormatPrice(cart.TotalPrice))
}

func RenderFavorites(w io.Writer, favorites []models.Favorite) {
	fmt.Fprintf(w, "Избранные товары: %d\n", len(favorites))

	if len(favorites) == 0 {
		fmt.Fprintln(w, "У вас пока нет избранных товаров")

		return
	}

	for _, favorite := range favorites {
		stock := "Нет в наличии"
		if favorite.Product.InStock() {
			stock = fmt.Sprintf("В наличии: %d шт.", favorite.Product.Stock)
		}

		fmt.Fprintf(w, "♥ [%d] %s — %s (%s)\n",
			favorite.Product.ID, favorite.Product.Name, FormatPrice(favorite.Product.Price), stock)
	}
}

func RenderOrders(w io.Writer, orders []models.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "У вас пока нет заказов")

		return
	}

	for _, order := range orders {
		fmt.Fprintf(w, "Заказ №%d от %s — %s %s — %s\n",
			order.ID, order.CreatedAt.Format("02.01.2006 15:04"), order.Status.Icon(), order.Status, FormatPrice(order.TotalPrice))

		for _, item := range order.Items {
			fmt.Fprintf(w, "    %s × %d = %s\n", item.Product.Name, item.Quantity, FormatPrice(item.TotalPrice))
		}
	}
}

func RenderProfile(w io.Writer, user *models.User) {
	fmt.Fprintf(w, "Профиль: %s\n", user.FullName())
	fmt.Fprintf(w, "  Логин: %s\n", user.Username)
	fmt.Fprintf(w, "  Email: %s\n", user.Email)

	if !user.DateJoined.IsZero() {
		fmt.Fprintf(w, "  Дата регистрации: %s\n", user.DateJoined.Format("02.01.2006"))
	}
}

// RenderNotification draws one toast line.
func RenderNotification(w io.Writer, notification notify.Notification) {
	prefix := "✓"

	switch notification.Kind {
	case notify.KindError:
		prefix = "✗"
	case notify.KindWarning:
		prefix = "!"
	}

	fmt.Fprintf(w, "%s %s\n", prefix, notification.Message)
}
