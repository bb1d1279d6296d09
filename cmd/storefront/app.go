package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kubukshop/storefront/internal/account"
	"github.com/kubukshop/storefront/internal/cart"
	"github.com/kubukshop/storefront/internal/catalog"
	apperrors "github.com/kubukshop/storefront/internal/errors"
	"github.com/kubukshop/storefront/internal/favorites"
	"github.com/kubukshop/storefront/internal/models"
	"github.com/kubukshop/storefront/internal/ui"
)

// app is the interactive page shell: it reads commands, delegates to the
// controllers and renders their snapshots.
type app struct {
	in  *bufio.Scanner
	out io.Writer

	catalog   *catalog.Controller
	cart      *cart.Panel
	favorites *favorites.Panel
	account   *account.Service
}

func newApp(in io.Reader, out io.Writer) *app {
	return &app{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

func (a *app) attach(catalogCtrl *catalog.Controller, cartPanel *cart.Panel, favoritesPanel *favorites.Panel, accountSvc *account.Service) {
	a.catalog = catalogCtrl
	a.cart = cartPanel
	a.favorites = favoritesPanel
	a.account = accountSvc
}

// confirm implements the destructive-action prompt for the cart panel.
func (a *app) confirm(prompt string) bool {
	fmt.Fprintf(a.out, "%s [y/N]: ", prompt)

	if !a.in.Scan() {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(a.in.Text()))

	return answer == "y" || answer == "да"
}

func (a *app) prompt(label string) string {
	fmt.Fprintf(a.out, "%s: ", label)

	if !a.in.Scan() {
		return ""
	}

	return strings.TrimSpace(a.in.Text())
}

func (a *app) run(ctx context.Context) {
	fmt.Fprintln(a.out, "Добро пожаловать в KubukShop! Введите help для списка команд.")

	if err := a.catalog.LoadCategories(ctx); err != nil {
		fmt.Fprintln(a.out, "Не удалось загрузить категории. Проверьте, запущен ли сервер.")
	}

	a.catalog.Reload(ctx)
	a.renderCatalog()

	for {
		fmt.Fprint(a.out, "> ")

		if !a.in.Scan() {
			return
		}

		line := strings.TrimSpace(a.in.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		command, args := fields[0], fields[1:]

		if command == "quit" || command == "exit" {
			return
		}

		a.dispatch(ctx, command, args)
	}
}

func (a *app) dispatch(ctx context.Context, command string, args []string) {
	switch command {
	case "help":
		a.printHelp()
	case "categories":
		ui.RenderCategories(a.out, a.catalog.Categories(), 0)
	case "list":
		a.catalog.SelectCategory(ctx, 0)
		a.renderCatalog()
	case "cat":
		if id, ok := argID(a.out, args); ok {
			a.catalog.SelectCategory(ctx, id)
			a.renderCatalog()
		}
	case "search":
		a.catalog.Search(ctx, strings.Join(args, " "))
		a.renderCatalog()
	case "open":
		if id, ok := argID(a.out, args); ok {
			a.catalog.OpenProduct(ctx, id)
			a.renderCatalog()
		}
	case "page":
		if id, ok := argID(a.out, args); ok {
			a.catalog.SetPage(ctx, int(id))
			a.renderCatalog()
		}
	case "next":
		a.catalog.NextPage(ctx)
		a.renderCatalog()
	case "prev":
		a.catalog.PrevPage(ctx)
		a.renderCatalog()
	case "retry":
		a.catalog.Retry(ctx)
		a.renderCatalog()
	case "add":
		if product, ok := a.displayedProduct(args); ok {
			a.catalog.AddToCart(ctx, product)
		}
	case "fav":
		if product, ok := a.displayedProduct(args); ok {
			a.catalog.ToggleFavorite(ctx, product)
		}
	case "cart":
		if err := a.cart.Refresh(ctx); err == nil {
			ui.RenderCart(a.out, a.cart.Cart())
		} else if apperrors.IsRetryable(err) {
			fmt.Fprintln(a.out, "Не удалось загрузить корзину. Введите cart, чтобы попробовать снова.")
		}
	case "inc", "dec", "remove":
		a.mutateCart(ctx, command, args)
	case "clear":
		if err := a.cart.Clear(ctx); err == nil && a.cart.Cart() != nil {
			ui.RenderCart(a.out, a.cart.Cart())
		}
	case "checkout":
		a.cart.Checkout()
	case "favorites":
		if err := a.favorites.Load(ctx); err == nil {
			ui.RenderFavorites(a.out, a.favorites.Entries())
		}
	case "orders":
		a.showOrders(ctx)
	case "login":
		a.login(ctx)
	case "register":
		a.register(ctx)
	case "profile":
		a.showProfile()
	case "edit":
		a.editProfile(ctx)
	case "logout":
		a.account.Logout()
		fmt.Fprintln(a.out, "Вы вышли из системы.")
	default:
		fmt.Fprintf(a.out, "Неизвестная команда: %s. Введите help.\n", command)
	}
}

func (a *app) renderCatalog() {
	if err := a.catalog.Err(); err != nil {
		fmt.Fprintln(a.out, "Не удалось загрузить товары. Введите retry, чтобы попробовать снова.")

		return
	}

	products := a.catalog.Products()
	fmt.Fprintf(a.out, "Найдено товаров: %d\n", len(products))
	ui.RenderProducts(a.out, products, a.catalog.IsFavorite)
	ui.RenderPagination(a.out, a.catalog.Window(), a.catalog.Page(), a.catalog.TotalPages())
}

// displayedProduct resolves a product id argument against the current
// listing; mutations act on what is on screen.
func (a *app) displayedProduct(args []string) (models.Product, bool) {
	id, ok := argID(a.out, args)
	if !ok {
		return models.Product{}, false
	}

	for _, product := range a.catalog.Products() {
		if product.ID == id {
			return product, true
		}
	}

	fmt.Fprintf(a.out, "Товар %d не найден на этой странице.\n", id)

	return models.Product{}, false
}

func (a *app) mutateCart(ctx context.Context, command string, args []string) {
	itemID, ok := argID(a.out, args)
	if !ok {
		return
	}

	var err error

	switch command {
	case "inc":
		err = a.cart.Increment(ctx, itemID)
	case "dec":
		err = a.cart.Decrement(ctx, itemID)
	case "remove":
		err = a.cart.Remove(ctx, itemID)
	}

	if err == nil && a.cart.Cart() != nil {
		ui.RenderCart(a.out, a.cart.Cart())
	}
}

func (a *app) showOrders(ctx context.Context) {
	orders, err := a.account.Orders(ctx)
	if err != nil {
		if appErr, ok := apperrors.IsAppError(err); ok && appErr.Code == apperrors.ErrCodeUnauthorized {
			fmt.Fprintln(a.out, "Для просмотра заказов необходимо войти в систему")
		} else {
			fmt.Fprintln(a.out, "Ошибка загрузки заказов. Введите orders, чтобы попробовать снова.")
		}

		return
	}

	ui.RenderOrders(a.out, orders)
}

func (a *app) login(ctx context.Context) {
	req := &models.LoginRequest{
		Email:    a.prompt("Email"),
		Password: a.prompt("Пароль"),
	}

	user, err := a.account.Login(ctx, req)
	if err != nil {
		fmt.Fprintf(a.out, "Ошибка входа: %s\n", loginFailureText(err))

		return
	}

	fmt.Fprintf(a.out, "Добро пожаловать, %s!\n", user.FullName())

	// Re-enter the listing so favorite badges reflect the new session.
	a.catalog.Reload(ctx)
}

func loginFailureText(err error) string {
	if appErr, ok := apperrors.IsAppError(err); ok && appErr.Detail != "" {
		return appErr.Detail
	}

	return "Проверьте email и пароль."
}

func (a *app) register(ctx context.Context) {
	req := &models.RegisterRequest{
		Username:  a.prompt("Логин"),
		Email:     a.prompt("Email"),
		FirstName: a.prompt("Имя"),
		LastName:  a.prompt("Фамилия"),
		Password:  a.prompt("Пароль"),
	}
	req.RePassword = a.prompt("Повторите пароль")

	user, err := a.account.Register(ctx, req)
	if err != nil {
		fmt.Fprintf(a.out, "Ошибка регистрации: %s\n", err)

		return
	}

	fmt.Fprintf(a.out, "Регистрация завершена. Добро пожаловать, %s!\n", user.FullName())
}

func (a *app) showProfile() {
	user := a.account.CurrentUser()
	if user == nil {
		fmt.Fprintln(a.out, "Для просмотра профиля необходимо войти в систему")

		return
	}

	ui.RenderProfile(a.out, user)
}

func (a *app) editProfile(ctx context.Context) {
	if !a.account.LoggedIn() {
		fmt.Fprintln(a.out, "Для редактирования профиля необходимо войти в систему")

		return
	}

	req := &models.UpdateProfileRequest{}

	if email := a.prompt("Email (пусто — без изменений)"); email != "" {
		req.Email = &email
	}
	if firstName := a.prompt("Имя (пусто — без изменений)"); firstName != "" {
		req.FirstName = &firstName
	}
	if lastName := a.prompt("Фамилия (пусто — без изменений)"); lastName != "" {
		req.LastName = &lastName
	}

	user, err := a.account.UpdateProfile(ctx, req)
	if err != nil {
		fmt.Fprintf(a.out, "Не удалось обновить профиль: %s\n", err)

		return
	}

	ui.RenderProfile(a.out, user)
}

func (a *app) printHelp() {
	fmt.Fprintln(a.out, `Команды:
  list                    все товары
  categories              список категорий
  cat <id>                товары категории
  search <текст>          поиск по названию
  open <id>               карточка товара
  page <n> | next | prev  пагинация
  retry                   повторить последний запрос
  add <id>                добавить товар в корзину
  fav <id>                добавить/убрать из избранного
  cart                    корзина
  inc/dec <item>          изменить количество
  remove <item>           удалить из корзины
  clear                   очистить корзину
  checkout                оформить заказ
  favorites               избранные товары
  orders                  история заказов
  login/register/logout   вход, регистрация, выход
  profile | edit          профиль
  quit                    выход из программы`)
}

func argID(out io.Writer, args []string) (int64, bool) {
	if len(args) == 0 {
		fmt.Fprintln(out, "Укажите идентификатор.")

		return 0, false
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 0 {
		fmt.Fprintln(out, "Идентификатор должен быть числом.")

		return 0, false
	}

	return id, true
}
