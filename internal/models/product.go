package models

import "github.com/shopspring/decimal"

type Category struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Slug          string `json:"slug"`
	Image         string `json:"image,omitempty"`
	ProductsCount int    `json:"products_count"`
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Slug        string          `json:"slug"`
	Category    *Category       `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Image       string          `json:"image,omitempty"`
	IsAvailable bool            `json:"is_available"`
	IsFeatured  bool            `json:"is_featured"`
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}

// ProductPage is the one internal shape every listing response is reduced
// to, whether the server answered with a {count, results} envelope or a
// bare array. Downstream code never branches on the wire shape.
type ProductPage struct {
	Count    int
	Products []Product
}

// TotalProducts sums per-category counts for the "all products" entry of
// the category sidebar.
func TotalProducts(categories []Category) int {
	total := 0
	for _, c := range categories {
		total += c.ProductsCount
	}

	return total
}
