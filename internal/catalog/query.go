package catalog

import "strings"

// ViewMode selects which catalog fetch is issued.
type ViewMode int

const (
	ModeAllProducts ViewMode = iota
	ModeCategory
	ModeSearch
	ModeSingleProduct
)

func (m ViewMode) String() string {
	switch m {
	case ModeSingleProduct:
		return "single-product"
	case ModeSearch:
		return "search"
	case ModeCategory:
		return "category"
	default:
		return "all-products"
	}
}

// Query carries the signals extracted from the route: an explicit product
// id, a free-text search string and a selected category. The signals are
// independent; precedence decides which one wins.
type Query struct {
	ProductID  int64
	Search     string
	CategoryID int64
}

// ResolveMode applies the fixed precedence order: single-product beats
// search beats category beats all-products, regardless of the order the
// signals arrived in.
func ResolveMode(q Query) ViewMode {
	switch {
	case q.ProductID != 0:
		return ModeSingleProduct
	case strings.TrimSpace(q.Search) != "":
		return ModeSearch
	case q.CategoryID != 0:
		return ModeCategory
	default:
		return ModeAllProducts
	}
}
