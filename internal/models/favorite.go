package models

import "time"

// Favorite has set semantics per user: a product appears at most once.
type Favorite struct {
	ID        int64     `json:"id"`
	Product   Product   `json:"product"`
	CreatedAt time.Time `json:"created_at"`
}

type ToggleFavoriteRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
}

// ToggleFavoriteResult reports the membership state after the flip.
type ToggleFavoriteResult struct {
	IsFavorited bool `json:"is_favorited"`
}

type FavoritesCount struct {
	Count int `json:"count"`
}
