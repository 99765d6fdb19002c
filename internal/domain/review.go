package domain

import "time"

// Review represents a product review. A user may review a given product at
// most once; the (product_id, user_id) pair is unique.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	Helpful   int       `json:"helpful"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingSummary is the aggregate used to refresh a product's rating fields
// after any review mutation.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
