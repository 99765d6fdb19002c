package domain

import "time"

// Product represents a catalog product. Prices are in minor currency units.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	SKU         string    `json:"sku,omitempty"`
	Price       int64     `json:"price"`
	Images      []string  `json:"images"`
	Stock       int       `json:"stock"`
	Rating      float64   `json:"rating"`
	NumReviews  int       `json:"num_reviews"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FirstImage returns the first product image, or "" when none exist.
// Order lines snapshot this at creation time.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
